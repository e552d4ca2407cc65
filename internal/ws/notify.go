package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TeamFormedEvent struct {
	Type      string `json:"type"`
	ProjectID string `json:"project"`
	TeamID    int64  `json:"team_id"`
	Size      int    `json:"size"`
	Timestamp string `json:"timestamp"`
}

// Notifier adapts the hub to the matcher's notification hook.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) TeamFormed(projectID uuid.UUID, teamID int64, size int) {
	if n == nil || n.hub == nil {
		return
	}

	evt := TeamFormedEvent{
		Type:      "team_formed",
		ProjectID: projectID.String(),
		TeamID:    teamID,
		Size:      size,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
