package routes

import (
	"team-forge/internal/delivery/http/handler"
	"team-forge/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Registry owns every HTTP handler and mounts them on the app.
type Registry struct {
	health       *handler.HealthHandler
	skills       *handler.SkillHandler
	users        *handler.UserHandler
	projects     *handler.ProjectHandler
	requirements *handler.RequirementHandler
	match        *handler.MatchHandler
	teams        *handler.TeamHandler
	wsHandler    *ws.Handler
}

type Handlers struct {
	Health       *handler.HealthHandler
	Skills       *handler.SkillHandler
	Users        *handler.UserHandler
	Projects     *handler.ProjectHandler
	Requirements *handler.RequirementHandler
	Match        *handler.MatchHandler
	Teams        *handler.TeamHandler
	WS           *ws.Handler
}

func NewRegistry(h Handlers) *Registry {
	return &Registry{
		health:       h.Health,
		skills:       h.Skills,
		users:        h.Users,
		projects:     h.Projects,
		requirements: h.Requirements,
		match:        h.Match,
		teams:        h.Teams,
		wsHandler:    h.WS,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	r.skills.RegisterRoutes(api)
	r.users.RegisterRoutes(api)
	r.projects.RegisterRoutes(api)
	r.requirements.RegisterRoutes(api)
	r.match.RegisterRoutes(api)
	r.teams.RegisterRoutes(api)

	if r.wsHandler != nil {
		app.Get("/ws/teams", r.wsHandler.HandleTeamsWS)
	}
}
