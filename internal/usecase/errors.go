package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInternal               = errors.New("internal error")
	ErrInvalidInput           = errors.New("invalid input")
	ErrTimeout                = errors.New("operation timed out")
	ErrConcurrentModification = errors.New("concurrent modification")

	ErrSkillNotFound     = errors.New("skill not found")
	ErrSkillExists       = errors.New("skill already exists")
	ErrProjectNotFound   = errors.New("project not found")
	ErrProjectTitleTaken = errors.New("project title already taken")
	ErrTeamNotFound      = errors.New("team not found")
	ErrUserNotFound      = errors.New("user not found")
)

// ValidationError carries field-keyed messages for direct form display.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// infraErr keeps timeouts distinct from plain internal failures so callers
// can retry and surface them differently.
func infraErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ErrInternal
}
