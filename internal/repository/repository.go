package repository

import (
	"context"

	"github.com/utafrali/brand-admin/internal/domain"
)

// FormSessionRepository defines persistence for brand form sessions.
type FormSessionRepository interface {
	// Create stores a new session at version 1 and adds it to its owner's open set.
	Create(ctx context.Context, session *domain.FormSession) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*domain.FormSession, error)

	// Update overwrites a session only if the stored version still equals
	// session.Version. On success session.Version is incremented. A stale
	// version yields a conflict error.
	Update(ctx context.Context, session *domain.FormSession) error

	// Delete removes a session and drops it from its owner's open set.
	Delete(ctx context.Context, session *domain.FormSession) error

	// ListOpen returns the owner's sessions that have not succeeded yet.
	ListOpen(ctx context.Context, ownerID string) ([]*domain.FormSession, error)
}
