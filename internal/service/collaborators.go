package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/brand-admin/internal/domain"
	"github.com/utafrali/brand-admin/pkg/logger"
)

// ImageUploader stores local images and returns one URL per image, in order.
// Failures are reported as *domain.Failure.
type ImageUploader interface {
	Upload(ctx context.Context, ownerID string, images []domain.LocalImage) ([]string, error)
}

// BrandCreator creates a brand from a payload. Failures are reported as
// *domain.Failure.
type BrandCreator interface {
	CreateBrand(ctx context.Context, payload domain.CreatePayload) (*domain.Brand, error)
}

// Navigator sends the user to a path relative to the brand list.
type Navigator interface {
	Navigate(ctx context.Context, session *domain.FormSession, path string)
}

// Notifier shows a toast to the user driving the form.
type Notifier interface {
	Notify(ctx context.Context, session *domain.FormSession, n domain.Notification)
}

// EventPublisher publishes the outcome of a submit.
type EventPublisher interface {
	PublishBrandCreated(ctx context.Context, session *domain.FormSession, brand *domain.Brand, payload domain.CreatePayload) error
	PublishSubmissionFailed(ctx context.Context, session *domain.FormSession, failure *domain.Failure) error
}

// SessionNavigator records the navigation target on the session so the
// HTTP layer can answer with it.
type SessionNavigator struct{}

func (SessionNavigator) Navigate(_ context.Context, session *domain.FormSession, path string) {
	session.Redirect = path
}

// SessionNotifier attaches toasts to the session and logs them.
type SessionNotifier struct {
	Logger *slog.Logger
}

func (n SessionNotifier) Notify(ctx context.Context, session *domain.FormSession, note domain.Notification) {
	session.Notify(note)
	if n.Logger != nil {
		logger.WithContext(ctx, n.Logger).InfoContext(ctx, "brand form notification",
			slog.String("title", note.Title),
			slog.String("description", note.Description),
		)
	}
}
