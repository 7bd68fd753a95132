package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/utafrali/brand-admin/internal/domain"
	"github.com/utafrali/brand-admin/internal/i18n"
	"github.com/utafrali/brand-admin/internal/repository"
	apperrors "github.com/utafrali/brand-admin/pkg/errors"
	"github.com/utafrali/brand-admin/pkg/logger"
	"github.com/utafrali/brand-admin/pkg/tracing"
)

// UpdateDraftInput holds the general fields a PATCH may change.
type UpdateDraftInput struct {
	Title  *string `json:"title" validate:"omitempty,max=255"`
	Handle *string `json:"handle" validate:"omitempty,max=255"`
}

// SubmitResult is the outcome of a submit that ran. Failure is set when the
// upload or the create call failed; the session then carries the toast.
type SubmitResult struct {
	Session *domain.FormSession
	Brand   *domain.Brand
	Payload domain.CreatePayload
	Failure *domain.Failure
}

// DefaultPublishTimeout bounds each event publish of a submit.
const DefaultPublishTimeout = 5 * time.Second

// Option configures a BrandFormService.
type Option func(*BrandFormService)

// WithHandleFunc sets how blank handles are derived.
func WithHandleFunc(fn domain.HandleFunc) Option {
	return func(s *BrandFormService) { s.deriveHandle = fn }
}

// WithNavigator replaces the default SessionNavigator.
func WithNavigator(n Navigator) Option {
	return func(s *BrandFormService) { s.navigator = n }
}

// WithNotifier replaces the default SessionNotifier.
func WithNotifier(n Notifier) Option {
	return func(s *BrandFormService) { s.notifier = n }
}

// WithMaxImages caps the number of images per submit. 0 means no cap.
func WithMaxImages(n int) Option {
	return func(s *BrandFormService) { s.maxImages = n }
}

// WithPublishTimeout bounds how long a submit waits for its event to be
// published. Non-positive values keep the default.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *BrandFormService) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *BrandFormService) { s.now = now }
}

// BrandFormService implements the brand creation form.
type BrandFormService struct {
	repo         repository.FormSessionRepository
	uploader     ImageUploader
	creator      BrandCreator
	events       EventPublisher
	navigator    Navigator
	notifier     Notifier
	deriveHandle domain.HandleFunc
	maxImages    int
	now          func() time.Time
	tracer       trace.Tracer
	logger       *slog.Logger

	publishTimeout time.Duration
}

// NewBrandFormService creates a new brand form service.
func NewBrandFormService(
	repo repository.FormSessionRepository,
	uploader ImageUploader,
	creator BrandCreator,
	events EventPublisher,
	logger *slog.Logger,
	opts ...Option,
) *BrandFormService {
	s := &BrandFormService{
		repo:         repo,
		uploader:     uploader,
		creator:      creator,
		events:       events,
		navigator:    SessionNavigator{},
		notifier:     SessionNotifier{Logger: logger},
		deriveHandle: domain.SlugHandle,
		now:          func() time.Time { return time.Now().UTC() },
		tracer:       tracing.Tracer("github.com/utafrali/brand-admin/internal/service"),
		logger:       logger,

		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts a blank form owned by ownerID.
func (s *BrandFormService) Open(ctx context.Context, ownerID string) (*domain.FormSession, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("owner id is required")
	}

	session := domain.NewFormSession(uuid.New().String(), ownerID, s.now())
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create form session: %w", err)
	}
	formsOpenedTotal.Inc()

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "brand form opened",
		slog.String("form_id", session.ID),
		slog.String("owner_id", ownerID),
	)
	return session, nil
}

// Get returns a session owned by ownerID. Sessions of other owners are
// reported as not found.
func (s *BrandFormService) Get(ctx context.Context, ownerID, id string) (*domain.FormSession, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get form session: %w", err)
	}
	if session.OwnerID != ownerID {
		return nil, apperrors.NotFound("brand form", id)
	}
	return session, nil
}

// ListOpen returns the owner's unfinished forms.
func (s *BrandFormService) ListOpen(ctx context.Context, ownerID string) ([]*domain.FormSession, error) {
	sessions, err := s.repo.ListOpen(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list open form sessions: %w", err)
	}
	return sessions, nil
}

// UpdateDraft changes the title and handle of a form that is not submitting.
func (s *BrandFormService) UpdateDraft(ctx context.Context, ownerID, id string, input UpdateDraftInput) (*domain.FormSession, error) {
	session, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := session.UpdateDraft(input.Title, input.Handle, s.now()); err != nil {
		if errors.Is(err, domain.ErrNotEditable) {
			return nil, s.rejection(ctx, session)
		}
		return nil, err
	}
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("update form session: %w", err)
	}
	return session, nil
}

// Discard closes a form without creating a brand. A form that is still
// submitting cannot be discarded.
func (s *BrandFormService) Discard(ctx context.Context, ownerID, id string) error {
	session, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if session.State.IsInFlight() {
		return s.rejection(ctx, session)
	}
	if err := s.repo.Delete(ctx, session); err != nil {
		return fmt.Errorf("delete form session: %w", err)
	}
	logger.WithContext(ctx, s.logger).InfoContext(ctx, "brand form discarded",
		slog.String("form_id", id),
		slog.String("state", string(session.State)),
	)
	return nil
}

// Submit runs the submit workflow: upload the images once when there are
// any, create the brand, then navigate to it. A failed upload or create is
// not an error; it is returned in SubmitResult.Failure with the session in
// upload_failed or failed. Errors are returned only when the submit could
// not start.
func (s *BrandFormService) Submit(ctx context.Context, ownerID, id string, images []domain.LocalImage) (*SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "BrandFormService.Submit", trace.WithAttributes(
		attribute.String("brand_form.id", id),
		attribute.Int("brand_form.images", len(images)),
	))
	defer span.End()
	start := time.Now()

	if s.maxImages > 0 && len(images) > s.maxImages {
		s.recordOutcome(outcomeRejected, start)
		return nil, apperrors.InvalidInput(fmt.Sprintf("at most %d images may be uploaded", s.maxImages))
	}

	session, err := s.claim(ctx, ownerID, id)
	if err != nil {
		s.recordOutcome(outcomeRejected, start)
		tracing.RecordError(span, err)
		return nil, err
	}
	ctx = logger.WithFormID(ctx, session.ID)
	log := logger.WithContext(ctx, s.logger)

	// The workflow outlives a dropped client connection so the session is
	// never left in flight.
	ctx = context.WithoutCancel(ctx)

	payload := domain.BuildPayload(session.General, s.deriveHandle)
	span.SetAttributes(attribute.String("brand.handle", payload.Handle))

	if len(images) > 0 {
		s.advance(ctx, session, domain.StateUploading)

		urls, err := s.uploader.Upload(ctx, session.ID, images)
		if err != nil {
			f := domain.AsFailure(err, domain.FailureUpload)
			tracing.RecordError(span, f)
			return s.fail(ctx, session, payload, domain.StateUploadFailed, f, uploadToast, outcomeUploadFailed, start), nil
		}
		imagesUploadedTotal.Add(float64(len(urls)))
		payload.AttachImages(urls)
	}

	s.advance(ctx, session, domain.StateCreateCalled)

	brand, err := s.creator.CreateBrand(ctx, payload)
	if err != nil {
		f := domain.AsFailure(err, domain.FailureCreate)
		tracing.RecordError(span, f)
		return s.fail(ctx, session, payload, domain.StateFailed, f, createToast, outcomeCreateFailed, start), nil
	}

	if err := session.Complete(brand.ID, s.now()); err != nil {
		return nil, fmt.Errorf("complete form session: %w", err)
	}
	s.navigator.Navigate(ctx, session, brand.ID)
	s.persist(ctx, session)

	s.publishEvent(ctx, "brand created", func(ctx context.Context) error {
		return s.events.PublishBrandCreated(ctx, session, brand, payload)
	})
	s.recordOutcome(outcomeSucceeded, start)
	span.SetAttributes(attribute.String("brand.id", brand.ID))

	log.InfoContext(ctx, "brand created",
		slog.String("brand_id", brand.ID),
		slog.String("handle", payload.Handle),
		slog.Int("images", len(payload.Images)),
	)

	return &SubmitResult{Session: session, Brand: brand, Payload: payload}, nil
}

// claim moves the session into submitting. The versioned update makes
// concurrent submits of the same form lose with a conflict.
func (s *BrandFormService) claim(ctx context.Context, ownerID, id string) (*domain.FormSession, error) {
	session, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := session.Transition(domain.StateSubmitting, s.now()); err != nil {
		return nil, s.rejection(ctx, session)
	}
	if err := s.repo.Update(ctx, session); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Conflict(i18n.Text(i18n.LanguageFromContext(ctx), i18n.KeyFormBusy))
		}
		return nil, fmt.Errorf("claim form session: %w", err)
	}
	return session, nil
}

// rejection explains why a session cannot be changed right now.
func (s *BrandFormService) rejection(ctx context.Context, session *domain.FormSession) error {
	tag := i18n.LanguageFromContext(ctx)
	if session.State == domain.StateSucceeded {
		return apperrors.Conflict(i18n.Text(tag, i18n.KeyFormAlreadyClosed))
	}
	return apperrors.Conflict(i18n.Text(tag, i18n.KeyFormBusy))
}

func (s *BrandFormService) advance(ctx context.Context, session *domain.FormSession, next domain.SubmissionState) {
	if err := session.Transition(next, s.now()); err != nil {
		// Unreachable with the transitions used by Submit.
		logger.WithContext(ctx, s.logger).ErrorContext(ctx, "invalid brand form transition", slog.String("error", err.Error()))
		return
	}
	s.persist(ctx, session)
}

// persist saves progress. A failed write is logged and the workflow goes on;
// the outcome is still returned to the caller.
func (s *BrandFormService) persist(ctx context.Context, session *domain.FormSession) {
	if err := s.repo.Update(ctx, session); err != nil {
		logger.WithContext(ctx, s.logger).ErrorContext(ctx, "failed to persist brand form",
			slog.String("state", string(session.State)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *BrandFormService) fail(
	ctx context.Context,
	session *domain.FormSession,
	payload domain.CreatePayload,
	state domain.SubmissionState,
	f *domain.Failure,
	toast func(language.Tag, *domain.Failure) domain.Notification,
	outcome string,
	start time.Time,
) *SubmitResult {
	log := logger.WithContext(ctx, s.logger)
	if err := session.Transition(state, s.now()); err != nil {
		log.ErrorContext(ctx, "invalid brand form transition", slog.String("error", err.Error()))
	}
	s.notifier.Notify(ctx, session, toast(i18n.LanguageFromContext(ctx), f))
	s.persist(ctx, session)

	s.publishEvent(ctx, "submission failed", func(ctx context.Context) error {
		return s.events.PublishSubmissionFailed(ctx, session, f)
	})
	s.recordOutcome(outcome, start)

	log.WarnContext(ctx, "brand form submit failed",
		slog.String("stage", string(f.Kind)),
		slog.Int("status", f.Status),
		slog.String("error", f.Error()),
	)

	return &SubmitResult{Session: session, Payload: payload, Failure: f}
}

func (s *BrandFormService) recordOutcome(outcome string, start time.Time) {
	submissionsTotal.WithLabelValues(outcome).Inc()
	submitDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// publishEvent gives the publish its own deadline. The outcome is already
// stored, so a slow or unreachable broker only costs the event.
func (s *BrandFormService) publishEvent(ctx context.Context, name string, publish func(context.Context) error) {
	pubCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	if err := publish(pubCtx); err != nil {
		logger.WithContext(ctx, s.logger).WarnContext(ctx, "failed to publish brand form event",
			slog.String("event", name),
			slog.String("error", err.Error()),
		)
	}
}
