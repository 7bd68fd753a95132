package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/brand-admin/internal/domain"
	pkgkafka "github.com/utafrali/brand-admin/pkg/kafka"
	"github.com/utafrali/brand-admin/pkg/logger"
)

// Kafka topics for brand form events.
var (
	TopicBrandCreated          = pkgkafka.Topic("admin.brand", "created")
	TopicBrandSubmissionFailed = pkgkafka.Topic("admin.brand", "submission_failed")
)

const (
	AggregateTypeBrandForm = "brand_form"
	SourceBrandAdmin       = "brand-admin"
)

// BrandCreatedData is the payload for an admin.brand.created event.
type BrandCreatedData struct {
	FormID    string   `json:"form_id"`
	BrandID   string   `json:"brand_id"`
	Title     string   `json:"title"`
	Handle    string   `json:"handle"`
	Images    []string `json:"images,omitempty"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	CreatedBy string   `json:"created_by"`
	Attempt   int      `json:"attempt"`
}

// SubmissionFailedData is the payload for an admin.brand.submission_failed event.
type SubmissionFailedData struct {
	FormID    string `json:"form_id"`
	Stage     string `json:"stage"`
	Status    int    `json:"status,omitempty"`
	Code      string `json:"code,omitempty"`
	Reason    string `json:"reason"`
	CreatedBy string `json:"created_by"`
	Attempt   int    `json:"attempt"`
}

// Publisher is the part of pkg/kafka.Producer the event producer needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes brand form events to Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the brand admin service.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishBrandCreated publishes an admin.brand.created event.
func (p *Producer) PublishBrandCreated(ctx context.Context, session *domain.FormSession, brand *domain.Brand, payload domain.CreatePayload) error {
	data := BrandCreatedData{
		FormID:    session.ID,
		BrandID:   brand.ID,
		Title:     payload.Title,
		Handle:    payload.Handle,
		Images:    payload.Images,
		Thumbnail: payload.Thumbnail,
		CreatedBy: session.OwnerID,
		Attempt:   session.Attempts,
	}
	return p.publish(ctx, TopicBrandCreated, session.ID, data)
}

// PublishSubmissionFailed publishes an admin.brand.submission_failed event.
func (p *Producer) PublishSubmissionFailed(ctx context.Context, session *domain.FormSession, failure *domain.Failure) error {
	reason := failure.Message
	if reason == "" && failure.Err != nil {
		reason = failure.Err.Error()
	}
	data := SubmissionFailedData{
		FormID:    session.ID,
		Stage:     string(failure.Kind),
		Status:    failure.Status,
		Code:      failure.Code,
		Reason:    reason,
		CreatedBy: session.OwnerID,
		Attempt:   session.Attempts,
	}
	return p.publish(ctx, TopicBrandSubmissionFailed, session.ID, data)
}

func (p *Producer) publish(ctx context.Context, topic, formID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, formID, AggregateTypeBrandForm, SourceBrandAdmin, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx)).
		WithMetadata("user_id", logger.UserIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published brand form event",
		slog.String("topic", topic),
		slog.String("form_id", formID),
	)
	return nil
}
