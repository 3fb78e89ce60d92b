package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DigitalMasterpieces/wishkit-go/pkg/logger"
	pkgkafka "github.com/DigitalMasterpieces/wishkit-go/pkg/kafka"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
)

// Kafka topics for widget events.
var (
	TopicWishVoted         = pkgkafka.Topic("wish", "voted")
	TopicWishSubmitted     = pkgkafka.Topic("wish", "submitted")
	TopicSnapshotRefreshed = pkgkafka.Topic("snapshot", "refreshed")
)

const (
	AggregateTypeWish     = "wish"
	AggregateTypeSnapshot = "snapshot"

	SourceWishkit = "wishkit-widget"
)

// Vote outcomes.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
)

// WishVotedData is the payload for a wish.voted event.
type WishVotedData struct {
	WishID  string `json:"wish_id"`
	Voter   string `json:"voter"`
	Action  string `json:"action"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
}

// WishSubmittedData is the payload for a wish.submitted event. The email
// itself is never published.
type WishSubmittedData struct {
	Title    string `json:"title"`
	Creator  string `json:"creator"`
	HasEmail bool   `json:"has_email"`
}

// SnapshotRefreshedData is the payload for a snapshot.refreshed event.
type SnapshotRefreshedData struct {
	Sequence  uint64 `json:"sequence"`
	WishCount int    `json:"wish_count"`
	Watermark bool   `json:"watermark"`
}

// Publisher sends an event envelope to a topic. *pkgkafka.Producer
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes widget domain events to Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the widget.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceWishkit, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}
	if token := logger.IdentityFromContext(ctx); token != "" {
		event.WithMetadata("identity", token)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

// PublishWishVoted publishes a wish.voted event.
func (p *Producer) PublishWishVoted(ctx context.Context, wishID string, voter domain.Voter, action domain.VoteAction, outcome, reason string) error {
	data := WishVotedData{
		WishID:  wishID,
		Voter:   voter.Token,
		Action:  action.String(),
		Outcome: outcome,
		Reason:  reason,
	}
	if err := p.publish(ctx, TopicWishVoted, wishID, AggregateTypeWish, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published wish.voted event",
		slog.String("wish_id", wishID),
		slog.String("outcome", outcome),
	)
	return nil
}

// PublishWishSubmitted publishes a wish.submitted event.
func (p *Producer) PublishWishSubmitted(ctx context.Context, draft domain.Draft, creator domain.Voter) error {
	data := WishSubmittedData{
		Title:    draft.Title,
		Creator:  creator.Token,
		HasEmail: draft.Email != "",
	}
	if err := p.publish(ctx, TopicWishSubmitted, creator.Token, AggregateTypeWish, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published wish.submitted event",
		slog.String("title", draft.Title),
	)
	return nil
}

// PublishSnapshotRefreshed publishes a snapshot.refreshed event.
func (p *Producer) PublishSnapshotRefreshed(ctx context.Context, snapshot domain.Snapshot) error {
	data := SnapshotRefreshedData{
		Sequence:  snapshot.Sequence,
		WishCount: len(snapshot.Wishes),
		Watermark: snapshot.WatermarkVisible,
	}
	if err := p.publish(ctx, TopicSnapshotRefreshed, fmt.Sprint(snapshot.Sequence), AggregateTypeSnapshot, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published snapshot.refreshed event",
		slog.Uint64("sequence", snapshot.Sequence),
		slog.Int("wish_count", len(snapshot.Wishes)),
	)
	return nil
}

// Noop drops every event. It is used when no brokers are configured.
type Noop struct{}

func (Noop) PublishWishVoted(context.Context, string, domain.Voter, domain.VoteAction, string, string) error {
	return nil
}

func (Noop) PublishWishSubmitted(context.Context, domain.Draft, domain.Voter) error { return nil }

func (Noop) PublishSnapshotRefreshed(context.Context, domain.Snapshot) error { return nil }
