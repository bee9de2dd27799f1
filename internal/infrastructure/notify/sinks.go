package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/waste3d/course-marketplace/internal/domain"
	"github.com/waste3d/course-marketplace/internal/infrastructure/logger"
	"github.com/waste3d/course-marketplace/internal/infrastructure/repository"
)

// InboxSink stores each event as an unread notification in the ledger.
type InboxSink struct {
	ledger *repository.Ledger
	now    func() time.Time
}

func NewInboxSink(ledger *repository.Ledger, now func() time.Time) *InboxSink {
	if now == nil {
		now = time.Now
	}
	return &InboxSink{ledger: ledger, now: now}
}

func (s *InboxSink) Name() string { return "inbox" }

func (s *InboxSink) Notify(ctx context.Context, e domain.Event) error {
	created := e.OccurredAt
	if created.IsZero() {
		created = s.now()
	}
	return repository.Notifications.Save(ctx, s.ledger, domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: e.RecipientID,
		Title:       e.Title,
		Body:        e.Body,
		Kind:        e.Kind,
		CreatedAt:   created,
	})
}

type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: logger.OrNop(log)}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Notify(_ context.Context, e domain.Event) error {
	s.log.Info("notification",
		zap.String("kind", string(e.Kind)),
		zap.String("recipient", e.RecipientID),
		zap.String("title", e.Title),
		zap.String("body", e.Body))
	return nil
}
