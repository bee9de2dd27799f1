package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/waste3d/course-marketplace/internal/domain"
	"github.com/waste3d/course-marketplace/internal/infrastructure/logger"
	"github.com/waste3d/course-marketplace/internal/infrastructure/metrics"
)

// Sink delivers one event to its recipient.
type Sink interface {
	Name() string
	Notify(ctx context.Context, e domain.Event) error
}

// Dispatcher fans events out to every sink. Delivery is best-effort:
// failures are logged and counted but never returned to the caller.
type Dispatcher struct {
	sinks []Sink
	log   *zap.Logger
}

func NewDispatcher(log *zap.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, log: logger.OrNop(log)}
}

func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.Event) {
	for _, e := range events {
		for _, s := range d.sinks {
			if err := s.Notify(ctx, e); err != nil {
				metrics.NotificationsTotal.WithLabelValues(s.Name(), "failed").Inc()
				d.log.Warn("notification delivery failed",
					zap.String("sink", s.Name()),
					zap.String("kind", string(e.Kind)),
					zap.String("recipient", e.RecipientID),
					zap.Error(err))
				continue
			}
			metrics.NotificationsTotal.WithLabelValues(s.Name(), "delivered").Inc()
		}
	}
}
