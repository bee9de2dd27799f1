package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/waste3d/course-marketplace/internal/domain"
	"github.com/waste3d/course-marketplace/internal/infrastructure/persistence"
	"github.com/waste3d/course-marketplace/internal/infrastructure/repository"
)

type recordingSink struct {
	name   string
	err    error
	events []domain.Event
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Notify(_ context.Context, e domain.Event) error {
	s.events = append(s.events, e)
	return s.err
}

func TestDispatcher_DeliversToEverySinkDespiteFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	broken := &recordingSink{name: "broken", err: errors.New("smtp down")}
	ok := &recordingSink{name: "ok"}
	d := NewDispatcher(zap.New(core), broken, ok)

	d.Dispatch(context.Background(), []domain.Event{
		{Kind: domain.EventPayoutRequested, RecipientID: "vendor-1"},
		{Kind: domain.EventPayoutRequested, RecipientID: domain.AdminRecipientID},
	})

	assert.Len(t, broken.events, 2)
	assert.Len(t, ok.events, 2)
	assert.Equal(t, 2, logs.FilterMessage("notification delivery failed").Len())
}

func TestInboxSink_PersistsNotification(t *testing.T) {
	ledger := repository.NewLedger(persistence.NewMemoryBackend(), nil)
	ledger.Restore(context.Background())
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	sink := NewInboxSink(ledger, func() time.Time { return at })

	require.NoError(t, sink.Notify(context.Background(), domain.Event{
		Kind:        domain.EventSaleCompleted,
		RecipientID: "instructor-ada",
		Title:       "New sale",
		Body:        "Go for Backend Developers",
	}))

	all := repository.Notifications.All(ledger)
	require.Len(t, all, 1)
	n := all[0]
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "instructor-ada", n.RecipientID)
	assert.Equal(t, domain.EventSaleCompleted, n.Kind)
	assert.False(t, n.Read)
	assert.Equal(t, at, n.CreatedAt)
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	require.NoError(t, sink.Notify(context.Background(), domain.Event{Kind: domain.EventSupportReply, RecipientID: "student-1"}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "student-1", logs.All()[0].ContextMap()["recipient"])
}
