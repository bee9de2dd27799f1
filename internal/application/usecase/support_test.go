package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waste3d/course-marketplace/internal/domain"
	"github.com/waste3d/course-marketplace/internal/infrastructure/notify"
	"github.com/waste3d/course-marketplace/internal/infrastructure/persistence"
	"github.com/waste3d/course-marketplace/internal/infrastructure/repository"
)

func TestSupportTicketFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket, err := f.uc.OpenTicket(ctx, "u1", "Video will not load", "Lesson 2 keeps buffering")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketOpen, ticket.Status)
	assert.Empty(t, f.notifier.events)

	ticket, err = f.uc.ReplyToTicket(ctx, ticket.ID, domain.AdminRecipientID, "Please try another browser")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketAnswered, ticket.Status)
	assert.Len(t, ticket.Messages, 2)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, domain.EventSupportReply, f.notifier.events[0].Kind)
	assert.Equal(t, "u1", f.notifier.events[0].RecipientID)

	ticket, err = f.uc.ReplyToTicket(ctx, ticket.ID, "u1", "Still broken")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketOpen, ticket.Status)
	assert.Len(t, f.notifier.events, 1)

	require.NoError(t, f.uc.CloseTicket(ctx, ticket.ID))
	_, err = f.uc.ReplyToTicket(ctx, ticket.ID, domain.AdminRecipientID, "Closing")
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
}

func TestSupportTicket_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.OpenTicket(ctx, "u1", " ", "body")
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	_, err = f.uc.ReplyToTicket(ctx, "missing", "admin", "hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.uc.CloseTicket(ctx, "missing"), domain.ErrNotFound)
}

func TestNotifications_NewestFirst(t *testing.T) {
	ledger := repository.NewLedger(persistence.NewMemoryBackend(), nil)
	ledger.Restore(context.Background())
	clock := &testClock{t: time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC)}
	uc := NewCommerceUseCase(ledger, notify.NewDispatcher(nil, notify.NewInboxSink(ledger, clock.Now)), nil, clock.Now, Settings{})
	ctx := context.Background()

	ticket, err := uc.OpenTicket(ctx, "u9", "Refund", "Please refund my order")
	require.NoError(t, err)
	for _, body := range []string{"Looking into it", "Refund sent"} {
		clock.Advance(time.Minute)
		_, err = uc.ReplyToTicket(ctx, ticket.ID, domain.AdminRecipientID, body)
		require.NoError(t, err)
	}

	inbox := uc.Notifications("u9")
	require.Len(t, inbox, 2)
	assert.True(t, inbox[0].CreatedAt.After(inbox[1].CreatedAt))
	assert.Empty(t, uc.Notifications("someone-else"))
}
