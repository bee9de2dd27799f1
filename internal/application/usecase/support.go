package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/waste3d/course-marketplace/internal/domain"
	"github.com/waste3d/course-marketplace/internal/infrastructure/repository"
)

func (uc *CommerceUseCase) OpenTicket(ctx context.Context, userID, subject, body string) (domain.SupportTicket, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return domain.SupportTicket{}, domain.Invariant("ticket needs a subject and a message")
	}
	now := uc.clock()
	t := domain.SupportTicket{
		ID:        uuid.NewString(),
		UserID:    userID,
		Subject:   subject,
		Status:    domain.TicketOpen,
		Messages:  []domain.SupportMessage{{AuthorID: userID, Body: body, SentAt: now}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.execute(ctx, func(tx *repository.Tx, _ *events) error {
		repository.Tickets.Put(tx, t)
		return nil
	})
	if err != nil {
		return domain.SupportTicket{}, err
	}
	return t, nil
}

// ReplyToTicket appends a message. A reply from anyone but the owner marks
// the ticket answered and notifies the owner.
func (uc *CommerceUseCase) ReplyToTicket(ctx context.Context, ticketID, authorID, body string) (domain.SupportTicket, error) {
	if strings.TrimSpace(body) == "" {
		return domain.SupportTicket{}, domain.Invariant("reply is empty")
	}
	var t domain.SupportTicket
	err := uc.execute(ctx, func(tx *repository.Tx, ev *events) error {
		var ok bool
		t, ok = repository.Tickets.Get(tx, ticketID)
		if !ok {
			return domain.NotFound("ticket", ticketID)
		}
		if t.Status == domain.TicketClosed {
			return domain.Invariant("ticket %s is closed", t.ID)
		}
		now := uc.clock()
		t.Messages = append(t.Messages, domain.SupportMessage{AuthorID: authorID, Body: body, SentAt: now})
		t.UpdatedAt = now
		if authorID == t.UserID {
			t.Status = domain.TicketOpen
		} else {
			t.Status = domain.TicketAnswered
			ev.raise(domain.EventSupportReply, t.UserID, "Support replied", t.Subject, now)
		}
		repository.Tickets.Put(tx, t)
		return nil
	})
	if err != nil {
		return domain.SupportTicket{}, err
	}
	return t, nil
}

func (uc *CommerceUseCase) CloseTicket(ctx context.Context, ticketID string) error {
	return uc.execute(ctx, func(tx *repository.Tx, _ *events) error {
		t, ok := repository.Tickets.Get(tx, ticketID)
		if !ok {
			return domain.NotFound("ticket", ticketID)
		}
		t.Status = domain.TicketClosed
		t.UpdatedAt = uc.clock()
		repository.Tickets.Put(tx, t)
		return nil
	})
}

// Notifications lists a recipient's inbox, newest first.
func (uc *CommerceUseCase) Notifications(recipientID string) []domain.Notification {
	var out []domain.Notification
	uc.ledger.View(func(tx *repository.Tx) {
		out = repository.Notifications.Filter(tx, func(n domain.Notification) bool {
			return n.RecipientID == recipientID
		})
	})
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (uc *CommerceUseCase) MarkNotificationRead(ctx context.Context, id string) error {
	return uc.execute(ctx, func(tx *repository.Tx, _ *events) error {
		n, ok := repository.Notifications.Get(tx, id)
		if !ok {
			return domain.NotFound("notification", id)
		}
		if n.Read {
			return nil
		}
		n.Read = true
		repository.Notifications.Put(tx, n)
		return nil
	})
}
