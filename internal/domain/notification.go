package domain

import "time"

type EventKind string

const (
	EventSaleCompleted   EventKind = "sale.completed"
	EventSaleRefunded    EventKind = "sale.refunded"
	EventPayoutRequested EventKind = "payout.requested"
	EventPayoutPaid      EventKind = "payout.paid"
	EventSupportReply    EventKind = "support.reply"
	EventCourseCompleted EventKind = "course.completed"
)

// Event is raised by a command and delivered only after the command committed.
type Event struct {
	Kind        EventKind `json:"kind"`
	RecipientID string    `json:"recipientId"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Kind        EventKind `json:"kind"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (n Notification) Key() string { return n.ID }

func (n Notification) Clone() Notification { return n }
