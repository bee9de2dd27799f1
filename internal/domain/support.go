package domain

import "time"

type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketAnswered TicketStatus = "answered"
	TicketClosed   TicketStatus = "closed"
)

type SupportTicket struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Subject   string           `json:"subject"`
	Status    TicketStatus     `json:"status"`
	Messages  []SupportMessage `json:"messages"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type SupportMessage struct {
	AuthorID string    `json:"authorId"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sentAt"`
}

func (t SupportTicket) Key() string { return t.ID }

func (t SupportTicket) Clone() SupportTicket {
	out := t
	out.Messages = append([]SupportMessage(nil), t.Messages...)
	return out
}
