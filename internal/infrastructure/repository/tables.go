package repository

import (
	"context"

	"github.com/waste3d/course-marketplace/internal/domain"
)

type state struct {
	courses       collection[domain.Course]
	sales         collection[domain.Sale]
	enrollments   collection[domain.Enrollment]
	coupons       collection[domain.Coupon]
	campaigns     collection[domain.Campaign]
	payouts       collection[domain.PayoutRequest]
	notifications collection[domain.Notification]
	vendors       collection[domain.Vendor]
	placements    collection[domain.Placement]
	tickets       collection[domain.SupportTicket]
}

// Table is a typed handle on one ledger collection.
type Table[T entity[T]] struct {
	Name string
	of   func(*state) *collection[T]
}

var (
	Courses       = Table[domain.Course]{"courses", func(s *state) *collection[domain.Course] { return &s.courses }}
	Sales         = Table[domain.Sale]{"sales", func(s *state) *collection[domain.Sale] { return &s.sales }}
	Enrollments   = Table[domain.Enrollment]{"enrollments", func(s *state) *collection[domain.Enrollment] { return &s.enrollments }}
	Coupons       = Table[domain.Coupon]{"coupons", func(s *state) *collection[domain.Coupon] { return &s.coupons }}
	Campaigns     = Table[domain.Campaign]{"campaigns", func(s *state) *collection[domain.Campaign] { return &s.campaigns }}
	Payouts       = Table[domain.PayoutRequest]{"payouts", func(s *state) *collection[domain.PayoutRequest] { return &s.payouts }}
	Notifications = Table[domain.Notification]{"notifications", func(s *state) *collection[domain.Notification] { return &s.notifications }}
	Vendors       = Table[domain.Vendor]{"vendors", func(s *state) *collection[domain.Vendor] { return &s.vendors }}
	Placements    = Table[domain.Placement]{"placements", func(s *state) *collection[domain.Placement] { return &s.placements }}
	Tickets       = Table[domain.SupportTicket]{"tickets", func(s *state) *collection[domain.SupportTicket] { return &s.tickets }}
)

// tables lists every collection in persistence order.
var tables = []codec{Courses, Sales, Enrollments, Coupons, Campaigns, Payouts, Notifications, Vendors, Placements, Tickets}

// CollectionNames returns the persistence keys of all collections.
func CollectionNames() []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.name()
	}
	return names
}

type codec interface {
	name() string
	encode(s *state) ([]byte, error)
	decode(s *state, data []byte) error
	copyFrom(dst, src *state)
	size(s *state) int
}

func (t Table[T]) name() string                       { return t.Name }
func (t Table[T]) encode(s *state) ([]byte, error)    { return t.of(s).marshal() }
func (t Table[T]) decode(s *state, data []byte) error { return t.of(s).unmarshal(data) }
func (t Table[T]) copyFrom(dst, src *state)           { *t.of(dst) = t.of(src).fork() }
func (t Table[T]) size(s *state) int                  { return len(t.of(s).items) }

// Get returns a copy of the entity with id inside tx.
func (t Table[T]) Get(tx *Tx, id string) (T, bool) {
	v, ok := t.of(tx.work).get(id)
	if !ok {
		return v, false
	}
	return v.Clone(), true
}

func (t Table[T]) List(tx *Tx) []T {
	return t.of(tx.work).list()
}

func (t Table[T]) Filter(tx *Tx, keep func(T) bool) []T {
	var out []T
	for _, v := range t.of(tx.work).items {
		if keep(v) {
			out = append(out, v.Clone())
		}
	}
	return out
}

func (t Table[T]) First(tx *Tx, match func(T) bool) (T, bool) {
	for _, v := range t.of(tx.work).items {
		if match(v) {
			return v.Clone(), true
		}
	}
	var zero T
	return zero, false
}

// Put inserts or replaces v by id.
func (t Table[T]) Put(tx *Tx, v T) {
	tx.touch(t)
	t.of(tx.work).put(v.Clone())
}

func (t Table[T]) Remove(tx *Tx, id string) bool {
	if _, ok := t.of(tx.work).get(id); !ok {
		return false
	}
	tx.touch(t)
	return t.of(tx.work).remove(id)
}

// All is get(collection): a defensive copy of the committed collection.
func (t Table[T]) All(l *Ledger) []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return t.of(l.state).list()
}

func (t Table[T]) Lookup(l *Ledger, id string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := t.of(l.state).get(id)
	if !ok {
		return v, false
	}
	return v.Clone(), true
}

// Save is put(collection, entity) as a single committed mutation.
func (t Table[T]) Save(ctx context.Context, l *Ledger, v T) error {
	return l.Update(ctx, func(tx *Tx) error {
		t.Put(tx, v)
		return nil
	})
}

// Delete is remove(collection, id). Removing a missing id is not an error.
func (t Table[T]) Delete(ctx context.Context, l *Ledger, id string) (bool, error) {
	var removed bool
	err := l.Update(ctx, func(tx *Tx) error {
		removed = t.Remove(tx, id)
		return nil
	})
	return removed, err
}
