package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/waste3d/course-marketplace/internal/domain"
	"github.com/waste3d/course-marketplace/internal/infrastructure/logger"
	"github.com/waste3d/course-marketplace/internal/infrastructure/metrics"
	"github.com/waste3d/course-marketplace/internal/infrastructure/persistence"
)

// Ledger is the single authoritative store of every marketplace entity.
// Mutations are serialized; each one is flushed to the backend before Update returns.
type Ledger struct {
	mu      sync.RWMutex
	state   *state
	backend persistence.Backend
	log     *zap.Logger
	pending map[string]bool
}

func NewLedger(backend persistence.Backend, log *zap.Logger) *Ledger {
	return &Ledger{
		state:   &state{},
		backend: backend,
		log:     logger.OrNop(log),
		pending: make(map[string]bool),
	}
}

// Tx is a working copy of the ledger. Collections are copied on first write.
type Tx struct {
	base    *state
	work    *state
	touched map[string]bool
}

func newTx(base *state) *Tx {
	work := *base
	return &Tx{base: base, work: &work, touched: make(map[string]bool)}
}

func (tx *Tx) touch(c codec) {
	if tx.touched[c.name()] {
		return
	}
	c.copyFrom(tx.work, tx.base)
	tx.touched[c.name()] = true
}

// Update runs fn against a working copy. An error from fn leaves the ledger
// untouched; otherwise the copy is committed and the changed collections flushed.
func (l *Ledger) Update(ctx context.Context, fn func(tx *Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := newTx(l.state)
	if err := fn(tx); err != nil {
		return err
	}
	l.state = tx.work
	for name := range tx.touched {
		l.pending[name] = true
	}
	l.flushLocked(ctx)
	return nil
}

// View runs fn against a consistent read-only copy.
func (l *Ledger) View(fn func(tx *Tx)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(newTx(l.state))
}

// Flush retries collections whose last write failed.
func (l *Ledger) Flush(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flushLocked(ctx)
	if len(l.pending) > 0 {
		return fmt.Errorf("%w: %d collections not written", domain.ErrPersistenceUnavailable, len(l.pending))
	}
	return nil
}

// Pending lists collections that are committed in memory but not yet persisted.
func (l *Ledger) Pending() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []string
	for _, t := range tables {
		if l.pending[t.name()] {
			out = append(out, t.name())
		}
	}
	return out
}

func (l *Ledger) flushLocked(ctx context.Context) {
	for _, t := range tables {
		name := t.name()
		if !l.pending[name] {
			continue
		}
		data, err := t.encode(l.state)
		if err == nil {
			err = l.backend.Write(ctx, name, data)
		}
		if err != nil {
			metrics.LedgerFlushFailuresTotal.WithLabelValues(name).Inc()
			l.log.Warn("ledger flush failed, keeping in-memory state", zap.String("collection", name), zap.Error(err))
			continue
		}
		delete(l.pending, name)
	}
}

// Snapshot holds the JSON encoding of every collection.
type Snapshot map[string]json.RawMessage

func (l *Ledger) Snapshot() (Snapshot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snap := make(Snapshot, len(tables))
	for _, t := range tables {
		data, err := t.encode(l.state)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", t.name(), err)
		}
		snap[t.name()] = data
	}
	return snap, nil
}

// Load replaces the ledger state with snap. Collections that are missing or
// corrupt in snap fall back to the seed dataset; their names are returned.
func (l *Ledger) Load(snap Snapshot) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked(snap)
}

func (l *Ledger) loadLocked(snap Snapshot) []string {
	next := &state{}
	seed := seedState()
	var seeded []string
	for _, t := range tables {
		if data, ok := snap[t.name()]; ok {
			err := t.decode(next, data)
			if err == nil {
				continue
			}
			l.log.Warn("corrupt collection snapshot, using seed data", zap.String("collection", t.name()), zap.Error(err))
		}
		t.copyFrom(next, seed)
		seeded = append(seeded, t.name())
	}
	l.state = next
	l.pending = make(map[string]bool)
	return seeded
}

// Restore reloads every collection from the backend. It never fails: absent,
// unreadable or corrupt collections are replaced by the seed dataset.
func (l *Ledger) Restore(ctx context.Context) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := make(Snapshot, len(tables))
	for _, t := range tables {
		data, ok, err := l.backend.Read(ctx, t.name())
		if err != nil {
			l.log.Warn("ledger read failed, using seed data", zap.String("collection", t.name()), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		snap[t.name()] = data
	}
	seeded := l.loadLocked(snap)
	l.log.Info("ledger restored", zap.Strings("seeded", seeded), zap.Int("courses", Courses.size(l.state)), zap.Int("sales", Sales.size(l.state)))
	return seeded
}
