package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/waste3d/course-marketplace/internal/domain"
	"github.com/waste3d/course-marketplace/internal/infrastructure/persistence"
)

type flakyBackend struct {
	mu     sync.Mutex
	inner  persistence.Backend
	fail   bool
	writes int
}

func (f *flakyBackend) Read(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, false, errors.New("disk unavailable")
	}
	return f.inner.Read(ctx, key)
}

func (f *flakyBackend) Write(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("disk unavailable")
	}
	f.writes++
	return f.inner.Write(ctx, key, data)
}

func (f *flakyBackend) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func newTestLedger(t *testing.T) (*Ledger, *flakyBackend) {
	t.Helper()
	b := &flakyBackend{inner: persistence.NewMemoryBackend()}
	l := NewLedger(b, zap.NewNop())
	l.Restore(context.Background())
	return l, b
}

func TestRestore_EmptyBackendUsesSeed(t *testing.T) {
	l, _ := newTestLedger(t)

	courses := Courses.All(l)
	require.NotEmpty(t, courses)
	_, ok := Vendors.Lookup(l, DefaultVendorID)
	assert.True(t, ok)
	assert.Empty(t, Sales.All(l))
}

func TestPut_IsIdempotentOnID(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	before := len(Coupons.All(l))

	c := domain.Coupon{ID: "c-x", Code: "X", DiscountType: domain.DiscountFixed, DiscountValue: 1}
	require.NoError(t, Coupons.Save(ctx, l, c))
	c.DiscountValue = 5
	require.NoError(t, Coupons.Save(ctx, l, c))

	all := Coupons.All(l)
	assert.Len(t, all, before+1)
	got, ok := Coupons.Lookup(l, "c-x")
	require.True(t, ok)
	assert.Equal(t, 5.0, got.DiscountValue)
	assert.Equal(t, "c-x", all[len(all)-1].ID)
}

func TestRemove(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	removed, err := Placements.Delete(ctx, l, "placement-exit")
	require.NoError(t, err)
	assert.True(t, removed)
	_, ok := Placements.Lookup(l, "placement-exit")
	assert.False(t, ok)
	_, ok = Placements.Lookup(l, "placement-top")
	assert.True(t, ok)

	removed, err = Placements.Delete(ctx, l, "placement-exit")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestUpdate_ErrorLeavesStateUntouched(t *testing.T) {
	l, b := newTestLedger(t)
	writes := b.writes

	err := l.Update(context.Background(), func(tx *Tx) error {
		Sales.Put(tx, domain.Sale{ID: "s1", Amount: 100, NetEarnings: 100})
		return domain.Invariant("boom")
	})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.Empty(t, Sales.All(l))
	assert.Equal(t, writes, b.writes)
}

func TestUpdate_WritesOnlyTouchedCollections(t *testing.T) {
	l, b := newTestLedger(t)
	writes := b.writes

	require.NoError(t, Sales.Save(context.Background(), l, domain.Sale{ID: "s1", Amount: 100, NetEarnings: 100}))
	assert.Equal(t, writes+1, b.writes)

	data, ok, err := b.inner.Read(context.Background(), "sales")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(data), `"s1"`)
}

func TestReads_AreDefensiveCopies(t *testing.T) {
	l, _ := newTestLedger(t)

	c, ok := Courses.Lookup(l, "course-go-basics")
	require.True(t, ok)
	c.Modules[0].Lessons[0].Title = "changed"
	c.Title = "changed"

	again, _ := Courses.Lookup(l, "course-go-basics")
	assert.Equal(t, "Go for Backend Developers", again.Title)
	assert.Equal(t, "Installing Go", again.Modules[0].Lessons[0].Title)

	all := Courses.All(l)
	all[0].Reviews = nil
	assert.NotEmpty(t, Courses.All(l)[0].Reviews)
}

func TestTx_WriteDoesNotLeakIntoCommittedStateBeforeCommit(t *testing.T) {
	l, _ := newTestLedger(t)

	err := l.Update(context.Background(), func(tx *Tx) error {
		Vendors.Put(tx, domain.Vendor{ID: "v-new", CommissionRate: 10})
		_, inBase := Vendors.of(tx.base).get("v-new")
		assert.False(t, inBase)
		_, inTx := Vendors.Get(tx, "v-new")
		assert.True(t, inTx)
		return errors.New("abort")
	})
	require.Error(t, err)
	_, ok := Vendors.Lookup(l, "v-new")
	assert.False(t, ok)
}

func TestFlushFailure_KeepsStateAndRetries(t *testing.T) {
	l, b := newTestLedger(t)
	ctx := context.Background()

	b.setFail(true)
	require.NoError(t, Sales.Save(ctx, l, domain.Sale{ID: "s1", Amount: 100, NetEarnings: 100}))
	assert.Len(t, Sales.All(l), 1)
	assert.Equal(t, []string{"sales"}, l.Pending())
	assert.ErrorIs(t, l.Flush(ctx), domain.ErrPersistenceUnavailable)

	b.setFail(false)
	require.NoError(t, l.Flush(ctx))
	assert.Empty(t, l.Pending())

	fresh := NewLedger(b, zap.NewNop())
	seeded := fresh.Restore(ctx)
	assert.NotContains(t, seeded, "sales")
	assert.Len(t, Sales.All(fresh), 1)
}

func TestFlushFailure_RetriedOnNextMutation(t *testing.T) {
	l, b := newTestLedger(t)
	ctx := context.Background()

	b.setFail(true)
	require.NoError(t, Sales.Save(ctx, l, domain.Sale{ID: "s1", Amount: 100, NetEarnings: 100}))
	b.setFail(false)
	require.NoError(t, Vendors.Save(ctx, l, domain.Vendor{ID: "v2", CommissionRate: 5}))

	assert.Empty(t, l.Pending())
	_, ok, err := b.inner.Read(ctx, "sales")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRestore_CorruptCollectionFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	b := persistence.NewMemoryBackend()
	require.NoError(t, b.Write(ctx, "courses", []byte(`{not json`)))
	require.NoError(t, b.Write(ctx, "sales", []byte(`[{"id":"s9","amount":10,"platformFee":2,"netEarnings":8}]`)))

	l := NewLedger(b, nil)
	seeded := l.Restore(ctx)

	assert.Contains(t, seeded, "courses")
	assert.NotContains(t, seeded, "sales")
	assert.Len(t, Courses.All(l), len(seedCourses()))
	assert.Len(t, Sales.All(l), 1)
	assert.Empty(t, l.Pending())
}

func TestRestore_UnreadableBackendSeedsEverything(t *testing.T) {
	b := &flakyBackend{inner: persistence.NewMemoryBackend(), fail: true}
	l := NewLedger(b, nil)

	seeded := l.Restore(context.Background())
	assert.ElementsMatch(t, CollectionNames(), seeded)
	assert.NotEmpty(t, Coupons.All(l))
}

func TestSnapshotLoadRoundTrip(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, Sales.Save(ctx, l, domain.Sale{ID: "s1", Amount: 100, PlatformFee: 20, NetEarnings: 80}))

	snap, err := l.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap, len(CollectionNames()))

	other := NewLedger(persistence.NewMemoryBackend(), nil)
	seeded := other.Load(snap)
	assert.Empty(t, seeded)
	assert.Equal(t, Sales.All(l), Sales.All(other))
	assert.Equal(t, Courses.All(l), Courses.All(other))
}

func TestUpdate_SerializesConcurrentWriters(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Update(ctx, func(tx *Tx) error {
				c, _ := Campaigns.Get(tx, "campaign-launch")
				c.Clicks++
				Campaigns.Put(tx, c)
				return nil
			})
		}()
	}
	wg.Wait()

	c, _ := Campaigns.Lookup(l, "campaign-launch")
	assert.Equal(t, int64(50), c.Clicks)
}

func TestRestore_InvalidEntitiesFallBackToSeed(t *testing.T) {
	ctx := context.Background()
	b := persistence.NewMemoryBackend()
	require.NoError(t, b.Write(ctx, "courses", []byte(`[{"id":"c-bad","title":"Bad","price":1000,"promoPrice":1000,"status":"published","hostingMode":"internal"}]`)))
	require.NoError(t, b.Write(ctx, "vendors", []byte(`[{"id":"v-bad","commissionRate":140}]`)))
	require.NoError(t, b.Write(ctx, "coupons", []byte(`null`)))

	l := NewLedger(b, nil)
	seeded := l.Restore(ctx)

	assert.Contains(t, seeded, "courses")
	assert.Contains(t, seeded, "vendors")
	assert.Contains(t, seeded, "coupons")
	_, ok := Courses.Lookup(l, "c-bad")
	assert.False(t, ok)
	_, ok = Vendors.Lookup(l, "v-bad")
	assert.False(t, ok)
	assert.Len(t, Courses.All(l), len(seedCourses()))
	assert.Len(t, Coupons.All(l), len(seedCoupons()))
}

func TestLoad_NullCollectionUsesSeed(t *testing.T) {
	l, _ := newTestLedger(t)
	snap, err := l.Snapshot()
	require.NoError(t, err)
	snap["placements"] = []byte(" null ")

	other := NewLedger(persistence.NewMemoryBackend(), nil)
	assert.Equal(t, []string{"placements"}, other.Load(snap))
	assert.Len(t, Placements.All(other), len(seedPlacements()))
}
