package sweeper_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/pdf-extractor/internal/config"
	"github.com/JaimeStill/pdf-extractor/internal/documents"
	"github.com/JaimeStill/pdf-extractor/internal/sweeper"
	"github.com/JaimeStill/pdf-extractor/pkg/lifecycle"
	"github.com/JaimeStill/pdf-extractor/pkg/logging"
	"github.com/google/uuid"
)

type fakeStore struct {
	mu         sync.Mutex
	docs       []documents.Document
	expiredErr error
	failing    map[uuid.UUID]error
	panicking  map[uuid.UUID]bool
	purged     []uuid.UUID
	cutoffs    []time.Time
	calls      chan struct{}
}

func (f *fakeStore) Expired(ctx context.Context, cutoff time.Time) ([]documents.Document, error) {
	f.mu.Lock()
	f.cutoffs = append(f.cutoffs, cutoff)
	f.mu.Unlock()

	if f.calls != nil {
		select {
		case f.calls <- struct{}{}:
		default:
		}
	}

	if f.expiredErr != nil {
		return nil, f.expiredErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []documents.Document
	for _, d := range f.docs {
		if d.CreatedAt.Before(cutoff) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) Purge(ctx context.Context, doc documents.Document) error {
	if f.panicking[doc.ID] {
		panic("corrupt row")
	}
	if err := f.failing[doc.ID]; err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.purged = append(f.purged, doc.ID)
	return nil
}

func (f *fakeStore) purgedIDs() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.purged...)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func doc(createdAt time.Time) documents.Document {
	return documents.Document{
		ID:        uuid.New(),
		Filename:  uuid.NewString() + "_doc.pdf",
		CreatedAt: createdAt,
	}
}

func TestSweep_StrictCutoff(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	atCutoff := doc(now.Add(-10 * time.Minute))
	older := doc(now.Add(-10*time.Minute - time.Millisecond))
	fresh := doc(now.Add(-time.Minute))

	store := &fakeStore{docs: []documents.Document{atCutoff, older, fresh}}
	sw := sweeper.New(store, 10*time.Minute, logging.Discard(), sweeper.WithClock(fixedClock(now)))

	removed, err := sw.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() failed: %v", err)
	}

	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	purged := store.purgedIDs()
	if len(purged) != 1 || purged[0] != older.ID {
		t.Errorf("purged = %v, want only %s", purged, older.ID)
	}

	if !store.cutoffs[0].Equal(now.Add(-10 * time.Minute)) {
		t.Errorf("cutoff = %s, want %s", store.cutoffs[0], now.Add(-10*time.Minute))
	}
}

func TestSweep_MaxRetentionKeepsFreshDocuments(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	retention := time.Duration(config.MaxRetentionMinutes) * time.Minute

	store := &fakeStore{docs: []documents.Document{
		doc(now.Add(-time.Second)),
		doc(now.Add(-24 * time.Hour)),
	}}
	sw := sweeper.New(store, retention, logging.Discard(), sweeper.WithClock(fixedClock(now)))

	removed, err := sw.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() failed: %v", err)
	}

	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}

	if !store.cutoffs[0].Before(now) {
		t.Errorf("cutoff = %s, want before %s", store.cutoffs[0], now)
	}

	st, err := sw.Status()
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	if int64(st.RetentionMinutes) != config.MaxRetentionMinutes {
		t.Errorf("RetentionMinutes = %d, want %d", st.RetentionMinutes, config.MaxRetentionMinutes)
	}
}

func TestSweep_ContinuesAfterFailures(t *testing.T) {
	now := time.Now()
	failing := doc(now.Add(-time.Hour))
	panicking := doc(now.Add(-time.Hour))
	healthy := doc(now.Add(-time.Hour))

	store := &fakeStore{
		docs:      []documents.Document{failing, panicking, healthy},
		failing:   map[uuid.UUID]error{failing.ID: errors.New("disk error")},
		panicking: map[uuid.UUID]bool{panicking.ID: true},
	}
	sw := sweeper.New(store, 10*time.Minute, logging.Discard())

	removed, err := sw.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() failed: %v", err)
	}

	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	purged := store.purgedIDs()
	if len(purged) != 1 || purged[0] != healthy.ID {
		t.Errorf("purged = %v, want only %s", purged, healthy.ID)
	}
}

func TestSweep_StoreUnavailable(t *testing.T) {
	store := &fakeStore{expiredErr: errors.New("connection refused")}
	sw := sweeper.New(store, 10*time.Minute, logging.Discard())

	removed, err := sw.Sweep(context.Background())
	if err == nil {
		t.Fatal("Sweep() error = nil, want error")
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}

type panickingStore struct{}

func (panickingStore) Expired(context.Context, time.Time) ([]documents.Document, error) {
	panic("nil connection")
}

func (panickingStore) Purge(context.Context, documents.Document) error { return nil }

func TestSweep_RecoversPanic(t *testing.T) {
	sw := sweeper.New(panickingStore{}, 10*time.Minute, logging.Discard())

	_, err := sw.Sweep(context.Background())
	if !errors.Is(err, sweeper.ErrSweepPanic) {
		t.Errorf("Sweep() error = %v, want ErrSweepPanic", err)
	}
}

func TestStartStop_Idempotent(t *testing.T) {
	sw := sweeper.New(&fakeStore{}, 15*time.Minute, logging.Discard())

	st, _ := sw.Status()
	if st.Running || st.NextRun != nil {
		t.Errorf("new sweeper status = %+v, want stopped with nil next_run", st)
	}

	sw.Start()
	sw.Start()

	st, err := sw.Status()
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	if !st.Running || st.NextRun == nil || st.RetentionMinutes != 15 || st.JobCount != 1 {
		t.Errorf("running status = %+v", st)
	}

	sw.Stop()
	sw.Stop()

	st, _ = sw.Status()
	if st.Running || st.NextRun != nil {
		t.Errorf("stopped status = %+v", st)
	}

	sw.Start()
	if st, _ := sw.Status(); !st.Running {
		t.Error("sweeper did not restart after Stop")
	}
	sw.Stop()
}

func waitForCalls(t *testing.T, calls <-chan struct{}, n int) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for range n {
		select {
		case <-calls:
		case <-timeout:
			t.Fatalf("timed out waiting for %d sweeps", n)
		}
	}
}

func TestTicker_SweepsRepeatedly(t *testing.T) {
	store := &fakeStore{
		docs:  []documents.Document{doc(time.Now().Add(-time.Hour))},
		calls: make(chan struct{}, 1),
	}
	sw := sweeper.New(store, 10*time.Minute, logging.Discard(), sweeper.WithInterval(10*time.Millisecond))

	sw.Start()
	defer sw.Stop()

	waitForCalls(t, store.calls, 2)

	if len(store.purgedIDs()) == 0 {
		t.Error("ticker sweep did not purge the expired document")
	}
}

func TestTicker_SurvivesStoreErrors(t *testing.T) {
	store := &fakeStore{
		expiredErr: errors.New("database unreachable"),
		calls:      make(chan struct{}, 1),
	}
	sw := sweeper.New(store, 10*time.Minute, logging.Discard(), sweeper.WithInterval(10*time.Millisecond))

	sw.Start()
	defer sw.Stop()

	waitForCalls(t, store.calls, 3)

	if st, _ := sw.Status(); !st.Running {
		t.Error("sweeper stopped after store errors")
	}
}

func TestRegister_FollowsLifecycle(t *testing.T) {
	lc := lifecycle.New()
	sw := sweeper.New(&fakeStore{}, 10*time.Minute, logging.Discard())

	sw.Register(lc)
	lc.WaitForStartup()

	if st, _ := sw.Status(); !st.Running {
		t.Error("sweeper not running after startup")
	}

	if err := lc.Shutdown(2 * time.Second); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}

	if st, _ := sw.Status(); st.Running {
		t.Error("sweeper still running after shutdown")
	}
}
