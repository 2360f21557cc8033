// Package sweeper periodically purges documents older than a retention
// window, together with their upload and image files.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/pdf-extractor/internal/documents"
	"github.com/JaimeStill/pdf-extractor/pkg/lifecycle"
)

// Interval is the time between sweeps. It is independent of the retention window.
const Interval = time.Minute

// ErrSweepPanic wraps a panic recovered during a sweep.
var ErrSweepPanic = errors.New("sweep panicked")

// Store is the subset of document operations a sweep needs.
type Store interface {
	Expired(ctx context.Context, cutoff time.Time) ([]documents.Document, error)
	Purge(ctx context.Context, doc documents.Document) error
}

// System is the retention sweeper. Start and Stop are idempotent.
type System interface {
	Start()
	Stop()

	// Sweep purges every document created strictly before now minus the
	// retention window and returns how many were removed. A failure to
	// purge one document is logged and does not stop the others.
	Sweep(ctx context.Context) (int, error)

	// Register starts the sweeper on startup and stops it on shutdown.
	Register(lc *lifecycle.Coordinator)

	Reporter
}

// Option configures a sweeper.
type Option func(*sweeper)

// WithInterval overrides Interval.
func WithInterval(d time.Duration) Option {
	return func(s *sweeper) {
		s.interval = d
	}
}

// WithClock overrides the time source used for cutoffs and next run times.
func WithClock(now func() time.Time) Option {
	return func(s *sweeper) {
		s.now = now
	}
}

type sweeper struct {
	store     Store
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
	nextRun time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a stopped sweeper that purges documents older than retention.
func New(store Store, retention time.Duration, logger *slog.Logger, opts ...Option) System {
	s := &sweeper{
		store:     store,
		retention: retention,
		interval:  Interval,
		now:       time.Now,
		logger:    logger.With("system", "sweeper"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *sweeper) retentionMinutes() int {
	return int(s.retention / time.Minute)
}

func (s *sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	s.nextRun = s.now().Add(s.interval)

	go s.run(ctx, time.NewTicker(s.interval), s.done)

	s.logger.Info(
		"sweeper started",
		"retention_minutes", s.retentionMinutes(),
		"interval", s.interval,
	)
}

func (s *sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}

	s.running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.logger.Info("sweeper stopped")
}

func (s *sweeper) Register(lc *lifecycle.Coordinator) {
	lc.OnStartup(s.Start)

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.Stop()
	})
}

func (s *sweeper) run(ctx context.Context, ticker *time.Ticker, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.nextRun = s.now().Add(s.interval)
			s.mu.Unlock()

			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("sweep failed", "error", err)
			}
		}
	}
}

func (s *sweeper) Sweep(ctx context.Context) (removed int, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("sweep panicked", "panic", r)
			err = fmt.Errorf("%w: %v", ErrSweepPanic, r)
		}
	}()

	cutoff := s.now().Add(-s.retention)

	docs, err := s.store.Expired(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list expired documents: %w", err)
	}

	if len(docs) == 0 {
		s.logger.Debug("no expired documents", "cutoff", cutoff)
		return 0, nil
	}

	s.logger.Info("purging expired documents", "count", len(docs), "cutoff", cutoff)

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		if err := s.purge(ctx, doc); err != nil {
			s.logger.Error("failed to purge document", "id", doc.ID, "error", err)
			continue
		}
		removed++
	}

	s.logger.Info("sweep complete", "removed", removed, "failed", len(docs)-removed)
	return removed, nil
}

func (s *sweeper) purge(ctx context.Context, doc documents.Document) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSweepPanic, r)
		}
	}()

	return s.store.Purge(ctx, doc)
}
