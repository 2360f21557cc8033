package sweeper

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoReporter is reported when the status endpoint has no sweeper.
var ErrNoReporter = errors.New("sweeper not configured")

// Status describes the sweeper for the worker status endpoint.
type Status struct {
	Running          bool       `json:"running"`
	RetentionMinutes int        `json:"retention_minutes"`
	NextRun          *time.Time `json:"next_run"`
	JobCount         int        `json:"job_count"`
	Error            string     `json:"error,omitempty"`
}

// Reporter provides sweeper status.
type Reporter interface {
	Status() (Status, error)
}

// Status reports the current state. NextRun is nil unless running.
// The sweep job is always scheduled, so JobCount is 1.
func (s *sweeper) Status() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Running:          s.running,
		RetentionMinutes: s.retentionMinutes(),
		JobCount:         1,
	}

	if s.running {
		next := s.nextRun
		st.NextRun = &next
	}

	return st, nil
}

// Report converts r into a status payload. It never fails: an error or panic
// from r yields a stopped status carrying the error message.
func Report(r Reporter) (st Status) {
	defer func() {
		if p := recover(); p != nil {
			st = failed(fmt.Errorf("%w: %v", ErrSweepPanic, p))
		}
	}()

	if r == nil {
		return failed(ErrNoReporter)
	}

	st, err := r.Status()
	if err != nil {
		return failed(err)
	}

	return st
}

func failed(err error) Status {
	return Status{
		Running:  false,
		NextRun:  nil,
		JobCount: 0,
		Error:    err.Error(),
	}
}
