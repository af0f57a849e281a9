package coordinator

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/agbru/fixturerun/internal/fixture"
)

// Outcome is the recorded result of one fixture setup execution. Every work
// item sharing the identity observes the same *Outcome.
//
// All exported fields are written before the outcome is published and are
// read-only afterwards.
type Outcome struct {
	// ID uniquely identifies this setup execution (ULID).
	ID string
	// Identity is the fixture invocation this outcome belongs to.
	Identity fixture.Identity
	// Value is what Setup returned. It is nil when setup failed.
	Value any
	// Err is the captured failure, nil on success. It is an
	// *apperrors.InvalidRegistrationError or an *apperrors.SetupError.
	Err error
	// Fixture is the live instance used for teardown dispatch. It is set
	// whenever construction succeeded, even if Setup then failed.
	Fixture fixture.Fixture
	// StartedAt and FinishedAt bracket the setup job.
	StartedAt  time.Time
	FinishedAt time.Time

	teardownScheduled atomic.Bool

	mu           sync.Mutex
	teardownDone bool
	teardownErr  error
}

// Success reports whether setup completed without error.
func (o *Outcome) Success() bool { return o.Err == nil }

// Duration is the wall-clock time of the setup job.
func (o *Outcome) Duration() time.Duration { return o.FinishedAt.Sub(o.StartedAt) }

// TeardownScheduled reports whether a teardown job was dispatched for this
// outcome.
func (o *Outcome) TeardownScheduled() bool { return o.teardownScheduled.Load() }

// TeardownResult reports whether teardown has finished and what it returned.
func (o *Outcome) TeardownResult() (done bool, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.teardownDone, o.teardownErr
}

// claimTeardown flips the teardown-scheduled flag. Only the first caller wins.
func (o *Outcome) claimTeardown() bool {
	return o.teardownScheduled.CompareAndSwap(false, true)
}

func (o *Outcome) finishTeardown(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.teardownDone = true
	o.teardownErr = err
}

func newOutcomeID() string {
	return ulid.Make().String()
}

// future is a shared handle to an outcome that may still be running.
type future struct {
	done    chan struct{}
	outcome *Outcome
}

func newFuture() *future {
	return &future{done: make(chan struct{})}
}

// complete publishes o. It must be called exactly once.
func (f *future) complete(o *Outcome) {
	f.outcome = o
	close(f.done)
}

func (f *future) isDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// result returns the outcome without blocking.
func (f *future) result() (*Outcome, bool) {
	if !f.isDone() {
		return nil, false
	}
	return f.outcome, true
}

// Status is the three-way state of a work item's fixture.
type Status int

const (
	// NotRegistered means the item has no setup job: it was never registered,
	// or it is registered but not yet scheduled.
	NotRegistered Status = iota
	// Pending means the item's setup job is scheduled or running.
	Pending
	// Done means the item's outcome is final.
	Done
)

func (s Status) String() string {
	switch s {
	case NotRegistered:
		return "not_registered"
	case Pending:
		return "pending"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Summary describes one completed outcome and how many items share it.
type Summary struct {
	Outcome *Outcome
	Items   int
}

// TeardownReport summarizes one RunPendingTeardowns pass.
type TeardownReport struct {
	// Scheduled is the number of teardown jobs dispatched in this pass.
	Scheduled int
	// Succeeded and Failed split Scheduled by job result.
	Succeeded int
	Failed    int
	// Skipped counts completed outcomes already torn down by an earlier pass.
	Skipped int
	// NotReady counts outcomes whose setup was still running.
	NotReady int
}
