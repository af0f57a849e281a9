package coordinator

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agbru/fixturerun/internal/fixture"
)

const testPoll = 5 * time.Millisecond

// counter counts how often fixtures built from it are set up and torn down.
type counter struct {
	setups          atomic.Int32
	teardowns       atomic.Int32
	failedTeardowns atomic.Int32

	setupErr    error
	teardownErr error
	setupPanic  any
	// gate, when set, blocks Setup until it is closed.
	gate chan struct{}
}

func (p *counter) constructor() fixture.Constructor {
	return func() fixture.Fixture {
		return &fixture.Funcs{
			SetupFunc: func(_ context.Context, params ...string) (any, error) {
				p.setups.Add(1)
				if p.gate != nil {
					<-p.gate
				}
				if p.setupPanic != nil {
					panic(p.setupPanic)
				}
				if p.setupErr != nil {
					return nil, p.setupErr
				}
				return "value:" + strings.Join(params, ","), nil
			},
			TeardownFunc: func(context.Context) error {
				p.teardowns.Add(1)
				return p.teardownErr
			},
			FailedTeardownFunc: func(context.Context) error {
				p.failedTeardowns.Add(1)
				return p.teardownErr
			},
		}
	}
}

// newTestCoordinator builds a string-keyed coordinator with one registered
// type per counter name.
func newTestCoordinator(t *testing.T, counters map[string]*counter, opts ...Option) *Coordinator[string] {
	t.Helper()
	reg := fixture.NewRegistry()
	for name, p := range counters {
		reg.Register(name, p.constructor())
	}
	opts = append([]Option{WithPollInterval(testPoll)}, opts...)
	return New[string](reg, opts...)
}

func mustRegister(t *testing.T, c *Coordinator[string], item string, id fixture.Identity) {
	t.Helper()
	if err := c.Register(item, id); err != nil {
		t.Fatalf("Register(%q): %v", item, err)
	}
}

func awaitSetups(t *testing.T, c *Coordinator[string]) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.AwaitAllSetups(ctx); err != nil {
		t.Fatalf("AwaitAllSetups: %v", err)
	}
}

func mustOutcome(t *testing.T, c *Coordinator[string], item string) *Outcome {
	t.Helper()
	o, ok := c.Outcome(item)
	if !ok || o == nil {
		t.Fatalf("Outcome(%q) not ready", item)
	}
	return o
}

// recorderSpy is an in-memory Recorder.
type recorderSpy struct {
	mu        sync.Mutex
	setups    []string
	teardowns map[string]error
}

func (r *recorderSpy) RecordSetup(_ context.Context, o *Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setups = append(r.setups, o.ID)
	return nil
}

func (r *recorderSpy) RecordTeardown(_ context.Context, o *Outcome, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.teardowns == nil {
		r.teardowns = make(map[string]error)
	}
	r.teardowns[o.ID] = err
	return nil
}
