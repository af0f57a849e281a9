package coordinator

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/fixturerun/internal/errors"
	"github.com/agbru/fixturerun/internal/fixture"
	"github.com/agbru/fixturerun/internal/logging"
	"github.com/agbru/fixturerun/internal/metrics"
)

const tracerName = "github.com/agbru/fixturerun/internal/coordinator"

// bucket is one entry of the pending batch: an identity and the items that
// declared it, in registration order.
type bucket[W comparable] struct {
	identity fixture.Identity
	items    []W
}

// Coordinator deduplicates fixture invocations across work items of type W,
// runs each distinct setup once on a bounded pool, serves per-item outcomes,
// and tears every completed fixture down exactly once.
//
// A Coordinator is safe for concurrent use. Independent coordinators share no
// state.
type Coordinator[W comparable] struct {
	registry *fixture.Registry
	workers  int
	poll     time.Duration
	logger   logging.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	recorder Recorder

	mu sync.Mutex
	// pending is the batch accumulated since the last RunPendingSetups;
	// order keeps first-registration order of its keys.
	pending map[fixture.Key]*bucket[W]
	order   []fixture.Key
	// keys binds every known item (pending or scheduled) to its identity.
	keys map[W]fixture.Key
	// results maps scheduled items to their shared future.
	results map[W]*future
	// setupsDone is set once AwaitAllSetups observed every future complete
	// and cleared by the next scheduling run.
	setupsDone bool
}

// New creates a coordinator that resolves fixture types through registry.
func New[W comparable](registry *fixture.Registry, opts ...Option) *Coordinator[W] {
	o := options{
		workers:      DefaultWorkers,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNopLogger()
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	if registry == nil {
		registry = fixture.NewRegistry()
	}

	return &Coordinator[W]{
		registry: registry,
		workers:  o.workers,
		poll:     o.pollInterval,
		logger:   o.logger,
		metrics:  o.metrics,
		tracer:   o.tracerProvider.Tracer(tracerName),
		recorder: o.recorder,
		pending:  make(map[fixture.Key]*bucket[W]),
		keys:     make(map[W]fixture.Key),
		results:  make(map[W]*future),
	}
}

// Workers returns the configured pool size.
func (c *Coordinator[W]) Workers() int { return c.workers }

// Register adds item to the pending batch under id. Registering the same item
// again with an equal identity is a no-op; registering it with a different
// identity returns apperrors.ErrAlreadyRegistered. Whether id.Type can be
// constructed is only checked when the batch is scheduled.
func (c *Coordinator[W]) Register(item W, id fixture.Identity) error {
	key := id.Key()

	c.mu.Lock()
	defer c.mu.Unlock()

	if known, ok := c.keys[item]; ok {
		if known == key {
			return nil
		}
		return apperrors.WrapError(apperrors.ErrAlreadyRegistered, "register %v as %s", item, id)
	}
	c.keys[item] = key

	b, ok := c.pending[key]
	if !ok {
		b = &bucket[W]{identity: fixture.NewIdentity(id.Type, id.Params...)}
		c.pending[key] = b
		c.order = append(c.order, key)
	}
	b.items = append(b.items, item)
	c.metrics.ItemRegistered()
	return nil
}

// PendingCount returns the number of distinct identities waiting for the next
// scheduling run.
func (c *Coordinator[W]) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// HasFixture reports whether item has been scheduled, regardless of whether
// its setup has completed.
func (c *Coordinator[W]) HasFixture(item W) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.results[item]
	return ok
}

// Lookup returns the state of item's fixture without blocking. The outcome is
// non-nil only when the status is Done.
func (c *Coordinator[W]) Lookup(item W) (*Outcome, Status) {
	c.mu.Lock()
	f, ok := c.results[item]
	c.mu.Unlock()

	if !ok {
		return nil, NotRegistered
	}
	o, done := f.result()
	if !done {
		return nil, Pending
	}
	return o, Done
}

// Outcome returns item's outcome if its setup has completed. It never blocks;
// false means "not ready" (unknown, unscheduled or still running).
func (c *Coordinator[W]) Outcome(item W) (*Outcome, bool) {
	o, status := c.Lookup(item)
	return o, status == Done
}

// AwaitAllSetups blocks until every future in the result store is complete,
// including futures scheduled after the wait began. Once it has observed
// completion it returns immediately until the next scheduling run.
//
// ctx only bounds the wait; fixture work is never cancelled.
func (c *Coordinator[W]) AwaitAllSetups(ctx context.Context) error {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		next, outstanding := c.outstanding()
		if next == nil {
			return nil
		}
		select {
		case <-next.done:
		case <-ticker.C:
			c.logger.Debug("awaiting fixture setups", logging.Int("outstanding", outstanding))
		case <-ctx.Done():
			return apperrors.WrapError(ctx.Err(), "await fixture setups")
		}
	}
}

// outstanding returns one incomplete future and the number of incomplete
// futures. When none remain it latches setupsDone and returns nil.
func (c *Coordinator[W]) outstanding() (*future, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.setupsDone {
		return nil, 0
	}

	var next *future
	n := 0
	for f := range c.distinctFuturesLocked() {
		if f.isDone() {
			continue
		}
		n++
		if next == nil {
			next = f
		}
	}
	if n == 0 {
		c.setupsDone = true
	}
	return next, n
}

// distinctFuturesLocked returns each future once with the number of items
// mapped to it. c.mu must be held.
func (c *Coordinator[W]) distinctFuturesLocked() map[*future]int {
	futures := make(map[*future]int, len(c.results))
	for _, f := range c.results {
		futures[f]++
	}
	return futures
}

// Outcomes returns every completed outcome with the number of items sharing
// it, sorted by identity.
func (c *Coordinator[W]) Outcomes() []Summary {
	c.mu.Lock()
	futures := c.distinctFuturesLocked()
	c.mu.Unlock()

	summaries := make([]Summary, 0, len(futures))
	for f, items := range futures {
		if o, ok := f.result(); ok {
			summaries = append(summaries, Summary{Outcome: o, Items: items})
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i].Outcome, summaries[j].Outcome
		if as, bs := a.Identity.String(), b.Identity.String(); as != bs {
			return as < bs
		}
		return a.ID < b.ID
	})
	return summaries
}
