package coordinator

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/fixturerun/internal/errors"
	"github.com/agbru/fixturerun/internal/fixture"
	"github.com/agbru/fixturerun/internal/logging"
)

var errNilFixture = errors.New("constructor returned a nil fixture")

type setupJob struct {
	identity fixture.Identity
	items    int
	future   *future
}

// RunPendingSetups schedules one setup job per distinct identity in the
// pending batch and returns the number of jobs launched. The batch is
// snapshotted and cleared atomically; registrations that arrive afterwards
// wait for the next run. Every item is mapped to its job's future before this
// returns. Jobs run on a fresh pool of the configured size and their failures
// are captured into outcomes, so this call never fails.
func (c *Coordinator[W]) RunPendingSetups(ctx context.Context) int {
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		return 0
	}
	batch, order := c.pending, c.order
	c.pending = make(map[fixture.Key]*bucket[W])
	c.order = nil
	c.setupsDone = false

	jobs := make([]setupJob, 0, len(order))
	items := 0
	for _, key := range order {
		b := batch[key]
		f := newFuture()
		for _, item := range b.items {
			c.results[item] = f
		}
		items += len(b.items)
		jobs = append(jobs, setupJob{identity: b.identity, items: len(b.items), future: f})
	}
	c.mu.Unlock()

	c.logger.Info("scheduling fixture setups",
		logging.Int("jobs", len(jobs)),
		logging.Int("items", items),
		logging.Int("workers", c.workers),
	)
	c.metrics.SetupsScheduled(len(jobs))

	// Fixtures outlive the caller's context.
	ctx = context.WithoutCancel(ctx)
	go func() {
		g := new(errgroup.Group)
		g.SetLimit(c.workers)
		for _, job := range jobs {
			g.Go(func() error {
				c.runSetup(ctx, job)
				return nil
			})
		}
		_ = g.Wait()
	}()

	return len(jobs)
}

// runSetup executes one job and publishes its outcome.
func (c *Coordinator[W]) runSetup(ctx context.Context, job setupJob) {
	ctx, span := c.tracer.Start(ctx, "fixture.setup", trace.WithAttributes(
		attribute.String("fixture.type", job.identity.Type),
		attribute.StringSlice("fixture.params", job.identity.Params),
		attribute.Int("fixture.items", job.items),
	))
	defer span.End()

	c.metrics.SetupStarted()
	o := &Outcome{
		ID:        newOutcomeID(),
		Identity:  job.identity,
		StartedAt: time.Now(),
	}
	o.Fixture, o.Value, o.Err = c.setup(ctx, job.identity)
	o.FinishedAt = time.Now()
	c.metrics.SetupFinished(o.Success(), o.Duration())

	span.SetAttributes(attribute.String("fixture.outcome_id", o.ID))
	fields := []logging.Field{
		logging.String("outcome_id", o.ID),
		logging.String("fixture", job.identity.String()),
		logging.Int("items", job.items),
		logging.Duration("elapsed", o.Duration()),
	}
	if o.Err != nil {
		span.RecordError(o.Err)
		span.SetStatus(codes.Error, o.Err.Error())
		c.logger.Error("fixture setup failed", o.Err, fields...)
	} else {
		c.logger.Info("fixture setup completed", fields...)
	}

	if c.recorder != nil {
		if err := c.recorder.RecordSetup(ctx, o); err != nil {
			c.logger.Error("failed to record setup outcome", err, logging.String("outcome_id", o.ID))
		}
	}

	job.future.complete(o)
}

// setup constructs the fixture and runs its Setup, capturing every error and
// panic. The instance is returned whenever construction succeeded.
func (c *Coordinator[W]) setup(ctx context.Context, id fixture.Identity) (fixture.Fixture, any, error) {
	ctor, err := c.registry.Resolve(id.Type)
	if err != nil {
		return nil, nil, err
	}

	var fx fixture.Fixture
	err = capture(func() error {
		fx = ctor()
		if fx == nil {
			return errNilFixture
		}
		return nil
	})
	if err != nil {
		return nil, nil, &apperrors.SetupError{Fixture: id.String(), Cause: err}
	}

	var value any
	err = capture(func() error {
		var setupErr error
		value, setupErr = fx.Setup(ctx, id.Params...)
		return setupErr
	})
	if err != nil {
		return fx, nil, &apperrors.SetupError{Fixture: id.String(), Cause: err}
	}
	return fx, value, nil
}
