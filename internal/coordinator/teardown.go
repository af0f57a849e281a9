package coordinator

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/fixturerun/internal/errors"
	"github.com/agbru/fixturerun/internal/logging"
)

// RunPendingTeardowns dispatches a teardown job for every completed outcome
// that has not been torn down yet, then blocks until every job of this pass
// has finished. Successful outcomes get Teardown, failed ones FailedTeardown.
//
// The teardown-scheduled flag is claimed before a job is dispatched, so
// concurrent or repeated passes tear each outcome down at most once. Teardown
// failures are isolated to their own job.
func (c *Coordinator[W]) RunPendingTeardowns(ctx context.Context) TeardownReport {
	c.mu.Lock()
	futures := c.distinctFuturesLocked()
	c.mu.Unlock()

	var report TeardownReport
	if len(futures) == 0 {
		return report
	}

	ctx = context.WithoutCancel(ctx)
	var succeeded, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(c.workers)

	for f, items := range futures {
		o, done := f.result()
		if !done {
			report.NotReady++
			continue
		}
		if !o.claimTeardown() {
			report.Skipped++
			continue
		}
		report.Scheduled++
		g.Go(func() error {
			if c.runTeardown(ctx, o, items) {
				succeeded.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Succeeded = int(succeeded.Load())
	report.Failed = int(failed.Load())
	c.logger.Info("fixture teardowns finished",
		logging.Int("scheduled", report.Scheduled),
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed),
		logging.Int("skipped", report.Skipped),
		logging.Int("not_ready", report.NotReady),
	)
	return report
}

// runTeardown dispatches to Teardown or FailedTeardown and reports whether the
// call succeeded. Outcomes without a fixture instance have nothing to release.
func (c *Coordinator[W]) runTeardown(ctx context.Context, o *Outcome, items int) bool {
	failedPath := !o.Success()
	ctx, span := c.tracer.Start(ctx, "fixture.teardown", trace.WithAttributes(
		attribute.String("fixture.type", o.Identity.Type),
		attribute.StringSlice("fixture.params", o.Identity.Params),
		attribute.String("fixture.outcome_id", o.ID),
		attribute.Bool("fixture.failed_teardown", failedPath),
		attribute.Int("fixture.items", items),
	))
	defer span.End()

	start := time.Now()
	var err error
	if o.Fixture != nil {
		c.metrics.TeardownStarted()
		err = capture(func() error {
			if failedPath {
				return o.Fixture.FailedTeardown(ctx)
			}
			return o.Fixture.Teardown(ctx)
		})
		if err != nil {
			err = &apperrors.TeardownError{Fixture: o.Identity.String(), Failed: failedPath, Cause: err}
		}
		c.metrics.TeardownFinished(failedPath, err == nil, time.Since(start))
	}
	o.finishTeardown(err)

	fields := []logging.Field{
		logging.String("outcome_id", o.ID),
		logging.String("fixture", o.Identity.String()),
		logging.Bool("failed_teardown", failedPath),
		logging.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("fixture teardown failed", err, fields...)
	} else {
		c.logger.Debug("fixture teardown completed", fields...)
	}

	if c.recorder != nil {
		if recErr := c.recorder.RecordTeardown(ctx, o, err); recErr != nil {
			c.logger.Error("failed to record teardown", recErr, logging.String("outcome_id", o.ID))
		}
	}
	return err == nil
}
