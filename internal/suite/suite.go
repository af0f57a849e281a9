// Package suite adapts a coordinator to the lifecycle of a test suite:
// discovery registers work items, the first item to run triggers scheduling
// and waits for setups, and the end of the suite tears fixtures down.
package suite

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agbru/fixturerun/internal/coordinator"
	apperrors "github.com/agbru/fixturerun/internal/errors"
	"github.com/agbru/fixturerun/internal/fixture"
	"github.com/agbru/fixturerun/internal/logging"
	"github.com/agbru/fixturerun/internal/report"
	"github.com/agbru/fixturerun/internal/ui"
)

// ErrNotReady is returned by BeforeItem when item's setup was scheduled by a
// concurrent caller after the wait completed.
var ErrNotReady = errors.New("fixture setup still running")

// Declaration binds a work item to the fixture it requires.
type Declaration[W comparable] struct {
	Item    W
	Fixture fixture.Identity
}

// Declare is shorthand for a Declaration.
func Declare[W comparable](item W, fixtureType string, params ...string) Declaration[W] {
	return Declaration[W]{Item: item, Fixture: fixture.NewIdentity(fixtureType, params...)}
}

// Option configures Hooks.
type Option func(*options)

type options struct {
	logger      logging.Logger
	reportW     io.Writer
	reportTheme ui.Theme
}

// WithLogger sets the logger used for hook-level messages.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithReport renders the outcome table to w when the suite finishes.
func WithReport(w io.Writer, theme ui.Theme) Option {
	return func(o *options) {
		o.reportW = w
		o.reportTheme = theme
	}
}

// Hooks drives a Coordinator from suite lifecycle events.
type Hooks[W comparable] struct {
	coord  *coordinator.Coordinator[W]
	logger logging.Logger

	reportW     io.Writer
	reportTheme ui.Theme
}

// New returns hooks bound to c.
func New[W comparable](c *coordinator.Coordinator[W], opts ...Option) *Hooks[W] {
	o := options{reportTheme: ui.GetCurrentTheme()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNopLogger()
	}
	return &Hooks[W]{
		coord:       c,
		logger:      o.logger,
		reportW:     o.reportW,
		reportTheme: o.reportTheme,
	}
}

// Coordinator returns the underlying coordinator.
func (h *Hooks[W]) Coordinator() *coordinator.Coordinator[W] { return h.coord }

// Discover registers every declaration. All declarations are attempted; the
// returned error joins every conflicting registration.
func (h *Hooks[W]) Discover(decls ...Declaration[W]) error {
	var errs []error
	for _, d := range decls {
		if err := h.coord.Register(d.Item, d.Fixture); err != nil {
			errs = append(errs, err)
		}
	}
	h.logger.Debug("discovered work items",
		logging.Int("declared", len(decls)),
		logging.Int("rejected", len(errs)),
		logging.Int("pending_fixtures", h.coord.PendingCount()),
	)
	return errors.Join(errs...)
}

// BeforeItem schedules every pending setup, waits for all setups and returns
// the value of item's fixture. Items without a fixture get (nil, nil). A
// failed setup is reported as an *apperrors.SetupPhaseError wrapping the
// captured cause.
func (h *Hooks[W]) BeforeItem(ctx context.Context, item W) (any, error) {
	h.coord.RunPendingSetups(ctx)
	if err := h.coord.AwaitAllSetups(ctx); err != nil {
		return nil, err
	}

	o, status := h.coord.Lookup(item)
	switch status {
	case coordinator.NotRegistered:
		return nil, nil
	case coordinator.Pending:
		// Only possible when another caller scheduled item after the wait.
		return nil, fmt.Errorf("%v: %w", item, ErrNotReady)
	}
	if !o.Success() {
		return nil, &apperrors.SetupPhaseError{Item: itemName(item), Cause: o.Err}
	}
	return o.Value, nil
}

// TB is the part of testing.TB that Require uses.
type TB interface {
	Helper()
	Fatal(args ...any)
	Context() context.Context
}

// Require is BeforeItem for Go tests: it fails t on any error and returns the
// fixture value.
func (h *Hooks[W]) Require(t TB, item W) any {
	t.Helper()
	value, err := h.BeforeItem(t.Context(), item)
	if err != nil {
		t.Fatal(err)
	}
	return value
}

// SuiteFinished tears down every completed fixture and renders the report
// when one is configured.
func (h *Hooks[W]) SuiteFinished(ctx context.Context) coordinator.TeardownReport {
	rep := h.coord.RunPendingTeardowns(ctx)
	if h.reportW != nil {
		if err := report.Render(h.reportW, h.coord.Outcomes(), rep, h.reportTheme); err != nil {
			h.logger.Error("failed to render fixture report", err)
		}
	}
	return rep
}

func itemName[W comparable](item W) string {
	return fmt.Sprint(item)
}
