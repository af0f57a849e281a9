package fixture

import "context"

// Fixture is a caller-supplied setup/teardown unit.
//
// Setup receives the ordered parameters of the identity it was scheduled for
// and returns the value handed to every work item sharing that identity.
// Teardown runs after a successful Setup; FailedTeardown runs instead when
// Setup failed after the fixture was constructed. Teardown errors are
// swallowed by the coordinator.
//
//go:generate mockgen -destination=fixturemock/fixture.go -package=fixturemock github.com/agbru/fixturerun/internal/fixture Fixture
type Fixture interface {
	Setup(ctx context.Context, params ...string) (any, error)
	Teardown(ctx context.Context) error
	FailedTeardown(ctx context.Context) error
}

// Constructor builds a fresh fixture instance. It plays the role of default
// construction: it takes no arguments and is invoked once per scheduled
// identity.
type Constructor func() Fixture

// Funcs adapts plain functions to the Fixture interface. Nil functions are
// treated as no-ops returning a nil value.
type Funcs struct {
	SetupFunc          func(ctx context.Context, params ...string) (any, error)
	TeardownFunc       func(ctx context.Context) error
	FailedTeardownFunc func(ctx context.Context) error
}

var _ Fixture = (*Funcs)(nil)

// Setup calls SetupFunc.
func (f *Funcs) Setup(ctx context.Context, params ...string) (any, error) {
	if f.SetupFunc == nil {
		return nil, nil
	}
	return f.SetupFunc(ctx, params...)
}

// Teardown calls TeardownFunc.
func (f *Funcs) Teardown(ctx context.Context) error {
	if f.TeardownFunc == nil {
		return nil
	}
	return f.TeardownFunc(ctx)
}

// FailedTeardown calls FailedTeardownFunc.
func (f *Funcs) FailedTeardown(ctx context.Context) error {
	if f.FailedTeardownFunc == nil {
		return nil
	}
	return f.FailedTeardownFunc(ctx)
}
