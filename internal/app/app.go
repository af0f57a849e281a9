// Package app wires configuration, logging, metrics, the journal and the
// fixture coordinator into the fixturedemo command.
package app

import (
	"errors"
	"flag"
	"io"

	"github.com/agbru/fixturerun/internal/config"
	"github.com/agbru/fixturerun/internal/fixture"
)

// Application represents the fixturedemo application instance.
type Application struct {
	Config    config.Config
	NoColor   bool
	Registry  *fixture.Registry
	Plan      []PlanEntry
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry replaces the built-in fixture types.
func WithRegistry(r *fixture.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// WithPlan replaces the built-in list of work items.
func WithPlan(plan []PlanEntry) AppOption {
	return func(a *Application) { a.Plan = plan }
}

// New creates an Application by parsing command-line arguments. args[0] is
// the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Registry == nil {
		app.Registry = DefaultRegistry()
	}
	if app.Plan == nil {
		app.Plan = DefaultPlan()
	}

	programName := "fixturedemo"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	configPath := fs.String("config", "", "path to a YAML configuration file")
	fs.BoolVar(&app.NoColor, "no-color", false, "disable colored output")
	if err := fs.Parse(cmdArgs); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
