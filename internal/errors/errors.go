package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Exit codes used by host programs that embed the coordinator.
const (
	ExitSuccess      = 0 // Indicates successful execution.
	ExitErrorGeneric = 1 // Indicates a generic error.
	ExitErrorConfig  = 4 // Indicates a configuration error.
	ExitErrorSetup   = 5 // Indicates at least one item failed in its fixture setup phase.
)

// ErrAlreadyRegistered is returned when a work item that is already known to a
// coordinator is registered again under a different fixture identity.
var ErrAlreadyRegistered = errors.New("work item already registered with another fixture")

// ConfigError represents a user configuration error, such as an invalid value
// in the configuration file or environment.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// InvalidRegistrationError reports fixture metadata that cannot be resolved to
// a constructible fixture type. It is surfaced as a failed outcome when the
// fixture is scheduled, never from registration itself.
type InvalidRegistrationError struct {
	// Type is the fixture type name that could not be resolved.
	Type string
	// Cause is the optional underlying reason.
	Cause error
}

// Error returns a formatted message naming the unresolved fixture type.
func (e *InvalidRegistrationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid fixture registration %q: %v", e.Type, e.Cause)
	}
	return fmt.Sprintf("invalid fixture registration %q: type is not registered", e.Type)
}

// Unwrap returns the underlying cause, if any.
func (e *InvalidRegistrationError) Unwrap() error { return e.Cause }

// SetupError captures any failure raised while constructing a fixture or
// running its Setup. It is stored in the outcome rather than propagated.
type SetupError struct {
	// Fixture is the display form of the fixture identity.
	Fixture string
	// Cause is the error (or recovered panic) produced by the fixture.
	Cause error
}

// Error returns the fixture name followed by the underlying cause.
func (e *SetupError) Error() string {
	return fmt.Sprintf("fixture %s setup failed: %v", e.Fixture, e.Cause)
}

// Unwrap returns the original setup failure.
func (e *SetupError) Unwrap() error { return e.Cause }

// TeardownError captures a failure raised by Teardown or FailedTeardown.
// Teardown errors are isolated to their own job and only logged, counted and
// journaled.
type TeardownError struct {
	// Fixture is the display form of the fixture identity.
	Fixture string
	// Failed is true when the failure came from the FailedTeardown path.
	Failed bool
	// Cause is the error (or recovered panic) produced by the fixture.
	Cause error
}

// Error returns a message naming the teardown path and the cause.
func (e *TeardownError) Error() string {
	path := "teardown"
	if e.Failed {
		path = "failed teardown"
	}
	return fmt.Sprintf("fixture %s %s failed: %v", e.Fixture, path, e.Cause)
}

// Unwrap returns the original teardown failure.
func (e *TeardownError) Unwrap() error { return e.Cause }

// SetupPhaseError is the user-visible error reported for a work item whose
// fixture failed. It keeps the captured setup error as its cause so callers can
// tell a setup-phase failure apart from a failure in the item's own logic.
type SetupPhaseError struct {
	// Item is the display form of the work item.
	Item string
	// Cause is the captured fixture failure.
	Cause error
}

// Error returns the setup-phase message with the root cause attached.
func (e *SetupPhaseError) Error() string {
	return fmt.Sprintf("%s: failed in fixture setup phase: %v", e.Item, e.Cause)
}

// Unwrap returns the captured fixture failure.
func (e *SetupPhaseError) Unwrap() error { return e.Cause }

// PanicError wraps a value recovered from a panicking fixture.
type PanicError struct {
	// Value is the value passed to panic.
	Value any
	// Stack is the goroutine stack captured at recovery time.
	Stack []byte
}

// Error returns the panic value formatted as a message.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsSetupPhase reports whether err is (or wraps) a SetupPhaseError.
func IsSetupPhase(err error) bool {
	var spe *SetupPhaseError
	return errors.As(err, &spe)
}
