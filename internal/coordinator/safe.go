package coordinator

import (
	"runtime/debug"

	apperrors "github.com/agbru/fixturerun/internal/errors"
)

// capture runs fn and converts a panic into an *apperrors.PanicError.
func capture(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &apperrors.PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
