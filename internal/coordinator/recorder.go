package coordinator

import "context"

// Recorder persists outcomes as they finalize. Recorder errors are logged and
// otherwise ignored.
type Recorder interface {
	RecordSetup(ctx context.Context, o *Outcome) error
	RecordTeardown(ctx context.Context, o *Outcome, teardownErr error) error
}
