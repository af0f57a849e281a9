// Package coordinator runs fixture setups ahead of a batch of work items and
// tears them down afterwards.
//
// Work items are registered against a fixture.Identity. RunPendingSetups
// launches one setup per distinct identity on a bounded pool, and every item
// of that identity shares the resulting Outcome. AwaitAllSetups blocks until
// the result store is fully resolved; Outcome and Lookup never block.
// RunPendingTeardowns tears each completed outcome down exactly once, choosing
// Teardown or FailedTeardown from the setup result.
//
// Setup and teardown failures, including panics, are captured and never
// propagate to the caller.
package coordinator
