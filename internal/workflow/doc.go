// Package workflow implements the orchestration core: the Orchestrator
// owning collaborator lifecycle, the generalized step runner, and the
// three workflow procedures (code-review scheduling, project kickoff,
// incident response).
//
// Every procedure is a function of (request, user context, correlation id)
// returning a Result envelope; it never returns an error and never
// panics. Steps with mutual data dependency run in sequence; independent
// steps fan out and join. The first failing step aborts the rest of the
// invocation, and artifacts already created in external systems stay
// where they are: there is no rollback, no retry, and no engine-imposed
// timeout
package workflow
