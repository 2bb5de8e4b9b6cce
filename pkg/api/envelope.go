package api

import "time"

type (
	// Details enumerates the artifacts a workflow created, keyed by
	// artifact kind
	Details map[string]any

	// Result is the uniform envelope returned by every workflow
	// procedure. Success and Message are always present; Details is
	// present only on success. Workflows return, they never panic or
	// propagate errors
	Result struct {
		Success    bool          `json:"success"`
		Message    string        `json:"message"`
		Elapsed    time.Duration `json:"elapsed"`
		FailedStep string        `json:"failed_step,omitempty"`
		ErrorKind  ErrorKind     `json:"error_kind,omitempty"`
		Details    Details       `json:"details,omitempty"`
	}

	// ErrorKind coarsely classifies a step failure. The envelope message
	// still embeds the failing step's error text verbatim
	ErrorKind string
)

const (
	ErrorKindValidation  ErrorKind = "validation"
	ErrorKindLifecycle   ErrorKind = "lifecycle"
	ErrorKindStepFailure ErrorKind = "step"
)

// Succeed builds a success envelope with the elapsed time since start
func Succeed(message string, start time.Time, details Details) Result {
	return Result{
		Success: true,
		Message: message,
		Elapsed: time.Since(start),
		Details: details,
	}
}

// Fail builds a failure envelope with the elapsed time since start. The
// message is composed as "<action> failed: <text>" by the caller; no
// details accompany a failure
func Fail(message string, start time.Time, step string, kind ErrorKind) Result {
	return Result{
		Success:    false,
		Message:    message,
		Elapsed:    time.Since(start),
		FailedStep: step,
		ErrorKind:  kind,
	}
}
