package workflow

import (
	"errors"
	"fmt"
	"sync"
)

// Key names an intermediate artifact in the accumulator
type Key string

// Artifact keys used by the workflow procedures
const (
	KeyPRDetails    Key = "prDetails"
	KeyIssueDetails Key = "issueDetails"
	KeyAttendees    Key = "attendees"
	KeyMeetingSlot  Key = "meetingSlot"
	KeyChannel      Key = "channel"
	KeyMeeting      Key = "meeting"
	KeyDocument     Key = "document"
	KeyProjectPage  Key = "projectPage"
	KeyRepository   Key = "repository"
	KeyIssue        Key = "issue"
)

var (
	ErrArtifactExists  = errors.New("artifact already recorded")
	ErrArtifactMissing = errors.New("artifact not recorded")
	ErrArtifactType    = errors.New("artifact has unexpected type")
)

// Accumulator is the per-invocation bag of intermediate artifacts. Keys
// are write-once; the bag is created at invocation entry, never shared
// across invocations, and discarded when the workflow returns. Fanned-out
// steps write concurrently, so access is guarded
type Accumulator struct {
	mu       sync.Mutex
	values   map[Key]any
	rendered map[string]string
}

// NewAccumulator creates an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{
		values:   map[Key]any{},
		rendered: map[string]string{},
	}
}

// Put records an artifact under a key, rejecting overwrites
func (a *Accumulator) Put(key Key, value any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.values[key]; ok {
		return fmt.Errorf("%w: %s", ErrArtifactExists, key)
	}
	a.values[key] = value
	return nil
}

// Get retrieves an artifact by key
func (a *Accumulator) Get(key Key) (any, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.values[key]
	return v, ok
}

// PutRendered records a rendered body for the artifact archive
func (a *Accumulator) PutRendered(name, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rendered[name] = body
}

// Rendered returns a copy of the rendered bodies
func (a *Accumulator) Rendered() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	res := make(map[string]string, len(a.rendered))
	for k, v := range a.rendered {
		res[k] = v
	}
	return res
}

// Value retrieves a typed artifact from the accumulator
func Value[T any](a *Accumulator, key Key) (T, error) {
	var zero T
	v, ok := a.Get(key)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrArtifactMissing, key)
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrArtifactType, key, v)
	}
	return typed, nil
}
