package assert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelops/liaison/internal/config"
	"github.com/kestrelops/liaison/pkg/api"
)

// Wrapper wraps testify assertions with Liaison-specific helpers
type Wrapper struct {
	*testing.T
	*assert.Assertions
}

// DefaultRetryInterval is the default polling interval for Eventually
// checks
const DefaultRetryInterval = 100 * time.Millisecond

// New creates a new test assertion wrapper with testify assertions plus
// Liaison-specific helpers
func New(t *testing.T) *Wrapper {
	return &Wrapper{
		T:          t,
		Assertions: assert.New(t),
	}
}

// EnvelopeOK asserts a successful result envelope carrying the named
// detail keys
func (w *Wrapper) EnvelopeOK(res api.Result, keys ...string) {
	w.Helper()
	w.True(res.Success, "expected success: %s", res.Message)
	w.NotEmpty(res.Message)
	w.Empty(res.FailedStep)
	w.GreaterOrEqual(res.Elapsed, time.Duration(0))
	for _, key := range keys {
		w.Contains(res.Details, key, "missing detail: %s", key)
	}
}

// EnvelopeFailed asserts a failure envelope for a specific step and kind
func (w *Wrapper) EnvelopeFailed(
	res api.Result, step string, kind api.ErrorKind,
) {
	w.Helper()
	w.False(res.Success)
	w.NotEmpty(res.Message)
	w.Equal(step, res.FailedStep)
	w.Equal(kind, res.ErrorKind)
	w.Nil(res.Details, "failure envelopes carry no details")
}

// HasDetail asserts a result envelope carries the named detail key and
// returns its value for further inspection
func (w *Wrapper) HasDetail(res api.Result, key string) any {
	w.Helper()
	w.Contains(res.Details, key, "missing detail: %s", key)
	return res.Details[key]
}

// SlugValid asserts that a string obeys the channel naming rules
func (w *Wrapper) SlugValid(s string) {
	w.Helper()
	w.NotEmpty(s)
	w.LessOrEqual(len(s), api.MaxSlugLen)
	w.Equal(api.Slugify(s), s, "slug should be a fixed point")
}

// ConfigValid asserts that a configuration is valid
func (w *Wrapper) ConfigValid(cfg *config.Config) {
	w.Helper()
	w.NoError(cfg.Validate())
	w.True(cfg.APIPort > 0 && cfg.APIPort <= 65535)
}

// ConfigInvalid asserts that a configuration is invalid
func (w *Wrapper) ConfigInvalid(cfg *config.Config, contains string) {
	w.Helper()
	err := cfg.Validate()
	w.Error(err)
	if contains != "" {
		w.Contains(err.Error(), contains)
	}
}

// Eventually runs a condition repeatedly until it passes or times out
func (w *Wrapper) Eventually(
	condition func() bool, timeout time.Duration, msg string, args ...any,
) {
	w.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(DefaultRetryInterval)
	}
	w.Fail(msg, args...)
}
