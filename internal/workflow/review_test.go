package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kestrelops/liaison/internal/assert"
	"github.com/kestrelops/liaison/pkg/api"
)

func TestScheduleReview(t *testing.T) {
	as := assert.New(t)
	w := newTestWorld(t).initialized(t)

	res := w.orch.ScheduleReview(context.Background(), api.ReviewRequest{
		Repo:           "acme/web",
		PRNumber:       42,
		IssueNumber:    7,
		ExtraAttendees: []string{"lead@x.com"},
	}, testUser(), "corr-rv-1")

	as.EnvelopeOK(res,
		"repo", "pr_number", "issue_number", "channel", "meeting",
		"document", "slot", "attendees",
	)
	as.Contains(res.Message, "acme/web#42")

	// reviewers with addresses, then author, then extras; the
	// address-less reviewer is dropped
	as.Equal([]string{"a@x.com", "b@x.com", "lead@x.com"},
		as.HasDetail(res, "attendees"))

	require.Len(t, w.chat.channels, 1)
	ch := w.chat.channels[0]
	as.Equal("pr-42-fix-login-bug", ch.Name)
	as.SlugValid(ch.Name)
	as.False(ch.Private)
	as.Equal([]string{"a", "b", "lead"}, ch.Members)

	require.Len(t, w.sched.meetings, 1)
	m := w.sched.meetings[0]
	as.Equal("Code Review: Fix Login Bug", m.Title)
	as.Equal("pr-42-review", m.ConferenceRef)
	as.Equal("https://chat.example/"+ch.Name, m.Location)

	require.Len(t, w.docs.documents, 1)
	as.Equal([]string{"col-projects"}, w.docs.collections)
	as.Contains(w.docs.documents[0].Body, "acme/web")

	require.Len(t, w.chat.messages, 1)
	as.Contains(w.chat.messages[0].Text, "#42")
}

func TestScheduleReviewFetchesConcurrently(t *testing.T) {
	as := assert.New(t)
	w := newTestWorld(t).initialized(t)
	w.source.prDelay = 100 * time.Millisecond
	w.source.issueDelay = 100 * time.Millisecond

	start := time.Now()
	res := w.orch.ScheduleReview(context.Background(), api.ReviewRequest{
		Repo:        "acme/web",
		PRNumber:    42,
		IssueNumber: 7,
	}, testUser(), "corr-rv-2")
	elapsed := time.Since(start)

	as.EnvelopeOK(res)
	as.Less(elapsed, 180*time.Millisecond,
		"pull request and issue fetches must overlap")
}

func TestScheduleReviewCustomDuration(t *testing.T) {
	as := assert.New(t)
	w := newTestWorld(t).initialized(t)

	res := w.orch.ScheduleReview(context.Background(), api.ReviewRequest{
		Repo:        "acme/web",
		PRNumber:    42,
		IssueNumber: 7,
		Duration:    45 * time.Minute,
	}, testUser(), "corr-rv-3")

	as.EnvelopeOK(res)
	require.Len(t, w.sched.windows, 1)
	as.Equal(45*time.Minute, w.sched.windows[0].Duration)
	as.Equal(45*time.Minute, w.sched.meetings[0].Duration)
}

func TestScheduleReviewNoSlot(t *testing.T) {
	as := assert.New(t)
	w := newTestWorld(t).initialized(t)
	w.sched.slotErr = errors.New("no slot available")

	res := w.orch.ScheduleReview(context.Background(), api.ReviewRequest{
		Repo:        "acme/web",
		PRNumber:    42,
		IssueNumber: 7,
	}, testUser(), "corr-rv-4")

	as.EnvelopeFailed(res, "find-meeting-slot", api.ErrorKindStepFailure)
	as.Contains(res.Message, "no slot available")

	// the failure aborts before any channel or meeting exists
	as.Zero(w.log.count("createChannel"))
	as.Zero(w.log.count("createMeeting"))
}

func TestScheduleReviewFetchFailure(t *testing.T) {
	as := assert.New(t)
	w := newTestWorld(t).initialized(t)
	w.source.issueErr = errors.New("issue 7 not found")

	res := w.orch.ScheduleReview(context.Background(), api.ReviewRequest{
		Repo:        "acme/web",
		PRNumber:    42,
		IssueNumber: 7,
	}, testUser(), "corr-rv-5")

	as.EnvelopeFailed(res, "fetch-issue", api.ErrorKindStepFailure)
	as.Contains(res.Message, "issue 7 not found")
	as.Zero(w.log.count("findOptimalTime"))
}
