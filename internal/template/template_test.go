package template_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelops/liaison/internal/template"
)

func newRenderer(t *testing.T) *template.Renderer {
	t.Helper()
	r, err := template.NewRenderer()
	require.NoError(t, err)
	return r
}

func TestRenderReviewDocument(t *testing.T) {
	r := newRenderer(t)

	body, err := r.Render(template.ReviewDocument, map[string]any{
		"PRTitle":      "Fix login bug",
		"PRNumber":     42,
		"Repo":         "acme/widgets",
		"Additions":    10,
		"Deletions":    3,
		"ChangedFiles": 2,
		"PRURL":        "https://git.example/pr/42",
		"IssueURL":     "https://git.example/issues/7",
		"ChannelURL":   "https://chat.example/c/1",
		"MeetingURL":   "https://cal.example/m/1",
	})
	assert.NoError(t, err)

	assert.Contains(t, body, "# Code Review: Fix login bug")
	assert.Contains(t, body, "## Overview")
	assert.Contains(t, body, "## Links")
	assert.Contains(t, body, "## Agenda")
	assert.Contains(t, body, "## Notes")
	assert.Contains(t, body, "## Action Items")
	for i := 1; i <= 4; i++ {
		assert.Contains(t, body, fmt.Sprintf("%d. ", i))
	}
	assert.Equal(t, 3, strings.Count(body, "- [ ]"))
}

func TestRenderReviewNotificationLinksEverything(t *testing.T) {
	r := newRenderer(t)

	body, err := r.Render(template.ReviewNotification, map[string]any{
		"PRNumber":    42,
		"PRTitle":     "Fix login bug",
		"SlotLabel":   "Tue 10:30-11:00",
		"Attendees":   []string{"a@x.com", "b@x.com"},
		"PRURL":       "pr-url",
		"IssueURL":    "issue-url",
		"MeetingURL":  "meet-url",
		"DocumentURL": "doc-url",
	})
	assert.NoError(t, err)

	for _, want := range []string{
		"pr-url", "issue-url", "meet-url", "doc-url",
		"a@x.com, b@x.com", "Tue 10:30-11:00",
	} {
		assert.Contains(t, body, want)
	}
}

func TestRenderIncidentTemplates(t *testing.T) {
	r := newRenderer(t)

	data := map[string]any{
		"Title":       "DB outage",
		"Severity":    "critical",
		"Description": "primary unreachable",
		"DeclaredAt":  time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
		"Responders":  []string{"oncall@x.com"},
		"DocumentURL": "doc-url",
		"IssueURL":    "issue-url",
		"MeetingURL":  "meet-url",
	}

	for _, name := range []string{
		template.IncidentDocument,
		template.IncidentIssue,
		template.IncidentAlert,
		template.IncidentJoinNow,
	} {
		t.Run(name, func(t *testing.T) {
			body, err := r.Render(name, data)
			assert.NoError(t, err)
			assert.NotEmpty(t, body)
		})
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newRenderer(t)

	_, err := r.Render("no-such-template", nil)
	assert.ErrorIs(t, err, template.ErrUnknownTemplate)
}

