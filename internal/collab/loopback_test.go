package collab_test

import (
	"context"
	"testing"
	"time"

	"github.com/kestrelops/liaison/internal/collab"
	"github.com/kestrelops/liaison/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-03-02 is a Monday
var monday = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func window(d time.Duration) api.WindowSpec {
	return api.WindowSpec{
		Start:        monday,
		End:          monday.Add(34 * time.Hour),
		DayStartHour: 9,
		DayEndHour:   17,
		Buffer:       15 * time.Minute,
		Duration:     d,
	}
}

func TestFindOptimalTimeWorkingHours(t *testing.T) {
	l := collab.NewLoopback()

	slot, err := l.FindOptimalTime(context.Background(), nil,
		window(30*time.Minute), "tok", "corr")
	require.NoError(t, err)

	// 08:00 is before the workday; the first admissible start is 09:00
	assert.Equal(t, monday.Add(time.Hour), slot.Start)
	assert.Equal(t, 30*time.Minute, slot.End.Sub(slot.Start))
	assert.NotEmpty(t, slot.Label)
}

func TestFindOptimalTimeAvoidsBusySlots(t *testing.T) {
	l := collab.NewLoopback(collab.WithBusySlots(api.TimeSlot{
		Start: monday.Add(time.Hour),
		End:   monday.Add(2 * time.Hour),
	}))

	slot, err := l.FindOptimalTime(context.Background(), nil,
		window(30*time.Minute), "tok", "corr")
	require.NoError(t, err)

	// busy through 10:00 plus a 15 minute buffer pushes to 10:15
	assert.Equal(t, monday.Add(2*time.Hour+15*time.Minute), slot.Start)
}

func TestFindOptimalTimeNone(t *testing.T) {
	l := collab.NewLoopback()

	w := window(30 * time.Minute)
	w.End = w.Start.Add(15 * time.Minute)
	_, err := l.FindOptimalTime(context.Background(), nil, w,
		"tok", "corr")
	assert.ErrorIs(t, err, collab.ErrNoSlot)

	w.End = w.Start
	_, err = l.FindOptimalTime(context.Background(), nil, w,
		"tok", "corr")
	assert.ErrorIs(t, err, collab.ErrBadWindow)
}

func TestCreateMeetingOccupiesSlot(t *testing.T) {
	l := collab.NewLoopback()
	ctx := context.Background()

	first, err := l.FindOptimalTime(ctx, nil, window(time.Hour),
		"tok", "corr")
	require.NoError(t, err)

	_, err = l.CreateMeeting(ctx, api.MeetingSpec{
		Title:    "Standup",
		Start:    first.Start,
		Duration: time.Hour,
	}, "tok", "corr")
	require.NoError(t, err)

	second, err := l.FindOptimalTime(ctx, nil, window(time.Hour),
		"tok", "corr")
	require.NoError(t, err)
	assert.True(t, second.Start.After(first.End))
}

func TestCreateChannelRejectsDuplicates(t *testing.T) {
	l := collab.NewLoopback()
	ctx := context.Background()

	_, err := l.CreateChannel(ctx, api.ChannelSpec{Name: "inc-outage"},
		"tok", "corr")
	require.NoError(t, err)

	_, err = l.CreateChannel(ctx, api.ChannelSpec{Name: "inc-outage"},
		"tok", "corr")
	assert.Error(t, err)
}

func TestLoopbackDrivesReviewArtifacts(t *testing.T) {
	l := collab.NewLoopback()
	ctx := context.Background()

	pr, err := l.GetPullRequest(ctx, "acme/web", 42, "tok", "corr")
	require.NoError(t, err)
	assert.Equal(t, 42, pr.Number)
	assert.Len(t, pr.Reviewers, 2)

	repo, err := l.CreateRepository(ctx, api.RepoSpec{Name: "apollo"},
		"tok", "corr")
	require.NoError(t, err)
	assert.Equal(t, "loopback://apollo", repo.URL)

	_, err = l.CreateRepository(ctx, api.RepoSpec{Name: "apollo"},
		"tok", "corr")
	assert.Error(t, err)
}
