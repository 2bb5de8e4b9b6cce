package collab

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kestrelops/liaison/pkg/api"
)

type (
	// Loopback is an in-process implementation of all four collaborator
	// interfaces. It fabricates plausible artifacts deterministically, so
	// workflows can be exercised end to end without any platform
	// credentials. Safe for concurrent use
	Loopback struct {
		mu        sync.Mutex
		now       func() time.Time
		seq       int
		repos     map[string]*api.Repository
		channels  map[string]*api.Channel
		documents map[string]*api.Document
		pages     map[string]*api.ProjectPage
		meetings  map[string]*api.Meeting
		busy      []api.TimeSlot
	}

	// Option configures a Loopback
	Option func(*Loopback)
)

var (
	ErrNoSlot    = errors.New("no slot available within window")
	ErrBadWindow = errors.New("scheduling window is invalid")
)

var (
	_ api.SourceControl = (*Loopback)(nil)
	_ api.Chat          = (*Loopback)(nil)
	_ api.DocumentStore = (*Loopback)(nil)
	_ api.Scheduling    = (*Loopback)(nil)
)

const slotGranularity = 15 * time.Minute

// WithClock overrides the time source, for deterministic runs
func WithClock(now func() time.Time) Option {
	return func(l *Loopback) {
		l.now = now
	}
}

// WithBusySlots seeds already-occupied calendar intervals that the slot
// search must avoid
func WithBusySlots(busy ...api.TimeSlot) Option {
	return func(l *Loopback) {
		l.busy = append(l.busy, busy...)
	}
}

// NewLoopback creates an empty loopback platform
func NewLoopback(opts ...Option) *Loopback {
	l := &Loopback{
		now:       time.Now,
		repos:     map[string]*api.Repository{},
		channels:  map[string]*api.Channel{},
		documents: map[string]*api.Document{},
		pages:     map[string]*api.ProjectPage{},
		meetings:  map[string]*api.Meeting{},
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Loopback) Name() string {
	return "loopback"
}

func (l *Loopback) Initialize(context.Context) error {
	return nil
}

func (l *Loopback) Cleanup(context.Context) error {
	return nil
}

func (l *Loopback) nextID(prefix string) string {
	l.seq++
	return fmt.Sprintf("%s-%04d", prefix, l.seq)
}

func (l *Loopback) GetPullRequest(
	_ context.Context, repo string, number int, _ api.Token,
	_ api.CorrelationID,
) (*api.PullRequest, error) {
	return &api.PullRequest{
		Repo:   repo,
		Number: number,
		Title:  fmt.Sprintf("Change %d", number),
		URL:    fmt.Sprintf("loopback://%s/pull/%d", repo, number),
		Author: api.Person{
			Name:  "Author",
			Email: "author@loopback.local",
		},
		Reviewers: []api.Person{
			{Name: "Reviewer One", Email: "reviewer1@loopback.local"},
			{Name: "Reviewer Two", Email: "reviewer2@loopback.local"},
		},
		Additions:    120,
		Deletions:    34,
		ChangedFiles: 6,
	}, nil
}

func (l *Loopback) GetIssue(
	_ context.Context, repo string, number int, _ api.Token,
	_ api.CorrelationID,
) (*api.Issue, error) {
	return &api.Issue{
		Number: number,
		Title:  fmt.Sprintf("Issue %d", number),
		URL:    fmt.Sprintf("loopback://%s/issues/%d", repo, number),
	}, nil
}

func (l *Loopback) CreateIssue(
	_ context.Context, repo string, spec api.IssueSpec, _ api.Token,
	_ api.CorrelationID,
) (*api.CreatedIssue, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	return &api.CreatedIssue{
		Number: l.seq,
		URL:    fmt.Sprintf("loopback://%s/issues/%d", repo, l.seq),
	}, nil
}

func (l *Loopback) CreateRepository(
	_ context.Context, spec api.RepoSpec, _ api.Token, _ api.CorrelationID,
) (*api.Repository, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.repos[spec.Name]; ok {
		return nil, fmt.Errorf("repository %q already exists", spec.Name)
	}
	repo := &api.Repository{
		Name: spec.Name,
		URL:  "loopback://" + spec.Name,
	}
	l.repos[spec.Name] = repo
	return repo, nil
}

func (l *Loopback) CreateChannel(
	_ context.Context, spec api.ChannelSpec, _ api.Token,
	_ api.CorrelationID,
) (*api.Channel, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.channels[spec.Name]; ok {
		return nil, fmt.Errorf("channel %q already exists", spec.Name)
	}
	ch := &api.Channel{
		ID:   l.nextID("chan"),
		Name: spec.Name,
		URL:  "loopback://chat/" + spec.Name,
	}
	l.channels[spec.Name] = ch
	return ch, nil
}

func (l *Loopback) SendMessage(
	_ context.Context, channelID string, _ api.MessageSpec, _ api.Token,
	_ api.CorrelationID,
) (*api.MessageAck, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &api.MessageAck{
		ID:          l.nextID("msg"),
		DeliveredAt: l.now(),
	}, nil
}

func (l *Loopback) CreateDocument(
	_ context.Context, collectionID string, spec api.DocumentSpec,
	_ api.Token, _ api.CorrelationID,
) (*api.Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	doc := &api.Document{
		ID:  l.nextID("doc"),
		URL: fmt.Sprintf("loopback://docs/%s/%s", collectionID, spec.Title),
	}
	l.documents[doc.ID] = doc
	return doc, nil
}

func (l *Loopback) CreateProjectPage(
	_ context.Context, spec api.ProjectPageSpec, _ api.Token,
	_ api.CorrelationID,
) (*api.ProjectPage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	page := &api.ProjectPage{
		ID: l.nextID("page"),
		URL: fmt.Sprintf("loopback://docs/%s/%s",
			spec.CollectionID, spec.Name),
	}
	l.pages[page.ID] = page
	return page, nil
}

// FindOptimalTime scans the window in fixed increments and returns the
// first interval that fits entirely inside working hours, clears every
// busy slot by the requested buffer, and ends before the window closes
func (l *Loopback) FindOptimalTime(
	_ context.Context, _ []string, window api.WindowSpec, _ api.Token,
	_ api.CorrelationID,
) (*api.TimeSlot, error) {
	if window.Duration <= 0 || !window.End.After(window.Start) {
		return nil, ErrBadWindow
	}

	l.mu.Lock()
	busy := make([]api.TimeSlot, len(l.busy))
	copy(busy, l.busy)
	l.mu.Unlock()

	start := window.Start.Truncate(slotGranularity)
	if start.Before(window.Start) {
		start = start.Add(slotGranularity)
	}

	for ; ; start = start.Add(slotGranularity) {
		end := start.Add(window.Duration)
		if end.After(window.End) {
			return nil, ErrNoSlot
		}
		if !withinWorkday(start, end, window) {
			continue
		}
		if collides(start, end, window.Buffer, busy) {
			continue
		}
		return &api.TimeSlot{
			Start: start,
			End:   end,
			Label: start.Format("Mon 15:04") + "-" + end.Format("15:04"),
		}, nil
	}
}

func (l *Loopback) CreateMeeting(
	_ context.Context, spec api.MeetingSpec, _ api.Token,
	_ api.CorrelationID,
) (*api.Meeting, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := &api.Meeting{
		ID:      l.nextID("mtg"),
		JoinURL: "loopback://meet/" + spec.Title,
		Start:   spec.Start,
		Summary: spec.Title,
	}
	l.meetings[m.ID] = m
	l.busy = append(l.busy, api.TimeSlot{
		Start: spec.Start,
		End:   spec.Start.Add(spec.Duration),
	})
	return m, nil
}

// withinWorkday reports whether the whole interval falls inside the
// window's working hours on a single day. Hour bounds of zero mean no
// restriction
func withinWorkday(start, end time.Time, w api.WindowSpec) bool {
	if w.DayStartHour == 0 && w.DayEndHour == 0 {
		return true
	}
	if start.YearDay() != end.YearDay() || start.Year() != end.Year() {
		return false
	}
	dayStart := time.Date(start.Year(), start.Month(), start.Day(),
		w.DayStartHour, 0, 0, 0, start.Location())
	dayEnd := time.Date(start.Year(), start.Month(), start.Day(),
		w.DayEndHour, 0, 0, 0, start.Location())
	return !start.Before(dayStart) && !end.After(dayEnd)
}

// collides reports whether the interval, padded by buffer on both sides,
// overlaps any busy slot
func collides(
	start, end time.Time, buffer time.Duration, busy []api.TimeSlot,
) bool {
	padStart := start.Add(-buffer)
	padEnd := end.Add(buffer)
	for _, b := range busy {
		if padStart.Before(b.End) && b.Start.Before(padEnd) {
			return true
		}
	}
	return false
}
