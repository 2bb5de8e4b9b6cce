package workflow_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kestrelops/liaison/pkg/api"
)

// callLog records collaborator traffic for assertions, shared by every
// fake so ordering across platforms can be checked too
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func (l *callLog) count(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.calls {
		if c == name {
			n++
		}
	}
	return n
}

type fakeSource struct {
	log           *callLog
	initErr       error
	prErr         error
	issueErr      error
	createRepoErr error
	prDelay       time.Duration
	issueDelay    time.Duration
	pr            *api.PullRequest

	mu           sync.Mutex
	initialized  bool
	cleanedUp    bool
	issueSpecs   []api.IssueSpec
	createdRepos []api.RepoSpec
}

func (f *fakeSource) Name() string { return "source" }

func (f *fakeSource) Initialize(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.initErr != nil {
		return f.initErr
	}
	f.initialized = true
	return nil
}

func (f *fakeSource) Cleanup(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleanedUp = true
	return nil
}

func (f *fakeSource) GetPullRequest(
	_ context.Context, repo string, number int, _ api.Token,
	_ api.CorrelationID,
) (*api.PullRequest, error) {
	f.log.add("getPullRequest")
	time.Sleep(f.prDelay)
	if f.prErr != nil {
		return nil, f.prErr
	}
	if f.pr != nil {
		return f.pr, nil
	}
	return &api.PullRequest{
		Repo:   repo,
		Number: number,
		Title:  "Fix Login Bug",
		URL:    fmt.Sprintf("https://git.example/%s/pull/%d", repo, number),
		Author: api.Person{Name: "Bea", Email: "b@x.com"},
		Reviewers: []api.Person{
			{Name: "Ana", Email: "a@x.com"},
			{Name: "NoEmail"},
		},
		Additions:    10,
		Deletions:    2,
		ChangedFiles: 3,
	}, nil
}

func (f *fakeSource) GetIssue(
	_ context.Context, repo string, number int, _ api.Token,
	_ api.CorrelationID,
) (*api.Issue, error) {
	f.log.add("getIssue")
	time.Sleep(f.issueDelay)
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	return &api.Issue{
		Number: number,
		Title:  "Login broken",
		URL:    fmt.Sprintf("https://git.example/%s/issues/%d", repo, number),
	}, nil
}

func (f *fakeSource) CreateIssue(
	_ context.Context, repo string, spec api.IssueSpec, _ api.Token,
	_ api.CorrelationID,
) (*api.CreatedIssue, error) {
	f.log.add("createIssue")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issueSpecs = append(f.issueSpecs, spec)
	return &api.CreatedIssue{
		Number: 100 + len(f.issueSpecs),
		URL:    "https://git.example/" + repo + "/issues/101",
	}, nil
}

func (f *fakeSource) CreateRepository(
	_ context.Context, spec api.RepoSpec, _ api.Token, _ api.CorrelationID,
) (*api.Repository, error) {
	f.log.add("createRepository")
	if f.createRepoErr != nil {
		return nil, f.createRepoErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdRepos = append(f.createdRepos, spec)
	return &api.Repository{
		Name: spec.Name,
		URL:  "https://git.example/" + spec.Name,
	}, nil
}

type fakeChat struct {
	log        *callLog
	initErr    error
	channelErr error
	messageErr error

	mu       sync.Mutex
	channels []api.ChannelSpec
	messages []api.MessageSpec
}

func (f *fakeChat) Name() string { return "chat" }
func (f *fakeChat) Initialize(context.Context) error { return f.initErr }
func (f *fakeChat) Cleanup(context.Context) error { return nil }

func (f *fakeChat) CreateChannel(
	_ context.Context, spec api.ChannelSpec, _ api.Token,
	_ api.CorrelationID,
) (*api.Channel, error) {
	f.log.add("createChannel")
	if f.channelErr != nil {
		return nil, f.channelErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = append(f.channels, spec)
	return &api.Channel{
		ID:   fmt.Sprintf("C%03d", len(f.channels)),
		Name: spec.Name,
		URL:  "https://chat.example/" + spec.Name,
	}, nil
}

func (f *fakeChat) SendMessage(
	_ context.Context, channelID string, spec api.MessageSpec, _ api.Token,
	_ api.CorrelationID,
) (*api.MessageAck, error) {
	f.log.add("sendMessage")
	if f.messageErr != nil {
		return nil, f.messageErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, spec)
	return &api.MessageAck{
		ID:          fmt.Sprintf("M%03d", len(f.messages)),
		DeliveredAt: time.Now(),
	}, nil
}

type fakeDocs struct {
	log     *callLog
	initErr error
	docErr  error

	mu          sync.Mutex
	collections []string
	documents   []api.DocumentSpec
	pages       []api.ProjectPageSpec
}

func (f *fakeDocs) Name() string { return "docs" }
func (f *fakeDocs) Initialize(context.Context) error { return f.initErr }
func (f *fakeDocs) Cleanup(context.Context) error { return nil }

func (f *fakeDocs) CreateDocument(
	_ context.Context, collectionID string, spec api.DocumentSpec,
	_ api.Token, _ api.CorrelationID,
) (*api.Document, error) {
	f.log.add("createDocument")
	if f.docErr != nil {
		return nil, f.docErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections = append(f.collections, collectionID)
	f.documents = append(f.documents, spec)
	return &api.Document{
		ID:  fmt.Sprintf("D%03d", len(f.documents)),
		URL: "https://docs.example/d/1",
	}, nil
}

func (f *fakeDocs) CreateProjectPage(
	_ context.Context, spec api.ProjectPageSpec, _ api.Token,
	_ api.CorrelationID,
) (*api.ProjectPage, error) {
	f.log.add("createProjectPage")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, spec)
	return &api.ProjectPage{
		ID:  fmt.Sprintf("P%03d", len(f.pages)),
		URL: "https://docs.example/p/1",
	}, nil
}

type fakeSched struct {
	log     *callLog
	initErr error
	slotErr error

	mu       sync.Mutex
	windows  []api.WindowSpec
	meetings []api.MeetingSpec
}

func (f *fakeSched) Name() string { return "scheduling" }
func (f *fakeSched) Initialize(context.Context) error { return f.initErr }
func (f *fakeSched) Cleanup(context.Context) error { return nil }

func (f *fakeSched) FindOptimalTime(
	_ context.Context, _ []string, window api.WindowSpec, _ api.Token,
	_ api.CorrelationID,
) (*api.TimeSlot, error) {
	f.log.add("findOptimalTime")
	if f.slotErr != nil {
		return nil, f.slotErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, window)
	start := window.Start.Truncate(time.Minute)
	return &api.TimeSlot{
		Start: start,
		End:   start.Add(window.Duration),
		Label: "Tue 10:30-11:00",
	}, nil
}

func (f *fakeSched) CreateMeeting(
	_ context.Context, spec api.MeetingSpec, _ api.Token,
	_ api.CorrelationID,
) (*api.Meeting, error) {
	f.log.add("createMeeting")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meetings = append(f.meetings, spec)
	return &api.Meeting{
		ID:      fmt.Sprintf("E%03d", len(f.meetings)),
		JoinURL: "https://cal.example/join/1",
		Start:   spec.Start,
		Summary: spec.Title,
	}, nil
}
