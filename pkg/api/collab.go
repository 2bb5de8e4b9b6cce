package api

import (
	"context"
	"time"
)

type (
	// Token is a per-platform credential passed through on every call. The
	// orchestrator never stores one
	Token string

	// CorrelationID threads every collaborator call of one invocation for
	// tracing. It is opaque to the engine
	CorrelationID string

	// UserContext carries one credential token per collaborator platform
	// for the duration of a single invocation
	UserContext struct {
		SourceToken   Token `json:"source_token"`
		ChatToken     Token `json:"chat_token"`
		DocsToken     Token `json:"docs_token"`
		CalendarToken Token `json:"calendar_token"`
	}

	// Collaborator is the lifecycle contract shared by every platform
	// adapter. Implementations must be safe for concurrent use; the engine
	// imposes no locking of its own
	Collaborator interface {
		Name() string
		Initialize(ctx context.Context) error
		Cleanup(ctx context.Context) error
	}

	// SourceControl is the contract for a source-control platform
	SourceControl interface {
		Collaborator
		GetPullRequest(
			ctx context.Context, repo string, number int,
			token Token, corr CorrelationID,
		) (*PullRequest, error)
		GetIssue(
			ctx context.Context, repo string, number int,
			token Token, corr CorrelationID,
		) (*Issue, error)
		CreateIssue(
			ctx context.Context, repo string, spec IssueSpec,
			token Token, corr CorrelationID,
		) (*CreatedIssue, error)
		CreateRepository(
			ctx context.Context, spec RepoSpec,
			token Token, corr CorrelationID,
		) (*Repository, error)
	}

	// Chat is the contract for a chat platform
	Chat interface {
		Collaborator
		CreateChannel(
			ctx context.Context, spec ChannelSpec,
			token Token, corr CorrelationID,
		) (*Channel, error)
		SendMessage(
			ctx context.Context, channelID string, spec MessageSpec,
			token Token, corr CorrelationID,
		) (*MessageAck, error)
	}

	// DocumentStore is the contract for a document platform
	DocumentStore interface {
		Collaborator
		CreateDocument(
			ctx context.Context, collectionID string, spec DocumentSpec,
			token Token, corr CorrelationID,
		) (*Document, error)
		CreateProjectPage(
			ctx context.Context, spec ProjectPageSpec,
			token Token, corr CorrelationID,
		) (*ProjectPage, error)
	}

	// Scheduling is the contract for a calendar platform
	Scheduling interface {
		Collaborator
		FindOptimalTime(
			ctx context.Context, attendees []string, window WindowSpec,
			token Token, corr CorrelationID,
		) (*TimeSlot, error)
		CreateMeeting(
			ctx context.Context, spec MeetingSpec,
			token Token, corr CorrelationID,
		) (*Meeting, error)
	}
)

type (
	// Person identifies a source-control user
	Person struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	// PullRequest is the detail set returned for a pull request
	PullRequest struct {
		Repo         string   `json:"repo"`
		Number       int      `json:"number"`
		Title        string   `json:"title"`
		URL          string   `json:"url"`
		Author       Person   `json:"author"`
		Reviewers    []Person `json:"reviewers"`
		Additions    int      `json:"additions"`
		Deletions    int      `json:"deletions"`
		ChangedFiles int      `json:"changed_files"`
	}

	// Issue is the detail set returned for an existing issue
	Issue struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		URL    string `json:"url"`
	}

	// IssueSpec describes an issue to create
	IssueSpec struct {
		Title     string   `json:"title"`
		Body      string   `json:"body"`
		Labels    []string `json:"labels,omitempty"`
		Assignees []string `json:"assignees,omitempty"`
	}

	// CreatedIssue is the reference returned for a created issue
	CreatedIssue struct {
		Number int    `json:"number"`
		URL    string `json:"url"`
	}

	// RepoSpec describes a repository to create
	RepoSpec struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Private     bool   `json:"private"`
	}

	// Repository is the reference returned for a created repository
	Repository struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}

	// ChannelSpec describes a chat channel to create
	ChannelSpec struct {
		Name    string   `json:"name"`
		Topic   string   `json:"topic,omitempty"`
		Private bool     `json:"private"`
		Members []string `json:"members,omitempty"`
	}

	// Channel is the reference returned for a created channel
	Channel struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		URL  string `json:"url"`
	}

	// MessageSpec carries a rendered message body
	MessageSpec struct {
		Text string `json:"text"`
	}

	// MessageAck acknowledges message delivery
	MessageAck struct {
		ID          string    `json:"id"`
		DeliveredAt time.Time `json:"delivered_at"`
	}

	// DocumentSpec describes a document to create within a collection
	DocumentSpec struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}

	// Document is the reference returned for a created document
	Document struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}

	// ProjectPageSpec describes a project page to create
	ProjectPageSpec struct {
		CollectionID string `json:"collection_id"`
		Name         string `json:"name"`
		Body         string `json:"body"`
	}

	// ProjectPage is the reference returned for a created project page
	ProjectPage struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}

	// WindowSpec constrains a scheduling search: an absolute window,
	// working hours within each day, a buffer kept around existing events,
	// and the duration of the slot sought
	WindowSpec struct {
		Start        time.Time     `json:"start"`
		End          time.Time     `json:"end"`
		DayStartHour int           `json:"day_start_hour"`
		DayEndHour   int           `json:"day_end_hour"`
		Buffer       time.Duration `json:"buffer"`
		Duration     time.Duration `json:"duration"`
	}

	// TimeSlot is a scheduling search result
	TimeSlot struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
		Label string    `json:"label"`
	}

	// MeetingSpec describes a calendar event to create
	MeetingSpec struct {
		Title         string        `json:"title"`
		Description   string        `json:"description,omitempty"`
		Start         time.Time     `json:"start"`
		Duration      time.Duration `json:"duration"`
		Attendees     []string      `json:"attendees"`
		Location      string        `json:"location,omitempty"`
		ConferenceRef string        `json:"conference_ref,omitempty"`
	}

	// Meeting is the reference returned for a created calendar event
	Meeting struct {
		ID      string    `json:"id"`
		JoinURL string    `json:"join_url"`
		Start   time.Time `json:"start"`
		Summary string    `json:"summary"`
	}
)
