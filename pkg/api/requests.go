package api

import (
	"errors"
	"fmt"
	"time"
)

type (
	// ReviewRequest triggers the code-review scheduling workflow
	ReviewRequest struct {
		Repo           string        `json:"repo"`
		PRNumber       int           `json:"pr_number"`
		IssueNumber    int           `json:"issue_number"`
		ExtraAttendees []string      `json:"extra_attendees,omitempty"`
		Duration       time.Duration `json:"duration,omitempty"`
	}

	// KickoffRequest triggers the project-kickoff workflow
	KickoffRequest struct {
		ProjectName string   `json:"project_name"`
		Description string   `json:"description,omitempty"`
		TeamMembers []string `json:"team_members"`
	}

	// IncidentRequest triggers the incident-response workflow
	IncidentRequest struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Severity    Severity `json:"severity"`
		Repo        string   `json:"repo"`
		Responders  []string `json:"responders"`
	}
)

var (
	ErrRepoEmpty         = errors.New("repository empty")
	ErrPRNumberInvalid   = errors.New("pull request number must be positive")
	ErrIssueInvalid      = errors.New("issue number must be positive")
	ErrNegativeDuration  = errors.New("duration cannot be negative")
	ErrProjectNameEmpty  = errors.New("project name empty")
	ErrTeamMembersEmpty  = errors.New("team members empty")
	ErrIncidentTitle     = errors.New("incident title empty")
	ErrSeverityInvalid   = errors.New("invalid severity")
	ErrRespondersEmpty   = errors.New("responders empty")
	ErrAttendeeEmpty     = errors.New("attendee email empty")
	ErrProjectNameNoSlug = errors.New(
		"project name yields an empty repository slug",
	)
)

// Validate checks a review request before any external call is issued
func (r *ReviewRequest) Validate() error {
	if r.Repo == "" {
		return ErrRepoEmpty
	}
	if r.PRNumber <= 0 {
		return fmt.Errorf("%w: %d", ErrPRNumberInvalid, r.PRNumber)
	}
	if r.IssueNumber <= 0 {
		return fmt.Errorf("%w: %d", ErrIssueInvalid, r.IssueNumber)
	}
	if r.Duration < 0 {
		return ErrNegativeDuration
	}
	return nil
}

// Validate checks a kickoff request before any external call is issued
func (r *KickoffRequest) Validate() error {
	if r.ProjectName == "" {
		return ErrProjectNameEmpty
	}
	if Slugify(r.ProjectName) == "" {
		return fmt.Errorf("%w: %q", ErrProjectNameNoSlug, r.ProjectName)
	}
	if len(r.TeamMembers) == 0 {
		return ErrTeamMembersEmpty
	}
	for _, m := range r.TeamMembers {
		if m == "" {
			return ErrAttendeeEmpty
		}
	}
	return nil
}

// Validate checks an incident request before any external call is issued
func (r *IncidentRequest) Validate() error {
	if r.Title == "" {
		return ErrIncidentTitle
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("%w: %q", ErrSeverityInvalid, r.Severity)
	}
	if r.Repo == "" {
		return ErrRepoEmpty
	}
	if len(r.Responders) == 0 {
		return ErrRespondersEmpty
	}
	return nil
}
