package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/kestrelops/liaison/internal/template"
	"github.com/kestrelops/liaison/pkg/api"
	"github.com/kestrelops/liaison/pkg/log"
)

const (
	workflowReview = "review"
	actionReview   = "review scheduling"
)

// ScheduleReview runs the code-review workflow: it fetches the pull
// request and its linked issue concurrently, derives the attendee set,
// finds a meeting slot, then creates a discussion channel, a calendar
// event, and a companion document before announcing everything in the
// channel
func (o *Orchestrator) ScheduleReview(
	ctx context.Context, req api.ReviewRequest, uc api.UserContext,
	corr api.CorrelationID,
) api.Result {
	r := o.newRun(workflowReview, actionReview, corr)

	if !o.Initialized() {
		return o.reject(ctx, r, ErrNotInitialized, api.ErrorKindLifecycle)
	}
	if err := req.Validate(); err != nil {
		return o.reject(ctx, r, err, api.ErrorKindValidation)
	}

	duration := req.Duration
	if duration == 0 {
		duration = o.cfg.Workflow.ReviewDuration
	}
	acc := r.acc

	phases := []phase{
		fanOut(
			step{name: "fetch-pull-request", fn: func(ctx context.Context) error {
				pr, err := o.deps.SourceControl.GetPullRequest(
					ctx, req.Repo, req.PRNumber, uc.SourceToken, corr,
				)
				if err != nil {
					return err
				}
				return acc.Put(KeyPRDetails, pr)
			}},
			step{name: "fetch-issue", fn: func(ctx context.Context) error {
				issue, err := o.deps.SourceControl.GetIssue(
					ctx, req.Repo, req.IssueNumber, uc.SourceToken, corr,
				)
				if err != nil {
					return err
				}
				return acc.Put(KeyIssueDetails, issue)
			}},
		),

		seq("derive-attendees", func(context.Context) error {
			pr, err := Value[*api.PullRequest](acc, KeyPRDetails)
			if err != nil {
				return err
			}
			attendees := api.BuildAttendees(
				api.ReviewerEmails(pr), pr.Author.Email, req.ExtraAttendees,
			)
			return acc.Put(KeyAttendees, attendees)
		}),

		seq("find-meeting-slot", func(ctx context.Context) error {
			attendees, err := Value[[]string](acc, KeyAttendees)
			if err != nil {
				return err
			}
			slot, err := o.deps.Scheduling.FindOptimalTime(
				ctx, attendees, o.reviewWindow(duration),
				uc.CalendarToken, corr,
			)
			if err != nil {
				return err
			}
			return acc.Put(KeyMeetingSlot, slot)
		}),

		seq("create-channel", func(ctx context.Context) error {
			pr, err := Value[*api.PullRequest](acc, KeyPRDetails)
			if err != nil {
				return err
			}
			attendees, err := Value[[]string](acc, KeyAttendees)
			if err != nil {
				return err
			}
			channel, err := o.deps.Chat.CreateChannel(ctx, api.ChannelSpec{
				Name:    api.ReviewChannelName(pr.Number, pr.Title),
				Topic:   fmt.Sprintf("Review of %s#%d", pr.Repo, pr.Number),
				Private: false,
				Members: api.LocalParts(attendees),
			}, uc.ChatToken, corr)
			if err != nil {
				return err
			}
			return acc.Put(KeyChannel, channel)
		}),

		seq("create-meeting", func(ctx context.Context) error {
			pr, err := Value[*api.PullRequest](acc, KeyPRDetails)
			if err != nil {
				return err
			}
			slot, err := Value[*api.TimeSlot](acc, KeyMeetingSlot)
			if err != nil {
				return err
			}
			attendees, err := Value[[]string](acc, KeyAttendees)
			if err != nil {
				return err
			}
			channel, err := Value[*api.Channel](acc, KeyChannel)
			if err != nil {
				return err
			}
			meeting, err := o.deps.Scheduling.CreateMeeting(ctx,
				api.MeetingSpec{
					Title:         "Code Review: " + pr.Title,
					Start:         slot.Start,
					Duration:      duration,
					Attendees:     attendees,
					Location:      channel.URL,
					ConferenceRef: fmt.Sprintf("pr-%d-review", pr.Number),
				}, uc.CalendarToken, corr)
			if err != nil {
				return err
			}
			return acc.Put(KeyMeeting, meeting)
		}),

		seq("create-document", func(ctx context.Context) error {
			pr, err := Value[*api.PullRequest](acc, KeyPRDetails)
			if err != nil {
				return err
			}
			issue, err := Value[*api.Issue](acc, KeyIssueDetails)
			if err != nil {
				return err
			}
			channel, err := Value[*api.Channel](acc, KeyChannel)
			if err != nil {
				return err
			}
			meeting, err := Value[*api.Meeting](acc, KeyMeeting)
			if err != nil {
				return err
			}
			body, err := o.render(r, template.ReviewDocument, map[string]any{
				"PRTitle":      pr.Title,
				"PRNumber":     pr.Number,
				"Repo":         pr.Repo,
				"Additions":    pr.Additions,
				"Deletions":    pr.Deletions,
				"ChangedFiles": pr.ChangedFiles,
				"PRURL":        pr.URL,
				"IssueURL":     issue.URL,
				"ChannelURL":   channel.URL,
				"MeetingURL":   meeting.JoinURL,
			})
			if err != nil {
				return err
			}
			doc, err := o.deps.Documents.CreateDocument(ctx,
				o.cfg.ProjectsCollectionID, api.DocumentSpec{
					Title: fmt.Sprintf("Code Review: %s (#%d)",
						pr.Title, pr.Number),
					Body: body,
				}, uc.DocsToken, corr)
			if err != nil {
				return err
			}
			return acc.Put(KeyDocument, doc)
		}),

		seq("notify-channel", func(ctx context.Context) error {
			pr, err := Value[*api.PullRequest](acc, KeyPRDetails)
			if err != nil {
				return err
			}
			issue, err := Value[*api.Issue](acc, KeyIssueDetails)
			if err != nil {
				return err
			}
			slot, err := Value[*api.TimeSlot](acc, KeyMeetingSlot)
			if err != nil {
				return err
			}
			attendees, err := Value[[]string](acc, KeyAttendees)
			if err != nil {
				return err
			}
			channel, err := Value[*api.Channel](acc, KeyChannel)
			if err != nil {
				return err
			}
			meeting, err := Value[*api.Meeting](acc, KeyMeeting)
			if err != nil {
				return err
			}
			doc, err := Value[*api.Document](acc, KeyDocument)
			if err != nil {
				return err
			}
			text, err := o.render(r, template.ReviewNotification,
				map[string]any{
					"PRNumber":    pr.Number,
					"PRTitle":     pr.Title,
					"SlotLabel":   slot.Label,
					"Attendees":   attendees,
					"PRURL":       pr.URL,
					"IssueURL":    issue.URL,
					"MeetingURL":  meeting.JoinURL,
					"DocumentURL": doc.URL,
				})
			if err != nil {
				return err
			}
			_, err = o.deps.Chat.SendMessage(ctx, channel.ID,
				api.MessageSpec{Text: text}, uc.ChatToken, corr)
			return err
		}),
	}

	if serr := o.runPhases(ctx, r, phases); serr != nil {
		return o.fail(ctx, r, serr,
			log.Repo(req.Repo),
			log.PRNumber(req.PRNumber))
	}

	channel, _ := Value[*api.Channel](acc, KeyChannel)
	meeting, _ := Value[*api.Meeting](acc, KeyMeeting)
	doc, _ := Value[*api.Document](acc, KeyDocument)
	slot, _ := Value[*api.TimeSlot](acc, KeyMeetingSlot)
	attendees, _ := Value[[]string](acc, KeyAttendees)

	return o.succeed(ctx, r,
		fmt.Sprintf("code review scheduled for %s#%d",
			req.Repo, req.PRNumber),
		api.Details{
			"repo":         req.Repo,
			"pr_number":    req.PRNumber,
			"issue_number": req.IssueNumber,
			"channel":      channel,
			"meeting":      meeting,
			"document":     doc,
			"slot":         slot,
			"attendees":    attendees,
		})
}

// reviewWindow builds the scheduling constraints for a review: at least
// the configured lead time from now, within the review window, during
// working hours, with a buffer around existing events
func (o *Orchestrator) reviewWindow(duration time.Duration) api.WindowSpec {
	w := o.cfg.Workflow
	now := time.Now()
	return api.WindowSpec{
		Start:        now.Add(w.MinLeadTime),
		End:          now.Add(w.ReviewWindow),
		DayStartHour: w.WorkdayStartHour,
		DayEndHour:   w.WorkdayEndHour,
		Buffer:       w.SlotBuffer,
		Duration:     duration,
	}
}
