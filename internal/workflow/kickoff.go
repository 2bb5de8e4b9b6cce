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
	workflowKickoff = "kickoff"
	actionKickoff   = "project kickoff"
)

// LaunchProject runs the project-kickoff workflow: project page, source
// repository, discussion channel, kickoff meeting, and a welcome
// notification enumerating all of it. Every step depends on earlier
// artifacts, so the sequence is strictly sequential
func (o *Orchestrator) LaunchProject(
	ctx context.Context, req api.KickoffRequest, uc api.UserContext,
	corr api.CorrelationID,
) api.Result {
	r := o.newRun(workflowKickoff, actionKickoff, corr)

	if !o.Initialized() {
		return o.reject(ctx, r, ErrNotInitialized, api.ErrorKindLifecycle)
	}
	if err := req.Validate(); err != nil {
		return o.reject(ctx, r, err, api.ErrorKindValidation)
	}

	slug := api.Slugify(req.ProjectName)
	acc := r.acc

	phases := []phase{
		seq("create-project-page", func(ctx context.Context) error {
			body, err := o.render(r, template.KickoffPage, map[string]any{
				"ProjectName": req.ProjectName,
				"Description": req.Description,
				"TeamMembers": req.TeamMembers,
			})
			if err != nil {
				return err
			}
			page, err := o.deps.Documents.CreateProjectPage(ctx,
				api.ProjectPageSpec{
					CollectionID: o.cfg.ProjectsCollectionID,
					Name:         req.ProjectName,
					Body:         body,
				}, uc.DocsToken, corr)
			if err != nil {
				return err
			}
			return acc.Put(KeyProjectPage, page)
		}),

		seq("create-repository", func(ctx context.Context) error {
			repo, err := o.deps.SourceControl.CreateRepository(ctx,
				api.RepoSpec{
					Name:        slug,
					Description: req.Description,
				}, uc.SourceToken, corr)
			if err != nil {
				return err
			}
			return acc.Put(KeyRepository, repo)
		}),

		seq("create-channel", func(ctx context.Context) error {
			channel, err := o.deps.Chat.CreateChannel(ctx, api.ChannelSpec{
				Name:    api.ProjectChannelName(req.ProjectName),
				Topic:   req.ProjectName,
				Private: false,
				Members: api.LocalParts(req.TeamMembers),
			}, uc.ChatToken, corr)
			if err != nil {
				return err
			}
			return acc.Put(KeyChannel, channel)
		}),

		seq("find-meeting-slot", func(ctx context.Context) error {
			slot, err := o.deps.Scheduling.FindOptimalTime(
				ctx, req.TeamMembers, o.kickoffWindow(),
				uc.CalendarToken, corr,
			)
			if err != nil {
				return err
			}
			return acc.Put(KeyMeetingSlot, slot)
		}),

		seq("create-meeting", func(ctx context.Context) error {
			slot, err := Value[*api.TimeSlot](acc, KeyMeetingSlot)
			if err != nil {
				return err
			}
			channel, err := Value[*api.Channel](acc, KeyChannel)
			if err != nil {
				return err
			}
			meeting, err := o.deps.Scheduling.CreateMeeting(ctx,
				api.MeetingSpec{
					Title:     "Kickoff: " + req.ProjectName,
					Start:     slot.Start,
					Duration:  o.cfg.Workflow.KickoffDuration,
					Attendees: req.TeamMembers,
					Location:  channel.URL,
				}, uc.CalendarToken, corr)
			if err != nil {
				return err
			}
			return acc.Put(KeyMeeting, meeting)
		}),

		seq("notify-channel", func(ctx context.Context) error {
			page, err := Value[*api.ProjectPage](acc, KeyProjectPage)
			if err != nil {
				return err
			}
			repo, err := Value[*api.Repository](acc, KeyRepository)
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
			text, err := o.render(r, template.KickoffWelcome, map[string]any{
				"ProjectName":  req.ProjectName,
				"PageURL":      page.URL,
				"RepoURL":      repo.URL,
				"ChannelURL":   channel.URL,
				"MeetingStart": meeting.Start,
				"MeetingURL":   meeting.JoinURL,
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
		return o.fail(ctx, r, serr, log.Project(req.ProjectName))
	}

	page, _ := Value[*api.ProjectPage](acc, KeyProjectPage)
	repo, _ := Value[*api.Repository](acc, KeyRepository)
	channel, _ := Value[*api.Channel](acc, KeyChannel)
	meeting, _ := Value[*api.Meeting](acc, KeyMeeting)
	slot, _ := Value[*api.TimeSlot](acc, KeyMeetingSlot)

	return o.succeed(ctx, r,
		fmt.Sprintf("project %q launched", req.ProjectName),
		api.Details{
			"project":    req.ProjectName,
			"page":       page,
			"repository": repo,
			"channel":    channel,
			"meeting":    meeting,
			"slot":       slot,
		})
}

// kickoffWindow builds the scheduling constraints for a kickoff meeting:
// from now through the kickoff window, during working hours
func (o *Orchestrator) kickoffWindow() api.WindowSpec {
	w := o.cfg.Workflow
	now := time.Now()
	return api.WindowSpec{
		Start:        now,
		End:          now.Add(w.KickoffWindow),
		DayStartHour: w.WorkdayStartHour,
		DayEndHour:   w.WorkdayEndHour,
		Buffer:       w.SlotBuffer,
		Duration:     w.KickoffDuration,
	}
}
