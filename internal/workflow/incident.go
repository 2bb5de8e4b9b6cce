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
	workflowIncident = "incident"
	actionIncident   = "incident response"
)

// RespondToIncident runs the incident-response workflow: incident
// document, tracking issue, private coordination channel, and an alert
// notification. High and critical incidents additionally get an immediate
// meeting and a join-now notification; any other severity skips
// escalation outright
func (o *Orchestrator) RespondToIncident(
	ctx context.Context, req api.IncidentRequest, uc api.UserContext,
	corr api.CorrelationID,
) api.Result {
	r := o.newRun(workflowIncident, actionIncident, corr)

	if !o.Initialized() {
		return o.reject(ctx, r, ErrNotInitialized, api.ErrorKindLifecycle)
	}
	if err := req.Validate(); err != nil {
		return o.reject(ctx, r, err, api.ErrorKindValidation)
	}

	declaredAt := time.Now()
	acc := r.acc

	phases := []phase{
		seq("create-document", func(ctx context.Context) error {
			body, err := o.render(r, template.IncidentDocument,
				map[string]any{
					"Title":       req.Title,
					"Severity":    req.Severity,
					"Description": req.Description,
					"DeclaredAt":  declaredAt,
					"Responders":  req.Responders,
				})
			if err != nil {
				return err
			}
			doc, err := o.deps.Documents.CreateDocument(ctx,
				o.cfg.IncidentsCollectionID, api.DocumentSpec{
					Title: "Incident: " + req.Title,
					Body:  body,
				}, uc.DocsToken, corr)
			if err != nil {
				return err
			}
			return acc.Put(KeyDocument, doc)
		}),

		seq("create-tracking-issue", func(ctx context.Context) error {
			doc, err := Value[*api.Document](acc, KeyDocument)
			if err != nil {
				return err
			}
			body, err := o.render(r, template.IncidentIssue, map[string]any{
				"Description": req.Description,
				"Severity":    req.Severity,
				"DocumentURL": doc.URL,
			})
			if err != nil {
				return err
			}
			issue, err := o.deps.SourceControl.CreateIssue(ctx, req.Repo,
				api.IssueSpec{
					Title: "Incident: " + req.Title,
					Body:  body,
					Labels: []string{
						"incident",
						"severity:" + string(req.Severity),
					},
					Assignees: api.LocalParts(req.Responders),
				}, uc.SourceToken, corr)
			if err != nil {
				return err
			}
			return acc.Put(KeyIssue, issue)
		}),

		seq("create-channel", func(ctx context.Context) error {
			channel, err := o.deps.Chat.CreateChannel(ctx, api.ChannelSpec{
				Name:    api.IncidentChannelName(req.Title, declaredAt),
				Topic:   fmt.Sprintf("%s (%s)", req.Title, req.Severity),
				Private: true,
				Members: api.LocalParts(req.Responders),
			}, uc.ChatToken, corr)
			if err != nil {
				return err
			}
			return acc.Put(KeyChannel, channel)
		}),

		seq("notify-channel", func(ctx context.Context) error {
			doc, err := Value[*api.Document](acc, KeyDocument)
			if err != nil {
				return err
			}
			issue, err := Value[*api.CreatedIssue](acc, KeyIssue)
			if err != nil {
				return err
			}
			channel, err := Value[*api.Channel](acc, KeyChannel)
			if err != nil {
				return err
			}
			text, err := o.render(r, template.IncidentAlert, map[string]any{
				"Title":       req.Title,
				"Severity":    req.Severity,
				"Description": req.Description,
				"DocumentURL": doc.URL,
				"IssueURL":    issue.URL,
			})
			if err != nil {
				return err
			}
			_, err = o.deps.Chat.SendMessage(ctx, channel.ID,
				api.MessageSpec{Text: text}, uc.ChatToken, corr)
			return err
		}),
	}

	if req.Severity.RequiresEscalation() {
		phases = append(phases, o.escalationPhases(r, req, uc, corr)...)
	}

	if serr := o.runPhases(ctx, r, phases); serr != nil {
		return o.fail(ctx, r, serr,
			log.Incident(req.Title),
			log.Severity(req.Severity))
	}

	doc, _ := Value[*api.Document](acc, KeyDocument)
	issue, _ := Value[*api.CreatedIssue](acc, KeyIssue)
	channel, _ := Value[*api.Channel](acc, KeyChannel)

	details := api.Details{
		"title":    req.Title,
		"severity": req.Severity,
		"document": doc,
		"issue":    issue,
		"channel":  channel,
	}
	if meeting, err := Value[*api.Meeting](acc, KeyMeeting); err == nil {
		details["meeting"] = meeting
	}

	return o.succeed(ctx, r,
		fmt.Sprintf("incident %q coordinated at severity %s",
			req.Title, req.Severity),
		details)
}

// escalationPhases are appended only when the severity predicate holds:
// an immediate meeting for the responders and a join-now notification
func (o *Orchestrator) escalationPhases(
	r *run, req api.IncidentRequest, uc api.UserContext,
	corr api.CorrelationID,
) []phase {
	acc := r.acc
	return []phase{
		seq("create-bridge-meeting", func(ctx context.Context) error {
			channel, err := Value[*api.Channel](acc, KeyChannel)
			if err != nil {
				return err
			}
			meeting, err := o.deps.Scheduling.CreateMeeting(ctx,
				api.MeetingSpec{
					Title:     "Incident Bridge: " + req.Title,
					Start:     time.Now(),
					Duration:  o.cfg.Workflow.EscalationDuration,
					Attendees: req.Responders,
					Location:  channel.URL,
				}, uc.CalendarToken, corr)
			if err != nil {
				return err
			}
			return acc.Put(KeyMeeting, meeting)
		}),

		seq("notify-join-now", func(ctx context.Context) error {
			channel, err := Value[*api.Channel](acc, KeyChannel)
			if err != nil {
				return err
			}
			meeting, err := Value[*api.Meeting](acc, KeyMeeting)
			if err != nil {
				return err
			}
			text, err := o.render(r, template.IncidentJoinNow,
				map[string]any{
					"Title":      req.Title,
					"Severity":   req.Severity,
					"MeetingURL": meeting.JoinURL,
				})
			if err != nil {
				return err
			}
			_, err = o.deps.Chat.SendMessage(ctx, channel.ID,
				api.MessageSpec{Text: text}, uc.ChatToken, corr)
			return err
		}),
	}
}
