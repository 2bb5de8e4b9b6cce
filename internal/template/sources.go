package template

// sources maps template names to their bodies. Message templates render
// chat-flavored markdown; document templates render page markdown
var sources = map[string]string{
	ReviewDocument: `# Code Review: {{.PRTitle}}

## Overview
Review session for pull request #{{.PRNumber}} in {{.Repo}}.
{{.Additions}} additions, {{.Deletions}} deletions across {{.ChangedFiles}} files.

## Links
- Pull request: {{.PRURL}}
- Linked issue: {{.IssueURL}}
- Discussion channel: {{.ChannelURL}}
- Meeting: {{.MeetingURL}}

## Agenda
1. Walk through the change set
2. Discuss design decisions and alternatives
3. Review test coverage
4. Agree on required changes

## Notes
_(to be filled during the session)_

## Action Items
- [ ] Address review comments
- [ ] Update documentation
- [ ] Merge or close the pull request
`,

	ReviewNotification: `:mag: *Code review scheduled for PR #{{.PRNumber}}: {{.PRTitle}}*

When: {{.SlotLabel}}
Attendees: {{join .Attendees ", "}}

- Pull request: {{.PRURL}}
- Linked issue: {{.IssueURL}}
- Meeting: {{.MeetingURL}}
- Review notes: {{.DocumentURL}}

See you there!
`,

	KickoffPage: `# {{.ProjectName}}

{{.Description}}

## Team
{{range .TeamMembers}}- {{.}}
{{end}}
## Kickoff
Kickoff meeting to be scheduled; details will follow in the project
channel.
`,

	KickoffWelcome: `:rocket: *Welcome to {{.ProjectName}}!*

Everything is set up:
- Project page: {{.PageURL}}
- Repository: {{.RepoURL}}
- This channel: {{.ChannelURL}}
- Kickoff meeting: {{stamp .MeetingStart}} ({{.MeetingURL}})

Say hello and introduce yourself.
`,

	IncidentDocument: `# Incident: {{.Title}}

Severity: **{{.Severity}}**
Declared: {{stamp .DeclaredAt}}

## Description
{{.Description}}

## Responders
{{range .Responders}}- {{.}}
{{end}}
## Timeline
_(record events as they happen)_
`,

	IncidentIssue: `## Incident

{{.Description}}

Severity: {{.Severity}}
Incident document: {{.DocumentURL}}
`,

	IncidentAlert: `:rotating_light: *Incident declared: {{.Title}}*

Severity: *{{.Severity}}*
{{.Description}}

- Incident document: {{.DocumentURL}}
- Tracking issue: {{.IssueURL}}
`,

	IncidentJoinNow: `:phone: *Join the incident bridge now*

Severity {{.Severity}} incident "{{.Title}}" requires immediate
coordination. Join: {{.MeetingURL}}
`,
}
