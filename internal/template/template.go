// Package template renders message and document bodies from named
// templates and structured data, keeping content formatting out of the
// orchestration layer
package template

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Renderer holds the parsed template set
type Renderer struct {
	set *template.Template
}

// Template names accepted by Render
const (
	ReviewDocument     = "review-document"
	ReviewNotification = "review-notification"
	KickoffPage        = "kickoff-page"
	KickoffWelcome     = "kickoff-welcome"
	IncidentDocument   = "incident-document"
	IncidentIssue      = "incident-issue"
	IncidentAlert      = "incident-alert"
	IncidentJoinNow    = "incident-join-now"
)

var ErrUnknownTemplate = errors.New("unknown template")

var funcs = template.FuncMap{
	"join": func(items []string, sep string) string {
		return strings.Join(items, sep)
	},
	"stamp": func(t time.Time) string {
		return t.Format("Mon, 02 Jan 2006 15:04 MST")
	},
}

// NewRenderer parses the built-in template set
func NewRenderer() (*Renderer, error) {
	set := template.New("liaison").Funcs(funcs)
	for name, body := range sources {
		if _, err := set.New(name).Parse(body); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
	}
	return &Renderer{set: set}, nil
}

// Render executes the named template against the provided data
func (r *Renderer) Render(name string, data any) (string, error) {
	tmpl := r.set.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return sb.String(), nil
}
