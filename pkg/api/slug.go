package api

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MaxSlugLen bounds channel and repository slugs
const MaxSlugLen = 80

// nonSlugChars matches every character not permitted in a slug
var nonSlugChars = regexp.MustCompile(`[^a-z0-9-]`)

// Slugify lowercases a name, replaces each character outside [a-z0-9-]
// with a hyphen, and truncates the result to MaxSlugLen. Applying it twice
// yields the same slug
func Slugify(s string) string {
	lower := strings.ToLower(s)
	slug := nonSlugChars.ReplaceAllString(lower, "-")
	if len(slug) > MaxSlugLen {
		slug = slug[:MaxSlugLen]
	}
	return slug
}

// ReviewChannelName derives the discussion channel slug for a pull request
func ReviewChannelName(number int, title string) string {
	return Slugify(fmt.Sprintf("pr-%d-%s", number, title))
}

// ProjectChannelName derives the discussion channel slug for a project
func ProjectChannelName(projectName string) string {
	return Slugify("proj-" + projectName)
}

// IncidentChannelName derives the coordination channel slug for an
// incident. A short time-derived numeric suffix keeps repeat declarations
// of the same title unique
func IncidentChannelName(title string, at time.Time) string {
	suffix := fmt.Sprintf("%06d", at.UnixMilli()%1_000_000)
	base := Slugify("inc-" + title)
	if max := MaxSlugLen - len(suffix) - 1; len(base) > max {
		base = base[:max]
	}
	return base + "-" + suffix
}

// LocalPart returns the portion of an email address before the @, or the
// whole string when no @ is present
func LocalPart(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}

// LocalParts maps a list of emails to their local parts
func LocalParts(emails []string) []string {
	res := make([]string, 0, len(emails))
	for _, e := range emails {
		res = append(res, LocalPart(e))
	}
	return res
}
