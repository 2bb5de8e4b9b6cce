package api

// Severity classifies an incident
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var validSeverities = map[Severity]struct{}{
	SeverityLow:      {},
	SeverityMedium:   {},
	SeverityHigh:     {},
	SeverityCritical: {},
}

// Valid returns true if the severity is a recognized level
func (s Severity) Valid() bool {
	_, ok := validSeverities[s]
	return ok
}

// RequiresEscalation reports whether an incident at this severity gets an
// immediate meeting and a join-now notification. Only high and critical
// qualify; every other level is skipped outright
func (s Severity) RequiresEscalation() bool {
	return s == SeverityHigh || s == SeverityCritical
}
