// Package liaison coordinates multi-step business processes that span
// independent collaboration platforms: source control, chat, documents, and
// scheduling. A single triggering event (a pull request needing review, a
// new project, an incident) becomes a consistent set of artifacts across
// all of them.
package liaison

const (
	// Name is the service name stamped on every log line
	Name = "liaison"

	// Version is the current release version
	Version = "0.3.1"
)
