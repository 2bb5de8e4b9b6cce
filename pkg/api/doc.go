// Package api defines the public surface of the orchestrator: the
// collaborator contracts it calls against, the artifact types those
// collaborators return, the typed requests accepted by each workflow, and
// the uniform result envelope every workflow returns
package api
