package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/kestrelops/liaison/internal/archive"
	"github.com/kestrelops/liaison/internal/config"
	"github.com/kestrelops/liaison/internal/events"
	"github.com/kestrelops/liaison/internal/history"
	"github.com/kestrelops/liaison/internal/template"
	"github.com/kestrelops/liaison/pkg/api"
	"github.com/kestrelops/liaison/pkg/log"
)

type (
	// Dependencies are the externally owned collaborators and optional
	// supporting services injected into the Orchestrator. Collaborators
	// must be safe for concurrent use; invocations share them without any
	// engine-side locking
	Dependencies struct {
		SourceControl api.SourceControl
		Chat          api.Chat
		Documents     api.DocumentStore
		Scheduling    api.Scheduling

		// Optional; each tolerates nil
		History *history.Store
		Archive *archive.Archive
		Hub     *events.Hub
	}

	// Orchestrator owns collaborator lifecycle and exposes the three
	// workflow procedures. It holds no per-invocation state
	Orchestrator struct {
		cfg         *config.Config
		deps        Dependencies
		renderer    *template.Renderer
		initialized atomic.Bool
	}
)

var (
	ErrCollaboratorNil = errors.New("collaborator not provided")
	ErrInitFailed      = errors.New("collaborator initialization failed")
	ErrNotInitialized  = errors.New("orchestrator not initialized")
)

// New creates an Orchestrator. Workflow defaults are merged with the
// caller's overrides exactly once, here
func New(cfg *config.Config, deps Dependencies) (*Orchestrator, error) {
	merged := cfg.WithWorkflowDefaults()
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	renderer, err := template.NewRenderer()
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:      merged,
		deps:     deps,
		renderer: renderer,
	}, nil
}

// collaborators returns the platform adapters in their fixed startup order
func (o *Orchestrator) collaborators() []api.Collaborator {
	return []api.Collaborator{
		o.deps.SourceControl,
		o.deps.Chat,
		o.deps.Documents,
		o.deps.Scheduling,
	}
}

// Initialize brings up each collaborator in a fixed order. The first
// failure aborts startup; collaborators that had already initialized are
// torn down again so no partial-ready state escapes
func (o *Orchestrator) Initialize(ctx context.Context) error {
	collabs := o.collaborators()
	for i, c := range collabs {
		if c == nil {
			return fmt.Errorf("%w: position %d", ErrCollaboratorNil, i)
		}
		if err := c.Initialize(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				if cerr := collabs[j].Cleanup(ctx); cerr != nil {
					slog.Warn("Cleanup after failed startup",
						log.Collaborator(collabs[j].Name()),
						log.Error(cerr))
				}
			}
			return fmt.Errorf("%w: %s: %w", ErrInitFailed, c.Name(), err)
		}
		slog.Info("Collaborator initialized",
			log.Collaborator(c.Name()))
	}

	o.initialized.Store(true)
	return nil
}

// Cleanup tears down every collaborator independently, best effort. A
// missing collaborator or one whose Initialize previously failed is
// skipped or tolerated; errors are logged, never returned
func (o *Orchestrator) Cleanup(ctx context.Context) {
	o.initialized.Store(false)

	for _, c := range o.collaborators() {
		if c == nil {
			continue
		}
		if err := c.Cleanup(ctx); err != nil {
			slog.Warn("Collaborator cleanup failed",
				log.Collaborator(c.Name()),
				log.Error(err))
		}
	}
}

// Initialized reports whether startup completed successfully
func (o *Orchestrator) Initialized() bool {
	return o.initialized.Load()
}
