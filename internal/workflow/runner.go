package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kestrelops/liaison/internal/archive"
	"github.com/kestrelops/liaison/internal/events"
	"github.com/kestrelops/liaison/internal/history"
	"github.com/kestrelops/liaison/pkg/api"
	"github.com/kestrelops/liaison/pkg/log"
)

type (
	// step is one unit of work within an invocation
	step struct {
		name string
		fn   func(context.Context) error
	}

	// phase is a group of steps issued together. A phase of one runs
	// inline; a larger phase fans out and joins before the next phase
	phase []step

	// stepError pairs a failure with the step it came from
	stepError struct {
		step string
		err  error
	}

	// run carries the invocation-scoped state threaded through the
	// generalized engine
	run struct {
		workflow string
		action   string
		corr     api.CorrelationID
		acc      *Accumulator
		started  time.Time
	}
)

func (e *stepError) Error() string {
	return e.err.Error()
}

func (e *stepError) Unwrap() error {
	return e.err
}

// seq wraps a single dependent step into its own phase
func seq(name string, fn func(context.Context) error) phase {
	return phase{{name: name, fn: fn}}
}

// fanOut groups independent steps into one concurrent phase
func fanOut(steps ...step) phase {
	return steps
}

// newRun starts the invocation clock and announces the run
func (o *Orchestrator) newRun(
	workflow, action string, corr api.CorrelationID,
) *run {
	r := &run{
		workflow: workflow,
		action:   action,
		corr:     corr,
		acc:      NewAccumulator(),
		started:  time.Now(),
	}
	o.deps.Hub.Publish(events.RunEvent{
		Type:          events.RunStarted,
		Workflow:      workflow,
		CorrelationID: corr,
	})
	return r
}

// runPhases executes the phases in order inside one failure scope. The
// first step to fail aborts all later phases; already-created external
// artifacts are not rolled back
func (o *Orchestrator) runPhases(
	ctx context.Context, r *run, phases []phase,
) *stepError {
	for _, ph := range phases {
		if serr := o.runPhase(ctx, r, ph); serr != nil {
			return serr
		}
	}
	return nil
}

func (o *Orchestrator) runPhase(
	ctx context.Context, r *run, ph phase,
) *stepError {
	if len(ph) == 1 {
		return o.runStep(ctx, r, ph[0])
	}

	// fan-out/join: issue every step, wait for all to settle, then
	// surface the first failure in declaration order
	errs := make([]*stepError, len(ph))
	var wg sync.WaitGroup
	for i, st := range ph {
		wg.Go(func() {
			errs[i] = o.runStep(ctx, r, st)
		})
	}
	wg.Wait()

	for _, serr := range errs {
		if serr != nil {
			return serr
		}
	}
	return nil
}

func (o *Orchestrator) runStep(
	ctx context.Context, r *run, st step,
) *stepError {
	if err := st.fn(ctx); err != nil {
		return &stepError{step: st.name, err: err}
	}
	o.deps.Hub.Publish(events.RunEvent{
		Type:          events.StepCompleted,
		Workflow:      r.workflow,
		CorrelationID: r.corr,
		Step:          st.name,
	})
	return nil
}

// succeed composes the success envelope and records the completed run
func (o *Orchestrator) succeed(
	ctx context.Context, r *run, message string, details api.Details,
) api.Result {
	res := api.Succeed(message, r.started, details)

	o.deps.Hub.Publish(events.RunEvent{
		Type:          events.RunCompleted,
		Workflow:      r.workflow,
		CorrelationID: r.corr,
	})
	o.record(ctx, r, res)
	return res
}

// fail logs the failure with its correlation id and salient fields, then
// converts it into a failure envelope. Nothing is rethrown
func (o *Orchestrator) fail(
	ctx context.Context, r *run, serr *stepError, fields ...slog.Attr,
) api.Result {
	attrs := append([]slog.Attr{
		log.Workflow(r.workflow),
		log.CorrelationID(r.corr),
		log.Step(serr.step),
		log.Error(serr.err),
	}, fields...)
	slog.LogAttrs(ctx, slog.LevelError, "Workflow step failed", attrs...)

	res := api.Fail(
		r.action+" failed: "+serr.err.Error(),
		r.started, serr.step, api.ErrorKindStepFailure,
	)

	o.deps.Hub.Publish(events.RunEvent{
		Type:          events.RunFailed,
		Workflow:      r.workflow,
		CorrelationID: r.corr,
		Step:          serr.step,
		Error:         serr.err.Error(),
	})
	o.record(ctx, r, res)
	return res
}

// reject produces a failure envelope for conditions detected before any
// external call: an invalid request or an uninitialized orchestrator
func (o *Orchestrator) reject(
	ctx context.Context, r *run, err error, kind api.ErrorKind,
) api.Result {
	slog.Error("Workflow rejected",
		log.Workflow(r.workflow),
		log.CorrelationID(r.corr),
		log.Error(err))

	res := api.Fail(
		r.action+" failed: "+err.Error(), r.started, "", kind,
	)

	o.deps.Hub.Publish(events.RunEvent{
		Type:          events.RunFailed,
		Workflow:      r.workflow,
		CorrelationID: r.corr,
		Error:         err.Error(),
	})
	o.record(ctx, r, res)
	return res
}

// record persists the finished invocation to the history store and the
// artifact archive; both are optional and both are best effort
func (o *Orchestrator) record(ctx context.Context, r *run, res api.Result) {
	if err := o.deps.History.Record(ctx, history.Record{
		Workflow:      r.workflow,
		CorrelationID: r.corr,
		Result:        res,
	}); err != nil {
		slog.Warn("History record failed",
			log.CorrelationID(r.corr),
			log.Error(err))
	}

	if err := o.deps.Archive.Put(ctx, archive.Bundle{
		Workflow:      r.workflow,
		CorrelationID: r.corr,
		Result:        res,
		Rendered:      r.acc.Rendered(),
	}); err != nil {
		slog.Warn("Archive write failed",
			log.CorrelationID(r.corr),
			log.Error(err))
	}
}

// render runs a template and stashes the body for the artifact archive
func (o *Orchestrator) render(
	r *run, name string, data map[string]any,
) (string, error) {
	body, err := o.renderer.Render(name, data)
	if err != nil {
		return "", err
	}
	r.acc.PutRendered(name, body)
	return body, nil
}
