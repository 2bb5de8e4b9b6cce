// Package events broadcasts workflow lifecycle events to in-process
// subscribers, feeding the websocket stream. Events are transient; nothing
// here survives a restart
package events

import (
	"sync"
	"time"

	"github.com/kode4food/caravan"
	"github.com/kode4food/caravan/message"
	"github.com/kode4food/caravan/topic"

	"github.com/kestrelops/liaison/pkg/api"
)

type (
	// Type classifies a run event
	Type string

	// RunEvent reports progress of one workflow invocation
	RunEvent struct {
		Type          Type              `json:"type"`
		Workflow      string            `json:"workflow"`
		CorrelationID api.CorrelationID `json:"correlation_id"`
		Step          string            `json:"step,omitempty"`
		Error         string            `json:"error,omitempty"`
		At            time.Time         `json:"at"`
	}

	// Hub fans run events out to every subscriber
	Hub struct {
		events    topic.Topic[RunEvent]
		prod      topic.Producer[RunEvent]
		closeOnce sync.Once
	}
)

const (
	RunStarted    Type = "run_started"
	StepCompleted Type = "step_completed"
	RunCompleted  Type = "run_completed"
	RunFailed     Type = "run_failed"
)

// NewHub creates a new run event hub
func NewHub() *Hub {
	events := caravan.NewTopic[RunEvent]()
	return &Hub{
		events: events,
		prod:   events.NewProducer(),
	}
}

// Publish stamps and broadcasts a run event. Safe to call on a nil hub
func (h *Hub) Publish(ev RunEvent) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	message.Send(h.prod, ev)
}

// NewConsumer subscribes to run events published after the call
func (h *Hub) NewConsumer() topic.Consumer[RunEvent] {
	return h.events.NewConsumer()
}

// Close stops the hub's producer
func (h *Hub) Close() {
	if h == nil {
		return
	}
	h.closeOnce.Do(func() {
		h.prod.Close()
	})
}
