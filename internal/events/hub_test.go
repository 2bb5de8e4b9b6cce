package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelops/liaison/internal/events"
)

func TestHubDeliversToSubscriber(t *testing.T) {
	hub := events.NewHub()
	defer hub.Close()

	cons := hub.NewConsumer()
	defer cons.Close()

	hub.Publish(events.RunEvent{
		Type:          events.RunStarted,
		Workflow:      "review",
		CorrelationID: "corr-1",
	})

	select {
	case ev := <-cons.Receive():
		assert.Equal(t, events.RunStarted, ev.Type)
		assert.Equal(t, "review", ev.Workflow)
		assert.False(t, ev.At.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestHubNilSafe(t *testing.T) {
	var hub *events.Hub
	assert.NotPanics(t, func() {
		hub.Publish(events.RunEvent{Type: events.RunStarted})
		hub.Close()
	})
}
