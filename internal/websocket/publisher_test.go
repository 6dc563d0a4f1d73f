package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingPublisher struct {
	events []Event
}

func (r *recordingPublisher) Publish(event Event) {
	r.events = append(r.events, event)
}

func TestHub_Implements_EventPublisher(t *testing.T) {
	var _ EventPublisher = (*Hub)(nil)
}

func TestHub_Publish(t *testing.T) {
	hub := NewHub()

	client := newFakeClient("client-1")
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(TransactionCreated(map[string]any{"id": "t-42"}))

	eventually(t, func() bool { return client.received() == 1 })
}

func TestNoOpPublisher_Publish(t *testing.T) {
	publisher := &NoOpPublisher{}

	assert.NotPanics(t, func() {
		publisher.Publish(TransactionCreated(map[string]any{"id": "t-1"}))
	})
}

func TestMultiPublisher_FansOutInOrder(t *testing.T) {
	first := &recordingPublisher{}
	second := &recordingPublisher{}

	multi := MultiPublisher{first, nil, second}
	multi.Publish(BudgetDeleted(map[string]any{"id": "b-1"}))
	multi.Publish(DateRangeUpdated(map[string]any{"from": "2026-01-01"}))

	assert.Len(t, first.events, 2)
	assert.Len(t, second.events, 2)
	assert.Equal(t, "budget.deleted", first.events[0].Type)
	assert.Equal(t, "date_range.updated", second.events[1].Type)
}
