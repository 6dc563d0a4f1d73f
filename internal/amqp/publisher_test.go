package amqp

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bolsillo/bolsillo-backend/internal/websocket"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	mu         sync.Mutex
	declared   string
	kind       string
	declareErr error
	publishErr error
	published  []published
	closed     bool
	block      chan struct{}
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error {
	f.declared = name
	f.kind = kind
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeChannel) sent() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.published...)
}

func TestNewPublisherWithChannel_DeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisherWithChannel(ch, "bolsillo.events", 4)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "bolsillo.events", ch.declared)
	assert.Equal(t, "topic", ch.kind)
}

func TestNewPublisherWithChannel_DeclareError(t *testing.T) {
	ch := &fakeChannel{declareErr: errors.New("access refused")}

	_, err := NewPublisherWithChannel(ch, "bolsillo.events", 4)
	assert.ErrorContains(t, err, "declare exchange")
}

func TestPublisher_RoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisherWithChannel(ch, "bolsillo.events", 4)
	require.NoError(t, err)

	p.Publish(websocket.BudgetCascadeDeleted(map[string]string{"id": "b1"}))
	p.Publish(websocket.TransactionCreated(map[string]string{"id": "t1"}))
	require.NoError(t, p.Close())

	sent := ch.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "budget.cascade_deleted", sent[0].key)
	assert.Equal(t, "transaction.created", sent[1].key)
	assert.Equal(t, "bolsillo.events", sent[0].exchange)
	assert.Equal(t, "application/json", sent[0].msg.ContentType)
	assert.Equal(t, amqp091.Persistent, sent[0].msg.DeliveryMode)

	msg, err := ChangeMessageFromJSON(sent[0].msg.Body)
	require.NoError(t, err)
	assert.Equal(t, websocket.EntityTypeBudget, msg.Entity)
	assert.JSONEq(t, `{"id":"b1"}`, string(msg.Payload))
	assert.True(t, ch.closed)
}

func TestPublisher_DropsWhenFull(t *testing.T) {
	ch := &fakeChannel{block: make(chan struct{})}
	p, err := NewPublisherWithChannel(ch, "bolsillo.events", 1)
	require.NoError(t, err)

	// The first event may already be in flight; the queue holds one more.
	for range 5 {
		p.Publish(websocket.TransactionCreated(nil))
	}
	close(ch.block)
	require.NoError(t, p.Close())

	assert.LessOrEqual(t, len(ch.sent()), 2)
	assert.NotEmpty(t, ch.sent())
}

func TestPublisher_PublishAfterCloseIsIgnored(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisherWithChannel(ch, "bolsillo.events", 4)
	require.NoError(t, err)
	require.NoError(t, p.Close())

	p.Publish(websocket.TransactionDeleted(nil))
	assert.Empty(t, ch.sent())
	assert.NoError(t, p.Close())
}

func TestPublisher_PublishErrorIsLogged(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, err := NewPublisherWithChannel(ch, "bolsillo.events", 4)
	require.NoError(t, err)

	p.Publish(websocket.TransactionDeleted(nil))
	assert.NoError(t, p.Close())
	assert.Empty(t, ch.sent())
}

func TestNewChangeMessage_UnsupportedPayload(t *testing.T) {
	_, err := NewChangeMessage(websocket.TransactionCreated(make(chan int)))
	assert.Error(t, err)
}
