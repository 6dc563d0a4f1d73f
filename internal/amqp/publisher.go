package amqp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bolsillo/bolsillo-backend/internal/websocket"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBufferSize is the number of events queued before new ones are dropped
	DefaultBufferSize = 256
	publishTimeout    = 5 * time.Second
)

// Channel is the subset of *amqp091.Channel used by the publisher
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher forwards change events to a topic exchange, routed by event type
// (e.g. "budget.cascade_deleted"). Publishing never blocks the caller: events
// are queued and sent by a single goroutine, and dropped when the queue is full.
type Publisher struct {
	conn     *amqp091.Connection
	channel  Channel
	exchange string

	queue   chan websocket.Event
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// Ensure Publisher implements EventPublisher
var _ websocket.EventPublisher = (*Publisher)(nil)

// NewPublisher dials the broker and declares the exchange
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := NewPublisherWithChannel(channel, exchange, DefaultBufferSize)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}
	p.conn = conn

	log.Info().Str("exchange", exchange).Msg("AMQP change feed connected")
	return p, nil
}

// NewPublisherWithChannel declares the exchange on an open channel and starts the send loop
func NewPublisherWithChannel(channel Channel, exchange string, bufferSize int) (*Publisher, error) {
	err := channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	p := &Publisher{
		channel:  channel,
		exchange: exchange,
		queue:    make(chan websocket.Event, bufferSize),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go p.run()
	return p, nil
}

// Publish queues the event for delivery
func (p *Publisher) Publish(event websocket.Event) {
	select {
	case <-p.done:
		return
	default:
	}

	select {
	case p.queue <- event:
	default:
		log.Warn().Str("type", event.Type).Msg("AMQP queue full, dropping event")
	}
}

func (p *Publisher) run() {
	defer close(p.stopped)
	for {
		select {
		case event := <-p.queue:
			p.send(event)
		case <-p.done:
			// Drain what is already queued
			for {
				select {
				case event := <-p.queue:
					p.send(event)
				default:
					return
				}
			}
		}
	}
}

func (p *Publisher) send(event websocket.Event) {
	msg, err := NewChangeMessage(event)
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("Failed to build change message")
		return
	}
	body, err := msg.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal change message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.Timestamp,
			Type:         event.Type,
			Body:         body,
		},
	)
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Str("exchange", p.exchange).Msg("Failed to publish change event")
		return
	}

	log.Debug().Str("type", event.Type).Str("exchange", p.exchange).Msg("Published change event")
}

// Close stops accepting events, flushes the queue and closes the connection
func (p *Publisher) Close() error {
	var err error
	p.once.Do(func() {
		close(p.done)
		<-p.stopped
		if p.channel != nil {
			p.channel.Close()
		}
		if p.conn != nil {
			err = p.conn.Close()
		}
	})
	return err
}
