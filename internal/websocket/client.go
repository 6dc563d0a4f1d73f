package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	// pingPeriod must stay below pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound subscription frames
	maxMessageSize = 512

	sendBufferSize = 256
)

// ActionSubscribe is the only inbound action a dashboard client may send
const ActionSubscribe = "subscribe"

// ErrUnknownAction is returned for inbound frames with an unsupported action
var ErrUnknownAction = errors.New("unknown websocket action")

// SubscribeRequest narrows the events a client receives. An empty Entities
// list restores the full change feed.
//
//	{"action":"subscribe","entities":["transaction","budget"]}
type SubscribeRequest struct {
	Action   string       `json:"action"`
	Entities []EntityType `json:"entities"`
}

// Client is one dashboard connection on the change feed
type Client struct {
	id   string
	conn *websocket.Conn
	hub  *Hub
	send chan []byte

	mu       sync.RWMutex
	closed   bool
	entities map[EntityType]bool // nil receives every entity

	closeOnce sync.Once
}

// NewClient wraps an upgraded connection. Call ReadPump and WritePump after
// registering it with the hub.
func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		id:   uuid.New().String(),
		conn: conn,
		hub:  hub,
		send: make(chan []byte, sendBufferSize),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Accepts reports whether events about entity should reach this client
func (c *Client) Accepts(entity EntityType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entities == nil || c.entities[entity]
}

// Send queues a serialized event. A full buffer means the reader fell behind
// and is treated like a closed client.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close shuts the connection once; later calls are no-ops
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		if c.conn != nil {
			closeErr = c.conn.Close()
		}
	})
	return closeErr
}

// IsClosed reports whether Close has run
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// handleMessage applies one inbound frame
func (c *Client) handleMessage(data []byte) error {
	var req SubscribeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return err
	}
	if req.Action != ActionSubscribe {
		return ErrUnknownAction
	}

	var entities map[EntityType]bool
	if len(req.Entities) > 0 {
		entities = make(map[EntityType]bool, len(req.Entities))
		for _, e := range req.Entities {
			entities[e] = true
		}
	}

	c.mu.Lock()
	c.entities = entities
	c.mu.Unlock()

	log.Debug().
		Str("client_id", c.id).
		Int("entities", len(entities)).
		Msg("WebSocket subscription changed")
	return nil
}

// ReadPump reads subscription frames until the peer goes away, then
// unregisters the client. Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket closed unexpectedly")
			}
			return
		}
		if err := c.handleMessage(data); err != nil {
			log.Warn().Err(err).Str("client_id", c.id).Msg("Ignoring WebSocket frame")
		}
	}
}

// WritePump drains the send buffer onto the connection and keeps it alive
// with pings. Run it in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
