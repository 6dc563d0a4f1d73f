package testutil

import (
	"context"
	"sync"

	"github.com/bolsillo/bolsillo-backend/internal/websocket"
)

// MockKeyValueStore is a mock implementation of domain.KeyValueStore
type MockKeyValueStore struct {
	Data     map[string][]byte
	SetCalls []string
	GetFn    func(ctx context.Context, key string) ([]byte, bool, error)
	SetFn    func(ctx context.Context, key string, value []byte) error
	mu       sync.Mutex
}

// NewMockKeyValueStore creates a new MockKeyValueStore
func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{
		Data: make(map[string][]byte),
	}
}

// Get returns the stored bytes for key
func (m *MockKeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.Data[key]
	return value, ok, nil
}

// Set stores value under key
func (m *MockKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.SetCalls = append(m.SetCalls, key)
	m.mu.Unlock()

	if m.SetFn != nil {
		return m.SetFn(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = append([]byte(nil), value...)
	return nil
}

// Put seeds a raw value without recording a call
func (m *MockKeyValueStore) Put(key string, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = []byte(value)
}

// Value returns the raw stored value for key
func (m *MockKeyValueStore) Value(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.Data[key])
}

// Calls returns the keys written so far, in order
func (m *MockKeyValueStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.SetCalls...)
}

// MockPublisher records published events
type MockPublisher struct {
	events []websocket.Event
	mu     sync.Mutex
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the event
func (m *MockPublisher) Publish(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns the recorded events
func (m *MockPublisher) Events() []websocket.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]websocket.Event(nil), m.events...)
}

// Types returns the recorded event types, e.g. "budget.cascade_deleted"
func (m *MockPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type
	}
	return types
}

// Reset forgets the recorded events
func (m *MockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
