package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SubscriptionFiltersEntities(t *testing.T) {
	c := NewClient(nil, NewHub())

	assert.True(t, c.Accepts(EntityTypeTransaction), "new clients receive everything")

	require.NoError(t, c.handleMessage([]byte(`{"action":"subscribe","entities":["budget","date_range"]}`)))
	assert.True(t, c.Accepts(EntityTypeBudget))
	assert.True(t, c.Accepts(EntityTypeDateRange))
	assert.False(t, c.Accepts(EntityTypeTransaction))

	require.NoError(t, c.handleMessage([]byte(`{"action":"subscribe","entities":[]}`)))
	assert.True(t, c.Accepts(EntityTypeTransaction), "empty list restores the full feed")
}

func TestClient_RejectsMalformedFrames(t *testing.T) {
	c := NewClient(nil, NewHub())
	require.NoError(t, c.handleMessage([]byte(`{"action":"subscribe","entities":["budget"]}`)))

	assert.ErrorIs(t, c.handleMessage([]byte(`{"action":"unsubscribe"}`)), ErrUnknownAction)
	assert.Error(t, c.handleMessage([]byte(`not json`)))

	// A bad frame leaves the previous subscription in place
	assert.True(t, c.Accepts(EntityTypeBudget))
	assert.False(t, c.Accepts(EntityTypeTransaction))
}

func TestClient_SendAfterClose(t *testing.T) {
	c := NewClient(nil, NewHub())

	require.NoError(t, c.Send([]byte(`{}`)))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.True(t, c.IsClosed())
	assert.ErrorIs(t, c.Send([]byte(`{}`)), ErrClientClosed)
}

func TestClient_FullBufferCountsAsClosed(t *testing.T) {
	c := NewClient(nil, NewHub())

	for range sendBufferSize {
		require.NoError(t, c.Send([]byte(`{}`)))
	}
	assert.ErrorIs(t, c.Send([]byte(`{}`)), ErrClientClosed)
}
