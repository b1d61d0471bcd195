package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastsToRegisteredClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, Send: make(chan []byte, 1)}
	hub.Register <- client

	hub.Publish("question_created", map[string]string{"title": "hello"})

	select {
	case raw := <-client.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "question_created", msg.Action)
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, Send: make(chan []byte, 1)}
	hub.Register <- client
	hub.Unregister <- client

	// Once the publish has gone through, the unregister before it has
	// been fully processed and the channel is closed.
	hub.Publish("noop", nil)

	_, ok := <-client.Send
	assert.False(t, ok, "send channel should be closed")
}

func TestHub_EvictsSlowClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// A client with no buffer and no reader cannot take delivery.
	slow := &Client{hub: hub, Send: make(chan []byte)}
	hub.Register <- slow

	hub.Publish("question_created", map[string]string{"title": "hello"})

	// Once a second publish has gone through, the first broadcast pass
	// is complete and the slow client has been dropped.
	hub.Publish("noop", nil)

	_, ok := <-slow.Send
	assert.False(t, ok, "slow client should have been dropped")
}
