package sse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(id string) *Client {
	return &Client{
		ID:     id,
		UserID: uuid.New(),
		Send:   make(chan []byte, 256),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub(zap.NewNop())

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.NotNil(t, hub.broadcast)
}

func TestHub_RegisterClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	client := newTestClient("client-1")
	hub.Register(client)

	// Wait for registration to process
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 1, hub.ClientCount())
}

func TestHub_UnregisterClient_ClosesSendChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	client := newTestClient("client-1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 0, hub.ClientCount())
	_, ok := <-client.Send
	assert.False(t, ok)
}

func TestHub_Emit_ReachesAllClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	first := newTestClient("client-1")
	second := newTestClient("client-2")
	hub.Register(first)
	hub.Register(second)
	time.Sleep(10 * time.Millisecond)

	taskID := uuid.New()
	hub.Emit("taskUpdated", map[string]any{"taskId": taskID})

	for _, client := range []*Client{first, second} {
		select {
		case data := <-client.Send:
			var event Event
			require.NoError(t, json.Unmarshal(data, &event))
			assert.Equal(t, "taskUpdated", event.Type)
		case <-time.After(time.Second):
			t.Fatalf("client %s did not receive the event", client.ID)
		}
	}
}

func TestHub_Emit_SkipsFullClientBuffers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	slow := &Client{ID: "slow", UserID: uuid.New(), Send: make(chan []byte)}
	fast := newTestClient("fast")
	hub.Register(slow)
	hub.Register(fast)
	time.Sleep(10 * time.Millisecond)

	hub.Emit("taskCreated", map[string]any{"title": "t"})

	select {
	case <-fast.Send:
	case <-time.After(time.Second):
		t.Fatal("fast client did not receive the event")
	}
	// The slow client's unbuffered channel was skipped, hub kept running.
	assert.Equal(t, 2, hub.ClientCount())
}
