package websocket

import (
	"testing"
	"time"

	"ai-videotutor-be/internal/model"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func (h *Hub) clientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func TestHubDeliversToConnectedClient(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	userID := uuid.New()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	hub.register <- client
	waitFor(t, func() bool { return hub.clientCount(userID) == 1 })

	hub.Send(userID, model.TutorUpdate{Type: model.UpdateTypeDrawer, ConversationId: uuid.New()})

	select {
	case msg := <-client.Send:
		if len(msg) == 0 {
			t.Fatal("expected a marshalled update, got empty payload")
		}
	case <-time.After(time.Second):
		t.Fatal("update never reached the client")
	}
}

func TestHubDropsStalledClientWithoutCrashing(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	userID := uuid.New()
	// Unbuffered Send with no writePump draining it models a stalled device.
	stalled := &Client{Hub: hub, UserID: userID, Send: make(chan []byte)}
	hub.register <- stalled
	waitFor(t, func() bool { return hub.clientCount(userID) == 1 })

	hub.Send(userID, model.TutorUpdate{Type: model.UpdateTypeSegments, ConversationId: uuid.New()})
	waitFor(t, func() bool { return hub.clientCount(userID) == 0 })

	// The unregister branch must have closed the channel exactly once.
	select {
	case _, open := <-stalled.Send:
		if open {
			t.Fatal("expected Send channel to be closed after drop")
		}
	case <-time.After(time.Second):
		t.Fatal("Send channel was never closed")
	}

	// The hub goroutine must still be serving registrations.
	replacement := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 1)}
	hub.register <- replacement
	waitFor(t, func() bool { return hub.clientCount(userID) == 1 })

	hub.Send(userID, model.TutorUpdate{Type: model.UpdateTypeSegments, ConversationId: uuid.New()})
	select {
	case <-replacement.Send:
	case <-time.After(time.Second):
		t.Fatal("hub stopped delivering after dropping a stalled client")
	}
}
