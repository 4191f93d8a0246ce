package notify

import (
	"context"
	"strconv"
)

// Event is a realtime payload pushed to connected clients. Delivery is
// best-effort: no ack, no retry, and a failed send never affects the
// operation that produced it.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Sink fans events out to user- or room-keyed channels.
type Sink interface {
	// SendToUser delivers an event to every connection of a user.
	SendToUser(userID uint64, event Event)

	// SendToRoom delivers an event to every connection joined to a room.
	SendToRoom(room string, event Event)
}

// MessageStore persists an inbound chat message before fan-out. Implemented
// by the message service; declared here so the hub does not depend on it.
type MessageStore interface {
	SaveMessage(ctx context.Context, senderID uint64, receiverID, workspaceID *uint64, content string) (interface{}, error)
}

// UserRoom is the implicit room every authenticated connection joins.
func UserRoom(userID uint64) string {
	return strconv.FormatUint(userID, 10)
}

// WorkspaceRoom names the shared room of a workspace.
func WorkspaceRoom(workspaceID uint64) string {
	return "workspace:" + strconv.FormatUint(workspaceID, 10)
}

// NoopSink discards every event. Used when no realtime transport is wired
// and throughout the tests.
type NoopSink struct{}

func (NoopSink) SendToUser(uint64, Event) {}
func (NoopSink) SendToRoom(string, Event) {}
