package notify

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const writeTimeout = 5 * time.Second

// Hub is a websocket implementation of Sink. Connections are grouped into
// rooms: every connection implicitly joins the room named after its user id,
// and may join workspace rooms on request.
type Hub struct {
	store MessageStore

	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

type client struct {
	conn    *websocket.Conn
	userID  uint64
	writeMu sync.Mutex
}

// inboundFrame is what clients send over the socket.
type inboundFrame struct {
	Type        string  `json:"type"`
	Room        string  `json:"room,omitempty"`
	ReceiverID  *uint64 `json:"receiver_id,omitempty"`
	WorkspaceID *uint64 `json:"workspace_id,omitempty"`
	Content     string  `json:"content,omitempty"`
}

// NewHub creates a Hub. store may be nil, in which case inbound chat frames
// are ignored.
func NewHub(store MessageStore) *Hub {
	return &Hub{
		store: store,
		rooms: make(map[string]map[*client]struct{}),
	}
}

// Serve upgrades the request and pumps frames until the client disconnects.
// The caller authenticates the request and supplies the user id.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uint64) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("websocket accept failed: %v", err)
		return
	}

	c := &client{conn: conn, userID: userID}
	h.join(UserRoom(userID), c)
	log.Printf("User %d connected", userID)

	defer func() {
		h.leaveAll(c)
		conn.CloseNow()
		log.Printf("User %d disconnected", userID)
	}()

	ctx := r.Context()
	for {
		var frame inboundFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			return
		}
		h.handleFrame(ctx, c, frame)
	}
}

func (h *Hub) handleFrame(ctx context.Context, c *client, frame inboundFrame) {
	switch frame.Type {
	case "join_room":
		if frame.Room == "" {
			return
		}
		h.join(frame.Room, c)
		log.Printf("User %d joined room %s", c.userID, frame.Room)

	case "send_message":
		if h.store == nil || frame.Content == "" {
			return
		}

		message, err := h.store.SaveMessage(ctx, c.userID, frame.ReceiverID, frame.WorkspaceID, frame.Content)
		if err != nil {
			log.Printf("failed to save message from user %d: %v", c.userID, err)
			h.sendTo(c, Event{Type: "error", Payload: "Failed to send message"})
			return
		}

		event := Event{Type: "receive_message", Payload: message}
		switch {
		case frame.ReceiverID != nil:
			h.SendToUser(*frame.ReceiverID, event)
			// Sender sees it too; clients do not render optimistically.
			h.SendToUser(c.userID, event)
		case frame.WorkspaceID != nil:
			h.SendToRoom(WorkspaceRoom(*frame.WorkspaceID), event)
		}
	}
}

// SendToUser implements Sink.
func (h *Hub) SendToUser(userID uint64, event Event) {
	h.SendToRoom(UserRoom(userID), event)
}

// SendToRoom implements Sink.
func (h *Hub) SendToRoom(room string, event Event) {
	h.mu.RLock()
	members := make([]*client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		h.sendTo(c, event)
	}
}

func (h *Hub) sendTo(c *client, event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := wsjson.Write(ctx, c.conn, event); err != nil {
		log.Printf("failed to deliver %s event to user %d: %v", event.Type, c.userID, err)
	}
}

func (h *Hub) join(room string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*client]struct{})
	}
	h.rooms[room][c] = struct{}{}
}

func (h *Hub) leaveAll(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}
