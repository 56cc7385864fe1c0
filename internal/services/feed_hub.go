package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Feed event types pushed to connected community clients
const (
	EventPostCreated   = "post_created"
	EventPostDeleted   = "post_deleted"
	EventPostLiked     = "post_liked"
	EventPostCommented = "post_commented"
	EventPollVoted     = "poll_voted"
	EventStoryCreated  = "story_created"
	EventStoryReacted  = "story_reacted"
)

// FeedEvent is a WebSocket message describing one feed mutation
type FeedEvent struct {
	Type    string `json:"type"`
	PostID  int64  `json:"post_id,omitempty"`
	StoryID int64  `json:"story_id,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// FeedHub fans feed events out to every connected community client
type FeedHub struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]string // conn -> user email
}

// NewFeedHub creates a new feed hub
func NewFeedHub() *FeedHub {
	return &FeedHub{
		connections: make(map[*websocket.Conn]string),
	}
}

// Register adds a client connection
func (h *FeedHub) Register(email string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[conn] = email
	log.Info().Str("email", email).Int("clients", len(h.connections)).Msg("Feed client connected")
}

// Unregister removes and closes a client connection
func (h *FeedHub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if email, ok := h.connections[conn]; ok {
		conn.Close()
		delete(h.connections, conn)
		log.Info().Str("email", email).Int("clients", len(h.connections)).Msg("Feed client disconnected")
	}
}

// Broadcast sends an event to every connected client. Dead connections
// are dropped along the way.
func (h *FeedHub) Broadcast(event FeedEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal feed event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, email := range h.connections {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn().Err(err).Str("email", email).Msg("Dropping dead feed client")
			conn.Close()
			delete(h.connections, conn)
		}
	}
}

// ClientCount reports how many clients are connected
func (h *FeedHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}
