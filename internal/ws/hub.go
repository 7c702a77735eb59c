package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"

	pkglogger "github.com/jangteo/jangteo-backend/pkg/logger"
)

const redisPubSubChannel = "chat_events"

// Event names published by the chat core
const (
	EventNewMessage      = "new_message"
	EventNewRequest      = "new_request"
	EventMessagesRead    = "messages_read"
	EventReactionUpdated = "reaction_updated"
)

// Event represents a real-time event sent via WebSocket
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub manages WebSocket clients and delivers events to per-member rooms.
// Delivery is best-effort: an event reaches every socket currently
// registered for the member and is dropped otherwise.
type Hub struct {
	// Registered clients grouped by member ID
	clients map[uint64]map[*Client]bool

	// Register/unregister channels
	register   chan *Client
	unregister chan *Client

	// Broadcast to a specific member
	broadcast chan *targetedEvent

	mu          sync.RWMutex
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

type targetedEvent struct {
	MemberID uint64
	Event    *Event
}

// NewHub creates a new Hub
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uint64]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *targetedEvent, 256),
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.memberID] == nil {
				h.clients[client.memberID] = make(map[*Client]bool)
			}
			h.clients[client.memberID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.memberID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.memberID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			if clients, ok := h.clients[msg.MemberID]; ok {
				data, err := json.Marshal(msg.Event)
				if err == nil {
					for client := range clients {
						select {
						case client.send <- data:
						default:
							close(client.send)
							delete(clients, client)
						}
					}
				}
			}
			h.mu.RUnlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// Publish sends an event to a specific member's room (local + Redis publish).
// Implements the chat core's Broadcaster contract; failures are logged,
// never surfaced to the caller.
func (h *Hub) Publish(memberID uint64, event string, payload interface{}) {
	ev := &Event{Type: event, Payload: payload}

	// Local broadcast
	select {
	case h.broadcast <- &targetedEvent{MemberID: memberID, Event: ev}:
	case <-h.ctx.Done():
		return
	}

	// Publish to Redis for multi-instance support
	if h.redisClient != nil {
		msg := &redisMessage{MemberID: memberID, Event: ev}
		data, err := json.Marshal(msg)
		if err != nil {
			return
		}
		if err := h.redisClient.Publish(h.ctx, redisPubSubChannel, data).Err(); err != nil {
			pkglogger.GetLogger().Warn().Err(err).
				Uint64("member_id", memberID).
				Str("event", event).
				Msg("redis publish failed")
		}
	}
}

type redisMessage struct {
	MemberID uint64 `json:"member_id"`
	Event    *Event `json:"event"`
}

// subscribeRedis listens for events published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rm redisMessage
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err == nil {
				// Only local broadcast (don't re-publish to Redis)
				h.broadcast <- &targetedEvent{MemberID: rm.MemberID, Event: rm.Event}
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
