package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/chatfusion/chatfusion-backend/internal/metrics"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisPubSubChannel = "chat_events"

// Event represents a real-time event sent via WebSocket. Type is one of the domain.Event* names.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Frame inbound client message, e.g. {"type":"typing","to":"<user id>"}
type Frame struct {
	Type string `json:"type"`
	To   string `json:"to"`
}

// Hooks connect the hub to presence and typing. Any of them may be nil.
// Connect and disconnect hooks run on their own goroutine.
type Hooks struct {
	OnConnect    func(userID string)
	OnDisconnect func(userID string, lastConnection bool)
	OnFrame      func(userID string, frame Frame)
}

// Hub manages WebSocket clients and pushes events to them
type Hub struct {
	// Registered clients grouped by user ID
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *targetedEvent

	mu          sync.RWMutex
	hooks       Hooks
	redisClient *redis.Client
	instanceID  string
	logger      zerolog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

type targetedEvent struct {
	UserID string
	data   []byte
}

// NewHub creates a new Hub. redisClient may be nil for a single instance.
func NewHub(redisClient *redis.Client, logger zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *targetedEvent, 256),
		redisClient: redisClient,
		instanceID:  uuid.NewString(),
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetHooks installs callbacks; call before Run
func (h *Hub) SetHooks(hooks Hooks) {
	h.hooks = hooks
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
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
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			metrics.WSConnections.Inc()
			if h.hooks.OnConnect != nil {
				go h.hooks.OnConnect(client.userID)
			}

		case client := <-h.unregister:
			if last, ok := h.remove(client); ok && h.hooks.OnDisconnect != nil {
				go h.hooks.OnDisconnect(client.userID, last)
			}

		case ev := <-h.broadcast:
			if dropped, last := h.deliver(ev); dropped > 0 && h.hooks.OnDisconnect != nil {
				go h.hooks.OnDisconnect(ev.UserID, last)
			}

		case <-h.ctx.Done():
			return
		}
	}
}

// remove drops client and reports whether it was the user's last connection
func (h *Hub) remove(client *Client) (last bool, removed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[client.userID]
	if !ok {
		return false, false
	}
	if _, ok := clients[client]; !ok {
		return false, false
	}
	delete(clients, client)
	close(client.send)
	metrics.WSConnections.Dec()
	if len(clients) == 0 {
		delete(h.clients, client.userID)
		return true, true
	}
	return false, true
}

// deliver drops clients whose send buffer is full. last reports whether that
// left the user with no connection on this instance.
func (h *Hub) deliver(ev *targetedEvent) (dropped int, last bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[ev.UserID]
	if !ok {
		return 0, false
	}
	for client := range clients {
		select {
		case client.send <- ev.data:
		default:
			// slow consumer; its pumps exit once send is closed
			close(client.send)
			delete(clients, client)
			metrics.WSConnections.Dec()
			dropped++
		}
	}
	if len(clients) == 0 {
		delete(h.clients, ev.UserID)
		return dropped, dropped > 0
	}
	return dropped, false
}

// Connected reports whether userID has a live connection on this instance
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Notify pushes an event to every connection of userID, here and on other instances
func (h *Hub) Notify(userID, eventType string, payload interface{}) {
	data, err := json.Marshal(&Event{Type: eventType, Payload: payload})
	if err != nil {
		h.logger.Error().Err(err).Str("event", eventType).Msg("ws event marshal failed")
		return
	}

	select {
	case h.broadcast <- &targetedEvent{UserID: userID, data: data}:
	case <-h.ctx.Done():
		return
	}

	// Publish to Redis for multi-instance support
	if h.redisClient != nil {
		msg, err := json.Marshal(&redisMessage{Origin: h.instanceID, UserID: userID, Event: data})
		if err == nil {
			if err := h.redisClient.Publish(h.ctx, redisPubSubChannel, msg).Err(); err != nil {
				h.logger.Warn().Err(err).Msg("ws redis publish failed")
			}
		}
	}
}

type redisMessage struct {
	Origin string          `json:"origin"`
	UserID string          `json:"user_id"`
	Event  json.RawMessage `json:"event"`
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
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err != nil {
				continue
			}
			// already delivered locally
			if rm.Origin == h.instanceID {
				continue
			}
			select {
			case h.broadcast <- &targetedEvent{UserID: rm.UserID, data: rm.Event}:
			case <-h.ctx.Done():
				return
			}
		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) handleFrame(userID string, data []byte) {
	if h.hooks.OnFrame == nil {
		return
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil || f.Type == "" {
		h.logger.Debug().Str("user_id", userID).Msg("ignoring malformed ws frame")
		return
	}
	h.hooks.OnFrame(userID, f)
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
