package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	maxMessagesPerSecond = 10

	EventChatMessage      = "chat_message"
	EventDeliveryReminder = "delivery_reminder"
	EventTypingStart      = "typing_start"
	EventTypingStop       = "typing_stop"
)

var (
	ErrUserOffline = errors.New("user has no open websocket session")
	ErrQueueFull   = errors.New("websocket delivery queue is full")
)

// Event is the envelope pushed to clients
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ClientMessage is what clients may send over the socket
type ClientMessage struct {
	Type   string    `json:"type"` // typing_start, typing_stop
	ChatID uuid.UUID `json:"chat_uuid"`
}

// PeerResolver returns the other participant of chatID when userID belongs to it
type PeerResolver func(chatID, userID uuid.UUID) (uuid.UUID, bool)

type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uuid.UUID
	Send   chan []byte

	rateMu        sync.Mutex
	messageCount  int
	lastResetTime time.Time
}

type delivery struct {
	userID uuid.UUID
	data   []byte
}

// Hub tracks connected clients per user; one user may hold several sessions
type Hub struct {
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	done       chan struct{}
	stopOnce   sync.Once

	resolvePeer PeerResolver

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		deliver:    make(chan delivery, 1024),
		done:       make(chan struct{}),
	}
}

// SetPeerResolver enables typing notifications between chat participants
func (h *Hub) SetPeerResolver(resolve PeerResolver) {
	h.mu.Lock()
	h.resolvePeer = resolve
	h.mu.Unlock()
}

func NewClient(hub *Hub, conn *Conn, userID uuid.UUID) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, 256),
	}
}

// Run processes registrations and deliveries until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.removeClient(client)

		case d := <-h.deliver:
			h.mu.RLock()
			for _, client := range h.clients[d.userID] {
				select {
				case client.Send <- d.data:
				default:
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": d.userID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop ends Run and closes every client
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientList, ok := h.clients[client.UserID]
	if !ok {
		return
	}

	remaining := make([]*Client, 0, len(clientList))
	found := false
	for _, c := range clientList {
		if c == client {
			found = true
			continue
		}
		remaining = append(remaining, c)
	}
	if !found {
		return
	}

	if len(remaining) == 0 {
		delete(h.clients, client.UserID)
	} else {
		h.clients[client.UserID] = remaining
	}
	close(client.Send)

	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"user_id":            client.UserID,
		"remaining_sessions": len(remaining),
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, clientList := range h.clients {
		for _, c := range clientList {
			close(c.Send)
		}
		delete(h.clients, userID)
	}
}

// SendToUser queues event for every session of userID. It returns
// ErrUserOffline when userID has no session and ErrQueueFull when the hub
// is backed up; in both cases nothing was queued.
func (h *Hub) SendToUser(userID uuid.UUID, eventType string, data interface{}) error {
	if !h.IsUserOnline(userID) {
		return ErrUserOffline
	}

	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		logger.Error("Failed to marshal websocket event", err, map[string]interface{}{
			"type": eventType,
		})
		return err
	}

	select {
	case h.deliver <- delivery{userID: userID, data: payload}:
		return nil
	default:
		logger.Warn("Delivery channel full, event dropped", map[string]interface{}{
			"user_id": userID,
			"type":    eventType,
		})
		return ErrQueueFull
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) IsUserOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// allow applies the per-client rate limit
func (c *Client) allow() bool {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()

	now := time.Now()
	if now.Sub(c.lastResetTime) >= time.Second {
		c.messageCount = 0
		c.lastResetTime = now
	}
	c.messageCount++
	return c.messageCount <= maxMessagesPerSecond
}

// HandleClientMessage relays typing notifications to the chat peer
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	if !client.allow() {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	if msg.Type != EventTypingStart && msg.Type != EventTypingStop {
		return
	}

	h.mu.RLock()
	resolve := h.resolvePeer
	h.mu.RUnlock()
	if resolve == nil {
		return
	}

	peer, ok := resolve(msg.ChatID, client.UserID)
	if !ok {
		logger.Warn("User is not a participant of the chat", map[string]interface{}{
			"user_id": client.UserID,
			"chat_id": msg.ChatID,
		})
		return
	}

	// an offline peer just misses the hint
	_ = h.SendToUser(peer, msg.Type, map[string]interface{}{
		"chat_uuid": msg.ChatID,
		"user_uuid": client.UserID,
	})
}
