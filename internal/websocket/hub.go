package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"focus-starter/internal/models"
	"focus-starter/internal/services"
)

const writeWait = 10 * time.Second

// client serialises writes; gorilla connections allow one concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub streams session events to every open connection of a user. With Redis
// configured, events arrive over the user's pub/sub channel so any server
// instance can deliver them; without it the hub is fed directly through
// Publish.
type Hub struct {
	mu          sync.RWMutex
	connections map[string][]*client
	redisClient *redis.Client
	cancelFuncs map[string]context.CancelFunc
	upgrader    websocket.Upgrader
}

func NewHub(redisClient *redis.Client, allowedOrigin string) *Hub {
	allowedOrigin = strings.TrimRight(allowedOrigin, "/")
	return &Hub{
		connections: make(map[string][]*client),
		redisClient: redisClient,
		cancelFuncs: make(map[string]context.CancelFunc),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn}
	h.registerConnection(userID, c)

	// Reads only detect disconnects; the stream is server to client.
	go func() {
		defer h.unregisterConnection(userID, c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[userID] = append(h.connections[userID], c)

	if h.redisClient != nil && len(h.connections[userID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[userID] = cancel
		go h.subscribeToPubSub(ctx, userID)
	}

	log.Printf("WebSocket connected: user %s (total: %d)", userID, len(h.connections[userID]))
}

func (h *Hub) unregisterConnection(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.conn.Close()

	conns := h.connections[userID]
	for i, existing := range conns {
		if existing == c {
			h.connections[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[userID]) == 0 {
		delete(h.connections, userID)
		if cancel, ok := h.cancelFuncs[userID]; ok {
			cancel()
			delete(h.cancelFuncs, userID)
		}
	}

	log.Printf("WebSocket disconnected: user %s", userID)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, userID string) {
	pubsub := h.redisClient.Subscribe(ctx, services.UserUpdatesChannel(userID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(userID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(userID string, data []byte) {
	h.mu.RLock()
	clients := append([]*client(nil), h.connections[userID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			log.Printf("WebSocket write failed: user %s: %v", userID, err)
		}
	}
}

// Publish delivers msg to the user's local connections. It is the event
// sink the ledger uses when no Redis is configured.
func (h *Hub) Publish(ctx context.Context, userID string, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.broadcast(userID, data)
}

// ConnectionCount reports the open connections for userID.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

// Close drops every subscription and connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, cancel := range h.cancelFuncs {
		cancel()
		delete(h.cancelFuncs, userID)
	}
	for userID, clients := range h.connections {
		for _, c := range clients {
			c.conn.Close()
		}
		delete(h.connections, userID)
	}
}
