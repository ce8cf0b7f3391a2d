package sse

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Message is one event pushed to clients
type Message struct {
	Event string
	Data  interface{}
}

// Client is a connected event stream
type Client struct {
	UserID string
	send   chan Message
}

// Manager fans events out to every connected client.
// Delivery is best-effort: a client whose buffer is full misses the event.
type Manager struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	stop       chan struct{}
	stopOnce   sync.Once

	mu      sync.RWMutex
	clients map[*Client]struct{}

	heartbeat  time.Duration
	bufferSize int
}

func NewManager() *Manager {
	return &Manager{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 256),
		stop:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		heartbeat:  25 * time.Second,
		bufferSize: 32,
	}
}

// Run owns the client set; it returns after Stop
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			m.mu.Lock()
			m.clients[c] = struct{}{}
			m.mu.Unlock()
		case c := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[c]; ok {
				delete(m.clients, c)
				close(c.send)
			}
			m.mu.Unlock()
		case msg := <-m.broadcast:
			m.mu.RLock()
			for c := range m.clients {
				deliver(c, msg)
			}
			m.mu.RUnlock()
		case <-m.stop:
			m.mu.Lock()
			for c := range m.clients {
				delete(m.clients, c)
				close(c.send)
			}
			m.mu.Unlock()
			return
		}
	}
}

func deliver(c *Client, msg Message) {
	select {
	case c.send <- msg:
	default:
		log.Printf("[SSE] Dropping %s event for slow client (user %s)", msg.Event, c.UserID)
	}
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Broadcast queues an event for every connected client
func (m *Manager) Broadcast(event string, data interface{}) {
	select {
	case m.broadcast <- Message{Event: event, Data: data}:
	case <-m.stop:
	}
}

// ClientCount reports how many streams are connected
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Subscribe registers a client; callers must Unsubscribe it
func (m *Manager) Subscribe(userID string) *Client {
	c := &Client{UserID: userID, send: make(chan Message, m.bufferSize)}
	select {
	case m.register <- c:
	case <-m.stop:
		close(c.send)
	}
	return c
}

func (m *Manager) Unsubscribe(c *Client) {
	select {
	case m.unregister <- c:
	case <-m.stop:
	}
}

// Events is the receive side of a subscribed client
func (c *Client) Events() <-chan Message {
	return c.send
}

// ServeHTTP streams events to the request until the client disconnects
func (m *Manager) ServeHTTP(c *gin.Context, userID string) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	client := m.Subscribe(userID)
	defer m.Unsubscribe(client)

	ticker := time.NewTicker(m.heartbeat)
	defer ticker.Stop()

	c.SSEvent("connected", gin.H{"user_id": userID})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client.send:
			if !ok {
				return false
			}
			c.SSEvent(msg.Event, msg.Data)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
