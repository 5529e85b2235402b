package server

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rdfernandes/connwatch/internal/models"
)

const (
	hubSendBuffer    = 8
	hubWriteTimeout  = 5 * time.Second
	hubPushInterval  = 60 * time.Second
	messageTypeState = "change"
	messageTypeSnap  = "snapshot"
)

var hubUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(strings.TrimSpace(r.Host))
		originHost := strings.ToLower(strings.TrimSpace(u.Host))
		return host == originHost
	},
}

// Message is the envelope pushed to websocket clients.
type Message struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

type hubClient struct {
	conn *websocket.Conn
	send chan Message
}

// Hub fans connectivity updates out to websocket clients. Each client gets an
// initial snapshot on connect, every debounced state change, and a periodic
// keepalive snapshot.
type Hub struct {
	snapshot func() any

	clients    map[*hubClient]struct{}
	register   chan *hubClient
	unregister chan *hubClient
	broadcast  chan Message

	stopOnce sync.Once
	done     chan struct{}
	finished chan struct{}
}

// NewHub builds a hub; snapshot produces the payload for snapshot messages.
func NewHub(snapshot func() any) *Hub {
	return &Hub{
		snapshot:   snapshot,
		clients:    make(map[*hubClient]struct{}),
		register:   make(chan *hubClient),
		unregister: make(chan *hubClient),
		broadcast:  make(chan Message, 64),
		done:       make(chan struct{}),
		finished:   make(chan struct{}),
	}
}

// Start launches the hub's event loop.
func (h *Hub) Start() {
	go h.run()
}

// Stop closes every client connection and terminates the loop.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
	<-h.finished
}

// Name identifies the hub when registered as a notifier.
func (h *Hub) Name() string { return "websocket" }

// Notify broadcasts a state change to every connected client. Implements
// notify.Notifier so the hub can be wired into the dispatcher.
func (h *Hub) Notify(_ context.Context, change models.StateChange) error {
	msg := Message{
		Type:      messageTypeState,
		Timestamp: time.Now().UTC(),
		Data:      change,
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
	return nil
}

func (h *Hub) run() {
	defer close(h.finished)

	ticker := time.NewTicker(hubPushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			for client := range h.clients {
				close(client.send)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			log.Printf("[ws] client connected (total: %d)", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			log.Printf("[ws] client disconnected (total: %d)", len(h.clients))

		case msg := <-h.broadcast:
			h.fanOut(msg)

		case <-ticker.C:
			h.fanOut(h.snapshotMessage())
		}
	}
}

func (h *Hub) fanOut(msg Message) {
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			// Slow client, skip this message.
		}
	}
}

func (h *Hub) snapshotMessage() Message {
	return Message{
		Type:      messageTypeSnap,
		Timestamp: time.Now().UTC(),
		Data:      h.snapshot(),
	}
}

// ServeWS upgrades the request and attaches the client to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := hubUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &hubClient{
		conn: conn,
		send: make(chan Message, hubSendBuffer),
	}
	// Queue the initial snapshot before the writer starts.
	client.send <- h.snapshotMessage()

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(client)
	go h.readPump(client)
}

func (h *Hub) writePump(client *hubClient) {
	defer client.conn.Close()

	for msg := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(hubWriteTimeout))
		if err := client.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (h *Hub) readPump(client *hubClient) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
		client.conn.Close()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
