package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/anjiri1684/mentor_connect/models"
	"github.com/google/uuid"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// writeWait bounds a single write on connections that support deadlines.
const writeWait = 10 * time.Second

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// SyncConn serializes writes to a connection shared by the hub and the
// connection's own reader. Close does not wait for a pending write.
type SyncConn struct {
	mu   sync.Mutex
	conn Conn
}

func NewSyncConn(conn Conn) *SyncConn {
	return &SyncConn{conn: conn}
}

func (s *SyncConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.conn.(writeDeadliner); ok {
		if err := d.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
	}
	return s.conn.WriteJSON(v)
}

func (s *SyncConn) Close() error {
	return s.conn.Close()
}

type Client struct {
	UserID uuid.UUID
	Conn   Conn
}

// sendBuffer is how many pushes may wait for a slow receiver before it is
// disconnected.
const sendBuffer = 16

// peer is a registered connection with its own writer goroutine. Only the
// writer touches conn after registration; send is closed under Hub.mu.
type peer struct {
	userID uuid.UUID
	conn   Conn
	send   chan *models.Message
}

// Hub pushes direct messages to the connected receiver. A user has at most
// one live connection; a newer one replaces the older. The hub loop never
// writes to a connection itself, so a stalled receiver only delays its own
// pushes.
type Hub struct {
	mu         sync.Mutex
	clients    map[uuid.UUID]*peer
	register   chan *Client
	unregister chan *Client
	broadcast  chan *models.Message
	done       chan struct{}
}

var DefaultHub = NewHub()

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*peer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *models.Message, 64),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Register(c *Client)   { h.register <- c }
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Publish queues a stored message for delivery. It drops the push when the
// hub is saturated; the message stays available through the history API.
func (h *Hub) Publish(m *models.Message) {
	select {
	case h.broadcast <- m:
	default:
		log.Printf("⚠️ Websocket hub busy, not pushing message %s", m.ID)
	}
}

func (h *Hub) Connected(userID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.clients[userID]
	return ok
}

func (h *Hub) Stop() { close(h.done) }

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return
		case client := <-h.register:
			log.Printf("Client registered: %s", client.UserID)
			p := &peer{userID: client.UserID, conn: client.Conn, send: make(chan *models.Message, sendBuffer)}
			h.mu.Lock()
			if old, ok := h.clients[client.UserID]; ok {
				close(old.send)
			}
			h.clients[client.UserID] = p
			h.mu.Unlock()
			go h.write(p)
		case client := <-h.unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			h.mu.Lock()
			if p, ok := h.clients[client.UserID]; ok && p.conn == client.Conn {
				h.drop(p)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// drop removes p and stops its writer. Callers hold h.mu.
func (h *Hub) drop(p *peer) {
	if h.clients[p.userID] == p {
		delete(h.clients, p.userID)
		close(p.send)
	}
}

func (h *Hub) deliver(m *models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.clients[m.ReceiverID]
	if !ok {
		return
	}
	select {
	case p.send <- m:
	default:
		log.Printf("⚠️ Client %s is not keeping up, disconnecting", m.ReceiverID)
		h.drop(p)
	}
}

// write sends queued messages until the peer is dropped or its connection
// fails, then closes the connection.
func (h *Hub) write(p *peer) {
	defer p.conn.Close()
	for m := range p.send {
		if err := p.conn.WriteJSON(m); err != nil {
			log.Printf("Error sending message to client %s: %v", p.userID, err)
			h.mu.Lock()
			h.drop(p)
			h.mu.Unlock()
			for range p.send {
			}
			return
		}
	}
}
