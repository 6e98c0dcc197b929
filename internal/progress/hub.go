package progress

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 256
)

// Event is an advisory pipeline progress message. It carries no correctness
// contract; clients use it to render upload progress.
type Event struct {
	UploadID string `json:"uploadId"`
	Stage    string `json:"stage"`
	Message  string `json:"message,omitempty"`
	Chunk    int    `json:"chunk,omitempty"`
	Total    int    `json:"total,omitempty"`
}

// Pipeline stages reported over the hub.
const (
	StageStored      = "stored"
	StageTranscribed = "chunk-transcribed"
	StageDone        = "done"
	StageFailed      = "failed"
)

// client is one subscribed WebSocket connection. Every frame goes through
// send and is written by the client's single writePump goroutine; the
// websocket package allows at most one concurrent writer per connection, so
// publishers must never write to conn directly.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

type Hub struct {
	clients map[*client]bool
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

func (h *Hub) register(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[c] = true
}

func (h *Hub) unregister(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

// Publish broadcasts the event to every connected client. A client whose
// send buffer is full is dropped rather than blocking the pipeline.
func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	var slow []*client
	h.mutex.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mutex.RUnlock()

	for _, c := range slow {
		h.unregister(c)
	}
}

// ServeWS registers the connection and blocks until the client disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register(c)

	go c.writePump()
	h.readPump(c)
}

// readPump drains the read side so close frames are processed; clients never
// send meaningful data on this socket.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
