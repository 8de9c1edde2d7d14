package server

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/bouncelab/internal/config"
	"github.com/san-kum/bouncelab/internal/sim"
)

// Client is one websocket connection with its own simulation. The session
// is touched only by the client's run goroutine: the read pump forwards
// parsed commands over a channel, and the fixed-cadence ticker lives in
// the same select loop, so no locking around the session is needed.
type Client struct {
	id       string
	conn     *websocket.Conn
	session  *sim.Session
	commands chan Command
	send     chan []byte
}

// Hub tracks the active clients. Each websocket connection owns exactly
// one session, created on connect and discarded on disconnect.
type Hub struct {
	cfg     *config.Config
	clients map[string]*Client
	mu      sync.RWMutex
	nextID  atomic.Uint64
}

func NewHub(cfg *config.Config) *Hub {
	return &Hub{
		cfg:     cfg,
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
}

// Serve owns a freshly upgraded connection until it closes.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn) {
	session, err := sim.NewSession(h.cfg)
	if err != nil {
		log.Printf("[HUB] failed to create session: %v", err)
		conn.Close()
		return
	}

	c := &Client{
		id:       "c" + strconv.FormatUint(h.nextID.Add(1), 10),
		conn:     conn,
		session:  session,
		commands: make(chan Command, 16),
		send:     make(chan []byte, 64),
	}
	h.add(c)
	log.Printf("[HUB] client %s connected, simulation created", c.id)

	done := make(chan struct{})
	go c.writePump(done)
	go c.readPump()

	c.run(ctx)

	close(done)
	h.remove(c)
	conn.Close()
	log.Printf("[HUB] client %s disconnected, simulation discarded", c.id)
}

// run is the single owner of the client's session: it multiplexes the tick
// cadence with inbound commands and pushes a state payload after anything
// that could have changed it.
func (c *Client) run(ctx context.Context) {
	dt := c.session.Manager().Dt()
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	c.push(stateEnvelope(c.session.State()))

	for {
		select {
		case <-ctx.Done():
			return

		case cmd, ok := <-c.commands:
			if !ok {
				return
			}
			c.push(handleCommand(c.session, cmd))

		case <-ticker.C:
			if c.session.Manager().Playing() {
				c.push(stateEnvelope(c.session.Update()))
			}
		}
	}
}

func (c *Client) push(env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("[WS] client %s: marshal failed: %v", c.id, err)
		return
	}
	select {
	case c.send <- data:
	default:
		// Send buffer full, drop. The next state push supersedes this one.
		log.Printf("[WS] client %s: send buffer full, dropping message", c.id)
	}
}

func (c *Client) readPump() {
	defer close(c.commands)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			log.Printf("[WS] client %s: malformed command: %v", c.id, err)
			c.push(errorEnvelope("malformed command"))
			continue
		}
		c.commands <- cmd
	}
}

func (c *Client) writePump(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case data := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
