package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const (
	TableJobs         = "jobs"
	TableApplications = "applications"
)

// Tables lists what a client may subscribe to.
var Tables = []string{TableJobs, TableApplications}

// Event is a row level change. Clients refetch on receipt, the payload
// only says what changed.
type Event struct {
	Table string `json:"table"`
	Op    string `json:"op"`
	ID    string `json:"id"`
}

// Hub fans database change events out to subscribed clients.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}
	mu         sync.RWMutex
	hooks      []func(Event)
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
		done:       make(chan struct{}),
		log:        log,
	}
}

// OnEvent adds a hook run on the hub goroutine for every event. Must be
// called before Run.
func (h *Hub) OnEvent(fn func(Event)) {
	h.hooks = append(h.hooks, fn)
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.log.Debug().Str("client_id", c.id).Strs("tables", c.Tables()).Msg("realtime client registered")
		case c := <-h.unregister:
			h.remove(c)
		case e := <-h.broadcast:
			for _, fn := range h.hooks {
				fn(e)
			}
			h.broadcastEvent(e)
		}
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.send)
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) Publish(e Event) {
	select {
	case h.broadcast <- e:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcastEvent(e Event) {
	var slow []*Client
	h.mu.RLock()
	for c := range h.clients {
		if !c.Subscribed(e.Table) {
			continue
		}
		select {
		case c.send <- e:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range slow {
		h.log.Warn().Str("client_id", c.id).Msg("realtime client dropped, send buffer full")
		h.remove(c)
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}
