package realtime

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	sendBufferSize = 16
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Client struct {
	id     string
	tables map[string]bool
	send   chan Event
	conn   *websocket.Conn
}

func NewClient(tables []string, buffer int) *Client {
	c := &Client{
		id:     uuid.NewString(),
		tables: make(map[string]bool, len(tables)),
		send:   make(chan Event, buffer),
	}
	for _, t := range tables {
		c.tables[t] = true
	}
	return c
}

func (c *Client) Subscribed(table string) bool {
	return c.tables[table]
}

func (c *Client) Tables() []string {
	tables := make([]string, 0, len(c.tables))
	for t := range c.tables {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}

// Events is closed when the hub drops the client.
func (c *Client) Events() <-chan Event {
	return c.send
}

// ParseTables reads a comma separated subscription list, keeping known
// tables only. An empty list subscribes to everything.
func ParseTables(raw string) []string {
	var tables []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(strings.ToLower(t))
		for _, known := range Tables {
			if t == known {
				tables = append(tables, t)
			}
		}
	}
	if len(tables) == 0 {
		return Tables
	}
	return tables
}

// ServeWS upgrades the request and streams events for the requested
// tables until either side goes away.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, log zerolog.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade error")
		return
	}
	c := NewClient(ParseTables(r.URL.Query().Get("tables")), sendBufferSize)
	c.conn = conn
	hub.Register(c)

	go c.writePump(log)
	c.readPump(hub)
}

// readPump only watches for the peer going away, clients never send data.
func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump(log zerolog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case e, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(e); err != nil {
				log.Debug().Err(err).Str("client_id", c.id).Msg("websocket write error")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
