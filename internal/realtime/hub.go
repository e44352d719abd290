package realtime

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/issuedesk/issuedesk/internal/api/metrics"
	"github.com/issuedesk/issuedesk/internal/core/domain"
)

const broadcastBuffer = 256

// frame is the wire format of every server-to-client message.
type frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type roomMessage struct {
	room    string
	payload []byte
	event   string
}

type membership struct {
	client *Client
	room   string
}

// Hub owns all room-membership state for the process. A single run loop
// serializes register/unregister/join/leave/broadcast, so no locks guard the
// maps. State is in-memory only: it does not survive restart and is not
// shared across instances.
type Hub struct {
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	join       chan membership
	leave      chan membership
	broadcast  chan roomMessage

	log zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan membership),
		leave:      make(chan membership),
		broadcast:  make(chan roomMessage, broadcastBuffer),
		log:        log,
	}
}

// Run processes hub commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.addToRoom(c, domain.UserRoom(c.UserID))
			h.addToRoom(c, domain.RoomGeneral)
			metrics.ConnectionsActive.Inc()
			h.log.Debug().Str("user_id", c.UserID).Msg("realtime client connected")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				metrics.ConnectionsActive.Dec()
				h.log.Debug().Str("user_id", c.UserID).Msg("realtime client disconnected")
			}
		case m := <-h.join:
			h.addToRoom(m.client, m.room)
			h.log.Debug().Str("user_id", m.client.UserID).Str("room", m.room).Msg("joined room")
		case m := <-h.leave:
			h.removeFromRoom(m.client, m.room)
			h.log.Debug().Str("user_id", m.client.UserID).Str("room", m.room).Msg("left room")
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Broadcast fans event out to every connection in room. Fire-and-forget:
// marshal failures are logged and dropped, and a full hub queue discards the
// event rather than blocking the caller.
func (h *Hub) Broadcast(room, event string, payload any) {
	data, err := json.Marshal(frame{Event: event, Data: payload})
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("failed to marshal event")
		return
	}
	select {
	case h.broadcast <- roomMessage{room: room, event: event, payload: data}:
	default:
		h.log.Warn().Str("event", event).Msg("broadcast queue full, event dropped")
	}
}

func (h *Hub) deliver(msg roomMessage) {
	members := h.rooms[msg.room]
	for c := range members {
		select {
		case c.send <- msg.payload:
			metrics.EventsBroadcastTotal.WithLabelValues(msg.event).Inc()
		default:
			// Slow consumer: drop the connection, never block the hub.
			h.drop(c)
			metrics.ConnectionsActive.Dec()
			h.log.Warn().Str("user_id", c.UserID).Msg("client send buffer full, dropping connection")
		}
	}
}

func (h *Hub) addToRoom(c *Client, room string) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	c.roomSet[room] = struct{}{}
}

func (h *Hub) removeFromRoom(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.roomSet, room)
}

// drop removes c from every room and closes its send channel, which ends
// the write pump.
func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	for room := range c.roomSet {
		h.removeFromRoom(c, room)
	}
	delete(h.clients, c)
	close(c.send)
}
