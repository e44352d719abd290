package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/issuedesk/issuedesk/internal/core/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// controlMessage is the only client-to-server payload: issue room membership.
type controlMessage struct {
	Type    string `json:"type"`
	IssueID string `json:"issue_id"`
}

// Client is one authenticated realtime connection. Its lifecycle is
// Connecting (handshake) -> Authenticated (registered, personal + general
// rooms joined) -> Joined (optional issue rooms) -> Disconnected.
type Client struct {
	UserID string
	Role   domain.Role

	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// roomSet is owned by the hub run loop; the client never touches it.
	roomSet map[string]struct{}
}

func newClient(hub *Hub, conn *websocket.Conn, user *domain.User) *Client {
	return &Client{
		UserID:  user.ID,
		Role:    user.Role,
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		roomSet: make(map[string]struct{}),
	}
}

// readPump consumes control messages until the connection drops. Joining an
// issue room needs no authorization: issue reads are open to every
// authenticated user.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg controlMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.IssueID == "" {
			continue
		}

		switch msg.Type {
		case domain.MsgJoinIssue:
			c.hub.join <- membership{client: c, room: domain.IssueRoom(msg.IssueID)}
		case domain.MsgLeaveIssue:
			c.hub.leave <- membership{client: c, room: domain.IssueRoom(msg.IssueID)}
		}
	}
}

// writePump forwards hub frames to the socket and keeps the connection alive
// with pings. It exits when the hub closes the send channel.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
