package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"snap-game-server/auth"
	"snap-game-server/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is a middleman between one websocket connection and the hub. Its
// ID is the player's opaque identity for the lifetime of the connection.
type Client struct {
	ID   game.PlayerID
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	// AuthName is the display name taken from the auth token's claims when
	// connection auth is enabled.
	AuthName string

	authed bool
}

// ReadPump pumps messages from the websocket connection to the hub's
// dispatch stream. It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read", "tag", "ws", "err", err)
			}
			break
		}

		if !c.handleMessage(message) {
			break
		}
	}
}

// WritePump pumps messages from the send channel to the websocket
// connection. It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage parses one raw frame and forwards it to the hub. Returns
// false when the connection should close (failed auth handshake).
func (c *Client) handleMessage(data []byte) bool {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return true
	}

	if c.Hub.Config.AuthBaseURL != "" && !c.authed {
		return c.handleAuth(envelope)
	}

	c.Hub.Inbound <- InboundFrame{Client: c, Env: envelope}
	return true
}

// handleAuth runs the one-shot auth handshake: the first message must carry
// a valid token or the connection is closed.
func (c *Client) handleAuth(envelope InboundEnvelope) bool {
	if envelope.Type != "auth" {
		c.sendError("Authentication required.")
		return false
	}
	var msg AuthMsg
	if err := json.Unmarshal(envelope.Raw, &msg); err != nil {
		c.sendError("Invalid auth message.")
		return false
	}
	claims, err := auth.ValidateToken(c.Hub.Config.AuthBaseURL, msg.Token)
	if err != nil {
		slog.Warn("token rejected", "tag", "auth", "err", err)
		c.sendError("Authentication failed.")
		return false
	}
	c.authed = true
	c.AuthName = auth.NameFromClaims(claims)

	data, _ := json.Marshal(AuthOKMsg{Type: "authOk", Name: c.AuthName})
	select {
	case c.Send <- data:
	default:
	}
	return true
}

func (c *Client) sendError(message string) {
	msg := ErrorMsg{Type: "error", Message: message}
	data, _ := json.Marshal(msg)
	select {
	case c.Send <- data:
	default:
	}
}
