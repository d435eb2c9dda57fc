package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBufferSize = 256
)

var ErrClientUnavailable = errors.New("client is closed or its send buffer is full")

// MessageHandler receives every inbound frame read from a client.
type MessageHandler interface {
	HandleMessage(ctx context.Context, client *Client, raw []byte)
}

type Client struct {
	ID string

	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	handler MessageHandler
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, handler MessageHandler) *Client {
	id := uuid.NewString()
	return &Client{
		ID:      id,
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		handler: handler,
		logger:  hub.logger.With(slog.String("client_id", id)),
	}
}

// Enqueue queues frame for writing without blocking.
func (c *Client) Enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// SendMessage encodes and queues a single frame for this client only.
func (c *Client) SendMessage(msgType string, data interface{}) error {
	frame, err := Encode(msgType, data)
	if err != nil {
		return err
	}
	if !c.Enqueue(frame) {
		return ErrClientUnavailable
	}
	return nil
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

// ReadPump reads frames until the connection fails and hands each one to the
// client's MessageHandler. Frames are handled one at a time, in order.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		c.logger.Debug("read pump closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("unexpected websocket close", slog.Any("error", err))
			}
			return
		}
		if c.handler != nil {
			c.handler.HandleMessage(ctx, c, message)
		}
	}
}

// WritePump writes queued frames, one websocket message per frame, and keeps
// the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.Debug("write pump closed")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("failed to write frame", slog.Any("error", err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Warn("failed to send ping", slog.Any("error", err))
				return
			}
		}
	}
}
