package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"GlobeTalk/logger"
)

const writeDeadline = 5 * time.Second

// Client is one live connection bound to exactly one user identity.
// Outbound frames go through Send and are written by a single writer goroutine.
type Client struct {
	ConnID   string // unique within the local gateway
	UserID   string
	Name     string
	Language string

	WS   *websocket.Conn
	Send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(connID, userID, name, language string, ws *websocket.Conn, queue int) *Client {
	if queue <= 0 {
		queue = 64
	}
	return &Client{
		ConnID:   connID,
		UserID:   userID,
		Name:     name,
		Language: language,
		WS:       ws,
		Send:     make(chan []byte, queue),
		done:     make(chan struct{}),
	}
}

// Push enqueues a frame without blocking. A full queue (slow client) or an
// already-closed connection drops the frame; delivery is best-effort.
func (c *Client) Push(frame []byte) bool {
	if frame == nil {
		return false
	}
	select {
	case c.Send <- frame:
		return true
	default:
		return false
	}
}

// WritePump drains Send onto the socket until the connection closes.
func (c *Client) WritePump() {
	defer c.Close()
	for {
		select {
		case <-c.done:
			return
		case b := <-c.Send:
			if err := c.WS.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				return
			}
			if err := c.WS.WriteMessage(websocket.TextMessage, b); err != nil {
				logger.Infof("[WS] write err user=%s conn=%s: %v", c.UserID, c.ConnID, err)
				return
			}
		}
	}
}

// Close tears the connection down once; later pushes become no-ops.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.WS != nil {
			_ = c.WS.Close()
		}
	})
}
