package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client is one authenticated realtime connection. Outbound frames go
// through a bounded queue drained by writePump, so a slow peer never blocks
// the sender.
type Client struct {
	conn         *websocket.Conn
	info         ConnInfo
	send         chan []byte
	done         chan struct{}
	closeOnce    sync.Once
	writeTimeout time.Duration
}

func newClient(conn *websocket.Conn, info ConnInfo, buffer int, writeTimeout time.Duration) *Client {
	if buffer <= 0 {
		buffer = 1
	}
	return &Client{
		conn:         conn,
		info:         info,
		send:         make(chan []byte, buffer),
		done:         make(chan struct{}),
		writeTimeout: writeTimeout,
	}
}

// UserID is the authenticated identity bound to the connection.
func (c *Client) UserID() string {
	return c.info.UserID
}

// enqueue never blocks. It reports false when the client is closed or its
// queue is full.
func (c *Client) enqueue(payload []byte) (ok bool, reason string) {
	select {
	case <-c.done:
		return false, "closed"
	default:
	}
	select {
	case c.send <- payload:
		return true, ""
	default:
		return false, "buffer_full"
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
