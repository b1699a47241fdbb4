package chathub

import (
	"sync"
	"time"

	"penpost/backend/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// WSClient implements Client over a gorilla/websocket connection, with the
// usual read/write pump pair: the read pump owns inbound frames and protocol
// dispatch, the write pump owns every write to the socket including pings.
type WSClient struct {
	userID string
	conn   *websocket.Conn
	send   chan models.ServerEvent
	log    *zap.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

func NewWSClient(userID string, conn *websocket.Conn, log *zap.Logger) *WSClient {
	return &WSClient{
		userID: userID,
		conn:   conn,
		send:   make(chan models.ServerEvent, sendBufferSize),
		log:    log,
		closed: make(chan struct{}),
	}
}

func (c *WSClient) UserID() string { return c.userID }

// Send queues an event without blocking. A consumer that cannot keep up
// within its buffer is reported as failed rather than stalling the sender.
func (c *WSClient) Send(ev models.ServerEvent) error {
	select {
	case <-c.closed:
		return ErrClientGone
	default:
	}
	select {
	case c.send <- ev:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close signals both pumps to stop. Safe to call more than once.
func (c *WSClient) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// Run starts the write pump and blocks in the read pump until the
// connection drops. Teardown on the handler runs before Run returns.
func (c *WSClient) Run(h SessionHandler) {
	go c.writePump()
	c.readPump(h)
}

func (c *WSClient) readPump(h SessionHandler) {
	defer func() {
		h.Teardown()
		c.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read failed", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}
		if err := h.HandleFrame(raw); err != nil {
			c.log.Error("closing connection after frame handling failure",
				zap.String("user_id", c.userID), zap.Error(err))
			return
		}
	}
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.closed:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}
