package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection wraps one websocket client. Reads and writes run on
// their own pumps; SendMessage never blocks the caller.
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Message
	registry  *Registry
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu       sync.RWMutex
	playerID string
	tableID  string
}

// NewConnection wraps an upgraded websocket
func NewConnection(conn *websocket.Conn, registry *Registry, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	return &Connection{
		id:       id,
		conn:     conn,
		send:     make(chan *Message, 256),
		registry: registry,
		logger:   logger.WithPrefix("conn").With("conn", id[:8]),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the read and write pumps
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close tears the connection down. Safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client, dropping the
// connection if its buffer is full
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Send channel closed during shutdown
			c.logger.Debug("send on closed connection", "err", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) setIdentity(playerID, tableID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
	c.tableID = tableID
}

func (c *Connection) identity() (playerID, tableID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID, c.tableID
}

func (c *Connection) readPump() {
	defer func() {
		c.registry.DisconnectEverywhere(c)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "err", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("failed to write message", "err", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "malformed join data")
			return
		}
		c.handleJoin(data)

	case MessageTypeLeave:
		var data LeaveData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "malformed leave data")
			return
		}
		c.handleLeave(data)

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "malformed action data")
			return
		}
		c.handleAction(data)

	case MessageTypeState:
		c.handleStateRequest()

	default:
		c.sendError("unknown_message_type", "unknown message type: "+string(msg.Type))
	}
}

func (c *Connection) handleJoin(data JoinData) {
	room, ok := c.registry.Get(data.TableID)
	if !ok {
		c.sendError("table_not_found", "no such table: "+data.TableID)
		return
	}
	if data.PlayerName == "" {
		c.sendError("invalid_join", "player name required")
		return
	}
	playerID := data.PlayerID
	if playerID == "" {
		playerID = uuid.NewString()
	}
	c.setIdentity(playerID, data.TableID)
	room.Join(c, playerID, data.PlayerName, data.BuyIn)
}

func (c *Connection) handleLeave(data LeaveData) {
	playerID, tableID := c.identity()
	if data.TableID != "" {
		tableID = data.TableID
	}
	if playerID == "" {
		c.sendError("not_seated", "join a table first")
		return
	}
	room, ok := c.registry.Get(tableID)
	if !ok {
		c.sendError("table_not_found", "no such table: "+tableID)
		return
	}
	room.Leave(playerID)
	c.setIdentity("", "")
}

func (c *Connection) handleAction(data ActionData) {
	playerID, tableID := c.identity()
	if playerID == "" {
		c.sendError("not_seated", "join a table first")
		return
	}
	room, ok := c.registry.Get(tableID)
	if !ok {
		c.sendError("table_not_found", "no such table: "+tableID)
		return
	}
	room.Act(playerID, data.Action, data.Amount)
}

func (c *Connection) handleStateRequest() {
	playerID, tableID := c.identity()
	room, ok := c.registry.Get(tableID)
	if !ok {
		c.sendError("table_not_found", "join or watch a table first")
		return
	}
	room.RequestState(c, playerID)
}

func (c *Connection) sendError(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("failed to create error message", "err", err)
		return
	}
	_ = c.SendMessage(msg)
}
