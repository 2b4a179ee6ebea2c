package websocket

import (
	"sync"

	"github.com/anjiri1684/corporate_training/utils"
	"github.com/sirupsen/logrus"
)

const (
	TypeChatMessage  = "chat_message"
	TypeNotification = "notification"
	TypeError        = "error"

	clientQueueSize = 32
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client owns one connection. Every frame goes through its queue and is
// written by WritePump, the only goroutine that writes to the connection.
type Client struct {
	UserID uint
	conn   Conn

	mu     sync.Mutex
	closed bool
	send   chan interface{}
	done   chan struct{}
}

func NewClient(userID uint, conn Conn) *Client {
	return &Client{
		UserID: userID,
		conn:   conn,
		send:   make(chan interface{}, clientQueueSize),
		done:   make(chan struct{}),
	}
}

// Envelope is the frame written to connected clients.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Send queues a frame without blocking. It reports false when the client
// is closed or its queue is full.
func (c *Client) Send(frame interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		utils.Log.WithField("user_id", c.UserID).Warn("websocket client queue full, dropping frame")
		return false
	}
}

// WritePump writes queued frames until the client is closed. After a write
// error the connection is closed and the remaining frames are discarded.
func (c *Client) WritePump() {
	defer close(c.done)
	broken := false
	for frame := range c.send {
		if broken {
			continue
		}
		if err := c.conn.WriteJSON(frame); err != nil {
			utils.Log.WithField("user_id", c.UserID).WithError(err).Warn("websocket write failed, closing connection")
			c.conn.Close()
			broken = true
		}
	}
}

// Done is closed once WritePump has returned.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

type delivery struct {
	userID   uint
	envelope Envelope
}

var clients = make(map[uint]*Client)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var deliveries = make(chan delivery, 256)

// Push queues a frame for userID. Users without an open connection miss it;
// the caller is expected to have persisted whatever the frame carries.
func Push(userID uint, kind string, data interface{}) {
	select {
	case deliveries <- delivery{userID: userID, envelope: Envelope{Type: kind, Data: data}}:
	default:
		utils.Log.WithField("user_id", userID).Warn("websocket delivery queue full, dropping frame")
	}
}

// Online reports whether the user currently holds a connection.
func Online(userID uint) bool {
	clientsMu.RLock()
	defer clientsMu.RUnlock()
	_, ok := clients[userID]
	return ok
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			register(client)
		case client := <-Unregister:
			unregister(client)
		case d := <-deliveries:
			deliver(d)
		}
	}
}

// register replaces any older connection of the same user.
func register(client *Client) {
	utils.Log.WithField("user_id", client.UserID).Debug("websocket client registered")
	clientsMu.Lock()
	old, ok := clients[client.UserID]
	clients[client.UserID] = client
	clientsMu.Unlock()

	if ok && old != client {
		old.close()
		old.conn.Close()
	}
}

func unregister(client *Client) {
	utils.Log.WithField("user_id", client.UserID).Debug("websocket client unregistered")
	clientsMu.Lock()
	if current, ok := clients[client.UserID]; ok && current == client {
		delete(clients, client.UserID)
	}
	clientsMu.Unlock()
	client.close()
}

func deliver(d delivery) {
	clientsMu.RLock()
	client, ok := clients[d.userID]
	clientsMu.RUnlock()
	if !ok {
		return
	}
	if !client.Send(d.envelope) {
		utils.Log.WithFields(logrus.Fields{"user_id": d.userID, "type": d.envelope.Type}).Debug("websocket frame not queued")
	}
}
