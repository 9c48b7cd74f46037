package relay

import (
	"github.com/mcoot/vstetris/internal/model"
)

// Client is one connection's mailbox on the hub
type Client struct {
	conn model.Connection
	send chan []byte
}

// NewClient creates a client with a buffered outgoing queue
func NewClient(conn model.Connection, sendBufferSize int) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// ID returns the connection ID
func (c *Client) ID() model.ConnID {
	return c.conn.ID
}

// Send returns the outgoing queue. It is closed when the hub drops the client.
func (c *Client) Send() <-chan []byte {
	return c.send
}
