package versus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/vstetris/internal/protocol"
)

const writeWait = 10 * time.Second

// Client is a websocket connection to the relay
type Client struct {
	ws       *websocket.Conn
	logger   *slog.Logger
	incoming chan protocol.Envelope

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// Ensure Client implements Transport
var _ Transport = (*Client)(nil)

// Dial connects to the relay websocket at url
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Client, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}
	c := &Client{
		ws:       ws,
		logger:   logger.With(slog.String("component", "relay_client")),
		incoming: make(chan protocol.Envelope, 64),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Send encodes and writes one event
func (c *Client) Send(event string, payload any) error {
	data, err := protocol.Encode(event, payload)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Incoming returns decoded relay messages. It is closed when the socket ends.
func (c *Client) Incoming() <-chan protocol.Envelope {
	return c.incoming
}

// Close says goodbye and closes the socket
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

func (c *Client) readLoop() {
	defer close(c.incoming)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.logger.Debug("relay read ended", slog.String("error", err.Error()))
			return
		}
		env, err := protocol.DecodeEnvelope(data)
		if err != nil {
			c.logger.Debug("ignoring malformed relay message", slog.String("error", err.Error()))
			continue
		}
		select {
		case c.incoming <- env:
		case <-c.done:
			return
		}
	}
}
