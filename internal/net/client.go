package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SignaturePad/internal/record"
)

var ErrRejected = errors.New("signature rejected by host")

const submitTimeout = 15 * time.Second

// Client is a capture station's connection to a host.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Dial connects to the relay at addr ("host:port").
func Dial(ctx context.Context, addr string) (*Client, error) {
	url := "ws://" + addr + Endpoint
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Submit sends sig and waits for the host's acknowledgement.
func (c *Client) Submit(ctx context.Context, sig record.Signature) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(submitTimeout)
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("setting write deadline: %w", err)
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("setting read deadline: %w", err)
	}

	if err := c.conn.WriteJSON(Message{Type: MsgSignature, Record: &sig}); err != nil {
		return fmt.Errorf("sending signature: %w", err)
	}
	var reply Message
	if err := c.conn.ReadJSON(&reply); err != nil {
		return fmt.Errorf("waiting for ack: %w", err)
	}
	switch {
	case reply.Type == MsgAck && reply.ID == sig.ID:
		return nil
	case reply.Type == MsgError:
		return fmt.Errorf("%w: %s", ErrRejected, reply.Error)
	default:
		return fmt.Errorf("unexpected reply %q for %s", reply.Type, sig.ID)
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		log.Printf("[CLIENT] Close frame to host: %v", err)
	}
	return c.conn.Close()
}
