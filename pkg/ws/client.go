package ws

import (
	"errors"

	"github.com/gorilla/websocket"
)

// Client pumps a websocket connection through buffered channels so that the
// serve loop never blocks on the transport directly.
type Client struct {
	Conn *websocket.Conn
	R    chan []byte
	W    chan []byte
}

func NewClient(conn *websocket.Conn) *Client {
	if conn == nil {
		return nil
	}

	c := &Client{
		Conn: conn,
		R:    make(chan []byte, 128),
		W:    make(chan []byte, 128),
	}

	go c.runReader()
	go c.runWriter()
	return c
}

func (c *Client) runReader() {
	defer close(c.R)

	for {
		t, msg, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}

		if t == websocket.CloseMessage {
			return
		}

		if t == websocket.TextMessage {
			c.R <- msg
		}
	}
}

func (c *Client) runWriter() {
	for msg := range c.W {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// Write queues msg for delivery. A send on the closed channel of a
// disconnecting client is recovered and reported as an error.
func (c *Client) Write(msg []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("connection is closed")
		}
	}()

	c.W <- msg
	return nil
}

func (c *Client) Close() {
	close(c.W)
	c.Conn.Close()
}
