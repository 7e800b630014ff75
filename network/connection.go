// network/connection.go
package network

import (
	"net"
	"sync"

	"github.com/gorilla/websocket"
)

// Connection abstracts the transport a session writes documents to. The
// wire format is one JSON document per websocket text frame.
type Connection interface {
	Send(doc interface{}) error
	Read() ([]byte, error)
	Close() error
	RemoteAddr() net.Addr
}

type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

// Send marshals doc and writes it as one frame. The mutex keeps frames from
// interleaving when a broadcast and a direct send race on the same socket;
// it also makes per-player delivery order FIFO.
func (c *WSConnection) Send(doc interface{}) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	return c.conn.WriteJSON(doc)
}

func (c *WSConnection) Read() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
