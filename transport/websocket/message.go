package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const closeTimeout = time.Second

// Message is the common head of every inbound frame.
type Message struct {
	Type string `json:"type"`
}

type joinPayload struct {
	Username string `json:"username" validate:"max=32"`
}

type movePayload struct {
	Row *int `json:"row" validate:"required"`
	Col *int `json:"col" validate:"required"`
}

type chatPayload struct {
	Message string `json:"message" validate:"required,max=500"`
}

// transport adapts a websocket connection to the registry. Only the registry writer
// calls it, which keeps gorilla's single-writer rule.
type transport struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func (that *transport) Send(data []byte) error {
	if that.writeTimeout > 0 {
		if err := that.conn.SetWriteDeadline(time.Now().Add(that.writeTimeout)); err != nil {
			return err
		}
	}

	return that.conn.WriteMessage(websocket.TextMessage, data)
}

func (that *transport) Close() error {
	timeout := that.writeTimeout
	if timeout <= 0 {
		timeout = closeTimeout
	}

	deadline := time.Now().Add(timeout)
	_ = that.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)

	return that.conn.Close()
}
