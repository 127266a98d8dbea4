package socket

import (
	"encoding/json"
	"net"
	"time"
)

var lineEnd = []byte{'\n'}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type joinPayload struct {
	Name string `json:"name" validate:"max=32"`
}

type movePayload struct {
	Move string `json:"move"`
}

// transport writes one frame per line. The payload slice is shared between recipients
// and must not be modified.
type transport struct {
	conn         net.Conn
	writeTimeout time.Duration
}

func (that *transport) Send(data []byte) error {
	if that.writeTimeout > 0 {
		if err := that.conn.SetWriteDeadline(time.Now().Add(that.writeTimeout)); err != nil {
			return err
		}
	}

	buffers := net.Buffers{data, lineEnd}
	_, err := buffers.WriteTo(that.conn)

	return err
}

func (that *transport) Close() error {
	return that.conn.Close()
}
