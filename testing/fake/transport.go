package fake

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

// Transport records every frame written to it. Sends can be made to fail or to block.
type Transport struct {
	mu      sync.Mutex
	frames  [][]byte
	closed  bool
	sendErr error
	gate    chan struct{}
}

func NewTransport() *Transport {
	return &Transport{}
}

func (that *Transport) Send(data []byte) error {
	that.mu.Lock()
	gate := that.gate
	that.mu.Unlock()

	if gate != nil {
		<-gate
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.sendErr != nil {
		return that.sendErr
	}

	that.frames = append(that.frames, append([]byte(nil), data...))

	return nil
}

func (that *Transport) Close() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closed = true

	return nil
}

// FailWith makes every following Send return err.
func (that *Transport) FailWith(err error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sendErr = err
}

// Block holds every Send until Unblock is called.
func (that *Transport) Block() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.gate = make(chan struct{})
}

func (that *Transport) Unblock() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.gate != nil {
		close(that.gate)
		that.gate = nil
	}
}

func (that *Transport) Closed() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.closed
}

func (that *Transport) Frames() [][]byte {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([][]byte(nil), that.frames...)
}

// Types returns the "type" field of every recorded frame.
func (that *Transport) Types() []string {
	frames := that.Frames()

	types := make([]string, 0, len(frames))
	for _, frame := range frames {
		var head struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(frame, &head)
		types = append(types, head.Type)
	}

	return types
}

// WaitFrames blocks until at least n frames were recorded.
func (that *Transport) WaitFrames(tb testing.TB, n int) [][]byte {
	tb.Helper()

	require.Eventually(tb, func() bool {
		return len(that.Frames()) >= n
	}, waitTimeout, 5*time.Millisecond, "expected %d frames, got types %v", n, that.Types())

	return that.Frames()
}

// WaitType blocks until a frame of the given type was recorded and decodes the last one into v.
func (that *Transport) WaitType(tb testing.TB, msgType string, v any) {
	tb.Helper()

	var found []byte
	require.Eventually(tb, func() bool {
		found = that.lastOfType(msgType)
		return found != nil
	}, waitTimeout, 5*time.Millisecond, "no %q frame, got types %v", msgType, that.Types())

	if v != nil {
		require.NoError(tb, json.Unmarshal(found, v))
	}
}

func (that *Transport) WaitClosed(tb testing.TB) {
	tb.Helper()

	require.Eventually(tb, that.Closed, waitTimeout, 5*time.Millisecond, "transport was not closed")
}

// Count returns how many recorded frames have the given type.
func (that *Transport) Count(msgType string) int {
	count := 0
	for _, t := range that.Types() {
		if t == msgType {
			count++
		}
	}

	return count
}

func (that *Transport) lastOfType(msgType string) []byte {
	frames := that.Frames()
	types := that.Types()

	for i := len(types) - 1; i >= 0; i-- {
		if i < len(frames) && types[i] == msgType {
			return frames[i]
		}
	}

	return nil
}
