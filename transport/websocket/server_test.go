package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/duel-backend/internal/config"
	"github.com/rocketscienceinc/duel-backend/internal/match"
)

type frame struct {
	Type    string          `json:"type"`
	Symbol  string          `json:"symbol"`
	Message string          `json:"message"`
	State   json.RawMessage `json:"state"`
}

func newTestServer(t *testing.T) (*httptest.Server, *match.CaroSession) {
	t.Helper()

	return newTestServerWith(t, config.WebSocket{ReadLimit: 4096, WriteTimeout: time.Second})
}

func newTestServerWith(t *testing.T, conf config.WebSocket) (*httptest.Server, *match.CaroSession) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	session := match.NewCaroSession(logger, 64, nil)
	server := New(logger, session, conf)

	ctx, cancel := context.WithCancel(context.Background())
	httpServer := httptest.NewServer(server.Handler(ctx))

	t.Cleanup(func() {
		cancel()
		session.Close()
		httpServer.Close()
	})

	return httpServer, session
}

func dial(t *testing.T, httpServer *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, body string) {
	t.Helper()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(body)))
}

// readUntil skips frames until one of msgType arrives.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) frame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %q", msgType)

		var got frame
		require.NoError(t, json.Unmarshal(data, &got))
		if got.Type == msgType {
			return got
		}
	}
}

func TestServer_Relay(t *testing.T) {
	t.Run("Two clients join and play", func(t *testing.T) {
		// Given: a running relay and two clients
		httpServer, session := newTestServer(t)
		alice := dial(t, httpServer, "/ws")
		bob := dial(t, httpServer, "/ws/caro/client-42")

		// When: both join and X moves
		send(t, alice, `{"type":"join","username":"alice"}`)
		assert.Equal(t, "X", readUntil(t, alice, match.TypePlayerAssigned).Symbol)
		send(t, bob, `{"type":"join","username":"bob"}`)
		assert.Equal(t, "O", readUntil(t, bob, match.TypePlayerAssigned).Symbol)
		send(t, alice, `{"type":"move","row":0,"col":0}`)

		// Then: bob sees the move
		moved := readUntil(t, bob, match.TypeMoveMade)
		assert.Equal(t, "alice (X) played at (1, 1)", moved.Message)
		assert.Equal(t, "X", session.Snapshot().Board[0][0])
	})

	t.Run("Zero write timeout means no deadline", func(t *testing.T) {
		// Given: a relay configured without a write timeout
		httpServer, _ := newTestServerWith(t, config.WebSocket{ReadLimit: 4096})
		alice := dial(t, httpServer, "/ws")

		// When: joining
		send(t, alice, `{"type":"join","username":"alice"}`)

		// Then: the replies are still written
		assert.Equal(t, "X", readUntil(t, alice, match.TypePlayerAssigned).Symbol)
		readUntil(t, alice, match.TypeGameState)
	})

	t.Run("Sockets that have not joined watch the board", func(t *testing.T) {
		// Given: a watcher that never joins
		httpServer, _ := newTestServer(t)
		watcher := dial(t, httpServer, "/ws")
		alice := dial(t, httpServer, "/ws")
		bob := dial(t, httpServer, "/ws")

		// When: two players join and X moves
		send(t, alice, `{"type":"join","username":"alice"}`)
		readUntil(t, alice, match.TypeGameState)
		send(t, bob, `{"type":"join","username":"bob"}`)
		readUntil(t, alice, match.TypeGameState)
		send(t, alice, `{"type":"move","row":2,"col":3}`)

		// Then: the watcher sees the move
		assert.Equal(t, "alice (X) played at (3, 4)", readUntil(t, watcher, match.TypeMoveMade).Message)
	})

	t.Run("Bad frames are answered and the connection stays open", func(t *testing.T) {
		// Given: a joined client
		httpServer, _ := newTestServer(t)
		alice := dial(t, httpServer, "/ws")
		send(t, alice, `{"type":"join","username":"alice"}`)
		readUntil(t, alice, match.TypeGameState)

		// When / Then: each bad frame gets its own error
		send(t, alice, `{not json`)
		assert.Equal(t, msgMalformed, readUntil(t, alice, match.TypeError).Message)

		send(t, alice, `{"type":"dance"}`)
		assert.Equal(t, msgUnknownType, readUntil(t, alice, match.TypeError).Message)

		send(t, alice, `{"type":"move","row":3}`)
		assert.Equal(t, "Missing col", readUntil(t, alice, match.TypeError).Message)

		send(t, alice, `{"type":"chat","message":"still here"}`)
		assert.Equal(t, "still here", readUntil(t, alice, match.TypeChatMessage).Message)
	})

	t.Run("Closing a socket notifies the others", func(t *testing.T) {
		// Given: two joined clients
		httpServer, _ := newTestServer(t)
		alice := dial(t, httpServer, "/ws")
		bob := dial(t, httpServer, "/ws")
		send(t, alice, `{"type":"join","username":"alice"}`)
		readUntil(t, alice, match.TypeGameState)
		send(t, bob, `{"type":"join","username":"bob"}`)
		readUntil(t, bob, match.TypeGameState)

		// When: alice disconnects
		require.NoError(t, alice.Close())

		// Then: bob is told and gets a reset board
		assert.Equal(t, "alice left the game", readUntil(t, bob, match.TypePlayerLeft).Message)
		readUntil(t, bob, match.TypeGameReset)
	})
}
