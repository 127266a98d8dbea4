package match

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/duel-backend/testing/fake"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type caroFrame struct {
	Type     string     `json:"type"`
	Symbol   string     `json:"symbol"`
	Message  string     `json:"message"`
	Username string     `json:"username"`
	State    *CaroState `json:"state"`
}

type rpsFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type roundResultFrame struct {
	Round     int             `json:"round"`
	Winner    *string         `json:"winner"`
	P1        RPSPlayerResult `json:"p1"`
	P2        RPSPlayerResult `json:"p2"`
	OutcomeP1 string          `json:"outcome_p1"`
	OutcomeP2 string          `json:"outcome_p2"`
}

func lastCaro(t *testing.T, transport *fake.Transport, msgType string) caroFrame {
	t.Helper()

	var frame caroFrame
	transport.WaitType(t, msgType, &frame)

	return frame
}

func lastRPS(t *testing.T, transport *fake.Transport, msgType string, data any) {
	t.Helper()

	var frame rpsFrame
	transport.WaitType(t, msgType, &frame)

	if data != nil {
		require.NoError(t, json.Unmarshal(frame.Data, data))
	}
}
