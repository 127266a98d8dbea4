package match

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/duel-backend/internal/apperror"
	"github.com/rocketscienceinc/duel-backend/internal/entity"
	"github.com/rocketscienceinc/duel-backend/internal/notify"
	"github.com/rocketscienceinc/duel-backend/internal/registry"
)

const (
	defaultCaroName = "Player"
	unknownCaroName = "Unknown"
)

// CaroSession coordinates one five-in-a-row board shared by two players and any number
// of spectators.
type CaroSession struct {
	logger   *slog.Logger
	recorder resultRecorder

	mu       sync.Mutex
	registry *registry.Registry
	notifier *notify.Notifier
	game     *entity.CaroGame
}

// NewCaroSession - recorder may be nil when results are not archived.
func NewCaroSession(logger *slog.Logger, queueSize int, recorder resultRecorder) *CaroSession {
	logger = logger.With("component", "caro")
	reg := registry.New(true, queueSize)

	session := &CaroSession{
		logger:   logger,
		recorder: recorder,
		registry: reg,
		notifier: notify.New(logger, reg, notify.Everyone),
		game:     entity.NewCaroGame(),
	}

	reg.OnSendFailure(func(id uuid.UUID) {
		session.Disconnect(context.Background(), id)
	})

	return session
}

func (that *CaroSession) Connect(transport registry.Transport) uuid.UUID {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.registry.Register(transport)
}

func (that *CaroSession) Join(ctx context.Context, id uuid.UUID, username string) error {
	log := that.logger.With("method", "Join", "connection", id)

	if username == "" {
		username = defaultCaroName
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	role, err := that.registry.AssignRole(id, username)
	if err != nil {
		that.notifier.NotifyOne(id, textMessage{Type: TypeError, Message: err.Error()})
		return fmt.Errorf("failed to assign role: %w", err)
	}

	symbol := caroSymbol(role)
	greeting := "You are watching the game!"
	if role.IsPrimary() {
		greeting = fmt.Sprintf("You are %s!", symbol)
	}

	that.notifier.NotifyOne(id, playerAssignedMessage{Type: TypePlayerAssigned, Symbol: symbol, Message: greeting})

	if that.registry.PrimaryCount() == 2 && that.game.IsWaiting() {
		that.game.Start()
		log.InfoContext(ctx, "game started")
	}

	that.notifier.NotifyAll(stateMessage{Type: TypeGameState, State: that.snapshot()}, uuid.Nil)

	log.InfoContext(ctx, "joined", "username", username, "role", role.String())

	return nil
}

func (that *CaroSession) Move(ctx context.Context, id uuid.UUID, row, col int) error {
	log := that.logger.With("method", "Move", "connection", id)

	that.mu.Lock()

	conn, err := that.playerLocked(id)
	if err != nil {
		that.mu.Unlock()
		return err
	}

	mark := caroSymbol(conn.Role)
	if err = that.game.MakeTurn(mark, row, col); err != nil {
		that.notifier.NotifyOne(id, textMessage{Type: TypeError, Message: err.Error()})
		that.mu.Unlock()

		return fmt.Errorf("failed to make turn: %w", err)
	}

	announcement := fmt.Sprintf("%s (%s) played at (%d, %d)", conn.Name, mark, row+1, col+1)

	var result *entity.MatchResult
	if that.game.IsFinished() {
		if that.game.Winner == entity.Draw {
			announcement += " - Draw!"
		} else {
			announcement += fmt.Sprintf(" - %s wins!", conn.Name)
		}
		result = that.resultLocked()
	}

	that.notifier.NotifyAll(stateMessage{Type: TypeMoveMade, State: that.snapshot(), Message: announcement}, uuid.Nil)
	that.mu.Unlock()

	log.DebugContext(ctx, "move accepted", "row", row, "col", col, "mark", mark)

	saveResult(ctx, that.logger, that.recorder, result)

	return nil
}

// Reset - clears the board on request of a seated player. The game restarts at once when
// both seats are filled.
func (that *CaroSession) Reset(ctx context.Context, id uuid.UUID) error {
	log := that.logger.With("method", "Reset", "connection", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, err := that.playerLocked(id); err != nil {
		return err
	}

	that.resetLocked()
	that.notifier.NotifyAll(stateMessage{Type: TypeGameReset, State: that.snapshot()}, uuid.Nil)

	log.InfoContext(ctx, "game reset")

	return nil
}

func (that *CaroSession) Chat(_ context.Context, id uuid.UUID, message string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	conn, ok := that.registry.Lookup(id)
	if !ok {
		return apperror.ErrUnknownConnection
	}

	if !conn.IsJoined() {
		that.notifier.NotifyOne(id, textMessage{Type: TypeError, Message: apperror.ErrNotJoined.Error()})
		return apperror.ErrNotJoined
	}

	that.notifier.NotifyAll(chatMessage{Type: TypeChatMessage, Username: conn.Name, Message: message}, uuid.Nil)

	return nil
}

// Disconnect - runs on transport loss. Losing a seated player resets the board; losing a
// spectator only refreshes everybody's player list. A connection that never joined is
// announced as Unknown.
func (that *CaroSession) Disconnect(ctx context.Context, id uuid.UUID) {
	log := that.logger.With("method", "Disconnect", "connection", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	conn, ok := that.registry.Lookup(id)
	if !ok {
		return
	}

	name, role := conn.Name, conn.Role
	if !that.registry.Deactivate(id) {
		return
	}

	// a connection that never joined has no seat and changes no state
	if role == registry.RoleNone {
		that.notifier.NotifyAll(textMessage{Type: TypePlayerLeft, Message: unknownCaroName + " left the game"}, uuid.Nil)
		log.DebugContext(ctx, "left before joining")
		return
	}

	that.notifier.NotifyAll(textMessage{Type: TypePlayerLeft, Message: name + " left the game"}, uuid.Nil)

	if role.IsPrimary() {
		that.resetLocked()
		that.notifier.NotifyAll(stateMessage{Type: TypeGameReset, State: that.snapshot()}, uuid.Nil)
	} else {
		that.notifier.NotifyAll(stateMessage{Type: TypeGameState, State: that.snapshot()}, uuid.Nil)
	}

	log.InfoContext(ctx, "left", "username", name, "role", role.String())
}

// ReportError - answers a protocol error to the sender only.
func (that *CaroSession) ReportError(id uuid.UUID, message string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.notifier.NotifyOne(id, textMessage{Type: TypeError, Message: message})
}

func (that *CaroSession) Snapshot() CaroState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

// Close - drops every connection. Queued frames are still flushed.
func (that *CaroSession) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, id := range that.registry.IDs() {
		that.registry.Deactivate(id)
	}
}

func (that *CaroSession) playerLocked(id uuid.UUID) (*registry.Connection, error) {
	conn, ok := that.registry.Lookup(id)
	if !ok {
		return nil, apperror.ErrUnknownConnection
	}

	var err error
	switch {
	case !conn.IsJoined():
		err = apperror.ErrNotJoined
	case !conn.Role.IsPrimary():
		err = apperror.ErrNotAPlayer
	default:
		return conn, nil
	}

	that.notifier.NotifyOne(id, textMessage{Type: TypeError, Message: err.Error()})

	return nil, err
}

func (that *CaroSession) resetLocked() {
	that.game.Reset()
	if that.registry.PrimaryCount() == 2 {
		that.game.Start()
	}
}

func (that *CaroSession) snapshot() CaroState {
	game := that.game.Clone()

	state := CaroState{
		Board:         game.Board,
		CurrentPlayer: game.Turn,
		GameOver:      game.IsFinished(),
		Status:        game.Status,
		MoveHistory:   game.History,
		Players:       make(map[string]CaroPlayer),
	}

	if game.IsFinished() {
		winner := game.Winner
		state.Winner = &winner
	}

	for _, conn := range that.registry.Joined() {
		state.Players[conn.ID.String()] = CaroPlayer{Username: conn.Name, Symbol: caroSymbol(conn.Role)}
	}

	return state
}

func (that *CaroSession) resultLocked() *entity.MatchResult {
	result := &entity.MatchResult{
		Game:       entity.GameCaro,
		Outcome:    string(entity.OutcomeTie),
		Moves:      len(that.game.History),
		FinishedAt: time.Now().UTC(),
	}

	for _, role := range []registry.Role{registry.PrimaryA, registry.PrimaryB} {
		conn, ok := that.registry.Primary(role)
		if !ok {
			continue
		}

		result.Players = append(result.Players, conn.Name)
		if caroSymbol(role) == that.game.Winner {
			result.Winner = conn.Name
			result.Outcome = string(entity.OutcomeWin)
		}
	}

	return result
}

func caroSymbol(role registry.Role) string {
	switch role {
	case registry.PrimaryA:
		return entity.PlayerX
	case registry.PrimaryB:
		return entity.PlayerO
	default:
		return entity.Observer
	}
}
