package match

import (
	"context"
	"errors"
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

// RPSSession coordinates rock-paper-scissors rounds between exactly two players.
// A resolved round is followed by the next one after roundDelay.
type RPSSession struct {
	logger     *slog.Logger
	recorder   resultRecorder
	roundDelay time.Duration

	mu         sync.Mutex
	registry   *registry.Registry
	notifier   *notify.Notifier
	match      *entity.RPSMatch
	nextRound  *time.Timer
	generation uint64
	closed     bool
}

// NewRPSSession - recorder may be nil when results are not archived.
func NewRPSSession(logger *slog.Logger, queueSize int, roundDelay time.Duration, recorder resultRecorder) *RPSSession {
	logger = logger.With("component", "rps")
	reg := registry.New(false, queueSize)

	session := &RPSSession{
		logger:     logger,
		recorder:   recorder,
		roundDelay: roundDelay,
		registry:   reg,
		notifier:   notify.New(logger, reg, notify.Joined),
		match:      entity.NewRPSMatch(),
	}

	reg.OnSendFailure(func(id uuid.UUID) {
		session.Disconnect(context.Background(), id)
	})

	return session
}

func (that *RPSSession) Connect(transport registry.Transport) uuid.UUID {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.registry.Register(transport)
}

// Join - seats the connection. With both seats taken the connection gets "Server full"
// and is closed; the match is left as it was.
func (that *RPSSession) Join(ctx context.Context, id uuid.UUID, name string) error {
	log := that.logger.With("method", "Join", "connection", id)

	if name == "" {
		name = fmt.Sprintf("Player%d", time.Now().Unix())
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	role, err := that.registry.AssignRole(id, name)
	if errors.Is(err, apperror.ErrCapacityExceeded) {
		that.notifier.NotifyOne(id, errorEnvelope(MsgServerFull))
		that.registry.Deactivate(id)
		log.InfoContext(ctx, "rejected, match is full", "name", name)

		return fmt.Errorf("failed to assign role: %w", err)
	}

	if err != nil {
		that.notifier.NotifyOne(id, errorEnvelope(err.Error()))
		return fmt.Errorf("failed to assign role: %w", err)
	}

	that.notifier.NotifyOne(id, envelope{Type: TypeJoinAck, Data: joinAckData{PlayerIndex: role.Seat() + 1, Message: MsgJoined}})
	that.notifier.NotifyAll(envelope{Type: TypePlayers, Data: playersData{Players: that.registry.ActiveNames()}}, uuid.Nil)

	log.InfoContext(ctx, "joined", "name", name, "role", role.String())

	if that.registry.PrimaryCount() == 2 && that.match.Status == entity.StatusWaiting {
		that.startRoundLocked()
	}

	return nil
}

func (that *RPSSession) Move(ctx context.Context, id uuid.UUID, move string) error {
	log := that.logger.With("method", "Move", "connection", id)

	that.mu.Lock()

	conn, ok := that.registry.Lookup(id)
	if !ok {
		that.mu.Unlock()
		return apperror.ErrUnknownConnection
	}

	if !conn.Role.IsPrimary() {
		that.notifier.NotifyOne(id, errorEnvelope(MsgExpectedJoin))
		that.mu.Unlock()

		return apperror.ErrNotJoined
	}

	round, err := that.submitLocked(conn.Role.Seat(), move)
	if err != nil {
		that.notifier.NotifyOne(id, errorEnvelope(rpsErrorMessage(err)))
		that.mu.Unlock()

		return fmt.Errorf("failed to submit move: %w", err)
	}

	log.DebugContext(ctx, "move submitted", "name", conn.Name)

	if round == nil {
		that.mu.Unlock()
		return nil
	}

	result := that.announceLocked(round)
	that.scheduleNextRoundLocked()
	that.mu.Unlock()

	saveResult(ctx, that.logger, that.recorder, result)

	return nil
}

// Disconnect - runs on transport loss or quit. A pending round start is cancelled and the
// match goes back to waiting with both scores cleared.
func (that *RPSSession) Disconnect(ctx context.Context, id uuid.UUID) {
	log := that.logger.With("method", "Disconnect", "connection", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	conn, ok := that.registry.Lookup(id)
	if !ok {
		return
	}

	name, role := conn.Name, conn.Role
	if !that.registry.Deactivate(id) || !role.IsPrimary() {
		return
	}

	that.cancelNextRoundLocked()
	that.notifier.NotifyAll(envelope{Type: TypeOpponentLeft, Data: messageData{Message: name + " left"}}, uuid.Nil)

	that.match.Reset()
	that.notifier.NotifyAll(envelope{Type: TypePlayers, Data: playersData{Players: that.registry.ActiveNames()}}, uuid.Nil)

	log.InfoContext(ctx, "left", "name", name)
}

// Reject - answers a protocol error and closes the connection.
func (that *RPSSession) Reject(id uuid.UUID, message string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.notifier.NotifyOne(id, errorEnvelope(message))

	if conn, ok := that.registry.Lookup(id); ok && !conn.IsJoined() {
		that.registry.Deactivate(id)
	}
}

// ReportError - answers a protocol error; the connection stays open.
func (that *RPSSession) ReportError(id uuid.UUID, message string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.notifier.NotifyOne(id, errorEnvelope(message))
}

func (that *RPSSession) Snapshot() RPSState {
	that.mu.Lock()
	defer that.mu.Unlock()

	state := RPSState{
		Round:   that.match.Round,
		Status:  that.match.Status,
		Players: make([]RPSPlayer, 0, 2),
	}

	for _, role := range []registry.Role{registry.PrimaryA, registry.PrimaryB} {
		if conn, ok := that.registry.Primary(role); ok {
			seat := role.Seat()
			state.Players = append(state.Players, RPSPlayer{
				Name:      conn.Name,
				Score:     that.match.Scores[seat],
				Submitted: that.match.Submitted(seat),
			})
		}
	}

	return state
}

// Close - cancels the pending round start and drops every connection.
func (that *RPSSession) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closed = true
	that.cancelNextRoundLocked()

	for _, id := range that.registry.IDs() {
		that.registry.Deactivate(id)
	}
}

func (that *RPSSession) submitLocked(seat int, move string) (*entity.RoundResult, error) {
	symbol, err := entity.ParseSymbol(move)
	if err != nil {
		return nil, err
	}

	return that.match.Submit(seat, symbol)
}

func (that *RPSSession) startRoundLocked() {
	that.cancelNextRoundLocked()

	round := that.match.StartRound()
	that.notifier.NotifyAll(envelope{Type: TypeStartRound, Data: startRoundData{
		Round:   round,
		Message: fmt.Sprintf("Round %d - choose your move", round),
	}}, uuid.Nil)
}

func (that *RPSSession) announceLocked(round *entity.RoundResult) *entity.MatchResult {
	a, _ := that.registry.Primary(registry.PrimaryA)
	b, _ := that.registry.Primary(registry.PrimaryB)
	names := [2]string{a.Name, b.Name}

	data := roundResultData{
		Round:     round.Round,
		P1:        RPSPlayerResult{Name: names[entity.SeatA], Move: round.Moves[entity.SeatA], Score: round.Scores[entity.SeatA]},
		P2:        RPSPlayerResult{Name: names[entity.SeatB], Move: round.Moves[entity.SeatB], Score: round.Scores[entity.SeatB]},
		OutcomeP1: round.OutcomeA,
		OutcomeP2: round.OutcomeB,
	}

	result := &entity.MatchResult{
		Game:       entity.GameRPS,
		Players:    names[:],
		Outcome:    string(entity.OutcomeTie),
		Round:      round.Round,
		Moves:      len(round.Moves),
		FinishedAt: time.Now().UTC(),
	}

	if round.WinnerIdx >= 0 {
		winner := names[round.WinnerIdx]
		data.Winner = &winner
		result.Winner = winner
		result.Outcome = string(entity.OutcomeWin)
	}

	that.notifier.NotifyAll(envelope{Type: TypeRoundResult, Data: data}, uuid.Nil)

	return result
}

func (that *RPSSession) scheduleNextRoundLocked() {
	that.cancelNextRoundLocked()

	generation := that.generation
	that.nextRound = time.AfterFunc(that.roundDelay, func() {
		that.startScheduledRound(generation)
	})
}

// startScheduledRound ignores timers that were cancelled after they had already fired.
func (that *RPSSession) startScheduledRound(generation uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed || generation != that.generation {
		return
	}

	that.nextRound = nil

	if that.registry.PrimaryCount() == 2 {
		that.startRoundLocked()
	}
}

func (that *RPSSession) cancelNextRoundLocked() {
	that.generation++

	if that.nextRound != nil {
		that.nextRound.Stop()
		that.nextRound = nil
	}
}

func rpsErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrInvalidMove):
		return MsgInvalidMove
	case errors.Is(err, apperror.ErrMoveAlreadySubmitted):
		return MsgAlreadySubmitted
	case errors.Is(err, apperror.ErrGameIsNotStarted), errors.Is(err, apperror.ErrGameFinished):
		return MsgRoundNotInProgress
	default:
		return err.Error()
	}
}
