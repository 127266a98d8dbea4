package entity

import (
	"fmt"

	"github.com/rocketscienceinc/duel-backend/internal/apperror"
)

type Symbol string

const (
	Rock     Symbol = "rock"
	Paper    Symbol = "paper"
	Scissors Symbol = "scissors"
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeTie  Outcome = "tie"
)

const (
	SeatA = 0
	SeatB = 1
)

// beats maps every symbol to the one symbol it defeats.
var beats = map[Symbol]Symbol{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

func ParseSymbol(raw string) (Symbol, error) {
	symbol := Symbol(raw)
	if _, ok := beats[symbol]; !ok {
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidMove, raw)
	}

	return symbol, nil
}

// Determine returns the outcome of a against b from a's point of view.
func Determine(a, b Symbol) Outcome {
	if a == b {
		return OutcomeTie
	}

	if beats[a] == b {
		return OutcomeWin
	}

	return OutcomeLose
}

func (that Outcome) Opposite() Outcome {
	switch that {
	case OutcomeWin:
		return OutcomeLose
	case OutcomeLose:
		return OutcomeWin
	default:
		return OutcomeTie
	}
}

type RoundResult struct {
	Round     int
	Moves     [2]Symbol
	Scores    [2]int
	OutcomeA  Outcome
	OutcomeB  Outcome
	WinnerIdx int // -1 on a tie
}

// RPSMatch is the round state shared by the two seats. A resolved round leaves the
// match finished until StartRound opens the next one.
type RPSMatch struct {
	Round  int       `json:"round"`
	Status string    `json:"status"`
	Moves  [2]Symbol `json:"-"`
	Scores [2]int    `json:"scores"`
}

func NewRPSMatch() *RPSMatch {
	return &RPSMatch{Status: StatusWaiting}
}

func (that *RPSMatch) StartRound() int {
	that.Round++
	that.Moves = [2]Symbol{}
	that.Status = StatusOngoing

	return that.Round
}

// Submit records a move for seat. The returned result is non-nil only when this
// submission completes the round.
func (that *RPSMatch) Submit(seat int, symbol Symbol) (*RoundResult, error) {
	if that.Status != StatusOngoing {
		if that.Status == StatusFinished {
			return nil, apperror.ErrGameFinished
		}
		return nil, apperror.ErrGameIsNotStarted
	}

	if seat != SeatA && seat != SeatB {
		return nil, apperror.ErrNotAPlayer
	}

	if _, ok := beats[symbol]; !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMove, symbol)
	}

	if that.Moves[seat] != "" {
		return nil, apperror.ErrMoveAlreadySubmitted
	}

	that.Moves[seat] = symbol

	if that.Moves[SeatA] == "" || that.Moves[SeatB] == "" {
		return nil, nil //nolint:nilnil // round still open
	}

	return that.resolve(), nil
}

func (that *RPSMatch) resolve() *RoundResult {
	outcome := Determine(that.Moves[SeatA], that.Moves[SeatB])

	winner := -1
	switch outcome {
	case OutcomeWin:
		winner = SeatA
	case OutcomeLose:
		winner = SeatB
	case OutcomeTie:
	}

	if winner >= 0 {
		that.Scores[winner]++
	}

	that.Status = StatusFinished

	return &RoundResult{
		Round:     that.Round,
		Moves:     that.Moves,
		Scores:    that.Scores,
		OutcomeA:  outcome,
		OutcomeB:  outcome.Opposite(),
		WinnerIdx: winner,
	}
}

func (that *RPSMatch) Submitted(seat int) bool {
	return that.Moves[seat] != ""
}

// Reset drops the open round and both scores.
func (that *RPSMatch) Reset() {
	that.Round = 0
	that.Moves = [2]Symbol{}
	that.Scores = [2]int{}
	that.Status = StatusWaiting
}

func (that *RPSMatch) Clone() *RPSMatch {
	clone := *that
	return &clone
}
