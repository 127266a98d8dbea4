package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/duel-backend/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX  = "X"
	PlayerO  = "O"
	Draw     = "Draw"
	Observer = "spectator"

	EmptyCell = ""
)

const (
	BoardSize = 19
	WinLength = 5
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// axes are the four line directions a run can follow: horizontal, vertical and both diagonals.
var axes = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

type Board [BoardSize][BoardSize]string

type CaroMove struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Symbol string `json:"symbol"`
}

// CaroGame is the state of one 19x19 five-in-a-row game.
type CaroGame struct {
	Board   Board      `json:"board"`
	Turn    string     `json:"current_player"`
	Status  string     `json:"status"`
	Winner  string     `json:"winner"`
	History []CaroMove `json:"move_history"`
}

func NewCaroGame() *CaroGame {
	return &CaroGame{
		Turn:    PlayerX,
		Status:  StatusWaiting,
		History: []CaroMove{},
	}
}

// Start opens the board for moves. It is a no-op unless the game is waiting.
func (that *CaroGame) Start() {
	if that.IsWaiting() {
		that.Status = StatusOngoing
	}
}

// Reset clears the board and puts the game back into the waiting state.
func (that *CaroGame) Reset() {
	that.Board = Board{}
	that.Turn = PlayerX
	that.Status = StatusWaiting
	that.Winner = ""
	that.History = []CaroMove{}
}

func (that *CaroGame) MakeTurn(playerMark string, row, col int) error {
	if err := that.ConfirmOngoingState(); err != nil {
		return err
	}

	if !InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidCell, row, col)
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if that.Board[row][col] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board[row][col] = playerMark
	that.History = append(that.History, CaroMove{Row: row, Col: col, Symbol: playerMark})

	switch {
	case that.IsWinningMove(row, col):
		that.Winner = playerMark
		that.Status = StatusFinished
	case len(that.History) == BoardSize*BoardSize:
		that.Winner = Draw
		that.Status = StatusFinished
	default:
		that.Turn = toggleMark(playerMark)
	}

	return nil
}

// IsWinningMove reports whether the stone at (row, col) completes a run of WinLength or more.
// Longer runs count as a win too.
func (that *CaroGame) IsWinningMove(row, col int) bool {
	if !InBounds(row, col) || that.Board[row][col] == EmptyCell {
		return false
	}

	for _, axis := range axes {
		if that.RunLength(row, col, axis[0], axis[1]) >= WinLength {
			return true
		}
	}

	return false
}

// RunLength counts contiguous cells holding the same mark as (row, col) along one axis,
// walking outward in both directions and including (row, col) itself.
func (that *CaroGame) RunLength(row, col, dRow, dCol int) int {
	mark := that.Board[row][col]
	if mark == EmptyCell {
		return 0
	}

	count := 1
	for r, c := row+dRow, col+dCol; InBounds(r, c) && that.Board[r][c] == mark; r, c = r+dRow, c+dCol {
		count++
	}

	for r, c := row-dRow, col-dCol; InBounds(r, c) && that.Board[r][c] == mark; r, c = r-dRow, c-dCol {
		count++
	}

	return count
}

func (that *CaroGame) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *CaroGame) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *CaroGame) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *CaroGame) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// Clone returns a deep copy safe to hand out after the owner's lock is released.
func (that *CaroGame) Clone() *CaroGame {
	clone := *that
	clone.History = append(make([]CaroMove, 0, len(that.History)), that.History...)

	return &clone
}

func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func toggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
