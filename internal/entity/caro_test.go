package entity

import (
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/duel-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaroGame_ConfirmOngoingState(t *testing.T) {
	t.Run("Returns nil when game is ongoing", func(t *testing.T) {
		// Given: a game with StatusOngoing
		game := &CaroGame{Status: StatusOngoing}

		// When: checking if the game is active
		err := game.ConfirmOngoingState()

		// Then: it should return nil error
		assert.NoError(t, err)
	})

	t.Run("Returns ErrGameIsNotStarted when game is waiting", func(t *testing.T) {
		// Given: a game with StatusWaiting
		game := &CaroGame{Status: StatusWaiting}

		// When: checking if the game is active
		err := game.ConfirmOngoingState()

		// Then: it should return ErrGameIsNotStarted
		assert.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Returns ErrGameFinished when game is finished", func(t *testing.T) {
		// Given: a game with StatusFinished
		game := &CaroGame{Status: StatusFinished}

		// When: checking if the game is active
		err := game.ConfirmOngoingState()

		// Then: it should return ErrGameFinished
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Returns error for unknown game status", func(t *testing.T) {
		// Given: a game with an unknown status
		game := &CaroGame{Status: "paused"}

		// When: checking if the game is active
		err := game.ConfirmOngoingState()

		// Then: it should return ErrUnknownGameStatus
		assert.ErrorIs(t, err, ErrUnknownGameStatus)
	})
}

func TestCaroGame_MakeTurn(t *testing.T) {
	t.Run("Places the mark and flips the turn", func(t *testing.T) {
		// Given: a started game
		game := NewCaroGame()
		game.Start()

		// When: X plays the centre
		err := game.MakeTurn(PlayerX, 9, 9)

		// Then: the cell holds X and it is O's turn
		require.NoError(t, err)
		assert.Equal(t, PlayerX, game.Board[9][9])
		assert.Equal(t, PlayerO, game.Turn)
		assert.Equal(t, []CaroMove{{Row: 9, Col: 9, Symbol: PlayerX}}, game.History)
	})

	t.Run("Rejects illegal moves without touching the game", func(t *testing.T) {
		cases := []struct {
			name   string
			prep   func(game *CaroGame)
			mark   string
			row    int
			col    int
			expect error
		}{
			{name: "not started", prep: func(game *CaroGame) { game.Status = StatusWaiting }, mark: PlayerX, row: 0, col: 0, expect: apperror.ErrGameIsNotStarted},
			{name: "row too large", mark: PlayerX, row: BoardSize, col: 0, expect: apperror.ErrInvalidCell},
			{name: "negative col", mark: PlayerX, row: 0, col: -1, expect: apperror.ErrInvalidCell},
			{name: "wrong turn", mark: PlayerO, row: 0, col: 0, expect: apperror.ErrNotYourTurn},
			{name: "occupied", prep: func(game *CaroGame) { game.Board[3][3] = PlayerO }, mark: PlayerX, row: 3, col: 3, expect: apperror.ErrCellOccupied},
			{name: "finished", prep: func(game *CaroGame) { game.Status = StatusFinished }, mark: PlayerX, row: 0, col: 0, expect: apperror.ErrGameFinished},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				// Given: a started game with the case preconditions
				game := NewCaroGame()
				game.Start()
				if tc.prep != nil {
					tc.prep(game)
				}
				before := game.Clone()

				// When: the illegal move is played
				err := game.MakeTurn(tc.mark, tc.row, tc.col)

				// Then: the matching error is returned and nothing changed
				require.ErrorIs(t, err, tc.expect)
				assert.Equal(t, before, game)
			})
		}
	})

	t.Run("Five in a row wins for X", func(t *testing.T) {
		// Given: a started game
		game := NewCaroGame()
		game.Start()

		// When: X fills (0,0)..(0,4) while O plays on row 5
		for i := range WinLength {
			require.NoError(t, game.MakeTurn(PlayerX, 0, i))
			if i < WinLength-1 {
				require.NoError(t, game.MakeTurn(PlayerO, 5, i))
			}
		}

		// Then: X has won and the game is over
		assert.True(t, game.IsFinished())
		assert.Equal(t, PlayerX, game.Winner)
		assert.Equal(t, PlayerX, game.Turn)
		assert.ErrorIs(t, game.MakeTurn(PlayerO, 10, 10), apperror.ErrGameFinished)
	})

	t.Run("An overline counts as a win", func(t *testing.T) {
		// Given: X stones on a diagonal with a gap at (3,3)
		game := NewCaroGame()
		game.Start()
		for _, i := range []int{0, 1, 2, 4, 5} {
			game.Board[i][i] = PlayerX
		}

		// When: X closes the gap making a run of six
		err := game.MakeTurn(PlayerX, 3, 3)

		// Then: X wins
		require.NoError(t, err)
		assert.Equal(t, 6, game.RunLength(3, 3, 1, 1))
		assert.Equal(t, PlayerX, game.Winner)
	})

	t.Run("Anti-diagonal run is detected", func(t *testing.T) {
		// Given: O stones on the anti-diagonal next to the right edge
		game := NewCaroGame()
		game.Start()
		game.Turn = PlayerO
		for i := range 4 {
			game.Board[i][BoardSize-1-i] = PlayerO
		}

		// When: O completes the fifth stone
		err := game.MakeTurn(PlayerO, 4, BoardSize-5)

		// Then: O wins
		require.NoError(t, err)
		assert.Equal(t, PlayerO, game.Winner)
	})

	t.Run("Full board without a run is a draw", func(t *testing.T) {
		// Given: a board filled with a pattern that has no five-run, one cell left
		game := NewCaroGame()
		game.Start()
		for r := range BoardSize {
			for c := range BoardSize {
				if r == BoardSize-1 && c == BoardSize-1 {
					continue
				}
				game.Board[r][c] = drawPatternMark(r, c)
				game.History = append(game.History, CaroMove{Row: r, Col: c, Symbol: game.Board[r][c]})
			}
		}
		last := drawPatternMark(BoardSize-1, BoardSize-1)
		game.Turn = last

		// When: the last cell is filled
		err := game.MakeTurn(last, BoardSize-1, BoardSize-1)

		// Then: the game is a draw
		require.NoError(t, err)
		assert.True(t, game.IsFinished())
		assert.Equal(t, Draw, game.Winner)
	})
}

func TestCaroGame_Reset(t *testing.T) {
	t.Run("Clears board, history and winner", func(t *testing.T) {
		// Given: a game with moves played
		game := NewCaroGame()
		game.Start()
		require.NoError(t, game.MakeTurn(PlayerX, 1, 1))

		// When: resetting
		game.Reset()

		// Then: it is a fresh waiting game
		assert.Equal(t, NewCaroGame(), game)
	})
}

func TestCaroGame_RunLengthMatchesBruteForce(t *testing.T) {
	t.Run("Scan from the moved cell equals a full board count", func(t *testing.T) {
		rnd := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic test data

		for trial := range 200 {
			// Given: a random sequence of legal moves on an empty board
			game := NewCaroGame()
			game.Start()

			for game.IsOngoing() {
				row, col := rnd.Intn(BoardSize), rnd.Intn(BoardSize)
				if game.Board[row][col] != EmptyCell {
					continue
				}

				// When: the move is played
				require.NoError(t, game.MakeTurn(game.Turn, row, col))

				// Then: every axis agrees with the reference scanner
				for _, axis := range axes {
					assert.Equal(t,
						bruteForceRun(&game.Board, row, col, axis[0], axis[1]),
						game.RunLength(row, col, axis[0], axis[1]),
						"trial %d move (%d,%d) axis %v", trial, row, col, axis,
					)
				}
			}
		}
	})
}

// bruteForceRun walks the whole line through (row, col) and returns the length of the
// same-mark segment that contains it.
func bruteForceRun(board *Board, row, col, dRow, dCol int) int {
	mark := board[row][col]

	r, c := row, col
	for InBounds(r-dRow, c-dCol) {
		r, c = r-dRow, c-dCol
	}

	run, passed := 0, false
	for ; InBounds(r, c); r, c = r+dRow, c+dCol {
		if board[r][c] != mark {
			if passed {
				break
			}
			run = 0
			continue
		}

		run++
		if r == row && c == col {
			passed = true
		}
	}

	return run
}

// drawPatternMark tiles the board so that no axis holds more than two equal marks in a row.
func drawPatternMark(row, col int) string {
	if ((col+2*(row%2))/2)%2 == 0 {
		return PlayerX
	}
	return PlayerO
}
