package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell")

	ErrInvalidMove          = errors.New("invalid move")
	ErrMoveAlreadySubmitted = errors.New("move already submitted")

	ErrUnknownConnection   = errors.New("unknown connection")
	ErrConnectionInactive  = errors.New("connection is not active")
	ErrRoleAlreadyAssigned = errors.New("role is already assigned")
	ErrCapacityExceeded    = errors.New("server full")
	ErrNotJoined           = errors.New("join the game first")
	ErrNotAPlayer          = errors.New("spectators cannot play")

	ErrArchiveDisabled = errors.New("results archive is disabled")
)
