package apperror

import "errors"

var (
	ErrInvalidConfiguration = errors.New("board size is not a positive multiple of the player count")
	ErrIllegalMove          = errors.New("move is not legal")
	ErrGameFinished         = errors.New("game is already finished")
	ErrNoActiveGame         = errors.New("no active game")
	ErrGameAlreadyStarted   = errors.New("game already started")
)
