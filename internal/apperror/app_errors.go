package apperror

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// match state machine
	ErrGameNotActive = errors.New("game is not active")
	ErrNotYourTurn   = errors.New("it's not your turn")

	// lobby state machine
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomUnavailable     = errors.New("room is not available")
	ErrRoomFull            = errors.New("room is full")
	ErrSelfJoin            = errors.New("cannot join your own room")
	ErrNotHost             = errors.New("only the host can start the game")
	ErrNotAParticipant     = errors.New("not a participant of this room")
	ErrSecondPlayerMissing = errors.New("waiting for second player")

	// identity service
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
)
