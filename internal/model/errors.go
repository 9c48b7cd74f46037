package model

import "errors"

// Common errors used across the application
var (
	// Game errors
	ErrGameNotStarted = errors.New("game has not started")
	ErrGameOver       = errors.New("game is over")
	ErrGameInProgress = errors.New("game is already in progress")

	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrNotMatched   = errors.New("no match has been found")
	ErrRelayClosed  = errors.New("relay is closed")

	// Protocol errors
	ErrEmptyMessage   = errors.New("empty message")
	ErrEmptyPayload   = errors.New("empty payload")
	ErrUnknownMessage = errors.New("unknown message type")

	// Bot errors
	ErrUnknownStrategy = errors.New("unknown bot strategy")
)
