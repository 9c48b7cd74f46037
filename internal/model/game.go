package model

import "time"

// Mode fixes the board dimensions for a kind of game
type Mode struct {
	Name   string
	Width  int
	Height int
	// SpeedUp turns on the time-based gravity ramp
	SpeedUp bool
}

var (
	// ModeSingle is the single-player board
	ModeSingle = Mode{Name: "single", Width: 12, Height: 20}
	// ModeVersus is the taller head-to-head board
	ModeVersus = Mode{Name: "versus", Width: 12, Height: 24, SpeedUp: true}
)

// ModeByName looks up a mode by its name
func ModeByName(name string) (Mode, bool) {
	switch name {
	case ModeSingle.Name:
		return ModeSingle, true
	case ModeVersus.Name:
		return ModeVersus, true
	default:
		return Mode{}, false
	}
}

// GameStatus represents the lifecycle phase of a game
type GameStatus string

const (
	GameStatusIdle    GameStatus = "idle"    // Created, not started
	GameStatusPlaying GameStatus = "playing" // Ticks process gameplay
	GameStatusOver    GameStatus = "over"    // Spawn collision, terminal
	GameStatusWon     GameStatus = "won"     // Opponent topped out first, terminal
)

// PiecePhase is the state of the active piece within the fall/lock cycle
type PiecePhase string

const (
	PhaseFalling  PiecePhase = "falling"
	PhaseGrounded PiecePhase = "grounded"
)

// PieceSource produces the next piece type to play
type PieceSource interface {
	Next() PieceType
	Reset()
}

// GameState is the authoritative state of one local game.
// Every engine operation takes it explicitly, so independent games never share state.
type GameState struct {
	Mode   Mode
	Status GameStatus
	Board  *Board

	Active *Piece
	Pos    Position
	Next   []PieceType // Upcoming pieces, front is next
	Hold   PieceType   // Empty string when nothing is held

	// CanHold is false between a hold and the next lock
	CanHold bool

	Score int
	Level int
	Lines int

	FallTimer time.Duration // Gravity accumulator
	LockTimer time.Duration // Time spent grounded since last reset

	SpeedTimer time.Duration // Play time since the last speed-up
	SpeedUps   int           // Speed-ups applied so far

	Source PieceSource

	events []Event
}

// NewGameState creates an idle game with an empty board
func NewGameState(mode Mode, source PieceSource) *GameState {
	return &GameState{
		Mode:    mode,
		Status:  GameStatusIdle,
		Board:   NewBoard(mode.Width, mode.Height),
		CanHold: true,
		Level:   1,
		Source:  source,
	}
}

// IsPlaying returns true while ticks should process gameplay
func (s *GameState) IsPlaying() bool {
	return s.Status == GameStatusPlaying
}

// IsFinished returns true once the game reached a terminal status
func (s *GameState) IsFinished() bool {
	return s.Status == GameStatusOver || s.Status == GameStatusWon
}

// Emit queues an event for collaborators
func (s *GameState) Emit(e Event) {
	s.events = append(s.events, e)
}

// DrainEvents returns and clears all queued events
func (s *GameState) DrainEvents() []Event {
	out := s.events
	s.events = nil
	return out
}
