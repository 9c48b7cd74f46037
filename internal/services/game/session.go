package game

import (
	"time"

	"github.com/mcoot/vstetris/internal/model"
	"github.com/mcoot/vstetris/internal/services/input"
	"github.com/mcoot/vstetris/internal/services/rotation"
)

// Session is one locally driven game: raw key events and frame timestamps
// in, state transitions out. A Session is not safe for concurrent use; it is
// owned by a single tick loop.
type Session struct {
	controller *Controller
	input      *input.Controller
	state      *model.GameState

	lastFrame time.Time
	paused    bool
}

// NewSession wraps state with an input controller
func NewSession(controller *Controller, inputConfig input.Config, state *model.GameState) *Session {
	return &Session{
		controller: controller,
		input:      input.NewController(inputConfig),
		state:      state,
	}
}

// State returns the underlying game state
func (s *Session) State() *model.GameState {
	return s.state
}

// Start begins play
func (s *Session) Start() error {
	s.input.Reset()
	s.lastFrame = time.Time{}
	return s.controller.Start(s.state)
}

// Restart resets the game and begins again
func (s *Session) Restart() error {
	s.input.Reset()
	s.lastFrame = time.Time{}
	s.paused = false
	return s.controller.Restart(s.state)
}

// Pause stops ticks and key handling until Resume
func (s *Session) Pause() {
	s.paused = true
}

// Resume continues a paused game. Time spent paused is not counted.
func (s *Session) Resume() {
	s.paused = false
	s.lastFrame = time.Time{}
	s.input.Reset()
}

// IsPaused returns true while paused
func (s *Session) IsPaused() bool {
	return s.paused
}

func (s *Session) active() bool {
	return !s.paused && s.state.IsPlaying()
}

// KeyDown handles a key press. Rotation, hard drop and hold fire once per
// press; horizontal movement and soft drop are handled by Step.
func (s *Session) KeyDown(k input.Key) {
	if !s.active() {
		return
	}
	if !s.input.KeyDown(k) {
		return
	}
	switch k {
	case input.KeyRotateCW:
		s.controller.Rotate(s.state, rotation.CW)
	case input.KeyRotateCCW:
		s.controller.Rotate(s.state, rotation.CCW)
	case input.KeyHardDrop:
		s.controller.HardDrop(s.state)
	case input.KeyHold:
		s.controller.Hold(s.state)
	}
}

// KeyUp handles a key release
func (s *Session) KeyUp(k input.Key) {
	s.input.KeyUp(k)
}

// Frame runs one tick at the given monotonic timestamp. The first frame after
// start or resume only records the timestamp.
func (s *Session) Frame(now time.Time) {
	if s.lastFrame.IsZero() {
		s.lastFrame = now
		return
	}
	elapsed := now.Sub(s.lastFrame)
	s.lastFrame = now
	s.Step(elapsed)
}

// Step runs one tick with an explicit elapsed time: input, then gravity and lock
func (s *Session) Step(elapsed time.Duration) {
	if !s.active() {
		return
	}

	cmd := s.input.Update(elapsed)
	switch cmd.Kind {
	case input.CommandStep:
		s.controller.Move(s.state, cmd.Dir)
	case input.CommandToWall:
		s.controller.MoveToWall(s.state, cmd.Dir)
	}

	s.controller.Tick(s.state, elapsed, s.input.IsHeld(input.KeySoftDrop))
}

// Snapshot returns a render-ready copy of the game
func (s *Session) Snapshot() model.Snapshot {
	return s.controller.Snapshot(s.state)
}
