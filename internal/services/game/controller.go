package game

import (
	"log/slog"
	"math"
	"time"

	"github.com/mcoot/vstetris/internal/model"
	"github.com/mcoot/vstetris/internal/services/board"
	"github.com/mcoot/vstetris/internal/services/rotation"
	"github.com/mcoot/vstetris/internal/services/scoring"
)

// Config holds the fall and lock timings
type Config struct {
	LockDelay      time.Duration
	SoftDropFactor int // Extra multiples of elapsed time added to gravity while soft dropping
	PreviewCount   int // Upcoming pieces kept in the next queue

	// Gravity ramp for modes with SpeedUp set. Every SpeedUpEvery of play the
	// gravity interval is scaled by SpeedUpFactor, never below SpeedUpFloor.
	SpeedUpEvery  time.Duration
	SpeedUpFactor float64
	SpeedUpFloor  time.Duration
}

// DefaultConfig returns the standard timings
func DefaultConfig() Config {
	return Config{
		LockDelay:      500 * time.Millisecond,
		SoftDropFactor: 20,
		PreviewCount:   1,
		SpeedUpEvery:   30 * time.Second,
		SpeedUpFactor:  0.9,
		SpeedUpFloor:   100 * time.Millisecond,
	}
}

// Controller runs the fall/lock state machine over an explicit GameState
type Controller struct {
	config       Config
	boardService board.ServiceInterface
	logger       *slog.Logger
}

// NewController creates a new game Controller
func NewController(config Config, boardService board.ServiceInterface, logger *slog.Logger) *Controller {
	if config.PreviewCount < 1 {
		config.PreviewCount = 1
	}
	return &Controller{
		config:       config,
		boardService: boardService,
		logger:       logger.With(slog.String("component", "game")),
	}
}

// Config returns the controller's timings
func (c *Controller) Config() Config {
	return c.config
}

// NewGame creates an idle game for the mode drawing pieces from source
func (c *Controller) NewGame(mode model.Mode, source model.PieceSource) *model.GameState {
	return model.NewGameState(mode, source)
}

// Start spawns the first piece and begins play
func (c *Controller) Start(state *model.GameState) error {
	switch {
	case state.IsFinished():
		return model.ErrGameOver
	case state.IsPlaying():
		return model.ErrGameInProgress
	}

	state.Status = model.GameStatusPlaying
	state.Emit(model.Event{Type: model.EventStart})
	c.spawn(state, c.nextFromQueue(state))
	state.Emit(model.Event{Type: model.EventStateChanged})

	c.logger.Debug("game started", slog.String("mode", state.Mode.Name))
	return nil
}

// Restart clears the board, score, hold and queue then starts again
func (c *Controller) Restart(state *model.GameState) error {
	state.Board.Clear()
	state.Active = nil
	state.Pos = model.Position{}
	state.Next = nil
	state.Hold = ""
	state.CanHold = true
	state.Score = 0
	state.Level = 1
	state.Lines = 0
	state.FallTimer = 0
	state.LockTimer = 0
	state.SpeedTimer = 0
	state.SpeedUps = 0
	state.Status = model.GameStatusIdle
	state.DrainEvents()
	if state.Source != nil {
		state.Source.Reset()
	}
	return c.Start(state)
}

// Phase reports whether the active piece is resting on something
func (c *Controller) Phase(state *model.GameState) model.PiecePhase {
	if state.Active != nil && board.IsGrounded(state.Board, state.Active, state.Pos) {
		return model.PhaseGrounded
	}
	return model.PhaseFalling
}

// Move shifts the active piece horizontally by dx. Returns false if blocked.
func (c *Controller) Move(state *model.GameState, dx int) bool {
	if !state.IsPlaying() || !c.shift(state, dx, 0) {
		return false
	}
	state.LockTimer = 0
	state.Emit(model.Event{Type: model.EventStateChanged})
	return true
}

// MoveToWall shifts the active piece in dir until blocked and returns the
// number of columns moved
func (c *Controller) MoveToWall(state *model.GameState, dir int) int {
	if !state.IsPlaying() || dir == 0 {
		return 0
	}
	moved := 0
	for c.shift(state, dir, 0) {
		moved++
	}
	if moved > 0 {
		state.LockTimer = 0
		state.Emit(model.Event{Type: model.EventStateChanged})
	}
	return moved
}

// Rotate applies an SRS rotation with wall kicks. Returns false if every kick collides.
func (c *Controller) Rotate(state *model.GameState, dir rotation.Direction) bool {
	if !state.IsPlaying() {
		return false
	}
	if _, ok := rotation.Rotate(state.Board, state.Active, &state.Pos, dir); !ok {
		return false
	}
	state.LockTimer = 0
	state.Emit(model.Event{Type: model.EventStateChanged})
	return true
}

// Drop moves the active piece down one row. Returns false if it is grounded.
// The lock timer is not reset.
func (c *Controller) Drop(state *model.GameState) bool {
	if !state.IsPlaying() || !c.shift(state, 0, 1) {
		return false
	}
	state.Emit(model.Event{Type: model.EventStateChanged})
	return true
}

// HardDrop drops the active piece to its ghost position and locks it
// immediately. Returns the number of rows fallen.
func (c *Controller) HardDrop(state *model.GameState) int {
	if !state.IsPlaying() {
		return 0
	}
	ghost := board.Ghost(state.Board, state.Active, state.Pos)
	rows := ghost.Y - state.Pos.Y
	state.Pos = ghost
	c.lock(state)
	return rows
}

// Hold swaps the active piece with the held one, or stashes it and takes the
// next piece. Only allowed once between locks.
func (c *Controller) Hold(state *model.GameState) bool {
	if !state.IsPlaying() || !state.CanHold {
		return false
	}

	current := state.Active.Type
	if state.Hold == "" {
		c.spawn(state, c.nextFromQueue(state))
	} else {
		c.spawn(state, state.Hold)
	}
	state.Hold = current
	state.CanHold = false
	state.Emit(model.Event{Type: model.EventHold})
	if state.IsPlaying() {
		state.Emit(model.Event{Type: model.EventStateChanged})
	}
	return true
}

// Tick advances gravity and the lock delay by elapsed
func (c *Controller) Tick(state *model.GameState, elapsed time.Duration, softDrop bool) {
	if !state.IsPlaying() {
		return
	}

	c.advanceSpeed(state, elapsed)

	state.FallTimer += elapsed
	if softDrop {
		state.FallTimer += elapsed * time.Duration(c.config.SoftDropFactor)
	}
	if state.FallTimer > c.GravityInterval(state) {
		c.Drop(state)
		state.FallTimer = 0
	}

	if !board.IsGrounded(state.Board, state.Active, state.Pos) {
		state.LockTimer = 0
		return
	}
	state.LockTimer += elapsed
	if state.LockTimer > c.config.LockDelay {
		c.lock(state)
	}
}

// GravityInterval returns the current gravity interval: the level's interval,
// shortened by any speed-ups but never past SpeedUpFloor unless the level
// is already faster.
func (c *Controller) GravityInterval(state *model.GameState) time.Duration {
	interval := scoring.GravityInterval(state.Level)
	if state.SpeedUps == 0 {
		return interval
	}
	ramped := time.Duration(float64(interval) * math.Pow(c.config.SpeedUpFactor, float64(state.SpeedUps)))
	return min(interval, max(ramped, c.config.SpeedUpFloor))
}

func (c *Controller) advanceSpeed(state *model.GameState, elapsed time.Duration) {
	if !state.Mode.SpeedUp || c.config.SpeedUpEvery <= 0 {
		return
	}
	state.SpeedTimer += elapsed
	if state.SpeedTimer > c.config.SpeedUpEvery {
		state.SpeedTimer = 0
		state.SpeedUps++
		c.logger.Debug("speed up",
			slog.Int("speed_ups", state.SpeedUps),
			slog.Duration("interval", c.GravityInterval(state)),
		)
	}
}

// ApplyGarbage injects incoming attack rows. The active piece is pushed up
// out of the garbage when it can escape within lines rows. Otherwise it stays
// put, overlapping the stack, and the next spawn decides whether the game ends.
func (c *Controller) ApplyGarbage(state *model.GameState, lines int) {
	if !state.IsPlaying() || lines <= 0 {
		return
	}

	c.boardService.InjectGarbage(state.Board, lines)
	state.Emit(model.Event{Type: model.EventGarbageReceived, Lines: lines})

	pos := state.Pos
	for i := 0; i < lines && board.Collides(state.Board, state.Active, pos); i++ {
		pos.Y--
	}
	if !board.Collides(state.Board, state.Active, pos) {
		state.Pos = pos
	}
	state.Emit(model.Event{Type: model.EventStateChanged})
}

// Win ends a playing game in victory
func (c *Controller) Win(state *model.GameState) {
	if !state.IsPlaying() {
		return
	}
	state.Status = model.GameStatusWon
	state.Emit(model.Event{Type: model.EventWin})
	c.logger.Debug("game won", slog.Int("score", state.Score))
}

// Ghost returns where the active piece would land
func (c *Controller) Ghost(state *model.GameState) model.Position {
	if state.Active == nil {
		return state.Pos
	}
	return board.Ghost(state.Board, state.Active, state.Pos)
}

// PeerState returns the state broadcast to a versus opponent
func (c *Controller) PeerState(state *model.GameState) model.PeerState {
	ps := model.PeerState{
		Arena: state.Board.Rows(),
		Pos:   state.Pos,
	}
	if state.Active != nil {
		ps.Matrix = state.Active.Clone().Cells
	}
	return ps
}

// Snapshot returns a render-ready copy of the game
func (c *Controller) Snapshot(state *model.GameState) model.Snapshot {
	ps := c.PeerState(state)
	next := make([]model.PieceType, len(state.Next))
	copy(next, state.Next)
	return model.Snapshot{
		Status: state.Status,
		Arena:  ps.Arena,
		Matrix: ps.Matrix,
		Pos:    ps.Pos,
		Ghost:  c.Ghost(state),
		Next:   next,
		Hold:   state.Hold,
		Score:  state.Score,
		Level:  state.Level,
		Lines:  state.Lines,
	}
}

func (c *Controller) shift(state *model.GameState, dx, dy int) bool {
	candidate := model.Position{X: state.Pos.X + dx, Y: state.Pos.Y + dy}
	if board.Collides(state.Board, state.Active, candidate) {
		return false
	}
	state.Pos = candidate
	return true
}

// lock merges the active piece, clears rows and spawns the next piece
func (c *Controller) lock(state *model.GameState) {
	board.Merge(state.Board, state.Active, state.Pos)
	state.Emit(model.Event{Type: model.EventDrop})

	if rows := board.Sweep(state.Board); rows > 0 {
		scoring.ApplyClear(state, rows)
		state.Emit(model.Event{Type: model.EventClear, Rows: rows})
		if attack := scoring.AttackLines(rows); attack > 0 {
			state.Emit(model.Event{Type: model.EventAttack, Lines: attack})
		}
	}

	state.CanHold = true
	state.FallTimer = 0
	c.spawn(state, c.nextFromQueue(state))
	if state.IsPlaying() {
		state.Emit(model.Event{Type: model.EventStateChanged})
	}
}

// spawn places a fresh piece at the top centre; a collision there ends the game
func (c *Controller) spawn(state *model.GameState, t model.PieceType) {
	state.Active = model.NewPiece(t)
	state.Pos = model.Position{
		X: state.Board.Width/2 - state.Active.Size()/2,
		Y: 0,
	}
	state.LockTimer = 0
	if board.Collides(state.Board, state.Active, state.Pos) {
		c.gameOver(state)
	}
}

func (c *Controller) gameOver(state *model.GameState) {
	state.Status = model.GameStatusOver
	state.Emit(model.Event{Type: model.EventGameOver})
	c.logger.Debug("game over",
		slog.Int("score", state.Score),
		slog.Int("lines", state.Lines),
	)
}

func (c *Controller) fillQueue(state *model.GameState) {
	for len(state.Next) < c.config.PreviewCount {
		state.Next = append(state.Next, state.Source.Next())
	}
}

func (c *Controller) nextFromQueue(state *model.GameState) model.PieceType {
	c.fillQueue(state)
	t := state.Next[0]
	state.Next = state.Next[1:]
	c.fillQueue(state)
	return t
}
