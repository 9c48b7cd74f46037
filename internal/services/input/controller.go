package input

import "time"

// Key is a logical input key
type Key string

const (
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
	KeySoftDrop  Key = "down"
	KeyRotateCW  Key = "rotate_cw"
	KeyRotateCCW Key = "rotate_ccw"
	KeyHardDrop  Key = "hard_drop"
	KeyHold      Key = "hold"
)

// IsValid returns true for a known logical key
func (k Key) IsValid() bool {
	switch k {
	case KeyLeft, KeyRight, KeySoftDrop, KeyRotateCW, KeyRotateCCW, KeyHardDrop, KeyHold:
		return true
	default:
		return false
	}
}

// Config holds the auto-shift timings
type Config struct {
	DAS time.Duration // Hold time before auto-repeat starts
	ARR time.Duration // Interval between repeats; zero means jump to the wall
}

// DefaultConfig returns the snappy defaults
func DefaultConfig() Config {
	return Config{
		DAS: 100 * time.Millisecond,
		ARR: 0,
	}
}

// CommandKind is the kind of horizontal move to perform this tick
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandStep
	CommandToWall
)

// Command is a horizontal move intent
type Command struct {
	Kind CommandKind
	Dir  int // -1 left, +1 right
}

// Controller turns held keys into per-tick horizontal move commands
type Controller struct {
	config Config
	held   map[Key]bool

	// lastHorizontal breaks ties when both left and right are held
	lastHorizontal Key
	direction      int
	dasTimer       time.Duration
	arrTimer       time.Duration
	repeating      bool
}

// NewController creates an input controller with no keys held
func NewController(config Config) *Controller {
	return &Controller{
		config: config,
		held:   make(map[Key]bool),
	}
}

// KeyDown records a press. Returns true if the key was not already held,
// which callers use to fire edge-triggered actions exactly once.
func (c *Controller) KeyDown(k Key) bool {
	if c.held[k] {
		return false
	}
	c.held[k] = true
	if k == KeyLeft || k == KeyRight {
		c.lastHorizontal = k
	}
	return true
}

// KeyUp records a release. Releasing the most recent horizontal key falls
// back to the other one if it is still held.
func (c *Controller) KeyUp(k Key) {
	delete(c.held, k)
	if k != c.lastHorizontal {
		return
	}
	other := KeyLeft
	if k == KeyLeft {
		other = KeyRight
	}
	if c.held[other] {
		c.lastHorizontal = other
	} else {
		c.lastHorizontal = ""
	}
}

// IsHeld returns true while the key is down
func (c *Controller) IsHeld(k Key) bool {
	return c.held[k]
}

// Direction returns the direction currently being shifted
func (c *Controller) Direction() int {
	return c.direction
}

// Reset releases all keys and clears the timers
func (c *Controller) Reset() {
	c.held = make(map[Key]bool)
	c.lastHorizontal = ""
	c.direction = 0
	c.dasTimer = 0
	c.arrTimer = 0
	c.repeating = false
}

func (c *Controller) requestedDirection() int {
	left, right := c.held[KeyLeft], c.held[KeyRight]
	switch {
	case left && right:
		switch c.lastHorizontal {
		case KeyLeft:
			return -1
		case KeyRight:
			return 1
		}
		return 0
	case left:
		return -1
	case right:
		return 1
	default:
		return 0
	}
}

// Update advances the timers by elapsed and returns this tick's command
func (c *Controller) Update(elapsed time.Duration) Command {
	requested := c.requestedDirection()

	if requested != c.direction {
		c.direction = requested
		c.dasTimer = 0
		c.arrTimer = 0
		c.repeating = false
		if requested == 0 {
			return Command{}
		}
		return Command{Kind: CommandStep, Dir: requested}
	}
	if requested == 0 {
		return Command{}
	}

	c.dasTimer += elapsed
	if c.dasTimer < c.config.DAS {
		return Command{}
	}
	if c.config.ARR <= 0 {
		return Command{Kind: CommandToWall, Dir: requested}
	}
	if !c.repeating {
		c.repeating = true
		return Command{Kind: CommandStep, Dir: requested}
	}
	c.arrTimer += elapsed
	if c.arrTimer >= c.config.ARR {
		c.arrTimer = 0
		return Command{Kind: CommandStep, Dir: requested}
	}
	return Command{}
}
