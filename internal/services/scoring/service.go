package scoring

import (
	"time"

	"github.com/mcoot/vstetris/internal/model"
)

const (
	// LinesPerLevel is how many cleared lines advance the level by one
	LinesPerLevel = 5

	baseGravity  = 1000 * time.Millisecond
	gravityStep  = 100 * time.Millisecond
	gravityFloor = 50 * time.Millisecond
)

// lineScores is indexed by rows cleared; anything above 4 is clamped
var lineScores = [...]int{0, 40, 100, 300, 1200}

// LineScore returns the points for clearing rows at the given level
func LineScore(rows, level int) int {
	if rows <= 0 {
		return 0
	}
	if rows >= len(lineScores) {
		rows = len(lineScores) - 1
	}
	return lineScores[rows] * level
}

// Level returns the level reached after clearing totalLines
func Level(totalLines int) int {
	return totalLines/LinesPerLevel + 1
}

// GravityInterval returns how long a piece waits between gravity steps at a level
func GravityInterval(level int) time.Duration {
	interval := baseGravity - time.Duration(level-1)*gravityStep
	return max(interval, gravityFloor)
}

// AttackLines is the garbage rule: a clear of N rows sends N-1 lines, so
// singles send nothing.
func AttackLines(rows int) int {
	if rows <= 1 {
		return 0
	}
	return rows - 1
}

// ApplyClear awards points for a clear and advances lines and level.
// Score uses the level in effect before the clear.
func ApplyClear(state *model.GameState, rows int) int {
	if rows <= 0 {
		return 0
	}
	points := LineScore(rows, state.Level)
	state.Score += points
	state.Lines += rows
	state.Level = Level(state.Lines)
	return points
}
