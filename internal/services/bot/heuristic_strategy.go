package bot

import (
	"github.com/mcoot/vstetris/internal/model"
)

// Weights scores a resulting board. Higher totals are better.
type Weights struct {
	Lines     float64
	Height    float64
	Holes     float64
	Bumpiness float64
}

// DefaultWeights returns weights that keep the stack low and flat
func DefaultWeights() Weights {
	return Weights{
		Lines:     0.76,
		Height:    -0.51,
		Holes:     -0.36,
		Bumpiness: -0.18,
	}
}

// HeuristicStrategy picks the placement whose resulting board scores best
type HeuristicStrategy struct {
	weights Weights
}

// NewHeuristicStrategy creates a new HeuristicStrategy
func NewHeuristicStrategy(weights Weights) *HeuristicStrategy {
	return &HeuristicStrategy{weights: weights}
}

// ChoosePlacement evaluates every candidate; ties keep the first found
func (s *HeuristicStrategy) ChoosePlacement(state *model.GameState) Placement {
	best := Placement{X: state.Pos.X}
	bestScore := 0.0
	for i, c := range Candidates(state) {
		score := s.Evaluate(c.Result, c.Cleared)
		if i == 0 || score > bestScore {
			best = c.Placement
			bestScore = score
		}
	}
	return best
}

// Evaluate scores a board left after clearing cleared rows
func (s *HeuristicStrategy) Evaluate(b *model.Board, cleared int) float64 {
	heights := ColumnHeights(b)
	aggregate, bumpiness := 0, 0
	for x, h := range heights {
		aggregate += h
		if x > 0 {
			bumpiness += abs(h - heights[x-1])
		}
	}
	return s.weights.Lines*float64(cleared) +
		s.weights.Height*float64(aggregate) +
		s.weights.Holes*float64(Holes(b)) +
		s.weights.Bumpiness*float64(bumpiness)
}

// ColumnHeights returns the stack height of each column
func ColumnHeights(b *model.Board) []int {
	heights := make([]int, b.Width)
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			if b.Get(x, y) != model.ColorEmpty {
				heights[x] = b.Height - y
				break
			}
		}
	}
	return heights
}

// Holes counts empty cells with a filled cell somewhere above them
func Holes(b *model.Board) int {
	holes := 0
	for x := 0; x < b.Width; x++ {
		covered := false
		for y := 0; y < b.Height; y++ {
			if b.Get(x, y) != model.ColorEmpty {
				covered = true
			} else if covered {
				holes++
			}
		}
	}
	return holes
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
