package bot

import (
	"github.com/mcoot/vstetris/internal/dependencies/random"
	"github.com/mcoot/vstetris/internal/model"
)

// RandomStrategy drops each piece at a random reachable placement
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChoosePlacement picks uniformly among the candidates
func (s *RandomStrategy) ChoosePlacement(state *model.GameState) Placement {
	candidates := Candidates(state)
	if len(candidates) == 0 {
		return Placement{X: state.Pos.X}
	}
	return candidates[s.random.Intn(len(candidates))].Placement
}
