package bot_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/vstetris/internal/dependencies/mocks"
	"github.com/mcoot/vstetris/internal/model"
	"github.com/mcoot/vstetris/internal/services/bot"
	"github.com/mcoot/vstetris/internal/testutil"
)

type StrategySuite struct {
	suite.Suite
	mockRandom *mocks.MockRandom
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategySuite))
}

func (s *StrategySuite) SetupTest() {
	s.mockRandom = mocks.NewMockRandom()
}

// spawned returns a playing state with the piece at its spawn anchor
func (s *StrategySuite) spawned(t model.PieceType) *model.GameState {
	state := model.NewGameState(model.ModeSingle, nil)
	state.Status = model.GameStatusPlaying
	state.Active = model.NewPiece(t)
	state.Pos = model.Position{X: state.Board.Width/2 - state.Active.Size()/2, Y: 0}
	return state
}

func (s *StrategySuite) fillRows(b *model.Board, from, to int, except int) {
	for y := from; y <= to; y++ {
		for x := 0; x < b.Width; x++ {
			if x != except {
				b.Set(x, y, model.ColorGarbage)
			}
		}
	}
}

// Candidates tests

func (s *StrategySuite) TestCandidatesEmptyBoard() {
	// Per orientation the T spans 3, 2, 3 and 2 columns
	s.Len(bot.Candidates(s.spawned(model.PieceT)), 10+11+10+11)
	// O has a single orientation
	s.Len(bot.Candidates(s.spawned(model.PieceO)), 11)
}

func (s *StrategySuite) TestCandidatesLandOnFloor() {
	for _, c := range bot.Candidates(s.spawned(model.PieceO)) {
		s.Equal(18, c.Landing.Y)
		s.Equal(4, c.Result.FilledCount())
		s.Equal(0, c.Cleared)
	}
}

func (s *StrategySuite) TestCandidatesDoNotMutateBoard() {
	state := s.spawned(model.PieceI)
	s.fillRows(state.Board, 19, 19, 0)

	bot.Candidates(state)

	s.Equal(11, state.Board.FilledCount())
}

func (s *StrategySuite) TestCandidatesWithoutActivePiece() {
	state := model.NewGameState(model.ModeSingle, nil)
	s.Nil(bot.Candidates(state))
}

// RandomStrategy tests

func (s *StrategySuite) TestRandomStrategyPicksByIndex() {
	strategy := bot.NewRandomStrategy(s.mockRandom)
	s.mockRandom.QueueIntn(0, 41)
	state := s.spawned(model.PieceT)

	s.Equal(bot.Placement{Rotations: 0, X: 0}, strategy.ChoosePlacement(state))
	s.Equal(bot.Placement{Rotations: 3, X: 10}, strategy.ChoosePlacement(state))
}

// HeuristicStrategy tests

func (s *StrategySuite) TestHeuristicTakesFlatClear() {
	strategy := bot.NewHeuristicStrategy(bot.DefaultWeights())
	state := s.spawned(model.PieceI)
	for x := 4; x < state.Board.Width; x++ {
		state.Board.Set(x, 19, model.ColorGarbage)
	}

	s.Equal(bot.Placement{Rotations: 0, X: 0}, strategy.ChoosePlacement(state))
}

func (s *StrategySuite) TestHeuristicTakesTetrisWell() {
	strategy := bot.NewHeuristicStrategy(bot.DefaultWeights())
	state := s.spawned(model.PieceI)
	s.fillRows(state.Board, 16, 19, 11)

	// Vertical I sits in column 2 of its grid after one clockwise turn
	s.Equal(bot.Placement{Rotations: 1, X: 9}, strategy.ChoosePlacement(state))
}

func (s *StrategySuite) TestEvaluateFeatures() {
	b := testutil.ParseBoard(
		"....",
		".1..",
		"....",
		"11.1",
	)

	s.Equal([]int{1, 3, 0, 1}, bot.ColumnHeights(b))
	s.Equal(1, bot.Holes(b))

	// height 5, holes 1, bumpiness 2+3+1
	strategy := bot.NewHeuristicStrategy(bot.DefaultWeights())
	s.InDelta(-0.51*5-0.36*1-0.18*6, strategy.Evaluate(b, 0), 1e-9)
	s.InDelta(-0.51*5-0.36*1-0.18*6+0.76*2, strategy.Evaluate(b, 2), 1e-9)
}
