package bot

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/mcoot/vstetris/internal/dependencies/random"
	"github.com/mcoot/vstetris/internal/model"
	"github.com/mcoot/vstetris/internal/services/game"
	"github.com/mcoot/vstetris/internal/services/rotation"
)

// Service plays games on behalf of bots
type Service struct {
	controller *game.Controller
	strategies map[string]Strategy
	logger     *slog.Logger
}

// NewService creates a new bot Service
func NewService(controller *game.Controller, strategies map[string]Strategy, logger *slog.Logger) *Service {
	return &Service{
		controller: controller,
		strategies: strategies,
		logger:     logger.With(slog.String("component", "bot-service")),
	}
}

// Strategies returns the registered strategy names in sorted order
func (s *Service) Strategies() []string {
	names := make([]string, 0, len(s.strategies))
	for name := range s.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Strategy looks up a strategy by name
func (s *Service) Strategy(name string) (Strategy, error) {
	st, ok := s.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownStrategy, name)
	}
	return st, nil
}

// Act chooses a placement for the active piece, steers it there and hard
// drops. Rotations go through SRS, so kicks can shift the final column.
func (s *Service) Act(state *model.GameState, strategyName string) (Placement, error) {
	st, err := s.Strategy(strategyName)
	if err != nil {
		return Placement{}, err
	}
	switch {
	case state.IsFinished():
		return Placement{}, model.ErrGameOver
	case !state.IsPlaying():
		return Placement{}, model.ErrGameNotStarted
	}

	target := st.ChoosePlacement(state)
	for i := 0; i < target.Rotations; i++ {
		if !s.controller.Rotate(state, rotation.CW) {
			break
		}
	}
	for state.Pos.X != target.X {
		dir := 1
		if target.X < state.Pos.X {
			dir = -1
		}
		if !s.controller.Move(state, dir) {
			break
		}
	}
	s.controller.HardDrop(state)
	return target, nil
}

// Play acts until the game ends or maxPieces pieces have been placed.
// Returns the number of pieces placed. Queued events are drained after each
// placement since nothing renders a headless game.
func (s *Service) Play(state *model.GameState, strategyName string, maxPieces int) (int, error) {
	placed, sounds := 0, 0
	for placed < maxPieces && state.IsPlaying() {
		if _, err := s.Act(state, strategyName); err != nil {
			return placed, err
		}
		placed++
		for _, e := range state.DrainEvents() {
			if e.IsSound() {
				sounds++
			}
		}
	}
	s.logger.Debug("bot finished",
		slog.String("strategy", strategyName),
		slog.Int("pieces", placed),
		slog.Int("sounds", sounds),
		slog.Int("score", state.Score),
		slog.Int("lines", state.Lines))
	return placed, nil
}

// DefaultStrategies returns the built-in strategies keyed by name
func DefaultStrategies(rnd random.Random) map[string]Strategy {
	return map[string]Strategy{
		model.BotStrategyRandom:    NewRandomStrategy(rnd),
		model.BotStrategyHeuristic: NewHeuristicStrategy(DefaultWeights()),
	}
}
