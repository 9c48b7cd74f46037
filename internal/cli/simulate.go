package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/vstetris/internal/factory"
	"github.com/mcoot/vstetris/internal/model"
)

func newSimulateCmd() *cobra.Command {
	var (
		strategy  string
		pieces    int
		modeName  string
		showBoard bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a headless local game with a bot",
		Long: `Run a local game without a server. The bot places pieces one at a time
with hard drops until it tops out or reaches the piece limit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := model.ModeByName(modeName)
			if !ok {
				return fmt.Errorf("unknown mode %q: must be single or versus", modeName)
			}

			app, err := factory.New(factory.Config{Logger: logger()})
			if err != nil {
				return err
			}

			state := app.NewGame(mode)
			if err := app.GameController.Start(state); err != nil {
				return err
			}
			placed, err := app.BotService.Play(state, strategy, pieces)
			if err != nil {
				return err
			}

			result := SimulateResult{
				Strategy: strategy,
				Mode:     mode.Name,
				Pieces:   placed,
				Status:   string(state.Status),
				Score:    state.Score,
				Level:    state.Level,
				Lines:    state.Lines,
			}
			if showBoard {
				result.Board = state.Board.Rows()
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", model.BotStrategyHeuristic, "Bot strategy: "+strings.Join(model.ValidBotStrategies(), ", "))
	cmd.Flags().IntVar(&pieces, "pieces", 500, "Maximum pieces to place")
	cmd.Flags().StringVar(&modeName, "mode", model.ModeSingle.Name, "Board mode: single, versus")
	cmd.Flags().BoolVar(&showBoard, "board", false, "Include the final board")

	return cmd
}
