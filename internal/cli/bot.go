package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/vstetris/internal/factory"
	"github.com/mcoot/vstetris/internal/model"
	"github.com/mcoot/vstetris/internal/services/game"
	"github.com/mcoot/vstetris/internal/services/input"
	"github.com/mcoot/vstetris/internal/services/versus"
)

func newBotCmd() *cobra.Command {
	var (
		strategy string
		tick     time.Duration
		think    time.Duration
		wait     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Join the relay queue and play a versus match with a bot",
		Long: `Connect to the relay websocket, wait for an opponent and play one match.
The local game runs with real gravity; the bot places a piece every --think.

Press Ctrl+C to forfeit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBot(ctx, strategy, tick, think, wait)
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", model.BotStrategyHeuristic, "Bot strategy: "+strings.Join(model.ValidBotStrategies(), ", "))
	cmd.Flags().DurationVar(&tick, "tick", 16*time.Millisecond, "Game tick interval")
	cmd.Flags().DurationVar(&think, "think", 250*time.Millisecond, "Time between bot placements")
	cmd.Flags().DurationVar(&wait, "wait", time.Minute, "How long to wait for an opponent")

	return cmd
}

func runBot(ctx context.Context, strategy string, tick, think, wait time.Duration) error {
	log := logger()
	app, err := factory.New(factory.Config{Logger: log})
	if err != nil {
		return err
	}
	if _, err := app.BotService.Strategy(strategy); err != nil {
		return err
	}

	conn, err := versus.Dial(ctx, cfg.WebsocketURL(), log)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	state := app.NewGame(model.ModeVersus)
	session := game.NewSession(app.GameController, input.DefaultConfig(), state)
	vs := versus.NewSynchronizer(app.GameController, state, conn, log)

	if err := vs.Join(); err != nil {
		return fmt.Errorf("join queue: %w", err)
	}
	waitCtx, cancel := context.WithTimeout(ctx, wait)
	err = vs.WaitForMatch(waitCtx, conn.Incoming())
	cancel()
	if err != nil {
		return fmt.Errorf("waiting for opponent: %w", err)
	}

	if err := session.Start(); err != nil {
		return err
	}

	pieces := 0
	var sinceThink time.Duration
	status, err := vs.Run(ctx, conn.Incoming(), tick, func(elapsed time.Duration) {
		session.Step(elapsed)
		sinceThink += elapsed
		if sinceThink < think || !state.IsPlaying() {
			return
		}
		sinceThink = 0
		if _, err := app.BotService.Act(state, strategy); err != nil {
			log.Debug("bot could not act", slog.String("error", err.Error()))
			return
		}
		pieces++
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	NewOutput(cfg.Output).Print(BotResult{
		Room:     string(vs.Room()),
		Strategy: strategy,
		Result:   matchResult(status),
		Pieces:   pieces,
		Score:    state.Score,
		Lines:    state.Lines,
	})
	return nil
}

func matchResult(status model.GameStatus) string {
	switch status {
	case model.GameStatusWon:
		return "won"
	case model.GameStatusOver:
		return "lost"
	default:
		return "abandoned"
	}
}
