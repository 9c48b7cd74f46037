package versus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/vstetris/internal/model"
	"github.com/mcoot/vstetris/internal/protocol"
	"github.com/mcoot/vstetris/internal/services/game"
)

// Transport delivers outgoing events to the relay
type Transport interface {
	Send(event string, payload any) error
}

// Synchronizer keeps one local game and its opponent in step through the
// relay. The local GameState is authoritative; the opponent view is only
// ever displayed.
type Synchronizer struct {
	controller *game.Controller
	state      *model.GameState
	transport  Transport
	logger     *slog.Logger

	room     model.RoomID
	opponent model.OpponentView
}

// NewSynchronizer creates a Synchronizer for state
func NewSynchronizer(controller *game.Controller, state *model.GameState, transport Transport, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		controller: controller,
		state:      state,
		transport:  transport,
		logger:     logger.With(slog.String("component", "versus")),
	}
}

// Join asks the relay for an opponent
func (s *Synchronizer) Join() error {
	return s.transport.Send(protocol.EventJoinQueue, nil)
}

// Room returns the matched room, empty before a match
func (s *Synchronizer) Room() model.RoomID {
	return s.room
}

// Matched returns true once the relay paired this client
func (s *Synchronizer) Matched() bool {
	return s.room != ""
}

// Opponent returns the display-only view of the opponent
func (s *Synchronizer) Opponent() *model.OpponentView {
	return &s.opponent
}

// State returns the local game
func (s *Synchronizer) State() *model.GameState {
	return s.state
}

// Flush drains the local game's events and sends what the opponent needs:
// one send_garbage per attack, at most one update_state, and a final
// player_game_over on top out. The drained events are returned so callers
// can react to sounds.
func (s *Synchronizer) Flush() ([]model.Event, error) {
	events := s.state.DrainEvents()
	if !s.Matched() {
		return events, nil
	}

	changed := false
	for _, e := range events {
		switch e.Type {
		case model.EventAttack:
			if err := s.transport.Send(protocol.EventSendGarbage, protocol.SendGarbage{Room: s.room, Lines: e.Lines}); err != nil {
				return events, fmt.Errorf("send garbage: %w", err)
			}
		case model.EventStateChanged, model.EventDrop, model.EventGarbageReceived, model.EventHold, model.EventGameOver:
			changed = true
		}
	}

	if changed {
		if err := s.sendState(); err != nil {
			return events, err
		}
	}
	if model.ContainsType(events, model.EventGameOver) {
		if err := s.transport.Send(protocol.EventPlayerGameOver, protocol.PlayerGameOver{Room: s.room}); err != nil {
			return events, fmt.Errorf("send game over: %w", err)
		}
		s.logger.Info("topped out", slog.String("room_id", string(s.room)), slog.Int("score", s.state.Score))
	}
	return events, nil
}

func (s *Synchronizer) sendState() error {
	state, err := json.Marshal(s.controller.PeerState(s.state))
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.transport.Send(protocol.EventUpdateState, protocol.UpdateState{Room: s.room, State: state}); err != nil {
		return fmt.Errorf("send state: %w", err)
	}
	return nil
}

// Handle applies one message from the relay
func (s *Synchronizer) Handle(env protocol.Envelope) error {
	switch env.Event {
	case protocol.EventMatchFound:
		msg, err := protocol.DecodePayload[protocol.MatchFound](env)
		if err != nil {
			return err
		}
		s.room = msg.Room
		s.opponent = model.OpponentView{}
		s.logger.Info("matched", slog.String("room_id", string(s.room)))
		return nil

	case protocol.EventOpponentUpdate:
		msg, err := protocol.DecodePayload[protocol.OpponentUpdate](env)
		if err != nil {
			return err
		}
		var peer model.PeerState
		if err := json.Unmarshal(msg.State, &peer); err != nil {
			return fmt.Errorf("decode opponent state: %w", err)
		}
		s.opponent.Apply(peer)
		return nil

	case protocol.EventReceiveGarbage:
		msg, err := protocol.DecodePayload[protocol.ReceiveGarbage](env)
		if err != nil {
			return err
		}
		s.controller.ApplyGarbage(s.state, msg.Lines)
		_, err = s.Flush()
		return err

	case protocol.EventOpponentGameOver:
		s.opponent.MarkToppedOut()
		s.controller.Win(s.state)
		s.logger.Info("opponent topped out", slog.String("room_id", string(s.room)))
		return nil

	default:
		return fmt.Errorf("%s: %w", env.Event, model.ErrUnknownMessage)
	}
}

// WaitForMatch handles messages until the relay pairs this client
func (s *Synchronizer) WaitForMatch(ctx context.Context, incoming <-chan protocol.Envelope) error {
	for !s.Matched() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-incoming:
			if !ok {
				return model.ErrNotMatched
			}
			if err := s.Handle(env); err != nil {
				s.logger.Debug("ignoring message before match", slog.String("error", err.Error()))
			}
		}
	}
	return nil
}

// Run drives the local game at a fixed tick, interleaving relay messages as
// they arrive, until the game finishes. step advances the local game by one
// tick.
func (s *Synchronizer) Run(ctx context.Context, incoming <-chan protocol.Envelope, tick time.Duration, step func(elapsed time.Duration)) (model.GameStatus, error) {
	if !s.Matched() {
		return s.state.Status, model.ErrNotMatched
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	if _, err := s.Flush(); err != nil {
		return s.state.Status, err
	}
	for !s.state.IsFinished() {
		select {
		case <-ctx.Done():
			return s.state.Status, ctx.Err()

		case env, ok := <-incoming:
			if !ok {
				return s.state.Status, fmt.Errorf("relay closed: %w", model.ErrRelayClosed)
			}
			if err := s.Handle(env); err != nil {
				s.logger.Debug("ignoring message", slog.String("error", err.Error()))
			}

		case <-ticker.C:
			step(tick)
			if _, err := s.Flush(); err != nil {
				return s.state.Status, err
			}
		}
	}
	return s.state.Status, nil
}
