package protocol

import (
	"encoding/json"

	"github.com/mcoot/vstetris/internal/model"
)

// Client to relay events
const (
	EventJoinQueue      = "join_queue"
	EventUpdateState    = "update_state"
	EventSendGarbage    = "send_garbage"
	EventPlayerGameOver = "player_game_over"
)

// Relay to client events
const (
	EventMatchFound       = "match_found"
	EventOpponentUpdate   = "opponent_update"
	EventReceiveGarbage   = "receive_garbage"
	EventOpponentGameOver = "opponent_game_over"
)

// Envelope is the framing of every message on the socket
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// RoomRef is the part of every room-scoped payload the relay routes on
type RoomRef struct {
	Room model.RoomID `json:"room"`
}

type MatchFound struct {
	Room model.RoomID `json:"room"`
}

// UpdateState carries the sender's board. The relay forwards State without
// looking inside it.
type UpdateState struct {
	Room  model.RoomID    `json:"room"`
	State json.RawMessage `json:"state"`
}

type OpponentUpdate struct {
	State json.RawMessage `json:"state"`
}

type SendGarbage struct {
	Room  model.RoomID `json:"room"`
	Lines int          `json:"lines"`
}

type ReceiveGarbage struct {
	Lines int `json:"lines"`
}

type PlayerGameOver struct {
	Room model.RoomID `json:"room"`
}

// Relayed maps a room-scoped client event to the event its peers receive
func Relayed(event string) (string, bool) {
	switch event {
	case EventUpdateState:
		return EventOpponentUpdate, true
	case EventSendGarbage:
		return EventReceiveGarbage, true
	case EventPlayerGameOver:
		return EventOpponentGameOver, true
	default:
		return "", false
	}
}
