package model

import "time"

// RoomID identifies a paired versus match on the relay
type RoomID string

// RoomState represents the lifecycle of a room
type RoomState string

const (
	RoomStatePlaying  RoomState = "playing"  // Both members connected
	RoomStateFinished RoomState = "finished" // A member topped out or disconnected
)

// Room is a relay-side pairing of exactly two connections
type Room struct {
	ID        RoomID
	State     RoomState
	Members   []ConnID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMember returns true if the connection belongs to the room
func (r *Room) HasMember(id ConnID) bool {
	for _, m := range r.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Others returns every member except the given connection
func (r *Room) Others(id ConnID) []ConnID {
	var out []ConnID
	for _, m := range r.Members {
		if m != id {
			out = append(out, m)
		}
	}
	return out
}

// NewRoomID derives the room identifier from the parked and joining connections
func NewRoomID(waiting, joiner ConnID) RoomID {
	return RoomID(string(waiting) + "#" + string(joiner))
}

// RelayStats is a point-in-time view of the relay
type RelayStats struct {
	Connections int   `json:"connections"`
	Waiting     bool  `json:"waiting"`
	Rooms       int   `json:"rooms"`
	Matches     int64 `json:"matches"`
}
