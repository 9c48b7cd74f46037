package response

import (
	"time"

	"github.com/mcoot/vstetris/internal/model"
)

// Health is the response for the health check endpoint
type Health struct {
	Status string `json:"status"`
}

// Room represents a relay room in API responses
type Room struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomFromModel converts model.Room to a response Room
func RoomFromModel(r *model.Room) Room {
	members := make([]string, len(r.Members))
	for i, m := range r.Members {
		members[i] = string(m)
	}
	return Room{
		ID:        string(r.ID),
		State:     string(r.State),
		Members:   members,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// RoomList is the response for listing rooms
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// RoomListFromModel converts a slice of rooms, never producing a null list
func RoomListFromModel(rooms []*model.Room) RoomList {
	out := make([]Room, len(rooms))
	for i, r := range rooms {
		out[i] = RoomFromModel(r)
	}
	return RoomList{Rooms: out}
}

// Stats is the response for the relay stats endpoint
type Stats struct {
	Connections int   `json:"connections"`
	Waiting     bool  `json:"waiting"`
	Rooms       int   `json:"rooms"`
	Matches     int64 `json:"matches"`
}

// StatsFromModel converts model.RelayStats
func StatsFromModel(s model.RelayStats) Stats {
	return Stats{
		Connections: s.Connections,
		Waiting:     s.Waiting,
		Rooms:       s.Rooms,
		Matches:     s.Matches,
	}
}
