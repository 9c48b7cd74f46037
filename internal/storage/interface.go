package storage

import (
	"context"

	"github.com/mcoot/vstetris/internal/model"
)

// Storage defines the interface for the relay's live room registry
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// Counters
	RecordMatch(ctx context.Context) error
	MatchCount(ctx context.Context) (int64, error)
}
