package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/vstetris/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.RoomTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func newRoom(waiting, joiner model.ConnID, createdAt time.Time) *model.Room {
	return &model.Room{
		ID:        model.NewRoomID(waiting, joiner),
		State:     model.RoomStatePlaying,
		Members:   []model.ConnID{waiting, joiner},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := newRoom("a", "b", time.Now().UTC())

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "a#b")
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
	s.Equal(room.Members, retrieved.Members)
	s.Equal(model.RoomStatePlaying, retrieved.State)
	s.True(room.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestRoomHasTTL() {
	room := newRoom("a", "b", time.Now())
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	s.Equal(time.Hour, s.mini.TTL(roomKey(room.ID)))
}

func (s *StorageSuite) TestDeleteRoomRemovesIndexEntry() {
	room := newRoom("a", "b", time.Now())
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	err := s.storage.DeleteRoom(s.ctx, room.ID)
	s.Require().NoError(err)

	exists, err := s.storage.RoomExists(s.ctx, room.ID)
	s.Require().NoError(err)
	s.False(exists)
	members, err := s.mini.Members(roomIndexKey())
	if err == nil {
		s.Empty(members)
	}
}

func (s *StorageSuite) TestListRoomsOrderedByCreation() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveRoom(s.ctx, newRoom("c", "d", base.Add(time.Minute)))
	_ = s.storage.SaveRoom(s.ctx, newRoom("a", "b", base))

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(rooms, 2)
	s.Equal(model.RoomID("a#b"), rooms[0].ID)
	s.Equal(model.RoomID("c#d"), rooms[1].ID)
}

func (s *StorageSuite) TestListRoomsSkipsExpired() {
	_ = s.storage.SaveRoom(s.ctx, newRoom("a", "b", time.Now()))
	s.mini.FastForward(2 * time.Hour)
	_ = s.storage.SaveRoom(s.ctx, newRoom("c", "d", time.Now()))

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(rooms, 1)
	s.Equal(model.RoomID("c#d"), rooms[0].ID)
	members, err := s.mini.Members(roomIndexKey())
	s.Require().NoError(err)
	s.Equal([]string{roomKey("c#d")}, members)
}

func (s *StorageSuite) TestListRoomsEmpty() {
	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rooms)
}

// Counter tests

func (s *StorageSuite) TestMatchCount() {
	count, err := s.storage.MatchCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), count)

	s.Require().NoError(s.storage.RecordMatch(s.ctx))
	s.Require().NoError(s.storage.RecordMatch(s.ctx))

	count, err = s.storage.MatchCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}
