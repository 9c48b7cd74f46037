package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/vstetris/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
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
	room := newRoom("a", "b", time.Now())

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "a#b")
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
	s.Equal(room.Members, retrieved.Members)
	s.Equal(model.RoomStatePlaying, retrieved.State)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestStoredRoomIsACopy() {
	room := newRoom("a", "b", time.Now())
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	room.Members[0] = "mutated"

	retrieved, err := s.storage.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.ConnID("a"), retrieved.Members[0])
}

func (s *StorageSuite) TestDeleteRoom() {
	room := newRoom("a", "b", time.Now())
	_ = s.storage.SaveRoom(s.ctx, room)

	err := s.storage.DeleteRoom(s.ctx, room.ID)
	s.Require().NoError(err)

	exists, err := s.storage.RoomExists(s.ctx, room.ID)
	s.Require().NoError(err)
	s.False(exists)
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
