package relay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/vstetris/internal/dependencies/mocks"
	"github.com/mcoot/vstetris/internal/model"
	"github.com/mcoot/vstetris/internal/protocol"
	"github.com/mcoot/vstetris/internal/storage/memory"
	"github.com/mcoot/vstetris/internal/testutil"
)

// gatedStorage holds SaveRoom until gate is closed
type gatedStorage struct {
	*memory.Storage
	gate chan struct{}
}

func (g *gatedStorage) SaveRoom(ctx context.Context, room *model.Room) error {
	select {
	case <-g.gate:
	case <-ctx.Done():
		return ctx.Err()
	}
	return g.Storage.SaveRoom(ctx, room)
}

type HubSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	hub     *Hub
	ctx     context.Context
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(mocks.Epoch)
	s.hub = NewHub(DefaultConfig(), s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
	go s.hub.Run()
}

func (s *HubSuite) TearDownTest() {
	s.hub.Close()
}

func (s *HubSuite) connect(id model.ConnID) *Client {
	c := NewClient(model.Connection{ID: id, ConnectedAt: s.clock.Now()}, 16)
	s.hub.Register(c)
	return c
}

func (s *HubSuite) send(c *Client, event string, payload any) {
	data, err := protocol.Encode(event, payload)
	s.Require().NoError(err)
	s.hub.Receive(c, data)
}

// sync waits until the hub has finished handling everything sent before it
func (s *HubSuite) sync() model.RelayStats {
	stats, err := s.hub.Stats(s.ctx)
	s.Require().NoError(err)
	return stats
}

func (s *HubSuite) recv(c *Client) protocol.Envelope {
	select {
	case data, ok := <-c.Send():
		s.Require().True(ok, "client channel closed")
		env, err := protocol.DecodeEnvelope(data)
		s.Require().NoError(err)
		return env
	case <-time.After(time.Second):
		s.FailNow("timed out waiting for message")
		return protocol.Envelope{}
	}
}

func (s *HubSuite) assertNothingQueued(c *Client) {
	s.sync()
	s.Empty(c.Send(), "unexpected message for %s", c.ID())
}

func (s *HubSuite) pair(a, b *Client) model.RoomID {
	s.send(a, protocol.EventJoinQueue, nil)
	s.send(b, protocol.EventJoinQueue, nil)
	env := s.recv(a)
	s.Require().Equal(protocol.EventMatchFound, env.Event)
	s.recv(b)
	match, err := protocol.DecodePayload[protocol.MatchFound](env)
	s.Require().NoError(err)
	return match.Room
}

// Matchmaking tests

func (s *HubSuite) TestFirstJoinWaits() {
	a := s.connect("a")

	s.send(a, protocol.EventJoinQueue, nil)

	stats := s.sync()
	s.True(stats.Waiting)
	s.Equal(0, stats.Rooms)
	s.Empty(a.Send())
}

func (s *HubSuite) TestSecondJoinPairs() {
	a := s.connect("a")
	b := s.connect("b")

	s.send(a, protocol.EventJoinQueue, nil)
	s.send(b, protocol.EventJoinQueue, nil)

	for _, c := range []*Client{a, b} {
		env := s.recv(c)
		s.Equal(protocol.EventMatchFound, env.Event)
		match, err := protocol.DecodePayload[protocol.MatchFound](env)
		s.Require().NoError(err)
		s.Equal(model.RoomID("a#b"), match.Room)
	}
	stats := s.sync()
	s.False(stats.Waiting)
	s.Equal(1, stats.Rooms)
	s.Equal(int64(1), stats.Matches)

	room, err := s.storage.GetRoom(s.ctx, "a#b")
	s.Require().NoError(err)
	s.Equal([]model.ConnID{"a", "b"}, room.Members)
	s.Equal(s.clock.Now(), room.CreatedAt)
}

func (s *HubSuite) TestThirdJoinerWaitsForNextSlot() {
	a := s.connect("a")
	b := s.connect("b")
	c := s.connect("c")
	d := s.connect("d")
	s.pair(a, b)

	s.send(c, protocol.EventJoinQueue, nil)
	s.True(s.sync().Waiting)
	s.send(d, protocol.EventJoinQueue, nil)

	env := s.recv(c)
	match, err := protocol.DecodePayload[protocol.MatchFound](env)
	s.Require().NoError(err)
	s.Equal(model.RoomID("c#d"), match.Room)
	s.Equal(2, s.sync().Rooms)
}

func (s *HubSuite) TestDoubleJoinDoesNotSelfPair() {
	a := s.connect("a")

	s.send(a, protocol.EventJoinQueue, nil)
	s.send(a, protocol.EventJoinQueue, nil)

	s.True(s.sync().Waiting)
	s.Empty(a.Send())
}

func (s *HubSuite) TestJoinWhileInRoomIsIgnored() {
	a := s.connect("a")
	b := s.connect("b")
	s.pair(a, b)

	s.send(a, protocol.EventJoinQueue, nil)

	s.False(s.sync().Waiting)
}

func (s *HubSuite) TestDisconnectClearsWaitingSlot() {
	a := s.connect("a")
	b := s.connect("b")
	s.send(a, protocol.EventJoinQueue, nil)
	s.Require().True(s.sync().Waiting)

	s.hub.Unregister(a)

	s.False(s.sync().Waiting)
	_, open := <-a.Send()
	s.False(open)

	s.send(b, protocol.EventJoinQueue, nil)
	stats := s.sync()
	s.True(stats.Waiting)
	s.Equal(0, stats.Rooms)
}

// Relay tests

func (s *HubSuite) TestGarbageReachesOnlyOpponent() {
	a := s.connect("a")
	b := s.connect("b")
	c := s.connect("c")
	d := s.connect("d")
	room := s.pair(a, b)
	s.pair(c, d)

	s.send(a, protocol.EventSendGarbage, protocol.SendGarbage{Room: room, Lines: 1})

	env := s.recv(b)
	s.Equal(protocol.EventReceiveGarbage, env.Event)
	garbage, err := protocol.DecodePayload[protocol.ReceiveGarbage](env)
	s.Require().NoError(err)
	s.Equal(1, garbage.Lines)
	s.assertNothingQueued(a)
	s.assertNothingQueued(c)
	s.assertNothingQueued(d)
}

func (s *HubSuite) TestUpdateStateRelayedVerbatim() {
	a := s.connect("a")
	b := s.connect("b")
	room := s.pair(a, b)
	state := []byte(`{"arena":[[0,8]],"matrix":[[1]],"pos":{"x":1,"y":2},"whatever":[1,2,3]}`)

	s.send(b, protocol.EventUpdateState, protocol.UpdateState{Room: room, State: state})

	env := s.recv(a)
	s.Equal(protocol.EventOpponentUpdate, env.Event)
	update, err := protocol.DecodePayload[protocol.OpponentUpdate](env)
	s.Require().NoError(err)
	s.JSONEq(string(state), string(update.State))
	s.assertNothingQueued(b)
}

func (s *HubSuite) TestMessagesForForeignRoomAreDropped() {
	a := s.connect("a")
	b := s.connect("b")
	c := s.connect("c")
	d := s.connect("d")
	s.pair(a, b)
	other := s.pair(c, d)

	s.send(a, protocol.EventSendGarbage, protocol.SendGarbage{Room: other, Lines: 4})
	s.send(a, protocol.EventSendGarbage, protocol.SendGarbage{Room: "nope", Lines: 4})

	s.assertNothingQueued(b)
	s.assertNothingQueued(c)
	s.assertNothingQueued(d)
}

func (s *HubSuite) TestMalformedAndUnknownMessagesAreIgnored() {
	a := s.connect("a")
	b := s.connect("b")
	room := s.pair(a, b)

	s.hub.Receive(a, []byte("garbage"))
	s.hub.Receive(a, []byte(`{"event":"send_garbage"}`))
	s.send(a, "teleport", protocol.RoomRef{Room: room})
	s.send(a, protocol.EventMatchFound, protocol.MatchFound{Room: room})

	s.assertNothingQueued(b)
	s.Equal(1, s.sync().Rooms)
}

func (s *HubSuite) TestGameOverRelaysAndClosesRoom() {
	a := s.connect("a")
	b := s.connect("b")
	room := s.pair(a, b)

	s.send(a, protocol.EventPlayerGameOver, protocol.PlayerGameOver{Room: room})

	env := s.recv(b)
	s.Equal(protocol.EventOpponentGameOver, env.Event)
	s.Empty(env.Data)
	s.Equal(0, s.sync().Rooms)
	exists, err := s.storage.RoomExists(s.ctx, room)
	s.Require().NoError(err)
	s.False(exists)

	// Both may queue again
	s.send(b, protocol.EventJoinQueue, nil)
	s.send(a, protocol.EventJoinQueue, nil)
	env = s.recv(b)
	s.Equal(protocol.EventMatchFound, env.Event)
}

func (s *HubSuite) TestDisconnectInRoomForfeits() {
	a := s.connect("a")
	b := s.connect("b")
	room := s.pair(a, b)

	s.hub.Unregister(b)

	env := s.recv(a)
	s.Equal(protocol.EventOpponentGameOver, env.Event)
	stats := s.sync()
	s.Equal(0, stats.Rooms)
	s.Equal(1, stats.Connections)
	exists, err := s.storage.RoomExists(s.ctx, room)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *HubSuite) TestMessagesFromUnregisteredClientIgnored() {
	a := s.connect("a")
	ghost := NewClient(model.Connection{ID: "ghost"}, 4)

	s.send(ghost, protocol.EventJoinQueue, nil)
	s.send(a, protocol.EventJoinQueue, nil)

	s.True(s.sync().Waiting)
	s.Empty(a.Send())
}

func (s *HubSuite) TestStatsAfterClose() {
	hub := NewHub(DefaultConfig(), s.storage, s.clock, testutil.NopLogger())
	hub.Close()

	_, err := hub.Stats(s.ctx)

	s.ErrorIs(err, model.ErrRelayClosed)
}

// Storage tests

func (s *HubSuite) TestSlowStorageDoesNotStallRelay() {
	s.hub.Close()
	gated := &gatedStorage{Storage: s.storage, gate: make(chan struct{})}
	s.hub = NewHub(DefaultConfig(), gated, s.clock, testutil.NopLogger())
	go s.hub.Run()

	a := s.connect("a")
	b := s.connect("b")
	room := s.pair(a, b)

	s.send(a, protocol.EventSendGarbage, protocol.SendGarbage{Room: room, Lines: 2})

	env := s.recv(b)
	s.Equal(protocol.EventReceiveGarbage, env.Event)
	exists, err := s.storage.RoomExists(s.ctx, room)
	s.Require().NoError(err)
	s.False(exists, "room saved before the write was released")

	close(gated.gate)
	s.Equal(int64(1), s.sync().Matches)
	exists, err = s.storage.RoomExists(s.ctx, room)
	s.Require().NoError(err)
	s.True(exists)
}
