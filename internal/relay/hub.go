package relay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/vstetris/internal/dependencies/clock"
	"github.com/mcoot/vstetris/internal/model"
	"github.com/mcoot/vstetris/internal/protocol"
	"github.com/mcoot/vstetris/internal/storage"
)

const storageTimeout = 2 * time.Second

type inbound struct {
	client *Client
	data   []byte
}

// storageWrite is a room registry update applied off the Run loop
type storageWrite struct {
	op     string
	roomID model.RoomID
	apply  func(ctx context.Context) error
	done   chan struct{} // Closed once applied, nil unless flushing
}

// Hub pairs waiting connections and relays room-scoped messages between
// room members. All state is owned by the Run loop, so pairing is atomic.
// Storage writes are queued to a single writer goroutine in order, so a
// slow backend never stalls relay traffic.
type Hub struct {
	config  Config
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	clients  map[model.ConnID]*Client
	waiting  *Client
	rooms    map[model.RoomID]*model.Room
	memberOf map[model.ConnID]model.RoomID

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	stats      chan chan model.RelayStats
	writes     chan storageWrite
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new relay Hub
func NewHub(config Config, storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Hub {
	return &Hub{
		config:     config,
		storage:    storage,
		clock:      clock,
		logger:     logger.With(slog.String("component", "relay")),
		clients:    make(map[model.ConnID]*Client),
		rooms:      make(map[model.RoomID]*model.Room),
		memberOf:   make(map[model.ConnID]model.RoomID),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		stats:      make(chan chan model.RelayStats),
		writes:     make(chan storageWrite, max(config.StorageQueueSize, 1)),
		done:       make(chan struct{}),
	}
}

// Config returns the hub's socket settings
func (h *Hub) Config() Config {
	return h.config
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("relay hub started")
	go h.runWriter()
	for {
		select {
		case client := <-h.register:
			h.clients[client.ID()] = client
			h.logger.Info("connection registered",
				slog.String("conn_id", string(client.ID())),
				slog.String("remote_addr", client.conn.RemoteAddr),
				slog.Int("total_connections", len(h.clients)))

		case client := <-h.unregister:
			h.drop(client)

		case msg := <-h.inbound:
			h.handle(msg.client, msg.data)

		case reply := <-h.stats:
			reply <- model.RelayStats{
				Connections: len(h.clients),
				Waiting:     h.waiting != nil,
				Rooms:       len(h.rooms),
			}

		case <-h.done:
			count := len(h.clients)
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.logger.Info("relay hub stopped", slog.Int("disconnected_clients", count))
			return
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client, clearing the waiting slot or ending its room
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Receive hands an inbound frame from client to the hub
func (h *Hub) Receive(client *Client, data []byte) {
	select {
	case h.inbound <- inbound{client: client, data: data}:
	case <-h.done:
	}
}

// Stats returns the current connection, queue and room counts plus the
// total matches recorded in storage. Room writes queued before the call are
// applied first.
func (h *Hub) Stats(ctx context.Context) (model.RelayStats, error) {
	reply := make(chan model.RelayStats, 1)
	select {
	case h.stats <- reply:
	case <-h.done:
		return model.RelayStats{}, model.ErrRelayClosed
	case <-ctx.Done():
		return model.RelayStats{}, ctx.Err()
	}

	stats := <-reply
	if err := h.flush(ctx); err != nil {
		return stats, err
	}
	matches, err := h.storage.MatchCount(ctx)
	if err != nil {
		return stats, err
	}
	stats.Matches = matches
	return stats, nil
}

// Close shuts down the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// flush waits for every storage write queued so far. Callers must have made
// a round trip through the Run loop first so its writes are already queued.
func (h *Hub) flush(ctx context.Context) error {
	barrier := storageWrite{op: "flush", done: make(chan struct{})}
	select {
	case h.writes <- barrier:
	case <-h.done:
		return model.ErrRelayClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-barrier.done:
		return nil
	case <-h.done:
		return model.ErrRelayClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// persist queues a storage write without blocking the loop
func (h *Hub) persist(op string, roomID model.RoomID, apply func(ctx context.Context) error) {
	select {
	case h.writes <- storageWrite{op: op, roomID: roomID, apply: apply}:
	default:
		h.logger.Warn("storage write dropped - queue full",
			slog.String("op", op),
			slog.String("room_id", string(roomID)))
	}
}

// runWriter applies queued storage writes in order until the hub closes,
// then applies whatever is still queued
func (h *Hub) runWriter() {
	for {
		select {
		case w := <-h.writes:
			h.applyWrite(w)
		case <-h.done:
			for {
				select {
				case w := <-h.writes:
					h.applyWrite(w)
				default:
					return
				}
			}
		}
	}
}

func (h *Hub) applyWrite(w storageWrite) {
	if w.done != nil {
		close(w.done)
	}
	if w.apply == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	if err := w.apply(ctx); err != nil {
		h.logger.Warn("storage write failed",
			slog.String("op", w.op),
			slog.String("room_id", string(w.roomID)),
			slog.String("error", err.Error()))
	}
}

func (h *Hub) handle(client *Client, data []byte) {
	if _, ok := h.clients[client.ID()]; !ok {
		return
	}

	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		h.logger.Debug("ignoring malformed message",
			slog.String("conn_id", string(client.ID())),
			slog.String("error", err.Error()))
		return
	}

	if env.Event == protocol.EventJoinQueue {
		h.join(client)
		return
	}

	out, ok := protocol.Relayed(env.Event)
	if !ok {
		h.logger.Debug("ignoring unknown event",
			slog.String("conn_id", string(client.ID())),
			slog.String("event", env.Event))
		return
	}
	h.relay(client, env, out)
}

// join parks the client or pairs it with the parked one
func (h *Hub) join(client *Client) {
	if h.waiting == client {
		return
	}
	if _, inRoom := h.memberOf[client.ID()]; inRoom {
		h.logger.Debug("join ignored, already in a room", slog.String("conn_id", string(client.ID())))
		return
	}
	if h.waiting == nil {
		h.waiting = client
		h.logger.Info("connection waiting for opponent", slog.String("conn_id", string(client.ID())))
		return
	}

	waiting := h.waiting
	h.waiting = nil

	now := h.clock.Now()
	room := &model.Room{
		ID:        model.NewRoomID(waiting.ID(), client.ID()),
		State:     model.RoomStatePlaying,
		Members:   []model.ConnID{waiting.ID(), client.ID()},
		CreatedAt: now,
		UpdatedAt: now,
	}
	h.rooms[room.ID] = room
	h.memberOf[waiting.ID()] = room.ID
	h.memberOf[client.ID()] = room.ID

	msg, err := protocol.Encode(protocol.EventMatchFound, protocol.MatchFound{Room: room.ID})
	if err != nil {
		h.logger.Error("failed to encode match", slog.String("error", err.Error()))
		return
	}
	h.deliver(waiting, msg)
	h.deliver(client, msg)

	saved := *room
	saved.Members = append([]model.ConnID(nil), room.Members...)
	h.persist("save_room", room.ID, func(ctx context.Context) error {
		return h.storage.SaveRoom(ctx, &saved)
	})
	h.persist("record_match", room.ID, h.storage.RecordMatch)

	h.logger.Info("match found",
		slog.String("room_id", string(room.ID)),
		slog.Int("total_rooms", len(h.rooms)))
}

// relay forwards a room-scoped event to every other member of the room
func (h *Hub) relay(client *Client, env protocol.Envelope, out string) {
	ref, err := protocol.DecodePayload[protocol.RoomRef](env)
	if err != nil {
		h.logger.Debug("ignoring message without room",
			slog.String("conn_id", string(client.ID())),
			slog.String("event", env.Event))
		return
	}
	room, ok := h.rooms[ref.Room]
	if !ok || !room.HasMember(client.ID()) {
		h.logger.Debug("ignoring message for foreign room",
			slog.String("conn_id", string(client.ID())),
			slog.String("room_id", string(ref.Room)))
		return
	}

	var payload any
	switch env.Event {
	case protocol.EventUpdateState:
		msg, err := protocol.DecodePayload[protocol.UpdateState](env)
		if err != nil {
			return
		}
		payload = protocol.OpponentUpdate{State: msg.State}
	case protocol.EventSendGarbage:
		msg, err := protocol.DecodePayload[protocol.SendGarbage](env)
		if err != nil {
			return
		}
		payload = protocol.ReceiveGarbage{Lines: msg.Lines}
	}

	data, err := protocol.Encode(out, payload)
	if err != nil {
		h.logger.Error("failed to encode relay", slog.String("error", err.Error()))
		return
	}
	for _, id := range room.Others(client.ID()) {
		if other, ok := h.clients[id]; ok {
			h.deliver(other, data)
		}
	}

	if env.Event == protocol.EventPlayerGameOver {
		h.closeRoom(room, "game_over")
	}
}

// drop forgets a client. A parked client frees the slot; a client in a room
// forfeits and the room is closed.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client.ID()]; !ok {
		return
	}
	if h.waiting == client {
		h.waiting = nil
	}
	if roomID, ok := h.memberOf[client.ID()]; ok {
		room := h.rooms[roomID]
		if data, err := protocol.Encode(protocol.EventOpponentGameOver, nil); err == nil {
			for _, id := range room.Others(client.ID()) {
				if other, ok := h.clients[id]; ok {
					h.deliver(other, data)
				}
			}
		}
		h.closeRoom(room, "disconnect")
	}

	delete(h.clients, client.ID())
	close(client.send)
	h.logger.Info("connection unregistered",
		slog.String("conn_id", string(client.ID())),
		slog.Duration("connection_duration", h.clock.Since(client.conn.ConnectedAt)),
		slog.Int("total_connections", len(h.clients)))
}

func (h *Hub) closeRoom(room *model.Room, reason string) {
	room.State = model.RoomStateFinished
	room.UpdatedAt = h.clock.Now()
	for _, id := range room.Members {
		delete(h.memberOf, id)
	}
	delete(h.rooms, room.ID)

	roomID := room.ID
	h.persist("delete_room", roomID, func(ctx context.Context) error {
		return h.storage.DeleteRoom(ctx, roomID)
	})

	h.logger.Info("room closed",
		slog.String("room_id", string(room.ID)),
		slog.String("reason", reason),
		slog.Duration("duration", room.UpdatedAt.Sub(room.CreatedAt)))
}

// deliver queues a message without blocking the loop
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.logger.Warn("message dropped - client buffer full",
			slog.String("conn_id", string(client.ID())))
	}
}
