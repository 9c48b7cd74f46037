package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/vstetris/internal/api/response"
	"github.com/mcoot/vstetris/internal/model"
	"github.com/mcoot/vstetris/internal/storage"
)

// RoomHandler serves the live room registry
type RoomHandler struct {
	storage storage.Storage
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(storage storage.Storage) *RoomHandler {
	return &RoomHandler{storage: storage}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.storage.ListRooms(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomListFromModel(rooms))
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])
	if id == "" {
		WriteError(w, NewInvalidRequestError("room id is required"))
		return
	}

	room, err := h.storage.GetRoom(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(room))
}
