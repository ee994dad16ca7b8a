package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/timonchiklol/console-rpg/internal/rooms"
	"github.com/timonchiklol/console-rpg/pkg/character"
)

// RoomHandler serves room lifecycle endpoints:
//
//	POST   /v1/rooms            create a room
//	GET    /v1/rooms            list saved room IDs
//	GET    /v1/rooms/{id}       fetch a room snapshot
//	POST   /v1/rooms/{id}/join  join (idempotent)
//	POST   /v1/rooms/{id}/leave leave, with host failover
type RoomHandler struct {
	store  *rooms.Store
	logger *slog.Logger
}

func NewRoomHandler(store *rooms.Store, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{store: store, logger: logger}
}

type CreateRoomRequest struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

type JoinRoomRequest struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

type LeaveRoomRequest struct {
	PlayerID string `json:"player_id"`
}

type RoomListResponse struct {
	Rooms []string `json:"rooms"`
}

func (h *RoomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/rooms"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case rest == "" && r.Method == http.MethodPost:
		h.create(w, r)
	case rest == "" && r.Method == http.MethodGet:
		h.list(w, r)
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.get(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "join" && r.Method == http.MethodPost:
		h.join(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "leave" && r.Method == http.MethodPost:
		h.leave(w, r, parts[0])
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed.")
	}
}

func (h *RoomHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.PlayerID == "" || req.Name == "" {
		writeError(w, h.logger, http.StatusBadRequest, "player_id and name are required.")
		return
	}

	room, err := h.store.Create(r.Context(), req.PlayerID, req.Name, character.MatchLanguage(req.Language))
	if err != nil {
		writeGameError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, room)
}

func (h *RoomHandler) list(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.List(r.Context())
	if err != nil {
		writeGameError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, RoomListResponse{Rooms: ids})
}

func (h *RoomHandler) get(w http.ResponseWriter, r *http.Request, roomID string) {
	room, err := h.store.Get(r.Context(), roomID)
	if err != nil {
		writeGameError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, room)
}

func (h *RoomHandler) join(w http.ResponseWriter, r *http.Request, roomID string) {
	var req JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.PlayerID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "player_id is required.")
		return
	}

	room, err := h.store.Join(r.Context(), roomID, req.PlayerID, req.Name)
	if err != nil {
		writeGameError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, room)
}

func (h *RoomHandler) leave(w http.ResponseWriter, r *http.Request, roomID string) {
	var req LeaveRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.store.Leave(r.Context(), roomID, req.PlayerID); err != nil {
		writeGameError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, struct {
		Left bool `json:"left"`
	}{Left: true})
}
