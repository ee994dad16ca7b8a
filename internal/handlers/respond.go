package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/timonchiklol/console-rpg/internal/game"
	"github.com/timonchiklol/console-rpg/internal/rooms"
	"github.com/timonchiklol/console-rpg/pkg/character"
)

// ErrorResponse is the JSON error envelope for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// writeGameError maps domain errors onto HTTP statuses. Unrecognized errors
// are internal; their details stay in the log.
func writeGameError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound):
		writeError(w, logger, http.StatusNotFound, "Room not found.")
	case errors.Is(err, rooms.ErrPlayerNotFound):
		writeError(w, logger, http.StatusNotFound, "Player is not in this room.")
	case errors.Is(err, game.ErrNoCharacter),
		errors.Is(err, game.ErrCharacterExists),
		errors.Is(err, game.ErrGameNotStarted),
		errors.Is(err, game.ErrRollPending),
		errors.Is(err, game.ErrNoRollPending),
		errors.Is(err, game.ErrInvalidCombatAction),
		errors.Is(err, character.ErrUnknownRace),
		errors.Is(err, character.ErrUnknownClass):
		writeError(w, logger, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Request failed", "error", err)
		writeError(w, logger, http.StatusInternalServerError, "Internal server error.")
	}
}
