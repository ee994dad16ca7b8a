package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/timonchiklol/console-rpg/internal/game"
	"github.com/timonchiklol/console-rpg/pkg/chat"
)

// RollHandler serves POST /v1/roll, resolving a player's pending dice roll.
type RollHandler struct {
	orch   *game.Orchestrator
	logger *slog.Logger
}

func NewRollHandler(orch *game.Orchestrator, logger *slog.Logger) *RollHandler {
	return &RollHandler{orch: orch, logger: logger}
}

type RollRequest struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}

func (h *RollHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var req RollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.RoomID == "" || req.PlayerID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "room_id and player_id are required.")
		return
	}

	result, err := h.orch.SubmitRoll(r.Context(), req.RoomID, req.PlayerID)
	if err != nil {
		writeGameError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, chat.ActionResponse{
		RoomID:         result.RoomID,
		Messages:       result.Messages,
		DiceRollNeeded: result.DiceRollNeeded,
		DiceType:       result.DiceType,
		InCombat:       result.InCombat,
	})
}
