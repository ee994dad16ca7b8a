package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/timonchiklol/console-rpg/internal/game"
	"github.com/timonchiklol/console-rpg/pkg/chat"
)

// ActionHandler serves the main turn endpoint: POST /v1/action with a
// free-text player message.
type ActionHandler struct {
	orch   *game.Orchestrator
	logger *slog.Logger
}

func NewActionHandler(orch *game.Orchestrator, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{orch: orch, logger: logger}
}

func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var req chat.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'message' field.")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Debug("Action received",
		"room_id", req.RoomID,
		"player_id", req.PlayerID)

	result, err := h.orch.ProcessAction(r.Context(), req.RoomID, req.PlayerID, req.Message)
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
