package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/timonchiklol/console-rpg/internal/game"
	"github.com/timonchiklol/console-rpg/pkg/character"
	"github.com/timonchiklol/console-rpg/pkg/state"
)

// CharacterHandler serves character creation and the race/class catalog:
//
//	GET  /v1/characters/options  list races and classes (localized)
//	POST /v1/characters          create a character
type CharacterHandler struct {
	orch   *game.Orchestrator
	logger *slog.Logger
}

func NewCharacterHandler(orch *game.Orchestrator, logger *slog.Logger) *CharacterHandler {
	return &CharacterHandler{orch: orch, logger: logger}
}

type CreateCharacterRequest struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Race     string `json:"race"`
	Class    string `json:"class"`
}

type CreateCharacterResponse struct {
	RoomID   string              `json:"room_id"`
	Messages []state.RoomMessage `json:"messages"`
	Started  bool                `json:"started"`
}

type OptionsResponse struct {
	Races   []string `json:"races"`
	Classes []string `json:"classes"`
}

func (h *CharacterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/v1/characters/options" && r.Method == http.MethodGet:
		h.options(w, r)
	case r.URL.Path == "/v1/characters" && r.Method == http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed.")
	}
}

// options lists the playable races and classes, localized when the lang
// query parameter asks for it.
func (h *CharacterHandler) options(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")

	races := character.Races()
	classes := character.Classes()
	out := OptionsResponse{
		Races:   make([]string, len(races)),
		Classes: make([]string, len(classes)),
	}
	for i, race := range races {
		out.Races[i] = character.DisplayRace(lang, race)
	}
	for i, class := range classes {
		out.Classes[i] = character.DisplayClass(lang, class)
	}
	writeJSON(w, h.logger, http.StatusOK, out)
}

func (h *CharacterHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.RoomID == "" || req.PlayerID == "" || req.Race == "" || req.Class == "" {
		writeError(w, h.logger, http.StatusBadRequest, "room_id, player_id, race and class are required.")
		return
	}

	result, err := h.orch.CreateCharacter(r.Context(), req.RoomID, req.PlayerID, req.Name, req.Race, req.Class)
	if err != nil {
		writeGameError(w, h.logger, err)
		return
	}

	h.logger.Info("Character created",
		"room_id", req.RoomID,
		"player_id", req.PlayerID,
		"race", req.Race,
		"class", req.Class)

	writeJSON(w, h.logger, http.StatusCreated, CreateCharacterResponse{
		RoomID:   result.RoomID,
		Messages: result.Messages,
		Started:  len(result.Messages) > 1,
	})
}
