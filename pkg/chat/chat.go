// Package chat defines the message types exchanged between players, the
// api, and the language model.
package chat

import (
	"fmt"
	"strings"

	"github.com/timonchiklol/console-rpg/pkg/state"
)

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Dungeon master
	ChatRoleSystem = "system"    // Rules and instructions
)

// ChatMessage is a single message in the conversation sent to the LLM.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// MaxMessageLength bounds a single player submission. Longer input is
// rejected rather than truncated.
const MaxMessageLength = 1000

// ActionRequest is a player's free-text turn submission to the api.
type ActionRequest struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	Message  string `json:"message"`
}

func (ar *ActionRequest) Validate() error {
	if ar.RoomID == "" {
		return fmt.Errorf("room_id cannot be empty")
	}
	if ar.PlayerID == "" {
		return fmt.Errorf("player_id cannot be empty")
	}
	if strings.TrimSpace(ar.Message) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if len(ar.Message) > MaxMessageLength {
		return fmt.Errorf("message exceeds maximum length of %d characters", MaxMessageLength)
	}
	return nil
}

// ActionResponse is the api's reply to a turn submission. Messages carries
// everything appended to the room history by this turn, in order.
type ActionResponse struct {
	RoomID   string              `json:"room_id"`
	Messages []state.RoomMessage `json:"messages"`

	// DiceRollNeeded mirrors the acting player's pending roll, so the
	// client knows to prompt for one before the next action.
	DiceRollNeeded bool   `json:"dice_roll_needed,omitempty"`
	DiceType       string `json:"dice_type,omitempty"`

	InCombat bool `json:"in_combat"`
}

// TurnResponse is the structured reply schema the dungeon master model must
// produce for every narrative turn. The mechanical fields are requests, not
// facts: the resolver and orchestrator decide what actually happens.
type TurnResponse struct {
	Message string `json:"message"`

	PlayerUpdateRequired bool                `json:"player_update_required"`
	PlayersUpdate        []state.PlayerDelta `json:"players_update,omitempty"`

	DiceRollRequired bool                   `json:"dice_roll_required"`
	DiceRollRequest  *state.DiceRollRequest `json:"dice_roll_request,omitempty"`

	CombatStarted bool `json:"combat_started"`
}

// Updates returns the deltas to apply, empty unless the model both set the
// flag and supplied entries. A flag without entries (or entries without the
// flag) is the model contradicting itself; neither half is trusted alone.
func (tr *TurnResponse) Updates() []state.PlayerDelta {
	if !tr.PlayerUpdateRequired || len(tr.PlayersUpdate) == 0 {
		return nil
	}
	return tr.PlayersUpdate
}

// RollRequest returns the pending roll request, or nil unless both the flag
// and the payload agree.
func (tr *TurnResponse) RollRequest() *state.DiceRollRequest {
	if !tr.DiceRollRequired || tr.DiceRollRequest == nil {
		return nil
	}
	return tr.DiceRollRequest
}
