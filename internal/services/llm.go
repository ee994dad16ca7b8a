package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/timonchiklol/console-rpg/pkg/chat"
)

// LLMService defines the interface for the dungeon master model.
type LLMService interface {
	// GenerateTurn produces a structured turn response for the message
	// array. Implementations degrade unparseable model output into a
	// plain-narration TurnResponse rather than failing the turn.
	GenerateTurn(ctx context.Context, messages []chat.ChatMessage) (*chat.TurnResponse, error)
}

// ParseTurnResponse extracts a TurnResponse from raw model output. Models
// wrap JSON in markdown fences or leading prose often enough that we carve
// out the outermost JSON object before unmarshaling.
func ParseTurnResponse(content string) (*chat.TurnResponse, error) {
	payload := extractJSON(content)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var tr chat.TurnResponse
	if err := json.Unmarshal([]byte(payload), &tr); err != nil {
		return nil, fmt.Errorf("failed to parse turn response: %w", err)
	}
	if strings.TrimSpace(tr.Message) == "" {
		return nil, fmt.Errorf("turn response has no message")
	}
	return &tr, nil
}

// extractJSON returns the outermost {...} span of s, or "".
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// DegradedTurnResponse wraps raw narration in a mechanics-free turn, used
// when the model ignored the schema. The story continues; nothing changes
// mechanically.
func DegradedTurnResponse(content string) *chat.TurnResponse {
	return &chat.TurnResponse{Message: strings.TrimSpace(content)}
}
