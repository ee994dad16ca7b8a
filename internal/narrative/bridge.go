// Package narrative connects room state to the dungeon master model: it
// builds the prompt, invokes the model, and reconciles the structured reply
// into a turn outcome the orchestrator can apply.
package narrative

import (
	"context"
	"log/slog"

	"github.com/timonchiklol/console-rpg/internal/logger"
	"github.com/timonchiklol/console-rpg/internal/services"
	"github.com/timonchiklol/console-rpg/pkg/chat"
	"github.com/timonchiklol/console-rpg/pkg/prompts"
	"github.com/timonchiklol/console-rpg/pkg/state"
)

// fallbackMessages keeps the table playable when the model is unreachable.
// The turn carries no mechanical effects; players can simply retry.
var fallbackMessages = map[string]string{
	"en": "The Dungeon Master pauses, gazing into the distance as if listening to faraway voices. Give them a moment and try again.",
	"ru": "Мастер подземелий замолкает, вглядываясь вдаль, словно прислушиваясь к далёким голосам. Дайте ему мгновение и попробуйте снова.",
}

// Bridge mediates between rooms and the LLM.
type Bridge struct {
	llm           services.LLMService
	historyWindow int
	logger        *slog.Logger
}

// NewBridge creates a narrative bridge.
func NewBridge(llm services.LLMService, historyWindow int, logger *slog.Logger) *Bridge {
	return &Bridge{
		llm:           llm,
		historyWindow: historyWindow,
		logger:        logger,
	}
}

// Narrate runs one story turn for the formatted player message. The
// returned outcome is advisory mechanics plus narration; the orchestrator
// decides what to apply. Narrate never fails a turn over a model problem,
// it degrades to a no-effect fallback narration instead.
func (b *Bridge) Narrate(ctx context.Context, room *state.RoomState, playerMessage string) *state.TurnOutcome {
	messages, err := prompts.New().
		WithRoom(room).
		WithUserMessage(playerMessage).
		WithHistoryLimit(b.historyWindow).
		Build()
	if err != nil {
		logger.WithError(logger.WithRoom(b.logger, room.RoomID), err).Error("Failed to build prompt")
		return b.fallback(room)
	}
	return b.generate(ctx, room, messages)
}

// NarrateRoll narrates the consequence of a submitted dice roll.
func (b *Bridge) NarrateRoll(ctx context.Context, room *state.RoomState, playerMessage string, detail *state.RollDetail) *state.TurnOutcome {
	messages, err := prompts.New().
		WithRoom(room).
		WithUserMessage(playerMessage).
		WithRollResult(detail).
		WithHistoryLimit(b.historyWindow).
		Build()
	if err != nil {
		logger.WithError(logger.WithRoom(b.logger, room.RoomID), err).Error("Failed to build roll prompt")
		return b.fallback(room)
	}
	return b.generate(ctx, room, messages)
}

// OpeningScene asks the model for the adventure's first narration.
func (b *Bridge) OpeningScene(ctx context.Context, room *state.RoomState) *state.TurnOutcome {
	messages, err := prompts.New().
		WithRoom(room).
		WithGameStart().
		WithHistoryLimit(b.historyWindow).
		Build()
	if err != nil {
		logger.WithError(logger.WithRoom(b.logger, room.RoomID), err).Error("Failed to build opening prompt")
		return b.fallback(room)
	}

	outcome := b.generate(ctx, room, messages)
	// The opening scene is pure narration whatever the model says.
	outcome.Deltas = nil
	outcome.DiceRollRequest = nil
	outcome.CombatStarted = false
	return outcome
}

func (b *Bridge) generate(ctx context.Context, room *state.RoomState, messages []chat.ChatMessage) *state.TurnOutcome {
	tr, err := b.llm.GenerateTurn(ctx, messages)
	if err != nil {
		logger.WithError(logger.WithRoom(b.logger, room.RoomID), err).Error("LLM generation failed")
		return b.fallback(room)
	}

	outcome := &state.TurnOutcome{
		Message:         tr.Message,
		Deltas:          tr.Updates(),
		DiceRollRequest: tr.RollRequest(),
		CombatStarted:   tr.CombatStarted,
	}

	// The combat engine owns running fights; the model cannot restart one.
	if room.InCombat {
		outcome.CombatStarted = false
	}
	return outcome
}

func (b *Bridge) fallback(room *state.RoomState) *state.TurnOutcome {
	msg, ok := fallbackMessages[room.Language]
	if !ok {
		msg = fallbackMessages["en"]
	}
	return &state.TurnOutcome{Message: msg}
}
