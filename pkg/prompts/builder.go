package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/timonchiklol/console-rpg/pkg/chat"
	"github.com/timonchiklol/console-rpg/pkg/state"
)

// DefaultHistoryLimit is the number of recent room messages included in
// each prompt.
const DefaultHistoryLimit = 20

// Builder constructs the chat message array for one LLM turn using a
// fluent interface. It reads room state but never mutates it.
type Builder struct {
	room         *state.RoomState
	userMessage  string
	rollDetail   *state.RollDetail
	gameStart    bool
	historyLimit int
	messages     []chat.ChatMessage
}

// New creates a prompt builder with default settings.
func New() *Builder {
	return &Builder{
		historyLimit: DefaultHistoryLimit,
		messages:     make([]chat.ChatMessage, 0),
	}
}

// WithRoom sets the room whose state and history feed the prompt.
func (b *Builder) WithRoom(room *state.RoomState) *Builder {
	b.room = room
	return b
}

// WithUserMessage sets the acting player's message, already formatted with
// the speaker name.
func (b *Builder) WithUserMessage(message string) *Builder {
	b.userMessage = message
	return b
}

// WithRollResult attaches a submitted dice roll for the model to narrate.
func (b *Builder) WithRollResult(detail *state.RollDetail) *Builder {
	b.rollDetail = detail
	return b
}

// WithGameStart marks this as the opening-scene turn.
func (b *Builder) WithGameStart() *Builder {
	b.gameStart = true
	return b
}

// WithHistoryLimit sets the chat history window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// Build constructs the final message array for LLM consumption.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.room == nil {
		return nil, fmt.Errorf("room is required")
	}

	b.messages = make([]chat.ChatMessage, 0)

	if err := b.addSystemPrompt(); err != nil {
		return nil, fmt.Errorf("error building system prompt: %w", err)
	}
	b.addHistory()
	if err := b.addRollResult(); err != nil {
		return nil, err
	}
	b.addUserMessage()
	b.addFinalPrompt()

	return b.messages, nil
}

// addSystemPrompt composes persona, output schema, language, party sheet,
// and combat handoff into one system message.
func (b *Builder) addSystemPrompt() error {
	var sb strings.Builder

	sb.WriteString(BaseSystemPrompt)
	sb.WriteString("\n\n")
	sb.WriteString(SchemaPrompt)

	if lp := LanguagePrompt(b.room.Language); lp != "" {
		sb.WriteString("\n\n")
		sb.WriteString(lp)
	}

	party, err := PartyStatePrompt(b.room)
	if err != nil {
		return err
	}
	sb.WriteString("\n\n")
	sb.WriteString(party)

	if b.room.InCombat {
		sb.WriteString("\n\n")
		sb.WriteString(CombatHandoffPrompt)
	}

	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: sb.String(),
	})
	return nil
}

// addHistory adds the windowed room history, mapped onto chat roles.
func (b *Builder) addHistory() {
	history := b.room.MessageHistory
	if len(history) == 0 {
		return
	}
	if len(history) > b.historyLimit {
		history = history[len(history)-b.historyLimit:]
	}

	for _, msg := range history {
		role := chat.ChatRoleUser
		content := msg.Message
		switch msg.Type {
		case state.MessageTypeDM:
			role = chat.ChatRoleAgent
		case state.MessageTypeSystem:
			role = chat.ChatRoleSystem
		default:
			if msg.PlayerName != "" {
				content = chat.FormatWithPlayerName(content, msg.PlayerName)
			}
		}
		b.messages = append(b.messages, chat.ChatMessage{Role: role, Content: content})
	}
}

// addRollResult injects a submitted dice roll as an authoritative system
// message.
func (b *Builder) addRollResult() error {
	if b.rollDetail == nil {
		return nil
	}
	data, err := json.Marshal(b.rollDetail)
	if err != nil {
		return fmt.Errorf("failed to marshal roll detail: %w", err)
	}
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: RollResultPrompt + "\n" + string(data),
	})
	return nil
}

func (b *Builder) addUserMessage() {
	if b.userMessage == "" {
		return
	}
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleUser,
		Content: b.userMessage,
	})
}

// addFinalPrompt closes with either the opening-scene instruction or a
// schema reminder. Models drift less when the last message restates the
// contract.
func (b *Builder) addFinalPrompt() {
	content := "Respond with the JSON schema only."
	if b.gameStart {
		content = GameStartPrompt
	}
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: content,
	})
}
