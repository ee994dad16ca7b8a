package prompts

import (
	"strings"
	"testing"

	"github.com/timonchiklol/console-rpg/pkg/chat"
	"github.com/timonchiklol/console-rpg/pkg/state"
)

func testRoom() *state.RoomState {
	room := state.NewRoomState("a1b2c3d4", "p1", "en")
	room.Players["p1"] = &state.PlayerState{
		ID:           "p1",
		Name:         "Rogar",
		Race:         "Human",
		Class:        "Warrior",
		Level:        1,
		HealthPoints: 20,
		Gold:         7,
		Damage:       6,
	}
	return room
}

func TestNew(t *testing.T) {
	builder := New()
	if builder == nil {
		t.Fatal("Expected builder to be created, got nil")
	}
	if builder.historyLimit != DefaultHistoryLimit {
		t.Errorf("Expected default history limit of %d, got %d", DefaultHistoryLimit, builder.historyLimit)
	}
	if builder.messages == nil {
		t.Error("Expected messages slice to be initialized")
	}
}

func TestBuilder_FluentInterface(t *testing.T) {
	room := testRoom()

	builder := New().
		WithRoom(room).
		WithUserMessage("Rogar: I open the door.").
		WithHistoryLimit(10)

	if builder.room != room {
		t.Error("WithRoom did not set room")
	}
	if builder.userMessage != "Rogar: I open the door." {
		t.Error("WithUserMessage did not set message")
	}
	if builder.historyLimit != 10 {
		t.Error("WithHistoryLimit did not set limit")
	}
}

func TestBuilder_Build_RequiresRoom(t *testing.T) {
	_, err := New().WithUserMessage("hello").Build()
	if err == nil {
		t.Fatal("Expected error when room is missing")
	}
}

func TestBuilder_Build_MessageOrder(t *testing.T) {
	room := testRoom()
	room.AppendMessage(state.RoomMessage{Type: state.MessageTypePlayer, PlayerName: "Rogar", Message: "I look around."})
	room.AppendMessage(state.RoomMessage{Type: state.MessageTypeDM, Message: "The cellar smells of damp stone."})

	messages, err := New().
		WithRoom(room).
		WithUserMessage("Rogar: I open the door.").
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if len(messages) != 5 {
		t.Fatalf("Expected 5 messages (system, 2 history, user, final), got %d", len(messages))
	}
	if messages[0].Role != chat.ChatRoleSystem {
		t.Errorf("First message should be system, got %q", messages[0].Role)
	}
	if !strings.Contains(messages[0].Content, "OUTPUT FORMAT") {
		t.Error("System prompt should include the output schema")
	}
	if !strings.Contains(messages[0].Content, "CURRENT PARTY STATE") {
		t.Error("System prompt should include the party sheet")
	}
	if messages[1].Role != chat.ChatRoleUser || !strings.HasPrefix(messages[1].Content, "Rogar: ") {
		t.Errorf("History player message should carry the speaker prefix, got %q", messages[1].Content)
	}
	if messages[2].Role != chat.ChatRoleAgent {
		t.Errorf("History DM message should map to the assistant role, got %q", messages[2].Role)
	}
	if messages[3].Role != chat.ChatRoleUser || messages[3].Content != "Rogar: I open the door." {
		t.Errorf("Fourth message should be the user message, got %+v", messages[3])
	}
	if messages[4].Role != chat.ChatRoleSystem {
		t.Errorf("Final message should be a system reminder, got %q", messages[4].Role)
	}
}

func TestBuilder_Build_WindowsHistory(t *testing.T) {
	room := testRoom()
	for i := 0; i < 30; i++ {
		room.AppendMessage(state.RoomMessage{Type: state.MessageTypeDM, Message: "turn"})
	}

	messages, err := New().WithRoom(room).WithHistoryLimit(5).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// system + 5 history + final
	if len(messages) != 7 {
		t.Errorf("Expected 7 messages with a history window of 5, got %d", len(messages))
	}
}

func TestBuilder_Build_PartySheetFromState(t *testing.T) {
	room := testRoom()
	room.Players["p2"] = &state.PlayerState{ID: "p2", Name: "Mira"} // no character yet

	messages, err := New().WithRoom(room).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	system := messages[0].Content
	if !strings.Contains(system, `"name":"Rogar"`) {
		t.Error("Party sheet should include players with characters")
	}
	if strings.Contains(system, "Mira") {
		t.Error("Party sheet should exclude players without a finished character")
	}
}

func TestBuilder_Build_CombatHandoff(t *testing.T) {
	room := testRoom()

	messages, err := New().WithRoom(room).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if strings.Contains(messages[0].Content, "IN COMBAT") {
		t.Error("Combat handoff should be absent outside combat")
	}

	room.SetCombat("Goblin", 7)
	messages, err = New().WithRoom(room).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if !strings.Contains(messages[0].Content, "IN COMBAT") {
		t.Error("Combat handoff should be present during combat")
	}
}

func TestBuilder_Build_RussianLanguage(t *testing.T) {
	room := testRoom()
	room.Language = "ru"

	messages, err := New().WithRoom(room).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if !strings.Contains(messages[0].Content, "Russian") {
		t.Error("System prompt should carry the Russian language fragment")
	}
}

func TestBuilder_Build_RollResult(t *testing.T) {
	room := testRoom()
	total := 17
	detail := &state.RollDetail{DiceType: "d20", BaseRoll: 15, AbilityModifier: 2, Total: total}

	messages, err := New().WithRoom(room).WithRollResult(detail).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// system, roll result, final
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}
	if messages[1].Role != chat.ChatRoleSystem {
		t.Errorf("Roll result should be a system message, got %q", messages[1].Role)
	}
	if !strings.Contains(messages[1].Content, `"total":17`) {
		t.Errorf("Roll result message should embed the roll JSON, got %q", messages[1].Content)
	}
}

func TestBuilder_Build_GameStart(t *testing.T) {
	room := testRoom()

	messages, err := New().WithRoom(room).WithGameStart().Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	last := messages[len(messages)-1]
	if last.Content != GameStartPrompt {
		t.Errorf("Final message should be the opening-scene instruction, got %q", last.Content)
	}
}
