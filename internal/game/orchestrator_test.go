package game

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timonchiklol/console-rpg/internal/narrative"
	"github.com/timonchiklol/console-rpg/internal/rooms"
	"github.com/timonchiklol/console-rpg/internal/services"
	"github.com/timonchiklol/console-rpg/pkg/chat"
	"github.com/timonchiklol/console-rpg/pkg/dice"
	"github.com/timonchiklol/console-rpg/pkg/state"
)

// seqSource replays scripted Intn results and falls back to zero when the
// script runs out, so setup rolls stay deterministic.
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) Intn(n int) int {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i]
	s.i++
	if v >= n {
		v = n - 1
	}
	return v
}

type fixture struct {
	orch *Orchestrator
	mock *services.MockLLM
	src  *seqSource
	ctx  context.Context
}

func setup(t *testing.T) *fixture {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	saves, err := services.NewRedisSaveStore("redis://"+mr.Addr(), logger)
	if err != nil {
		t.Fatalf("Failed to create save store: %v", err)
	}
	t.Cleanup(func() { _ = saves.Close() })

	mock := services.NewMockLLM()
	src := &seqSource{}
	store := rooms.NewStore(saves, logger)
	bridge := narrative.NewBridge(mock, 20, logger)

	return &fixture{
		orch: NewOrchestrator(store, bridge, src, logger),
		mock: mock,
		src:  src,
		ctx:  context.Background(),
	}
}

// startedRoom creates a room with a host character and a running game.
func startedRoom(t *testing.T, f *fixture) string {
	t.Helper()

	room, err := f.orch.store.Create(f.ctx, "p1", "Alice", "en")
	require.NoError(t, err)

	_, err = f.orch.CreateCharacter(f.ctx, room.RoomID, "p1", "Rogar", "Human", "Warrior")
	require.NoError(t, err)
	return room.RoomID
}

func roomState(t *testing.T, f *fixture, roomID string) *state.RoomState {
	t.Helper()
	room, err := f.orch.store.Get(f.ctx, roomID)
	require.NoError(t, err)
	return room
}

func TestCreateCharacter_HostStartsGame(t *testing.T) {
	f := setup(t)
	f.mock.SetResponse(&chat.TurnResponse{Message: "You awaken in a tavern."})

	room, err := f.orch.store.Create(f.ctx, "p1", "Alice", "en")
	require.NoError(t, err)

	result, err := f.orch.CreateCharacter(f.ctx, room.RoomID, "p1", "Rogar", "Human", "Warrior")
	require.NoError(t, err)

	// Announcement plus opening scene.
	require.Len(t, result.Messages, 2)
	assert.Equal(t, state.MessageTypeSystem, result.Messages[0].Type)
	assert.Contains(t, result.Messages[0].Message, "Rogar")
	assert.Equal(t, state.MessageTypeDM, result.Messages[1].Type)
	assert.Equal(t, "You awaken in a tavern.", result.Messages[1].Message)

	got := roomState(t, f, room.RoomID)
	assert.True(t, got.HasStarted)

	p := got.Player("p1")
	assert.Equal(t, "Rogar", p.Name)
	assert.Equal(t, "Human", p.Race)
	assert.Equal(t, "Warrior", p.Class)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 20, p.HealthPoints, "Human 15 base + Warrior 5 bonus")
	assert.Equal(t, 7, p.Gold, "Human 5 base + Warrior 2 bonus")
}

func TestCreateCharacter_LocalizedNames(t *testing.T) {
	f := setup(t)
	f.mock.SetResponse(&chat.TurnResponse{Message: "Приключение начинается."})

	room, err := f.orch.store.Create(f.ctx, "p1", "Alice", "ru")
	require.NoError(t, err)

	result, err := f.orch.CreateCharacter(f.ctx, room.RoomID, "p1", "Рогар", "Человек", "Воин")
	require.NoError(t, err)

	p := roomState(t, f, room.RoomID).Player("p1")
	assert.Equal(t, "Human", p.Race, "localized race names canonicalize")
	assert.Equal(t, "Warrior", p.Class)
	assert.Contains(t, result.Messages[0].Message, "Человек",
		"the announcement uses the room language")
}

func TestCreateCharacter_NonHostDoesNotStart(t *testing.T) {
	f := setup(t)

	room, err := f.orch.store.Create(f.ctx, "p1", "Alice", "en")
	require.NoError(t, err)
	_, err = f.orch.store.Join(f.ctx, room.RoomID, "p2", "Bob")
	require.NoError(t, err)

	result, err := f.orch.CreateCharacter(f.ctx, room.RoomID, "p2", "Mira", "Elf", "Ranger")
	require.NoError(t, err)

	require.Len(t, result.Messages, 1, "no opening scene for a non-host")
	assert.False(t, roomState(t, f, room.RoomID).HasStarted)
}

func TestCreateCharacter_Twice(t *testing.T) {
	f := setup(t)
	roomID := startedRoom(t, f)

	_, err := f.orch.CreateCharacter(f.ctx, roomID, "p1", "Rogar", "Human", "Warrior")
	assert.ErrorIs(t, err, ErrCharacterExists)
}

func TestProcessAction_RequiresCharacter(t *testing.T) {
	f := setup(t)
	roomID := startedRoom(t, f)

	_, err := f.orch.store.Join(f.ctx, roomID, "p2", "Bob")
	require.NoError(t, err)

	_, err = f.orch.ProcessAction(f.ctx, roomID, "p2", "I look around.")
	assert.ErrorIs(t, err, ErrNoCharacter)
}

func TestProcessAction_RequiresStartedGame(t *testing.T) {
	f := setup(t)

	room, err := f.orch.store.Create(f.ctx, "p1", "Alice", "en")
	require.NoError(t, err)
	_, err = f.orch.store.Join(f.ctx, room.RoomID, "p2", "Bob")
	require.NoError(t, err)
	_, err = f.orch.CreateCharacter(f.ctx, room.RoomID, "p2", "Mira", "Elf", "Ranger")
	require.NoError(t, err)

	_, err = f.orch.ProcessAction(f.ctx, room.RoomID, "p2", "I look around.")
	assert.ErrorIs(t, err, ErrGameNotStarted)
}

func TestProcessAction_NarrativeTurn(t *testing.T) {
	f := setup(t)
	roomID := startedRoom(t, f)

	gold := 3
	f.mock.SetResponse(&chat.TurnResponse{
		Message:              "The merchant grumbles but pays.",
		PlayerUpdateRequired: true,
		PlayersUpdate: []state.PlayerDelta{
			{PlayerID: "p1", Gold: &gold},
			{PlayerID: "ghost", Gold: &gold}, // unknown player, must be ignored
		},
	})

	result, err := f.orch.ProcessAction(f.ctx, roomID, "p1", "I sell my old boots.")
	require.NoError(t, err)

	require.Len(t, result.Messages, 2)
	assert.Equal(t, state.MessageTypePlayer, result.Messages[0].Type)
	assert.Equal(t, state.MessageTypeDM, result.Messages[1].Type)
	assert.False(t, result.InCombat)

	got := roomState(t, f, roomID)
	assert.Equal(t, 3, got.Player("p1").Gold)
	assert.Nil(t, got.Player("ghost"))
}

func TestProcessAction_NarrativeCannotKill(t *testing.T) {
	f := setup(t)
	roomID := startedRoom(t, f)

	hp := -5
	f.mock.SetResponse(&chat.TurnResponse{
		Message:              "The fall is brutal.",
		PlayerUpdateRequired: true,
		PlayersUpdate:        []state.PlayerDelta{{PlayerID: "p1", HealthPoints: &hp}},
	})

	_, err := f.orch.ProcessAction(f.ctx, roomID, "p1", "I jump off the cliff.")
	require.NoError(t, err)

	assert.Equal(t, 1, roomState(t, f, roomID).Player("p1").HealthPoints,
		"story damage is floored at 1 HP")
}

func TestProcessAction_PersistsDiceRequest(t *testing.T) {
	f := setup(t)
	roomID := startedRoom(t, f)

	difficulty := 14
	f.mock.SetResponse(&chat.TurnResponse{
		Message:          "The lock resists. Roll for it.",
		DiceRollRequired: true,
		DiceRollRequest: &state.DiceRollRequest{
			DiceType:        "d20",
			AbilityModifier: "dexterity",
			Proficient:      true,
			Difficulty:      &difficulty,
			Reason:          "pick the lock",
		},
	})

	result, err := f.orch.ProcessAction(f.ctx, roomID, "p1", "I pick the lock.")
	require.NoError(t, err)

	assert.True(t, result.DiceRollNeeded)
	assert.Equal(t, "1d20", result.DiceType)

	p := roomState(t, f, roomID).Player("p1")
	assert.True(t, p.DiceRollNeeded)
	require.NotNil(t, p.DiceModifier)
	assert.Equal(t, "dexterity", p.DiceModifier.Ability)
	assert.True(t, p.DiceModifier.Proficient)
	require.NotNil(t, p.DiceModifier.Difficulty)
	assert.Equal(t, 14, *p.DiceModifier.Difficulty)

	// The pending roll blocks further actions.
	_, err = f.orch.ProcessAction(f.ctx, roomID, "p1", "Never mind, I walk away.")
	assert.ErrorIs(t, err, ErrRollPending)
}

func TestSubmitRoll(t *testing.T) {
	f := setup(t)
	roomID := startedRoom(t, f)

	difficulty := 10
	f.mock.SetResponse(&chat.TurnResponse{
		Message:          "Roll for it.",
		DiceRollRequired: true,
		DiceRollRequest: &state.DiceRollRequest{
			DiceType:        "d20",
			AbilityModifier: "strength",
			Proficient:      true,
			Difficulty:      &difficulty,
		},
	})
	_, err := f.orch.ProcessAction(f.ctx, roomID, "p1", "I force the door.")
	require.NoError(t, err)

	f.mock.SetResponse(&chat.TurnResponse{Message: "The door gives way."})
	f.src.vals = []int{14} // d20 roll of 15
	f.src.i = 0

	result, err := f.orch.SubmitRoll(f.ctx, roomID, "p1")
	require.NoError(t, err)

	require.Len(t, result.Messages, 2)
	rollMsg := result.Messages[0]
	require.NotNil(t, rollMsg.RollDetail)
	assert.Equal(t, 15, rollMsg.RollDetail.BaseRoll)
	assert.Equal(t, dice.ProficiencyBonus, rollMsg.RollDetail.ProficiencyBonus)
	require.NotNil(t, rollMsg.RollDetail.Success)
	assert.True(t, *rollMsg.RollDetail.Success)
	assert.False(t, result.DiceRollNeeded)

	p := roomState(t, f, roomID).Player("p1")
	assert.False(t, p.DiceRollNeeded)
	assert.Nil(t, p.DiceModifier)
	require.NotNil(t, p.LastDiceRoll)
	require.NotNil(t, p.LastDiceDetail)
}

func TestSubmitRoll_WithoutPending(t *testing.T) {
	f := setup(t)
	roomID := startedRoom(t, f)

	_, err := f.orch.SubmitRoll(f.ctx, roomID, "p1")
	assert.ErrorIs(t, err, ErrNoRollPending)
}

func TestProcessAction_FightKeywordStartsCombat(t *testing.T) {
	f := setup(t)
	roomID := startedRoom(t, f)

	result, err := f.orch.ProcessAction(f.ctx, roomID, "p1", "fight")
	require.NoError(t, err)

	assert.True(t, result.InCombat)
	got := roomState(t, f, roomID)
	assert.True(t, got.InCombat)
	assert.NotEmpty(t, got.EnemyName)
	require.NotNil(t, got.EnemyHealth)
}

func TestProcessAction_ModelStartsCombatWithNamedEnemy(t *testing.T) {
	f := setup(t)
	roomID := startedRoom(t, f)

	f.mock.SetResponse(&chat.TurnResponse{
		Message:       "A snarling Goblin leaps from the shadows!",
		CombatStarted: true,
	})

	result, err := f.orch.ProcessAction(f.ctx, roomID, "p1", "I walk into the cave.")
	require.NoError(t, err)

	assert.True(t, result.InCombat)
	got := roomState(t, f, roomID)
	assert.Equal(t, "Goblin", got.EnemyName)
	require.NotNil(t, got.EnemyHealth)
	assert.Equal(t, 7, *got.EnemyHealth)
}

func TestProcessAction_CombatRound(t *testing.T) {
	f := setup(t)
	roomID := startedRoom(t, f)

	f.mock.SetResponse(&chat.TurnResponse{Message: "A Goblin attacks!", CombatStarted: true})
	_, err := f.orch.ProcessAction(f.ctx, roomID, "p1", "I enter the cave where a goblin lives.")
	require.NoError(t, err)

	// Attack roll Intn(2)=1 -> 2 damage; goblin counter Intn(6)=2 -> 3 damage.
	f.src.vals = []int{1, 2}
	f.src.i = 0

	result, err := f.orch.ProcessAction(f.ctx, roomID, "p1", "I attack it with my sword!")
	require.NoError(t, err)
	assert.True(t, result.InCombat)

	got := roomState(t, f, roomID)
	require.NotNil(t, got.EnemyHealth)
	assert.Equal(t, 5, *got.EnemyHealth)
}

func TestProcessAction_FleeEndsCombat(t *testing.T) {
	f := setup(t)
	roomID := startedRoom(t, f)

	f.mock.SetResponse(&chat.TurnResponse{Message: "A goblin!", CombatStarted: true})
	_, err := f.orch.ProcessAction(f.ctx, roomID, "p1", "I poke the goblin nest.")
	require.NoError(t, err)

	f.src.vals = []int{14} // d20 roll of 15, above the escape threshold
	f.src.i = 0

	result, err := f.orch.ProcessAction(f.ctx, roomID, "p1", "I flee!")
	require.NoError(t, err)

	assert.False(t, result.InCombat)
	got := roomState(t, f, roomID)
	assert.False(t, got.InCombat)
	assert.Nil(t, got.EnemyHealth)
}

func TestProcessAction_InvalidCombatCommand(t *testing.T) {
	f := setup(t)
	roomID := startedRoom(t, f)

	f.mock.SetResponse(&chat.TurnResponse{Message: "A goblin!", CombatStarted: true})
	_, err := f.orch.ProcessAction(f.ctx, roomID, "p1", "I kick the goblin nest.")
	require.NoError(t, err)

	before := len(roomState(t, f, roomID).MessageHistory)
	_, err = f.orch.ProcessAction(f.ctx, roomID, "p1", "I compose a sonnet.")
	assert.ErrorIs(t, err, ErrInvalidCombatAction)
	assert.Len(t, roomState(t, f, roomID).MessageHistory, before,
		"a rejected command must not leave messages behind")
}
