// Package game is the turn orchestrator. It serializes everything that
// happens inside a room: character creation, free-text story turns, dice
// submissions, and the combat loop, delegating narration to the bridge and
// fight math to the combat resolver.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/timonchiklol/console-rpg/internal/narrative"
	"github.com/timonchiklol/console-rpg/internal/rooms"
	"github.com/timonchiklol/console-rpg/pkg/character"
	"github.com/timonchiklol/console-rpg/pkg/chat"
	"github.com/timonchiklol/console-rpg/pkg/combat"
	"github.com/timonchiklol/console-rpg/pkg/dice"
	"github.com/timonchiklol/console-rpg/pkg/state"
)

var (
	// ErrNoCharacter is returned when a player acts before finishing
	// character creation.
	ErrNoCharacter = errors.New("player has no character")

	// ErrCharacterExists is returned on a second character creation.
	ErrCharacterExists = errors.New("character already created")

	// ErrGameNotStarted is returned for story actions before the host has
	// opened the adventure.
	ErrGameNotStarted = errors.New("game has not started")

	// ErrRollPending is returned when a player acts while owing a dice
	// roll.
	ErrRollPending = errors.New("resolve your pending dice roll first")

	// ErrNoRollPending is returned when a roll is submitted unrequested.
	ErrNoRollPending = errors.New("no dice roll is pending")

	// ErrInvalidCombatAction is returned for an in-combat message that
	// maps to none of attack, spell, or flee.
	ErrInvalidCombatAction = errors.New("in combat you can attack, cast a spell, or flee")
)

// ActionResult is what one processed action hands back to the transport
// layer: the messages the action appended and the player's follow-up state.
type ActionResult struct {
	RoomID         string
	Messages       []state.RoomMessage
	DiceRollNeeded bool
	DiceType       string
	InCombat       bool
}

// Orchestrator processes player actions turn by turn. Each action runs
// inside its room's critical section, so turns in one room are strictly
// ordered.
type Orchestrator struct {
	store  *rooms.Store
	bridge *narrative.Bridge
	src    dice.Source
	logger *slog.Logger
}

// NewOrchestrator wires the turn orchestrator.
func NewOrchestrator(store *rooms.Store, bridge *narrative.Bridge, src dice.Source, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:  store,
		bridge: bridge,
		src:    src,
		logger: logger,
	}
}

// CreateCharacter builds the player's character from a race and class
// choice. Race and class accept localized names. The first character
// created by the host starts the game and triggers the opening scene.
func (o *Orchestrator) CreateCharacter(ctx context.Context, roomID, playerID, name, race, class string) (*ActionResult, error) {
	var result *ActionResult
	err := o.store.WithRoom(ctx, roomID, func(room *state.RoomState) error {
		p := room.Player(playerID)
		if p == nil {
			return rooms.ErrPlayerNotFound
		}
		if p.HasCharacter() {
			return ErrCharacterExists
		}

		canonRace := character.CanonicalRace(race)
		canonClass := character.CanonicalClass(class)
		stats, err := character.DeriveStartingStats(canonRace, canonClass, o.src)
		if err != nil {
			return err
		}
		scores, err := character.DefaultAbilityScores(canonClass, canonRace)
		if err != nil {
			return err
		}

		if name != "" {
			p.Name = name
		}
		p.Race = canonRace
		p.Class = canonClass
		p.Level = stats.Level
		p.HealthPoints = stats.HealthPoints
		p.Gold = stats.Gold
		p.Damage = stats.Damage
		p.Magic1Lvl = stats.MagicSlots.First
		p.Magic2Lvl = stats.MagicSlots.Second
		p.Abilities = scores

		sinceID := lastMessageID(room)
		room.AppendMessage(state.RoomMessage{
			Type:       state.MessageTypeSystem,
			PlayerName: p.Name,
			Message: fmt.Sprintf("%s the %s %s joins the party.",
				p.Name,
				character.DisplayRace(room.Language, canonRace),
				character.DisplayClass(room.Language, canonClass)),
		})

		if playerID == room.HostID && !room.HasStarted {
			room.HasStarted = true
			outcome := o.bridge.OpeningScene(ctx, room)
			room.AppendMessage(state.RoomMessage{
				Type:    state.MessageTypeDM,
				Message: outcome.Message,
			})
			o.logger.Info("Game started", "room_id", room.RoomID)
		}

		result = o.buildResult(room, p, sinceID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProcessAction handles one free-text player turn. In combat the message is
// interpreted as a combat command; otherwise it goes to the dungeon master
// model. A message that picks a fight by name starts combat locally without
// waiting for the model.
func (o *Orchestrator) ProcessAction(ctx context.Context, roomID, playerID, message string) (*ActionResult, error) {
	var result *ActionResult
	err := o.store.WithRoom(ctx, roomID, func(room *state.RoomState) error {
		p := room.Player(playerID)
		if p == nil {
			return rooms.ErrPlayerNotFound
		}
		if !p.HasCharacter() {
			return ErrNoCharacter
		}
		if !room.HasStarted {
			return ErrGameNotStarted
		}
		if p.DiceRollNeeded {
			return ErrRollPending
		}

		// Validate combat commands before mutating anything.
		var combatAction string
		if room.InCombat {
			var ok bool
			combatAction, ok = classifyCombatAction(message)
			if !ok {
				return ErrInvalidCombatAction
			}
		}

		sinceID := lastMessageID(room)

		switch {
		case room.InCombat:
			appendPlayerMessage(room, p, message)
			if err := o.runCombatRound(room, p, combatAction); err != nil {
				return err
			}
		case startsFight(message):
			appendPlayerMessage(room, p, message)
			o.startCombat(room, "")
		default:
			// Narrate from the pre-action history; the message itself
			// rides in the prompt's user slot, not the history window.
			outcome := o.bridge.Narrate(ctx, room, chat.FormatWithPlayerName(message, p.Name))
			appendPlayerMessage(room, p, message)
			o.applyOutcome(room, p, outcome)
		}

		result = o.buildResult(room, p, sinceID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitRoll resolves the player's pending dice roll and hands the result
// to the model for narration.
func (o *Orchestrator) SubmitRoll(ctx context.Context, roomID, playerID string) (*ActionResult, error) {
	var result *ActionResult
	err := o.store.WithRoom(ctx, roomID, func(room *state.RoomState) error {
		p := room.Player(playerID)
		if p == nil {
			return rooms.ErrPlayerNotFound
		}
		if !p.DiceRollNeeded {
			return ErrNoRollPending
		}

		mod := p.DiceModifier
		if mod == nil {
			mod = &state.RollModifier{}
		}

		notation := dice.ParseNotation(p.DiceType)
		base := notation.Roll(o.src)
		abilityMod := dice.AbilityModifier(p.Abilities.Score(mod.Ability))
		profBonus := 0
		if mod.Proficient {
			profBonus = dice.ProficiencyBonus
		}
		total := base + abilityMod + profBonus

		detail := &state.RollDetail{
			DiceType:         notation.String(),
			BaseRoll:         base,
			AbilityModifier:  abilityMod,
			ProficiencyBonus: profBonus,
			Total:            total,
		}
		if mod.Difficulty != nil {
			d := *mod.Difficulty
			ok := total >= d
			detail.Difficulty = &d
			detail.Success = &ok
		}

		p.LastDiceRoll = &total
		p.LastDiceDetail = &dice.CheckResult{
			BaseRoll:         base,
			AbilityModifier:  abilityMod,
			ProficiencyBonus: profBonus,
			Total:            total,
			Difficulty:       detail.Difficulty,
			Success:          detail.Success,
		}
		p.ClearPendingRoll()

		sinceID := lastMessageID(room)
		outcome := o.bridge.NarrateRoll(ctx, room, "", detail)

		room.AppendMessage(state.RoomMessage{
			Type:       state.MessageTypePlayer,
			PlayerName: p.Name,
			Message:    fmt.Sprintf("%s rolls %s: %d", p.Name, detail.DiceType, total),
			RollDetail: detail,
		})
		o.applyOutcome(room, p, outcome)

		result = o.buildResult(room, p, sinceID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// runCombatRound executes one resolver round and writes its consequences
// into the room. Missing spell slots are an in-game event, not an API
// error.
func (o *Orchestrator) runCombatRound(room *state.RoomState, p *state.PlayerState, action string) error {
	enemy, err := combat.Resume(room.EnemyName, derefOr(room.EnemyHealth, 0))
	if err != nil {
		// A save from an older roster; end the stale fight.
		o.logger.Warn("Unknown enemy in running combat, clearing", "room_id", room.RoomID, "enemy", room.EnemyName)
		room.ClearCombat()
		room.AppendMessage(state.RoomMessage{
			Type:    state.MessageTypeSystem,
			Message: "The enemy slinks away into the darkness.",
		})
		return nil
	}

	res, err := combat.Resolve(o.src, p, enemy, action)
	if errors.Is(err, combat.ErrNoSpellSlots) {
		room.AppendMessage(state.RoomMessage{
			Type:    state.MessageTypeSystem,
			Message: "You reach for the weave, but your spell slots are spent!",
		})
		return nil
	}
	if err != nil {
		return err
	}

	if res.Outcome.Ended() {
		room.ClearCombat()
	} else {
		room.SetCombat(enemy.Name, enemy.HP)
	}
	if p.HealthPoints < 0 {
		p.HealthPoints = 0
	}

	room.AppendMessage(state.RoomMessage{
		Type:    state.MessageTypeSystem,
		Message: res.Message,
	})
	return nil
}

// applyOutcome reconciles a narrative outcome into room state: sparse
// deltas, pending roll requests, and combat kickoff.
func (o *Orchestrator) applyOutcome(room *state.RoomState, actor *state.PlayerState, outcome *state.TurnOutcome) {
	room.AppendMessage(state.RoomMessage{
		Type:    state.MessageTypeDM,
		Message: outcome.Message,
	})

	for i := range outcome.Deltas {
		delta := &outcome.Deltas[i]
		target := room.Player(delta.PlayerID)
		if target == nil {
			// The model invented a player; drop the delta.
			o.logger.Warn("Delta for unknown player ignored", "room_id", room.RoomID, "player_id", delta.PlayerID)
			continue
		}
		delta.Apply(target)
		if target.HealthPoints < 1 {
			// Narrative turns cannot kill; only the combat engine can.
			target.HealthPoints = 1
		}
	}

	if req := outcome.DiceRollRequest; req != nil {
		actor.DiceRollNeeded = true
		actor.DiceType = dice.ParseNotation(req.DiceType).String()
		actor.DiceModifier = &state.RollModifier{
			Ability:    req.AbilityModifier,
			Proficient: req.Proficient,
			Difficulty: req.Difficulty,
			Reason:     req.Reason,
		}
	}

	if outcome.CombatStarted && !room.InCombat {
		o.startCombat(room, enemyNamedIn(outcome.Message))
	}
}

// startCombat spawns an enemy (random when unnamed) and flips the room
// into combat.
func (o *Orchestrator) startCombat(room *state.RoomState, enemyName string) {
	enemy, err := combat.Start(o.src, enemyName)
	if err != nil {
		enemy, _ = combat.Start(o.src, "")
	}
	room.SetCombat(enemy.Name, enemy.HP)
	room.AppendMessage(state.RoomMessage{
		Type:    state.MessageTypeSystem,
		Message: fmt.Sprintf("Combat begins! A %s stands before you with %d HP.", enemy.Name, enemy.HP),
	})
	o.logger.Info("Combat started", "room_id", room.RoomID, "enemy", enemy.Name)
}

func (o *Orchestrator) buildResult(room *state.RoomState, p *state.PlayerState, sinceID int) *ActionResult {
	return &ActionResult{
		RoomID:         room.RoomID,
		Messages:       room.MessagesSince(sinceID),
		DiceRollNeeded: p.DiceRollNeeded,
		DiceType:       p.DiceType,
		InCombat:       room.InCombat,
	}
}

func appendPlayerMessage(room *state.RoomState, p *state.PlayerState, message string) {
	room.AppendMessage(state.RoomMessage{
		Type:       state.MessageTypePlayer,
		PlayerName: p.Name,
		Message:    message,
	})
}

func lastMessageID(room *state.RoomState) int {
	if len(room.MessageHistory) == 0 {
		return 0
	}
	return room.MessageHistory[len(room.MessageHistory)-1].ID
}

// enemyNamedIn scans narration for a known enemy name, so "a Goblin leaps
// from the shadows" spawns a Goblin rather than a random foe.
func enemyNamedIn(message string) string {
	lower := strings.ToLower(message)
	for _, name := range combat.EnemyNames() {
		if strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
	}
	return ""
}

// combatKeywords maps player phrasing onto resolver actions. Both English
// and Russian phrasings are recognized.
var combatKeywords = []struct {
	action string
	words  []string
}{
	{"spell", []string{"spell", "cast", "magic", "заклинан", "колдую", "магия"}},
	{"flee", []string{"flee", "run", "escape", "retreat", "бегу", "убега", "отступа"}},
	{"attack", []string{"attack", "hit", "strike", "swing", "stab", "shoot", "атак", "удар", "бью"}},
}

func classifyCombatAction(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, kw := range combatKeywords {
		for _, w := range kw.words {
			if strings.Contains(lower, w) {
				return kw.action, true
			}
		}
	}
	return "", false
}

// startsFight reports whether a non-combat message is an explicit call to
// arms, which starts combat without consulting the model.
func startsFight(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, w := range []string{"fight", "в бой", "сражаться"} {
		if strings.HasPrefix(lower, w) {
			return true
		}
	}
	return false
}

func derefOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
