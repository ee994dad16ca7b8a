// Package prompts assembles the dungeon master instructions sent to the
// LLM: the system prompt, the structured output schema, and the per-turn
// message array.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/timonchiklol/console-rpg/pkg/state"
)

// BaseSystemPrompt is the dungeon master persona. It is language-neutral;
// the response-language fragment is appended separately.
const BaseSystemPrompt = `You are the Dungeon Master of a text-based fantasy roleplaying game played by a small party in a shared room. You narrate the world, voice every NPC, and react to what the players do. Your perspective is second-person toward the acting player.

### CRITICAL DIRECTIVES:
- Each player controls ONLY their own character. You control all NPCs and world events.
- DO NOT ALLOW PLAYERS TO INVENT ITEMS, NPCS, OR STORY EVENTS.
- DO NOT GRANT STAT CHANGES THE PLAYERS SIMPLY ASK FOR. If a player tries to take a disallowed action, narrate the attempt failing in-world and redirect them.
- Keep responses between 1 and 3 short paragraphs. Move the story forward gradually.
- Do not break the fourth wall. Do not discuss game mechanics as mechanics; express them through the story.`

// SchemaPrompt instructs the model to answer with the structured turn
// schema. The mechanical flags here are requests; the game engine decides
// what actually happens.
const SchemaPrompt = `### OUTPUT FORMAT (strict)
Respond ONLY with a JSON object matching this schema. No prose outside the JSON.
{
  "message": string,                    // your narration, always required
  "player_update_required": boolean,    // true only when stats actually changed
  "players_update": [                   // sparse per-player stat changes
    {"player_id": string, "health_points"?: int, "gold"?: int, "damage"?: int,
     "level"?: int, "magic_1lvl"?: int, "magic_2lvl"?: int}
  ],
  "dice_roll_required": boolean,        // true when the action's outcome should hinge on a roll
  "dice_roll_request": {                // present only when dice_roll_required
    "dice_type": string,                // e.g. "d20"
    "ability_modifier": string,         // one of: strength, dexterity, constitution, intelligence, wisdom, charisma
    "proficient": boolean,
    "difficulty"?: int,                 // omit for an unopposed roll
    "reason": string
  },
  "combat_started": boolean             // true only when hostilities actually break out this turn
}

RULES FOR MECHANICAL FIELDS
- Only include players_update entries for players whose stats changed, and only the fields that changed.
- NEVER reduce any player's health_points below 1. Lethal danger is resolved by the combat engine, not by you.
- When you request a dice roll, end your narration at the moment of uncertainty and wait; the roll result arrives as the next message.
- Set combat_started when an enemy attacks or a player clearly initiates a fight. Name the enemy in your narration.`

// RollResultPrompt frames a submitted dice roll for the model.
const RollResultPrompt = `The player rolled the dice you asked for. The JSON below is the authoritative result, already including modifiers. Narrate the consequence of this exact outcome; do not reroll or second-guess it. Then continue the scene.`

// GameStartPrompt seeds the opening scene once the host has created a
// character.
const GameStartPrompt = `Begin the adventure. Set an opening scene in a fantasy world appropriate for a level-1 party, introduce a hook that invites action, and address the players' characters by name. Do not start combat in the opening scene.`

// CombatHandoffPrompt is appended while the room is in combat, so the model
// knows the engine owns the fight.
const CombatHandoffPrompt = `The party is currently IN COMBAT, which is resolved by the game engine, not by you. Set combat_started to false; do not narrate attack outcomes or damage numbers. You may add short atmospheric color only.`

// languagePrompts maps a room language tag to the response-language
// instruction. English needs no fragment; it is the model's default.
var languagePrompts = map[string]string{
	"ru": `### LANGUAGE
Write the "message" field in Russian. Keep all JSON keys and the ability_modifier values in English exactly as specified by the schema.`,
}

// LanguagePrompt returns the response-language fragment for tag, or ""
// when the default (English) applies.
func LanguagePrompt(tag string) string {
	return languagePrompts[strings.ToLower(tag)]
}

// PartyStatePrompt renders the current party sheet as a system message so
// the model narrates against real numbers instead of remembered ones.
func PartyStatePrompt(room *state.RoomState) (string, error) {
	type sheet struct {
		PlayerID     string `json:"player_id"`
		Name         string `json:"name"`
		Race         string `json:"race"`
		Class        string `json:"class"`
		Level        int    `json:"level"`
		HealthPoints int    `json:"health_points"`
		Gold         int    `json:"gold"`
		Damage       int    `json:"damage"`
		Magic1Lvl    int    `json:"magic_1lvl"`
		Magic2Lvl    int    `json:"magic_2lvl"`
	}

	sheets := make([]sheet, 0, len(room.Players))
	for _, id := range room.PlayerIDs() {
		p := room.Players[id]
		if !p.HasCharacter() {
			continue
		}
		sheets = append(sheets, sheet{
			PlayerID:     p.ID,
			Name:         p.Name,
			Race:         p.Race,
			Class:        p.Class,
			Level:        p.Level,
			HealthPoints: p.HealthPoints,
			Gold:         p.Gold,
			Damage:       p.Damage,
			Magic1Lvl:    p.Magic1Lvl,
			Magic2Lvl:    p.Magic2Lvl,
		})
	}

	data, err := json.Marshal(sheets)
	if err != nil {
		return "", fmt.Errorf("failed to marshal party state: %w", err)
	}
	return "### CURRENT PARTY STATE\n" + string(data), nil
}
