// Package state defines the authoritative game state shapes: players, rooms,
// message history, and the typed deltas that mutate them.
package state

import (
	"github.com/timonchiklol/console-rpg/pkg/character"
	"github.com/timonchiklol/console-rpg/pkg/dice"
)

// RollModifier is the pending-roll detail persisted on a player between the
// model requesting a dice roll and the player submitting it. The numeric
// ability modifier is computed when the roll is submitted, not here.
type RollModifier struct {
	Ability    string `json:"ability,omitempty"`
	Proficient bool   `json:"proficient,omitempty"`
	Difficulty *int   `json:"difficulty,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// PlayerState is one player's character sheet plus combat-transient fields.
// A PlayerState is owned exclusively by its room; all mutation happens under
// the room lock.
type PlayerState struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Race         string                  `json:"race,omitempty"`
	Class        string                  `json:"class,omitempty"`
	Level        int                     `json:"level"`
	HealthPoints int                     `json:"health_points"`
	Gold         int                     `json:"gold"`
	Damage       int                     `json:"damage"`
	Magic1Lvl    int                     `json:"magic_1lvl"`
	Magic2Lvl    int                     `json:"magic_2lvl"`
	Abilities    character.AbilityScores `json:"ability_scores"`

	LastDiceRoll   *int             `json:"last_dice_roll,omitempty"`
	DiceRollNeeded bool             `json:"dice_roll_needed"`
	DiceType       string           `json:"dice_type,omitempty"`
	DiceModifier   *RollModifier    `json:"dice_modifier,omitempty"`
	LastDiceDetail *dice.CheckResult `json:"last_dice_detail,omitempty"`

	IsActive bool `json:"is_active"`
}

// HasCharacter reports whether the player has finished character creation.
func (p *PlayerState) HasCharacter() bool {
	return p.Race != "" && p.Class != ""
}

// ClearPendingRoll resets the dice-roll suspension fields.
func (p *PlayerState) ClearPendingRoll() {
	p.DiceRollNeeded = false
	p.DiceType = ""
	p.DiceModifier = nil
}

// Clone returns a deep copy of the player.
func (p *PlayerState) Clone() *PlayerState {
	if p == nil {
		return nil
	}
	cp := *p
	if p.LastDiceRoll != nil {
		v := *p.LastDiceRoll
		cp.LastDiceRoll = &v
	}
	if p.DiceModifier != nil {
		m := *p.DiceModifier
		if p.DiceModifier.Difficulty != nil {
			d := *p.DiceModifier.Difficulty
			m.Difficulty = &d
		}
		cp.DiceModifier = &m
	}
	if p.LastDiceDetail != nil {
		det := *p.LastDiceDetail
		if p.LastDiceDetail.Difficulty != nil {
			d := *p.LastDiceDetail.Difficulty
			det.Difficulty = &d
		}
		if p.LastDiceDetail.Success != nil {
			s := *p.LastDiceDetail.Success
			det.Success = &s
		}
		cp.LastDiceDetail = &det
	}
	return &cp
}
