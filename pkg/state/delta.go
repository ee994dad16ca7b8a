package state

// PlayerDelta is a sparse update to one player's stats. A nil field means
// "unchanged", never "zero" — the model only fills in what actually moved,
// which is also much cheaper for it to generate than a full sheet.
type PlayerDelta struct {
	PlayerID       string  `json:"player_id"`
	HealthPoints   *int    `json:"health_points,omitempty"`
	Gold           *int    `json:"gold,omitempty"`
	Damage         *int    `json:"damage,omitempty"`
	Level          *int    `json:"level,omitempty"`
	Magic1Lvl      *int    `json:"magic_1lvl,omitempty"`
	Magic2Lvl      *int    `json:"magic_2lvl,omitempty"`
	InCombat       *bool   `json:"in_combat,omitempty"`
	DiceRollNeeded *bool   `json:"dice_roll_needed,omitempty"`
	DiceType       *string `json:"dice_type,omitempty"`
}

// IsEmpty reports whether the delta carries no stat changes.
func (d *PlayerDelta) IsEmpty() bool {
	return d == nil || (d.HealthPoints == nil &&
		d.Gold == nil &&
		d.Damage == nil &&
		d.Level == nil &&
		d.Magic1Lvl == nil &&
		d.Magic2Lvl == nil &&
		d.InCombat == nil &&
		d.DiceRollNeeded == nil &&
		d.DiceType == nil)
}

// Apply copies the delta's present fields onto the player. Magic slots are
// clamped at zero; a delta can never drive them negative.
func (d *PlayerDelta) Apply(p *PlayerState) {
	if d == nil || p == nil {
		return
	}
	if d.HealthPoints != nil {
		p.HealthPoints = *d.HealthPoints
	}
	if d.Gold != nil {
		p.Gold = *d.Gold
	}
	if d.Damage != nil {
		p.Damage = *d.Damage
	}
	if d.Level != nil {
		p.Level = *d.Level
	}
	if d.Magic1Lvl != nil {
		p.Magic1Lvl = max(0, *d.Magic1Lvl)
	}
	if d.Magic2Lvl != nil {
		p.Magic2Lvl = max(0, *d.Magic2Lvl)
	}
	if d.DiceRollNeeded != nil {
		p.DiceRollNeeded = *d.DiceRollNeeded
	}
	if d.DiceType != nil {
		p.DiceType = *d.DiceType
	}
}

// DiceRollRequest is the model's request for the player to roll. DiceType
// carries base notation only ("d20", "2d6"); the numeric ability modifier is
// looked up from the named ability when the roll is submitted.
type DiceRollRequest struct {
	DiceType        string `json:"dice_type"`
	AbilityModifier string `json:"ability_modifier,omitempty"`
	Proficient      bool   `json:"proficient,omitempty"`
	Difficulty      *int   `json:"difficulty,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// TurnOutcome is the immutable result of one dispatched player action,
// produced by either the combat resolver or the narrative bridge. The turn
// orchestrator is its only consumer.
type TurnOutcome struct {
	Message         string           `json:"message"`
	Deltas          []PlayerDelta    `json:"player_deltas,omitempty"`
	DiceRollRequest *DiceRollRequest `json:"dice_roll_request,omitempty"`
	CombatStarted   bool             `json:"combat_started"`
}
