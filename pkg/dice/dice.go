// Package dice implements the deterministic dice mechanics for the game:
// raw rolls, ability modifiers, and d20 ability checks.
package dice

import (
	"errors"
	"math/rand/v2"
)

// ErrInvalidDice is returned when a roll is requested with a non-positive
// die count or side count.
var ErrInvalidDice = errors.New("dice: count and sides must be positive")

// ProficiencyBonus is the flat bonus added to checks the character is
// proficient in.
const ProficiencyBonus = 2

// DefaultSides is the die used when a caller supplies no usable notation.
// The narrative layer must never fail a turn over a malformed dice string,
// so parsing falls back here instead of erroring.
const DefaultSides = 20

// Source is the randomness provider for all rolls. Implementations must be
// safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n). n must be > 0.
	Intn(n int) int
}

type randSource struct{}

func (randSource) Intn(n int) int { return rand.IntN(n) }

// NewSource returns a Source backed by math/rand/v2's shared generator,
// which is safe for concurrent use.
func NewSource() Source { return randSource{} }

// Roll returns the sum of count independent uniform draws from [1, sides].
func Roll(src Source, count, sides int) (int, error) {
	if count <= 0 || sides <= 0 {
		return 0, ErrInvalidDice
	}
	total := 0
	for i := 0; i < count; i++ {
		total += src.Intn(sides) + 1
	}
	return total, nil
}

// RollRange returns a uniform draw from [min, max]. When min > max the
// bounds are swapped rather than rejected; enemy templates use inclusive
// ranges like (0,2) and (3,12).
func RollRange(src Source, min, max int) int {
	if min > max {
		min, max = max, min
	}
	if min == max {
		return min
	}
	return min + src.Intn(max-min+1)
}

// AbilityModifier converts an ability score to its modifier using floor
// division, so a score of 9 yields -1 rather than 0.
func AbilityModifier(score int) int {
	d := score - 10
	if d < 0 && d%2 != 0 {
		return d/2 - 1
	}
	return d / 2
}

// CheckResult is the full audit of a single d20 ability check. Success is
// nil when no difficulty was given: an unopposed roll carries no pass/fail
// judgment, the total itself is the outcome.
type CheckResult struct {
	BaseRoll         int   `json:"base_roll"`
	AbilityModifier  int   `json:"ability_modifier"`
	ProficiencyBonus int   `json:"proficient_bonus"`
	Total            int   `json:"total"`
	Difficulty       *int  `json:"difficulty,omitempty"`
	Success          *bool `json:"success,omitempty"`
}

// AbilityCheck rolls one d20 and applies the modifier for score, plus the
// proficiency bonus when proficient. When difficulty is non-nil the total
// is compared against it.
func AbilityCheck(src Source, score int, proficient bool, difficulty *int) CheckResult {
	base := src.Intn(20) + 1
	result := CheckResult{
		BaseRoll:        base,
		AbilityModifier: AbilityModifier(score),
	}
	if proficient {
		result.ProficiencyBonus = ProficiencyBonus
	}
	result.Total = base + result.AbilityModifier + result.ProficiencyBonus
	if difficulty != nil {
		d := *difficulty
		ok := result.Total >= d
		result.Difficulty = &d
		result.Success = &ok
	}
	return result
}
