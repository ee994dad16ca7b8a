// Package combat is the deterministic combat resolver. It runs entirely on
// local dice, independent of whatever the language model narrates, so room
// combat state stays consistent no matter what the model says.
package combat

import (
	"errors"
	"fmt"

	"github.com/timonchiklol/console-rpg/pkg/dice"
	"github.com/timonchiklol/console-rpg/pkg/state"
)

var (
	// ErrInvalidAction is returned for an in-combat action outside
	// attack/spell/flee. The caller reports it; no state changes.
	ErrInvalidAction = errors.New("combat: invalid action")

	// ErrUnknownEnemy is returned when a requested enemy type has no
	// template.
	ErrUnknownEnemy = errors.New("combat: unknown enemy type")

	// ErrNoSpellSlots is returned when a spell is cast with no 1st-level
	// slots remaining. No state changes.
	ErrNoSpellSlots = errors.New("combat: no spell slots left")
)

// LevelUpXP is the XP reward threshold at which a victory grants a level.
// It is tied to the enemy templates below; tune them together.
const LevelUpXP = 100

// Level-up bundle granted when a victory crosses LevelUpXP.
const (
	levelUpHP     = 5
	levelUpDamage = 1
)

// fleeDC: a d20 roll strictly above this flees successfully (40%).
const fleeDC = 12

// Spell damage range. Spells cost a 1st-level slot and have a strictly
// higher floor than melee to reward spending it.
const (
	spellDamageMin = 3
	spellDamageMax = 10
)

// Outcome is the terminal classification of one resolved combat round.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeVictory
	OutcomeFled
	OutcomeFleeFailed
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeVictory:
		return "victory"
	case OutcomeFled:
		return "fled"
	case OutcomeFleeFailed:
		return "flee_failed"
	case OutcomeDefeat:
		return "defeat"
	}
	return "unknown"
}

// Ended reports whether the outcome terminates the combat episode.
func (o Outcome) Ended() bool {
	return o == OutcomeVictory || o == OutcomeFled || o == OutcomeDefeat
}

// Result describes one resolved combat round. PlayerDamage is damage dealt
// by the player this round, EnemyDamage is damage taken.
type Result struct {
	Outcome      Outcome
	Message      string
	PlayerDamage int
	EnemyDamage  int
	GoldReward   int
	XPReward     int
	LeveledUp    bool
}

// Resolve processes one combat action for the player against the enemy.
// Player and enemy are mutated in place; the caller syncs room fields from
// them afterwards. Invalid actions return ErrInvalidAction with no mutation.
func Resolve(src dice.Source, p *state.PlayerState, e *EnemyInstance, action string) (Result, error) {
	switch action {
	case "attack":
		return resolveStrike(src, p, e, playerAttack(src, p))
	case "spell":
		if p.Magic1Lvl <= 0 {
			return Result{}, ErrNoSpellSlots
		}
		p.Magic1Lvl--
		return resolveStrike(src, p, e, dice.RollRange(src, spellDamageMin, spellDamageMax))
	case "flee":
		return resolveFlee(src, p, e)
	default:
		return Result{}, ErrInvalidAction
	}
}

// playerAttack rolls melee damage: uniform between 1 and the character's
// current damage stat. The damage stat is the die size, not a die count —
// a deliberate house rule decoupling the stat from dice notation.
func playerAttack(src dice.Source, p *state.PlayerState) int {
	sides := p.Damage
	if sides < 1 {
		sides = 1
	}
	total, _ := dice.Roll(src, 1, sides)
	return total
}

func resolveStrike(src dice.Source, p *state.PlayerState, e *EnemyInstance, damage int) (Result, error) {
	e.HP -= damage
	if e.HP <= 0 {
		return victory(src, p, e, damage), nil
	}

	counter := e.CounterAttack(src)
	p.HealthPoints -= counter
	if p.HealthPoints <= 0 {
		return Result{
			Outcome:      OutcomeDefeat,
			PlayerDamage: damage,
			EnemyDamage:  counter,
			Message:      "You have been defeated! Game Over!",
		}, nil
	}

	return Result{
		Outcome:      OutcomeContinue,
		PlayerDamage: damage,
		EnemyDamage:  counter,
		Message: fmt.Sprintf("You hit the %s for %d damage! The %s hits you for %d damage! Enemy HP: %d. Your HP: %d.",
			e.Name, damage, e.Name, counter, e.HP, p.HealthPoints),
	}, nil
}

func victory(src dice.Source, p *state.PlayerState, e *EnemyInstance, damage int) Result {
	gold := dice.RollRange(src, e.GoldMin, e.GoldMax)
	p.Gold += gold

	result := Result{
		Outcome:      OutcomeVictory,
		PlayerDamage: damage,
		GoldReward:   gold,
		XPReward:     e.XP,
	}

	if e.XP >= LevelUpXP {
		p.Level++
		p.HealthPoints += levelUpHP
		p.Damage += levelUpDamage
		result.LeveledUp = true
		result.Message = fmt.Sprintf("You defeated the %s! Gained %d gold and %d XP! Level up! You are now level %d!",
			e.Name, gold, e.XP, p.Level)
	} else {
		result.Message = fmt.Sprintf("You defeated the %s! Gained %d gold and %d XP!", e.Name, gold, e.XP)
	}
	return result
}

func resolveFlee(src dice.Source, p *state.PlayerState, e *EnemyInstance) (Result, error) {
	roll, _ := dice.Roll(src, 1, 20)
	if roll > fleeDC {
		return Result{
			Outcome: OutcomeFled,
			Message: "You successfully fled from combat!",
		}, nil
	}

	// Failed escape: the enemy gets a free hit, the player loses the round.
	counter := e.CounterAttack(src)
	p.HealthPoints -= counter
	if p.HealthPoints <= 0 {
		return Result{
			Outcome:     OutcomeDefeat,
			EnemyDamage: counter,
			Message:     "You have been defeated! Game Over!",
		}, nil
	}
	return Result{
		Outcome:     OutcomeFleeFailed,
		EnemyDamage: counter,
		Message:     fmt.Sprintf("Failed to flee! The %s hits you for %d damage!", e.Name, counter),
	}, nil
}
