// Package character holds the race and class configuration tables and
// derives starting stats for new player characters.
package character

import (
	"errors"
	"sort"

	"github.com/timonchiklol/console-rpg/pkg/dice"
)

var (
	ErrUnknownRace  = errors.New("character: unknown race")
	ErrUnknownClass = errors.New("character: unknown class")
)

// AbilityScores are the six core D&D ability scores.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Score returns the score for a lowercase ability name, defaulting to 10
// for an unrecognized name so a model-supplied ability never breaks a check.
func (a AbilityScores) Score(ability string) int {
	switch ability {
	case "strength":
		return a.Strength
	case "dexterity":
		return a.Dexterity
	case "constitution":
		return a.Constitution
	case "intelligence":
		return a.Intelligence
	case "wisdom":
		return a.Wisdom
	case "charisma":
		return a.Charisma
	}
	return 10
}

func (a AbilityScores) add(b AbilityScores) AbilityScores {
	return AbilityScores{
		Strength:     a.Strength + b.Strength,
		Dexterity:    a.Dexterity + b.Dexterity,
		Constitution: a.Constitution + b.Constitution,
		Intelligence: a.Intelligence + b.Intelligence,
		Wisdom:       a.Wisdom + b.Wisdom,
		Charisma:     a.Charisma + b.Charisma,
	}
}

// MagicSlots are the spell slots available per spell level.
type MagicSlots struct {
	First  int `json:"1st"`
	Second int `json:"2nd"`
}

// RaceConfig is the static configuration for a playable race.
type RaceConfig struct {
	BaseHP     int
	BaseGold   int
	DamageMin  int
	DamageMax  int
	MagicSlots MagicSlots
	Bonuses    AbilityScores
}

// ClassConfig is the static configuration for a playable class.
type ClassConfig struct {
	HPBonus         int
	GoldBonus       int
	DamageBonus     int
	MagicSlotsBonus MagicSlots
	BaseScores      AbilityScores
	PrimaryAbility  string
}

// StartingStats is the stat fragment derived for a freshly created character.
// Damage is rolled once from the race's range at creation and then evolves as
// a running stat; it is never recomputed per combat round.
type StartingStats struct {
	HealthPoints int
	Gold         int
	Damage       int
	Level        int
	MagicSlots   MagicSlots
}

// Races returns the canonical race keys in sorted order.
func Races() []string {
	keys := make([]string, 0, len(races))
	for k := range races {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Classes returns the canonical class keys in sorted order.
func Classes() []string {
	keys := make([]string, 0, len(classes))
	for k := range classes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RaceByName looks up a race config by canonical key.
func RaceByName(race string) (RaceConfig, error) {
	cfg, ok := races[race]
	if !ok {
		return RaceConfig{}, ErrUnknownRace
	}
	return cfg, nil
}

// ClassByName looks up a class config by canonical key.
func ClassByName(class string) (ClassConfig, error) {
	cfg, ok := classes[class]
	if !ok {
		return ClassConfig{}, ErrUnknownClass
	}
	return cfg, nil
}

// DeriveStartingStats sums the race base values and class bonuses into a new
// character's stat block. The damage stat is one uniform draw from the
// race's damage range plus the class damage bonus.
func DeriveStartingStats(race, class string, src dice.Source) (StartingStats, error) {
	rc, ok := races[race]
	if !ok {
		return StartingStats{}, ErrUnknownRace
	}
	cc, ok := classes[class]
	if !ok {
		return StartingStats{}, ErrUnknownClass
	}

	return StartingStats{
		HealthPoints: rc.BaseHP + cc.HPBonus,
		Gold:         rc.BaseGold + cc.GoldBonus,
		Damage:       dice.RollRange(src, rc.DamageMin, rc.DamageMax) + cc.DamageBonus,
		Level:        1,
		MagicSlots: MagicSlots{
			First:  rc.MagicSlots.First + cc.MagicSlotsBonus.First,
			Second: rc.MagicSlots.Second + cc.MagicSlotsBonus.Second,
		},
	}, nil
}

// DefaultAbilityScores combines the class baseline array with the race's
// additive per-ability bonuses. Used when the character has no explicit
// ability-score override.
func DefaultAbilityScores(class, race string) (AbilityScores, error) {
	cc, ok := classes[class]
	if !ok {
		return AbilityScores{}, ErrUnknownClass
	}
	rc, ok := races[race]
	if !ok {
		return AbilityScores{}, ErrUnknownRace
	}
	return cc.BaseScores.add(rc.Bonuses), nil
}
