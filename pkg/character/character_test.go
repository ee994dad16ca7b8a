package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timonchiklol/console-rpg/pkg/character"
	"github.com/timonchiklol/console-rpg/pkg/dice"
)

// lowSource always rolls the minimum.
type lowSource struct{}

func (lowSource) Intn(n int) int { return 0 }

// highSource always rolls the maximum.
type highSource struct{}

func (highSource) Intn(n int) int { return n - 1 }

func TestDeriveStartingStats(t *testing.T) {
	tests := []struct {
		name       string
		race       string
		class      string
		src        dice.Source
		wantHP     int
		wantGold   int
		wantDamage int
		wantSlots  character.MagicSlots
	}{
		{
			name: "Human Warrior minimum damage",
			race: "Human", class: "Warrior", src: lowSource{},
			wantHP: 20, wantGold: 7, wantDamage: 2,
		},
		{
			name: "Human Warrior maximum damage",
			race: "Human", class: "Warrior", src: highSource{},
			wantHP: 20, wantGold: 7, wantDamage: 7,
		},
		{
			name: "Gnome Mage stacks magic slots",
			race: "Gnome", class: "Mage", src: lowSource{},
			wantHP: 12, wantGold: 8, wantDamage: 1,
			wantSlots: character.MagicSlots{First: 5, Second: 1},
		},
		{
			name: "Tiefling Warlock stacks magic slots",
			race: "Tiefling", class: "Warlock", src: lowSource{},
			wantHP: 15, wantGold: 6, wantDamage: 1,
			wantSlots: character.MagicSlots{First: 3, Second: 1},
		},
		{
			name: "Rogue damage bonus applies",
			race: "Halfling", class: "Rogue", src: highSource{},
			wantHP: 14, wantGold: 15, wantDamage: 8, // 1d6 max + 2
		},
		{
			name: "Dwarf Cleric",
			race: "Dwarf", class: "Cleric", src: lowSource{},
			wantHP: 22, wantGold: 9, wantDamage: 1,
			wantSlots: character.MagicSlots{First: 2, Second: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := character.DeriveStartingStats(tt.race, tt.class, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHP, stats.HealthPoints)
			assert.Equal(t, tt.wantGold, stats.Gold)
			assert.Equal(t, tt.wantDamage, stats.Damage)
			assert.Equal(t, tt.wantSlots, stats.MagicSlots)
			assert.Equal(t, 1, stats.Level, "all characters start at level 1")
		})
	}
}

func TestDeriveStartingStats_UnknownKeys(t *testing.T) {
	_, err := character.DeriveStartingStats("Vampire", "Warrior", lowSource{})
	assert.ErrorIs(t, err, character.ErrUnknownRace)

	_, err = character.DeriveStartingStats("Human", "Necromancer", lowSource{})
	assert.ErrorIs(t, err, character.ErrUnknownClass)
}

func TestDefaultAbilityScores(t *testing.T) {
	scores, err := character.DefaultAbilityScores("Warrior", "Orc")
	require.NoError(t, err)
	assert.Equal(t, 17, scores.Strength, "class baseline 15 + orc bonus 2")
	assert.Equal(t, 15, scores.Constitution, "class baseline 14 + orc bonus 1")
	assert.Equal(t, 12, scores.Dexterity)

	scores, err = character.DefaultAbilityScores("Mage", "Gnome")
	require.NoError(t, err)
	assert.Equal(t, 17, scores.Intelligence)

	_, err = character.DefaultAbilityScores("Bard", "Vampire")
	assert.ErrorIs(t, err, character.ErrUnknownRace)
}

func TestAbilityScores_Score(t *testing.T) {
	scores := character.AbilityScores{Strength: 17, Wisdom: 9}
	assert.Equal(t, 17, scores.Score("strength"))
	assert.Equal(t, 9, scores.Score("wisdom"))
	assert.Equal(t, 10, scores.Score("luck"), "unknown ability defaults to 10")
}

func TestEnumerations(t *testing.T) {
	assert.Len(t, character.Races(), 8)
	assert.Len(t, character.Classes(), 10)
	assert.Contains(t, character.Races(), "Dragonborn")
	assert.Contains(t, character.Classes(), "Druid")

	for _, race := range character.Races() {
		_, err := character.RaceByName(race)
		assert.NoError(t, err, race)
	}
	for _, class := range character.Classes() {
		_, err := character.ClassByName(class)
		assert.NoError(t, err, class)
	}
}
