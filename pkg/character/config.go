package character

// Race and class tables. HP, gold, damage ranges and magic slots are the
// tuned values the game balance depends on; changing them changes every
// derived character.

var races = map[string]RaceConfig{
	"Human": {
		BaseHP:    15,
		BaseGold:  5,
		DamageMin: 2,
		DamageMax: 7,
		Bonuses: AbilityScores{
			Strength: 1, Dexterity: 1, Constitution: 1,
			Intelligence: 1, Wisdom: 1, Charisma: 1,
		},
	},
	"Elf": {
		BaseHP:    10,
		BaseGold:  5,
		DamageMin: 1,
		DamageMax: 12,
		Bonuses:   AbilityScores{Dexterity: 2, Intelligence: 1},
	},
	"Dwarf": {
		BaseHP:    18,
		BaseGold:  8,
		DamageMin: 1,
		DamageMax: 8,
		Bonuses:   AbilityScores{Constitution: 2, Wisdom: 1},
	},
	"Orc": {
		BaseHP:    8,
		BaseGold:  3,
		DamageMin: 3,
		DamageMax: 12,
		Bonuses:   AbilityScores{Strength: 2, Constitution: 1},
	},
	"Halfling": {
		BaseHP:    12,
		BaseGold:  10,
		DamageMin: 1,
		DamageMax: 6,
		Bonuses:   AbilityScores{Dexterity: 2, Charisma: 1},
	},
	"Dragonborn": {
		BaseHP:    14,
		BaseGold:  6,
		DamageMin: 2,
		DamageMax: 8,
		Bonuses:   AbilityScores{Strength: 2, Charisma: 1},
	},
	"Tiefling": {
		BaseHP:     12,
		BaseGold:   5,
		DamageMin:  1,
		DamageMax:  10,
		MagicSlots: MagicSlots{First: 1},
		Bonuses:    AbilityScores{Intelligence: 1, Charisma: 2},
	},
	"Gnome": {
		BaseHP:     10,
		BaseGold:   7,
		DamageMin:  1,
		DamageMax:  6,
		MagicSlots: MagicSlots{First: 2},
		Bonuses:    AbilityScores{Intelligence: 2, Dexterity: 1},
	},
}

var classes = map[string]ClassConfig{
	"Warrior": {
		HPBonus:        5,
		GoldBonus:      2,
		PrimaryAbility: "strength",
		BaseScores: AbilityScores{
			Strength: 15, Dexterity: 12, Constitution: 14,
			Intelligence: 8, Wisdom: 10, Charisma: 10,
		},
	},
	"Mage": {
		HPBonus:         2,
		GoldBonus:       1,
		MagicSlotsBonus: MagicSlots{First: 3, Second: 1},
		PrimaryAbility:  "intelligence",
		BaseScores: AbilityScores{
			Strength: 8, Dexterity: 12, Constitution: 10,
			Intelligence: 15, Wisdom: 12, Charisma: 10,
		},
	},
	"Ranger": {
		HPBonus:         3,
		GoldBonus:       3,
		MagicSlotsBonus: MagicSlots{First: 1},
		PrimaryAbility:  "dexterity",
		BaseScores: AbilityScores{
			Strength: 11, Dexterity: 15, Constitution: 12,
			Intelligence: 10, Wisdom: 13, Charisma: 8,
		},
	},
	"Rogue": {
		HPBonus:        2,
		GoldBonus:      5,
		DamageBonus:    2,
		PrimaryAbility: "dexterity",
		BaseScores: AbilityScores{
			Strength: 10, Dexterity: 15, Constitution: 10,
			Intelligence: 12, Wisdom: 8, Charisma: 13,
		},
	},
	"Paladin": {
		HPBonus:         4,
		GoldBonus:       2,
		MagicSlotsBonus: MagicSlots{First: 1},
		PrimaryAbility:  "strength",
		BaseScores: AbilityScores{
			Strength: 15, Dexterity: 8, Constitution: 13,
			Intelligence: 10, Wisdom: 10, Charisma: 14,
		},
	},
	"Warlock": {
		HPBonus:         3,
		GoldBonus:       1,
		MagicSlotsBonus: MagicSlots{First: 2, Second: 1},
		PrimaryAbility:  "charisma",
		BaseScores: AbilityScores{
			Strength: 8, Dexterity: 12, Constitution: 12,
			Intelligence: 11, Wisdom: 10, Charisma: 15,
		},
	},
	"Bard": {
		HPBonus:         3,
		GoldBonus:       4,
		MagicSlotsBonus: MagicSlots{First: 2},
		PrimaryAbility:  "charisma",
		BaseScores: AbilityScores{
			Strength: 8, Dexterity: 13, Constitution: 10,
			Intelligence: 11, Wisdom: 10, Charisma: 15,
		},
	},
	"Cleric": {
		HPBonus:         4,
		GoldBonus:       1,
		MagicSlotsBonus: MagicSlots{First: 2, Second: 1},
		PrimaryAbility:  "wisdom",
		BaseScores: AbilityScores{
			Strength: 12, Dexterity: 8, Constitution: 13,
			Intelligence: 10, Wisdom: 15, Charisma: 11,
		},
	},
	"Monk": {
		HPBonus:        3,
		GoldBonus:      1,
		DamageBonus:    1,
		PrimaryAbility: "dexterity",
		BaseScores: AbilityScores{
			Strength: 12, Dexterity: 15, Constitution: 12,
			Intelligence: 8, Wisdom: 13, Charisma: 9,
		},
	},
	"Druid": {
		HPBonus:         3,
		GoldBonus:       2,
		MagicSlotsBonus: MagicSlots{First: 2, Second: 1},
		PrimaryAbility:  "wisdom",
		BaseScores: AbilityScores{
			Strength: 10, Dexterity: 10, Constitution: 12,
			Intelligence: 11, Wisdom: 15, Charisma: 9,
		},
	},
}
