package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/timonchiklol/console-rpg/pkg/dice"
)

func TestParseNotation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  dice.Notation
	}{
		{"bare d20", "d20", dice.Notation{Count: 1, Sides: 20}},
		{"counted", "2d6", dice.Notation{Count: 2, Sides: 6}},
		{"with modifier", "2d6+3", dice.Notation{Count: 2, Sides: 6, Modifier: 3}},
		{"uppercase and spaces", " 3 D 8 ", dice.Notation{Count: 3, Sides: 8}},
		{"empty falls back", "", dice.Notation{Count: 1, Sides: 20}},
		{"garbage falls back", "banana", dice.Notation{Count: 1, Sides: 20}},
		{"zero sides falls back", "2d0", dice.Notation{Count: 1, Sides: 20}},
		{"negative count falls back", "-1d6", dice.Notation{Count: 1, Sides: 20}},
		{"compound prefix falls back", "ability_check:d20", dice.Notation{Count: 1, Sides: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dice.ParseNotation(tt.input))
		})
	}
}

func TestNotation_Roll(t *testing.T) {
	src := dice.NewSource()
	n := dice.ParseNotation("2d6+3")
	for i := 0; i < 100; i++ {
		v := n.Roll(src)
		assert.GreaterOrEqual(t, v, 5)
		assert.LessOrEqual(t, v, 15)
	}

	// A zero-value Notation still rolls something usable.
	var zero dice.Notation
	v := zero.Roll(src)
	assert.GreaterOrEqual(t, v, 1)
	assert.LessOrEqual(t, v, 20)
}

func TestNotation_String(t *testing.T) {
	assert.Equal(t, "1d20", dice.ParseNotation("d20").String())
	assert.Equal(t, "2d6+3", dice.ParseNotation("2d6+3").String())
}
