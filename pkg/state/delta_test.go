package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestPlayerDelta_Apply_Sparse(t *testing.T) {
	p := &PlayerState{
		ID:           "p1",
		Name:         "Alia",
		HealthPoints: 18,
		Gold:         12,
		Damage:       6,
		Level:        2,
		Magic1Lvl:    1,
	}

	delta := &PlayerDelta{
		PlayerID:     "p1",
		HealthPoints: intPtr(11),
	}
	delta.Apply(p)

	assert.Equal(t, 11, p.HealthPoints)
	assert.Equal(t, 12, p.Gold, "omitted gold must remain unchanged")
	assert.Equal(t, 6, p.Damage, "omitted damage must remain unchanged")
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 1, p.Magic1Lvl)
	assert.Equal(t, "Alia", p.Name)
}

func TestPlayerDelta_Apply_ZeroIsNotAbsent(t *testing.T) {
	p := &PlayerState{ID: "p1", Gold: 30}

	delta := &PlayerDelta{PlayerID: "p1", Gold: intPtr(0)}
	delta.Apply(p)

	assert.Equal(t, 0, p.Gold, "an explicit zero is applied")
}

func TestPlayerDelta_Apply_MagicSlotsClamp(t *testing.T) {
	p := &PlayerState{ID: "p1", Magic1Lvl: 1, Magic2Lvl: 1}

	delta := &PlayerDelta{
		PlayerID:  "p1",
		Magic1Lvl: intPtr(-3),
		Magic2Lvl: intPtr(0),
	}
	delta.Apply(p)

	assert.Equal(t, 0, p.Magic1Lvl, "magic slots never go negative")
	assert.Equal(t, 0, p.Magic2Lvl)
}

func TestPlayerDelta_Apply_NilReceivers(t *testing.T) {
	// Neither direction panics.
	var d *PlayerDelta
	d.Apply(&PlayerState{})
	(&PlayerDelta{Gold: intPtr(5)}).Apply(nil)
}

func TestPlayerDelta_IsEmpty(t *testing.T) {
	var nilDelta *PlayerDelta
	assert.True(t, nilDelta.IsEmpty())
	assert.True(t, (&PlayerDelta{PlayerID: "p1"}).IsEmpty())
	assert.False(t, (&PlayerDelta{PlayerID: "p1", Gold: intPtr(1)}).IsEmpty())
}
