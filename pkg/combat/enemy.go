package combat

import (
	"sort"

	"github.com/timonchiklol/console-rpg/pkg/dice"
)

// EnemyTemplate is a static enemy archetype. Templates are never mutated;
// Start clones one into an EnemyInstance.
type EnemyTemplate struct {
	Name      string
	HP        int
	DamageMin int
	DamageMax int
	XP        int
	GoldMin   int
	GoldMax   int
}

// EnemyInstance is a live enemy in a specific room's combat episode. Only
// Name and HP vary over its lifetime; the rest is carried from the template
// so a reloaded room can resume mid-fight.
type EnemyInstance struct {
	Name      string
	HP        int
	MaxHP     int
	DamageMin int
	DamageMax int
	XP        int
	GoldMin   int
	GoldMax   int
}

// CounterAttack rolls the enemy's retaliation damage.
func (e *EnemyInstance) CounterAttack(src dice.Source) int {
	return dice.RollRange(src, e.DamageMin, e.DamageMax)
}

var templates = map[string]EnemyTemplate{
	"Goblin":       {Name: "Goblin", HP: 7, DamageMin: 1, DamageMax: 6, XP: 50, GoldMin: 1, GoldMax: 6},
	"Skeleton":     {Name: "Skeleton", HP: 13, DamageMin: 1, DamageMax: 8, XP: 100, GoldMin: 2, GoldMax: 8},
	"Orc":          {Name: "Orc", HP: 15, DamageMin: 1, DamageMax: 12, XP: 150, GoldMin: 2, GoldMax: 10},
	"Wolf":         {Name: "Wolf", HP: 11, DamageMin: 2, DamageMax: 4, XP: 75, GoldMin: 0, GoldMax: 2},
	"Bandit":       {Name: "Bandit", HP: 11, DamageMin: 1, DamageMax: 8, XP: 100, GoldMin: 4, GoldMax: 10},
	"Zombie":       {Name: "Zombie", HP: 22, DamageMin: 1, DamageMax: 6, XP: 125, GoldMin: 0, GoldMax: 4},
	"Dark Cultist": {Name: "Dark Cultist", HP: 9, DamageMin: 1, DamageMax: 10, XP: 150, GoldMin: 3, GoldMax: 8},
	"Giant Spider": {Name: "Giant Spider", HP: 10, DamageMin: 1, DamageMax: 8, XP: 100, GoldMin: 0, GoldMax: 3},
}

// EnemyNames returns all template names in sorted order.
func EnemyNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start spawns a fresh enemy instance. An empty name picks a random
// template, so the narrator can start combat without naming a foe.
func Start(src dice.Source, name string) (*EnemyInstance, error) {
	if name == "" {
		names := EnemyNames()
		name = names[src.Intn(len(names))]
	}
	tmpl, ok := templates[name]
	if !ok {
		return nil, ErrUnknownEnemy
	}
	return instantiate(tmpl, tmpl.HP), nil
}

// Resume rebuilds a live enemy from persisted room fields. Only name and
// current HP are stored on the room; everything else comes back from the
// template. Unknown names (a renamed or removed template after a save)
// return ErrUnknownEnemy so the caller can end the stale combat instead of
// fighting a ghost.
func Resume(name string, hp int) (*EnemyInstance, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, ErrUnknownEnemy
	}
	if hp > tmpl.HP {
		hp = tmpl.HP
	}
	return instantiate(tmpl, hp), nil
}

func instantiate(tmpl EnemyTemplate, hp int) *EnemyInstance {
	return &EnemyInstance{
		Name:      tmpl.Name,
		HP:        hp,
		MaxHP:     tmpl.HP,
		DamageMin: tmpl.DamageMin,
		DamageMax: tmpl.DamageMax,
		XP:        tmpl.XP,
		GoldMin:   tmpl.GoldMin,
		GoldMax:   tmpl.GoldMax,
	}
}
