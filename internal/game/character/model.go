// Package character defines the actor record, its ability scores, and the
// derived modifiers and proficiency bonuses used by checks.
package character

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/minidnd/internal/game/inventory"
)

// Ability names one of the six ability scores.
type Ability int

const (
	Strength Ability = iota
	Dexterity
	Constitution
	Intelligence
	Wisdom
	Charisma
)

// Abilities lists the six abilities in rule-book order.
var Abilities = []Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

var abilityNames = [...]string{"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma"}

// String returns the lowercase ability name.
func (a Ability) String() string {
	if a < Strength || a > Charisma {
		return fmt.Sprintf("ability(%d)", int(a))
	}
	return abilityNames[a]
}

// ParseAbility accepts a full ability name or its three-letter abbreviation.
func ParseAbility(s string) (Ability, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range abilityNames {
		if s == name || s == name[:3] {
			return Ability(i), nil
		}
	}
	return 0, fmt.Errorf("unknown ability %q", s)
}

// MarshalText encodes the ability by name so it can key JSON objects.
func (a Ability) MarshalText() ([]byte, error) {
	if a < Strength || a > Charisma {
		return nil, fmt.Errorf("unknown ability %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes an ability name.
func (a *Ability) UnmarshalText(b []byte) error {
	v, err := ParseAbility(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// AbilityScores holds the six raw ability score values for an actor.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// DefaultAbilityScores returns the standard array 15, 14, 13, 12, 10, 8.
func DefaultAbilityScores() AbilityScores {
	return AbilityScores{
		Strength: 15, Dexterity: 14, Constitution: 13,
		Intelligence: 12, Wisdom: 10, Charisma: 8,
	}
}

// Score returns the raw score for a.
func (s AbilityScores) Score(a Ability) int {
	switch a {
	case Strength:
		return s.Strength
	case Dexterity:
		return s.Dexterity
	case Constitution:
		return s.Constitution
	case Intelligence:
		return s.Intelligence
	case Wisdom:
		return s.Wisdom
	case Charisma:
		return s.Charisma
	}
	return 0
}

// Modifiers holds one derived value per ability: an ability modifier or a
// proficiency bonus, depending on where it came from.
type Modifiers [6]int

// Get returns the value for a.
func (m Modifiers) Get(a Ability) int {
	if a < Strength || a > Charisma {
		return 0
	}
	return m[a]
}

// Modifier returns the ability modifier for a score: (score - 10) / 2.
// Division truncates toward zero, so 9 yields 0 and 7 yields -1.
func Modifier(score int) int {
	return (score - 10) / 2
}

// ScoresToModifiers derives all six ability modifiers.
//
// Postcondition: result.Get(a) == Modifier(s.Score(a)) for every ability.
func ScoresToModifiers(s AbilityScores) Modifiers {
	var m Modifiers
	for _, a := range Abilities {
		m[a] = Modifier(s.Score(a))
	}
	return m
}

// Actor is a player record. Modifiers and proficiency bonuses are derived on
// demand and never stored.
type Actor struct {
	Name          string                      `json:"name"`
	Abilities     AbilityScores               `json:"ability_scores"`
	Coins         inventory.Coins             `json:"coins"`
	WalkingSpeed  int                         `json:"walking_speed"`
	FlyingSpeed   int                         `json:"flying_speed"`
	Armor         int                         `json:"armor"`
	Experience    int                         `json:"exp"`
	HP            int                         `json:"hp"`
	Proficiencies ProficiencyTable            `json:"proficiencies"`
	Weapons       map[string]inventory.Weapon `json:"weapons"`
}

// Modifiers derives the actor's ability modifiers.
func (a *Actor) Modifiers() Modifiers {
	return ScoresToModifiers(a.Abilities)
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	out := *a
	out.Proficiencies = a.Proficiencies.Clone()
	if a.Weapons != nil {
		out.Weapons = make(map[string]inventory.Weapon, len(a.Weapons))
		for k, w := range a.Weapons {
			out.Weapons[k] = w
		}
	}
	return &out
}

// Roster maps actor names to actor records.
type Roster map[string]*Actor

// Clone returns a deep copy of the roster. Nil entries stay nil.
func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	out := make(Roster, len(r))
	for name, a := range r {
		if a != nil {
			a = a.Clone()
		}
		out[name] = a
	}
	return out
}

// Names returns the roster keys in sorted order.
func (r Roster) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
