package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/minidnd/internal/game/inventory"
	"github.com/cory-johannsen/minidnd/internal/game/ruleset"
)

const (
	// DefaultName is the name given to NewDefault actors.
	DefaultName = "Alice"
	// DefaultWalkingSpeed is the walking speed of a NewDefault actor, in feet.
	DefaultWalkingSpeed = 30
	// DefaultArmor is the armor value of a NewDefault actor.
	DefaultArmor = 8
	// DefaultHP is the hit points of a NewDefault actor.
	DefaultHP = 100
)

// NewDefault returns a level-1 actor with the standard array and starting purse.
func NewDefault() *Actor {
	return New(DefaultName, DefaultAbilityScores(), inventory.DefaultCoins(),
		DefaultWalkingSpeed, 0, DefaultArmor, 0, DefaultHP)
}

// New builds an actor from explicit field values with no proficiencies or weapons.
func New(name string, scores AbilityScores, coins inventory.Coins,
	walkingSpeed, flyingSpeed, armor, exp, hp int) *Actor {
	return &Actor{
		Name:          name,
		Abilities:     scores,
		Coins:         coins,
		WalkingSpeed:  walkingSpeed,
		FlyingSpeed:   flyingSpeed,
		Armor:         armor,
		Experience:    exp,
		HP:            hp,
		Proficiencies: make(ProficiencyTable),
		Weapons:       make(map[string]inventory.Weapon),
	}
}

// ApplyClass grants every proficiency listed by class. When the class defines
// hit points they replace the actor's HP.
//
// Precondition: class must be non-nil.
// Postcondition: On error the actor is left unchanged.
func (a *Actor) ApplyClass(class *ruleset.Class) error {
	if class == nil {
		return errors.New("class must not be nil")
	}
	type grant struct {
		ability Ability
		kind    CheckKind
		skill   string
	}
	var grants []grant
	for kindName, byAbility := range class.Proficiencies {
		kind, err := ParseCheckKind(kindName)
		if err != nil {
			return fmt.Errorf("class %q: %w", class.ID, err)
		}
		for abilityName, skills := range byAbility {
			ability, err := ParseAbility(abilityName)
			if err != nil {
				return fmt.Errorf("class %q: %w", class.ID, err)
			}
			for _, s := range skills {
				grants = append(grants, grant{ability: ability, kind: kind, skill: s})
			}
		}
	}
	for _, g := range grants {
		a.AddProficiency(g.ability, g.kind, g.skill, 0)
	}
	if class.HitPoints > 0 {
		a.HP = class.HitPoints
	}
	return nil
}

// AddWeapon stores w under its name.
func (a *Actor) AddWeapon(w inventory.Weapon) {
	if a.Weapons == nil {
		a.Weapons = make(map[string]inventory.Weapon)
	}
	a.Weapons[w.Name] = w
}
