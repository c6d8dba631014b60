package character

import (
	"encoding/json"
	"fmt"

	"github.com/cory-johannsen/minidnd/internal/game/rules"
)

// CheckKind separates ability-check proficiencies from saving-throw proficiencies.
type CheckKind int

const (
	AbilityCheck CheckKind = iota
	SavingThrow
)

// CheckKinds lists both kinds.
var CheckKinds = []CheckKind{AbilityCheck, SavingThrow}

// String returns the snake_case kind name used in stored records.
func (k CheckKind) String() string {
	switch k {
	case AbilityCheck:
		return "ability_check"
	case SavingThrow:
		return "saving_throw"
	default:
		return fmt.Sprintf("check_kind(%d)", int(k))
	}
}

// ParseCheckKind accepts "ability_check"/"check" or "saving_throw"/"save".
func ParseCheckKind(s string) (CheckKind, error) {
	switch s {
	case "ability_check", "check":
		return AbilityCheck, nil
	case "saving_throw", "save":
		return SavingThrow, nil
	}
	return 0, fmt.Errorf("unknown check kind %q", s)
}

// ProficiencyKey addresses one skill map in a ProficiencyTable.
type ProficiencyKey struct {
	Ability Ability
	Kind    CheckKind
}

// ProficiencyTable maps (ability, check kind) to the skills and tools that
// grant proficiency there. Only whether a map has entries matters: any entry
// grants the actor's proficiency bonus once, and entries never stack.
type ProficiencyTable map[ProficiencyKey]map[string]int

// Skills returns the skill map for (a, k); nil when none are recorded.
func (t ProficiencyTable) Skills(a Ability, k CheckKind) map[string]int {
	return t[ProficiencyKey{Ability: a, Kind: k}]
}

// Has reports whether any skill grants proficiency for (a, k).
func (t ProficiencyTable) Has(a Ability, k CheckKind) bool {
	return len(t.Skills(a, k)) > 0
}

// Clone returns a deep copy of the table.
func (t ProficiencyTable) Clone() ProficiencyTable {
	if t == nil {
		return nil
	}
	out := make(ProficiencyTable, len(t))
	for key, skills := range t {
		cp := make(map[string]int, len(skills))
		for name, v := range skills {
			cp[name] = v
		}
		out[key] = cp
	}
	return out
}

// MarshalJSON writes all twelve skill maps, grouped by kind then ability.
func (t ProficiencyTable) MarshalJSON() ([]byte, error) {
	doc := make(map[string]map[Ability]map[string]int, len(CheckKinds))
	for _, k := range CheckKinds {
		byAbility := make(map[Ability]map[string]int, len(Abilities))
		for _, a := range Abilities {
			skills := t.Skills(a, k)
			if skills == nil {
				skills = map[string]int{}
			}
			byAbility[a] = skills
		}
		doc[k.String()] = byAbility
	}
	return json.Marshal(doc)
}

// UnmarshalJSON reads the grouped form. Unknown kinds or abilities are errors;
// empty skill maps are dropped.
func (t *ProficiencyTable) UnmarshalJSON(data []byte) error {
	var doc map[string]map[Ability]map[string]int
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	out := make(ProficiencyTable)
	for kindName, byAbility := range doc {
		kind, err := ParseCheckKind(kindName)
		if err != nil {
			return err
		}
		for a, skills := range byAbility {
			if len(skills) > 0 {
				out[ProficiencyKey{Ability: a, Kind: kind}] = skills
			}
		}
	}
	*t = out
	return nil
}

// AddProficiency records skill under (a, k) with the given value.
func (a *Actor) AddProficiency(ability Ability, kind CheckKind, skill string, value int) {
	if a.Proficiencies == nil {
		a.Proficiencies = make(ProficiencyTable)
	}
	key := ProficiencyKey{Ability: ability, Kind: kind}
	if a.Proficiencies[key] == nil {
		a.Proficiencies[key] = make(map[string]int)
	}
	a.Proficiencies[key][skill] = value
}

// ProficiencyBonus returns the level-derived bonus for the actor's experience.
//
// Postcondition: Returns rules.ErrInvalidExperience for negative experience.
func (a *Actor) ProficiencyBonus() (int, error) {
	return rules.ProficiencyBonusForExp(a.Experience)
}

// ProficiencyModifiers returns the ability-check proficiency bonus per ability.
func (a *Actor) ProficiencyModifiers() (Modifiers, error) {
	return a.proficiencyFor(AbilityCheck)
}

// SavingThrowModifiers returns the saving-throw proficiency bonus per ability.
func (a *Actor) SavingThrowModifiers() (Modifiers, error) {
	return a.proficiencyFor(SavingThrow)
}

// proficiencyFor grants the bonus once for each ability whose kind-k map is non-empty.
func (a *Actor) proficiencyFor(k CheckKind) (Modifiers, error) {
	bonus, err := a.ProficiencyBonus()
	if err != nil {
		return Modifiers{}, fmt.Errorf("actor %q: %w", a.Name, err)
	}
	var m Modifiers
	for _, ab := range Abilities {
		if a.Proficiencies.Has(ab, k) {
			m[ab] = bonus
		}
	}
	return m, nil
}
