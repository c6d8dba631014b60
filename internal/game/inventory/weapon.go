// Package inventory provides the purse, currency conversion, and weapon
// catalog definitions carried by actors.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/minidnd/internal/game/dice"
)

// WeaponCategory classifies a weapon by training and reach.
type WeaponCategory string

const (
	SimpleMelee   WeaponCategory = "simple_melee"
	SimpleRanged  WeaponCategory = "simple_ranged"
	MartialMelee  WeaponCategory = "martial_melee"
	MartialRanged WeaponCategory = "martial_ranged"
)

// Valid reports whether c is one of the four catalog categories.
func (c WeaponCategory) Valid() bool {
	switch c {
	case SimpleMelee, SimpleRanged, MartialMelee, MartialRanged:
		return true
	}
	return false
}

// DamageType is the kind of damage a weapon deals.
type DamageType string

const (
	Bludgeon DamageType = "bludgeon"
	Slash    DamageType = "slash"
	Pierce   DamageType = "pierce"
)

// Valid reports whether d is a known damage type.
func (d DamageType) Valid() bool {
	return d == Bludgeon || d == Slash || d == Pierce
}

// Price is a weapon's cost in a single denomination.
type Price struct {
	Denomination Denomination `json:"denomination" yaml:"denomination"`
	Amount       int          `json:"amount" yaml:"amount"`
}

// CopperValue converts the price to copper pieces.
func (p Price) CopperValue() (int, error) {
	v, err := p.Denomination.CopperValue()
	if err != nil {
		return 0, err
	}
	return v * p.Amount, nil
}

// Weapon is a static catalog entry. The engine stores it but never computes with it.
type Weapon struct {
	Name       string          `json:"name" yaml:"name"`
	Category   WeaponCategory  `json:"category" yaml:"category"`
	Damage     dice.Expression `json:"damage" yaml:"-"`
	DamageType DamageType      `json:"damage_type" yaml:"damage_type"`
	Price      Price           `json:"price" yaml:"price"`
}

// weaponYAML is the catalog file form, carrying damage as "NdM" notation.
type weaponYAML struct {
	Name       string         `yaml:"name"`
	Category   WeaponCategory `yaml:"category"`
	Damage     string         `yaml:"damage"`
	DamageType DamageType     `yaml:"damage_type"`
	Price      Price          `yaml:"price"`
}

// Validate checks that the Weapon satisfies its invariants.
// Postcondition: returns nil iff all fields are valid.
func (w *Weapon) Validate() error {
	var errs []error
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !w.Category.Valid() {
		errs = append(errs, fmt.Errorf("unknown category %q", w.Category))
	}
	if err := w.Damage.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("damage: %w", err))
	}
	if !w.DamageType.Valid() {
		errs = append(errs, fmt.Errorf("unknown damage type %q", w.DamageType))
	}
	if _, err := w.Price.Denomination.CopperValue(); err != nil {
		errs = append(errs, fmt.Errorf("price: %w", err))
	}
	if w.Price.Amount < 0 {
		errs = append(errs, fmt.Errorf("price amount must be >= 0, got %d", w.Price.Amount))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// ParseWeapons decodes a YAML document holding a list of weapons.
func ParseWeapons(data []byte) ([]*Weapon, error) {
	var raw []weaponYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing weapons: %w", err)
	}
	weapons := make([]*Weapon, 0, len(raw))
	for _, r := range raw {
		dmg, err := dice.Parse(r.Damage)
		if err != nil {
			return nil, fmt.Errorf("weapon %q: %w", r.Name, err)
		}
		w := &Weapon{
			Name:       r.Name,
			Category:   r.Category,
			Damage:     dmg,
			DamageType: r.DamageType,
			Price:      r.Price,
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("weapon %q: %w", r.Name, err)
		}
		weapons = append(weapons, w)
	}
	return weapons, nil
}

// LoadWeapons reads all *.yaml and *.yml files from dir and returns the
// catalog keyed by weapon name.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid weapons or the first encountered error.
func LoadWeapons(dir string) (map[string]*Weapon, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot read directory %q: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	catalog := make(map[string]*Weapon)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot read file %q: %w", path, err)
		}
		weapons, err := ParseWeapons(data)
		if err != nil {
			return nil, fmt.Errorf("LoadWeapons: %q: %w", path, err)
		}
		for _, w := range weapons {
			key := strings.ToLower(w.Name)
			if _, dup := catalog[key]; dup {
				return nil, fmt.Errorf("LoadWeapons: duplicate weapon %q in %q", w.Name, path)
			}
			catalog[key] = w
		}
	}
	return catalog, nil
}
