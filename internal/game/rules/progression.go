package rules

import (
	"fmt"
	"sort"
)

const (
	// MaxCharacterLevel is the highest level reachable through experience.
	MaxCharacterLevel = 20
	// MaxProficiencyLevel is the highest level with a proficiency band.
	MaxProficiencyLevel = 30
)

// levelThresholds[i] is the minimum experience for level i+1.
var levelThresholds = [MaxCharacterLevel]int{
	0, 300, 900, 2700, 6500,
	14000, 23000, 34000, 48000, 64000,
	85000, 100000, 120000, 140000, 165000,
	195000, 225000, 265000, 305000, 355000,
}

// ExpThreshold returns the minimum experience required for level.
//
// Precondition: 1 <= level <= MaxCharacterLevel.
func ExpThreshold(level int) (int, error) {
	if err := CheckRange("level", level, 1, MaxCharacterLevel); err != nil {
		return 0, err
	}
	return levelThresholds[level-1], nil
}

// ExpToLevel maps an experience total to a character level.
//
// Postcondition: Returns a level in [1, 20] for every exp >= 0, or
// ErrInvalidExperience when exp < 0.
func ExpToLevel(exp int) (int, error) {
	if exp < 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidExperience, exp)
	}
	// First threshold strictly above exp marks the next level.
	return sort.Search(len(levelThresholds), func(i int) bool {
		return levelThresholds[i] > exp
	}), nil
}

// LevelToProficiencyBonus returns the proficiency bonus for level.
// Bands of four levels step the bonus from 2 at level 1 to 9 at levels 29-30.
//
// Postcondition: ok is false iff level is outside [1, 30].
func LevelToProficiencyBonus(level int) (bonus int, ok bool) {
	if level < 1 || level > MaxProficiencyLevel {
		return 0, false
	}
	return 2 + (level-1)/4, true
}

// ProficiencyBonusForExp resolves experience straight to a proficiency bonus.
func ProficiencyBonusForExp(exp int) (int, error) {
	level, err := ExpToLevel(exp)
	if err != nil {
		return 0, err
	}
	bonus, ok := LevelToProficiencyBonus(level)
	if !ok {
		return 0, fmt.Errorf("%w: level %d", ErrUnrepresentableLevel, level)
	}
	return bonus, nil
}
