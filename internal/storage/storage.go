// Package storage defines how rosters are persisted and the errors persistence reports.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cory-johannsen/minidnd/internal/game/character"
)

// ErrPersistence matches every *PersistenceError.
var ErrPersistence = errors.New("persistence failure")

// ErrRosterNotFound is returned when a named roster has never been saved.
var ErrRosterNotFound = errors.New("roster not found")

// ErrMalformed is returned when a stored roster or actor record cannot be decoded
// into a usable actor, including a null actor record.
var ErrMalformed = errors.New("malformed roster record")

// PersistenceError reports a failed load or save.
type PersistenceError struct {
	// Op is the failed operation, e.g. "load" or "save".
	Op string
	// Target is the file path, table, or key involved.
	Target string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Wrap returns nil when err is nil, otherwise a *PersistenceError.
func Wrap(op, target string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Target: target, Err: err}
}

// RosterStore loads and saves named rosters.
type RosterStore interface {
	// Load returns the roster saved under name.
	//
	// Postcondition: Returns an error matching ErrRosterNotFound when nothing was saved under name.
	Load(ctx context.Context, name string) (character.Roster, error)
	// Save replaces the roster stored under name.
	Save(ctx context.Context, name string, roster character.Roster) error
}

// RosterLister enumerates saved rosters.
type RosterLister interface {
	// Names returns every saved roster name in sorted order.
	Names(ctx context.Context) ([]string, error)
}

// RosterDeleter removes saved rosters.
type RosterDeleter interface {
	// Delete removes the roster saved under name.
	//
	// Postcondition: Returns an error matching ErrRosterNotFound when nothing was saved under name.
	Delete(ctx context.Context, name string) error
}
