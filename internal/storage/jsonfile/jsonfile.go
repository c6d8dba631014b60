// Package jsonfile persists rosters as JSON objects keyed by actor name.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/minidnd/internal/game/character"
	"github.com/cory-johannsen/minidnd/internal/storage"
)

// ErrMalformed is returned for documents that do not hold a roster object.
var ErrMalformed = storage.ErrMalformed

// Load reads the roster stored at path.
//
// Postcondition: A missing, empty, or malformed file returns a *storage.PersistenceError;
// an empty roster is never substituted.
func Load(path string) (character.Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, storage.Wrap("load", path, err)
	}
	roster, err := Decode(data)
	if err != nil {
		return nil, storage.Wrap("load", path, err)
	}
	return roster, nil
}

// Decode parses a roster document. Every backend that stores whole rosters as
// JSON decodes through it.
//
// Postcondition: Returns a non-nil roster with no nil actors, or an error matching
// ErrMalformed.
func Decode(data []byte) (character.Roster, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	var roster character.Roster
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if roster == nil {
		return nil, fmt.Errorf("%w: document is not an object", ErrMalformed)
	}
	for name, actor := range roster {
		if actor == nil {
			return nil, fmt.Errorf("%w: actor %q is null", ErrMalformed, name)
		}
	}
	return roster, nil
}

// Encode renders roster as an indented JSON object.
func Encode(roster character.Roster) ([]byte, error) {
	if roster == nil {
		roster = character.Roster{}
	}
	return json.MarshalIndent(roster, "", "  ")
}

// Save writes roster to path, replacing any existing file.
//
// Postcondition: The file at path is either the previous content or the complete
// new roster; a partial write is never visible.
func Save(roster character.Roster, path string) error {
	data, err := Encode(roster)
	if err != nil {
		return storage.Wrap("save", path, err)
	}
	return storage.Wrap("save", path, writeAtomic(path, data))
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Store keeps one <name>.json file per roster under a directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore returns a Store rooted at dir.
//
// Precondition: logger must be non-nil.
func NewStore(dir string, logger *zap.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Path returns the file a roster named name is kept in.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load implements storage.RosterStore.
func (s *Store) Load(ctx context.Context, name string) (character.Roster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validName(name); err != nil {
		return nil, storage.Wrap("load", name, err)
	}
	path := s.Path(name)
	roster, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.Wrap("load", path, fmt.Errorf("%w: %w", storage.ErrRosterNotFound, err))
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("roster loaded", zap.String("roster", name), zap.String("path", path), zap.Int("actors", len(roster)))
	return roster, nil
}

// Save implements storage.RosterStore.
func (s *Store) Save(ctx context.Context, name string, roster character.Roster) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validName(name); err != nil {
		return storage.Wrap("save", name, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return storage.Wrap("save", s.dir, err)
	}
	path := s.Path(name)
	if err := Save(roster, path); err != nil {
		return err
	}
	s.logger.Info("roster saved", zap.String("roster", name), zap.String("path", path), zap.Int("actors", len(roster)))
	return nil
}

// Delete implements storage.RosterDeleter.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validName(name); err != nil {
		return storage.Wrap("delete", name, err)
	}
	path := s.Path(name)
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return storage.Wrap("delete", path, fmt.Errorf("%w: %w", storage.ErrRosterNotFound, err))
	}
	if err != nil {
		return storage.Wrap("delete", path, err)
	}
	s.logger.Info("roster deleted", zap.String("roster", name), zap.String("path", path))
	return nil
}

// Names implements storage.RosterLister. A missing directory holds no rosters.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, storage.Wrap("list", s.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok || validName(name) != nil || strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid roster name %q", name)
	}
	return nil
}
