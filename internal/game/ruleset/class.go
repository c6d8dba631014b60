// Package ruleset loads static rule content, such as class definitions, from YAML.
package ruleset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Class defines a character class and the skills it makes an actor proficient in.
//
// Proficiencies is keyed by check kind ("ability_check" or "saving_throw"),
// then by ability name, listing the skills or tools granted.
//
// Precondition: ID and Name must be non-empty after loading.
type Class struct {
	ID            string                         `yaml:"id"`
	Name          string                         `yaml:"name"`
	Description   string                         `yaml:"description"`
	HitPoints     int                            `yaml:"hit_points"`
	Proficiencies map[string]map[string][]string `yaml:"proficiencies"`
}

// Validate checks the required identity fields.
func (c *Class) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if c.HitPoints < 0 {
		errs = append(errs, fmt.Errorf("hit_points must be >= 0, got %d", c.HitPoints))
	}
	return errors.Join(errs...)
}

// LoadClasses reads all .yaml files in dir and parses each as a Class.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed classes (may be empty slice) or a non-nil error.
func LoadClasses(dir string) ([]*Class, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	classes := make([]*Class, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var c Class
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing class file %s: %w", path, err)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid class in %s: %w", path, err)
		}
		classes = append(classes, &c)
	}
	return classes, nil
}

// ClassesByID indexes classes by ID, rejecting duplicates.
func ClassesByID(classes []*Class) (map[string]*Class, error) {
	out := make(map[string]*Class, len(classes))
	for _, c := range classes {
		if _, dup := out[c.ID]; dup {
			return nil, fmt.Errorf("duplicate class id %q", c.ID)
		}
		out[c.ID] = c
	}
	return out, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
