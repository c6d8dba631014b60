package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/minidnd/internal/game/character"
	"github.com/cory-johannsen/minidnd/internal/storage/jsonfile"
)

type harness struct {
	t       *testing.T
	config  string
	dataDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`
logging:
  level: error
  format: json
storage:
  backend: json
  dir: %s
  roster: party
content:
  weapons_dir: ../../content/weapons
  classes_dir: ../../content/classes
dice:
  seed: 1
`, dataDir)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return &harness{t: t, config: path, dataDir: dataDir}
}

func (h *harness) run(args ...string) (int, string, string) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"-config", h.config}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage: dndcheck")

	h := newHarness(t)
	code, _, errOut := h.run("teleport")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "teleport"`)
}

func TestLevel(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("level", "-exp", "6500")
	require.Equal(t, 0, code)
	assert.Equal(t, "level 5, proficiency bonus +3\n7500 exp to level 6\n", out)

	code, out, _ = h.run("level", "-exp", "355000")
	require.Equal(t, 0, code)
	assert.Equal(t, "level 20, proficiency bonus +6\n", out)

	code, _, _ = h.run("level", "-exp", "-1")
	assert.Equal(t, 1, code)
}

func TestConvert(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("convert", "-gold", "100", "-copper", "101", "-ep", "1", "-pp", "1", "-to", "gold")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "= 111 gold + 51 cp\n")
	assert.Contains(t, out, "fewest coins: 11 pp, 1 gp, 1 ep, 1 cp\n")

	code, out, _ = h.run("convert", "-gold", "1", "-silver", "1", "-copper", "1", "-ep", "1", "-pp", "1", "-to", "copper")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "= 1161 copper + 0 cp\n")
	assert.Contains(t, out, "fewest coins: 1 pp, 1 gp, 1 ep, 1 sp, 1 cp\n")

	code, _, errOut := h.run("convert", "-gold", "-5", "-to", "gold")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "convert:")

	code, _, _ = h.run("convert", "-to", "doubloons")
	assert.Equal(t, 1, code)
}

func TestInit_WithClassAndWeapons(t *testing.T) {
	h := newHarness(t)

	code, out, errOut := h.run("init", "-roster", "heroes", "-name", "Vex", "-class", "rogue", "-weapons", "Dagger, shortbow")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "added Vex to heroes (1 actors)\n", out)

	roster, err := jsonfile.Load(filepath.Join(h.dataDir, "heroes.json"))
	require.NoError(t, err)
	vex := roster["Vex"]
	require.NotNil(t, vex)
	assert.Equal(t, 8, vex.HP)
	assert.True(t, vex.Proficiencies.Has(character.Dexterity, character.AbilityCheck))
	assert.Contains(t, vex.Weapons, "Dagger")
	assert.Contains(t, vex.Weapons, "Shortbow")

	code, _, errOut = h.run("init", "-roster", "heroes", "-name", "Vex")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "already in roster")

	code, _, _ = h.run("init", "-roster", "heroes", "-name", "Nobody", "-class", "bard")
	assert.Equal(t, 1, code)
	code, _, _ = h.run("init", "-roster", "heroes", "-name", "Nobody", "-weapons", "lightsaber")
	assert.Equal(t, 1, code)
}

func TestCheck(t *testing.T) {
	h := newHarness(t)
	code, _, errOut := h.run("init")
	require.Equal(t, 0, code, errOut)

	// STR 15 gives +2; the lowest possible total is 3, which beats DC 1.
	code, out, errOut := h.run("check", "-ability", "str", "-dc", "1")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "Alice strength ability_check vs DC 1: win\n", out)

	code, out, errOut = h.run("check", "-ability", "wis", "-save", "-count", "2")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Alice wisdom saving_throw: ")

	code, _, errOut = h.run("check", "-ability", "str", "-dc", "51")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "dc")

	code, _, errOut = h.run("check", "-ability", "str", "-adv", "2")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "advantage")

	code, _, errOut = h.run("check", "-actor", "Zed", "-ability", "str")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not found")

	code, _, _ = h.run("check", "-roster", "missing", "-ability", "str")
	assert.Equal(t, 1, code)
}

func TestSurprise(t *testing.T) {
	h := newHarness(t)
	code, _, errOut := h.run("init", "-roster", "heroes", "-name", "Alice")
	require.Equal(t, 0, code, errOut)
	code, _, errOut = h.run("init", "-roster", "goblins", "-name", "Snik")
	require.Equal(t, 0, code, errOut)

	code, out, errOut := h.run("surprise", "-roster-a", "heroes", "-roster-b", "goblins", "-hide-a", "Alice,Ghost")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "heroes/Ghost: absent\n")
	assert.Contains(t, out, "goblins/Snik: ")

	code, _, errOut = h.run("surprise", "-roster-a", "heroes")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "-roster-b is required")
}

func TestRosters_ListAndDelete(t *testing.T) {
	h := newHarness(t)

	code, out, errOut := h.run("rosters")
	require.Equal(t, 0, code, errOut)
	assert.Empty(t, out)

	for _, roster := range []string{"villains", "heroes"} {
		code, _, errOut = h.run("init", "-roster", roster)
		require.Equal(t, 0, code, errOut)
	}
	code, out, errOut = h.run("rosters")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "heroes\nvillains\n", out)

	code, out, errOut = h.run("rosters", "-delete", "villains")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "deleted villains\n", out)

	code, out, _ = h.run("rosters")
	require.Equal(t, 0, code)
	assert.Equal(t, "heroes\n", out)

	code, _, errOut = h.run("rosters", "-delete", "villains")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "roster not found")
}

func TestCheck_LogsDrawnSeed(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "dnd.log")
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`
logging:
  level: info
  format: json
  output: %s
storage:
  backend: json
  dir: %s
`, logPath, filepath.Join(dir, "data"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{"-config", path, "init"}, &stdout, &stderr), stderr.String())
	require.Equal(t, 0, run(context.Background(), []string{"-config", path, "check", "-ability", "dex"}, &stdout, &stderr), stderr.String())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"dice seed"`)
	assert.Contains(t, string(data), `"seed":`)
}
