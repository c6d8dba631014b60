// Package main provides dndcheck, a command-line front end for ability checks,
// saving throws, the surprise contest, level lookups, currency conversion, and
// roster management.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/minidnd/internal/config"
	"github.com/cory-johannsen/minidnd/internal/game/character"
	"github.com/cory-johannsen/minidnd/internal/game/check"
	"github.com/cory-johannsen/minidnd/internal/game/combat"
	"github.com/cory-johannsen/minidnd/internal/game/dice"
	"github.com/cory-johannsen/minidnd/internal/game/inventory"
	"github.com/cory-johannsen/minidnd/internal/game/rules"
	"github.com/cory-johannsen/minidnd/internal/game/ruleset"
	"github.com/cory-johannsen/minidnd/internal/observability"
	"github.com/cory-johannsen/minidnd/internal/storage"
	"github.com/cory-johannsen/minidnd/internal/storage/jsonfile"
	"github.com/cory-johannsen/minidnd/internal/storage/postgres"
	rosterredis "github.com/cory-johannsen/minidnd/internal/storage/redis"
)

const usage = `usage: dndcheck [-config path] <command> [flags]

commands:
  check     roll an ability check or saving throw for an actor
  surprise  run the surprise contest between two rosters
  level     show the level and proficiency bonus for an experience total
  convert   convert a purse to a single denomination
  init      add a new actor to a roster
  rosters   list saved rosters, or delete one with -delete
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dndcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to configuration file (defaults and DND_ environment when empty)")
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "loading config: %v\n", err)
		return 1
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "initializing logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	a := &app{cfg: cfg, logger: logger, out: stdout, errOut: stderr}
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "check":
		err = a.check(ctx, rest)
	case "surprise":
		err = a.surprise(ctx, rest)
	case "level":
		err = a.level(rest)
	case "convert":
		err = a.convert(rest)
	case "init":
		err = a.initActor(ctx, rest)
	case "rosters":
		err = a.rosters(ctx, rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", cmd, err)
		return 1
	}
	return 0
}

type app struct {
	cfg    config.Config
	logger *zap.Logger
	out    io.Writer
	errOut io.Writer
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// resolver builds a check resolver on a seeded dice source. Without a configured
// seed a fresh one is drawn and logged, so any run can be replayed through
// DND_DICE_SEED.
func (a *app) resolver() *check.Resolver {
	seed := a.cfg.Dice.Seed
	var src dice.Source
	if seed == 0 {
		var err error
		seed, err = dice.NewSeed()
		if err != nil {
			a.logger.Warn("drawing dice seed failed, rolls cannot be replayed", zap.Error(err))
			src = dice.NewCryptoSource()
		}
	}
	if src == nil {
		src = dice.NewSeededSource(seed)
		a.logger.Info("dice seed", zap.Uint64("seed", seed))
	}
	return check.NewResolver(dice.NewLoggedRoller(src, a.logger), a.logger)
}

// openStore connects the configured roster backend. The returned func releases it.
func (a *app) openStore(ctx context.Context) (storage.RosterStore, func(), error) {
	switch a.cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, a.cfg.Database, a.logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewRosterRepository(pool.DB(), a.logger), pool.Close, nil
	case config.BackendRedis:
		client := rosterredis.NewClient(a.cfg.Redis)
		return rosterredis.NewRosterStore(client, a.logger), func() { _ = client.Close() }, nil
	default:
		return jsonfile.NewStore(a.cfg.Storage.Dir, a.logger), func() {}, nil
	}
}

func (a *app) loadRosters(ctx context.Context, names ...string) ([]character.Roster, error) {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer closeStore()
	rosters := make([]character.Roster, 0, len(names))
	for _, name := range names {
		r, err := store.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		rosters = append(rosters, r)
	}
	return rosters, nil
}

func (a *app) check(ctx context.Context, args []string) error {
	fs := a.flagSet("check")
	rosterName := fs.String("roster", a.cfg.Storage.Roster, "roster holding the actor")
	actorName := fs.String("actor", character.DefaultName, "actor to roll for")
	abilityName := fs.String("ability", "", "ability to check (e.g. strength, dex)")
	dc := fs.Int("dc", 0, "difficulty class 1-50; 0 prints the total only")
	count := fs.Int("count", 1, "number of d20s to sum, 1-10")
	adv := fs.Int("adv", 0, "advantage: -1 disadvantage, 0 straight, 1 advantage")
	save := fs.Bool("save", false, "roll a saving throw instead of an ability check")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ability, err := character.ParseAbility(*abilityName)
	if err != nil {
		return err
	}
	rosters, err := a.loadRosters(ctx, *rosterName)
	if err != nil {
		return err
	}
	actor, ok := rosters[0][*actorName]
	if !ok || actor == nil {
		return fmt.Errorf("actor %q not found in roster %q", *actorName, *rosterName)
	}

	kind := character.AbilityCheck
	if *save {
		kind = character.SavingThrow
	}
	r := a.resolver()
	advantage := dice.Advantage(*adv)

	if *dc == 0 {
		var total int
		if *save {
			total, err = r.SavingThrowStat(actor, ability, *count, advantage)
		} else {
			total, err = r.AbilityCheckStat(actor, ability, *count, advantage)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s %s %s: %d\n", actor.Name, ability, kind, total)
		return nil
	}

	var result rules.Result
	if *save {
		result, err = r.SavingThrow(actor, ability, *dc, *count, advantage)
	} else {
		result, err = r.AbilityCheck(actor, ability, *dc, *count, advantage)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s %s vs DC %d: %s\n", actor.Name, ability, kind, *dc, result)
	return nil
}

func (a *app) surprise(ctx context.Context, args []string) error {
	fs := a.flagSet("surprise")
	rosterA := fs.String("roster-a", a.cfg.Storage.Roster, "first roster")
	rosterB := fs.String("roster-b", "", "opposing roster")
	hideA := fs.String("hide-a", "", "comma-separated actors of roster A trying to hide")
	hideB := fs.String("hide-b", "", "comma-separated actors of roster B trying to hide")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *rosterB == "" {
		return errors.New("-roster-b is required")
	}
	rosters, err := a.loadRosters(ctx, *rosterA, *rosterB)
	if err != nil {
		return err
	}

	enc := combat.NewEncounter(rosters[0], rosters[1], hideSet(*hideA), hideSet(*hideB))
	// The sequence ends at the first phase without rules; the surprise result stands.
	err = combat.RunPhases(ctx, enc, combat.Sequence(a.resolver()))
	if errors.Is(err, combat.ErrPhaseNotImplemented) {
		a.logger.Info("combat sequence stopped", zap.Error(err))
	} else if err != nil {
		return err
	}
	printOutcomes(a.out, *rosterA, enc.Surprise.A)
	printOutcomes(a.out, *rosterB, enc.Surprise.B)
	return nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func hideSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, name := range splitList(list) {
		set[name] = true
	}
	return set
}

func printOutcomes(w io.Writer, roster string, outcomes map[string]combat.Outcome) {
	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s/%s: %s\n", roster, name, outcomes[name])
	}
}

func (a *app) level(args []string) error {
	fs := a.flagSet("level")
	exp := fs.Int("exp", 0, "experience points")
	if err := fs.Parse(args); err != nil {
		return err
	}
	lvl, err := rules.ExpToLevel(*exp)
	if err != nil {
		return err
	}
	bonus, ok := rules.LevelToProficiencyBonus(lvl)
	if !ok {
		return fmt.Errorf("level %d: %w", lvl, rules.ErrUnrepresentableLevel)
	}
	fmt.Fprintf(a.out, "level %d, proficiency bonus +%d\n", lvl, bonus)
	if lvl < rules.MaxCharacterLevel {
		next, err := rules.ExpThreshold(lvl + 1)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%d exp to level %d\n", next-*exp, lvl+1)
	}
	return nil
}

func (a *app) convert(args []string) error {
	fs := a.flagSet("convert")
	var c inventory.Coins
	fs.IntVar(&c.Gold, "gold", 0, "gold pieces")
	fs.IntVar(&c.Silver, "silver", 0, "silver pieces")
	fs.IntVar(&c.Copper, "copper", 0, "copper pieces")
	fs.IntVar(&c.Electrum, "ep", 0, "electrum pieces")
	fs.IntVar(&c.Platinum, "pp", 0, "platinum pieces")
	to := fs.String("to", string(inventory.Gold), "target denomination: copper, silver, ep, gold, pp")
	if err := fs.Parse(args); err != nil {
		return err
	}
	target, err := inventory.ParseDenomination(*to)
	if err != nil {
		return err
	}
	whole, remainder, err := inventory.ToDenomination(c, target)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s = %d %s + %d cp\n", inventory.FormatCoins(c), whole, target, remainder)
	fmt.Fprintf(a.out, "fewest coins: %s\n", inventory.FormatCoins(inventory.Decompose(c.CopperValue())))
	return nil
}

func (a *app) initActor(ctx context.Context, args []string) error {
	fs := a.flagSet("init")
	rosterName := fs.String("roster", a.cfg.Storage.Roster, "roster to add the actor to")
	name := fs.String("name", character.DefaultName, "actor name")
	classID := fs.String("class", "", "class granting proficiencies (see content/classes)")
	weapons := fs.String("weapons", "", "comma-separated weapons from the catalog")
	exp := fs.Int("exp", 0, "starting experience")
	if err := fs.Parse(args); err != nil {
		return err
	}

	actor := character.NewDefault()
	actor.Name = *name
	actor.Experience = *exp
	if _, err := rules.ExpToLevel(*exp); err != nil {
		return err
	}
	if *classID != "" {
		classes, err := ruleset.LoadClasses(a.cfg.Content.ClassesDir)
		if err != nil {
			return err
		}
		byID, err := ruleset.ClassesByID(classes)
		if err != nil {
			return err
		}
		class, ok := byID[*classID]
		if !ok {
			return fmt.Errorf("unknown class %q", *classID)
		}
		if err := actor.ApplyClass(class); err != nil {
			return err
		}
	}
	if list := splitList(*weapons); len(list) > 0 {
		catalog, err := inventory.LoadWeapons(a.cfg.Content.WeaponsDir)
		if err != nil {
			return err
		}
		for _, weaponName := range list {
			w, ok := catalog[strings.ToLower(weaponName)]
			if !ok {
				return fmt.Errorf("unknown weapon %q", weaponName)
			}
			actor.AddWeapon(*w)
		}
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	roster, err := store.Load(ctx, *rosterName)
	if errors.Is(err, storage.ErrRosterNotFound) {
		roster, err = character.Roster{}, nil
	}
	if err != nil {
		return err
	}
	if _, exists := roster[actor.Name]; exists {
		return fmt.Errorf("actor %q already in roster %q", actor.Name, *rosterName)
	}
	roster[actor.Name] = actor
	if err := store.Save(ctx, *rosterName, roster); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added %s to %s (%d actors)\n", actor.Name, *rosterName, len(roster))
	return nil
}

func (a *app) rosters(ctx context.Context, args []string) error {
	fs := a.flagSet("rosters")
	del := fs.String("delete", "", "roster to delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if *del != "" {
		deleter, ok := store.(storage.RosterDeleter)
		if !ok {
			return fmt.Errorf("backend %q cannot delete rosters", a.cfg.Storage.Backend)
		}
		if err := deleter.Delete(ctx, *del); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "deleted %s\n", *del)
		return nil
	}

	lister, ok := store.(storage.RosterLister)
	if !ok {
		return fmt.Errorf("backend %q cannot list rosters", a.cfg.Storage.Backend)
	}
	names, err := lister.Names(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(a.out, name)
	}
	return nil
}
