// Package main provides the combat simulation binary. It builds two
// combatants from ability values or from loaded content, resolves their
// modifiers under the configured rules, and reports hit-rate, damage, and
// attacks-until-death statistics for balance work.
package main

import (
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/aspectsofpower/ruleset/internal/config"
	"github.com/aspectsofpower/ruleset/internal/game/character"
	"github.com/aspectsofpower/ruleset/internal/game/combat"
	"github.com/aspectsofpower/ruleset/internal/game/dice"
	"github.com/aspectsofpower/ruleset/internal/game/progression"
	"github.com/aspectsofpower/ruleset/internal/game/ruleset"
	"github.com/aspectsofpower/ruleset/internal/game/stat"
	"github.com/aspectsofpower/ruleset/internal/observability"
	"github.com/aspectsofpower/ruleset/internal/scripting"
	"github.com/aspectsofpower/ruleset/internal/sim"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	kindFlag := flag.String("kind", "str_weapon", "weapon kind: dex_weapon, str_weapon, magic_projectile, magic_melee, generic")
	formula := flag.String("dice", "2d6", "damage dice formula")
	atkClass := flag.String("atk-class", "", "build the attacker from this class in the content directories instead of raw ability flags")
	atkRace := flag.String("atk-race", "human", "attacker race id, used with -atk-class")
	atkLevels := flag.Int("atk-levels", 25, "class levels to apply, used with -atk-class")
	atkStr := flag.Int("atk-str", 100, "attacker strength value")
	atkDex := flag.Int("atk-dex", 100, "attacker dexterity value")
	atkInt := flag.Int("atk-int", 100, "attacker intelligence value")
	atkPer := flag.Int("atk-per", 100, "attacker perception value")
	defStr := flag.Int("def-str", 100, "defender strength value")
	defDex := flag.Int("def-dex", 100, "defender dexterity value")
	defVit := flag.Int("def-vit", 100, "defender vitality value")
	defTough := flag.Int("def-tough", 100, "defender toughness value")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	engine := engineFromConfig(cfg.Rules)
	src := dice.NewCryptoSource()

	var attacker *combat.Combatant
	if *atkClass != "" {
		attacker, err = buildLeveledCombatant(cfg, engine, src, "attacker", *atkClass, *atkRace, *atkLevels)
	} else {
		attacker, err = buildCombatant(engine, "attacker", map[stat.Key]int{
			stat.Strength:     *atkStr,
			stat.Dexterity:    *atkDex,
			stat.Intelligence: *atkInt,
			stat.Perception:   *atkPer,
		}, 0)
	}
	if err != nil {
		logger.Fatal("building attacker", zap.Error(err))
	}
	defender, err := buildCombatant(engine, "defender", map[stat.Key]int{
		stat.Strength:  *defStr,
		stat.Dexterity: *defDex,
		stat.Vitality:  *defVit,
		stat.Toughness: *defTough,
	}, *defVit)
	if err != nil {
		logger.Fatal("building defender", zap.Error(err))
	}

	var override combat.ToHitOverride
	if cfg.Scripting.Enabled {
		mgr := scripting.NewManager(dice.NewLoggedRoller(src, logger), logger)
		if err := mgr.Load(cfg.Scripting.ScriptDir, cfg.Scripting.InstructionLimit); err != nil {
			logger.Fatal("loading homebrew scripts", zap.Error(err))
		}
		defer mgr.Close()
		override = mgr.Override()
		logger.Info("homebrew formulas loaded", zap.Strings("kinds", mgr.Kinds()))
	}

	kind := combat.WeaponKind(*kindFlag)
	iterations := cfg.Sim.Iterations

	hitReport, err := sim.HitRateWith(attacker, defender, kind, iterations, src, override)
	if err != nil {
		logger.Fatal("hit-rate simulation", zap.Error(err))
	}
	logger.Info("hit rate",
		zap.Int("iterations", hitReport.Iterations),
		zap.Float64("hit_rate", hitReport.HitRate),
		zap.Float64("mean_to_hit", hitReport.MeanToHit),
	)

	dmgReport, err := sim.DamageDistribution(attacker, kind, *formula, iterations, src)
	if err != nil {
		logger.Fatal("damage simulation", zap.Error(err))
	}
	logger.Info("damage distribution",
		zap.Float64("mean", dmgReport.Mean),
		zap.Int("min", dmgReport.Min),
		zap.Int("max", dmgReport.Max),
	)

	battleReport, err := sim.AttacksUntilDeath(attacker, defender, kind, *formula, 1_000_000, src)
	if err != nil {
		logger.Fatal("battle simulation", zap.Error(err))
	}
	logger.Info("attacks until death",
		zap.Int("attacks", battleReport.Attacks),
		zap.Float64("mean_damage", battleReport.MeanDamage),
	)

	logger.Info("simulations complete", zap.Duration("elapsed", time.Since(start)))
}

// engineFromConfig maps the rules section onto stat engine options.
func engineFromConfig(rules config.RulesConfig) *stat.Engine {
	opts := []stat.Option{
		stat.WithFormula(stat.Formula(rules.ModifierFormula)),
	}
	if rules.HealthModel == "value_plus_modifier" {
		opts = append(opts, stat.WithHealthModel(stat.HealthFromValuePlusModifier))
	}
	if rules.ManaAbility == "intelligence" {
		opts = append(opts, stat.WithManaAbility(stat.Intelligence))
	}
	return stat.NewEngine(opts...)
}

// pointTableFromConfig overlays the configured per-tier point grants on the
// default table, so tier 3/4 can be tuned without a rebuild.
func pointTableFromConfig(rules config.RulesConfig) progression.PointTable {
	points := progression.DefaultPointTable()
	for _, tp := range rules.TierPoints {
		points[tp.Tier] = progression.TierPoints{Fixed: tp.Fixed, Free: tp.Free}
	}
	return points
}

// buildLeveledCombatant creates a player character from the configured
// content directories, levels its class with free points spent at random,
// and snapshots it for combat.
func buildLeveledCombatant(cfg config.Config, engine *stat.Engine, src dice.Source, name, class, race string, levels int) (*combat.Combatant, error) {
	registry, err := ruleset.LoadDirs(
		cfg.Content.ClassesDir,
		cfg.Content.ProfessionsDir,
		cfg.Content.RacesDir,
		cfg.Content.BlessingsDir,
	)
	if err != nil {
		return nil, err
	}
	prog := progression.NewEngine(pointTableFromConfig(cfg.Rules), registry, src)

	ch, err := character.New(name, progression.TypePlayer, race, cfg.Rules.BaseAbilityValue, engine)
	if err != nil {
		return nil, err
	}
	ch.Progression.Class.Name = class
	if levels > 0 {
		if err := ch.LevelUp(prog, progression.AxisClass, levels, progression.AllocRandom); err != nil {
			return nil, err
		}
	}
	return ch.Combatant(), nil
}

// buildCombatant resolves ability values into modifiers and derives health.
// Unspecified abilities default to the given values map's absence, i.e. 0.
func buildCombatant(engine *stat.Engine, name string, values map[stat.Key]int, vitalityValue int) (*combat.Combatant, error) {
	mods, err := engine.Modifiers(values, stat.Overrides{})
	if err != nil {
		return nil, err
	}
	derived := engine.Derive(mods, vitalityValue)
	return &combat.Combatant{
		Name:   name,
		Mods:   mods,
		Health: derived.HealthMax,
	}, nil
}
