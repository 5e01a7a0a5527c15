// Package config provides Viper-based configuration loading for the rules
// engine and its tools.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// TierPointConfig sets the per-level stat points granted at one tier.
// Tier 3 and 4 values are placeholders pending playtesting, which is why
// they are configuration rather than constants.
type TierPointConfig struct {
	Tier  int `mapstructure:"tier"`
	Fixed int `mapstructure:"fixed"`
	Free  int `mapstructure:"free"`
}

// RulesConfig selects between the rule variants the engine supports.
type RulesConfig struct {
	// ModifierFormula is "logistic" (canonical) or "linear".
	ModifierFormula string `mapstructure:"modifier_formula"`
	// HealthModel is "modifier" (canonical) or "value_plus_modifier".
	HealthModel string `mapstructure:"health_model"`
	// ManaAbility is "willpower" (canonical) or "intelligence".
	ManaAbility string `mapstructure:"mana_ability"`
	// BaseAbilityValue is the starting value of every ability source row.
	BaseAbilityValue int `mapstructure:"base_ability_value"`
	// TierPoints overrides the default per-tier point grants.
	TierPoints []TierPointConfig `mapstructure:"tier_points"`
}

// ContentConfig points at the YAML content directories.
type ContentConfig struct {
	ClassesDir     string `mapstructure:"classes_dir"`
	ProfessionsDir string `mapstructure:"professions_dir"`
	RacesDir       string `mapstructure:"races_dir"`
	BlessingsDir   string `mapstructure:"blessings_dir"`
}

// ScriptingConfig holds the Lua sandbox settings for homebrew roll formulas.
type ScriptingConfig struct {
	// Enabled turns the scripting hooks on.
	Enabled bool `mapstructure:"enabled"`
	// ScriptDir is scanned for .lua files at startup.
	ScriptDir string `mapstructure:"script_dir"`
	// InstructionLimit aborts scripts that run more VM instructions.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// SimConfig holds the combat simulation settings.
type SimConfig struct {
	// Iterations is the sample count per simulation run.
	Iterations int `mapstructure:"iterations"`
}

// Config is the top-level application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Rules     RulesConfig     `mapstructure:"rules"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Sim       SimConfig       `mapstructure:"sim"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRules(c.Rules); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScripting(c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Sim.Iterations < 1 {
		errs = append(errs, fmt.Sprintf("sim.iterations must be >= 1, got %d", c.Sim.Iterations))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateRules(r RulesConfig) error {
	var errs []string
	validFormulas := map[string]bool{"logistic": true, "linear": true}
	if !validFormulas[r.ModifierFormula] {
		errs = append(errs, fmt.Sprintf("rules.modifier_formula must be one of [logistic, linear], got %q", r.ModifierFormula))
	}
	validHealth := map[string]bool{"modifier": true, "value_plus_modifier": true}
	if !validHealth[r.HealthModel] {
		errs = append(errs, fmt.Sprintf("rules.health_model must be one of [modifier, value_plus_modifier], got %q", r.HealthModel))
	}
	validMana := map[string]bool{"willpower": true, "intelligence": true}
	if !validMana[r.ManaAbility] {
		errs = append(errs, fmt.Sprintf("rules.mana_ability must be one of [willpower, intelligence], got %q", r.ManaAbility))
	}
	if r.BaseAbilityValue < 1 {
		errs = append(errs, fmt.Sprintf("rules.base_ability_value must be >= 1, got %d", r.BaseAbilityValue))
	}
	for _, tp := range r.TierPoints {
		if tp.Tier < 1 || tp.Tier > 4 {
			errs = append(errs, fmt.Sprintf("rules.tier_points tier must be 1-4, got %d", tp.Tier))
		}
		if tp.Fixed < 0 || tp.Free < 0 {
			errs = append(errs, fmt.Sprintf("rules.tier_points values must be >= 0 for tier %d", tp.Tier))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if !s.Enabled {
		return nil
	}
	var errs []string
	if s.ScriptDir == "" {
		errs = append(errs, "scripting.script_dir must not be empty when scripting is enabled")
	}
	if s.InstructionLimit < 1 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 1, got %d", s.InstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ASPECTS_ prefix
	v.SetEnvPrefix("ASPECTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "aspects")
	v.SetDefault("database.password", "aspects")
	v.SetDefault("database.name", "aspects")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("rules.modifier_formula", "logistic")
	v.SetDefault("rules.health_model", "modifier")
	v.SetDefault("rules.mana_ability", "willpower")
	v.SetDefault("rules.base_ability_value", 5)

	v.SetDefault("content.classes_dir", "content/classes")
	v.SetDefault("content.professions_dir", "content/professions")
	v.SetDefault("content.races_dir", "content/races")
	v.SetDefault("content.blessings_dir", "content/blessings")

	v.SetDefault("scripting.enabled", false)
	v.SetDefault("scripting.script_dir", "scripts")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("sim.iterations", 10000)
}
