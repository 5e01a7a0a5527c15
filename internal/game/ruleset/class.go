package ruleset

import (
	"errors"
	"fmt"

	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// ClassDef defines a playable class for one tier.
//
// A class describes its per-level stat growth in one of two ways:
//   - Gains: an explicit ability->points map applied verbatim each level, or
//   - PrimaryStats: an ordered ability list across which the configured
//     per-tier fixed points are split evenly, remainder to the first entries.
//
// Precondition: ID and Name must be non-empty after loading; Tier in 1..4.
type ClassDef struct {
	ID           string
	Name         string
	Description  string
	Tier         int
	Finesse      bool // finesse classes use the dexterity damage profile
	Gains        map[stat.Key]int
	PrimaryStats []stat.Key
	FreePoints   int // free points granted per level; 0 = use tier default
}

// classYAML is the on-disk shape of a ClassDef.
type classYAML struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	Tier         int            `yaml:"tier"`
	Finesse      bool           `yaml:"finesse"`
	Gains        map[string]int `yaml:"gains"`
	PrimaryStats []string       `yaml:"primary_stats"`
	FreePoints   int            `yaml:"free_points"`
}

// Validate checks that the ClassDef satisfies its invariants.
func (c *ClassDef) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if c.Tier < 1 || c.Tier > 4 {
		errs = append(errs, fmt.Errorf("tier must be 1-4, got %d", c.Tier))
	}
	if len(c.Gains) == 0 && len(c.PrimaryStats) == 0 {
		errs = append(errs, errors.New("either gains or primary_stats must be set"))
	}
	if c.FreePoints < 0 {
		errs = append(errs, errors.New("free_points must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("class %q validation failed: %v", c.ID, errs)
	}
	return nil
}

func classFromYAML(data []byte) (*ClassDef, error) {
	var raw classYAML
	if err := unmarshalStrict(data, &raw); err != nil {
		return nil, err
	}
	gains, err := statGains(raw.Gains)
	if err != nil {
		return nil, err
	}
	primaries, err := statKeys(raw.PrimaryStats)
	if err != nil {
		return nil, err
	}
	c := &ClassDef{
		ID:           raw.ID,
		Name:         raw.Name,
		Description:  raw.Description,
		Tier:         raw.Tier,
		Finesse:      raw.Finesse,
		Gains:        gains,
		PrimaryStats: primaries,
		FreePoints:   raw.FreePoints,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadClasses reads all .yaml files in dir and parses each as a ClassDef.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed classes (may be empty slice) or a non-nil error.
func LoadClasses(dir string) ([]*ClassDef, error) {
	return loadAll(dir, "class", classFromYAML)
}
