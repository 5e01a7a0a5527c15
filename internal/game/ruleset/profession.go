package ruleset

import (
	"errors"
	"fmt"

	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// ProfessionDef defines a profession for one tier. Professions share the
// class growth model; free-points-only professions (justiciar-style) carry an
// empty gains map and a raised FreePoints value.
//
// Precondition: ID and Name must be non-empty after loading; Tier in 1..4.
type ProfessionDef struct {
	ID           string
	Name         string
	Description  string
	Tier         int
	Gains        map[stat.Key]int
	PrimaryStats []stat.Key
	FreePoints   int // free points granted per level; 0 = use tier default
}

type professionYAML struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	Tier         int            `yaml:"tier"`
	Gains        map[string]int `yaml:"gains"`
	PrimaryStats []string       `yaml:"primary_stats"`
	FreePoints   int            `yaml:"free_points"`
}

// Validate checks that the ProfessionDef satisfies its invariants.
// Unlike classes, a profession may grant only free points.
func (p *ProfessionDef) Validate() error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if p.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if p.Tier < 1 || p.Tier > 4 {
		errs = append(errs, fmt.Errorf("tier must be 1-4, got %d", p.Tier))
	}
	if p.FreePoints < 0 {
		errs = append(errs, errors.New("free_points must be >= 0"))
	}
	if len(p.Gains) == 0 && len(p.PrimaryStats) == 0 && p.FreePoints == 0 {
		errs = append(errs, errors.New("profession must grant stats or free points"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("profession %q validation failed: %v", p.ID, errs)
	}
	return nil
}

func professionFromYAML(data []byte) (*ProfessionDef, error) {
	var raw professionYAML
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
	p := &ProfessionDef{
		ID:           raw.ID,
		Name:         raw.Name,
		Description:  raw.Description,
		Tier:         raw.Tier,
		Gains:        gains,
		PrimaryStats: primaries,
		FreePoints:   raw.FreePoints,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadProfessions reads all .yaml files in dir and parses each as a
// ProfessionDef.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed professions (may be empty slice) or a non-nil error.
func LoadProfessions(dir string) ([]*ProfessionDef, error) {
	return loadAll(dir, "profession", professionFromYAML)
}
