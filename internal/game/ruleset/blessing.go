package ruleset

import (
	"errors"
	"fmt"

	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// BlessingDef defines a divine blessing: a named set of ability bonuses.
// A character holds at most one active blessing; assigning a new one replaces
// the previous contribution entirely.
//
// Precondition: ID and Name must be non-empty after loading.
type BlessingDef struct {
	ID          string
	Name        string
	Description string
	Bonuses     map[stat.Key]int
}

type blessingYAML struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Bonuses     map[string]int `yaml:"bonuses"`
}

// Validate checks that the BlessingDef satisfies its invariants.
func (b *BlessingDef) Validate() error {
	var errs []error
	if b.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if b.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(b.Bonuses) == 0 {
		errs = append(errs, errors.New("bonuses must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("blessing %q validation failed: %v", b.ID, errs)
	}
	return nil
}

func blessingFromYAML(data []byte) (*BlessingDef, error) {
	var raw blessingYAML
	if err := unmarshalStrict(data, &raw); err != nil {
		return nil, err
	}
	bonuses, err := statGains(raw.Bonuses)
	if err != nil {
		return nil, err
	}
	b := &BlessingDef{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Bonuses:     bonuses,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadBlessings reads all .yaml files in dir and parses each as a BlessingDef.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed blessings (may be empty slice) or a non-nil error.
func LoadBlessings(dir string) ([]*BlessingDef, error) {
	return loadAll(dir, "blessing", blessingFromYAML)
}
