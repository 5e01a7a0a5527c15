package ruleset

import (
	"errors"
	"fmt"

	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// RankRange describes race growth for a contiguous band of levels.
type RankRange struct {
	MinLevel   int
	MaxLevel   int
	Rank       string
	Gains      map[stat.Key]int // per-level stat gains inside this band
	FreePoints int              // per-level free points inside this band
}

// RaceDef defines a race and its rank-banded growth table. Races without a
// loaded definition fall back to the flat +1-per-level rule.
//
// Precondition: ID and Name must be non-empty after loading; rank ranges must
// not overlap and must be ordered by MinLevel.
type RaceDef struct {
	ID         string
	Name       string
	RankRanges []RankRange
}

type rankRangeYAML struct {
	MinLevel   int            `yaml:"min_level"`
	MaxLevel   int            `yaml:"max_level"`
	Rank       string         `yaml:"rank"`
	Gains      map[string]int `yaml:"gains"`
	FreePoints int            `yaml:"free_points"`
}

type raceYAML struct {
	ID         string          `yaml:"id"`
	Name       string          `yaml:"name"`
	RankRanges []rankRangeYAML `yaml:"rank_ranges"`
}

// RangeFor returns the rank range covering level, or nil when the race has no
// band for that level.
func (r *RaceDef) RangeFor(level int) *RankRange {
	for i := range r.RankRanges {
		rr := &r.RankRanges[i]
		if level >= rr.MinLevel && level <= rr.MaxLevel {
			return rr
		}
	}
	return nil
}

// Validate checks that the RaceDef satisfies its invariants.
func (r *RaceDef) Validate() error {
	var errs []error
	if r.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if r.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(r.RankRanges) == 0 {
		errs = append(errs, errors.New("rank_ranges must not be empty"))
	}
	prevMax := -1
	for i, rr := range r.RankRanges {
		if rr.MinLevel <= prevMax {
			errs = append(errs, fmt.Errorf("rank_ranges[%d] overlaps or is out of order", i))
		}
		if rr.MaxLevel < rr.MinLevel {
			errs = append(errs, fmt.Errorf("rank_ranges[%d] max_level < min_level", i))
		}
		if rr.Rank == "" {
			errs = append(errs, fmt.Errorf("rank_ranges[%d] rank must not be empty", i))
		}
		prevMax = rr.MaxLevel
	}
	if len(errs) > 0 {
		return fmt.Errorf("race %q validation failed: %v", r.ID, errs)
	}
	return nil
}

func raceFromYAML(data []byte) (*RaceDef, error) {
	var raw raceYAML
	if err := unmarshalStrict(data, &raw); err != nil {
		return nil, err
	}
	r := &RaceDef{ID: raw.ID, Name: raw.Name}
	for _, rr := range raw.RankRanges {
		gains, err := statGains(rr.Gains)
		if err != nil {
			return nil, err
		}
		r.RankRanges = append(r.RankRanges, RankRange{
			MinLevel:   rr.MinLevel,
			MaxLevel:   rr.MaxLevel,
			Rank:       rr.Rank,
			Gains:      gains,
			FreePoints: rr.FreePoints,
		})
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadRaces reads all .yaml files in dir and parses each as a RaceDef.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed races (may be empty slice) or a non-nil error.
func LoadRaces(dir string) ([]*RaceDef, error) {
	return loadAll(dir, "race", raceFromYAML)
}
