package progression

import (
	"errors"
	"fmt"

	"github.com/aspectsofpower/ruleset/internal/game/dice"
	"github.com/aspectsofpower/ruleset/internal/game/ruleset"
	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// ErrOverAllocation is returned when a manual free-point spend exceeds the
// current balance. The balance is left unchanged.
var ErrOverAllocation = errors.New("progression: allocation exceeds free-point balance")

// ErrUnsupportedProgression is returned when a leveling axis is not allowed
// for the character type (familiars and monsters level only through race).
var ErrUnsupportedProgression = errors.New("progression: axis not supported for character type")

// Axis selects which progression track a level-up applies to.
type Axis string

const (
	AxisRace       Axis = "race"
	AxisClass      Axis = "class"
	AxisProfession Axis = "profession"
)

// AllocationMode controls what happens to free points gained by a level-up.
type AllocationMode string

const (
	// AllocManual banks the gained free points for later spending.
	AllocManual AllocationMode = "manual"
	// AllocRandom immediately distributes the entire balance at random.
	AllocRandom AllocationMode = "random"
)

// Engine applies level-ups and free-point allocations to a character's
// progression state and stat source table.
type Engine struct {
	points   PointTable
	registry *ruleset.Registry
	src      dice.Source
}

// NewEngine creates a progression engine.
//
// Precondition: src must be non-nil; registry may be nil when only the flat
// race rule and registered-free allocation paths are used.
func NewEngine(points PointTable, registry *ruleset.Registry, src dice.Source) *Engine {
	if points == nil {
		points = DefaultPointTable()
	}
	return &Engine{points: points, registry: registry, src: src}
}

// LevelUp advances the given axis by levels, credits stat points to the
// matching source rows in table, and banks or spends gained free points
// according to mode.
//
// Precondition: levels >= 1; st and table must be non-nil.
// Postcondition: On error the state and table are unchanged.
func (e *Engine) LevelUp(st *State, table stat.SourceTable, axis Axis, levels int, mode AllocationMode) error {
	if levels < 1 {
		return fmt.Errorf("progression: levels must be >= 1, got %d", levels)
	}

	var err error
	switch axis {
	case AxisRace:
		err = e.levelUpRace(st, table, levels)
	case AxisClass:
		err = e.levelUpTrack(st, table, st.Class, stat.SourceClass, levels)
	case AxisProfession:
		err = e.levelUpTrack(st, table, st.Profession, stat.SourceProfession, levels)
	default:
		return fmt.Errorf("progression: unknown axis %q", axis)
	}
	if err != nil {
		return err
	}

	if mode == AllocRandom {
		e.AllocateRandom(st, table)
	}
	return nil
}

// levelUpRace advances the race axis. With a registered RaceDef the per-rank
// gain table applies level by level; otherwise every ability gains one point
// per level and no free points are granted.
func (e *Engine) levelUpRace(st *State, table stat.SourceTable, levels int) error {
	var def *ruleset.RaceDef
	if e.registry != nil {
		def, _ = e.registry.Race(st.Race.Name)
	}

	// Every target level must have a rank range before anything is applied,
	// or a gap partway through a multi-level jump would leave partial gains.
	if def != nil {
		for lvl := st.Race.Level + 1; lvl <= st.Race.Level+levels; lvl++ {
			if def.RangeFor(lvl) == nil {
				return fmt.Errorf("progression: race %q has no rank range for level %d", def.ID, lvl)
			}
		}
	}

	for i := 0; i < levels; i++ {
		newLevel := st.Race.Level + 1
		if def != nil {
			rr := def.RangeFor(newLevel)
			for k, pts := range rr.Gains {
				table.Add(k, stat.SourceRace, pts)
			}
			st.FreePoints += rr.FreePoints
		} else {
			for _, k := range stat.Keys() {
				table.Add(k, stat.SourceRace, 1)
			}
		}
		st.Race.Level = newLevel
	}
	st.Race.Rank = RankForLevel(st.Race.Level)
	return nil
}

// levelUpTrack advances a class or profession axis.
func (e *Engine) levelUpTrack(st *State, table stat.SourceTable, prog *ClassProgression, src stat.Source, levels int) error {
	if st.Type != TypePlayer || prog == nil {
		return fmt.Errorf("%w: %s cannot level %s", ErrUnsupportedProgression, st.Type, src)
	}

	growth, err := e.trackGrowth(prog.Name, src)
	if err != nil {
		return err
	}

	prog.Level += levels
	prog.Tier = TierForLevel(prog.Level)

	tierDefault := e.points[prog.Tier]
	freePerLevel := growth.freePoints
	if freePerLevel == 0 {
		freePerLevel = tierDefault.Free
	}

	if len(growth.gains) > 0 {
		// Explicit per-level gain table.
		for i := 0; i < levels; i++ {
			for k, pts := range growth.gains {
				table.Add(k, src, pts)
			}
		}
	} else if len(growth.primaries) > 0 {
		// Even split of the tier's fixed points across the primary list,
		// remainder to the earliest entries.
		fixed := tierDefault.Fixed * levels
		quotient := fixed / len(growth.primaries)
		remainder := fixed % len(growth.primaries)
		for i, k := range growth.primaries {
			pts := quotient
			if i < remainder {
				pts++
			}
			table.Add(k, src, pts)
		}
	}

	st.FreePoints += freePerLevel * levels
	return nil
}

// trackGrowth resolves the growth description for a class or profession name.
type growth struct {
	gains      map[stat.Key]int
	primaries  []stat.Key
	freePoints int
}

func (e *Engine) trackGrowth(name string, src stat.Source) (growth, error) {
	if e.registry == nil {
		return growth{}, fmt.Errorf("progression: no ruleset registry for %s %q", src, name)
	}
	if src == stat.SourceClass {
		def, ok := e.registry.Class(name)
		if !ok {
			return growth{}, fmt.Errorf("progression: unknown class %q", name)
		}
		return growth{gains: def.Gains, primaries: def.PrimaryStats, freePoints: def.FreePoints}, nil
	}
	def, ok := e.registry.Profession(name)
	if !ok {
		return growth{}, fmt.Errorf("progression: unknown profession %q", name)
	}
	return growth{gains: def.Gains, primaries: def.PrimaryStats, freePoints: def.FreePoints}, nil
}

// AllocateManual spends free points on the named abilities.
//
// Precondition: every allocation must be >= 0.
// Postcondition: On ErrOverAllocation the balance and table are unchanged;
// otherwise the balance is debited and each ability's freePoints row credited.
func (e *Engine) AllocateManual(st *State, table stat.SourceTable, allocations map[stat.Key]int) error {
	total := 0
	for k, pts := range allocations {
		if !k.IsValid() {
			return fmt.Errorf("progression: unknown ability %q in allocation", k)
		}
		if pts < 0 {
			return fmt.Errorf("progression: negative allocation for %s", k)
		}
		total += pts
	}
	if total > st.FreePoints {
		return fmt.Errorf("%w: requested %d, balance %d", ErrOverAllocation, total, st.FreePoints)
	}
	for k, pts := range allocations {
		table.Add(k, stat.SourceFreePoints, pts)
	}
	st.FreePoints -= total
	return nil
}

// AllocateRandom distributes the entire free-point balance one point at a
// time to uniformly random abilities, with replacement.
//
// Postcondition: st.FreePoints == 0.
func (e *Engine) AllocateRandom(st *State, table stat.SourceTable) {
	keys := stat.Keys()
	for st.FreePoints > 0 {
		k := keys[e.src.Intn(len(keys))]
		table.Add(k, stat.SourceFreePoints, 1)
		st.FreePoints--
	}
}
