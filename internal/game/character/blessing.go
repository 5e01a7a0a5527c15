package character

import (
	"github.com/aspectsofpower/ruleset/internal/game/ruleset"
	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// blessingState tracks the single active blessing.
type blessingState struct {
	def *ruleset.BlessingDef
}

// Blessing returns the active blessing, or nil when none is held.
func (s *State) Blessing() *ruleset.BlessingDef {
	if s.blessing == nil {
		return nil
	}
	return s.blessing.def
}

// ApplyBlessing makes def the character's active blessing. A character holds
// at most one: the previous blessing's contribution is replaced wholesale.
//
// Postcondition: the blessing source column equals def.Bonuses exactly.
func (s *State) ApplyBlessing(def *ruleset.BlessingDef) error {
	s.blessing = &blessingState{def: def}
	s.Abilities.ReplaceColumn(stat.SourceBlessing, def.Bonuses)
	return s.Recompute()
}

// RemoveBlessing clears the active blessing and its contribution.
func (s *State) RemoveBlessing() error {
	s.blessing = nil
	s.Abilities.ReplaceColumn(stat.SourceBlessing, nil)
	return s.Recompute()
}
