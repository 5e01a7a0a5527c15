package progression

import (
	"fmt"

	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// Report is the result of a progression/stat consistency check.
type Report struct {
	Valid  bool
	Issues []string
}

// Validate checks the structural invariants of a character's progression
// state against its stat source table and the caller's cached totals.
//
// Checks: (a) every cached total equals the sum of that ability's source
// rows, (b) the free-point balance is non-negative, (c) class/profession
// tiers match their levels, (d) familiars and monsters hold no class or
// profession levels.
//
// Postcondition: result.Valid == (len(result.Issues) == 0).
func Validate(st *State, table stat.SourceTable, cachedTotals map[stat.Key]int) Report {
	var issues []string

	for _, k := range stat.Keys() {
		if cached, ok := cachedTotals[k]; ok && cached != table.Total(k) {
			issues = append(issues, fmt.Sprintf(
				"ability %s: cached total %d != source sum %d", k, cached, table.Total(k)))
		}
	}

	if st.FreePoints < 0 {
		issues = append(issues, fmt.Sprintf("free-point balance is negative: %d", st.FreePoints))
	}

	if st.Race.Rank != RankForLevel(st.Race.Level) {
		issues = append(issues, fmt.Sprintf(
			"race rank %s inconsistent with level %d (want %s)",
			st.Race.Rank, st.Race.Level, RankForLevel(st.Race.Level)))
	}

	for _, track := range []struct {
		name string
		prog *ClassProgression
	}{
		{"class", st.Class},
		{"profession", st.Profession},
	} {
		if track.prog == nil {
			continue
		}
		if track.prog.Level > 0 && st.Type != TypePlayer {
			issues = append(issues, fmt.Sprintf(
				"%s character holds %s levels", st.Type, track.name))
		}
		if want := TierForLevel(track.prog.Level); track.prog.Tier != want {
			issues = append(issues, fmt.Sprintf(
				"%s tier %d inconsistent with level %d (want %d)",
				track.name, track.prog.Tier, track.prog.Level, want))
		}
	}

	return Report{Valid: len(issues) == 0, Issues: issues}
}
