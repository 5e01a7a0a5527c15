// Package progression implements leveling for the three progression axes
// (race, class, profession): rank and tier step functions, stat-point and
// free-point bookkeeping, and allocation validation.
package progression

// Rank is a race rank letter. Ranks ascend G -> F -> E -> D -> C as the race
// level crosses fixed thresholds.
type Rank string

const (
	RankG Rank = "G"
	RankF Rank = "F"
	RankE Rank = "E"
	RankD Rank = "D"
	RankC Rank = "C"
)

// RankForLevel returns the race rank for a given race level.
// Bands: <=9 G, <=24 F, <=99 E, <=199 D, else C.
//
// Postcondition: deterministic step function of level, never authored.
func RankForLevel(level int) Rank {
	switch {
	case level <= 9:
		return RankG
	case level <= 24:
		return RankF
	case level <= 99:
		return RankE
	case level <= 199:
		return RankD
	default:
		return RankC
	}
}

// TierForLevel returns the class/profession tier for a given level.
// Bands: <=24 tier 1, <=99 tier 2, <=199 tier 3, else tier 4.
//
// Postcondition: result in 1..4.
func TierForLevel(level int) int {
	switch {
	case level <= 24:
		return 1
	case level <= 99:
		return 2
	case level <= 199:
		return 3
	default:
		return 4
	}
}

// TierPoints is the per-level point allocation for one tier.
type TierPoints struct {
	Fixed int // points distributed across the primary-stat list
	Free  int // points added to the free-point balance
}

// PointTable maps tier -> per-level point allocation.
type PointTable map[int]TierPoints

// DefaultPointTable returns the standard allocation pairs. Tier 1 and 2 come
// from the published rules; tier 3 and 4 values are provisional and meant to
// be overridden from configuration.
func DefaultPointTable() PointTable {
	return PointTable{
		1: {Fixed: 6, Free: 2},
		2: {Fixed: 14, Free: 4},
		3: {Fixed: 24, Free: 6},
		4: {Fixed: 40, Free: 10},
	}
}
