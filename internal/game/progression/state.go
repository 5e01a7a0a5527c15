package progression

// CharacterType distinguishes full characters from the reduced variants that
// only progress along the race axis.
type CharacterType string

const (
	TypePlayer   CharacterType = "player"
	TypeFamiliar CharacterType = "familiar"
	TypeMonster  CharacterType = "monster"
)

// RaceProgression tracks the race axis.
//
// Invariant: Rank == RankForLevel(Level); Level >= 1.
type RaceProgression struct {
	Name  string
	Level int
	Rank  Rank
}

// ClassProgression tracks the class or profession axis.
//
// Invariant: Tier == TierForLevel(Level); Level >= 0.
type ClassProgression struct {
	Name  string
	Level int
	Tier  int
}

// State is the progression block of a character: the three axes plus the
// free-point balance.
//
// Invariant: FreePoints >= 0 after every engine operation.
type State struct {
	Type       CharacterType
	Race       RaceProgression
	Class      *ClassProgression // nil for familiars and monsters
	Profession *ClassProgression // nil for familiars and monsters
	FreePoints int
}

// NewState creates a State for a freshly created character at race level 1.
func NewState(charType CharacterType, raceName string) *State {
	st := &State{
		Type: charType,
		Race: RaceProgression{Name: raceName, Level: 1, Rank: RankForLevel(1)},
	}
	if charType == TypePlayer {
		st.Class = &ClassProgression{Tier: 1}
		st.Profession = &ClassProgression{Tier: 1}
	}
	return st
}
