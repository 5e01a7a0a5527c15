package stat

// Source identifies where ability points came from. The set is closed:
// every point on a character belongs to exactly one of these seven sources.
type Source string

const (
	SourceBase       Source = "base"
	SourceClass      Source = "class"
	SourceProfession Source = "profession"
	SourceRace       Source = "race"
	SourceItems      Source = "items"
	SourceBlessing   Source = "blessing"
	SourceFreePoints Source = "freePoints"
)

// sourceOrder is the canonical iteration order for all sources.
var sourceOrder = []Source{
	SourceBase, SourceClass, SourceProfession, SourceRace,
	SourceItems, SourceBlessing, SourceFreePoints,
}

// Sources returns all seven source kinds in canonical order.
//
// Postcondition: len(result) == 7; the returned slice is a fresh copy.
func Sources() []Source {
	out := make([]Source, len(sourceOrder))
	copy(out, sourceOrder)
	return out
}

// SourceTable tracks, per ability, how many points each source contributed.
//
// Invariant: Total(k) == sum over all sources of Get(k, source).
type SourceTable map[Key]map[Source]int

// NewSourceTable creates a table with every ability's base source set to base
// and all other sources at zero.
//
// Precondition: base >= 0.
func NewSourceTable(base int) SourceTable {
	t := make(SourceTable, len(keyOrder))
	for _, k := range keyOrder {
		t[k] = map[Source]int{SourceBase: base}
	}
	return t
}

// Get returns the contribution of src to ability k, zero when unset.
func (t SourceTable) Get(k Key, src Source) int {
	row, ok := t[k]
	if !ok {
		return 0
	}
	return row[src]
}

// Set overwrites the contribution of src to ability k.
func (t SourceTable) Set(k Key, src Source, value int) {
	row, ok := t[k]
	if !ok {
		row = make(map[Source]int)
		t[k] = row
	}
	row[src] = value
}

// Add increments the contribution of src to ability k by delta.
func (t SourceTable) Add(k Key, src Source, delta int) {
	t.Set(k, src, t.Get(k, src)+delta)
}

// ReplaceColumn overwrites the contributions of src across all abilities.
// Abilities absent from values are reset to zero for src. Used for sources
// that are recomputed wholesale, such as equipped items and blessings.
func (t SourceTable) ReplaceColumn(src Source, values map[Key]int) {
	for _, k := range keyOrder {
		t.Set(k, src, values[k])
	}
}

// Total returns the effective value of ability k: the sum of all source
// contributions.
func (t SourceTable) Total(k Key) int {
	total := 0
	for _, src := range sourceOrder {
		total += t.Get(k, src)
	}
	return total
}

// Totals returns the effective value of every ability.
//
// Postcondition: len(result) == 9.
func (t SourceTable) Totals() map[Key]int {
	out := make(map[Key]int, len(keyOrder))
	for _, k := range keyOrder {
		out[k] = t.Total(k)
	}
	return out
}

// Clone returns a deep copy of the table.
func (t SourceTable) Clone() SourceTable {
	out := make(SourceTable, len(t))
	for k, row := range t {
		cp := make(map[Source]int, len(row))
		for src, v := range row {
			cp[src] = v
		}
		out[k] = cp
	}
	return out
}
