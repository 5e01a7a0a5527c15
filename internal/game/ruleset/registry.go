package ruleset

import "fmt"

// Registry holds all loaded class, profession, race, and blessing
// definitions indexed by ID.
type Registry struct {
	classes     map[string]*ClassDef
	professions map[string]*ProfessionDef
	races       map[string]*RaceDef
	blessings   map[string]*BlessingDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		classes:     make(map[string]*ClassDef),
		professions: make(map[string]*ProfessionDef),
		races:       make(map[string]*RaceDef),
		blessings:   make(map[string]*BlessingDef),
	}
}

// RegisterClass adds c to the registry.
//
// Precondition: c must not be nil.
// Postcondition: Class(c.ID) returns (c, true); returns error on duplicate ID.
func (r *Registry) RegisterClass(c *ClassDef) error {
	if _, exists := r.classes[c.ID]; exists {
		return fmt.Errorf("ruleset: class ID %q already registered", c.ID)
	}
	r.classes[c.ID] = c
	return nil
}

// RegisterProfession adds p to the registry.
//
// Precondition: p must not be nil.
// Postcondition: Profession(p.ID) returns (p, true); returns error on duplicate ID.
func (r *Registry) RegisterProfession(p *ProfessionDef) error {
	if _, exists := r.professions[p.ID]; exists {
		return fmt.Errorf("ruleset: profession ID %q already registered", p.ID)
	}
	r.professions[p.ID] = p
	return nil
}

// RegisterRace adds d to the registry.
//
// Precondition: d must not be nil.
// Postcondition: Race(d.ID) returns (d, true); returns error on duplicate ID.
func (r *Registry) RegisterRace(d *RaceDef) error {
	if _, exists := r.races[d.ID]; exists {
		return fmt.Errorf("ruleset: race ID %q already registered", d.ID)
	}
	r.races[d.ID] = d
	return nil
}

// RegisterBlessing adds b to the registry.
//
// Precondition: b must not be nil.
// Postcondition: Blessing(b.ID) returns (b, true); returns error on duplicate ID.
func (r *Registry) RegisterBlessing(b *BlessingDef) error {
	if _, exists := r.blessings[b.ID]; exists {
		return fmt.Errorf("ruleset: blessing ID %q already registered", b.ID)
	}
	r.blessings[b.ID] = b
	return nil
}

// Class returns the ClassDef for the given id and whether it was found.
func (r *Registry) Class(id string) (*ClassDef, bool) {
	c, ok := r.classes[id]
	return c, ok
}

// Profession returns the ProfessionDef for the given id and whether it was found.
func (r *Registry) Profession(id string) (*ProfessionDef, bool) {
	p, ok := r.professions[id]
	return p, ok
}

// Race returns the RaceDef for the given id and whether it was found.
func (r *Registry) Race(id string) (*RaceDef, bool) {
	d, ok := r.races[id]
	return d, ok
}

// Blessing returns the BlessingDef for the given id and whether it was found.
func (r *Registry) Blessing(id string) (*BlessingDef, bool) {
	b, ok := r.blessings[id]
	return b, ok
}

// LoadDirs loads classes, professions, races, and blessings from their
// respective directories into a fresh Registry. Empty directory arguments are
// skipped.
//
// Postcondition: Returns a populated Registry or the first load error.
func LoadDirs(classDir, professionDir, raceDir, blessingDir string) (*Registry, error) {
	reg := NewRegistry()
	if classDir != "" {
		classes, err := LoadClasses(classDir)
		if err != nil {
			return nil, err
		}
		for _, c := range classes {
			if err := reg.RegisterClass(c); err != nil {
				return nil, err
			}
		}
	}
	if professionDir != "" {
		professions, err := LoadProfessions(professionDir)
		if err != nil {
			return nil, err
		}
		for _, p := range professions {
			if err := reg.RegisterProfession(p); err != nil {
				return nil, err
			}
		}
	}
	if raceDir != "" {
		races, err := LoadRaces(raceDir)
		if err != nil {
			return nil, err
		}
		for _, d := range races {
			if err := reg.RegisterRace(d); err != nil {
				return nil, err
			}
		}
	}
	if blessingDir != "" {
		blessings, err := LoadBlessings(blessingDir)
		if err != nil {
			return nil, err
		}
		for _, b := range blessings {
			if err := reg.RegisterBlessing(b); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}
