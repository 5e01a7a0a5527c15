package equipment

import "github.com/aspectsofpower/ruleset/internal/game/stat"

// Bonuses is the aggregate contribution of all equipped items: the items
// source row for the stat table plus the combat bonus totals.
type Bonuses struct {
	Stats   map[stat.Key]int // feeds the "items" source row
	ToHit   int              // sum of attack bonuses
	Damage  int              // sum of damage bonuses
	Defense int              // sum of armor defense values
}

// Aggregate sums the contributions of every equipped item in the list.
// Unequipped items are ignored. Defense values count only for armor kinds.
//
// Postcondition: pure function of its input; Stats is always non-nil.
func Aggregate(items []*Item) Bonuses {
	b := Bonuses{Stats: make(map[stat.Key]int)}
	for _, item := range items {
		if item == nil || !item.Equipped {
			continue
		}
		for k, pts := range item.StatBonuses {
			b.Stats[k] += pts
		}
		b.ToHit += item.AttackBonus
		b.Damage += item.DamageBonus
		if item.Kind == KindArmor {
			b.Defense += item.DefenseValue
		}
	}
	return b
}
