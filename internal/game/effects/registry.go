package effects

import (
	"sort"
	"sync"

	"github.com/forgecore/cardsim/internal/primitives"
)

// ActivePredicate decides whether a registered modifier is currently
// active. Typical reasons a modifier is inactive: its source card has left
// the zone it was registered in, or (for a DelegateAbility modifier) its
// source card lost all abilities at a timestamp at-or-before the
// modifier's own timestamp. The registry does not know about zones or
// ability-loss state itself (see the arena+index design note in
// DESIGN.md); callers supply this predicate.
type ActivePredicate func(*Modifier) bool

// AlwaysActive is an ActivePredicate that treats every modifier as active;
// useful for tests and for querying properties with no zone context.
func AlwaysActive(*Modifier) bool { return true }

// Registry holds every registered Modifier for every property of every
// entity in one game. It is the "arena" the rest of the engine folds over
// to compute properties; it performs no evaluation itself.
type Registry struct {
	mu        sync.RWMutex
	byCard    map[primitives.CardId][]*Modifier
	broadcast []*Modifier
	nextID    uint64
}

// NewRegistry constructs an empty modifier registry.
func NewRegistry() *Registry {
	return &Registry{byCard: make(map[primitives.CardId][]*Modifier)}
}

// Add registers a modifier and returns its minted ID. The modifier's Key
// should already be set by the caller (layer + the EffectId timestamp at
// which it was created).
func (r *Registry) Add(m *Modifier) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	if m.Scoped {
		r.byCard[m.CardID] = append(r.byCard[m.CardID], m)
	} else {
		r.broadcast = append(r.broadcast, m)
	}
	return m.ID
}

// Remove removes a modifier by ID.
func (r *Registry) Remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for card, mods := range r.byCard {
		r.byCard[card] = removeModifier(mods, id)
	}
	r.broadcast = removeModifier(r.broadcast, id)
}

func removeModifier(mods []*Modifier, id uint64) []*Modifier {
	for i, m := range mods {
		if m.ID == id {
			return append(mods[:i], mods[i+1:]...)
		}
	}
	return mods
}

// RemoveByDuration removes every modifier with the given duration,
// wherever it is registered. Called at Cleanup (ThisTurn) and at end of
// combat (ThisCombat).
func (r *Registry) RemoveByDuration(d ModifierDuration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for card, mods := range r.byCard {
		r.byCard[card] = filterOutDuration(mods, d)
	}
	r.broadcast = filterOutDuration(r.broadcast, d)
}

func filterOutDuration(mods []*Modifier, d ModifierDuration) []*Modifier {
	kept := mods[:0]
	for _, m := range mods {
		if m.Duration != d {
			kept = append(kept, m)
		}
	}
	return kept
}

// RemoveBySourceAbility removes every modifier whose Source names the
// given ability (used when a card leaves the battlefield and its static
// abilities stop applying).
func (r *Registry) RemoveBySourceAbility(id primitives.AbilityId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match := func(m *Modifier) bool { return !m.Source.IsGame && m.Source.Ability == id }
	for card, mods := range r.byCard {
		r.byCard[card] = filterOutMatching(mods, match)
	}
	r.broadcast = filterOutMatching(r.broadcast, match)
}

func filterOutMatching(mods []*Modifier, match func(*Modifier) bool) []*Modifier {
	kept := mods[:0]
	for _, m := range mods {
		if !match(m) {
			kept = append(kept, m)
		}
	}
	return kept
}

// ModifiersFor returns every active modifier registered against the given
// property for the given card, sorted in ascending (Layer, Timestamp)
// order ready to be folded by the Query* functions.
func (r *Registry) ModifiersFor(card primitives.CardId, property string, active ActivePredicate) []*Modifier {
	if active == nil {
		active = AlwaysActive
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Modifier
	for _, m := range r.byCard[card] {
		if m.matches(card, property) && active(m) {
			out = append(out, m)
		}
	}
	for _, m := range r.broadcast {
		if m.matches(card, property) && active(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
	return out
}
