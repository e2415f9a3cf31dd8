package effects

import "github.com/forgecore/cardsim/internal/primitives"

// Source identifies where a Modifier came from: either the game rules
// themselves, or one specific ability on one specific card.
type Source struct {
	IsGame  bool
	Ability primitives.AbilityId
}

// GameSource returns a Source representing the rules of the game itself,
// as opposed to a card's ability.
func GameSource() Source { return Source{IsGame: true} }

// AbilitySource returns a Source representing one ability on one card.
func AbilitySource(id primitives.AbilityId) Source { return Source{Ability: id} }

// DelegateType distinguishes a modifier that comes from a card's printed
// ability from one that comes from a detached, already-resolved effect
// (e.g. a spell that already resolved and left a floating buff behind). A
// permanent that loses all of its abilities stops applying DelegateAbility
// modifiers registered at or before the timestamp it lost them, but still
// honors DelegateEffect modifiers.
type DelegateType int

const (
	DelegateAbility DelegateType = iota
	DelegateEffect
)

// ModifierDuration describes how long a Modifier remains registered in the
// Registry. It is distinct from the older, string-typed Duration in
// cleanup.go, which tags how long a ReplacementEffect stays registered
// with the ReplacementManager (see DESIGN.md).
type ModifierDuration int

const (
	DurationContinuous ModifierDuration = iota
	DurationThisTurn
	DurationThisCombat
	DurationWhileConditionHolds
)

// Key is the sorting key for a modifier: layer first, then timestamp
// (the EffectId at which the modifier was created) as the tie-breaker
// within a layer.
type Key struct {
	Layer     Layer
	Timestamp primitives.Timestamp
}

// Less reports whether k sorts before other: lower layer first, then
// lower timestamp.
func (k Key) Less(other Key) bool {
	if k.Layer != other.Layer {
		return k.Layer < other.Layer
	}
	return k.Timestamp < other.Timestamp
}

// Payload is the transformation a Modifier applies to a property. Exactly
// one of the concrete payload types below is ever stored in a Modifier.
type Payload interface{ isPayload() }

// SetPayload overwrites the property outright with Value.
type SetPayload struct{ Value any }

// AddPayload accumulates Delta into a numeric property's additive
// accumulator.
type AddPayload struct{ Delta int }

// ReplacePayload swaps Old for New, but only if the property's current
// value equals Old at the time this modifier is folded in (used by
// text-changing effects).
type ReplacePayload struct{ Old, New any }

// OverwritePayload sets a boolean flag outright, like SetPayload but
// restricted to bool-shaped properties for clarity at call sites.
type OverwritePayload struct{ Value bool }

// AndPayload conjoins Value into a flag property's restriction
// accumulator: once a false is folded in, the restriction accumulator
// stays false for the rest of the query, so no later Or, And or
// Overwrite can make the flag true again ("can't beats can").
type AndPayload struct{ Value bool }

// OrPayload disjoins Value into a flag property's permission accumulator.
type OrPayload struct{ Value bool }

func (SetPayload) isPayload()       {}
func (AddPayload) isPayload()       {}
func (ReplacePayload) isPayload()   {}
func (OverwritePayload) isPayload() {}
func (AndPayload) isPayload()       {}
func (OrPayload) isPayload()        {}

// Modifier is one registered transformation of one property.
type Modifier struct {
	ID       uint64
	CardID   primitives.CardId // zero value (with AppliesTo nil) means "not card-scoped"
	Scoped   bool              // true if CardID is meaningful
	AppliesTo func(candidate primitives.CardId) bool // optional extra filter for broadcast modifiers
	Property string
	Key      Key
	Source   Source
	Duration ModifierDuration
	Delegate DelegateType
	Payload  Payload
}

// matches reports whether this modifier applies to the given card for the
// given property.
func (m *Modifier) matches(card primitives.CardId, property string) bool {
	if m.Property != property {
		return false
	}
	if m.Scoped && m.CardID == card {
		return true
	}
	if m.AppliesTo != nil && m.AppliesTo(card) {
		return true
	}
	return false
}
