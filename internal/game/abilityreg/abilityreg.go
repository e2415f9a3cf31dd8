// Package abilityreg is the card-definition registration table: the
// place where a printed card's oracle text is attached to the concrete
// Go code that implements its abilities. It generalizes the sketch in
// an illustrative ability-definition sketch (never wired to any real
// engine) into a registry keyed
// by the typed PrintedCardId from internal/printedcard, producing
// Modifiers/StaticAbility/TriggeredAbility values the effects/rules
// packages can act on, instead of that file's illustrative
// game/CardInstance types.
package abilityreg

import (
	"context"

	"github.com/forgecore/cardsim/internal/game/effects"
	"github.com/forgecore/cardsim/internal/primitives"
)

// Kind identifies which of the five ability categories a Definition
// describes (mirrors AbilityType in an earlier illustrative ability sketch).
type Kind int

const (
	KindStatic Kind = iota
	KindTriggered
	KindActivated
	KindSpell
	KindMana
)

// StaticAbility installs continuous Modifiers into a Registry for as
// long as its source permanent grants them. Install is called once when
// the source enters the relevant zone (usually the battlefield);
// Remove is called when it leaves, or when its AbilityId otherwise
// stops applying (e.g. the source lost all abilities).
type StaticAbility struct {
	Install func(reg *effects.Registry, source primitives.AbilityId, card primitives.CardId)
	Remove  func(reg *effects.Registry, source primitives.AbilityId)
}

// TriggerCondition reports whether a triggered ability's trigger
// condition fired, given some event-shaped data the rules package's
// event bus supplies. It is intentionally untyped here (abilityreg does
// not import rules, to avoid a cycle): concrete definitions close over
// whatever event-kind constants the rules package already exports.
type TriggerCondition func(event any) bool

// TriggeredAbility is queued onto the stack when its Condition matches
// an observed event.
type TriggeredAbility struct {
	Condition TriggerCondition
	Resolve   func(ctx context.Context, source primitives.CardId, controller primitives.PlayerName) error
}

// ActivatedAbility can be activated by its controller paying Cost (cost
// legality/payment itself is the rules/mana packages' job; this only
// carries the ability's resolution effect and whether it uses the
// stack — mana abilities, per the comprehensive rules, never do).
type ActivatedAbility struct {
	UsesStack bool
	Resolve   func(ctx context.Context, source primitives.CardId, controller primitives.PlayerName, targets []primitives.PermanentId) error
}

// SpellAbility resolves an instant or sorcery spell (KindSpell). Most
// permanent-type spells need no Definition at all — the engine puts
// them onto the battlefield directly — so this is only populated for
// cards whose resolution does something beyond that.
type SpellAbility struct {
	Resolve func(ctx context.Context, source primitives.CardId, controller primitives.PlayerName, targets []primitives.PermanentId) error
}

// Definition is everything abilityreg knows about one printed card's
// rules-relevant behavior.
type Definition struct {
	Card      primitives.PrintedCardId
	Statics   []StaticAbility
	Triggered []TriggeredAbility
	Activated []ActivatedAbility
	Spell     *SpellAbility
}

// Registry maps a PrintedCardId to its Definition.
type Registry struct {
	defs map[primitives.PrintedCardId]*Definition
}

// New constructs an empty ability-definition registry.
func New() *Registry {
	return &Registry{defs: make(map[primitives.PrintedCardId]*Definition)}
}

// Register adds (or replaces) the Definition for one printed card.
func (r *Registry) Register(def *Definition) {
	r.defs[def.Card] = def
}

// Lookup returns the Definition for a printed card, if one has been
// registered. Cards with no registered Definition are vanilla: they
// have only the characteristics in their PrintedCard face and no
// abilities at all.
func (r *Registry) Lookup(card primitives.PrintedCardId) (*Definition, bool) {
	def, ok := r.defs[card]
	return def, ok
}

// InstallStatics runs every static ability a Definition grants against
// reg, using source as the originating AbilityId for each installed
// Modifier (so RemoveBySourceAbility can retract them all at once).
func (d *Definition) InstallStatics(reg *effects.Registry, source primitives.AbilityId, card primitives.CardId) {
	for _, s := range d.Statics {
		if s.Install != nil {
			s.Install(reg, source, card)
		}
	}
}

// RemoveStatics retracts every static ability this Definition granted
// from the given AbilityId's source.
func (d *Definition) RemoveStatics(reg *effects.Registry, source primitives.AbilityId) {
	for _, s := range d.Statics {
		if s.Remove != nil {
			s.Remove(reg, source)
		} else {
			reg.RemoveBySourceAbility(source)
		}
	}
}
