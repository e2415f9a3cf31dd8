package zones

import (
	"github.com/forgecore/cardsim/internal/game/counters"
	"github.com/forgecore/cardsim/internal/primitives"
	"github.com/forgecore/cardsim/internal/printedcard"
)

// ControlEffect records one effect that is currently overriding a card's
// controller, tagged with the EffectId that created it so the effect can
// be found and removed when its duration expires.
type ControlEffect struct {
	Effect     primitives.EffectId
	Controller primitives.PlayerName
}

// StackTarget is one target chosen for a spell or ability on the stack.
// Targets are looked up lazily at resolution time via their PermanentId or
// player name, so a target that has left the battlefield simply fails to
// resolve (see zones.Store.Permanent).
type StackTarget struct {
	Permanent primitives.PermanentId
	Player    primitives.PlayerName
	IsPlayer  bool
}

// CardInstance is the mutable runtime state for one card-like object. Its
// CardId is stable for the object's entire existence in the game; its
// ObjectId is reissued every time it changes zones.
type CardInstance struct {
	ID       primitives.CardId
	Object   primitives.ObjectId
	Printed  *printedcard.PrintedCard
	Owner    primitives.PlayerName

	Zone       primitives.Zone
	Controller primitives.PlayerName

	FaceDown bool
	Tapped   bool

	Counters     *counters.Counters
	DamageMarked int

	RevealedTo map[primitives.PlayerName]bool

	Targets []StackTarget // only meaningful while on the stack

	AttachedTo *primitives.PermanentId

	ControlEffects []ControlEffect

	EnteredZoneTurn    int
	ControlChangedTurn int

	// Abilities lists the ability indices defined on this card's printed
	// face, used to key lookups into effect/event registries elsewhere;
	// the callbacks themselves live in the effects package, not here, so
	// that zones does not need to depend on effects.
	Abilities []int
}

func newCardInstance(id primitives.CardId, object primitives.ObjectId, printed *printedcard.PrintedCard, owner primitives.PlayerName, zone primitives.Zone, turn int) *CardInstance {
	return &CardInstance{
		ID:                 id,
		Object:              object,
		Printed:             printed,
		Owner:               owner,
		Zone:                zone,
		Controller:          owner,
		Counters:            counters.NewCounters(),
		RevealedTo:          make(map[primitives.PlayerName]bool),
		EnteredZoneTurn:     turn,
		ControlChangedTurn:  turn,
	}
}

// PermanentId returns the (ObjectId, CardId) pair identifying this card as
// a permanent at its current zone position.
func (c *CardInstance) PermanentId() primitives.PermanentId {
	return primitives.PermanentId{Object: c.Object, Card: c.ID}
}

// IsControlledBy reports whether player currently controls this object,
// accounting for any active control-changing effect.
func (c *CardInstance) IsControlledBy(player primitives.PlayerName) bool {
	return c.Controller == player
}

// StableController returns the controller with the highest-timestamped
// still-active control effect applied, or the owner if none apply. Callers
// holding on to a ControlEffect's EffectId can use this to detect whether a
// later effect has since overridden theirs.
func (c *CardInstance) StableController() primitives.PlayerName {
	if len(c.ControlEffects) == 0 {
		return c.Owner
	}
	best := c.ControlEffects[0]
	for _, ce := range c.ControlEffects[1:] {
		if ce.Effect > best.Effect {
			best = ce
		}
	}
	return best.Controller
}
