// Package zones implements the Zone Store: it owns every CardInstance and
// stack-ability instance that exists in a game, and is the sole authority
// on which zone each one currently occupies. Nothing outside this package
// is permitted to move a card between zones directly; callers go through
// Store.MoveCard so that ObjectId rotation and deque ordering stay
// consistent with the zone-membership invariants CheckInvariants verifies.
package zones

import (
	"fmt"

	"github.com/forgecore/cardsim/internal/primitives"
	"github.com/forgecore/cardsim/internal/printedcard"
)

// StackAbility is a triggered or activated ability instance parked on the
// stack. It is removed from the store entirely when it resolves or is
// countered, unlike a card, which simply changes zone.
type StackAbility struct {
	ID         primitives.StackAbilityId
	Object     primitives.ObjectId
	Defines    primitives.AbilityId
	Owner      primitives.PlayerName
	Controller primitives.PlayerName
	Targets    []StackTarget
}

// StackItem is either a card or a stack-ability instance sitting on the
// stack, in resolution order (back of the slice resolves first).
type StackItem struct {
	Card    primitives.CardId
	Ability *StackAbility
}

func (i StackItem) IsAbility() bool { return i.Ability != nil }

type deque struct {
	ids []primitives.CardId
}

func (d *deque) pushTop(id primitives.CardId)    { d.ids = append(d.ids, id) }
func (d *deque) pushBottom(id primitives.CardId) { d.ids = append([]primitives.CardId{id}, d.ids...) }

func (d *deque) top() (primitives.CardId, bool) {
	if len(d.ids) == 0 {
		return 0, false
	}
	return d.ids[len(d.ids)-1], true
}

func (d *deque) popTop() (primitives.CardId, bool) {
	if len(d.ids) == 0 {
		return 0, false
	}
	id := d.ids[len(d.ids)-1]
	d.ids = d.ids[:len(d.ids)-1]
	return id, true
}

func (d *deque) remove(id primitives.CardId) bool {
	for i, existing := range d.ids {
		if existing == id {
			d.ids = append(d.ids[:i], d.ids[i+1:]...)
			return true
		}
	}
	return false
}

func (d *deque) snapshot() []primitives.CardId {
	out := make([]primitives.CardId, len(d.ids))
	copy(out, d.ids)
	return out
}

// Store is the Zone Store. It exclusively owns every CardInstance and
// StackAbility in one game.
type Store struct {
	cards map[primitives.CardId]*CardInstance

	nextCardID  primitives.CardId
	nextObject  primitives.ObjectId
	nextStackID primitives.StackAbilityId

	objectIndex map[primitives.ObjectId]primitives.CardId

	hand      map[primitives.PlayerName]*deque
	library   map[primitives.PlayerName]*deque
	graveyard map[primitives.PlayerName]*deque
	exile     map[primitives.PlayerName]*deque
	command   map[primitives.PlayerName]*deque
	outside   map[primitives.PlayerName]*deque

	battlefield *deque
	stack       []StackItem
}

// NewStore constructs an empty Zone Store for the given seats.
func NewStore(players []primitives.PlayerName) *Store {
	s := &Store{
		cards:       make(map[primitives.CardId]*CardInstance),
		objectIndex: make(map[primitives.ObjectId]primitives.CardId),
		hand:        make(map[primitives.PlayerName]*deque),
		library:     make(map[primitives.PlayerName]*deque),
		graveyard:   make(map[primitives.PlayerName]*deque),
		exile:       make(map[primitives.PlayerName]*deque),
		command:     make(map[primitives.PlayerName]*deque),
		outside:     make(map[primitives.PlayerName]*deque),
		battlefield: &deque{},
	}
	for _, p := range players {
		s.hand[p] = &deque{}
		s.library[p] = &deque{}
		s.graveyard[p] = &deque{}
		s.exile[p] = &deque{}
		s.command[p] = &deque{}
		s.outside[p] = &deque{}
	}
	return s
}

func (s *Store) dequeFor(zone primitives.Zone, owner primitives.PlayerName) *deque {
	switch zone {
	case primitives.ZoneHand:
		return s.hand[owner]
	case primitives.ZoneLibrary:
		return s.library[owner]
	case primitives.ZoneGraveyard:
		return s.graveyard[owner]
	case primitives.ZoneExiled:
		return s.exile[owner]
	case primitives.ZoneCommand:
		return s.command[owner]
	case primitives.ZoneOutsideTheGame:
		return s.outside[owner]
	case primitives.ZoneBattlefield:
		return s.battlefield
	default:
		return nil
	}
}

// CreateCard mints a fresh CardId and ObjectId and inserts the card into
// the given zone, owned by owner, face up, on top.
func (s *Store) CreateCard(printed *printedcard.PrintedCard, owner primitives.PlayerName, zone primitives.Zone, turn int) *CardInstance {
	s.nextCardID++
	s.nextObject++
	card := newCardInstance(s.nextCardID, s.nextObject, printed, owner, zone, turn)
	s.cards[card.ID] = card
	s.objectIndex[card.Object] = card.ID
	if d := s.dequeFor(zone, owner); d != nil {
		d.pushTop(card.ID)
	}
	return card
}

// Card looks up a card instance by its stable CardId, regardless of zone.
func (s *Store) Card(id primitives.CardId) (*CardInstance, bool) {
	c, ok := s.cards[id]
	return c, ok
}

// Permanent looks up a card instance by PermanentId. It returns the card
// only if its current ObjectId still matches pid.Object: this is the
// mechanism by which "until end of turn" effects detect that the
// permanent they targeted has left the battlefield.
func (s *Store) Permanent(pid primitives.PermanentId) (*CardInstance, bool) {
	c, ok := s.cards[pid.Card]
	if !ok || c.Object != pid.Object {
		return nil, false
	}
	return c, true
}

// MoveCard relocates a card to a new zone, rotating its ObjectId and
// updating its controller and entered-zone turn. Moving a card to the same
// zone it is already in (e.g. returning to hand from hand) is a no-op
// beyond the rotation rules.
func (s *Store) MoveCard(id primitives.CardId, to primitives.Zone, controller primitives.PlayerName, turn int) error {
	card, ok := s.cards[id]
	if !ok {
		return fmt.Errorf("zones: move of unknown card %d", id)
	}
	from := card.Zone
	if d := s.dequeFor(from, card.Owner); d != nil {
		d.remove(id)
	}

	delete(s.objectIndex, card.Object)
	s.nextObject++
	card.Object = s.nextObject
	s.objectIndex[card.Object] = card.ID

	card.Zone = to
	if to == primitives.ZoneBattlefield {
		card.Controller = controller
	} else {
		card.Controller = card.Owner
		card.ControlEffects = nil
	}
	card.EnteredZoneTurn = turn
	card.Tapped = false
	card.DamageMarked = 0
	card.AttachedTo = nil
	card.Targets = nil

	owner := card.Owner
	if d := s.dequeFor(to, owner); d != nil {
		d.pushTop(id)
	}
	return nil
}

// SetController updates a permanent's controller without changing its
// zone, recording the EffectId responsible so the change can be undone
// when that effect expires.
func (s *Store) SetController(id primitives.CardId, controller primitives.PlayerName, effect primitives.EffectId, turn int) error {
	card, ok := s.cards[id]
	if !ok {
		return fmt.Errorf("zones: set controller of unknown card %d", id)
	}
	card.Controller = controller
	card.ControlChangedTurn = turn
	card.ControlEffects = append(card.ControlEffects, ControlEffect{Effect: effect, Controller: controller})
	return nil
}

// RemoveControlEffectsFrom strips any control effect with the given
// EffectId from the card and recomputes its controller from what remains
// (falling back to the owner). Called when a ThisTurn/ThisCombat duration
// control effect expires.
func (s *Store) RemoveControlEffectsFrom(id primitives.CardId, effect primitives.EffectId) {
	card, ok := s.cards[id]
	if !ok {
		return
	}
	kept := card.ControlEffects[:0]
	for _, ce := range card.ControlEffects {
		if ce.Effect != effect {
			kept = append(kept, ce)
		}
	}
	card.ControlEffects = kept
	card.Controller = card.StableController()
}

// Battlefield returns every permanent currently on the battlefield,
// regardless of controller or owner.
func (s *Store) Battlefield() []primitives.CardId { return s.battlefield.snapshot() }

// OwnedBattlefield returns the permanents on the battlefield owned by
// player. Combined across all players this always equals Battlefield().
func (s *Store) OwnedBattlefield(player primitives.PlayerName) []primitives.CardId {
	var out []primitives.CardId
	for _, id := range s.battlefield.snapshot() {
		if c := s.cards[id]; c.Owner == player {
			out = append(out, id)
		}
	}
	return out
}

// ControlledBattlefield returns the permanents on the battlefield currently
// controlled by player. Combined across all players this always equals
// Battlefield(), satisfying the invariant that the owned and controlled
// views agree on current controller.
func (s *Store) ControlledBattlefield(player primitives.PlayerName) []primitives.CardId {
	var out []primitives.CardId
	for _, id := range s.battlefield.snapshot() {
		if c := s.cards[id]; c.Controller == player {
			out = append(out, id)
		}
	}
	return out
}

func (s *Store) Hand(p primitives.PlayerName) []primitives.CardId      { return s.hand[p].snapshot() }
func (s *Store) Library(p primitives.PlayerName) []primitives.CardId   { return s.library[p].snapshot() }
func (s *Store) Graveyard(p primitives.PlayerName) []primitives.CardId { return s.graveyard[p].snapshot() }
func (s *Store) Exile(p primitives.PlayerName) []primitives.CardId     { return s.exile[p].snapshot() }
func (s *Store) Command(p primitives.PlayerName) []primitives.CardId   { return s.command[p].snapshot() }

// TopOfLibrary returns the card on top of player's library without
// removing it.
func (s *Store) TopOfLibrary(p primitives.PlayerName) (primitives.CardId, bool) {
	return s.library[p].top()
}

// DrawCard removes the top card of player's library and moves it to hand.
// It reports false if the library was empty (an empty-library draw is not
// an error at this layer; the state-based-action check is what applies the
// loss).
func (s *Store) DrawCard(p primitives.PlayerName, turn int) (primitives.CardId, bool) {
	id, ok := s.library[p].popTop()
	if !ok {
		return 0, false
	}
	s.library[p].pushTop(id) // restore so MoveCard can remove it from the right deque
	if err := s.MoveCard(id, primitives.ZoneHand, p, turn); err != nil {
		return 0, false
	}
	return id, true
}

// PushStackCard places a card instance on top of the stack.
func (s *Store) PushStackCard(id primitives.CardId, turn int) error {
	if err := s.MoveCard(id, primitives.ZoneStack, primitives.PlayerOne, turn); err != nil {
		return err
	}
	s.stack = append(s.stack, StackItem{Card: id})
	return nil
}

// PushStackAbility mints a StackAbilityId and places a new ability
// instance on top of the stack.
func (s *Store) PushStackAbility(defines primitives.AbilityId, owner, controller primitives.PlayerName, targets []StackTarget) *StackAbility {
	s.nextStackID++
	s.nextObject++
	ability := &StackAbility{
		ID:         s.nextStackID,
		Object:     s.nextObject,
		Defines:    defines,
		Owner:      owner,
		Controller: controller,
		Targets:    targets,
	}
	s.stack = append(s.stack, StackItem{Ability: ability})
	return ability
}

// PeekStack returns the top item of the stack without removing it.
func (s *Store) PeekStack() (StackItem, bool) {
	if len(s.stack) == 0 {
		return StackItem{}, false
	}
	return s.stack[len(s.stack)-1], true
}

// PopStack removes and returns the top item of the stack.
func (s *Store) PopStack() (StackItem, bool) {
	if len(s.stack) == 0 {
		return StackItem{}, false
	}
	item := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return item, true
}

// Stack returns every item currently on the stack, top-of-stack last.
func (s *Store) Stack() []StackItem {
	out := make([]StackItem, len(s.stack))
	copy(out, s.stack)
	return out
}

// RemoveStackAbility removes a stack ability instance by id without
// resolving it (used when a trigger's source disappears, or by effects
// that remove abilities from the stack outright).
func (s *Store) RemoveStackAbility(id primitives.StackAbilityId) bool {
	for i, item := range s.stack {
		if item.Ability != nil && item.Ability.ID == id {
			s.stack = append(s.stack[:i], s.stack[i+1:]...)
			return true
		}
	}
	return false
}

// CheckInvariants verifies the zone-membership invariants:
// every card is in exactly one zone (trivially true by construction here)
// and every ObjectId is unique at the current instant. It is intended for
// use from tests, not from the hot path.
func (s *Store) CheckInvariants() error {
	seen := make(map[primitives.ObjectId]primitives.CardId)
	for id, card := range s.cards {
		if existing, ok := seen[card.Object]; ok && existing != id {
			return fmt.Errorf("zones: ObjectId %d shared by cards %d and %d", card.Object, existing, id)
		}
		seen[card.Object] = id
	}
	return nil
}
