// Package oracle is the read-only PrintedCard lookup table described in
// an in-memory table built once at startup and never
// mutated afterward, since every PrintedCard it serves is shared by
// every CardInstance with that name for the life of the process (see
// internal/printedcard's package doc).
package oracle

import (
	"fmt"

	"github.com/forgecore/cardsim/internal/primitives"
	"github.com/forgecore/cardsim/internal/printedcard"
)

// Oracle looks up the immutable printed data for a card by its printed
// id, per the Oracle interface.
type Oracle interface {
	Card(id primitives.PrintedCardId) printedcard.PrintedCard
}

// Table is an in-memory Oracle, keyed by PrintedCardId and by primary
// face name. It is built once via NewTable/Load and never mutated
// afterward; concurrent reads from multiple goroutines are safe because
// nothing ever writes to it again.
type Table struct {
	byID   map[primitives.PrintedCardId]printedcard.PrintedCard
	byName map[string]primitives.PrintedCardId
}

// NewTable builds a Table from a slice of cards, indexing each by id and
// by its primary face's name.
func NewTable(cards []printedcard.PrintedCard) *Table {
	t := &Table{
		byID:   make(map[primitives.PrintedCardId]printedcard.PrintedCard, len(cards)),
		byName: make(map[string]primitives.PrintedCardId, len(cards)),
	}
	for _, card := range cards {
		t.byID[card.ID] = card
		t.byName[card.Face0().Name] = card.ID
	}
	return t
}

// Card implements Oracle. It panics on an unknown id, matching
// PrintedCard's own contract that every CardInstance's printed data must
// exist for the life of the process — a missing card here means the
// oracle was loaded incorrectly, not a recoverable runtime condition.
func (t *Table) Card(id primitives.PrintedCardId) printedcard.PrintedCard {
	card, ok := t.byID[id]
	if !ok {
		panic(fmt.Sprintf("oracle: no printed card registered for id %v", id))
	}
	return card
}

// Lookup is the same as Card but reports absence instead of panicking,
// for callers holding an id that is not already known to be valid (e.g.
// deckbuilding import). Names are resolved by ByName.
func (t *Table) Lookup(id primitives.PrintedCardId) (printedcard.PrintedCard, bool) {
	card, ok := t.byID[id]
	return card, ok
}

// ByName resolves a card by its primary face's printed name.
func (t *Table) ByName(name string) (printedcard.PrintedCard, bool) {
	id, ok := t.byName[name]
	if !ok {
		return printedcard.PrintedCard{}, false
	}
	return t.byID[id], true
}

// Len reports how many cards the table holds.
func (t *Table) Len() int {
	return len(t.byID)
}
