package zones

import (
	"testing"

	"github.com/forgecore/cardsim/internal/primitives"
	"github.com/forgecore/cardsim/internal/printedcard"
)

func bear() *printedcard.PrintedCard {
	return &printedcard.PrintedCard{
		ID: "grizzly-bears",
		Faces: []printedcard.Face{{
			Name:         "Grizzly Bears",
			CardTypes:    primitives.NewCardTypeSet(primitives.TypeCreature),
			Power:        2,
			HasPower:     true,
			Toughness:    2,
			HasToughness: true,
		}},
	}
}

func TestCreateCardEntersZoneOnTop(t *testing.T) {
	store := NewStore([]primitives.PlayerName{primitives.PlayerOne})
	card := store.CreateCard(bear(), primitives.PlayerOne, primitives.ZoneLibrary, 1)

	top, ok := store.TopOfLibrary(primitives.PlayerOne)
	if !ok || top != card.ID {
		t.Fatalf("expected %d on top of library, got %v (ok=%v)", card.ID, top, ok)
	}
}

func TestMoveCardRotatesObjectId(t *testing.T) {
	store := NewStore([]primitives.PlayerName{primitives.PlayerOne})
	card := store.CreateCard(bear(), primitives.PlayerOne, primitives.ZoneHand, 1)
	original := card.Object

	if err := store.MoveCard(card.ID, primitives.ZoneBattlefield, primitives.PlayerOne, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Object == original {
		t.Fatalf("expected ObjectId to rotate on zone change")
	}

	// The stale PermanentId no longer resolves.
	if _, ok := store.Permanent(primitives.PermanentId{Object: original, Card: card.ID}); ok {
		t.Fatalf("expected stale PermanentId lookup to fail")
	}
	if _, ok := store.Permanent(card.PermanentId()); !ok {
		t.Fatalf("expected current PermanentId lookup to succeed")
	}
}

func TestBattlefieldViewsAgreeOnController(t *testing.T) {
	store := NewStore([]primitives.PlayerName{primitives.PlayerOne, primitives.PlayerTwo})
	card := store.CreateCard(bear(), primitives.PlayerOne, primitives.ZoneBattlefield, 1)

	if err := store.SetController(card.ID, primitives.PlayerTwo, 5, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	owned := store.OwnedBattlefield(primitives.PlayerOne)
	controlled := store.ControlledBattlefield(primitives.PlayerTwo)
	if len(owned) != 1 || owned[0] != card.ID {
		t.Fatalf("expected owner view to still list the card, got %v", owned)
	}
	if len(controlled) != 1 || controlled[0] != card.ID {
		t.Fatalf("expected controller view to list the card, got %v", controlled)
	}
}

func TestDrawFromEmptyLibraryReportsFalse(t *testing.T) {
	store := NewStore([]primitives.PlayerName{primitives.PlayerOne})
	if _, ok := store.DrawCard(primitives.PlayerOne, 1); ok {
		t.Fatalf("expected draw from empty library to fail")
	}
}

func TestStackPushPopOrder(t *testing.T) {
	store := NewStore([]primitives.PlayerName{primitives.PlayerOne})
	c1 := store.CreateCard(bear(), primitives.PlayerOne, primitives.ZoneHand, 1)
	c2 := store.CreateCard(bear(), primitives.PlayerOne, primitives.ZoneHand, 1)

	if err := store.PushStackCard(c1.ID, 1); err != nil {
		t.Fatal(err)
	}
	if err := store.PushStackCard(c2.ID, 1); err != nil {
		t.Fatal(err)
	}

	top, ok := store.PopStack()
	if !ok || top.Card != c2.ID {
		t.Fatalf("expected last-pushed card to resolve first, got %+v", top)
	}
}

func TestCheckInvariantsDetectsNothingOnFreshStore(t *testing.T) {
	store := NewStore([]primitives.PlayerName{primitives.PlayerOne})
	store.CreateCard(bear(), primitives.PlayerOne, primitives.ZoneHand, 1)
	store.CreateCard(bear(), primitives.PlayerOne, primitives.ZoneHand, 1)

	if err := store.CheckInvariants(); err != nil {
		t.Fatalf("unexpected invariant violation: %v", err)
	}
}
