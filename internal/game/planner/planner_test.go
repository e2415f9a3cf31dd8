package planner

import (
	"testing"

	"github.com/forgecore/cardsim/internal/game/mana"
	"github.com/forgecore/cardsim/internal/primitives"
)

func permanent(card primitives.CardId) primitives.PermanentId {
	return primitives.PermanentId{Object: primitives.ObjectId(card), Card: card}
}

func TestPlanPaysColoredPipFromSingleSource(t *testing.T) {
	cost := &mana.ManaCost{Red: 1}
	forest := LandSource{Permanent: permanent(1), Produces: mana.ManaRed, Subtypes: 1}

	plan, ok := Plan(cost, []LandSource{forest})
	if !ok {
		t.Fatal("expected a legal plan")
	}
	if len(plan.TapOrder) != 1 || plan.TapOrder[0] != forest.Permanent {
		t.Fatalf("expected the single red source to be tapped, got %v", plan.TapOrder)
	}
}

func TestPlanPrefersFewerSubtypesForColoredPip(t *testing.T) {
	mountain := LandSource{Permanent: permanent(1), Produces: mana.ManaRed, Subtypes: 1}
	dual := LandSource{Permanent: permanent(2), Produces: mana.ManaRed, Subtypes: 2}
	cost := &mana.ManaCost{Red: 1}

	plan, ok := Plan(cost, []LandSource{dual, mountain})
	if !ok {
		t.Fatal("expected a legal plan")
	}
	if plan.TapOrder[0] != mountain.Permanent {
		t.Fatalf("expected the single-subtype Mountain to be preferred over the dual, got %v", plan.TapOrder)
	}
}

func TestPlanPaysGenericFromMostPlentifulColorFirst(t *testing.T) {
	// Two Forests, one Mountain; a {1} cost should tap a Forest, preserving
	// the single Mountain for a later red pip elsewhere.
	forest1 := LandSource{Permanent: permanent(1), Produces: mana.ManaGreen}
	forest2 := LandSource{Permanent: permanent(2), Produces: mana.ManaGreen}
	mountain := LandSource{Permanent: permanent(3), Produces: mana.ManaRed}
	cost := &mana.ManaCost{Generic: 1}

	plan, ok := Plan(cost, []LandSource{forest1, forest2, mountain})
	if !ok {
		t.Fatal("expected a legal plan")
	}
	if len(plan.TapOrder) != 1 {
		t.Fatalf("expected exactly one land tapped, got %v", plan.TapOrder)
	}
	if plan.TapOrder[0] == mountain.Permanent {
		t.Fatalf("expected a Forest to be tapped for generic cost before the lone Mountain, got %v", plan.TapOrder)
	}
}

func TestPlanFailsWhenNoSourceForColor(t *testing.T) {
	cost := &mana.ManaCost{Blue: 1}
	forest := LandSource{Permanent: permanent(1), Produces: mana.ManaGreen}

	_, ok := Plan(cost, []LandSource{forest})
	if ok {
		t.Fatal("expected planning to fail with no blue source available")
	}
}
