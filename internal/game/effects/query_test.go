package effects

import (
	"testing"

	"github.com/forgecore/cardsim/internal/primitives"
)

func TestQueryNumericAppliesSetThenAddInOrder(t *testing.T) {
	mods := []*Modifier{
		{Property: "power", Key: Key{Layer: LayerPowerToughness, Timestamp: 1}, Payload: SetPayload{Value: 4}},
		{Property: "power", Key: Key{Layer: LayerPowerToughness, Timestamp: 2}, Payload: AddPayload{Delta: 2}},
	}
	if got := QueryNumeric(2, mods); got != 6 {
		t.Fatalf("expected 4 (set) + 2 (add) = 6, got %d", got)
	}
}

func TestQueryNumericLaterSetWins(t *testing.T) {
	mods := []*Modifier{
		{Property: "power", Key: Key{Layer: LayerPowerToughness, Timestamp: 1}, Payload: SetPayload{Value: 4}},
		{Property: "power", Key: Key{Layer: LayerPowerToughness, Timestamp: 2}, Payload: SetPayload{Value: 7}},
	}
	if got := QueryNumeric(0, mods); got != 7 {
		t.Fatalf("expected the higher-timestamp Set to win, got %d", got)
	}
}

func TestQueryFlagCantBeatsCanFromAbilitySource(t *testing.T) {
	mods := []*Modifier{
		{Property: "canAttack", Key: Key{Layer: LayerRules, Timestamp: 1}, Delegate: DelegateAbility, Payload: AndPayload{Value: false}},
		{Property: "canAttack", Key: Key{Layer: LayerRules, Timestamp: 2}, Payload: OrPayload{Value: true}},
	}
	if QueryFlag(true, mods) {
		t.Fatalf("expected an Ability-sourced And(false) to lock the flag despite a later Or(true)")
	}
}

func TestQueryFlagAndFalseFromEffectSourceStillRestricts(t *testing.T) {
	mods := []*Modifier{
		{Property: "canAttack", Key: Key{Layer: LayerRules, Timestamp: 1}, Delegate: DelegateEffect, Payload: AndPayload{Value: false}},
		{Property: "canAttack", Key: Key{Layer: LayerRules, Timestamp: 2}, Payload: OrPayload{Value: true}},
	}
	if QueryFlag(true, mods) {
		t.Fatalf("expected an Effect-sourced And(false) to keep the flag false despite a later Or(true)")
	}
}

func TestQueryValueReplaceOnlyAppliesWhenCurrentMatchesOld(t *testing.T) {
	mods := []*Modifier{
		{Property: "name", Key: Key{Layer: LayerText, Timestamp: 1}, Payload: ReplacePayload{Old: "Forest", New: "Island"}},
	}
	if got := QueryValue("Forest", mods); got != "Island" {
		t.Fatalf("expected Replace to swap matching value, got %q", got)
	}
	if got := QueryValue("Mountain", mods); got != "Mountain" {
		t.Fatalf("expected Replace to skip non-matching value, got %q", got)
	}
}

func TestRegistryModifiersForMergesCardAndBroadcast(t *testing.T) {
	reg := NewRegistry()
	var targetCard primitives.CardId = 7
	reg.Add(&Modifier{CardID: targetCard, Scoped: true, Property: "power", Key: Key{Layer: LayerPowerToughness, Timestamp: 1}, Payload: SetPayload{Value: 4}})
	reg.Add(&Modifier{Property: "power", Key: Key{Layer: LayerPowerToughness, Timestamp: 2}, Payload: AddPayload{Delta: 1},
		AppliesTo: func(candidate primitives.CardId) bool { return candidate == targetCard }})

	mods := reg.ModifiersFor(targetCard, "power", nil)
	if len(mods) != 2 {
		t.Fatalf("expected 2 merged modifiers, got %d", len(mods))
	}
	if got := QueryNumeric(2, mods); got != 5 {
		t.Fatalf("expected 4 (set) + 1 (add) = 5, got %d", got)
	}
}

func TestRegistryRemoveByDurationClearsThisTurnEffects(t *testing.T) {
	reg := NewRegistry()
	var card primitives.CardId = 1
	id := reg.Add(&Modifier{CardID: card, Scoped: true, Duration: DurationThisTurn, Property: "power", Key: Key{Layer: LayerPowerToughness, Timestamp: 1}, Payload: AddPayload{Delta: 3}})
	if id == 0 {
		t.Fatal("expected a non-zero modifier id")
	}

	reg.RemoveByDuration(DurationThisTurn)
	if mods := reg.ModifiersFor(card, "power", nil); len(mods) != 0 {
		t.Fatalf("expected ThisTurn modifier to be cleared, found %d", len(mods))
	}
}
