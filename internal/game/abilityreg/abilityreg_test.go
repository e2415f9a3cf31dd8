package abilityreg

import (
	"testing"

	"github.com/forgecore/cardsim/internal/game/effects"
	"github.com/forgecore/cardsim/internal/primitives"
)

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	def := &Definition{Card: "grizzly-bears"}
	r.Register(def)

	got, ok := r.Lookup("grizzly-bears")
	if !ok || got != def {
		t.Fatalf("expected to look up the registered definition")
	}

	_, ok = r.Lookup("unknown-card")
	if ok {
		t.Fatal("expected lookup of an unregistered card to fail")
	}
}

func TestInstallAndRemoveStatics(t *testing.T) {
	reg := effects.NewRegistry()
	var installed, removed bool
	def := &Definition{
		Card: "glorious-anthem",
		Statics: []StaticAbility{{
			Install: func(r *effects.Registry, source primitives.AbilityId, card primitives.CardId) {
				installed = true
				m := modifierForTest(source)
				r.Add(&m)
			},
			Remove: func(r *effects.Registry, source primitives.AbilityId) {
				removed = true
				r.RemoveBySourceAbility(source)
			},
		}},
	}

	source := primitives.AbilityId{Card: 1, Index: 0}
	def.InstallStatics(reg, source, 1)
	if !installed {
		t.Fatal("expected Install to run")
	}
	if mods := reg.ModifiersFor(2, "power", nil); len(mods) != 1 {
		t.Fatalf("expected the broadcast modifier to apply, got %d", len(mods))
	}

	def.RemoveStatics(reg, source)
	if !removed {
		t.Fatal("expected Remove to run")
	}
	if mods := reg.ModifiersFor(2, "power", nil); len(mods) != 0 {
		t.Fatalf("expected the modifier to be retracted, got %d", len(mods))
	}
}

// modifierForTest builds a broadcast +1/+1 power modifier from source,
// standing in for a real anthem-effect static ability.
func modifierForTest(source primitives.AbilityId) effects.Modifier {
	return effects.Modifier{
		Property:  "power",
		Key:       effects.Key{Layer: effects.LayerPowerToughness, Timestamp: 1},
		Source:    effects.AbilitySource(source),
		Delegate:  effects.DelegateAbility,
		Payload:   effects.AddPayload{Delta: 1},
		AppliesTo: func(primitives.CardId) bool { return true },
	}
}
