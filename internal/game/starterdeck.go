package game

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/forgecore/cardsim/internal/game/abilityreg"
	"github.com/forgecore/cardsim/internal/game/effects"
	"github.com/forgecore/cardsim/internal/game/rules"
	"github.com/forgecore/cardsim/internal/primitives"
	"github.com/forgecore/cardsim/internal/printedcard"
	"github.com/forgecore/cardsim/internal/randsource"
)

// Printed ids for the fixed starter decks every match is seeded with.
// A real deployment would resolve these through internal/oracle against
// an imported card catalog instead; a match built by this package carries
// its own small, self-contained card pool so it never depends on that
// catalog being populated (see cmd/server's doc comment on oracle.NewTable).
const (
	forestID       primitives.PrintedCardId = "forest"
	islandID       primitives.PrintedCardId = "island"
	woodlandBearID primitives.PrintedCardId = "woodland-bear"
	warChiefID     primitives.PrintedCardId = "war-chief"
	scorchBoltID   primitives.PrintedCardId = "scorch-bolt"
	manaRelicID    primitives.PrintedCardId = "mana-relic"
)

func basicLand(id primitives.PrintedCardId, name string, subtype string) *printedcard.PrintedCard {
	return &printedcard.PrintedCard{
		ID: id,
		Faces: []printedcard.Face{{
			Name:       name,
			Supertypes: primitives.NewSupertypeSet(primitives.SupertypeBasic),
			CardTypes:  primitives.NewCardTypeSet(primitives.TypeLand),
			Subtypes:   printedcard.Subtypes{printedcard.SubtypeLand: {subtype}},
		}},
	}
}

func forest() *printedcard.PrintedCard { return basicLand(forestID, "Forest", "Forest") }
func island() *printedcard.PrintedCard { return basicLand(islandID, "Island", "Island") }

func woodlandBear() *printedcard.PrintedCard {
	return &printedcard.PrintedCard{
		ID: woodlandBearID,
		Faces: []printedcard.Face{{
			Name:      "Woodland Bear",
			CardTypes: primitives.NewCardTypeSet(primitives.TypeCreature),
			ManaCost: printedcard.ManaCost{
				{Kind: printedcard.SymbolGeneric, Generic: 1},
				{Kind: printedcard.SymbolColored, Color: primitives.ColorGreen},
			},
			Power:        2,
			HasPower:     true,
			Toughness:    2,
			HasToughness: true,
			Colors:       primitives.NewColorSet(primitives.ColorGreen),
		}},
	}
}

func warChief() *printedcard.PrintedCard {
	return &printedcard.PrintedCard{
		ID: warChiefID,
		Faces: []printedcard.Face{{
			Name:      "War Chief",
			CardTypes: primitives.NewCardTypeSet(primitives.TypeCreature),
			ManaCost: printedcard.ManaCost{
				{Kind: printedcard.SymbolGeneric, Generic: 1},
				{Kind: printedcard.SymbolColored, Color: primitives.ColorGreen},
			},
			OracleText:   "Other creatures you control get +1/+1.",
			Power:        2,
			HasPower:     true,
			Toughness:    2,
			HasToughness: true,
			Colors:       primitives.NewColorSet(primitives.ColorGreen),
		}},
	}
}

func scorchBolt() *printedcard.PrintedCard {
	return &printedcard.PrintedCard{
		ID: scorchBoltID,
		Faces: []printedcard.Face{{
			Name:      "Scorch Bolt",
			CardTypes: primitives.NewCardTypeSet(primitives.TypeInstant),
			ManaCost: printedcard.ManaCost{
				{Kind: printedcard.SymbolGeneric, Generic: 1},
				{Kind: printedcard.SymbolColored, Color: primitives.ColorRed},
			},
			OracleText: "Scorch Bolt deals 3 damage to target creature.",
			Colors:     primitives.NewColorSet(primitives.ColorRed),
		}},
	}
}

func manaRelic() *printedcard.PrintedCard {
	return &printedcard.PrintedCard{
		ID: manaRelicID,
		Faces: []printedcard.Face{{
			Name:      "Mana Relic",
			CardTypes: primitives.NewCardTypeSet(primitives.TypeArtifact),
			ManaCost: printedcard.ManaCost{
				{Kind: printedcard.SymbolGeneric, Generic: 2},
			},
			OracleText: "{T}: You gain 1 life.",
		}},
	}
}

// starterDeckList is the fixed 17-card library every seat starts a
// TwoPlayerDuel match with.
func starterDeckList() []primitives.PrintedCardId {
	var list []primitives.PrintedCardId
	for i := 0; i < 5; i++ {
		list = append(list, forestID)
	}
	for i := 0; i < 4; i++ {
		list = append(list, islandID)
	}
	for i := 0; i < 4; i++ {
		list = append(list, woodlandBearID)
	}
	list = append(list, warChiefID, warChiefID, scorchBoltID, manaRelicID)
	return list
}

// seedLibrary shuffles a fresh copy of starterDeckList into player's
// library, deterministically, using rng. The printed cards themselves are
// looked up from m.catalog rather than minted ad hoc, so every copy of
// "Forest" in the library shares the one PrintedCard record per
// internal/printedcard's sharing contract.
func (m *Match) seedLibrary(player primitives.PlayerName, rng *randsource.Source) {
	list := starterDeckList()
	rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	for _, id := range list {
		printed := m.catalog[id]
		m.store.CreateCard(printed, player, primitives.ZoneLibrary, 0)
	}
}

// seedRNGFor derives a deterministic shuffle seed for one seat from the
// match id, so replaying the same gameID against the same action log
// always produces the same opening library order (spec's replay
// determinism requirement, exercised directly in
// internal/integration/spec_scenarios_test.go's TestPromptReplayDeterminism
// for the prompt layer, and here for deck shuffling).
func seedRNGFor(gameID string, player primitives.PlayerName) *randsource.Source {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d", gameID, player)
	return randsource.NewFromUint64(h.Sum64())
}

// buildCatalog returns every printed card this package knows how to
// field, keyed by id, for a Match's self-contained card pool.
func buildCatalog() map[primitives.PrintedCardId]*printedcard.PrintedCard {
	cards := []*printedcard.PrintedCard{
		forest(), island(), woodlandBear(), warChief(), scorchBolt(), manaRelic(),
	}
	out := make(map[primitives.PrintedCardId]*printedcard.PrintedCard, len(cards))
	for _, c := range cards {
		out[c.ID] = c
	}
	return out
}

// registerStarterAbilities wires every non-vanilla starter card's
// behavior into m's ability registry. It is called once per Match, in
// begin(), after m's fields are all initialized, since several of these
// closures read back from m (controller lookups, life totals) at
// resolution time.
func registerStarterAbilities(m *Match) {
	m.abilities.Register(&abilityreg.Definition{
		Card:    warChiefID,
		Statics: []abilityreg.StaticAbility{warChiefAnthem(m)},
	})
	m.abilities.Register(&abilityreg.Definition{
		Card: scorchBoltID,
		Spell: &abilityreg.SpellAbility{
			Resolve: scorchBoltResolve(m),
		},
	})
	m.abilities.Register(&abilityreg.Definition{
		Card:      manaRelicID,
		Activated: []abilityreg.ActivatedAbility{manaRelicTapForLife(m)},
	})
}

// warChiefAnthem grants every other creature its controller controls
// +1/+1 for as long as the War Chief remains on the battlefield,
// installed as a pair of broadcast (unscoped) Modifiers the effects
// Registry folds into power/toughness queries the same way a Set/Add
// modifier from any other source would be.
func warChiefAnthem(m *Match) abilityreg.StaticAbility {
	return abilityreg.StaticAbility{
		Install: func(reg *effects.Registry, source primitives.AbilityId, card primitives.CardId) {
			controller := m.controllerOf(card)
			appliesTo := func(candidate primitives.CardId) bool {
				if candidate == card {
					return false
				}
				inst, ok := m.store.Card(candidate)
				if !ok || inst.Zone != primitives.ZoneBattlefield {
					return false
				}
				if !inst.Printed.Face0().HasCardType(primitives.TypeCreature) {
					return false
				}
				return inst.Controller == controller
			}
			ts := m.nextTimestamp()
			for _, property := range []string{"power", "toughness"} {
				reg.Add(&effects.Modifier{
					Scoped:    false,
					AppliesTo: appliesTo,
					Property:  property,
					Key:       effects.Key{Layer: effects.LayerPowerToughness, Timestamp: ts},
					Source:    effects.AbilitySource(source),
					Duration:  effects.DurationContinuous,
					Delegate:  effects.DelegateAbility,
					Payload:   effects.AddPayload{Delta: 1},
				})
			}
		},
		Remove: func(reg *effects.Registry, source primitives.AbilityId) {
			reg.RemoveBySourceAbility(source)
		},
	}
}

// scorchBoltResolve deals 3 damage to the spell's sole target permanent.
func scorchBoltResolve(m *Match) func(ctx context.Context, source primitives.CardId, controller primitives.PlayerName, targets []primitives.PermanentId) error {
	return func(ctx context.Context, source primitives.CardId, controller primitives.PlayerName, targets []primitives.PermanentId) error {
		if len(targets) == 0 {
			return fmt.Errorf("scorch bolt: no target chosen")
		}
		return m.dealDamageToPermanent(targets[0], 3, source)
	}
}

// manaRelicTapForLife is Mana Relic's only activated ability: tap,
// gain 1 life. Tapping the card is enforced by the engine's activated
// ability legality check, not by a Cost field on ActivatedAbility (see
// DESIGN.md on abilityreg's cost-free activated abilities).
func manaRelicTapForLife(m *Match) abilityreg.ActivatedAbility {
	return abilityreg.ActivatedAbility{
		UsesStack: false,
		Resolve: func(ctx context.Context, source primitives.CardId, controller primitives.PlayerName, targets []primitives.PermanentId) error {
			m.life[controller]++
			m.events.Publish(rules.NewEventWithAmount(rules.EventGainLife, source, source, controller, 1))
			return nil
		},
	}
}

// isLand reports whether a printed card's primary face is a land.
func isLand(pc *printedcard.PrintedCard) bool {
	return pc.Face0().HasCardType(primitives.TypeLand)
}

// basicLandManaType returns the ManaType a basic land (or dual) can
// produce, used by landSourcesFor to build planner.LandSource values.
func basicLandManaType(pc *printedcard.PrintedCard) (mt string, ok bool) {
	switch pc.ID {
	case forestID:
		return "GREEN", true
	case islandID:
		return "BLUE", true
	default:
		return "", false
	}
}
