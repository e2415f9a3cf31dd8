// Package planner implements the Spell Planner: given a spell's mana
// cost and the set of untapped lands a player controls, it greedily
// suggests which lands to tap to pay for it, so a caller (a human
// client's "auto-pay" button, or an AI search node that needs to try
// casting a spell without asking a human anything) doesn't have to work
// out a legal tapping order itself.
package planner

import (
	"sort"

	"github.com/forgecore/cardsim/internal/game/mana"
	"github.com/forgecore/cardsim/internal/primitives"
)

// coloredManaTypes is every colored (non-generic, non-hybrid) ManaType
// a land can tap for, in a fixed order so plan output is deterministic.
var coloredManaTypes = []mana.ManaType{
	mana.ManaWhite, mana.ManaBlue, mana.ManaBlack, mana.ManaRed, mana.ManaGreen, mana.ManaColorless,
}

// LandSource is one untapped permanent able to produce mana of one
// color, along with how many land subtypes it has (a dual land with
// two basic land types is a worse candidate to spend on a single
// colored pip than a land with only one, since the dual is more
// flexible for a later, harder-to-pay pip).
type LandSource struct {
	Permanent primitives.PermanentId
	Produces  mana.ManaType
	Subtypes  int
}

// TapPlan is the suggested order in which to tap lands to pay a cost.
type TapPlan struct {
	TapOrder []primitives.PermanentId
}

type candidate struct {
	permanent primitives.PermanentId
	subtypes  int
}

type buckets map[mana.ManaType][]candidate

func buildBuckets(sources []LandSource) buckets {
	b := make(buckets)
	for _, s := range sources {
		b[s.Produces] = append(b[s.Produces], candidate{permanent: s.Permanent, subtypes: s.Subtypes})
	}
	for t, cands := range b {
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].subtypes > cands[j].subtypes })
		b[t] = cands
	}
	return b
}

// pop removes and returns the lowest-subtype-count candidate remaining
// for manaType (buckets are sorted descending by subtype count, so the
// cheapest-to-spend land — the one with the fewest other uses — sits at
// the end of the slice).
func (b buckets) pop(manaType mana.ManaType) (primitives.PermanentId, bool) {
	cands := b[manaType]
	if len(cands) == 0 {
		return primitives.PermanentId{}, false
	}
	last := cands[len(cands)-1]
	b[manaType] = cands[:len(cands)-1]
	return last.permanent, true
}

func (b buckets) remaining(manaType mana.ManaType) int { return len(b[manaType]) }

func (b buckets) mostPlentiful() (mana.ManaType, bool) {
	var best mana.ManaType
	bestCount := 0
	found := false
	for _, t := range coloredManaTypes {
		if n := b.remaining(t); n > bestCount {
			best, bestCount, found = t, n, true
		}
	}
	return best, found
}

// coloredPipCounts extracts how many pips of each color cost needs,
// in a fixed, deterministic iteration order. Colorless is deliberately
// excluded here: it is paid alongside the generic portion below, from
// whichever color is most plentiful, since a land producing any one
// color can pay it.
func coloredPipCounts(cost *mana.ManaCost) []struct {
	Type  mana.ManaType
	Count int
} {
	return []struct {
		Type  mana.ManaType
		Count int
	}{
		{mana.ManaWhite, cost.White},
		{mana.ManaBlue, cost.Blue},
		{mana.ManaBlack, cost.Black},
		{mana.ManaRed, cost.Red},
		{mana.ManaGreen, cost.Green},
	}
}

// Plan computes a tap order for cost from the given untapped land
// sources. Colored pips are paid first, each from the bucket for its
// own color, popping the lowest-subtype-count candidate first. The
// generic portion of the cost (GetTotalGeneric, which folds in hybrid
// pips treated as generic, plus Colorless, which this planner treats as
// generic mana payable by any land rather than requiring a literal
// {C}-producing source) is then paid one mana at a time from whichever
// remaining color bucket currently has the most candidates, so a land
// of a scarce color isn't spent on generic cost while a more plentiful
// color sits unused. Plan returns false if there was no legal way to
// pay the full cost from the given sources. X costs must already be
// reflected in cost.Generic by the caller (the planner itself does not
// choose a value for X).
func Plan(cost *mana.ManaCost, sources []LandSource) (TapPlan, bool) {
	b := buildBuckets(sources)
	var tapOrder []primitives.PermanentId

	for _, pip := range coloredPipCounts(cost) {
		for i := 0; i < pip.Count; i++ {
			land, ok := b.pop(pip.Type)
			if !ok {
				return TapPlan{}, false
			}
			tapOrder = append(tapOrder, land)
		}
	}

	for i := 0; i < cost.GetTotalGeneric()+cost.Colorless; i++ {
		color, ok := b.mostPlentiful()
		if !ok {
			return TapPlan{}, false
		}
		land, _ := b.pop(color)
		tapOrder = append(tapOrder, land)
	}

	return TapPlan{TapOrder: tapOrder}, true
}
