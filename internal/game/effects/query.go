// Package effects implements the layered continuous-effects engine:
// properties of cards and of the game are computed by folding registered
// modifiers, in (layer, timestamp) order, over a base value. Nothing here
// mutates a CardInstance directly; callers ask for the current value of a
// property and get back a freshly-folded result every time, which is what
// lets "until end of turn" effects come and go without the engine having
// to track which stored field each one touched.
package effects

// QueryFlag folds a boolean property. And/Or accumulate independently;
// Overwrite replaces the running result outright. The final value is
// (result OR orAccumulator) AND andAccumulator. An And(false) contributed
// by a DelegateAbility modifier locks the flag: every modifier after it in
// sort order is ignored for the rest of this query (the "can't beats can"
// rule — restrictions from a card's own printed ability can't be
// re-permitted by a later, lower-priority source).
func QueryFlag(base bool, mods []*Modifier) bool {
	result := base
	haveKey := false
	var largest Key
	andAcc := true
	orAcc := false

	for _, m := range mods {
		switch p := m.Payload.(type) {
		case OverwritePayload:
			if !haveKey || largest.Less(m.Key) || largest == m.Key {
				result = p.Value
				largest = m.Key
				haveKey = true
			}
		case AndPayload:
			andAcc = andAcc && p.Value
			if !p.Value && m.Delegate == DelegateAbility {
				return (result || orAcc) && andAcc
			}
		case OrPayload:
			orAcc = orAcc || p.Value
		}
	}
	return (result || orAcc) && andAcc
}

// QueryNumeric folds a numeric property. Set overwrites the running
// result (subject to sort-key ordering); Add accumulates independently.
// The final value is result + addAccumulator.
func QueryNumeric(base int, mods []*Modifier) int {
	result := base
	haveKey := false
	var largest Key
	addAcc := 0

	for _, m := range mods {
		switch p := m.Payload.(type) {
		case SetPayload:
			if v, ok := p.Value.(int); ok && (!haveKey || largest.Less(m.Key) || largest == m.Key) {
				result = v
				largest = m.Key
				haveKey = true
			}
		case AddPayload:
			addAcc += p.Delta
		}
	}
	return result + addAcc
}

// QueryValue folds an arbitrary comparable-typed property (card types,
// colors, subtypes, the controller enum, ...). Set overwrites outright;
// Replace swaps Old for New only if the value folded so far equals Old.
func QueryValue[T comparable](base T, mods []*Modifier) T {
	result := base
	haveKey := false
	var largest Key

	for _, m := range mods {
		switch p := m.Payload.(type) {
		case SetPayload:
			if v, ok := p.Value.(T); ok && (!haveKey || largest.Less(m.Key) || largest == m.Key) {
				result = v
				largest = m.Key
				haveKey = true
			}
		case ReplacePayload:
			if old, ok := p.Old.(T); ok && result == old {
				if nv, ok2 := p.New.(T); ok2 && (!haveKey || largest.Less(m.Key) || largest == m.Key) {
					result = nv
					largest = m.Key
					haveKey = true
				}
			}
		}
	}
	return result
}
