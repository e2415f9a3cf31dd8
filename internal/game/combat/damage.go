package combat

import "github.com/forgecore/cardsim/internal/primitives"

// Combatant is the subset of permanent state the damage-assignment
// algorithm needs about one creature in combat.
type Combatant struct {
	Power            int
	Toughness        int
	DamageMarked     int
	HasDeathtouch    bool
	HasTrample       bool
	HasLifelink      bool
	HasFirstStrike   bool
	HasDoubleStrike  bool
}

// lethalDamage returns the amount of damage considered lethal to a
// creature with the given remaining toughness: 1 if the dealer has
// deathtouch and remaining is positive, otherwise whatever is needed to
// bring marked damage to toughness.
func lethalDamage(remainingToughness int, dealerHasDeathtouch bool) int {
	if remainingToughness <= 0 {
		return 0
	}
	if dealerHasDeathtouch {
		return 1
	}
	return remainingToughness
}

// AssignmentEntry is one (recipient, amount) pair in a damage
// assignment.
type AssignmentEntry struct {
	Recipient   primitives.PermanentId
	ToPermanent int // damage dealt to the permanent
	ToDefender  int // trample overflow / unblocked damage dealt to the defending player or planeswalker
}

// AssignAttackerDamage computes the default (non-custom) damage
// assignment for one attacker against its declared blockers, in
// blocker-order. Each blocker in order is assigned lethal damage (1 if
// the attacker has deathtouch) before any is assigned to the next;
// remaining power after all blockers are lethally assigned either
// tramples over to the defender (if the attacker has trample) or is
// discarded. An unblocked attacker deals all of its power to its
// defender. toughnessRemaining reports each blocker's current
// (toughness - damage already marked this combat), in blocker order.
func AssignAttackerDamage(attacker Combatant, blockers []primitives.PermanentId, toughnessRemaining func(primitives.PermanentId) int) []AssignmentEntry {
	power := attacker.Power
	if power <= 0 {
		return nil
	}
	if len(blockers) == 0 {
		return []AssignmentEntry{{ToDefender: power}}
	}

	var out []AssignmentEntry
	remaining := power
	for _, b := range blockers {
		if remaining <= 0 {
			break
		}
		need := lethalDamage(toughnessRemaining(b), attacker.HasDeathtouch)
		assign := need
		if assign > remaining {
			assign = remaining
		}
		out = append(out, AssignmentEntry{Recipient: b, ToPermanent: assign})
		remaining -= assign
	}
	if remaining > 0 && attacker.HasTrample {
		out = append(out, AssignmentEntry{ToDefender: remaining})
	}
	return out
}

// AssignBlockerDamage computes the default assignment for a single
// blocker's damage: blockers always assign their full power to the
// (single, in the non-banding case) attacker they are blocking.
func AssignBlockerDamage(blocker Combatant, attacker primitives.PermanentId) []AssignmentEntry {
	if blocker.Power <= 0 {
		return nil
	}
	return []AssignmentEntry{{Recipient: attacker, ToPermanent: blocker.Power}}
}

// DamageResult is the net effect of one damage step on one recipient:
// damage marked on a permanent, damage dealt to a player, and life
// gained by the source's controller if the source has lifelink.
type DamageResult struct {
	Recipient    primitives.PermanentId
	IsPlayer     bool
	Player       primitives.PlayerName
	Amount       int
	LifeGained   int
}

// ResolveAssignments turns a slice of AssignmentEntry (already computed
// by AssignAttackerDamage/AssignBlockerDamage) into DamageResults,
// crediting the source's controller with lifelink life gain equal to
// the total damage dealt, when the source has lifelink.
func ResolveAssignments(sourceController primitives.PlayerName, hasLifelink bool, defender Defender, entries []AssignmentEntry) []DamageResult {
	var out []DamageResult
	total := 0
	for _, e := range entries {
		if e.ToPermanent > 0 {
			out = append(out, DamageResult{Recipient: e.Recipient, Amount: e.ToPermanent})
			total += e.ToPermanent
		}
		if e.ToDefender > 0 {
			if defender.IsPermanent {
				out = append(out, DamageResult{Recipient: defender.Permanent, Amount: e.ToDefender})
			} else {
				out = append(out, DamageResult{IsPlayer: true, Player: defender.Player, Amount: e.ToDefender})
			}
			total += e.ToDefender
		}
	}
	if hasLifelink && total > 0 {
		out = append(out, DamageResult{IsPlayer: true, Player: sourceController, LifeGained: total})
	}
	return out
}
