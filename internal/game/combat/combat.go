// Package combat implements the Combat State Machine. Per the redesign
// in DESIGN.md, attacker and blocker declaration are tracked in a single
// State value carrying a SubPhase tag, instead of separate
// "proposing"/"confirmed" structures for each half of combat: there is
// one Group record per attacking creature, naming the defender it
// attacks, and the SubPhase tag says which legal operations apply to it
// right now.
package combat

import "github.com/forgecore/cardsim/internal/primitives"

// SubPhase identifies where combat currently stands.
type SubPhase int

const (
	SubPhaseBeginCombat SubPhase = iota
	SubPhaseDeclareAttackers
	SubPhaseDeclareBlockers
	SubPhaseFirstStrikeDamage
	SubPhaseCombatDamage
	SubPhaseEndCombat
)

// Defender is whatever a group of attackers is attacking: a player, or
// (once planeswalkers/battles exist) a permanent.
type Defender struct {
	Player        primitives.PlayerName
	Permanent     primitives.PermanentId
	IsPermanent   bool
	ControllerOf  primitives.PlayerName // the player defending this permanent/itself
}

// Group is one attacking creature or band of creatures, the defender it
// is attacking, and whichever creatures are blocking it.
type Group struct {
	Defender        Defender
	Attackers       []primitives.PermanentId
	Blockers        []primitives.PermanentId
	Blocked         bool
	AttackerOrder   map[primitives.PermanentId]int // damage assignment order, attacker side
	BlockerOrder    map[primitives.PermanentId]int // damage assignment order, blocker side (banding)
	DamageAssigned  map[primitives.PermanentId]int
}

func newGroup(defender Defender) *Group {
	return &Group{
		Defender:       defender,
		AttackerOrder:  make(map[primitives.PermanentId]int),
		BlockerOrder:   make(map[primitives.PermanentId]int),
		DamageAssigned: make(map[primitives.PermanentId]int),
	}
}

// State is the whole of combat for one turn: the active (attacking)
// player, every Group declared so far, and bookkeeping needed across
// sub-phases (which attackers were tapped by attacking, which creatures
// have already dealt first-strike damage).
type State struct {
	SubPhase          SubPhase
	AttackingPlayer    primitives.PlayerName
	Groups             []*Group
	PossibleDefenders  []Defender
	TappedByAttacking  map[primitives.PermanentId]bool
	DealtFirstStrike   map[primitives.PermanentId]bool
	RemovedFromCombat  map[primitives.PermanentId]bool
}

// New starts a fresh combat for attackingPlayer with the given candidate
// defenders (normally every opponent, plus their planeswalkers/battles).
func New(attackingPlayer primitives.PlayerName, defenders []Defender) *State {
	return &State{
		SubPhase:          SubPhaseBeginCombat,
		AttackingPlayer:   attackingPlayer,
		PossibleDefenders: defenders,
		TappedByAttacking: make(map[primitives.PermanentId]bool),
		DealtFirstStrike:  make(map[primitives.PermanentId]bool),
		RemovedFromCombat: make(map[primitives.PermanentId]bool),
	}
}

// groupFor returns the Group attacking d, creating one if this is the
// first attacker declared against it.
func (s *State) groupFor(d Defender) *Group {
	for _, g := range s.Groups {
		if g.Defender == d {
			return g
		}
	}
	g := newGroup(d)
	s.Groups = append(s.Groups, g)
	return g
}

// DeclareAttacker records attacker in a new Group of its own, attacking
// defender, so that its blockers and damage stay separate from every
// other attacker's. It is
// only legal during SubPhaseDeclareAttackers; callers are expected to
// have already run legality checks (summoning sickness, "can't attack",
// defender ability, "must attack") via the rules package before calling
// this — State itself only tracks the resulting structure, it does not
// decide legality.
func (s *State) DeclareAttacker(attacker primitives.PermanentId, defender Defender, tapped bool) {
	g := newGroup(defender)
	s.Groups = append(s.Groups, g)
	g.AttackerOrder[attacker] = len(g.Attackers)
	g.Attackers = append(g.Attackers, attacker)
	if tapped {
		s.TappedByAttacking[attacker] = true
	}
}

// DeclareBlocker adds blocker to the group attacker belongs to. Multiple
// blockers may be declared against the same attacker (gang-blocking);
// multiple attackers may be blocked by the same blocker only via
// abilities this package does not itself validate (menace-compatible
// double-blocking is a legality concern, not a structural one).
func (s *State) DeclareBlocker(blocker primitives.PermanentId, attacker primitives.PermanentId) bool {
	for _, g := range s.Groups {
		for _, a := range g.Attackers {
			if a == attacker {
				g.BlockerOrder[blocker] = len(g.Blockers)
				g.Blockers = append(g.Blockers, blocker)
				g.Blocked = true
				return true
			}
		}
	}
	return false
}

// GroupAttacking returns the Group containing attacker, if any.
func (s *State) GroupAttacking(attacker primitives.PermanentId) (*Group, bool) {
	for _, g := range s.Groups {
		for _, a := range g.Attackers {
			if a == attacker {
				return g, true
			}
		}
	}
	return nil, false
}

// IsAttacking reports whether id is attacking in any group.
func (s *State) IsAttacking(id primitives.PermanentId) bool {
	_, ok := s.GroupAttacking(id)
	return ok && !s.RemovedFromCombat[id]
}

// IsBlocking reports whether id is blocking in any group.
func (s *State) IsBlocking(id primitives.PermanentId) bool {
	for _, g := range s.Groups {
		for _, b := range g.Blockers {
			if b == id {
				return !s.RemovedFromCombat[id]
			}
		}
	}
	return false
}

// RemoveFromCombat removes a permanent from whichever group it belongs
// to (attacker or blocker side), e.g. because it left the battlefield or
// was removed by an effect. The creature's slot in its group's damage
// assignment order is preserved as a gap; it simply deals and takes no
// damage.
func (s *State) RemoveFromCombat(id primitives.PermanentId) {
	s.RemovedFromCombat[id] = true
	for _, g := range s.Groups {
		g.Attackers = removePermanent(g.Attackers, id)
		g.Blockers = removePermanent(g.Blockers, id)
	}
}

func removePermanent(ids []primitives.PermanentId, target primitives.PermanentId) []primitives.PermanentId {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// Advance moves the state machine to the next sub-phase. It performs no
// side effects (damage, triggers) itself; the action pipeline drives
// those as it advances the turn structure in step with this call.
func (s *State) Advance() SubPhase {
	if s.SubPhase < SubPhaseEndCombat {
		s.SubPhase++
	}
	return s.SubPhase
}

// HasFirstStrikeOrDoubleStrike is a hook for the damage-step decision of
// whether a first-strike damage step happens at all; callers supply
// whether any participant (attacker or blocker, either group) has first
// strike or double strike via hasFS.
func (s *State) HasFirstStrikeOrDoubleStrike(hasFS func(primitives.PermanentId) bool) bool {
	for _, g := range s.Groups {
		for _, a := range g.Attackers {
			if hasFS(a) {
				return true
			}
		}
		for _, b := range g.Blockers {
			if hasFS(b) {
				return true
			}
		}
	}
	return false
}
