// Package aitesting provides small, perfectly-solvable game fixtures
// for exercising SelectionAlgorithm implementations without needing a
// full card game position. Grounded on original_source's
// ai/src/nim/nim_game.rs, which the original AI crate's own test suite
// (ai/src/testing/run_matchup.rs) uses the same way: Nim's winning
// condition is the bitwise XOR of the pile sizes being zero, so a
// perfect player's move is mechanically checkable, making it the
// standard fixture for asserting a search algorithm actually finds the
// optimal move rather than just "some legal move".
package aitesting

import (
	"fmt"

	"github.com/forgecore/cardsim/internal/ai/core"
)

// NimPlayer is one of the two players of a game of Nim.
type NimPlayer int

const (
	NimPlayerOne NimPlayer = iota
	NimPlayerTwo
)

func (p NimPlayer) Other() NimPlayer {
	if p == NimPlayerOne {
		return NimPlayerTwo
	}
	return NimPlayerOne
}

// NimAction removes Amount counters from Pile.
type NimAction struct {
	Pile   int
	Amount int
}

// NimState is three piles of counters; on each turn the player to move
// removes any positive number of counters from exactly one pile, and
// the player forced to move with all piles empty loses (misère rules
// are not implemented — the player who takes the last counter wins,
// matching the original fixture).
type NimState struct {
	Piles [3]int
	Turn  NimPlayer
}

// NewNimState builds a state with all three piles the same size.
func NewNimState(pileSize int) *NimState {
	return &NimState{Piles: [3]int{pileSize, pileSize, pileSize}, Turn: NimPlayerOne}
}

// NewNimStateWithPiles builds a state with three independently-sized piles.
func NewNimStateWithPiles(a, b, c int) *NimState {
	return &NimState{Piles: [3]int{a, b, c}, Turn: NimPlayerOne}
}

func (s *NimState) String() string {
	return fmt.Sprintf("Piles: A[%d] B[%d] C[%d]", s.Piles[0], s.Piles[1], s.Piles[2])
}

// NimSum is the bitwise XOR of the three pile sizes. A position with
// NimSum == 0 is a loss for the player to move under perfect play.
func NimSum(s *NimState) int {
	return s.Piles[0] ^ s.Piles[1] ^ s.Piles[2]
}

func (s *NimState) Status() core.Status[NimPlayer] {
	if s.Piles[0] == 0 && s.Piles[1] == 0 && s.Piles[2] == 0 {
		return core.Status[NimPlayer]{Completed: true}
	}
	return core.Status[NimPlayer]{InProgress: true, CurrentTurn: s.Turn}
}

// Winners implements matchup.Node: under normal play, the player forced
// to move with every pile empty has lost, so the winner is whoever is
// NOT on the move once the game reaches that state.
func (s *NimState) Winners() []NimPlayer {
	if s.Piles[0] != 0 || s.Piles[1] != 0 || s.Piles[2] != 0 {
		return nil
	}
	return []NimPlayer{s.Turn.Other()}
}

func (s *NimState) LegalActions(player NimPlayer) []NimAction {
	var out []NimAction
	for pile := 0; pile < 3; pile++ {
		for amount := 1; amount <= s.Piles[pile]; amount++ {
			out = append(out, NimAction{Pile: pile, Amount: amount})
		}
	}
	return out
}

func (s *NimState) MakeCopy() *NimState {
	copy := *s
	return &copy
}

func (s *NimState) ExecuteAction(player NimPlayer, action NimAction) {
	s.Piles[action.Pile] -= action.Amount
	s.Turn = player.Other()
}

// PerfectEvaluator scores a position +1 if it is a win for forPlayer
// under perfect play and -1 otherwise, mirroring the original's
// NimPerfectEvaluator: the nim-sum test is a closed-form solution, so
// this evaluator is "perfect" in a way a real card game's heuristic
// evaluator never can be, which is exactly why Nim is useful as a
// search-algorithm correctness fixture rather than a strength one.
type PerfectEvaluator struct{}

func (PerfectEvaluator) Evaluate(state *NimState, forPlayer NimPlayer) int {
	sum := NimSum(state)
	turnWins := sum != 0
	if forPlayer == state.Turn {
		if turnWins {
			return 1
		}
		return -1
	}
	if turnWins {
		return -1
	}
	return 1
}
