// Package core defines the interfaces the AI Search Harness's selection
// algorithms (alpha-beta, iterative deepening, Monte Carlo tree search)
// are written against, so any one of them can drive any game that
// implements GameStateNode. This tree has no prior AI code at all; it
// is grounded on original_source's Rust AI crate
// (ai/src/core/{game_state_node,selection_algorithm,state_evaluator}.rs),
// re-expressed in idiomatic Go: explicit context.Context
// deadlines instead of std::time::Instant, and a Clone-by-copy node
// contract expressed as a MakeCopy method instead of Rust's derive.
package core

import "context"

// Status is the outcome of GameStateNode.Status: either the game is
// still in progress and it is some player's turn, or it has ended.
type Status[P comparable] struct {
	InProgress  bool
	CurrentTurn P
	Completed   bool
}

// GameStateNode is one position in the game tree a search algorithm can
// explore. Implementations must make MakeCopy a deep-enough copy that
// mutating the copy via ExecuteAction never affects the original — the
// search algorithms in this tree rely on this to explore siblings
// independently. A and P are the action and player-name types the game
// uses (e.g. action.Action and primitives.PlayerName).
type GameStateNode[N any, A any, P comparable] interface {
	// Status reports whose turn it is, or that the game has ended.
	Status() Status[P]
	// LegalActions enumerates every action the given player may legally
	// take from this position.
	LegalActions(player P) []A
	// MakeCopy returns an independent copy of this node.
	MakeCopy() N
	// ExecuteAction applies action as taken by player, mutating the
	// receiver in place.
	ExecuteAction(player P, action A)
}

// StateEvaluator scores a GameStateNode from the perspective of
// forPlayer: higher is better for forPlayer, regardless of whose turn
// it actually is in the node.
type StateEvaluator[N any, P comparable] interface {
	Evaluate(node N, forPlayer P) int
}

// EvaluatorFunc adapts a plain function to StateEvaluator.
type EvaluatorFunc[N any, P comparable] func(node N, forPlayer P) int

func (f EvaluatorFunc[N, P]) Evaluate(node N, forPlayer P) int { return f(node, forPlayer) }

// SelectionAlgorithm picks the best action available to player at node,
// using evaluator to score terminal/depth-limited positions, and
// respecting ctx's deadline. Implementations panic if node is not
// InProgress, per the same precondition the original Rust
// implementation asserts.
type SelectionAlgorithm[N GameStateNode[N, A, P], A any, P comparable] interface {
	PickAction(ctx context.Context, node N, evaluator StateEvaluator[N, P], player P) A
}
