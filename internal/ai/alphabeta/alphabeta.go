// Package alphabeta implements fail-soft alpha-beta pruning over
// minimax tree search, grounded directly on original_source's
// ai/src/tree_search/alpha_beta.rs — this tree has no prior AI code;
// this whole subtree is ported from the original Rust implementation
// in idiomatic Go.
//
// This is the 'fail soft' variant: a returned score may lie outside the
// search's error-cause window for the node's actual value when a cutoff
// happens deep in the tree, which loses nothing in practice and avoids
// the extra re-search the 'fail hard' variant needs at the root.
// https://en.wikipedia.org/wiki/Alpha-beta_pruning
package alphabeta

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/forgecore/cardsim/internal/ai/core"
)

// Algorithm runs fixed-depth fail-soft alpha-beta search.
type Algorithm[N core.GameStateNode[N, A, P], A any, P comparable] struct {
	SearchDepth int
	Logger      *zap.Logger
}

// scoredAction pairs the best action found so far with its score; it
// mirrors the original's ScoredAction, which tracks "no action yet" for
// leaf/terminal nodes that have no actions of their own to report.
type scoredAction[A any] struct {
	action  A
	score   int
	hasAction bool
}

func (s *scoredAction[A]) insertMax(a A, score int) {
	if !s.hasAction || score > s.score {
		s.action, s.score, s.hasAction = a, score, true
	}
}

func (s *scoredAction[A]) insertMin(a A, score int) {
	if !s.hasAction || score < s.score {
		s.action, s.score, s.hasAction = a, score, true
	}
}

// PickAction returns the best action available to player at node. It
// panics if node's game has already ended, matching the precondition
// the original Rust code asserts before searching (a terminal node has
// no action to pick).
func (alg *Algorithm[N, A, P]) PickAction(ctx context.Context, node N, evaluator core.StateEvaluator[N, P], player P) A {
	st := node.Status()
	if !st.InProgress {
		panic("alphabeta: PickAction called on a completed game")
	}
	result, ok := runInternal(ctx, node, evaluator, alg.SearchDepth, player, math.MinInt32, math.MaxInt32, true, alg.Logger)
	if !ok {
		panic("alphabeta: deadline exceeded before any action was scored")
	}
	return result.action
}

// deadlineExceeded mirrors the original's "depth > 1 && deadline <
// Instant::now()": the deadline is only checked once the search is more
// than one ply from a leaf, so the cheapest, most numerous nodes near
// the bottom of the tree never pay for a clock read.
func deadlineExceeded(ctx context.Context, depth int) bool {
	if depth <= 1 {
		return false
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return false
	}
	return time.Now().After(deadline)
}

func runInternal[N core.GameStateNode[N, A, P], A any, P comparable](
	ctx context.Context,
	node N,
	evaluator core.StateEvaluator[N, P],
	depth int,
	player P,
	alpha, beta int,
	topLevel bool,
	logger *zap.Logger,
) (scoredAction[A], bool) {
	st := node.Status()

	if depth == 0 || st.Completed {
		return scoredAction[A]{score: evaluator.Evaluate(node, player)}, true
	}

	currentTurn := st.CurrentTurn
	maximizing := currentTurn == player

	result := scoredAction[A]{}
	if maximizing {
		result.score = math.MinInt32
	} else {
		result.score = math.MaxInt32
	}

	for _, action := range node.LegalActions(currentTurn) {
		if deadlineExceeded(ctx, depth) {
			return scoredAction[A]{}, false
		}
		child := node.MakeCopy()
		child.ExecuteAction(currentTurn, action)

		childResult, ok := runInternal(ctx, child, evaluator, depth-1, player, alpha, beta, false, logger)
		if !ok {
			return scoredAction[A]{}, false
		}
		score := childResult.score

		if maximizing {
			if score > alpha {
				alpha = score
			}
			result.insertMax(action, score)
			if score >= beta {
				break
			}
		} else {
			if topLevel && logger != nil {
				logger.Debug("alphabeta candidate", zap.Int("score", score))
			}
			if score < beta {
				beta = score
			}
			result.insertMin(action, score)
			if score <= alpha {
				break
			}
		}
	}
	return result, true
}
