// Package iterativedeepening wraps alphabeta.Algorithm to search at
// increasing fixed depths until ctx's deadline is reached, returning
// the best action found by the last depth that completed in full. This
// is the standard complement to a fixed-depth fail-soft alpha-beta
// search (see internal/ai/alphabeta): deepening doesn't speed up any
// single search, it lets a caller give the algorithm "however much time
// you have" instead of committing to one depth that might blow the
// deadline on a slow position or leave time unused on a fast one.
package iterativedeepening

import (
	"context"

	"go.uber.org/zap"

	"github.com/forgecore/cardsim/internal/ai/alphabeta"
	"github.com/forgecore/cardsim/internal/ai/core"
)

// Algorithm runs alphabeta.Algorithm at depth 1, 2, 3, ... until ctx is
// done, then returns the action chosen by the deepest search that ran
// to completion.
type Algorithm[N core.GameStateNode[N, A, P], A any, P comparable] struct {
	MaxDepth int // 0 means unbounded (search until the deadline alone stops it)
	Logger   *zap.Logger
}

func (alg *Algorithm[N, A, P]) PickAction(ctx context.Context, node N, evaluator core.StateEvaluator[N, P], player P) A {
	st := node.Status()
	if !st.InProgress {
		panic("iterativedeepening: PickAction called on a completed game")
	}

	var best A
	haveBest := false

	for depth := 1; alg.MaxDepth == 0 || depth <= alg.MaxDepth; depth++ {
		if ctx.Err() != nil {
			break
		}
		action, ok := alg.searchAtDepth(ctx, node, evaluator, player, depth)
		if !ok {
			break
		}
		best, haveBest = action, true
		if alg.Logger != nil {
			alg.Logger.Debug("iterative deepening completed depth", zap.Int("depth", depth))
		}
	}

	if !haveBest {
		panic("iterativedeepening: deadline exceeded before depth 1 completed")
	}
	return best
}

// searchAtDepth runs one fixed-depth alpha-beta search, reporting ok =
// false if it did not complete (the deadline fired mid-search and
// alphabeta.Algorithm panicked as a result — recovered here so the
// caller can fall back to the previous, already-completed depth instead
// of losing every result gathered so far).
func (alg *Algorithm[N, A, P]) searchAtDepth(ctx context.Context, node N, evaluator core.StateEvaluator[N, P], player P, depth int) (action A, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	inner := &alphabeta.Algorithm[N, A, P]{SearchDepth: depth, Logger: alg.Logger}
	return inner.PickAction(ctx, node, evaluator, player), true
}
