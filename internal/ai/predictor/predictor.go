// Package predictor supplies the imperfect-information extension point
// of the AI Search Harness: turning one observed position (which may
// hide information from the searching player, e.g. an opponent's hand)
// into one or more concrete search roots.
//
// Grounded on the omniscient/predictive distinction described for the
// original Rust AI crate's agent configuration (original_source's
// ai/src/core/agent.rs builds a single concrete GameState to search
// from; nothing in the original pack implements true hidden-information
// determinization, so the StatePredictor/StateCombiner split here is
// this module's own generalization of that single-state entry point to
// the cases this harness needs to cover: a state-predictor proposes
// candidate "worlds" consistent with what the agent has observed, and a
// state-combiner reduces those candidates back to the one root a
// SelectionAlgorithm actually searches).
package predictor

import (
	"math"

	"github.com/forgecore/cardsim/internal/ai/core"
)

// StatePredictor proposes concrete states consistent with what the
// observing player has actually seen. Observed may itself already be
// missing information (e.g. opponent's hand contents replaced with
// face-down placeholders); implementations are responsible for filling
// in the gaps.
type StatePredictor[N any] interface {
	Predict(observed N) []N
}

// OmniscientPredictor returns the observed state unchanged: used when
// the search has full information (e.g. self-play training, or
// evaluating a position where both hands are already known), matching
// the degenerate predictor that simply returns the true state.
type OmniscientPredictor[N any] struct{}

func (OmniscientPredictor[N]) Predict(observed N) []N {
	return []N{observed}
}

// StateCombiner reduces a set of candidate worlds down to the single
// node a SelectionAlgorithm will actually search from.
type StateCombiner[N any, P comparable] interface {
	Combine(candidates []N, evaluator core.StateEvaluator[N, P], forPlayer P) N
}

// FirstCandidateCombiner always picks the first candidate returned by
// the predictor; useful paired with OmniscientPredictor, where there is
// only ever exactly one candidate to pick.
type FirstCandidateCombiner[N any, P comparable] struct{}

func (FirstCandidateCombiner[N, P]) Combine(candidates []N, evaluator core.StateEvaluator[N, P], forPlayer P) N {
	if len(candidates) == 0 {
		panic("predictor: Combine called with no candidates")
	}
	return candidates[0]
}

// WorstCaseCombiner picks the candidate that scores lowest for
// forPlayer, i.e. plans against the most pessimistic resolution of the
// hidden information.
type WorstCaseCombiner[N any, P comparable] struct{}

func (WorstCaseCombiner[N, P]) Combine(candidates []N, evaluator core.StateEvaluator[N, P], forPlayer P) N {
	if len(candidates) == 0 {
		panic("predictor: Combine called with no candidates")
	}
	best := candidates[0]
	bestScore := evaluator.Evaluate(best, forPlayer)
	for _, c := range candidates[1:] {
		if score := evaluator.Evaluate(c, forPlayer); score < bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// ExpectedValueCombiner treats every candidate as equally likely and
// picks the one whose own evaluated score is closest to the mean score
// across all candidates — a single concrete node has to be chosen as
// the search root, so "expected value" here means the candidate that
// best represents the average outcome rather than a synthetic blend of
// several different game states.
type ExpectedValueCombiner[N any, P comparable] struct{}

func (ExpectedValueCombiner[N, P]) Combine(candidates []N, evaluator core.StateEvaluator[N, P], forPlayer P) N {
	if len(candidates) == 0 {
		panic("predictor: Combine called with no candidates")
	}
	scores := make([]int, len(candidates))
	sum := 0
	for i, c := range candidates {
		scores[i] = evaluator.Evaluate(c, forPlayer)
		sum += scores[i]
	}
	mean := float64(sum) / float64(len(candidates))

	best := candidates[0]
	bestDelta := math.Abs(float64(scores[0]) - mean)
	for i := 1; i < len(candidates); i++ {
		if delta := math.Abs(float64(scores[i]) - mean); delta < bestDelta {
			best, bestDelta = candidates[i], delta
		}
	}
	return best
}
