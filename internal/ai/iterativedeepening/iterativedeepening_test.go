package iterativedeepening

import (
	"context"
	"testing"
	"time"

	"github.com/forgecore/cardsim/internal/ai/aitesting"
)

func TestIterativeDeepeningFindsPerfectNimMoveWithinMaxDepth(t *testing.T) {
	state := aitesting.NewNimStateWithPiles(2, 4, 5)
	alg := &Algorithm[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer]{MaxDepth: 6}

	action := alg.PickAction(context.Background(), state, aitesting.PerfectEvaluator{}, aitesting.NimPlayerOne)

	next := state.MakeCopy()
	next.ExecuteAction(aitesting.NimPlayerOne, action)
	if aitesting.NimSum(next) != 0 {
		t.Fatalf("expected the optimal move to leave a nim-sum of 0, got %d (piles %v)", aitesting.NimSum(next), next.Piles)
	}
}

func TestIterativeDeepeningStopsAtDeadlineAndKeepsBestSoFar(t *testing.T) {
	state := aitesting.NewNimStateWithPiles(1, 4, 5)
	alg := &Algorithm[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer]{}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	action := alg.PickAction(ctx, state, aitesting.PerfectEvaluator{}, aitesting.NimPlayerOne)
	if action.Amount <= 0 {
		t.Fatalf("expected a usable action even after the deadline cut deepening short, got %+v", action)
	}
}

func TestIterativeDeepeningPanicsOnCompletedGame(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic when picking an action on a finished game")
		}
	}()
	state := aitesting.NewNimStateWithPiles(0, 0, 0)
	alg := &Algorithm[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer]{MaxDepth: 4}
	alg.PickAction(context.Background(), state, aitesting.PerfectEvaluator{}, aitesting.NimPlayerOne)
}
