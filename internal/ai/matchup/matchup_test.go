package matchup

import (
	"context"
	"testing"
	"time"

	"github.com/forgecore/cardsim/internal/ai/aitesting"
	"github.com/forgecore/cardsim/internal/ai/alphabeta"
)

func competitors() func(aitesting.NimPlayer) Competitor[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer] {
	perfect := &alphabeta.Algorithm[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer]{SearchDepth: 8}
	byPlayer := map[aitesting.NimPlayer]Competitor[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer]{
		aitesting.NimPlayerOne: {Name: "perfect-one", Algorithm: perfect, Evaluator: aitesting.PerfectEvaluator{}},
		aitesting.NimPlayerTwo: {Name: "perfect-two", Algorithm: perfect, Evaluator: aitesting.PerfectEvaluator{}},
	}
	return func(p aitesting.NimPlayer) Competitor[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer] {
		return byPlayer[p]
	}
}

func TestRunMatchDeclaresAWinner(t *testing.T) {
	game := aitesting.NewNimStateWithPiles(1, 4, 5)
	result := RunMatch[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer](
		context.Background(), game, competitors(), 50*time.Millisecond, nil,
	)
	if result.Winner == "" {
		t.Fatal("expected a decisive winner between two perfect-play agents from a zero nim-sum position")
	}
	if result.Plies == 0 {
		t.Fatal("expected at least one ply to have been played")
	}
}

func TestRunMatchPanicsOnAlreadyCompletedGame(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic when the game is already over")
		}
	}()
	game := aitesting.NewNimStateWithPiles(0, 0, 0)
	RunMatch[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer](
		context.Background(), game, competitors(), 50*time.Millisecond, nil,
	)
}

func TestRunRoundRobinTournamentProducesAStanding(t *testing.T) {
	weak := &alphabeta.Algorithm[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer]{SearchDepth: 1}
	strong := &alphabeta.Algorithm[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer]{SearchDepth: 8}
	byName := map[string]Competitor[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer]{
		"shallow": {Name: "shallow", Algorithm: weak, Evaluator: aitesting.PerfectEvaluator{}},
		"deep":    {Name: "deep", Algorithm: strong, Evaluator: aitesting.PerfectEvaluator{}},
	}

	snapshot := RunRoundRobinTournament[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer](
		context.Background(),
		func() *aitesting.NimState { return aitesting.NewNimStateWithPiles(1, 4, 5) },
		byName,
		aitesting.NimPlayerOne, aitesting.NimPlayerTwo,
		50*time.Millisecond,
		2,
		nil,
	)

	if len(snapshot.Players) != 2 {
		t.Fatalf("expected 2 players in the standing, got %d", len(snapshot.Players))
	}
	if len(snapshot.Rounds) != 2 {
		t.Fatalf("expected 2 rounds played, got %d", len(snapshot.Rounds))
	}
}

func TestRunSeriesTalliesWinsAcrossMatches(t *testing.T) {
	record := RunSeries[*aitesting.NimState, aitesting.NimAction, aitesting.NimPlayer](
		context.Background(),
		func() *aitesting.NimState { return aitesting.NewNimStateWithPiles(1, 4, 5) },
		competitors(),
		50*time.Millisecond,
		3,
		nil,
	)
	total := record.Draws
	for _, w := range record.Wins {
		total += w
	}
	if total != 3 {
		t.Fatalf("expected 3 recorded outcomes, got %d (wins=%v draws=%d)", total, record.Wins, record.Draws)
	}
}
