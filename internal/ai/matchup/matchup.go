// Package matchup runs repeated games between two ai.core agents and
// tallies the results, grounded on original_source's
// ai/src/testing/run_matchup.rs (run_with_args/run_match): pick each
// side's agent, alternate pick_action calls by whichever player's turn
// it is, stop at completion, and record the winner.
//
// The original reports wins per named agent across a fixed match count;
// here that becomes Record, adapted from the win/loss/draw bookkeeping
// style of internal/tournament's Player/Pairing rather than copied
// wholesale, since a two-competitor repeated matchup has no rounds or
// pairings to generate; RunRoundRobinTournament below does drive
// internal/tournament directly for multi-competitor round robins.
package matchup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/forgecore/cardsim/internal/ai/core"
	"github.com/forgecore/cardsim/internal/tournament"
)

// Node extends core.GameStateNode with the one piece of information a
// matchup needs that Status alone doesn't carry: who actually won once
// the game is Completed. An empty Winners result (or one containing
// every player) is treated as a draw.
type Node[N any, A any, P comparable] interface {
	core.GameStateNode[N, A, P]
	Winners() []P
}

// Competitor pairs a name with the selection algorithm and evaluator it
// plays with, mirroring the original's AgentName -> Agent lookup.
type Competitor[N Node[N, A, P], A any, P comparable] struct {
	Name      string
	Algorithm core.SelectionAlgorithm[N, A, P]
	Evaluator core.StateEvaluator[N, P]
}

// MatchResult is the outcome of one RunMatch call.
type MatchResult struct {
	Winner string // empty string means a draw
	Plies  int
}

// Record tallies results across repeated matches between two named
// competitors, the same shape as the original's per-agent win count but
// narrowed to exactly two sides since this runner doesn't generate
// tournament pairings.
type Record struct {
	Wins  map[string]int
	Draws int
}

func newRecord() Record {
	return Record{Wins: make(map[string]int)}
}

// RunMatch plays one game to completion, alternating PickAction calls
// between whichever competitor owns the player to move, each bounded by
// moveBudget. It panics if game is already completed, same precondition
// every SelectionAlgorithm in this tree enforces.
func RunMatch[N Node[N, A, P], A any, P comparable](
	ctx context.Context,
	game N,
	competitorFor func(P) Competitor[N, A, P],
	moveBudget time.Duration,
	logger *zap.Logger,
) MatchResult {
	st := game.Status()
	if st.Completed {
		panic("matchup: RunMatch called on an already-completed game")
	}

	plies := 0
	for {
		st := game.Status()
		if st.Completed {
			break
		}
		competitor := competitorFor(st.CurrentTurn)
		moveCtx, cancel := context.WithTimeout(ctx, moveBudget)
		action := competitor.Algorithm.PickAction(moveCtx, game, competitor.Evaluator, st.CurrentTurn)
		cancel()

		game.ExecuteAction(st.CurrentTurn, action)
		plies++
		if logger != nil {
			logger.Debug("matchup action", zap.String("competitor", competitor.Name), zap.Int("ply", plies))
		}
	}

	winners := game.Winners()
	result := MatchResult{Plies: plies}
	if len(winners) == 1 {
		result.Winner = competitorFor(winners[0]).Name
	}
	return result
}

// RunSeries plays count independent matches starting from newGame() each
// time (so a match's mutations never leak into the next one) and
// accumulates a Record, mirroring run_with_args's "--matches N" loop.
func RunSeries[N Node[N, A, P], A any, P comparable](
	ctx context.Context,
	newGame func() N,
	competitorFor func(P) Competitor[N, A, P],
	moveBudget time.Duration,
	count int,
	logger *zap.Logger,
) Record {
	record := newRecord()
	for i := 0; i < count; i++ {
		result := RunMatch(ctx, newGame(), competitorFor, moveBudget, logger)
		if result.Winner == "" {
			record.Draws++
		} else {
			record.Wins[result.Winner]++
		}
		if logger != nil {
			logger.Info("match completed", zap.Int("match", i+1), zap.String("winner", result.Winner), zap.Int("plies", result.Plies))
		}
	}
	return record
}

// RunRoundRobinTournament pairs more than two named competitors against
// each other across a fixed number of rounds, reusing internal/
// tournament's Swiss pairing and win/loss/point bookkeeping (built for a
// human lobby server) for AI-vs-AI competitions instead: each pairing's
// two named sides each play as one of the game's two fixed player
// tokens, sideOne/sideTwo, for the duration of that match.
func RunRoundRobinTournament[N Node[N, A, P], A any, P comparable](
	ctx context.Context,
	newGame func() N,
	competitorsByName map[string]Competitor[N, A, P],
	sideOne, sideTwo P,
	moveBudget time.Duration,
	rounds int,
	logger *zap.Logger,
) tournament.TournamentSnapshot {
	// Note: Tournament.generatePairings iterates its Players map, so
	// pairing order across rounds is not itself deterministic — that
	// nondeterminism is inherited unchanged from the adapted pairing
	// logic. Per-move search determinism within a single match is
	// unaffected; only which two competitors meet in a given round can
	// vary between runs with the same inputs.
	t := tournament.NewTournament("ai-roundrobin", "AI_MATCHUP", "matchup", "", rounds, 1)
	for name := range competitorsByName {
		if err := t.AddPlayer(name); err != nil {
			panic(err)
		}
	}
	if err := t.Start(); err != nil {
		panic(err)
	}

	for round := 1; round <= rounds; round++ {
		var r *tournament.Round
		if round == 1 {
			r = t.Rounds[0]
		} else {
			r = t.CreateRound()
		}

		for _, pairing := range r.Pairings {
			c1 := competitorsByName[pairing.Player1]
			c2 := competitorsByName[pairing.Player2]
			byToken := func(p P) Competitor[N, A, P] {
				if p == sideOne {
					return c1
				}
				return c2
			}

			result := RunMatch(ctx, newGame(), byToken, moveBudget, logger)

			winner, p1Wins, p2Wins := "", 0, 0
			switch result.Winner {
			case c1.Name:
				winner, p1Wins = pairing.Player1, 1
			case c2.Name:
				winner, p2Wins = pairing.Player2, 1
			}
			if err := t.RecordMatchResult(round, pairing.Player1, pairing.Player2, winner, p1Wins, p2Wins); err != nil {
				panic(err)
			}
		}
	}

	t.SetState(tournament.TournamentStateFinished)
	return t.Snapshot()
}
