package integration

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/forgecore/cardsim/internal/game"
	"github.com/forgecore/cardsim/internal/game/action"
	"github.com/forgecore/cardsim/internal/primitives"
)

// cardIDFrom converts a CardView's uint64 id (already hidden-information
// safe to expose to a test) back into the typed id the Action Pipeline
// expects.
func cardIDFrom(id uint64) primitives.CardId { return primitives.CardId(id) }

const (
	alice = "Alice"
	bob   = "Bob"
)

func gameView(t testing.TB, engine *game.Engine, gameID, playerID string) *game.View {
	t.Helper()
	view, err := engine.GetGameView(gameID, playerID)
	if err != nil {
		t.Fatalf("GetGameView failed: %v", err)
	}
	return view
}

func findInHand(view *game.View, playerID, name string) (uint64, bool) {
	for _, p := range view.Players {
		if p.PlayerID != playerID {
			continue
		}
		for _, c := range p.Hand {
			if c.Name == name {
				return c.ID, true
			}
		}
	}
	return 0, false
}

func landInHand(view *game.View, playerID string) (uint64, bool) {
	if id, ok := findInHand(view, playerID, "Forest"); ok {
		return id, true
	}
	return findInHand(view, playerID, "Island")
}

// passBoth submits a priority pass for both seats in turn-order,
// advancing the turn structure by one step once the stack is empty (the
// Turn & Stack Protocol's double-pass rule).
func passBoth(t testing.TB, engine *game.Engine, gameID string) *game.View {
	t.Helper()
	if _, err := engine.ProcessAction(gameID, alice, action.Action{Kind: action.KindPassPriority}); err != nil {
		t.Fatalf("alice pass failed: %v", err)
	}
	if _, err := engine.ProcessAction(gameID, bob, action.Action{Kind: action.KindPassPriority}); err != nil {
		t.Fatalf("bob pass failed: %v", err)
	}
	return gameView(t, engine, gameID, alice)
}

// TestPlayLandEntersBattlefieldOncePerTurn verifies a special-action land
// play both succeeds and is limited to one per turn, per the Turn & Stack
// Protocol's land-drop rule.
func TestPlayLandEntersBattlefieldOncePerTurn(t *testing.T) {
	logger := zaptest.NewLogger(t)
	engine := game.NewEngine(logger)

	gameID := "game-flow-land-drop"
	if err := engine.StartGame(gameID, []string{alice, bob}, "TwoPlayerDuel"); err != nil {
		t.Fatalf("failed to start game: %v", err)
	}

	before := gameView(t, engine, gameID, alice)
	if before.ActivePlayerID != alice {
		t.Fatalf("expected Alice to have the first turn, active player is %s", before.ActivePlayerID)
	}

	landID, ok := landInHand(before, alice)
	if !ok {
		t.Fatal("expected at least one basic land in Alice's opening hand")
	}

	if _, err := engine.ProcessAction(gameID, alice, action.Action{
		Kind:   action.KindSpecialAction,
		Source: cardIDFrom(landID),
	}); err != nil {
		t.Fatalf("playing a land failed: %v", err)
	}

	after := gameView(t, engine, gameID, alice)
	if len(after.Battlefield) != 1 {
		t.Fatalf("expected 1 permanent on the battlefield after playing a land, got %d", len(after.Battlefield))
	}

	secondLandID, hasSecond := landInHand(after, alice)
	if !hasSecond {
		return // only one land in the opening hand; the one-per-turn limit can't be exercised further
	}
	if _, err := engine.ProcessAction(gameID, alice, action.Action{
		Kind:   action.KindSpecialAction,
		Source: cardIDFrom(secondLandID),
	}); err == nil {
		t.Fatal("expected a second land play in the same turn to be rejected")
	}
}

// TestPriorityPassAdvancesTurnStep verifies that both players passing in
// succession advances the step while keeping the turn number fixed and
// returning priority to the active player.
func TestPriorityPassAdvancesTurnStep(t *testing.T) {
	logger := zaptest.NewLogger(t)
	engine := game.NewEngine(logger)

	gameID := "game-flow-priority-pass"
	if err := engine.StartGame(gameID, []string{alice, bob}, "TwoPlayerDuel"); err != nil {
		t.Fatalf("failed to start game: %v", err)
	}

	before := gameView(t, engine, gameID, alice)
	initialStep := before.Step
	initialTurn := before.Turn

	after := passBoth(t, engine, gameID)

	if after.Step == initialStep {
		t.Fatalf("expected step to advance after a double pass, still %s", initialStep)
	}
	if after.Turn != initialTurn {
		t.Fatalf("expected to remain on turn %d, got %d", initialTurn, after.Turn)
	}
	if after.PriorityPlayer != after.ActivePlayerID {
		t.Fatalf("expected priority to revert to the active player, got priority=%s active=%s",
			after.PriorityPlayer, after.ActivePlayerID)
	}
}

// TestConcedeEndsMatch verifies a concession immediately ends the game
// with the opponent recorded as the winner.
func TestConcedeEndsMatch(t *testing.T) {
	logger := zaptest.NewLogger(t)
	engine := game.NewEngine(logger)

	gameID := "game-flow-concede"
	if err := engine.StartGame(gameID, []string{alice, bob}, "TwoPlayerDuel"); err != nil {
		t.Fatalf("failed to start game: %v", err)
	}

	if err := engine.PlayerConcede(gameID, alice); err != nil {
		t.Fatalf("concede failed: %v", err)
	}

	view := gameView(t, engine, gameID, bob)
	if !view.GameOver {
		t.Fatal("expected the game to be over after a concession")
	}
	if view.WinnerID != bob {
		t.Fatalf("expected Bob to win after Alice conceded, winner=%s", view.WinnerID)
	}
}

// TestCastUnaffordableSpellFails verifies that attempting to cast a spell
// with no untapped mana sources reports an error rather than silently
// dropping the attempt, exercising the mana-payment path in executeStep.
func TestCastUnaffordableSpellFails(t *testing.T) {
	logger := zaptest.NewLogger(t)
	engine := game.NewEngine(logger)

	gameID := "game-flow-unaffordable-spell"
	if err := engine.StartGame(gameID, []string{alice, bob}, "TwoPlayerDuel"); err != nil {
		t.Fatalf("failed to start game: %v", err)
	}

	before := gameView(t, engine, gameID, alice)
	var spellID uint64
	var found bool
	for _, name := range []string{"Woodland Bear", "War Chief", "Scorch Bolt", "Mana Relic"} {
		if id, ok := findInHand(before, alice, name); ok {
			spellID, found = id, true
			break
		}
	}
	if !found {
		t.Skip("opening hand for this gameID drew only basic lands")
	}

	if _, err := engine.ProcessAction(gameID, alice, action.Action{
		Kind:   action.KindCastSpell,
		Source: cardIDFrom(spellID),
	}); err == nil {
		t.Fatal("expected casting a spell with no available mana sources to fail")
	}
}
