package action

import (
	"context"
	"fmt"

	"github.com/forgecore/cardsim/internal/game/prompt"
	"github.com/forgecore/cardsim/internal/zones"
)

// LegalityCheck is supplied by the caller (it needs rules-package
// legality context this package does not own) and decides whether the
// Action is legal to even attempt.
type LegalityCheck func(Action) error

// CheckLegality builds a Step that fails the action outright if it is
// not legal, mirroring a legality gate being consulted before an
// action dispatch commits to anything.
func CheckLegality(check LegalityCheck) Step {
	return func(ctx context.Context, st *ExecutionState) (Outcome, error) {
		if err := check(st.Action); err != nil {
			return Applied, fmt.Errorf("action: illegal action: %w", err)
		}
		return Applied, nil
	}
}

// RequestTargets builds a Step that asks the prompt channel for
// targets/modes when the Action's declared Targets/Payload are
// insufficient for its source ability. needsInput reports whether a
// choice is still needed; when it is, the Request built by ask is put to
// the channel and the answer's Choice is recorded onto the
// ExecutionState's Scratch under key so a later Step can read it back.
func RequestTargets(key string, needsInput func(Action, map[string]any) bool, ask func(Action) prompt.Request) Step {
	return func(ctx context.Context, st *ExecutionState) (Outcome, error) {
		if !needsInput(st.Action, st.Scratch) {
			return Applied, nil
		}
		req := ask(st.Action)
		resp, err := st.Prompt.Ask(ctx, req)
		if err != nil {
			if err == prompt.ErrAwaitingResponse {
				return AwaitingPrompt, nil
			}
			return Applied, err
		}
		st.Scratch[key] = resp.Choice
		return Applied, nil
	}
}

// PutOnStack builds a Step that pushes a cast spell's source card onto
// the Zone Store's stack; every other Kind (activated abilities
// included) passes through without touching the stack, per the Turn & Stack
// Protocol (a resolved cast/activation always lands on the stack; it is
// the later resolution pass, not this step, that applies its effect).
func PutOnStack(store *zones.Store, turn func() int) Step {
	return func(ctx context.Context, st *ExecutionState) (Outcome, error) {
		if st.Action.Kind != KindCastSpell {
			return Applied, nil
		}
		if err := store.PushStackCard(st.Action.Source, turn()); err != nil {
			return Applied, fmt.Errorf("action: push stack: %w", err)
		}
		return Applied, nil
	}
}

// PassPriority builds a Step that records a priority pass for
// KindPassPriority actions; it is a no-op for every other Kind so it
// can sit in the same pipeline as casting/activating Steps.
func PassPriority(onPass func(player string)) Step {
	return func(ctx context.Context, st *ExecutionState) (Outcome, error) {
		if st.Action.Kind != KindPassPriority {
			return Applied, nil
		}
		onPass(st.Action.Player.String())
		return Applied, nil
	}
}

// Concede builds a terminal Step for KindConcede actions.
func Concede(onConcede func(player string)) Step {
	return func(ctx context.Context, st *ExecutionState) (Outcome, error) {
		if st.Action.Kind != KindConcede {
			return Applied, nil
		}
		onConcede(st.Action.Player.String())
		return GameOver, nil
	}
}
