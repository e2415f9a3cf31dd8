// Package action implements the Action Pipeline: the single entry point
// through which every player decision (cast a spell, activate an
// ability, take a special action, pass priority) reaches the rest of
// the engine. It replaces a monolithic ProcessAction/handlePlayerAction
// dispatch with an explicit three-valued result so a caller — a human
// session, a replay, or an AI search node — can tell the difference
// between "this finished", "this needs a player decision before it can
// finish", and "the game is over", instead of overloading a Go error
// for all three.
package action

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/forgecore/cardsim/internal/game/prompt"
	"github.com/forgecore/cardsim/internal/primitives"
)

// Outcome is the three-valued result of executing one Action.
type Outcome int

const (
	// Applied means the action fully resolved; state-based actions and
	// triggered-ability queueing have already run as a result.
	Applied Outcome = iota
	// AwaitingPrompt means the action is paused on a prompt.Channel that
	// returned prompt.ErrAwaitingResponse; the same Action can be
	// re-submitted once the outstanding Request has been answered, and
	// execution resumes exactly where it left off.
	AwaitingPrompt
	// GameOver means this action ended the game (a player conceded, lost
	// to a state-based action, or the like).
	GameOver
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "Applied"
	case AwaitingPrompt:
		return "AwaitingPrompt"
	case GameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Kind identifies what sort of action is being taken.
type Kind int

const (
	KindCastSpell Kind = iota
	KindActivateAbility
	KindSpecialAction
	KindPassPriority
	KindDeclareAttacker
	KindDeclareBlocker
	KindConcede
)

// Action is one player decision submitted to the pipeline.
type Action struct {
	Kind     Kind
	Player   primitives.PlayerName
	Source   primitives.CardId
	AbilityI int // index into the source card's ability list, for KindActivateAbility
	Targets  []primitives.PermanentId
	Payload  map[string]string // free-form parameters (mode choice, X value, ...) keyed by name
}

// Step is one stage of executing an Action. A Handler is built from a
// slice of Steps; Execute runs them in order, stopping early (without
// error) the first time a Step itself reports AwaitingPrompt.
type Step func(ctx context.Context, st *ExecutionState) (Outcome, error)

// ExecutionState carries everything a Step needs: the action being
// executed, the prompt channel to ask through, and free-form scratch
// data Steps can stash results in for later Steps in the same pipeline
// to pick up (e.g. a legality-check Step records the resolved targets
// for a later resolve Step).
type ExecutionState struct {
	Action  Action
	Prompt  prompt.Channel
	Scratch map[string]any
}

// Result is what Pipeline.Execute returns.
type Result struct {
	Outcome Outcome
	Reason  string // human-readable detail, set on AwaitingPrompt/GameOver
}

// Pipeline executes Actions through an ordered list of Steps.
type Pipeline struct {
	logger *zap.Logger
	steps  []Step
}

// NewPipeline constructs a Pipeline from an ordered list of Steps (e.g.
// legality check, cost payment, resolution, state-based actions,
// trigger queueing).
func NewPipeline(logger *zap.Logger, steps ...Step) *Pipeline {
	return &Pipeline{logger: logger, steps: steps}
}

// Execute runs action through every Step in order. Re-submitting the
// same Action (with the same Scratch, via the caller keeping the same
// ExecutionState across calls) after resolving an outstanding
// prompt.Request resumes from the Step that returned AwaitingPrompt,
// since earlier Steps' effects on Scratch/game state already happened
// and are not redone.
func (p *Pipeline) Execute(ctx context.Context, st *ExecutionState) (Result, error) {
	if st.Scratch == nil {
		st.Scratch = make(map[string]any)
	}
	resumeFrom, _ := st.Scratch["__step"].(int)

	for i := resumeFrom; i < len(p.steps); i++ {
		outcome, err := p.steps[i](ctx, st)
		if err != nil {
			if p.logger != nil {
				p.logger.Debug("action step failed",
					zap.Int("step", i),
					zap.String("kind", fmt.Sprintf("%v", st.Action.Kind)),
					zap.Error(err),
				)
			}
			return Result{Outcome: Applied, Reason: err.Error()}, err
		}
		switch outcome {
		case AwaitingPrompt:
			st.Scratch["__step"] = i
			return Result{Outcome: AwaitingPrompt, Reason: "awaiting player response"}, nil
		case GameOver:
			return Result{Outcome: GameOver}, nil
		}
	}
	delete(st.Scratch, "__step")
	return Result{Outcome: Applied}, nil
}
