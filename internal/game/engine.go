// Package game wires the Zone Store, Continuous Effects Registry, Turn
// Manager, Combat State Machine, Action Pipeline, and Ability Registry
// into one live two-player duel, through the typed Engine/Match pair
// below: Engine is the process-wide, gameID-keyed match table; Match is
// everything one running duel needs, and the only thing that touches
// the lower-level packages directly.
package game

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/forgecore/cardsim/internal/game/abilityreg"
	"github.com/forgecore/cardsim/internal/game/action"
	"github.com/forgecore/cardsim/internal/game/combat"
	"github.com/forgecore/cardsim/internal/game/effects"
	"github.com/forgecore/cardsim/internal/game/mana"
	"github.com/forgecore/cardsim/internal/game/planner"
	"github.com/forgecore/cardsim/internal/game/prompt"
	"github.com/forgecore/cardsim/internal/game/rules"
	"github.com/forgecore/cardsim/internal/primitives"
	"github.com/forgecore/cardsim/internal/printedcard"
	"github.com/forgecore/cardsim/internal/zones"
)

const startingLife = 20
const openingHandSize = 7

// Engine is the process-wide table of running matches, keyed by the
// opaque gameID the transport layer hands in.
type Engine struct {
	logger *zap.Logger

	mu      sync.Mutex
	matches map[string]*Match
}

// NewEngine constructs an empty match table.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger, matches: make(map[string]*Match)}
}

// StartGame creates and begins a new TwoPlayerDuel match under gameID.
// mode is accepted for forward compatibility with other match sizes,
// but only "TwoPlayerDuel" (the only mode this package implements) is
// currently legal.
func (e *Engine) StartGame(gameID string, playerIDs []string, mode string) error {
	if mode != "TwoPlayerDuel" {
		return fmt.Errorf("game: unsupported match mode %q", mode)
	}
	if len(playerIDs) != 2 {
		return fmt.Errorf("game: TwoPlayerDuel requires exactly 2 players, got %d", len(playerIDs))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.matches[gameID]; exists {
		return fmt.Errorf("game: %s already has a running match", gameID)
	}

	m := newMatch(gameID, playerIDs, e.logger)
	m.begin()
	e.matches[gameID] = m
	return nil
}

func (e *Engine) match(gameID string) (*Match, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.matches[gameID]
	if !ok {
		return nil, fmt.Errorf("game: no running match %s", gameID)
	}
	return m, nil
}

// ProcessAction submits one player decision to gameID's match.
func (e *Engine) ProcessAction(gameID, playerID string, act action.Action) (action.Result, error) {
	m, err := e.match(gameID)
	if err != nil {
		return action.Result{}, err
	}
	seat, ok := m.seatOf(playerID)
	if !ok {
		return action.Result{}, fmt.Errorf("game: %s is not seated in match %s", playerID, gameID)
	}
	act.Player = seat
	return m.submit(context.Background(), act)
}

// ProcessPromptResponse delivers a player's answer to an outstanding
// prompt.Request, then retries whichever Action was suspended on it.
func (e *Engine) ProcessPromptResponse(gameID, playerID string, resp prompt.Response) (action.Result, error) {
	m, err := e.match(gameID)
	if err != nil {
		return action.Result{}, err
	}
	seat, ok := m.seatOf(playerID)
	if !ok {
		return action.Result{}, fmt.Errorf("game: %s is not seated in match %s", playerID, gameID)
	}
	return m.resumeOnPromptResponse(seat, resp)
}

// PlayerQuit ends gameID's whole match, removing it from the engine
// without recording a loss for playerID (used for an orderly
// disconnect, as opposed to PlayerConcede).
func (e *Engine) PlayerQuit(gameID, playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.matches[gameID]; !ok {
		return fmt.Errorf("game: no running match %s", gameID)
	}
	delete(e.matches, gameID)
	return nil
}

// PlayerConcede ends gameID's match with playerID recorded as the loser.
func (e *Engine) PlayerConcede(gameID, playerID string) error {
	m, err := e.match(gameID)
	if err != nil {
		return err
	}
	seat, ok := m.seatOf(playerID)
	if !ok {
		return fmt.Errorf("game: %s is not seated in match %s", playerID, gameID)
	}
	_, err = m.submit(context.Background(), action.Action{Kind: action.KindConcede, Player: seat})
	return err
}

// GetGameView renders gameID's current state as seen by playerID.
func (e *Engine) GetGameView(gameID, playerID string) (*View, error) {
	m, err := e.match(gameID)
	if err != nil {
		return nil, err
	}
	seat, ok := m.seatOf(playerID)
	if !ok {
		return nil, fmt.Errorf("game: %s is not seated in match %s", playerID, gameID)
	}
	return m.view(seat), nil
}

// Match is everything one running TwoPlayerDuel needs: the Zone Store,
// the continuous-effects Registry, turn/priority bookkeeping, combat,
// and one prompt.SuspendChannel per seat.
type Match struct {
	id     string
	logger *zap.Logger

	mu sync.Mutex

	catalog   map[primitives.PrintedCardId]*printedcard.PrintedCard
	store     *zones.Store
	abilities *abilityreg.Registry
	effects   *effects.Registry
	events    *rules.EventBus
	turns     *rules.TurnManager
	pipeline  *action.Pipeline

	combatState *combat.State

	seatNames   map[string]primitives.PlayerName
	playerIDs   map[primitives.PlayerName]string
	life        map[primitives.PlayerName]int
	prompts     map[primitives.PlayerName]*prompt.SuspendChannel
	passed      map[primitives.PlayerName]bool
	landPlayed  map[primitives.PlayerName]bool
	nextEffect  primitives.EffectId

	gameOver bool
	winner   primitives.PlayerName

	// pending holds, per seat, the execution state of an Action whose
	// Result was AwaitingPrompt (entries are dropped once an action
	// finishes), so it can be resumed once its prompt.Request is
	// answered via resumeOnPromptResponse.
	pending map[primitives.PlayerName]*action.ExecutionState
}

func newMatch(id string, playerIDs []string, logger *zap.Logger) *Match {
	seats := []primitives.PlayerName{primitives.PlayerOne, primitives.PlayerTwo}
	m := &Match{
		id:         id,
		logger:     logger,
		catalog:    buildCatalog(),
		store:      zones.NewStore(seats),
		abilities:  abilityreg.New(),
		effects:    effects.NewRegistry(),
		events:     rules.NewEventBus(),
		turns:      rules.NewTurnManager(primitives.PlayerOne),
		seatNames:  make(map[string]primitives.PlayerName, 2),
		playerIDs:  make(map[primitives.PlayerName]string, 2),
		life:       make(map[primitives.PlayerName]int, 2),
		prompts:    make(map[primitives.PlayerName]*prompt.SuspendChannel, 2),
		passed:     make(map[primitives.PlayerName]bool, 2),
		landPlayed: make(map[primitives.PlayerName]bool, 2),
		pending:    make(map[primitives.PlayerName]*action.ExecutionState, 2),
		winner:     rules.NoPlayer,
	}
	for i, seat := range seats {
		m.seatNames[playerIDs[i]] = seat
		m.playerIDs[seat] = playerIDs[i]
		m.life[seat] = startingLife
		m.prompts[seat] = prompt.NewSuspendChannel()
	}
	return m
}

func (m *Match) seatOf(playerID string) (primitives.PlayerName, bool) {
	seat, ok := m.seatNames[playerID]
	return seat, ok
}

func (m *Match) nextTimestamp() primitives.Timestamp {
	m.nextEffect++
	return m.nextEffect
}

func (m *Match) opponentOf(seat primitives.PlayerName) primitives.PlayerName {
	if seat == primitives.PlayerOne {
		return primitives.PlayerTwo
	}
	return primitives.PlayerOne
}

func (m *Match) controllerOf(card primitives.CardId) primitives.PlayerName {
	inst, ok := m.store.Card(card)
	if !ok {
		return rules.NoPlayer
	}
	return inst.Controller
}

// begin seeds both libraries, registers starter card abilities, and
// draws each seat's opening hand.
func (m *Match) begin() {
	registerStarterAbilities(m)
	for _, seat := range []primitives.PlayerName{primitives.PlayerOne, primitives.PlayerTwo} {
		m.seedLibrary(seat, seedRNGFor(m.id, seat))
		for i := 0; i < openingHandSize; i++ {
			m.store.DrawCard(seat, 0)
		}
	}

	m.pipeline = action.NewPipeline(m.logger,
		action.CheckLegality(m.checkLegality),
		m.executeStep(),
		action.PassPriority(m.onPass),
		action.Concede(m.onConcede),
	)
}

// submit runs act through the pipeline, remembering its ExecutionState
// under act.Player so a later prompt response can resume it.
func (m *Match) submit(ctx context.Context, act action.Action) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gameOver {
		return action.Result{Outcome: action.GameOver}, nil
	}

	st, ok := m.pending[act.Player]
	if !ok || st.Action.Kind != act.Kind || st.Action.Source != act.Source {
		st = &action.ExecutionState{Action: act, Prompt: m.prompts[act.Player]}
	} else {
		st.Action = act
	}

	result, err := m.pipeline.Execute(ctx, st)
	if err != nil {
		delete(m.pending, act.Player)
		return result, err
	}

	switch result.Outcome {
	case action.AwaitingPrompt:
		m.pending[act.Player] = st
	case action.GameOver:
		m.gameOver = true
		delete(m.pending, act.Player)
	default:
		delete(m.pending, act.Player)
		if act.Kind != action.KindPassPriority {
			m.passed = make(map[primitives.PlayerName]bool, 2)
		}
		m.checkStateBasedActions()
	}
	return result, nil
}

func (m *Match) resumeOnPromptResponse(seat primitives.PlayerName, resp prompt.Response) (action.Result, error) {
	m.mu.Lock()
	channel := m.prompts[seat]
	st, hasPending := m.pending[seat]
	m.mu.Unlock()

	if err := channel.Resolve(resp); err != nil {
		return action.Result{}, err
	}
	if !hasPending {
		return action.Result{Outcome: action.Applied}, nil
	}
	return m.submit(context.Background(), st.Action)
}

// checkLegality is the Action Pipeline's first Step: it rejects an
// action outright if its source doesn't exist, isn't controlled by its
// declared player, or is being used from the wrong zone/sub-phase.
// It intentionally does not re-validate mana affordability (that is
// attempted, and can fail, in executeStep itself) so a player can find
// out they're short on mana without the action having been illegal.
func (m *Match) checkLegality(act action.Action) error {
	switch act.Kind {
	case action.KindPassPriority, action.KindConcede:
		return nil
	case action.KindCastSpell:
		card, ok := m.store.Card(act.Source)
		if !ok || card.Zone != primitives.ZoneHand || card.Owner != act.Player {
			return fmt.Errorf("source is not in %s's hand", act.Player)
		}
		return nil
	case action.KindSpecialAction:
		card, ok := m.store.Card(act.Source)
		if !ok || card.Zone != primitives.ZoneHand || card.Owner != act.Player {
			return fmt.Errorf("source is not in %s's hand", act.Player)
		}
		if !isLand(card.Printed) {
			return fmt.Errorf("special action only supports playing a land")
		}
		if m.landPlayed[act.Player] {
			return fmt.Errorf("%s has already played a land this turn", act.Player)
		}
		if m.turns.ActivePlayer() != act.Player {
			return fmt.Errorf("lands can only be played on %s's own turn", act.Player)
		}
		return nil
	case action.KindActivateAbility:
		card, ok := m.store.Card(act.Source)
		if !ok || card.Zone != primitives.ZoneBattlefield || card.Controller != act.Player {
			return fmt.Errorf("source is not a permanent %s controls", act.Player)
		}
		if card.Tapped {
			return fmt.Errorf("source is already tapped")
		}
		def, ok := m.abilities.Lookup(card.Printed.ID)
		if !ok || act.AbilityI < 0 || act.AbilityI >= len(def.Activated) {
			return fmt.Errorf("no such activated ability")
		}
		return nil
	case action.KindDeclareAttacker:
		if m.combatState == nil || m.combatState.SubPhase != combat.SubPhaseDeclareAttackers {
			return fmt.Errorf("not in the declare attackers step")
		}
		card, ok := m.store.Card(act.Source)
		if !ok || card.Zone != primitives.ZoneBattlefield || card.Controller != act.Player || card.Tapped {
			return fmt.Errorf("source cannot attack")
		}
		if card.EnteredZoneTurn == m.turns.TurnNumber() {
			return fmt.Errorf("source has summoning sickness")
		}
		return nil
	case action.KindDeclareBlocker:
		if m.combatState == nil || m.combatState.SubPhase != combat.SubPhaseDeclareBlockers {
			return fmt.Errorf("not in the declare blockers step")
		}
		card, ok := m.store.Card(act.Source)
		if !ok || card.Zone != primitives.ZoneBattlefield || card.Controller != act.Player || card.Tapped {
			return fmt.Errorf("source cannot block")
		}
		return nil
	default:
		return fmt.Errorf("unknown action kind %d", act.Kind)
	}
}

// executeStep builds the custom Step that pays costs and resolves or
// stacks every non-priority action kind.
func (m *Match) executeStep() action.Step {
	return func(ctx context.Context, st *action.ExecutionState) (action.Outcome, error) {
		act := st.Action
		switch act.Kind {
		case action.KindCastSpell:
			return action.Applied, m.castSpell(ctx, act)
		case action.KindActivateAbility:
			return action.Applied, m.activateAbility(ctx, act)
		case action.KindSpecialAction:
			return action.Applied, m.playLand(act)
		case action.KindDeclareAttacker:
			return action.Applied, m.declareAttacker(act)
		case action.KindDeclareBlocker:
			return action.Applied, m.declareBlocker(act)
		default:
			return action.Applied, nil
		}
	}
}

// convertManaCost bridges a printed card's face cost to the mana
// package's additive ManaCost, the shape planner.Plan and the starter
// abilities' payment logic both expect.
func convertManaCost(pc printedcard.ManaCost) *mana.ManaCost {
	cost := &mana.ManaCost{}
	for _, item := range pc {
		switch item.Kind {
		case printedcard.SymbolGeneric:
			cost.Generic += item.Generic
		case printedcard.SymbolVariableX:
			cost.X = true
		case printedcard.SymbolColored, printedcard.SymbolHybrid, printedcard.SymbolPhyrexian:
			switch item.Color {
			case primitives.ColorWhite:
				cost.White++
			case primitives.ColorBlue:
				cost.Blue++
			case primitives.ColorBlack:
				cost.Black++
			case primitives.ColorRed:
				cost.Red++
			case primitives.ColorGreen:
				cost.Green++
			}
		}
	}
	return cost
}

// landSourcesFor returns every untapped land player controls as a
// planner.LandSource, so planner.Plan can suggest a tap order for a
// cost.
func (m *Match) landSourcesFor(player primitives.PlayerName) []planner.LandSource {
	var sources []planner.LandSource
	for _, id := range m.store.ControlledBattlefield(player) {
		card, ok := m.store.Card(id)
		if !ok || card.Tapped || !isLand(card.Printed) {
			continue
		}
		manaType, ok := basicLandManaType(card.Printed)
		if !ok {
			continue
		}
		subtypes := len(card.Printed.Face0().Subtypes[printedcard.SubtypeLand])
		sources = append(sources, planner.LandSource{
			Permanent: card.PermanentId(),
			Produces:  mana.ManaType(manaType),
			Subtypes:  subtypes,
		})
	}
	return sources
}

// payManaCost taps the lands planner.Plan selects to pay cost, or
// returns an error if there is no legal way to pay it from player's
// currently untapped lands. This package pays costs by tapping chosen
// lands directly rather than routing mana through mana.ManaPool: a
// two-player starter-deck duel never needs mana to float across
// priority passes, so tracking a pool would be bookkeeping with no
// payoff here (see DESIGN.md).
func (m *Match) payManaCost(player primitives.PlayerName, cost *mana.ManaCost) error {
	plan, ok := planner.Plan(cost, m.landSourcesFor(player))
	if !ok {
		return fmt.Errorf("not enough untapped mana sources to pay %s", cost.String())
	}
	for _, pid := range plan.TapOrder {
		land, ok := m.store.Permanent(pid)
		if !ok {
			return fmt.Errorf("land selected by planner is no longer on the battlefield")
		}
		land.Tapped = true
	}
	return nil
}

func (m *Match) castSpell(ctx context.Context, act action.Action) error {
	card, ok := m.store.Card(act.Source)
	if !ok {
		return fmt.Errorf("unknown card %d", act.Source)
	}
	face := card.Printed.Face0()
	if err := m.payManaCost(act.Player, convertManaCost(face.ManaCost)); err != nil {
		return err
	}
	if err := m.store.PushStackCard(act.Source, m.turns.TurnNumber()); err != nil {
		return err
	}
	card.Targets = make([]zones.StackTarget, 0, len(act.Targets))
	for _, t := range act.Targets {
		card.Targets = append(card.Targets, zones.StackTarget{Permanent: t})
	}
	m.events.Publish(rules.NewEvent(rules.EventSpellCast, act.Source, act.Source, act.Player))
	return nil
}

func (m *Match) activateAbility(ctx context.Context, act action.Action) error {
	card, ok := m.store.Card(act.Source)
	if !ok {
		return fmt.Errorf("unknown card %d", act.Source)
	}
	def, ok := m.abilities.Lookup(card.Printed.ID)
	if !ok || act.AbilityI >= len(def.Activated) {
		return fmt.Errorf("no such activated ability on %d", act.Source)
	}
	ability := def.Activated[act.AbilityI]
	card.Tapped = true

	if !ability.UsesStack {
		return ability.Resolve(ctx, act.Source, act.Player, act.Targets)
	}
	m.store.PushStackAbility(primitives.AbilityId{Card: card.ID, Index: act.AbilityI}, card.Owner, act.Player, nil)
	return nil
}

func (m *Match) playLand(act action.Action) error {
	card, ok := m.store.Card(act.Source)
	if !ok {
		return fmt.Errorf("unknown card %d", act.Source)
	}
	if err := m.store.MoveCard(act.Source, primitives.ZoneBattlefield, act.Player, m.turns.TurnNumber()); err != nil {
		return err
	}
	m.landPlayed[act.Player] = true
	m.events.Publish(rules.NewEvent(rules.EventLandPlayed, card.ID, card.ID, act.Player))
	return nil
}

func (m *Match) declareAttacker(act action.Action) error {
	card, _ := m.store.Card(act.Source)
	defender := combat.Defender{Player: m.opponentOf(act.Player), ControllerOf: m.opponentOf(act.Player)}
	m.combatState.DeclareAttacker(card.PermanentId(), defender, true)
	card.Tapped = true
	m.events.Publish(rules.NewEvent(rules.EventDeclareAttacker, card.ID, card.ID, act.Player))
	return nil
}

func (m *Match) declareBlocker(act action.Action) error {
	if len(act.Targets) != 1 {
		return fmt.Errorf("declare blocker needs exactly one attacker target")
	}
	card, _ := m.store.Card(act.Source)
	if !m.combatState.DeclareBlocker(card.PermanentId(), act.Targets[0]) {
		return fmt.Errorf("target is not an attacking creature")
	}
	return nil
}

// onPass records a priority pass for the given player (supplied as its
// String() form by action.PassPriority's call site) and, once every
// seat has passed in succession, either resolves the top of the stack
// or advances the turn structure.
func (m *Match) onPass(playerStr string) {
	seat, ok := m.seatByString(playerStr)
	if !ok {
		return
	}
	m.passed[seat] = true
	if !m.passed[primitives.PlayerOne] || !m.passed[primitives.PlayerTwo] {
		return
	}
	m.passed = make(map[primitives.PlayerName]bool, 2)

	if len(m.store.Stack()) > 0 {
		m.resolveTopOfStack()
		return
	}
	m.advanceTurn()
}

func (m *Match) onConcede(playerStr string) {
	seat, ok := m.seatByString(playerStr)
	if !ok {
		return
	}
	m.gameOver = true
	m.winner = m.opponentOf(seat)
}

func (m *Match) seatByString(s string) (primitives.PlayerName, bool) {
	for _, seat := range []primitives.PlayerName{primitives.PlayerOne, primitives.PlayerTwo} {
		if seat.String() == s {
			return seat, true
		}
	}
	return rules.NoPlayer, false
}

// resolveTopOfStack pops and resolves the top item of the stack: a
// permanent spell enters the battlefield and has its static abilities
// installed; an instant/sorcery spell runs its SpellAbility.Resolve (if
// it has one) and then goes to the graveyard; a stack ability runs its
// resolution closure and disappears.
func (m *Match) resolveTopOfStack() {
	item, ok := m.store.PopStack()
	if !ok {
		return
	}

	if item.IsAbility() {
		def, ok := m.abilities.Lookup(m.printedIDForAbility(item.Ability.Defines))
		if ok && item.Ability.Defines.Index < len(def.Activated) {
			ability := def.Activated[item.Ability.Defines.Index]
			targets := toPermanentTargets(item.Ability.Targets)
			_ = ability.Resolve(context.Background(), item.Ability.Defines.Card, item.Ability.Controller, targets)
		}
		m.checkStateBasedActions()
		return
	}

	cardID := item.Card
	card, ok := m.store.Card(cardID)
	if !ok {
		return
	}
	face := card.Printed.Face0()

	if isPermanentFace(face) {
		if err := m.store.MoveCard(cardID, primitives.ZoneBattlefield, card.Owner, m.turns.TurnNumber()); err != nil {
			m.logger.Warn("resolve permanent spell", zap.Error(err))
			return
		}
		if def, ok := m.abilities.Lookup(card.Printed.ID); ok {
			def.InstallStatics(m.effects, primitives.AbilityId{Card: cardID, Index: 0}, cardID)
		}
		m.events.Publish(rules.NewEvent(rules.EventEntersTheBattlefield, cardID, cardID, card.Owner))
		m.checkStateBasedActions()
		return
	}

	targets := make([]primitives.PermanentId, 0, len(card.Targets))
	for _, t := range card.Targets {
		targets = append(targets, t.Permanent)
	}
	if def, ok := m.abilities.Lookup(card.Printed.ID); ok && def.Spell != nil {
		if err := def.Spell.Resolve(context.Background(), cardID, card.Owner, targets); err != nil {
			m.logger.Debug("spell resolution failed", zap.Error(err))
		}
	}
	m.store.MoveCard(cardID, primitives.ZoneGraveyard, card.Owner, m.turns.TurnNumber())
	m.checkStateBasedActions()
}

func toPermanentTargets(ts []zones.StackTarget) []primitives.PermanentId {
	out := make([]primitives.PermanentId, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Permanent)
	}
	return out
}

// printedIDForAbility looks up the printed card a stack ability's
// AbilityId.Card refers to, so its Definition can be found regardless
// of which zone the source card is currently in.
func (m *Match) printedIDForAbility(id primitives.AbilityId) primitives.PrintedCardId {
	card, ok := m.store.Card(id.Card)
	if !ok {
		return ""
	}
	return card.Printed.ID
}

func isPermanentFace(f printedcard.Face) bool {
	for _, t := range []primitives.CardType{
		primitives.TypeCreature, primitives.TypeArtifact, primitives.TypeEnchantment,
		primitives.TypePlaneswalker, primitives.TypeLand,
	} {
		if f.HasCardType(t) {
			return true
		}
	}
	return false
}

// advanceTurn drives the Turn Manager to its next step and runs that
// step's entry side effects. It is called once every seat in succession
// has passed priority with an empty stack.
func (m *Match) advanceTurn() {
	next := rules.NoPlayer
	if m.turns.CurrentStep() == rules.StepCleanup {
		next = m.opponentOf(m.turns.ActivePlayer())
	}
	phase, step := m.turns.AdvanceStep(next)
	m.events.Publish(rules.NewEvent(rules.EventStepChanged, 0, 0, m.turns.ActivePlayer()))

	active := m.turns.ActivePlayer()
	switch step {
	case rules.StepUntap:
		for _, id := range m.store.ControlledBattlefield(active) {
			if card, ok := m.store.Card(id); ok {
				card.Tapped = false
			}
		}
		m.landPlayed[active] = false
	case rules.StepDraw:
		if m.turns.TurnNumber() == 1 && active == primitives.PlayerOne {
			break // the player who plays first skips their first draw step
		}
		m.drawOrLose(active)
	case rules.StepBeginCombat:
		defender := m.opponentOf(active)
		m.combatState = combat.New(active, []combat.Defender{{Player: defender, ControllerOf: defender}})
	case rules.StepCombatDamage:
		m.resolveCombatDamage()
	case rules.StepEndCombat:
		m.combatState = nil
	case rules.StepCleanup:
		m.effects.RemoveByDuration(effects.DurationThisTurn)
		for _, id := range m.store.Battlefield() {
			if card, ok := m.store.Card(id); ok {
				card.DamageMarked = 0
			}
		}
	}
	_ = phase
	m.checkStateBasedActions()
}

func (m *Match) drawOrLose(player primitives.PlayerName) {
	if _, ok := m.store.DrawCard(player, m.turns.TurnNumber()); !ok {
		m.gameOver = true
		m.winner = m.opponentOf(player)
		return
	}
	m.events.Publish(rules.NewEvent(rules.EventDrewCard, 0, 0, player))
}

// resolveCombatDamage assigns and applies damage for every group
// declared this combat, using the default (non-custom) assignment rules
// from the combat package.
func (m *Match) resolveCombatDamage() {
	if m.combatState == nil {
		return
	}
	for _, g := range m.combatState.Groups {
		for _, attackerID := range g.Attackers {
			attacker, ok := m.store.Permanent(attackerID)
			if !ok {
				continue
			}
			combatant := m.combatantFor(attacker)
			toughnessRemaining := func(pid primitives.PermanentId) int {
				inst, ok := m.store.Permanent(pid)
				if !ok {
					return 0
				}
				_, toughness := m.effectivePowerToughness(inst.ID)
				return toughness - inst.DamageMarked
			}
			entries := combat.AssignAttackerDamage(combatant, g.Blockers, toughnessRemaining)
			for _, res := range combat.ResolveAssignments(attacker.Controller, combatant.HasLifelink, g.Defender, entries) {
				m.applyDamageResult(res)
			}
		}
		for _, blockerID := range g.Blockers {
			blocker, ok := m.store.Permanent(blockerID)
			if !ok || len(g.Attackers) == 0 {
				continue
			}
			combatant := m.combatantFor(blocker)
			entries := combat.AssignBlockerDamage(combatant, g.Attackers[0])
			for _, res := range combat.ResolveAssignments(blocker.Controller, combatant.HasLifelink, g.Defender, entries) {
				m.applyDamageResult(res)
			}
		}
	}
}

func (m *Match) combatantFor(card *zones.CardInstance) combat.Combatant {
	power, toughness := m.effectivePowerToughness(card.ID)
	return combat.Combatant{Power: power, Toughness: toughness, DamageMarked: card.DamageMarked}
}

func (m *Match) applyDamageResult(res combat.DamageResult) {
	if res.IsPlayer {
		if res.LifeGained > 0 {
			m.life[res.Player] += res.LifeGained
		}
		if res.Amount > 0 {
			m.life[res.Player] -= res.Amount
			m.events.Publish(rules.NewEventWithAmount(rules.EventDamagedPlayer, 0, 0, res.Player, res.Amount))
		}
		return
	}
	if inst, ok := m.store.Permanent(res.Recipient); ok {
		inst.DamageMarked += res.Amount
		m.events.Publish(rules.NewEventWithAmount(rules.EventDamagePermanent, inst.ID, inst.ID, inst.Controller, res.Amount))
	}
}

// dealDamageToPermanent is the entry point non-combat damage sources
// (Scorch Bolt) use; like combat damage, it only adds to the target's
// marked damage, and checkStateBasedActions later compares that against
// the Registry-backed toughness from effectivePowerToughness, so a
// buffed creature's higher toughness is respected either way.
func (m *Match) dealDamageToPermanent(target primitives.PermanentId, amount int, source primitives.CardId) error {
	inst, ok := m.store.Permanent(target)
	if !ok {
		return fmt.Errorf("target permanent no longer exists")
	}
	inst.DamageMarked += amount
	m.events.Publish(rules.NewEventWithAmount(rules.EventDamagePermanent, inst.ID, source, inst.Controller, amount))
	return nil
}

// effectivePowerToughness folds every registered power/toughness
// Modifier over a creature's printed base values.
func (m *Match) effectivePowerToughness(card primitives.CardId) (power, toughness int) {
	inst, ok := m.store.Card(card)
	if !ok {
		return 0, 0
	}
	face := inst.Printed.Face0()
	base := 0
	if face.HasPower {
		base = face.Power
	}
	baseTough := 0
	if face.HasToughness {
		baseTough = face.Toughness
	}
	active := m.modifierIsActive
	power = effects.QueryNumeric(base, m.effects.ModifiersFor(card, "power", active))
	toughness = effects.QueryNumeric(baseTough, m.effects.ModifiersFor(card, "toughness", active))
	return power, toughness
}

// modifierIsActive reports whether a registered modifier's source is
// still on the battlefield (for ability-granted modifiers) or is a
// game-level effect (always active).
func (m *Match) modifierIsActive(mod *effects.Modifier) bool {
	if mod.Source.IsGame {
		return true
	}
	src, ok := m.store.Card(mod.Source.Ability.Card)
	return ok && src.Zone == primitives.ZoneBattlefield
}

// checkStateBasedActions applies the small subset of state-based
// actions this package models: lethal damage destroys a creature, and a
// player at 0 or less life loses the game.
func (m *Match) checkStateBasedActions() {
	if m.gameOver {
		return
	}
	for _, id := range m.store.Battlefield() {
		card, ok := m.store.Card(id)
		if !ok || !card.Printed.Face0().HasCardType(primitives.TypeCreature) {
			continue
		}
		_, toughness := m.effectivePowerToughness(id)
		if toughness > 0 && card.DamageMarked >= toughness {
			if def, ok := m.abilities.Lookup(card.Printed.ID); ok {
				def.RemoveStatics(m.effects, primitives.AbilityId{Card: id, Index: 0})
			}
			m.store.MoveCard(id, primitives.ZoneGraveyard, card.Owner, m.turns.TurnNumber())
			m.events.Publish(rules.NewEvent(rules.EventPermanentDies, id, id, card.Owner))
		}
	}
	for _, seat := range []primitives.PlayerName{primitives.PlayerOne, primitives.PlayerTwo} {
		if m.life[seat] <= 0 {
			m.gameOver = true
			m.winner = m.opponentOf(seat)
		}
	}
}
