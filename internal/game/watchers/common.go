package watchers

import (
	"strconv"

	"github.com/forgecore/cardsim/internal/game/rules"
	"github.com/forgecore/cardsim/internal/primitives"
)

// SpellsCastWatcher tracks spells cast by players.
type SpellsCastWatcher struct {
	*rules.BaseWatcher
	spellsCast map[primitives.PlayerName][]primitives.CardId // playerID -> list of spell IDs
}

// NewSpellsCastWatcher creates a new spells cast watcher.
func NewSpellsCastWatcher() *SpellsCastWatcher {
	w := &SpellsCastWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		spellsCast:  make(map[primitives.PlayerName][]primitives.CardId),
	}
	w.SetKey("SpellsCastWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *SpellsCastWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventSpellCast {
		return
	}
	playerID := event.PlayerID
	if playerID == rules.NoPlayer {
		playerID = event.Controller
	}
	if playerID == rules.NoPlayer {
		return
	}
	spellID := event.TargetID
	if spellID == 0 {
		spellID = event.SourceID
	}
	if spellID == 0 {
		return
	}
	w.spellsCast[playerID] = append(w.spellsCast[playerID], spellID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *SpellsCastWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.spellsCast = make(map[primitives.PlayerName][]primitives.CardId)
}

// GetSpellsCast returns the list of spell IDs cast by a player.
func (w *SpellsCastWatcher) GetSpellsCast(playerID primitives.PlayerName) []primitives.CardId {
	return w.spellsCast[playerID]
}

// GetCount returns the number of spells cast by a player.
func (w *SpellsCastWatcher) GetCount(playerID primitives.PlayerName) int {
	return len(w.spellsCast[playerID])
}

// Copy creates a copy of this watcher.
func (w *SpellsCastWatcher) Copy() rules.Watcher {
	copy := NewSpellsCastWatcher()
	copy.SetControllerID(w.GetControllerID())
	copy.SetSourceID(w.GetSourceID())
	copy.SetCondition(w.ConditionMet())
	// Deep copy spells cast map
	copy.spellsCast = make(map[primitives.PlayerName][]primitives.CardId)
	for k, v := range w.spellsCast {
		copy.spellsCast[k] = append([]primitives.CardId(nil), v...)
	}
	return copy
}

// CreaturesDiedWatcher tracks creatures that died (went to graveyard from battlefield).
type CreaturesDiedWatcher struct {
	*rules.BaseWatcher
	creaturesDiedByController map[primitives.PlayerName]int // controllerID -> count
	creaturesDiedByOwner      map[primitives.PlayerName]int // ownerID -> count
}

// NewCreaturesDiedWatcher creates a new creatures died watcher.
func NewCreaturesDiedWatcher() *CreaturesDiedWatcher {
	w := &CreaturesDiedWatcher{
		BaseWatcher:                rules.NewBaseWatcher(rules.WatcherScopeGame),
		creaturesDiedByController: make(map[primitives.PlayerName]int),
		creaturesDiedByOwner:      make(map[primitives.PlayerName]int),
	}
	w.SetKey("CreaturesDiedWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *CreaturesDiedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventPermanentDies {
		return
	}
	// Check if it's a creature (would need to check card type from metadata)
	// For now, assume all permanent dies events are creatures
	controllerID := event.Controller
	ownerID := controllerID
	if raw, ok := event.Metadata["owner_id"]; ok && raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			ownerID = primitives.PlayerName(n)
		}
	}
	if controllerID != rules.NoPlayer {
		w.creaturesDiedByController[controllerID]++
	}
	if ownerID != rules.NoPlayer {
		w.creaturesDiedByOwner[ownerID]++
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CreaturesDiedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.creaturesDiedByController = make(map[primitives.PlayerName]int)
	w.creaturesDiedByOwner = make(map[primitives.PlayerName]int)
}

// GetAmountByController returns the number of creatures that died for a controller.
func (w *CreaturesDiedWatcher) GetAmountByController(controllerID primitives.PlayerName) int {
	return w.creaturesDiedByController[controllerID]
}

// GetAmountByOwner returns the number of creatures that died for an owner.
func (w *CreaturesDiedWatcher) GetAmountByOwner(ownerID primitives.PlayerName) int {
	return w.creaturesDiedByOwner[ownerID]
}

// GetTotalAmount returns the total number of creatures that died.
func (w *CreaturesDiedWatcher) GetTotalAmount() int {
	total := 0
	for _, count := range w.creaturesDiedByController {
		total += count
	}
	return total
}

// Copy creates a copy of this watcher.
func (w *CreaturesDiedWatcher) Copy() rules.Watcher {
	copy := NewCreaturesDiedWatcher()
	copy.SetControllerID(w.GetControllerID())
	copy.SetSourceID(w.GetSourceID())
	copy.SetCondition(w.ConditionMet())
	// Deep copy maps
	copy.creaturesDiedByController = make(map[primitives.PlayerName]int)
	for k, v := range w.creaturesDiedByController {
		copy.creaturesDiedByController[k] = v
	}
	copy.creaturesDiedByOwner = make(map[primitives.PlayerName]int)
	for k, v := range w.creaturesDiedByOwner {
		copy.creaturesDiedByOwner[k] = v
	}
	return copy
}

// CardsDrawnWatcher tracks cards drawn by players.
type CardsDrawnWatcher struct {
	*rules.BaseWatcher
	cardsDrawn map[primitives.PlayerName]int // playerID -> count
}

// NewCardsDrawnWatcher creates a new cards drawn watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	w := &CardsDrawnWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		cardsDrawn:  make(map[primitives.PlayerName]int),
	}
	w.SetKey("CardsDrawnWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *CardsDrawnWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDrewCard {
		return
	}
	playerID := event.PlayerID
	if playerID == rules.NoPlayer {
		playerID = event.Controller
	}
	if playerID == rules.NoPlayer {
		return
	}
	w.cardsDrawn[playerID]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsDrawnWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.cardsDrawn = make(map[primitives.PlayerName]int)
}

// GetCount returns the number of cards drawn by a player.
func (w *CardsDrawnWatcher) GetCount(playerID primitives.PlayerName) int {
	return w.cardsDrawn[playerID]
}

// Copy creates a copy of this watcher.
func (w *CardsDrawnWatcher) Copy() rules.Watcher {
	copy := NewCardsDrawnWatcher()
	copy.SetControllerID(w.GetControllerID())
	copy.SetSourceID(w.GetSourceID())
	copy.SetCondition(w.ConditionMet())
	// Deep copy map
	copy.cardsDrawn = make(map[primitives.PlayerName]int)
	for k, v := range w.cardsDrawn {
		copy.cardsDrawn[k] = v
	}
	return copy
}

// PermanentsEnteredWatcher tracks permanents that entered the battlefield.
type PermanentsEnteredWatcher struct {
	*rules.BaseWatcher
	permanentsEntered map[primitives.PlayerName][]primitives.CardId // controllerID -> list of permanent IDs
}

// NewPermanentsEnteredWatcher creates a new permanents entered watcher.
func NewPermanentsEnteredWatcher() *PermanentsEnteredWatcher {
	w := &PermanentsEnteredWatcher{
		BaseWatcher:       rules.NewBaseWatcher(rules.WatcherScopeGame),
		permanentsEntered: make(map[primitives.PlayerName][]primitives.CardId),
	}
	w.SetKey("PermanentsEnteredWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *PermanentsEnteredWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventEntersTheBattlefield {
		return
	}
	controllerID := event.Controller
	if controllerID == rules.NoPlayer {
		return
	}
	permanentID := event.TargetID
	if permanentID == 0 {
		permanentID = event.SourceID
	}
	if permanentID == 0 {
		return
	}
	w.permanentsEntered[controllerID] = append(w.permanentsEntered[controllerID], permanentID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *PermanentsEnteredWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.permanentsEntered = make(map[primitives.PlayerName][]primitives.CardId)
}

// GetPermanentsEntered returns the list of permanent IDs that entered for a controller.
func (w *PermanentsEnteredWatcher) GetPermanentsEntered(controllerID primitives.PlayerName) []primitives.CardId {
	return w.permanentsEntered[controllerID]
}

// Copy creates a copy of this watcher.
func (w *PermanentsEnteredWatcher) Copy() rules.Watcher {
	copy := NewPermanentsEnteredWatcher()
	copy.SetControllerID(w.GetControllerID())
	copy.SetSourceID(w.GetSourceID())
	copy.SetCondition(w.ConditionMet())
	// Deep copy map
	copy.permanentsEntered = make(map[primitives.PlayerName][]primitives.CardId)
	for k, v := range w.permanentsEntered {
		copy.permanentsEntered[k] = append([]primitives.CardId(nil), v...)
	}
	return copy
}
