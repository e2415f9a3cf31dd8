package counters

import (
	"fmt"
	"time"

	"github.com/forgecore/cardsim/internal/game/rules"
	"github.com/forgecore/cardsim/internal/primitives"
)

// CounterOperations provides counter manipulation functions for game objects.
type CounterOperations struct {
	eventBus *rules.EventBus
}

// NewCounterOperations creates a new CounterOperations instance.
func NewCounterOperations(eventBus *rules.EventBus) *CounterOperations {
	return &CounterOperations{
		eventBus: eventBus,
	}
}

// AddCounterToCard publishes a counter-added event for a card; it does
// not change any counter collection itself.
func (co *CounterOperations) AddCounterToCard(cardID primitives.CardId, counter *Counter, controllerID primitives.PlayerName, timestamp time.Time) {
	if counter == nil || counter.Count <= 0 {
		return
	}

	// Emit counter added event
	co.eventBus.Publish(rules.Event{
		Type:       rules.EventCounterAdded,
		ID:         fmt.Sprintf("event-counter-added-%d-%d", cardID, timestamp.UnixNano()),
		TargetID:   cardID,
		SourceID:   cardID,
		Controller: controllerID,
		PlayerID:   controllerID,
		Amount:     counter.Count,
		Data:       counter.Name,
		Timestamp:  timestamp,
		Metadata: map[string]string{
			"counter_name":  counter.Name,
			"counter_count": fmt.Sprintf("%d", counter.Count),
		},
		Description: fmt.Sprintf("Added %d %s counter(s) to %d", counter.Count, counter.Name, cardID),
	})
}

// RemoveCounterFromCard publishes a counter-removed event for a card; it
// does not change any counter collection itself and reports true for any
// positive amount.
func (co *CounterOperations) RemoveCounterFromCard(cardID primitives.CardId, counterName string, amount int, controllerID primitives.PlayerName, timestamp time.Time) bool {
	if amount <= 0 {
		return false
	}

	// Emit counter removed event
	co.eventBus.Publish(rules.Event{
		Type:       rules.EventCounterRemoved,
		ID:         fmt.Sprintf("event-counter-removed-%d-%d", cardID, timestamp.UnixNano()),
		TargetID:   cardID,
		SourceID:   cardID,
		Controller: controllerID,
		PlayerID:   controllerID,
		Amount:     amount,
		Data:       counterName,
		Timestamp:  timestamp,
		Metadata: map[string]string{
			"counter_name":  counterName,
			"counter_count": fmt.Sprintf("%d", amount),
		},
		Description: fmt.Sprintf("Removed %d %s counter(s) from %d", amount, counterName, cardID),
	})

	return true
}

// AddCountersToCard publishes one batch event plus one counter-added event
// per counter (batch operation); no counter collection is changed.
func (co *CounterOperations) AddCountersToCard(cardID primitives.CardId, counters []*Counter, controllerID primitives.PlayerName, timestamp time.Time) {
	if len(counters) == 0 {
		return
	}

	// Emit batch counters added event
	co.eventBus.Publish(rules.Event{
		Type:       rules.EventCountersAdded,
		ID:         fmt.Sprintf("event-counters-added-%d-%d", cardID, timestamp.UnixNano()),
		TargetID:   cardID,
		SourceID:   cardID,
		Controller: controllerID,
		PlayerID:   controllerID,
		Timestamp:  timestamp,
		Metadata: map[string]string{
			"counter_count": fmt.Sprintf("%d", len(counters)),
		},
		Description: fmt.Sprintf("Added %d counter(s) to %d", len(counters), cardID),
	})

	// Also emit individual counter added events
	for _, counter := range counters {
		co.AddCounterToCard(cardID, counter, controllerID, timestamp)
	}
}

// RemoveCountersFromCard publishes one batch event plus one counter-removed
// event per entry (batch operation); no counter collection is changed.
func (co *CounterOperations) RemoveCountersFromCard(cardID primitives.CardId, counters map[string]int, controllerID primitives.PlayerName, timestamp time.Time) {
	if len(counters) == 0 {
		return
	}

	// Emit batch counters removed event
	co.eventBus.Publish(rules.Event{
		Type:       rules.EventCountersRemoved,
		ID:         fmt.Sprintf("event-counters-removed-%d-%d", cardID, timestamp.UnixNano()),
		TargetID:   cardID,
		SourceID:   cardID,
		Controller: controllerID,
		PlayerID:   controllerID,
		Timestamp:  timestamp,
		Metadata: map[string]string{
			"counter_count": fmt.Sprintf("%d", len(counters)),
		},
		Description: fmt.Sprintf("Removed counters from %d", cardID),
	})

	// Also emit individual counter removed events
	for counterName, amount := range counters {
		co.RemoveCounterFromCard(cardID, counterName, amount, controllerID, timestamp)
	}
}
