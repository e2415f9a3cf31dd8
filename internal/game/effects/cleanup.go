package effects

// Duration tags a ReplacementEffect (or BaseReplacementEffect/
// BasePreventionEffect) with how long it remains eligible to apply,
// independent of the Layer/Modifier fold's own DurationContinuous/
// DurationThisTurn/DurationThisCombat/DurationWhileConditionHolds tags:
// replacement and prevention effects are consulted event-by-event as
// they fire rather than folded per characteristic, so they track their
// own, simpler lifetime here.
type Duration string

const (
	// DurationOneUse marks an effect used up the first time it actually
	// replaces or prevents something (a single shield counter, a one-shot
	// "the next damage dealt to you this turn is prevented"). The
	// ReplacementManager does not unregister it: ReplaceEvent records a
	// "consumed_effect_<id>" entry in the event's Metadata, and cleanup
	// passes leave OneUse effects in place.
	DurationOneUse Duration = "OneUse"
	// DurationUntilEndOfTurn marks an effect cleaned up at the end of
	// the turn it was created, win or lose whether it was ever used.
	DurationUntilEndOfTurn Duration = "UntilEndOfTurn"
	// DurationPermanent marks an effect with no expiry of its own; it
	// lasts until something else removes it (its source leaving the
	// battlefield, a RemoveBySourceAbility call, etc.).
	DurationPermanent Duration = "Permanent"
)

// CleanupEndOfTurnEffects removes every effect tracked by rm whose
// Duration is DurationUntilEndOfTurn. It is meant to be called once,
// during the cleanup step's end-of-turn processing.
func CleanupEndOfTurnEffects(rm *ReplacementManager) {
	if rm == nil {
		return
	}
	rm.CleanupExpiredEffects(DurationUntilEndOfTurn)
}
