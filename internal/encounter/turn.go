package encounter

// TurnTracker holds the round counter and the turn pointer into the roster.
// Round 0 means the encounter has not started.
type TurnTracker struct {
	round int
	turn  int
}

// NewTurnTracker creates a tracker at the given position.
func NewTurnTracker(round, turn int) *TurnTracker {
	return &TurnTracker{round: round, turn: turn}
}

// Round returns the current round (0 before the encounter starts).
func (tt *TurnTracker) Round() int {
	return tt.round
}

// Turn returns the roster index whose turn is active.
func (tt *TurnTracker) Turn() int {
	return tt.turn
}

// Started reports whether the encounter has been started.
func (tt *TurnTracker) Started() bool {
	return tt.round > 0
}

// Start resets to round 1, first roster slot.
func (tt *TurnTracker) Start() {
	tt.round = 1
	tt.turn = 0
}

// Advance steps the pointer forward over a roster of the given size,
// incrementing the round on every wrap past the last slot. Slots for which
// skip returns true are passed over. The scan covers every slot except the
// starting one; when the next slot would be the starting slot again, ok is
// false and the pointer stays on the last slot examined. Round increments
// from wraps persist either way.
func (tt *TurnTracker) Advance(size int, skip func(idx int) bool) (idx int, ok bool) {
	if size <= 0 {
		return tt.turn, false
	}
	tt.clampTo(size)
	start := tt.turn
	for {
		next := tt.turn + 1
		if next >= size {
			next = 0
			tt.round++
		}
		if next == start {
			return tt.turn, false
		}
		tt.turn = next
		if !skip(next) {
			return next, true
		}
	}
}

// Rewind steps the pointer back one slot, decrementing the round when it
// underflows past slot 0. It does nothing for an empty roster, matching
// Advance.
func (tt *TurnTracker) Rewind(size int) {
	if size <= 0 {
		return
	}
	if tt.turn > 0 {
		tt.turn--
		return
	}
	tt.turn = max(0, size-1)
	tt.round--
}

// clampTo keeps the pointer inside a roster that shrank.
func (tt *TurnTracker) clampTo(size int) {
	if size == 0 {
		tt.turn = 0
		return
	}
	if tt.turn >= size {
		tt.turn = size - 1
	}
}
