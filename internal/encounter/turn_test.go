package encounter

import "testing"

func noneDead(int) bool { return false }

func TestTurnTrackerStart(t *testing.T) {
	tt := NewTurnTracker(0, 3)
	if tt.Started() {
		t.Fatalf("expected tracker at round 0 to be not started")
	}

	tt.Start()
	if tt.Round() != 1 || tt.Turn() != 0 {
		t.Fatalf("expected round 1 turn 0 after start, got round %d turn %d", tt.Round(), tt.Turn())
	}
	if !tt.Started() {
		t.Fatalf("expected tracker to be started")
	}
}

func TestTurnTrackerAdvanceWrapsRound(t *testing.T) {
	tt := NewTurnTracker(1, 0)

	for i := 1; i < 3; i++ {
		idx, ok := tt.Advance(3, noneDead)
		if !ok || idx != i {
			t.Fatalf("advance %d: expected index %d, got %d (ok=%t)", i, i, idx, ok)
		}
		if tt.Round() != 1 {
			t.Fatalf("expected to remain in round 1, got round %d", tt.Round())
		}
	}

	idx, ok := tt.Advance(3, noneDead)
	if !ok || idx != 0 {
		t.Fatalf("expected wrap to index 0, got %d (ok=%t)", idx, ok)
	}
	if tt.Round() != 2 {
		t.Fatalf("expected round 2 after wrap, got %d", tt.Round())
	}
}

func TestTurnTrackerAdvanceSkips(t *testing.T) {
	tt := NewTurnTracker(1, 0)
	dead := map[int]bool{1: true, 2: true}

	idx, ok := tt.Advance(4, func(i int) bool { return dead[i] })
	if !ok || idx != 3 {
		t.Fatalf("expected to skip to index 3, got %d (ok=%t)", idx, ok)
	}
	if tt.Round() != 1 {
		t.Fatalf("expected round 1, got %d", tt.Round())
	}
}

func TestTurnTrackerAdvanceAllOthersSkipped(t *testing.T) {
	tt := NewTurnTracker(1, 2)
	allDead := func(int) bool { return true }

	idx, ok := tt.Advance(4, allDead)
	if ok {
		t.Fatalf("expected advance to fail when every slot is skipped")
	}
	if idx != 1 || tt.Turn() != 1 {
		t.Fatalf("expected pointer on last examined slot 1, got %d", tt.Turn())
	}
	if tt.Round() != 2 {
		t.Fatalf("expected wrap during failed scan to count, got round %d", tt.Round())
	}
}

func TestTurnTrackerAdvanceEmpty(t *testing.T) {
	tt := NewTurnTracker(1, 0)
	if _, ok := tt.Advance(0, noneDead); ok {
		t.Fatalf("expected advance over empty roster to fail")
	}
	if tt.Round() != 1 {
		t.Fatalf("expected round unchanged, got %d", tt.Round())
	}
}

func TestTurnTrackerRewind(t *testing.T) {
	tt := NewTurnTracker(2, 1)

	tt.Rewind(3)
	if tt.Turn() != 0 || tt.Round() != 2 {
		t.Fatalf("expected round 2 turn 0, got round %d turn %d", tt.Round(), tt.Turn())
	}

	tt.Rewind(3)
	if tt.Turn() != 2 || tt.Round() != 1 {
		t.Fatalf("expected underflow to round 1 turn 2, got round %d turn %d", tt.Round(), tt.Turn())
	}
}

func TestTurnTrackerAdvanceThenRewindRestores(t *testing.T) {
	for start := 0; start < 3; start++ {
		tt := NewTurnTracker(4, start)
		tt.Advance(3, noneDead)
		tt.Rewind(3)
		if tt.Turn() != start || tt.Round() != 4 {
			t.Fatalf("start %d: expected round 4 turn %d, got round %d turn %d",
				start, start, tt.Round(), tt.Turn())
		}
	}
}

func TestTurnTrackerRewindEmptyRoster(t *testing.T) {
	tt := NewTurnTracker(0, 0)
	if _, ok := tt.Advance(0, noneDead); ok {
		t.Fatalf("expected advance over an empty roster to fail")
	}

	tt.Rewind(0)
	if tt.Round() != 0 || tt.Turn() != 0 {
		t.Fatalf("expected round 0 turn 0 after rewind on empty roster, got round %d turn %d", tt.Round(), tt.Turn())
	}
}
