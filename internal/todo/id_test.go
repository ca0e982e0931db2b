package todo

import (
	"testing"
	"time"
)

func TestIDGeneratorSameMillisecond(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	g := NewIDGenerator(0)
	g.now = func() time.Time { return frozen }

	seen := make(map[int64]bool)
	prev := int64(0)
	for i := 0; i < 100; i++ {
		id := g.Next()
		if seen[id] {
			t.Fatalf("duplicate id %d at step %d", id, i)
		}
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		seen[id] = true
		prev = id
	}
	if first := prev - 99; first != frozen.UnixMilli() {
		t.Errorf("first id: got %d, want %d", first, frozen.UnixMilli())
	}
}

func TestIDGeneratorFloor(t *testing.T) {
	g := NewIDGenerator(5_000_000_000_000)
	g.now = func() time.Time { return time.UnixMilli(1) }

	if got := g.Next(); got != 5_000_000_000_001 {
		t.Errorf("Next: got %d, want floor+1", got)
	}

	g.Observe(6_000_000_000_000)
	if got := g.Next(); got != 6_000_000_000_001 {
		t.Errorf("Next after Observe: got %d", got)
	}

	g.Observe(1)
	if got := g.Next(); got != 6_000_000_000_002 {
		t.Errorf("Observe should never lower the floor, got %d", got)
	}
}

func TestIDGeneratorClockBackwards(t *testing.T) {
	now := time.UnixMilli(2_000)
	g := NewIDGenerator(0)
	g.now = func() time.Time { return now }

	a := g.Next()
	now = time.UnixMilli(1_000)
	b := g.Next()
	if b <= a {
		t.Errorf("id went backwards with the clock: %d then %d", a, b)
	}
}
