package dedup

import (
	"testing"
	"time"
)

func TestSeenWithinWindow(t *testing.T) {
	c := NewWindowCache(time.Minute, 10)

	if c.Seen("a") {
		t.Fatal("first sighting should not be seen")
	}
	if !c.Seen("a") {
		t.Fatal("second sighting within window should be seen")
	}
	if c.Seen("b") {
		t.Fatal("different key should not be seen")
	}
}

func TestSeenExpiresAfterWindow(t *testing.T) {
	c := NewWindowCache(time.Minute, 10)
	base := time.Now()
	c.now = func() time.Time { return base }

	c.Seen("a")

	c.now = func() time.Time { return base.Add(61 * time.Second) }
	if c.Seen("a") {
		t.Fatal("entry older than window should have expired")
	}
}

func TestCapacityEvictsOldestFirst(t *testing.T) {
	c := NewWindowCache(time.Hour, 3)

	c.Seen("a")
	c.Seen("b")
	c.Seen("c")
	c.Seen("d") // 淘汰 a

	if c.Len() != 3 {
		t.Fatalf("len = %d, want 3", c.Len())
	}
	if c.Seen("a") {
		t.Fatal("oldest entry should have been evicted")
	}
	if !c.Seen("d") {
		t.Fatal("newest entry should still be present")
	}
}
