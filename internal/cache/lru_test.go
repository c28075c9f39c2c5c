package cache

import (
	"testing"
	"time"
)

func TestLRUCache_Eviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Hour)
	c.Set("2024", 1)
	c.Set("2025", 2)
	c.Get("2024") // 2025 becomes least recently used
	c.Set("2026", 3)

	if _, ok := c.Get("2025"); ok {
		t.Error("expected 2025 to be evicted")
	}
	if v, ok := c.Get("2024"); !ok || v != 1 {
		t.Errorf("Get(2024) = %v, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", "x")
	c.Set("b", "y")
	now = now.Add(30 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry expired too early")
	}

	now = now.Add(time.Minute)
	if removed := c.CleanExpired(); removed != 2 {
		t.Errorf("CleanExpired() = %d, want 2", removed)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expired entry still returned")
	}
}

func TestLRUCache_Delete(t *testing.T) {
	c := NewLRUCache[int](2, time.Hour)
	c.Set("k", 1)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("deleted entry still returned")
	}
}
