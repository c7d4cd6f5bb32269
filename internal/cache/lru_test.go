package cache

import (
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}

	// "b" is now least recently used.
	c.Set("c", "3")
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}

	c.Set("a", "updated")
	if v, _ := c.Get("a"); v != "updated" {
		t.Errorf("Get(a) after overwrite = %q", v)
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be deleted")
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)
	c.Set("x", 1)
	c.Set("y", 2)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("x"); ok {
		t.Error("expected x to be expired")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired() = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestLRUCacheClearAndGeneration(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("x", 1)

	gen := c.Generation()
	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("Size() after Clear = %d", c.Size())
	}
	if c.SetIfGeneration(gen, "x", 2) {
		t.Error("stale generation should not be stored")
	}
	if _, ok := c.Get("x"); ok {
		t.Error("stale value present")
	}
	if !c.SetIfGeneration(c.Generation(), "x", 3) {
		t.Error("current generation should be stored")
	}
	if v, ok := c.Get("x"); !ok || v != 3 {
		t.Errorf("Get(x) = %d, %v", v, ok)
	}
}

func TestManagerCleanup(t *testing.T) {
	c := NewLRUCache[int](10, time.Millisecond)
	c.Set("x", 1)

	m := NewManager(nil)
	m.Register(c)
	m.StartCleanup(5 * time.Millisecond)
	defer m.Stop()

	deadline := time.Now().Add(time.Second)
	for c.Size() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("expired entry never cleaned")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestManagerStopWithoutStart(t *testing.T) {
	m := NewManager(nil)
	m.Stop()
	m.Stop()
}
