package cache

import "testing"

func TestPutUpdatesExistingEntryWithoutGrowing(t *testing.T) {
	c := NewLRU[string, string](2)

	c.Put("alpha", "x")
	c.Put("beta", "value")
	c.Put("alpha", "y")

	if c.Len() != 2 {
		t.Fatalf("unexpected cache length: got %d, want 2", c.Len())
	}
	if value, hit := c.Get("alpha"); !hit || value != "y" {
		t.Fatalf("expected updated alpha, hit=%v value=%q", hit, value)
	}
	if value, hit := c.Get("beta"); !hit || value != "value" {
		t.Fatalf("expected beta to remain in cache, hit=%v value=%q", hit, value)
	}
}

type customKey struct {
	name string
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[customKey, []byte](2)

	c.Put(customKey{"first"}, []byte("a"))
	c.Put(customKey{"second"}, []byte("b"))
	c.Get(customKey{"first"})
	c.Put(customKey{"third"}, []byte("c"))

	if _, hit := c.Get(customKey{"second"}); hit {
		t.Fatalf("expected second to be evicted")
	}
	if _, hit := c.Get(customKey{"first"}); !hit {
		t.Fatalf("expected recently used first to survive")
	}
	if c.Len() != 2 {
		t.Fatalf("unexpected cache length: got %d, want 2", c.Len())
	}
}

func TestNewLRUClampsSize(t *testing.T) {
	c := NewLRU[int, int](0)
	c.Put(1, 1)
	c.Put(2, 2)

	if c.Len() != 1 {
		t.Fatalf("expected size to clamp to 1, got %d", c.Len())
	}
}
