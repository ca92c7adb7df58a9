package cache

import (
	"testing"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/facade"
)

func TestGetMissOnEmptyCache(t *testing.T) {
	c := New(DefaultCapacity)
	if _, ok := c.Get("a.kt"); ok {
		t.Error("Get on empty cache returned ok=true")
	}
}

func TestPutThenGetRoundTrips(t *testing.T) {
	c := New(DefaultCapacity)
	want := []facade.ResolvedSymbol{{Name: "Foo", Kind: facade.KindClass}}
	c.Put("a.kt", want)

	got, ok := c.Get("a.kt")
	if !ok {
		t.Fatal("Get after Put returned ok=false")
	}
	if len(got) != 1 || got[0].Name != "Foo" {
		t.Errorf("Get = %v, want %v", got, want)
	}
}

func TestInvalidateRemovesExactlyOneEntry(t *testing.T) {
	c := New(DefaultCapacity)
	c.Put("a.kt", []facade.ResolvedSymbol{{Name: "A"}})
	c.Put("b.kt", []facade.ResolvedSymbol{{Name: "B"}})

	c.Invalidate("a.kt")

	if _, ok := c.Get("a.kt"); ok {
		t.Error("a.kt survived Invalidate")
	}
	if _, ok := c.Get("b.kt"); !ok {
		t.Error("b.kt was dropped by an unrelated Invalidate")
	}
}

func TestClearFlushesEverything(t *testing.T) {
	c := New(DefaultCapacity)
	c.Put("a.kt", []facade.ResolvedSymbol{{Name: "A"}})
	c.Clear()
	if _, ok := c.Get("a.kt"); ok {
		t.Error("entry survived Clear")
	}
}

func TestEvictsLeastRecentlyUsedAtCapacity(t *testing.T) {
	c := New(2)
	c.Put("a.kt", []facade.ResolvedSymbol{{Name: "A"}})
	c.Put("b.kt", []facade.ResolvedSymbol{{Name: "B"}})
	c.Get("a.kt") // a.kt is now most-recently-used
	c.Put("c.kt", []facade.ResolvedSymbol{{Name: "C"}}) // evicts b.kt

	if _, ok := c.Get("b.kt"); ok {
		t.Error("b.kt should have been evicted")
	}
	if _, ok := c.Get("a.kt"); !ok {
		t.Error("a.kt should have survived eviction")
	}
	if _, ok := c.Get("c.kt"); !ok {
		t.Error("c.kt should be present")
	}
}
