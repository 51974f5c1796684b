package cache

import (
	"testing"
	"time"

	"github.com/spiffcs/repoquery/internal/model"
	"github.com/spiffcs/repoquery/internal/query"
)

func TestKeyForNormalization(t *testing.T) {
	a := KeyFor(query.Request{
		Intent:   query.IntentComparison,
		Entities: []string{"React", "Vue"},
		Limit:    10,
	})
	b := KeyFor(query.Request{
		Intent:   query.IntentComparison,
		Entities: []string{"react", "vue"},
		Limit:    10,
	})
	if a != b {
		t.Errorf("keys differ across entity casing: %q vs %q", a, b)
	}

	// Comparison records are cached in entity order, so reversed sides
	// must map to their own entry.
	rev := KeyFor(query.Request{
		Intent:   query.IntentComparison,
		Entities: []string{"vue", "react"},
		Limit:    10,
	})
	if a == rev {
		t.Errorf("comparison keys collide across entity order: %q", a)
	}

	// Every other intent is order-insensitive.
	r1 := KeyFor(query.Request{
		Intent:   query.IntentRanking,
		Entities: []string{"Python", "web"},
		Limit:    10,
	})
	r2 := KeyFor(query.Request{
		Intent:   query.IntentRanking,
		Entities: []string{"web", "python"},
		Limit:    10,
	})
	if r1 != r2 {
		t.Errorf("ranking keys differ across entity order: %q vs %q", r1, r2)
	}

	c := KeyFor(query.Request{
		Intent:   query.IntentComparison,
		Entities: []string{"react", "vue"},
		Limit:    5,
	})
	if a == c {
		t.Errorf("keys collide across different limits: %q", a)
	}

	d := KeyFor(query.Request{
		Intent:   query.IntentRanking,
		Entities: []string{"react", "vue"},
		Limit:    10,
	})
	if a == d {
		t.Errorf("keys collide across different intents: %q", a)
	}

	e := KeyFor(query.Request{
		Intent:   query.IntentComparison,
		Entities: []string{"react", "vue"},
		Limit:    10,
		Window:   query.WindowWeek,
	})
	if a == e {
		t.Errorf("keys collide across different windows: %q", a)
	}
}

func TestCacheGetSet(t *testing.T) {
	c := NewCache(time.Minute)
	records := []model.RepositoryRecord{
		{FullName: "facebook/react", Stars: 200000},
	}

	if _, ok := c.Get("k"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	c.Set("k", records)
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if len(got) != 1 || got[0].FullName != "facebook/react" {
		t.Errorf("got %+v", got)
	}

	// Mutating the returned slice must not affect the cached copy.
	got[0].Stars = 0
	again, _ := c.Get("k")
	if again[0].Stars != 200000 {
		t.Error("cached record mutated through returned slice")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := NewCache(5 * time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	c.now = func() time.Time { return current }

	c.Set("k", []model.RepositoryRecord{{FullName: "a/b"}})

	current = base.Add(4 * time.Minute)
	if _, ok := c.Get("k"); !ok {
		t.Error("entry expired before TTL")
	}

	current = base.Add(6 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("entry still valid past TTL")
	}

	// Expired entries remain counted until overwritten or cleared.
	total, valid := c.Stats()
	if total != 1 || valid != 0 {
		t.Errorf("Stats() = (%d, %d), want (1, 0)", total, valid)
	}

	// Overwriting refreshes the entry.
	c.Set("k", []model.RepositoryRecord{{FullName: "a/b"}})
	if _, ok := c.Get("k"); !ok {
		t.Error("overwritten entry should be valid again")
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []model.RepositoryRecord{{FullName: "x/y"}})
	c.Set("b", []model.RepositoryRecord{{FullName: "y/z"}})

	c.Clear()
	total, _ := c.Stats()
	if total != 0 {
		t.Errorf("Stats total = %d after Clear, want 0", total)
	}
}
