package datasource

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spiffcs/repoquery/internal/cache"
	"github.com/spiffcs/repoquery/internal/ghclient"
	"github.com/spiffcs/repoquery/internal/model"
	"github.com/spiffcs/repoquery/internal/query"
)

// fakeFetcher implements ghclient.RepoFetcher for tests.
type fakeFetcher struct {
	mu          sync.Mutex
	searchCalls int
	getCalls    []string
	searchFn    func(spec ghclient.SearchSpec) ([]model.RepositoryRecord, error)
	getFn       func(fullName string) (*model.RepositoryRecord, error)
}

func (f *fakeFetcher) SearchRepositories(_ context.Context, spec ghclient.SearchSpec) ([]model.RepositoryRecord, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	return f.searchFn(spec)
}

func (f *fakeFetcher) GetRepository(_ context.Context, fullName string) (*model.RepositoryRecord, error) {
	f.mu.Lock()
	f.getCalls = append(f.getCalls, fullName)
	f.mu.Unlock()
	if f.getFn != nil {
		return f.getFn(fullName)
	}
	return &model.RepositoryRecord{FullName: fullName, Stars: 1000}, nil
}

func (f *fakeFetcher) EnrichActivity(_ context.Context, _ *model.RepositoryRecord) {}

func searchReturning(records ...model.RepositoryRecord) func(ghclient.SearchSpec) ([]model.RepositoryRecord, error) {
	return func(ghclient.SearchSpec) ([]model.RepositoryRecord, error) {
		return records, nil
	}
}

func TestFetchCachesLiveResults(t *testing.T) {
	fetcher := &fakeFetcher{searchFn: searchReturning(
		model.RepositoryRecord{FullName: "pallets/flask", Stars: 67000},
	)}
	src := NewSource(fetcher, cache.NewCache(time.Minute), nil)

	req := query.Request{Intent: query.IntentSearch, Entities: []string{"flask"}, Limit: 5}

	first, err := src.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	second, err := src.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if fetcher.searchCalls != 1 {
		t.Errorf("searchCalls = %d, want 1 (second fetch should hit cache)", fetcher.searchCalls)
	}
	if len(first) != 1 || len(second) != 1 || first[0].FullName != second[0].FullName {
		t.Errorf("cached result differs: %v vs %v", first, second)
	}
}

func TestFetchWithoutCache(t *testing.T) {
	fetcher := &fakeFetcher{searchFn: searchReturning(
		model.RepositoryRecord{FullName: "a/b", Stars: 10},
	)}
	src := NewSource(fetcher, cache.NewCache(time.Minute), nil, WithoutCache())

	req := query.Request{Intent: query.IntentSearch, Entities: []string{"b"}, Limit: 5}
	_, _ = src.Fetch(context.Background(), req)
	_, _ = src.Fetch(context.Background(), req)

	if fetcher.searchCalls != 2 {
		t.Errorf("searchCalls = %d, want 2 with cache disabled", fetcher.searchCalls)
	}
}

func TestFetchFallsBackToSynthetic(t *testing.T) {
	fetcher := &fakeFetcher{searchFn: func(ghclient.SearchSpec) ([]model.RepositoryRecord, error) {
		return nil, ghclient.ErrUnavailable
	}}
	c := cache.NewCache(time.Minute)
	src := NewSource(fetcher, c, nil)

	req := query.Request{Intent: query.IntentRanking, Entities: []string{"Python"}, Limit: 3}
	records, err := src.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch() error = %v, want fallback instead", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d fallback records, want 3", len(records))
	}
	for _, r := range records {
		if !r.Synthetic {
			t.Errorf("record %s not marked synthetic", r.FullName)
		}
	}

	// Synthetic results are never cached.
	if _, ok := c.Get(cache.KeyFor(req)); ok {
		t.Error("synthetic records were cached")
	}
}

func TestFetchComparisonPreservesOrder(t *testing.T) {
	fetcher := &fakeFetcher{
		searchFn: searchReturning(),
		getFn: func(fullName string) (*model.RepositoryRecord, error) {
			// Vary latency so completion order differs from input order.
			if strings.HasPrefix(fullName, "vuejs/") {
				time.Sleep(10 * time.Millisecond)
			}
			return &model.RepositoryRecord{FullName: fullName, Stars: 100}, nil
		},
	}
	src := NewSource(fetcher, cache.NewCache(time.Minute), nil)

	req := query.Request{
		Intent:   query.IntentComparison,
		Entities: []string{"vue", "react"},
		Limit:    10,
	}
	records, err := src.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].FullName != "vuejs/vue" || records[1].FullName != "facebook/react" {
		t.Errorf("order not preserved: %s, %s", records[0].FullName, records[1].FullName)
	}
}

func TestFetchComparisonCacheRespectsEntityOrder(t *testing.T) {
	fetcher := &fakeFetcher{
		searchFn: searchReturning(),
		getFn: func(fullName string) (*model.RepositoryRecord, error) {
			return &model.RepositoryRecord{FullName: fullName, Stars: 100}, nil
		},
	}
	src := NewSource(fetcher, cache.NewCache(time.Minute), nil)

	// Warm the cache with the opposite phrasing first.
	warm := query.Request{
		Intent:   query.IntentComparison,
		Entities: []string{"vue", "react"},
		Limit:    10,
	}
	if _, err := src.Fetch(context.Background(), warm); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	req := query.Request{
		Intent:   query.IntentComparison,
		Entities: []string{"react", "vue"},
		Limit:    10,
	}
	records, err := src.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].FullName != "facebook/react" || records[1].FullName != "vuejs/vue" {
		t.Errorf("asked to compare react vs vue, got order: %s, %s",
			records[0].FullName, records[1].FullName)
	}

	// And the repeat of the same phrasing hits the cache in that order.
	again, err := src.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if again[0].FullName != "facebook/react" || again[1].FullName != "vuejs/vue" {
		t.Errorf("cached comparison lost entity order: %s, %s",
			again[0].FullName, again[1].FullName)
	}
}

func TestFetchComparisonFallbackCoversAllEntities(t *testing.T) {
	boom := errors.New("api down")
	fetcher := &fakeFetcher{
		searchFn: func(ghclient.SearchSpec) ([]model.RepositoryRecord, error) { return nil, boom },
		getFn:    func(string) (*model.RepositoryRecord, error) { return nil, boom },
	}
	src := NewSource(fetcher, cache.NewCache(time.Minute), nil)

	req := query.Request{
		Intent:   query.IntentComparison,
		Entities: []string{"react", "vue", "svelte"},
		Limit:    10,
	}
	records, err := src.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d fallback records, want one per entity", len(records))
	}
	for _, r := range records {
		if !r.Synthetic {
			t.Errorf("record %s not synthetic", r.FullName)
		}
	}
}

func TestFetchTrendingOrdersByVelocity(t *testing.T) {
	now := time.Now()
	fetcher := &fakeFetcher{searchFn: searchReturning(
		// Old project with many stars: low velocity.
		model.RepositoryRecord{FullName: "old/big", Stars: 10000, CreatedAt: now.AddDate(0, 0, -1000)},
		// Week-old project with fewer stars: high velocity.
		model.RepositoryRecord{FullName: "new/fast", Stars: 700, CreatedAt: now.AddDate(0, 0, -7)},
	)}
	src := NewSource(fetcher, cache.NewCache(time.Minute), nil)

	req := query.Request{Intent: query.IntentTrending, Entities: []string{"ai"}, Limit: 2}
	records, err := src.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if records[0].FullName != "new/fast" {
		t.Errorf("velocity ordering wrong: %s first", records[0].FullName)
	}
}

func TestFetchRankingBuildsLanguageSpec(t *testing.T) {
	var captured ghclient.SearchSpec
	fetcher := &fakeFetcher{searchFn: func(spec ghclient.SearchSpec) ([]model.RepositoryRecord, error) {
		captured = spec
		return []model.RepositoryRecord{{FullName: "a/b"}}, nil
	}}
	src := NewSource(fetcher, cache.NewCache(time.Minute), nil)

	req := query.Request{
		Intent:   query.IntentRanking,
		Entities: []string{"Python", "web frameworks"},
		Limit:    5,
	}
	if _, err := src.Fetch(context.Background(), req); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if captured.Language != "Python" {
		t.Errorf("Language = %q, want Python", captured.Language)
	}
	if len(captured.Keywords) != 1 || captured.Keywords[0] != "web frameworks" {
		t.Errorf("Keywords = %v", captured.Keywords)
	}
	if captured.Sort != "stars" {
		t.Errorf("Sort = %q, want stars", captured.Sort)
	}
	if captured.Limit != 5 {
		t.Errorf("Limit = %d, want 5", captured.Limit)
	}
}

func TestFetchEmptyResultFallsBack(t *testing.T) {
	fetcher := &fakeFetcher{searchFn: searchReturning()}
	src := NewSource(fetcher, cache.NewCache(time.Minute), nil)

	req := query.Request{Intent: query.IntentSearch, Entities: []string{"nonexistent thing"}, Limit: 2}
	records, err := src.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for _, r := range records {
		if !r.Synthetic {
			t.Error("empty live result should produce synthetic records")
		}
	}
}

func TestFetchContextCancellation(t *testing.T) {
	fetcher := &fakeFetcher{searchFn: func(ghclient.SearchSpec) ([]model.RepositoryRecord, error) {
		return nil, context.Canceled
	}}
	src := NewSource(fetcher, cache.NewCache(time.Minute), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := query.Request{Intent: query.IntentSearch, Entities: []string{"x"}, Limit: 1}
	if _, err := src.Fetch(ctx, req); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
