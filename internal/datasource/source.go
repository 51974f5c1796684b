// Package datasource resolves structured queries into repository records,
// preferring live API data with cache and synthetic fallbacks behind it.
package datasource

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spiffcs/repoquery/internal/cache"
	"github.com/spiffcs/repoquery/internal/constants"
	"github.com/spiffcs/repoquery/internal/ghclient"
	"github.com/spiffcs/repoquery/internal/log"
	"github.com/spiffcs/repoquery/internal/model"
	"github.com/spiffcs/repoquery/internal/query"
)

// Source answers structured queries. Results come from the cache when
// fresh, the live API otherwise, and the synthetic generator when the API
// cannot be reached. Fetch is total: callers always receive records.
type Source struct {
	fetcher ghclient.RepoFetcher
	cache   cache.Cacher
	aliases *query.AliasMap

	trendingDays     int
	trendingMinStars int
	skipCache        bool
	enrichActivity   bool
}

// Option configures a Source.
type Option func(*Source)

// WithTrendingWindow overrides the default trending lookback in days.
func WithTrendingWindow(days int) Option {
	return func(s *Source) {
		if days > 0 {
			s.trendingDays = days
		}
	}
}

// WithTrendingMinStars overrides the star floor for trending searches.
func WithTrendingMinStars(stars int) Option {
	return func(s *Source) {
		if stars >= 0 {
			s.trendingMinStars = stars
		}
	}
}

// WithoutCache disables cache reads and writes for this source.
func WithoutCache() Option {
	return func(s *Source) { s.skipCache = true }
}

// WithActivityEnrichment turns on per-repository commit and contributor
// counting for comparison results. It costs extra API calls per entity.
func WithActivityEnrichment() Option {
	return func(s *Source) { s.enrichActivity = true }
}

// NewSource creates a data source over the given fetcher and cache.
func NewSource(fetcher ghclient.RepoFetcher, cacher cache.Cacher, aliases *query.AliasMap, opts ...Option) *Source {
	s := &Source{
		fetcher:          fetcher,
		cache:            cacher,
		aliases:          aliases,
		trendingDays:     constants.TrendingDefaultDays,
		trendingMinStars: constants.TrendingMinStars,
	}
	if s.aliases == nil {
		s.aliases = query.NewAliasMap(nil)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch resolves a request into records. The returned records may be
// synthetic when the live API failed; synthetic results are never cached
// so a recovered API serves real data on the next call.
func (s *Source) Fetch(ctx context.Context, req query.Request) ([]model.RepositoryRecord, error) {
	req.Normalize()
	key := cache.KeyFor(req)

	if !s.skipCache {
		if records, ok := s.cache.Get(key); ok {
			log.Debug("cache hit", "key", key)
			return records, nil
		}
	}

	records, err := s.fetchLive(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Error("live fetch failed, generating fallback data", "error", err)
		return syntheticRecords(req), nil
	}

	if len(records) == 0 {
		log.Debug("live fetch returned nothing, generating fallback data")
		return syntheticRecords(req), nil
	}

	if !s.skipCache {
		s.cache.Set(key, records)
	}
	return records, nil
}

// fetchLive dispatches to the per-intent fetch strategy.
func (s *Source) fetchLive(ctx context.Context, req query.Request) ([]model.RepositoryRecord, error) {
	switch req.Intent {
	case query.IntentComparison:
		return s.fetchComparison(ctx, req)
	case query.IntentTrending:
		return s.fetchTrending(ctx, req)
	case query.IntentRanking:
		return s.fetchRanking(ctx, req)
	default:
		return s.fetchSearch(ctx, req)
	}
}

// splitEntities separates language entities from free-text keywords.
// Only the first recognized language becomes a qualifier; GitHub search
// treats multiple language qualifiers as an unsatisfiable AND.
func splitEntities(entities []string) (language string, keywords []string) {
	for _, e := range entities {
		if canonical, ok := query.CanonicalLanguage(strings.ToLower(e)); ok && language == "" {
			language = canonical
			continue
		}
		keywords = append(keywords, e)
	}
	return language, keywords
}

func (s *Source) fetchRanking(ctx context.Context, req query.Request) ([]model.RepositoryRecord, error) {
	language, keywords := splitEntities(req.Entities)
	spec := ghclient.SearchSpec{
		Keywords: keywords,
		Language: language,
		Sort:     "stars",
		Limit:    req.Limit,
	}
	if days := req.Window.Days(); days > 0 {
		spec.PushedSince = time.Now().AddDate(0, 0, -days)
	}
	return s.fetcher.SearchRepositories(ctx, spec)
}

func (s *Source) fetchSearch(ctx context.Context, req query.Request) ([]model.RepositoryRecord, error) {
	language, keywords := splitEntities(req.Entities)
	spec := ghclient.SearchSpec{
		Keywords: keywords,
		Language: language,
		Limit:    req.Limit,
	}
	if days := req.Window.Days(); days > 0 {
		spec.PushedSince = time.Now().AddDate(0, 0, -days)
	}
	return s.fetcher.SearchRepositories(ctx, spec)
}

// fetchTrending searches for recently created repositories that already
// picked up stars, then orders them by star velocity rather than raw count
// so young fast-growing projects beat older large ones.
func (s *Source) fetchTrending(ctx context.Context, req query.Request) ([]model.RepositoryRecord, error) {
	days := req.Window.Days()
	if days == 0 {
		days = s.trendingDays
	}

	language, keywords := splitEntities(req.Entities)
	spec := ghclient.SearchSpec{
		Keywords:     keywords,
		Language:     language,
		MinStars:     s.trendingMinStars,
		CreatedSince: time.Now().AddDate(0, 0, -days),
		Sort:         "stars",
		// Over-fetch so the velocity reordering has candidates to work with.
		Limit: req.Limit * 3,
	}

	records, err := s.fetcher.SearchRepositories(ctx, spec)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return starVelocity(records[i]) > starVelocity(records[j])
	})
	if len(records) > req.Limit {
		records = records[:req.Limit]
	}
	return records, nil
}

// starVelocity is stars per day since creation.
func starVelocity(r model.RepositoryRecord) float64 {
	age := time.Since(r.CreatedAt).Hours() / 24
	if age < 1 {
		age = 1
	}
	return float64(r.Stars) / age
}

// fetchComparison resolves each compared entity concurrently and
// reassembles the results in the order the entities were mentioned.
func (s *Source) fetchComparison(ctx context.Context, req query.Request) ([]model.RepositoryRecord, error) {
	results := make([]*model.RepositoryRecord, len(req.Entities))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.ComparisonConcurrency)

	for i, entity := range req.Entities {
		g.Go(func() error {
			record, err := s.resolveEntity(gctx, entity)
			if err != nil {
				return err
			}
			if s.enrichActivity {
				s.fetcher.EnrichActivity(gctx, record)
			}
			mu.Lock()
			results[i] = record
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]model.RepositoryRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records, nil
}

// resolveEntity finds the repository a compared name refers to: a known
// alias or owner/name form fetches directly, anything else takes the top
// search result.
func (s *Source) resolveEntity(ctx context.Context, entity string) (*model.RepositoryRecord, error) {
	if fullName, ok := s.aliases.Resolve(entity); ok {
		record, err := s.fetcher.GetRepository(ctx, fullName)
		if err == nil {
			return record, nil
		}
		log.Debug("direct lookup failed, falling back to search", "entity", entity, "error", err)
	}

	records, err := s.fetcher.SearchRepositories(ctx, ghclient.SearchSpec{
		Keywords: []string{entity},
		Sort:     "stars",
		Limit:    1,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ghclient.ErrUnavailable
	}
	return &records[0], nil
}
