// Package constants provides a centralized location for all configuration
// values and magic numbers used throughout the repoquery application.
package constants

import "time"

// Query interpretation constants
const (
	// DefaultLimit is the number of results returned when a query does not
	// ask for a specific count.
	DefaultLimit = 10

	// MaxLimit caps the number of results a single query may request.
	MaxLimit = 50
)

// Data source constants
const (
	// MaxFetchAttempts is the number of times an outbound GitHub call is
	// attempted before falling back to synthetic data.
	MaxFetchAttempts = 3

	// ComparisonConcurrency bounds the number of repositories fetched in
	// parallel for a comparison query.
	ComparisonConcurrency = 4

	// TrendingDefaultDays is the lookback window for trending queries when
	// the query text carries no time qualifier.
	TrendingDefaultDays = 30

	// TrendingMinStars filters noise out of trending searches.
	TrendingMinStars = 10

	// ActivityWindowDays is the lookback used when counting recent commits
	// for a single repository.
	ActivityWindowDays = 30
)

// FetchTimeouts is the per-attempt timeout schedule for outbound GitHub
// calls. Attempt n uses FetchTimeouts[n]; the last entry is reused if the
// schedule is shorter than MaxFetchAttempts.
var FetchTimeouts = []time.Duration{
	10 * time.Second,
	20 * time.Second,
	30 * time.Second,
}

// Rate limiting constants
const (
	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged.
	RateLimitLowWatermark = 100

	// RateLimitBackoffBase is the starting delay for exponential backoff
	// after a rate-limited response.
	RateLimitBackoffBase = 2 * time.Second

	// RateLimitBackoffMax caps a single backoff sleep.
	RateLimitBackoffMax = 30 * time.Second
)

// Cache constants
const (
	// ResultCacheTTL is the default time-to-live for cached query results.
	ResultCacheTTL = 5 * time.Minute
)

// Text generation constants
const (
	// PrimaryModel is tried first for generative responses.
	PrimaryModel = "gpt-5"

	// FallbackModel is used when the primary model rejects the call.
	FallbackModel = "gpt-4o"

	// GenerateMaxTokens bounds the length of a generated answer.
	GenerateMaxTokens = 800

	// LLMRequestTimeout bounds a single call to the language model API.
	LLMRequestTimeout = 45 * time.Second
)
