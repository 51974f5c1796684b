package ghclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"

	"github.com/spiffcs/repoquery/internal/constants"
	"github.com/spiffcs/repoquery/internal/log"
	"github.com/spiffcs/repoquery/internal/model"
)

// SearchSpec describes one repository search.
type SearchSpec struct {
	// Keywords are free-text terms matched against name, description and
	// readme.
	Keywords []string
	// Language restricts results to a primary language.
	Language string
	// MinStars adds a stars:>=N qualifier when positive.
	MinStars int
	// PushedSince adds a pushed:>=date qualifier when non-zero.
	PushedSince time.Time
	// CreatedSince adds a created:>=date qualifier when non-zero.
	CreatedSince time.Time
	// Sort is the search sort field, usually "stars" or "updated".
	Sort string
	// Limit caps the number of returned records.
	Limit int
}

// buildSearchQuery assembles the GitHub search query string for a spec.
func buildSearchQuery(spec SearchSpec) string {
	var parts []string
	for _, kw := range spec.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if strings.ContainsAny(kw, " \t") {
			parts = append(parts, fmt.Sprintf("%q", kw))
		} else {
			parts = append(parts, kw)
		}
	}
	if spec.Language != "" {
		parts = append(parts, "language:"+spec.Language)
	}
	if spec.MinStars > 0 {
		parts = append(parts, fmt.Sprintf("stars:>=%d", spec.MinStars))
	}
	if !spec.PushedSince.IsZero() {
		parts = append(parts, "pushed:>="+spec.PushedSince.Format("2006-01-02"))
	}
	if !spec.CreatedSince.IsZero() {
		parts = append(parts, "created:>="+spec.CreatedSince.Format("2006-01-02"))
	}
	return strings.Join(parts, " ")
}

// SearchRepositories runs a repository search and converts the results.
// The request is retried on transient failures with escalating timeouts.
func (c *Client) SearchRepositories(ctx context.Context, spec SearchSpec) ([]model.RepositoryRecord, error) {
	queryStr := buildSearchQuery(spec)
	perPage := spec.Limit
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}

	opts := &gh.SearchOptions{
		Sort:  spec.Sort,
		Order: "desc",
		ListOptions: gh.ListOptions{
			PerPage: perPage,
		},
	}

	var records []model.RepositoryRecord
	err := c.withRetries(ctx, "search "+queryStr, func(ctx context.Context) error {
		result, _, err := c.client.Search.Repositories(ctx, queryStr, opts)
		if err != nil {
			return err
		}
		records = records[:0]
		for _, repo := range result.Repositories {
			records = append(records, repoToRecord(repo))
			if spec.Limit > 0 && len(records) >= spec.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetRepository fetches one repository by its owner/name identifier.
func (c *Client) GetRepository(ctx context.Context, fullName string) (*model.RepositoryRecord, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("invalid repository name %q, want owner/name", fullName)
	}

	var record model.RepositoryRecord
	err := c.withRetries(ctx, "get "+fullName, func(ctx context.Context) error {
		repo, _, err := c.client.Repositories.Get(ctx, owner, name)
		if err != nil {
			return err
		}
		record = repoToRecord(repo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// EnrichActivity fills in the recent commit and contributor counts for a
// record. Failures here are soft: the record stays usable without the
// activity numbers, so errors are logged and swallowed.
func (c *Client) EnrichActivity(ctx context.Context, record *model.RepositoryRecord) {
	owner, name, ok := strings.Cut(record.FullName, "/")
	if !ok {
		return
	}

	since := time.Now().AddDate(0, 0, -constants.ActivityWindowDays)
	commits, _, err := c.client.Repositories.ListCommits(ctx, owner, name, &gh.CommitsListOptions{
		Since:       since,
		ListOptions: gh.ListOptions{PerPage: 100},
	})
	if err != nil {
		log.Debug("commit activity fetch failed", "repo", record.FullName, "error", err)
	} else {
		record.RecentCommits = len(commits)
	}

	// With one contributor per page the last page index is the total count.
	_, resp, err := c.client.Repositories.ListContributors(ctx, owner, name, &gh.ListContributorsOptions{
		ListOptions: gh.ListOptions{PerPage: 1},
	})
	if err != nil {
		log.Debug("contributor count fetch failed", "repo", record.FullName, "error", err)
		return
	}
	if resp.LastPage > 0 {
		record.Contributors = resp.LastPage
	} else {
		record.Contributors = 1
	}
}

// withRetries runs fn up to the configured number of attempts, each under
// an escalating timeout. Rate limit errors back off exponentially between
// attempts; exhausting the schedule yields ErrUnavailable.
func (c *Client) withRetries(ctx context.Context, what string, fn func(ctx context.Context) error) error {
	var lastErr error
	backoff := constants.RateLimitBackoffBase

	for attempt := 0; attempt < constants.MaxFetchAttempts; attempt++ {
		timeout := constants.FetchTimeouts[min(attempt, len(constants.FetchTimeouts)-1)]
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		err := fn(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.Debug("fetch attempt failed", "op", what, "attempt", attempt+1, "error", err)

		if errors.Is(err, ErrRateLimited) {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
			if backoff > constants.RateLimitBackoffMax {
				backoff = constants.RateLimitBackoffMax
			}
		}
	}

	return fmt.Errorf("%w: %s: %v", ErrUnavailable, what, lastErr)
}

// repoToRecord converts a GitHub API repository to the domain record.
func repoToRecord(repo *gh.Repository) model.RepositoryRecord {
	record := model.RepositoryRecord{
		FullName:    repo.GetFullName(),
		Name:        repo.GetName(),
		Description: repo.GetDescription(),
		Stars:       repo.GetStargazersCount(),
		Forks:       repo.GetForksCount(),
		Language:    repo.GetLanguage(),
		HTMLURL:     repo.GetHTMLURL(),
		UpdatedAt:   repo.GetUpdatedAt().Time,
		PushedAt:    repo.GetPushedAt().Time,
		CreatedAt:   repo.GetCreatedAt().Time,
		OpenIssues:  repo.GetOpenIssuesCount(),
		Watchers:    repo.GetSubscribersCount(),
	}
	if lic := repo.GetLicense(); lic != nil {
		record.License = lic.GetSPDXID()
	}
	return record
}
