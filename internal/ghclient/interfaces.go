package ghclient

import (
	"context"

	"github.com/spiffcs/repoquery/internal/model"
)

// RepoFetcher defines the interface for repository data operations.
// This interface enables mocking the GitHub client in unit tests.
type RepoFetcher interface {
	SearchRepositories(ctx context.Context, spec SearchSpec) ([]model.RepositoryRecord, error)
	GetRepository(ctx context.Context, fullName string) (*model.RepositoryRecord, error)
	EnrichActivity(ctx context.Context, record *model.RepositoryRecord)
}

// Ensure Client implements RepoFetcher interface.
var _ RepoFetcher = (*Client)(nil)
