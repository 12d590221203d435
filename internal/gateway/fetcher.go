// Package gateway provides access to the upstream that serves repository data,
// either the stats backend or GitHub itself.
package gateway

import (
	"context"
	"fmt"

	"github.com/naka-gawa/contrib-stats/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching repository information.
type Fetcher interface {
	FetchRepositories(ctx context.Context) ([]domain.Repository, error)
	FetchCommits(ctx context.Context, owner, repo string) ([]domain.Commit, error)
	FetchLinesOfCode(ctx context.Context, repoURL string) (domain.LineCount, error)
	FetchContributors(ctx context.Context, owner, repo string) ([]domain.Contributor, error)
}

// HTTPError reports a non-2xx answer from an upstream endpoint.
type HTTPError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s returned %s", e.Endpoint, e.Status)
}
