package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/naka-gawa/contrib-stats/internal/domain"
	"github.com/sirupsen/logrus"
)

const (
	reposPath        = "/github/repos"
	commitsPath      = "/github/commits"
	locPath          = "/github/loc"
	contributorsPath = "/github/contributors"
)

type commitsParams struct {
	ProjectOwner string `url:"projectOwner"`
	RepoName     string `url:"repoName"`
}

type locParams struct {
	RepoURL string `url:"repoUrl"`
}

type contributorsParams struct {
	Owner    string `url:"owner"`
	RepoName string `url:"repoName"`
}

// BackendGateway talks to the stats backend that proxies GitHub.
type BackendGateway struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// NewBackendGateway creates a gateway for the backend rooted at baseURL, e.g. http://localhost:1323/api.
func NewBackendGateway(baseURL string, httpClient *http.Client, logger logrus.FieldLogger) (*BackendGateway, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend base URL %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BackendGateway{baseURL: u, httpClient: httpClient, logger: logger}, nil
}

func (g *BackendGateway) FetchRepositories(ctx context.Context) ([]domain.Repository, error) {
	var repos []domain.Repository
	if err := g.getJSON(ctx, reposPath, nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (g *BackendGateway) FetchCommits(ctx context.Context, owner, repo string) ([]domain.Commit, error) {
	var commits []domain.Commit
	if err := g.getJSON(ctx, commitsPath, commitsParams{ProjectOwner: owner, RepoName: repo}, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

func (g *BackendGateway) FetchLinesOfCode(ctx context.Context, repoURL string) (domain.LineCount, error) {
	var loc domain.LineCount
	if err := g.getJSON(ctx, locPath, locParams{RepoURL: repoURL}, &loc); err != nil {
		return domain.LineCount{}, err
	}
	return loc, nil
}

func (g *BackendGateway) FetchContributors(ctx context.Context, owner, repo string) ([]domain.Contributor, error) {
	var contributors []domain.Contributor
	if err := g.getJSON(ctx, contributorsPath, contributorsParams{Owner: owner, RepoName: repo}, &contributors); err != nil {
		return nil, err
	}
	return contributors, nil
}

// getJSON issues a GET against path and decodes the JSON body into out.
// params, when non-nil, is encoded with url struct tags.
func (g *BackendGateway) getJSON(ctx context.Context, path string, params interface{}, out interface{}) error {
	u := *g.baseURL
	u.Path += path
	if params != nil {
		values, err := query.Values(params)
		if err != nil {
			return fmt.Errorf("failed to encode query for %s: %w", path, err)
		}
		u.RawQuery = values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	g.logger.WithField("url", u.String()).Debug("Requesting backend")
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Endpoint: path, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
