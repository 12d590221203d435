package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/contrib-stats/internal/domain"
	"github.com/schollz/progressbar/v3"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// GitHubGateway reads repository data straight from GitHub.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	counter       LineCounter
	progress      io.Writer
	logger        logrus.FieldLogger
}

// viewerRepositoriesQuery lists the repositories the token owner can see, most recently updated first.
type viewerRepositoriesQuery struct {
	Viewer struct {
		Repositories struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				Name  string
				Owner struct {
					Login string
				}
				URL string `graphql:"url"`
			}
		} `graphql:"repositories(first: 100, after: $cursor, affiliations: [OWNER, COLLABORATOR, ORGANIZATION_MEMBER], orderBy: {field: UPDATED_AT, direction: DESC})"`
	}
}

// commitHistoryQuery walks the default branch history with per-commit line stats.
type commitHistoryQuery struct {
	Repository struct {
		DefaultBranchRef struct {
			Target struct {
				Commit struct {
					History struct {
						PageInfo struct {
							HasNextPage bool
							EndCursor   githubv4.String
						}
						Nodes []struct {
							URL       string `graphql:"url"`
							Additions int
							Deletions int
							Author    struct {
								Name  string
								Email string
								User  *struct {
									Login string
								}
							}
						}
					} `graphql:"history(first: 100, after: $cursor)"`
				} `graphql:"... on Commit"`
			}
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway creates a gateway authenticated with token.
// progress, when non-nil, receives a spinner while commit history is paged in.
func NewGitHubGateway(token string, counter LineCounter, progress io.Writer, logger logrus.FieldLogger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		counter:       counter,
		progress:      progress,
		logger:        logger,
	}, nil
}

func (g *GitHubGateway) FetchRepositories(ctx context.Context) ([]domain.Repository, error) {
	g.logger.Debug("Fetching repositories using GraphQL API...")
	variables := map[string]interface{}{"cursor": (*githubv4.String)(nil)}
	var repos []domain.Repository
	for {
		var q viewerRepositoriesQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to query repositories: %w", err)
		}
		for _, node := range q.Viewer.Repositories.Nodes {
			repos = append(repos, domain.Repository{
				Name:     node.Name,
				Owner:    node.Owner.Login,
				CloneURL: node.URL + ".git",
			})
		}
		if !q.Viewer.Repositories.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Viewer.Repositories.PageInfo.EndCursor)
	}
	g.logger.WithField("count", len(repos)).Debug("Completed fetching repositories.")
	return repos, nil
}

func (g *GitHubGateway) FetchCommits(ctx context.Context, owner, repo string) ([]domain.Commit, error) {
	log := g.logger.WithFields(logrus.Fields{"owner": owner, "repo": repo})
	log.Debug("Fetching commit history using GraphQL API...")

	bar := g.newSpinner(fmt.Sprintf("commits %s/%s", owner, repo))
	defer bar.Finish()

	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"cursor": (*githubv4.String)(nil),
	}
	var commits []domain.Commit
	for {
		var q commitHistoryQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to query commit history for %s/%s: %w", owner, repo, err)
		}
		history := q.Repository.DefaultBranchRef.Target.Commit.History
		for _, node := range history.Nodes {
			c := domain.Commit{
				Author: domain.CommitAuthor{Name: node.Author.Name, Email: node.Author.Email},
				Stats: domain.CommitStats{
					Additions: node.Additions,
					Deletions: node.Deletions,
					Total:     node.Additions + node.Deletions,
				},
				URL: node.URL,
			}
			if node.Author.User != nil {
				c.Author.Login = node.Author.User.Login
			}
			commits = append(commits, c)
		}
		_ = bar.Add(len(history.Nodes))
		if !history.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(history.PageInfo.EndCursor)
		log.Debug("  Fetching next page of commits...")
	}
	log.WithField("count", len(commits)).Debug("Completed fetching commit history.")
	return commits, nil
}

func (g *GitHubGateway) FetchLinesOfCode(ctx context.Context, repoURL string) (domain.LineCount, error) {
	n, err := g.counter.CountLines(ctx, repoURL)
	if err != nil {
		return domain.LineCount{}, err
	}
	return domain.Lines(n), nil
}

func (g *GitHubGateway) FetchContributors(ctx context.Context, owner, repo string) ([]domain.Contributor, error) {
	g.logger.WithFields(logrus.Fields{"owner": owner, "repo": repo}).Debug("Fetching contributors using REST API...")
	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	var contributors []domain.Contributor
	for {
		page, resp, err := g.restClient.Repositories.ListContributors(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list contributors for %s/%s: %w", owner, repo, err)
		}
		for _, c := range page {
			if c.GetLogin() == "" {
				continue
			}
			contributors = append(contributors, domain.Contributor{Login: c.GetLogin(), Name: c.GetName()})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return contributors, nil
}

func (g *GitHubGateway) newSpinner(description string) *progressbar.ProgressBar {
	w := g.progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
