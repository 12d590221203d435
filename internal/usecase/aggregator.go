// Package usecase contains the business logic of the application.
package usecase

import (
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/contrib-stats/internal/domain"
)

// AggregateCommits folds commits into per-author stats keyed by Commit.AuthorKey.
// The map is built from scratch on every call.
func AggregateCommits(commits []domain.Commit) domain.AuthorStatsMap {
	authors := make(domain.AuthorStatsMap)
	for _, c := range commits {
		key := c.AuthorKey()
		s, ok := authors[key]
		if !ok {
			s = &domain.AuthorStats{}
			authors[key] = s
		}
		s.Add(c.Stats)
	}
	return authors
}

// Summarize computes repository-wide figures over commits.
func Summarize(commits []domain.Commit, authors domain.AuthorStatsMap) domain.Summary {
	summary := domain.Summary{Authors: len(authors), Commits: len(commits)}
	if len(commits) == 0 {
		return summary
	}

	changes := make(stats.Float64Data, 0, len(commits))
	for _, c := range commits {
		changes = append(changes, float64(c.Stats.Total))
	}
	// Errors only occur on empty input, which is excluded above.
	mean, _ := changes.Mean()
	median, _ := changes.Median()
	summary.MeanChangesPerCommit, _ = stats.Round(mean, 1)
	summary.MedianChangesPerCommit, _ = stats.Round(median, 1)
	return summary
}

// BuildReport assembles the detail view data of one repository.
func BuildReport(repo domain.Repository, lines domain.LineCount, commits []domain.Commit, contributors []domain.Contributor) *domain.Report {
	authors := AggregateCommits(commits)
	if contributors == nil {
		contributors = []domain.Contributor{}
	}
	return &domain.Report{
		Repository:   repo,
		Lines:        lines,
		Authors:      authors,
		Contributors: contributors,
		Summary:      Summarize(commits, authors),
	}
}
