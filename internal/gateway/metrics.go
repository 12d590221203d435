package gateway

import (
	"context"
	"time"

	"github.com/naka-gawa/contrib-stats/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// instrumented wraps a Fetcher with call counters and latency histograms.
type instrumented struct {
	next     Fetcher
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// Instrument registers the upstream metrics on reg and returns a Fetcher that records them.
func Instrument(next Fetcher, reg prometheus.Registerer) Fetcher {
	factory := promauto.With(reg)
	return &instrumented{
		next: next,
		calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contrib_stats_upstream_calls_total",
				Help: "Total number of upstream calls.",
			},
			[]string{"operation", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contrib_stats_upstream_call_duration_seconds",
				Help:    "Duration of upstream calls.",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
			[]string{"operation"},
		),
	}
}

func (m *instrumented) observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.calls.WithLabelValues(operation, status).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *instrumented) FetchRepositories(ctx context.Context) (repos []domain.Repository, err error) {
	defer func(start time.Time) { m.observe("repos", start, err) }(time.Now())
	return m.next.FetchRepositories(ctx)
}

func (m *instrumented) FetchCommits(ctx context.Context, owner, repo string) (commits []domain.Commit, err error) {
	defer func(start time.Time) { m.observe("commits", start, err) }(time.Now())
	return m.next.FetchCommits(ctx, owner, repo)
}

func (m *instrumented) FetchLinesOfCode(ctx context.Context, repoURL string) (loc domain.LineCount, err error) {
	defer func(start time.Time) { m.observe("loc", start, err) }(time.Now())
	return m.next.FetchLinesOfCode(ctx, repoURL)
}

func (m *instrumented) FetchContributors(ctx context.Context, owner, repo string) (contributors []domain.Contributor, err error) {
	defer func(start time.Time) { m.observe("contributors", start, err) }(time.Now())
	return m.next.FetchContributors(ctx, owner, repo)
}
