package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/naka-gawa/contrib-stats/internal/domain"
	"github.com/naka-gawa/contrib-stats/internal/gateway"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrNotFoundInCache is returned when the selected repository is not part of the cached list.
var ErrNotFoundInCache = errors.New("selected repository is not in the repository list")

// State is the state of the project detail view.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ProjectView is what the project info container currently shows.
type ProjectView struct {
	State   State
	Project string
	Report  *domain.Report
	Message string
}

// RepoListView is what the project select control currently shows.
// A non-empty Message means the list could not be loaded.
type RepoListView struct {
	Repositories []domain.Repository
	Message      string
}

// Dashboard owns the repository cache and the detail view.
// It is safe for concurrent use; the latest selection always wins.
type Dashboard struct {
	fetcher gateway.Fetcher
	logger  logrus.FieldLogger

	mu         sync.Mutex
	repos      RepoListView
	listGen    uint64
	view       ProjectView
	generation uint64
	cancel     context.CancelFunc
}

// NewDashboard creates a Dashboard in the idle state with an empty repository list.
func NewDashboard(fetcher gateway.Fetcher, logger logrus.FieldLogger) *Dashboard {
	return &Dashboard{
		fetcher: fetcher,
		logger:  logger,
		view:    ProjectView{State: StateIdle},
	}
}

// LoadRepositories fetches the repository list and returns the outcome of this call.
// On success the list replaces the cache; on failure the cache is emptied and the
// view carries the error message. A response that arrives after a newer call started
// is returned but not cached.
func (d *Dashboard) LoadRepositories(ctx context.Context) RepoListView {
	d.mu.Lock()
	d.listGen++
	gen := d.listGen
	d.mu.Unlock()

	repos, err := d.fetcher.FetchRepositories(ctx)

	var list RepoListView
	if err != nil {
		d.logger.WithError(err).Error("Failed to load repository list")
		list = RepoListView{Message: fmt.Sprintf("Error loading project list: %v.", err)}
	} else {
		if repos == nil {
			repos = []domain.Repository{}
		}
		list = RepoListView{Repositories: repos}
		d.logger.WithField("count", len(repos)).Info("Repository list loaded")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.listGen {
		d.logger.WithField("generation", gen).Debug("Discarding superseded repository list")
		return list
	}
	d.repos = list
	return list
}

// Repositories returns the current repository list view.
func (d *Dashboard) Repositories() RepoListView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.repos
}

// View returns the current project view.
func (d *Dashboard) View() ProjectView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

// Resolve loads the named repository against the cached list and returns the final
// view for this caller only. The shared selection is left untouched, so concurrent
// callers never observe each other's projects.
func (d *Dashboard) Resolve(ctx context.Context, name string) ProjectView {
	if name == "" {
		return ProjectView{State: StateIdle}
	}
	log := d.logger.WithField("project", name)
	report, err := d.LoadProject(ctx, name)
	if err != nil {
		log.WithError(err).Warn("Failed to load project")
		return ProjectView{State: StateError, Project: name, Message: errorMessage(err)}
	}
	log.Info("Project loaded")
	return ProjectView{State: StateReady, Project: name, Report: report}
}

// Select makes name the current selection, loads it and returns the outcome of this
// call, which is never StateLoading. An empty name resets the view to idle. A selection
// cancels any load still in flight, and a load that was superseded never replaces the
// view of a newer one.
func (d *Dashboard) Select(ctx context.Context, name string) ProjectView {
	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.mu.Lock()
	d.generation++
	gen := d.generation
	if d.cancel != nil {
		d.cancel()
	}
	if name == "" {
		d.cancel = nil
		d.view = ProjectView{State: StateIdle}
		d.mu.Unlock()
		return ProjectView{State: StateIdle}
	}
	d.cancel = cancel
	d.view = ProjectView{State: StateLoading, Project: name}
	d.mu.Unlock()

	view := d.Resolve(loadCtx, name)

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.generation {
		d.logger.WithFields(logrus.Fields{"project": name, "generation": gen}).Debug("Discarding result of superseded selection")
		return view
	}
	d.cancel = nil
	d.view = view
	return view
}

// LoadProject fetches commits, lines of code and contributors of a cached repository
// in parallel. Any failure discards everything fetched so far.
func (d *Dashboard) LoadProject(ctx context.Context, name string) (*domain.Report, error) {
	repo, ok := d.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFoundInCache, name)
	}

	var (
		commits      []domain.Commit
		lines        domain.LineCount
		contributors []domain.Contributor
	)
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		commits, err = d.fetcher.FetchCommits(egCtx, repo.Owner, repo.Name)
		if err != nil {
			return fmt.Errorf("commit data could not be retrieved: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		var err error
		lines, err = d.fetcher.FetchLinesOfCode(egCtx, repo.CloneURL)
		if err != nil {
			return fmt.Errorf("LOC data could not be retrieved: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		var err error
		contributors, err = d.fetcher.FetchContributors(egCtx, repo.Owner, repo.Name)
		if err != nil {
			return fmt.Errorf("contributor data could not be retrieved: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return BuildReport(repo, lines, commits, contributors), nil
}

func (d *Dashboard) lookup(name string) (domain.Repository, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.repos.Repositories {
		if r.Name == name {
			return r, true
		}
	}
	return domain.Repository{}, false
}

func errorMessage(err error) string {
	if errors.Is(err, ErrNotFoundInCache) {
		return "Error: Selected project data could not be found. Please refresh."
	}
	return fmt.Sprintf("Failed to load project details: %v. Please try again or select another project.", err)
}
