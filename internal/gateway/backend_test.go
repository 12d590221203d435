package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/naka-gawa/contrib-stats/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBackend starts a fake backend and returns a gateway rooted at its /api prefix.
func setupBackend(t *testing.T, handler http.Handler) (*BackendGateway, *httptest.Server) {
	server := httptest.NewServer(handler)
	gateway, err := NewBackendGateway(server.URL+"/api/", server.Client(), discardLogger())
	require.NoError(t, err)
	return gateway, server
}

func TestNewBackendGateway_RejectsRelativeURL(t *testing.T) {
	_, err := NewBackendGateway("localhost:1323/api", nil, discardLogger())
	assert.Error(t, err)

	_, err = NewBackendGateway("/api", nil, discardLogger())
	assert.Error(t, err)
}

func TestBackendGateway_Endpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/github/repos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name":"r1","owner":"o","cloneURL":"https://github.com/o/r1.git"}]`)
	})
	mux.HandleFunc("/api/github/commits", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "o", r.URL.Query().Get("projectOwner"))
		assert.Equal(t, "r1", r.URL.Query().Get("repoName"))
		fmt.Fprint(w, `[{"author":{"name":"alice","email":"alice@example.com"},"stats":{"additions":5,"deletions":1,"total":6}}]`)
	})
	mux.HandleFunc("/api/github/loc", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://github.com/o/r1.git", r.URL.Query().Get("repoUrl"))
		fmt.Fprint(w, `{"totalLines":100}`)
	})
	mux.HandleFunc("/api/github/contributors", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "o", r.URL.Query().Get("owner"))
		assert.Equal(t, "r1", r.URL.Query().Get("repoName"))
		fmt.Fprint(w, `[{"login":"alice"}]`)
	})
	gateway, server := setupBackend(t, mux)
	defer server.Close()
	ctx := context.Background()

	repos, err := gateway.FetchRepositories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Repository{{Name: "r1", Owner: "o", CloneURL: "https://github.com/o/r1.git"}}, repos)

	commits, err := gateway.FetchCommits(ctx, "o", "r1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Commit{{
		Author: domain.CommitAuthor{Name: "alice", Email: "alice@example.com"},
		Stats:  domain.CommitStats{Additions: 5, Deletions: 1, Total: 6},
	}}, commits)

	loc, err := gateway.FetchLinesOfCode(ctx, "https://github.com/o/r1.git")
	require.NoError(t, err)
	require.NotNil(t, loc.TotalLines)
	assert.Equal(t, 100, *loc.TotalLines)

	contributors, err := gateway.FetchContributors(ctx, "o", "r1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Contributor{{Login: "alice"}}, contributors)
}

func TestBackendGateway_MissingTotalLines(t *testing.T) {
	gateway, server := setupBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	loc, err := gateway.FetchLinesOfCode(context.Background(), "u")
	require.NoError(t, err)
	assert.Nil(t, loc.TotalLines)
}

func TestBackendGateway_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		handlerFunc func(w http.ResponseWriter, r *http.Request)
		checkErr    func(t *testing.T, err error)
	}{
		{
			name: "non-2xx becomes HTTPError",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
			checkErr: func(t *testing.T, err error) {
				var httpErr *HTTPError
				require.True(t, errors.As(err, &httpErr))
				assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
				assert.Equal(t, "/github/commits", httpErr.Endpoint)
				assert.Contains(t, err.Error(), "502")
			},
		},
		{
			name: "malformed body",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `not json`)
			},
			checkErr: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "failed to decode /github/commits response")
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupBackend(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()

			commits, err := gateway.FetchCommits(context.Background(), "o", "r1")
			assert.Nil(t, commits)
			require.Error(t, err)
			tc.checkErr(t, err)
		})
	}
}

func TestBackendGateway_TransportFailure(t *testing.T) {
	gateway, server := setupBackend(t, http.NotFoundHandler())
	server.Close()

	_, err := gateway.FetchRepositories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request to /github/repos failed")
}
