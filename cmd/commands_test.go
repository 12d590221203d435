package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/naka-gawa/contrib-stats/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// newBackend serves the end-to-end fixture under /api. listStatus overrides the repos response.
func newBackend(t *testing.T, listStatus int) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/github/repos", func(w http.ResponseWriter, r *http.Request) {
		if listStatus != http.StatusOK {
			w.WriteHeader(listStatus)
			return
		}
		fmt.Fprint(w, `[{"name":"r1","owner":"o","cloneURL":"u"},{"name":"r2","owner":"o","cloneURL":"u2"}]`)
	})
	mux.HandleFunc("/api/github/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"author":{"name":"alice"},"stats":{"additions":5,"deletions":1,"total":6}}]`)
	})
	mux.HandleFunc("/api/github/loc", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"totalLines":100}`)
	})
	mux.HandleFunc("/api/github/contributors", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"login":"alice"},{"login":"bob"}]`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Setenv("STATS_SOURCE", "backend")
	t.Setenv("GITHUB_TOKEN", "")
	color.NoColor = true

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestShowCommand(t *testing.T) {
	backend := newBackend(t, http.StatusOK)
	api := backend.URL + "/api"

	testCases := []struct {
		name           string
		args           []string
		contains       []string
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "text format",
			args: []string{"show", "r1", "--api-base", api, "--format", "text", "--xlsx="},
			contains: []string{
				"Total Lines of Code: 100",
				"  alice\n    Commits: 1\n    Additions: 5\n",
				"  bob\n    (No specific commit stats found",
			},
		},
		{
			name:     "html format",
			args:     []string{"show", "r1", "--api-base", api, "--format", "html", "--xlsx="},
			contains: []string{`<option value="r1" selected>r1</option>`, "<h2>r1</h2>", "Additions: 5"},
		},
		{
			name:           "unknown format",
			args:           []string{"show", "r1", "--api-base", api, "--format", "yaml", "--xlsx="},
			expectError:    true,
			expectedErrMsg: `unknown format "yaml"`,
		},
		{
			name:           "repository not in the list",
			args:           []string{"show", "missing", "--api-base", api, "--format", "text", "--xlsx="},
			expectError:    true,
			expectedErrMsg: "Selected project data could not be found",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runRoot(t, tc.args...)
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
				return
			}
			require.NoError(t, err)
			for _, want := range tc.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestShowCommand_JSON(t *testing.T) {
	backend := newBackend(t, http.StatusOK)

	out, err := runRoot(t, "show", "r1", "--api-base", backend.URL+"/api", "--format", "json", "--xlsx=")
	require.NoError(t, err)

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "r1", report.Repository.Name)
	require.NotNil(t, report.Lines.TotalLines)
	assert.Equal(t, 100, *report.Lines.TotalLines)
	assert.Equal(t, 5, report.Authors["alice"].Additions)
}

func TestShowCommand_XLSX(t *testing.T) {
	backend := newBackend(t, http.StatusOK)
	path := filepath.Join(t.TempDir(), "r1.xlsx")

	_, err := runRoot(t, "show", "r1", "--api-base", backend.URL+"/api", "--format", "text", "--xlsx", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Contributors")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "1", "5", "1", "6"}, rows[1])

	_, err = runRoot(t, "show", "r1", "--api-base", backend.URL+"/api", "--format", "text",
		"--xlsx", filepath.Join(t.TempDir(), "missing", "r1.xlsx"))
	assert.ErrorContains(t, err, "failed to create")
}

func TestReposCommand(t *testing.T) {
	t.Run("lists repositories", func(t *testing.T) {
		backend := newBackend(t, http.StatusOK)

		out, err := runRoot(t, "repos", "--api-base", backend.URL+"/api")
		require.NoError(t, err)
		assert.Contains(t, out, "NAME")
		assert.Contains(t, out, "CLONE URL")
		assert.Regexp(t, `r1\s+o\s+u\n`, out)
		assert.Regexp(t, `r2\s+o\s+u2\n`, out)
	})

	t.Run("list failure is returned", func(t *testing.T) {
		backend := newBackend(t, http.StatusInternalServerError)

		out, err := runRoot(t, "repos", "--api-base", backend.URL+"/api")
		assert.ErrorContains(t, err, "Error loading project list")
		assert.Empty(t, out)
	})

	t.Run("show propagates list failure", func(t *testing.T) {
		backend := newBackend(t, http.StatusInternalServerError)

		_, err := runRoot(t, "show", "r1", "--api-base", backend.URL+"/api", "--format", "text", "--xlsx=")
		assert.ErrorContains(t, err, "Error loading project list")
	})
}
