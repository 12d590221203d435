package render

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/naka-gawa/contrib-stats/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	report := sampleReport([]domain.Contributor{{Login: "alice"}, {Login: "bob"}}, domain.Lines(100))
	require.NoError(t, Text(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "r1\n")
	assert.Contains(t, out, "Total Lines of Code: 100")
	assert.Contains(t, out, "Total commits: 1 (mean 6.0, median 6.0 changed lines per commit)")
	assert.Contains(t, out, "  alice\n    Commits: 1\n    Additions: 5\n    Deletions: 1\n    Total Changes (Lines): 6\n")
	assert.Contains(t, out, "  bob\n    (No specific commit stats found")
}

func TestText_NoContributors(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleReport(nil, domain.LineCount{})))
	assert.Contains(t, buf.String(), "Total Lines of Code: N/A")
	assert.Contains(t, buf.String(), "No contributor data available for this project.")
}
