package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/naka-gawa/contrib-stats/internal/domain"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgGreen)
	mutedColor  = color.New(color.FgYellow)
)

// Text writes a terminal report of r.
func Text(w io.Writer, r *domain.Report) error {
	if _, err := headerColor.Fprintln(w, r.Repository.Name); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", color.WhiteString("Total Lines of Code:"), formatLines(r.Lines))
	fmt.Fprintf(w, "%s %d (mean %.1f, median %.1f changed lines per commit)\n",
		color.WhiteString("Total commits:"), r.Summary.Commits,
		r.Summary.MeanChangesPerCommit, r.Summary.MedianChangesPerCommit)
	fmt.Fprintln(w)

	headerColor.Fprintln(w, "Contributors")
	rows := r.Rows()
	if len(rows) == 0 {
		_, err := mutedColor.Fprintln(w, "No contributor data available for this project.")
		return err
	}
	for _, row := range rows {
		labelColor.Fprintf(w, "  %s\n", row.Label)
		if row.Stats == nil {
			mutedColor.Fprintln(w, "    (No specific commit stats found for this contributor by name/login match)")
			continue
		}
		fmt.Fprintf(w, "    Commits: %d\n", row.Stats.CommitCount)
		fmt.Fprintf(w, "    Additions: %d\n", row.Stats.Additions)
		fmt.Fprintf(w, "    Deletions: %d\n", row.Stats.Deletions)
		fmt.Fprintf(w, "    Total Changes (Lines): %d\n", row.Stats.Total)
	}
	return nil
}
