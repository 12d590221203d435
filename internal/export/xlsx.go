// Package export writes reports to spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/naka-gawa/contrib-stats/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	contributorsSheet = "Contributors"
	summarySheet      = "Summary"
)

var contributorHeader = []interface{}{"Contributor", "Commits", "Additions", "Deletions", "Total"}

// WriteXLSX writes r as a workbook with a Contributors and a Summary sheet.
// Contributors without matched commits get empty stat cells.
func WriteXLSX(w io.Writer, r *domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", contributorsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := f.SetSheetRow(contributorsSheet, "A1", &contributorHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range r.Rows() {
		values := []interface{}{row.Label}
		if row.Stats != nil {
			values = append(values, row.Stats.CommitCount, row.Stats.Additions, row.Stats.Deletions, row.Stats.Total)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(contributorsSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", row.Label, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	lines := interface{}("N/A")
	if r.Lines.TotalLines != nil {
		lines = *r.Lines.TotalLines
	}
	summary := [][]interface{}{
		{"Repository", r.Repository.Name},
		{"Owner", r.Repository.Owner},
		{"Total Lines of Code", lines},
		{"Commits", r.Summary.Commits},
		{"Authors", r.Summary.Authors},
		{"Mean changes per commit", r.Summary.MeanChangesPerCommit},
		{"Median changes per commit", r.Summary.MedianChangesPerCommit},
	}
	for i, values := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
