package domain

// Summary holds repository-wide figures derived from the commit list.
type Summary struct {
	Authors                int     `json:"authors"`
	Commits                int     `json:"commits"`
	MeanChangesPerCommit   float64 `json:"meanChangesPerCommit"`
	MedianChangesPerCommit float64 `json:"medianChangesPerCommit"`
}

// Report is everything needed to render the detail view of one repository.
type Report struct {
	Repository   Repository     `json:"repository"`
	Lines        LineCount      `json:"lines"`
	Authors      AuthorStatsMap `json:"authors"`
	Contributors []Contributor  `json:"contributors"`
	Summary      Summary        `json:"summary"`
}

// ContributorRow pairs a contributor with its matched stats, if any.
type ContributorRow struct {
	Label string
	Stats *AuthorStats
}

// Rows returns one row per contributor in list order.
func (r *Report) Rows() []ContributorRow {
	rows := make([]ContributorRow, 0, len(r.Contributors))
	for _, c := range r.Contributors {
		s, _ := r.Authors.Lookup(c)
		rows = append(rows, ContributorRow{Label: c.Label(), Stats: s})
	}
	return rows
}
