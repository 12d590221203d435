// Package domain contains the core data structures and domain logic for the application.
package domain

// UnknownAuthor is the identity used for commits and contributors that carry no usable name.
const UnknownAuthor = "unknown"

// Repository is a single entry of the repository list.
// Name is its identity key within a fetched list.
type Repository struct {
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	CloneURL string `json:"cloneURL"`
}

// CommitAuthor identifies who wrote a commit.
type CommitAuthor struct {
	Name  string `json:"name"`
	Login string `json:"login,omitempty"`
	Email string `json:"email"`
}

// CommitStats holds the line changes of a single commit.
type CommitStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
	Total     int `json:"total"`
}

// Commit is a commit together with its line statistics.
type Commit struct {
	Author CommitAuthor `json:"author"`
	Stats  CommitStats  `json:"stats"`
	URL    string       `json:"url,omitempty"`
}

// AuthorKey resolves the identity a commit is aggregated under.
// The order is Login, Name, Email, then UnknownAuthor. Login is only set by
// sources that resolve the GitHub account, so it matches Contributor.Login.
func (c Commit) AuthorKey() string {
	switch {
	case c.Author.Login != "":
		return c.Author.Login
	case c.Author.Name != "":
		return c.Author.Name
	case c.Author.Email != "":
		return c.Author.Email
	}
	return UnknownAuthor
}

// Contributor is a GitHub user associated with a repository.
type Contributor struct {
	Login string `json:"login"`
	Name  string `json:"name,omitempty"`
}

// Label is the text shown for a contributor.
func (c Contributor) Label() string {
	if c.Login != "" {
		return c.Login
	}
	if c.Name != "" {
		return c.Name
	}
	return UnknownAuthor
}

// LineCount is the lines-of-code figure of a repository.
// A nil TotalLines means the upstream did not report one.
type LineCount struct {
	TotalLines *int `json:"totalLines"`
}

// Lines returns a LineCount holding n.
func Lines(n int) LineCount {
	return LineCount{TotalLines: &n}
}

// AuthorStats accumulates the commits of one author.
type AuthorStats struct {
	Additions   int `json:"additions"`
	Deletions   int `json:"deletions"`
	Total       int `json:"total"`
	CommitCount int `json:"commitCount"`
}

// Add folds one commit's stats into s.
func (s *AuthorStats) Add(cs CommitStats) {
	s.Additions += cs.Additions
	s.Deletions += cs.Deletions
	s.Total += cs.Total
	s.CommitCount++
}

// AuthorStatsMap maps an author identity to its accumulated stats.
type AuthorStatsMap map[string]*AuthorStats

// Lookup finds the stats of a contributor by exact match on Login, then Name.
func (m AuthorStatsMap) Lookup(c Contributor) (*AuthorStats, bool) {
	if c.Login != "" {
		if s, ok := m[c.Login]; ok {
			return s, true
		}
	}
	if c.Name != "" {
		if s, ok := m[c.Name]; ok {
			return s, true
		}
	}
	return nil, false
}
