// Package model contains domain types for the repoquery application.
// These types are independent of any external GitHub library.
package model

import "time"

// RepositoryRecord represents the metadata of one repository at fetch time.
// Records are immutable once created: the data source builds them from API
// responses (or fabricates them in fallback mode) and downstream code only
// reads them.
type RepositoryRecord struct {
	FullName      string    `json:"fullName"` // owner/name, unique key
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	Language      string    `json:"language,omitempty"`
	HTMLURL       string    `json:"htmlUrl,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
	PushedAt      time.Time `json:"pushedAt,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	OpenIssues    int       `json:"openIssues,omitempty"`
	Watchers      int       `json:"watchers,omitempty"`
	License       string    `json:"license,omitempty"`
	RecentCommits int       `json:"recentCommits,omitempty"`
	Contributors  int       `json:"contributors,omitempty"`

	// Synthetic marks records fabricated by the fallback generator when
	// the upstream API was unavailable.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Owner returns the owner half of FullName, or "" if the name is not in
// owner/name form.
func (r RepositoryRecord) Owner() string {
	for i := 0; i < len(r.FullName); i++ {
		if r.FullName[i] == '/' {
			return r.FullName[:i]
		}
	}
	return ""
}
