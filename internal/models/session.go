package models

import "time"

// ViewerSession is the ephemeral selection state of one viewer client.
// CatalogGeneration is the catalog the selection was last reconciled against.
type ViewerSession struct {
	ID                string    `json:"id"`
	Discipline        string    `json:"discipline"`
	SelectedIDs       []string  `json:"selectedIds"`
	IsCompareMode     bool      `json:"isCompareMode"`
	CatalogGeneration uint64    `json:"catalogGeneration"`
	UpdatedAt         time.Time `json:"updatedAt"`
	ExpiresAt         time.Time `json:"expiresAt"`
}

// IsExpired reports whether the session outlived its TTL.
func (s *ViewerSession) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
