package entities

import (
	"strings"
	"time"
)

// TrackingKeywordPrefix marks searches issued by UI instrumentation rather than
// the user. They are excluded from every recommendation signal.
const TrackingKeywordPrefix = "track:"

// SearchRecord is one search a user issued, kept as a behavioral signal.
type SearchRecord struct {
	ID        int `gorm:"primaryKey"`
	UserID    string
	Keyword   string
	Filters   []byte
	CreatedAt time.Time
}

// IsTracking reports whether the record came from UI instrumentation.
func (s SearchRecord) IsTracking() bool {
	return strings.HasPrefix(s.Keyword, TrackingKeywordPrefix)
}
