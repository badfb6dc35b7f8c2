package entities

import "time"

// SavedJob links a user to a job record they bookmarked in one of the sources.
type SavedJob struct {
	ID        int `gorm:"primaryKey"`
	UserID    string
	RecordID  string
	Source    JobSource
	CreatedAt time.Time
}
