package repositories

import (
	"context"
	"time"

	"github.com/jobmaze/recommender/internal/entities"
	"gorm.io/gorm"
)

type Searches struct {
	db *gorm.DB
}

func NewSearchesRepository(db *gorm.DB) *Searches {
	return &Searches{db: db}
}

func (repo *Searches) Add(ctx context.Context, record entities.SearchRecord) error {
	return repo.db.WithContext(ctx).Create(&record).Error
}

// GetRecent returns the user's newest searches since the given time, excluding
// keywords written by UI instrumentation.
func (repo *Searches) GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]entities.SearchRecord, error) {

	var records []entities.SearchRecord
	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Where("keyword NOT LIKE ?", entities.TrackingKeywordPrefix+"%").
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *Searches) RemoveOldSearches(ctx context.Context, expirationTime time.Time) (int64, error) {
	res := repo.db.WithContext(ctx).Delete(&entities.SearchRecord{}, "created_at < ?", expirationTime)
	return res.RowsAffected, res.Error
}
