package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jobmaze/recommender/internal/entities"
	"gorm.io/gorm"
)

type Recommendations struct {
	db *gorm.DB
}

func NewRecommendationsRepository(db *gorm.DB) *Recommendations {
	return &Recommendations{db: db}
}

// Replace drops the user's cached set and inserts the new one. The delete and
// insert are deliberately not wrapped in a transaction: concurrent
// regenerations are last-writer-wins, and a failure between the two leaves the
// user with an empty cache until the next refresh.
func (repo *Recommendations) Replace(ctx context.Context, userID string, recommendations []entities.Recommendation) error {

	if err := repo.ClearForUser(ctx, userID); err != nil {
		return err
	}

	if len(recommendations) == 0 {
		return nil
	}

	return repo.db.WithContext(ctx).Create(&recommendations).Error
}

func (repo *Recommendations) GetByUser(ctx context.Context, userID string) ([]entities.Recommendation, error) {

	var recommendations []entities.Recommendation
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("score DESC").
		Find(&recommendations).Error; err != nil {
		return nil, err
	}
	return recommendations, nil
}

// LatestCreatedAt returns the creation time of the newest cached row, or the
// zero time when the user has no cached set.
func (repo *Recommendations) LatestCreatedAt(ctx context.Context, userID string) (time.Time, error) {

	var latest entities.Recommendation
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&latest).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return latest.CreatedAt, nil
}

func (repo *Recommendations) ClearForUser(ctx context.Context, userID string) error {
	return repo.db.WithContext(ctx).Delete(&entities.Recommendation{}, "user_id = ?", userID).Error
}

func (repo *Recommendations) RemoveExpired(ctx context.Context, expirationTime time.Time) (int64, error) {
	res := repo.db.WithContext(ctx).Delete(&entities.Recommendation{}, "created_at < ?", expirationTime)
	return res.RowsAffected, res.Error
}
