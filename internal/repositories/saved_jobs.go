package repositories

import (
	"context"

	"github.com/jobmaze/recommender/internal/entities"
	"gorm.io/gorm"
)

type SavedJobs struct {
	db *gorm.DB
}

func NewSavedJobsRepository(db *gorm.DB) *SavedJobs {
	return &SavedJobs{db: db}
}

func (repo *SavedJobs) Add(ctx context.Context, savedJob entities.SavedJob) error {
	return repo.db.WithContext(ctx).Create(&savedJob).Error
}

func (repo *SavedJobs) GetByUser(ctx context.Context, userID string, limit int) ([]entities.SavedJob, error) {

	var savedJobs []entities.SavedJob
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&savedJobs).Error; err != nil {
		return nil, err
	}
	return savedJobs, nil
}

func (repo *SavedJobs) Remove(ctx context.Context, userID string, recordID string) error {
	return repo.db.WithContext(ctx).
		Delete(&entities.SavedJob{}, "user_id = ? AND record_id = ?", userID, recordID).Error
}
