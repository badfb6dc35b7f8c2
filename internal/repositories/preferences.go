package repositories

import (
	"context"
	"errors"

	"github.com/jobmaze/recommender/internal/entities"
	"gorm.io/gorm"
)

type Preferences struct {
	db *gorm.DB
}

func NewPreferencesRepository(db *gorm.DB) *Preferences {
	return &Preferences{db: db}
}

// GetByUser returns the user's preference record or nil when none exists yet.
func (repo *Preferences) GetByUser(ctx context.Context, userID string) (*entities.Preferences, error) {

	var preferences entities.Preferences
	if err := repo.db.WithContext(ctx).First(&preferences, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &preferences, nil
}

// Upsert overwrites the user's preference record in place; records are never
// deleted.
func (repo *Preferences) Upsert(ctx context.Context, preferences entities.Preferences) error {
	return repo.db.WithContext(ctx).Save(&preferences).Error
}

// Get pages through all preference records, ordered by user id.
func (repo *Preferences) Get(ctx context.Context, limit int, offset int) ([]entities.Preferences, error) {

	var preferences []entities.Preferences
	if err := repo.db.WithContext(ctx).
		Order("user_id").
		Limit(limit).
		Offset(offset).
		Find(&preferences).Error; err != nil {
		return nil, err
	}
	return preferences, nil
}
