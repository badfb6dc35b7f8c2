package repositories

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/jobmaze/recommender/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {

	toMigrate := []any{
		entities.Preferences{},
		entities.SavedJob{},
		entities.SearchRecord{},
		entities.LMIAJob{},
		entities.TrendingJob{},
		entities.Recommendation{},
	}

	for _, entity := range toMigrate {
		if err := c.DB.AutoMigrate(entity); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", entity, err)
		}
	}

	if err := c.DB.Exec("CREATE INDEX IF NOT EXISTS idx_recommendations_user ON recommendations (user_id); " +
		"CREATE INDEX IF NOT EXISTS idx_search_records_user_created ON search_records (user_id, created_at); " +
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_saved_jobs_user_record ON saved_jobs (user_id, record_id);").
		Error; err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
