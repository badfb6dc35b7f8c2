package repositories

import (
	"context"
	"time"

	"github.com/jobmaze/recommender/internal/entities"
	gocache "github.com/patrickmn/go-cache"
)

type preferencesRepository interface {
	GetByUser(ctx context.Context, userID string) (*entities.Preferences, error)
}

// CachedPreferences is a short-TTL read cache in front of the preferences
// table. Invalidate must be called when the user edits their preferences.
type CachedPreferences struct {
	repo  preferencesRepository
	cache *gocache.Cache
}

func NewCachedPreferences(repo preferencesRepository) *CachedPreferences {
	return &CachedPreferences{repo: repo, cache: gocache.New(10*time.Minute, 20*time.Minute)}
}

func (c *CachedPreferences) GetByUser(ctx context.Context, userID string) (*entities.Preferences, error) {
	if value, found := c.cache.Get(userID); found {
		return value.(*entities.Preferences), nil
	}

	preferences, err := c.repo.GetByUser(ctx, userID)
	if preferences != nil && err == nil {
		if err = c.cache.Add(userID, preferences, gocache.DefaultExpiration); err != nil {
			return preferences, err
		}
	}

	return preferences, err
}

func (c *CachedPreferences) Invalidate(userID string) {
	c.cache.Delete(userID)
}
