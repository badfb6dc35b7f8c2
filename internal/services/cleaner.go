package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type recommendationCleanupRepository interface {
	RemoveExpired(ctx context.Context, expirationTime time.Time) (int64, error)
}

type searchCleanupRepository interface {
	RemoveOldSearches(ctx context.Context, expirationTime time.Time) (int64, error)
}

// CacheCleaner removes expired recommendation rows and aged-out search records
// once a day. The freshness checker handles regeneration for active users;
// this sweep keeps rows of inactive users from piling up.
type CacheCleaner struct {
	recommendations     recommendationCleanupRepository
	searches            searchCleanupRepository
	cron                *cron.Cron
	cacheTTL            time.Duration
	searchRetentionDays int
}

func NewCacheCleaner(recommendations recommendationCleanupRepository, searches searchCleanupRepository,
	cacheTTL time.Duration, searchRetentionDays int) (*CacheCleaner, error) {

	if cacheTTL <= 0 {
		return nil, errors.New("cache TTL must be greater than zero")
	}
	if searchRetentionDays <= 0 {
		return nil, errors.New("search retention in days must be greater than zero")
	}

	cleaner := &CacheCleaner{
		recommendations:     recommendations,
		searches:            searches,
		cron:                cron.New(),
		cacheTTL:            cacheTTL,
		searchRetentionDays: searchRetentionDays,
	}

	_, err := cleaner.cron.AddFunc("0 0 * * *", cleaner.clean)
	if err != nil {
		return nil, err
	}

	cleaner.cron.Start()
	log.Infof("cache cleaner started, cache TTL: %v, search retention in days: %d",
		cacheTTL, searchRetentionDays)
	return cleaner, nil
}

func (c *CacheCleaner) Stop() {
	c.cron.Stop()
}

func (c *CacheCleaner) clean() {

	expiredBefore := time.Now().Add(-c.cacheTTL)
	rowsAffected, err := c.recommendations.RemoveExpired(context.Background(), expiredBefore)
	if err != nil {
		log.Errorf("Failed to clean expired recommendations: %v", err)
	} else {
		log.Infof("Expired recommendations cleaned at %v, affected rows: %v", time.Now(), rowsAffected)
	}

	retainedAfter := time.Now().AddDate(0, 0, -c.searchRetentionDays)
	rowsAffected, err = c.searches.RemoveOldSearches(context.Background(), retainedAfter)
	if err != nil {
		log.Errorf("Failed to clean old search records: %v", err)
	} else {
		log.Infof("Old search records cleaned at %v, affected rows: %v", time.Now(), rowsAffected)
	}
}
