package services

import (
	"context"
	"sync"
	"time"

	"github.com/jobmaze/recommender/internal/entities"
	"github.com/jobmaze/recommender/internal/logger"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type recommendationRefresher interface {
	RefreshIfNeeded(ctx context.Context, userID string) (bool, error)
}

type preferencePager interface {
	Get(ctx context.Context, limit int, offset int) ([]entities.Preferences, error)
}

// Refresher sweeps all users with a preference record on an interval and
// regenerates any stale recommendation set, so caches are warm before a page
// load triggers the freshness check.
type Refresher struct {
	recommender           recommendationRefresher
	preferences           preferencePager
	interval              time.Duration
	limiter               *rate.Limiter
	sweepCompleteCallback func()
}

func NewRefresher(recommender recommendationRefresher, preferences preferencePager,
	interval time.Duration, maxRefreshesPerSecond float32) *Refresher {

	r := &Refresher{
		recommender: recommender,
		preferences: preferences,
		interval:    interval,
	}
	if maxRefreshesPerSecond > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(maxRefreshesPerSecond), 1)
	}
	return r
}

// WithSweepCompleteCallback registers a callback fired after each full sweep.
func (r *Refresher) WithSweepCompleteCallback(callback func()) *Refresher {
	r.sweepCompleteCallback = callback
	return r
}

func (r *Refresher) Run(ctx context.Context) {
	for {
		startTime := time.Now()
		log.Infof("running recommendation refresh sweep at %v", startTime)

		r.runSweep(ctx)

		if r.sweepCompleteCallback != nil {
			r.sweepCompleteCallback()
		}

		executionTime := time.Since(startTime)
		log.Infof("refresh sweep ended after %v", executionTime)

		sleepTime := r.interval - executionTime
		if sleepTime < 0 {
			sleepTime = 0
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(sleepTime):
		}
	}
}

func (r *Refresher) runSweep(ctx context.Context) {

	var pageSize, refreshedTotal, sweptTotal = 20, 0, 0

	for pageNum := 0; ; pageNum++ {

		preferenceRecords, err := r.preferences.Get(ctx, pageSize, pageNum*pageSize)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to get preference records: %v", err)
			break
		}
		if len(preferenceRecords) == 0 {
			break
		}

		var wg sync.WaitGroup
		var mu sync.Mutex
		for _, record := range preferenceRecords {
			if r.limiter != nil {
				if err := r.limiter.Wait(ctx); err != nil {
					wg.Wait()
					return
				}
			}

			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				refreshed, err := r.recommender.RefreshIfNeeded(ctx, userID)
				if err != nil {
					return
				}
				if refreshed {
					mu.Lock()
					refreshedTotal++
					mu.Unlock()
				}
			}(record.UserID)
		}

		wg.Wait()
		sweptTotal += len(preferenceRecords)
	}

	log.Infof("swept %v users, refreshed %v stale recommendation sets", sweptTotal, refreshedTotal)
}
