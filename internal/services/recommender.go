package services

import (
	"context"
	"sort"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/jobmaze/recommender/internal/config"
	"github.com/jobmaze/recommender/internal/entities"
	"github.com/jobmaze/recommender/internal/events"
	"github.com/jobmaze/recommender/internal/logger"
	"github.com/jobmaze/recommender/internal/metrics"
	log "github.com/sirupsen/logrus"
)

type preferenceRepository interface {
	GetByUser(ctx context.Context, userID string) (*entities.Preferences, error)
	Invalidate(userID string)
}

type savedJobsRepository interface {
	GetByUser(ctx context.Context, userID string, limit int) ([]entities.SavedJob, error)
}

type searchHistoryRepository interface {
	GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]entities.SearchRecord, error)
}

type recommendationRepository interface {
	Replace(ctx context.Context, userID string, recommendations []entities.Recommendation) error
	LatestCreatedAt(ctx context.Context, userID string) (time.Time, error)
	ClearForUser(ctx context.Context, userID string) error
}

// Recommender runs the recommendation pipeline: load preference and behavior
// signals, generate candidates, score, sort and cache the top set. Failures
// never escape GenerateRecommendations; the web layer treats an empty list as
// "no matches yet".
type Recommender struct {
	preferences     preferenceRepository
	savedJobs       savedJobsRepository
	searches        searchHistoryRepository
	recommendations recommendationRepository
	generator       *CandidateGenerator
	cfg             config.RecommenderConfig
}

func NewRecommender(bus EventBus.Bus, preferences preferenceRepository, savedJobs savedJobsRepository,
	searches searchHistoryRepository, recommendations recommendationRepository,
	jobs jobsRepository, cfg config.RecommenderConfig) (*Recommender, error) {

	r := &Recommender{
		preferences:     preferences,
		savedJobs:       savedJobs,
		searches:        searches,
		recommendations: recommendations,
		generator:       NewCandidateGenerator(jobs, cfg.CandidatesPerSource),
		cfg:             cfg,
	}

	err := bus.Subscribe(events.PreferencesUpdatedTopic, r.onPreferencesUpdated)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// GenerateRecommendations runs the full pipeline for one user and returns the
// cached set. This is the single fail-soft boundary: any failure is logged and
// degrades to an empty list.
func (r *Recommender) GenerateRecommendations(ctx context.Context, userID string) (result []entities.Recommendation) {

	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("recommendation generation panicked for user %v: %v", userID, rec)
			result = []entities.Recommendation{}
		}
	}()

	startTime := time.Now()
	defer func() {
		metrics.GenerationDuration.Observe(time.Since(startTime).Seconds())
	}()

	preferences := r.loadPreferences(ctx, userID)
	searches := r.loadRecentSearches(ctx, userID)

	// no preference record and no search history: nothing to match against,
	// and zero-confidence matches help nobody
	if preferences == nil && len(searches) == 0 {
		return []entities.Recommendation{}
	}

	if preferences == nil {
		preferences = entities.EmptyPreferences(userID)
	}

	start := time.Now()
	candidates := r.generator.Generate(ctx, preferences, searches)
	metrics.GenerationStepDuration.WithLabelValues("candidate_fetch").Observe(time.Since(start).Seconds())

	start = time.Now()
	recommendations := r.scoreAndRank(ctx, userID, candidates, preferences, searches)
	metrics.GenerationStepDuration.WithLabelValues("scoring").Observe(time.Since(start).Seconds())

	start = time.Now()
	if err := r.recommendations.Replace(ctx, userID, recommendations); err != nil {
		// accepted degraded state: the cache may stay empty until the next
		// regeneration
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeCache).
			Errorf("failed to cache recommendations for user %v: %v", userID, err)
	}
	metrics.GenerationStepDuration.WithLabelValues("cache_write").Observe(time.Since(start).Seconds())

	metrics.GeneratedSetsCounter.Inc()
	log.Infof("generated %v recommendations for user %v from %v candidates",
		len(recommendations), userID, len(candidates))
	return recommendations
}

// RefreshIfNeeded regenerates the user's set when no cached row exists or the
// newest one is older than the TTL. It reports whether regeneration happened.
func (r *Recommender) RefreshIfNeeded(ctx context.Context, userID string) (bool, error) {

	latest, err := r.recommendations.LatestCreatedAt(ctx, userID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to check recommendation freshness for user %v: %v", userID, err)
		return false, err
	}

	if !latest.IsZero() && time.Since(latest) < r.cfg.CacheTTL {
		return false, nil
	}

	metrics.StaleCacheCounter.Inc()
	r.GenerateRecommendations(ctx, userID)
	return true, nil
}

func (r *Recommender) scoreAndRank(ctx context.Context, userID string, candidates []entities.CandidateJob,
	preferences *entities.Preferences, searches []entities.SearchRecord) []entities.Recommendation {

	savedRecordIDs := r.loadSavedRecordIDs(ctx, userID)
	keywords := SearchKeywords(searches)

	recommendations := make([]entities.Recommendation, 0, len(candidates))
	for _, candidate := range candidates {
		score, reasons := ScoreCandidate(candidate, preferences, savedRecordIDs, keywords)
		recommendations = append(recommendations, entities.NewRecommendation(userID, candidate, score, reasons))
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	if len(recommendations) > r.cfg.MaxRecommendations {
		recommendations = recommendations[:r.cfg.MaxRecommendations]
	}
	return recommendations
}

// loadPreferences fails open: a read error is treated as "no record yet".
func (r *Recommender) loadPreferences(ctx context.Context, userID string) *entities.Preferences {
	preferences, err := r.preferences.GetByUser(ctx, userID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to get preferences for user %v: %v", userID, err)
		return nil
	}
	return preferences
}

func (r *Recommender) loadRecentSearches(ctx context.Context, userID string) []entities.SearchRecord {
	since := time.Now().AddDate(0, 0, -r.cfg.SearchWindowDays)
	searches, err := r.searches.GetRecent(ctx, userID, since, r.cfg.MaxRecentSearches)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to get recent searches for user %v: %v", userID, err)
		return nil
	}
	return searches
}

func (r *Recommender) loadSavedRecordIDs(ctx context.Context, userID string) map[string]struct{} {
	savedJobs, err := r.savedJobs.GetByUser(ctx, userID, r.cfg.MaxSavedJobs)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to get saved jobs for user %v: %v", userID, err)
		return map[string]struct{}{}
	}

	recordIDs := make(map[string]struct{}, len(savedJobs))
	for _, savedJob := range savedJobs {
		recordIDs[savedJob.RecordID] = struct{}{}
	}
	return recordIDs
}

// onPreferencesUpdated clears derived state for the user. The cache stays
// empty until the next freshness check; nothing regenerates eagerly.
func (r *Recommender) onPreferencesUpdated(event events.PreferencesUpdated) {

	r.preferences.Invalidate(event.UserID)

	if err := r.recommendations.ClearForUser(context.Background(), event.UserID); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeCache).
			Errorf("failed to clear recommendations for user %v: %v", event.UserID, err)
	}
}
