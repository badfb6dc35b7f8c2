package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type RecommenderConfig struct {
	CacheTTL              time.Duration `mapstructure:"cache_ttl"`
	MaxRecommendations    int           `mapstructure:"max_recommendations"`
	CandidatesPerSource   int           `mapstructure:"candidates_per_source"`
	MaxSavedJobs          int           `mapstructure:"max_saved_jobs"`
	MaxRecentSearches     int           `mapstructure:"max_recent_searches"`
	SearchWindowDays      int           `mapstructure:"search_window_days"`
	SearchRetentionDays   int           `mapstructure:"search_retention_days"`
	RefreshInterval       time.Duration `mapstructure:"refresh_interval"`
	MaxRefreshesPerSecond float32       `mapstructure:"max_refreshes_per_second"`
}

func (config RecommenderConfig) validate() error {
	var errs []error

	if config.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must be greater than zero"))
	}
	if config.MaxRecommendations <= 0 {
		errs = append(errs, fmt.Errorf("max_recommendations must be greater than zero"))
	}
	if config.CandidatesPerSource <= 0 {
		errs = append(errs, fmt.Errorf("candidates_per_source must be greater than zero"))
	}
	if config.MaxSavedJobs <= 0 {
		errs = append(errs, fmt.Errorf("max_saved_jobs must be greater than zero"))
	}
	if config.MaxRecentSearches <= 0 {
		errs = append(errs, fmt.Errorf("max_recent_searches must be greater than zero"))
	}
	if config.SearchWindowDays <= 0 {
		errs = append(errs, fmt.Errorf("search_window_days must be greater than zero"))
	}
	if config.SearchRetentionDays < config.SearchWindowDays {
		errs = append(errs, fmt.Errorf("search_retention_days must not be less than search_window_days"))
	}
	if config.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("refresh_interval must be greater than zero"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config RecommenderConfig) bindEnvironmentVariables() error {
	var errs []error

	bindings := map[string]string{
		"recommender.cache_ttl":                "RECOMMENDER_CACHE_TTL",
		"recommender.max_recommendations":      "RECOMMENDER_MAX_RECOMMENDATIONS",
		"recommender.candidates_per_source":    "RECOMMENDER_CANDIDATES_PER_SOURCE",
		"recommender.max_saved_jobs":           "RECOMMENDER_MAX_SAVED_JOBS",
		"recommender.max_recent_searches":      "RECOMMENDER_MAX_RECENT_SEARCHES",
		"recommender.search_window_days":       "RECOMMENDER_SEARCH_WINDOW_DAYS",
		"recommender.search_retention_days":    "RECOMMENDER_SEARCH_RETENTION_DAYS",
		"recommender.refresh_interval":         "RECOMMENDER_REFRESH_INTERVAL",
		"recommender.max_refreshes_per_second": "RECOMMENDER_MAX_REFRESHES_PER_SECOND",
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}
