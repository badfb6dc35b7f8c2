package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	"github.com/jobmaze/recommender/internal/config"
	"github.com/jobmaze/recommender/internal/logger"
	"github.com/jobmaze/recommender/internal/metrics"
	"github.com/jobmaze/recommender/internal/repositories"
	"github.com/jobmaze/recommender/internal/services"
	log "github.com/sirupsen/logrus"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(":8080")

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	preferences := repositories.NewPreferencesRepository(dbContext.DB)
	cachedPreferences := repositories.NewCachedPreferences(preferences)
	savedJobs := repositories.NewSavedJobsRepository(dbContext.DB)
	searches := repositories.NewSearchesRepository(dbContext.DB)
	jobs := repositories.NewJobsRepository(dbContext.DB)
	recommendations := repositories.NewRecommendationsRepository(dbContext.DB)

	bus := EventBus.New()

	recommender, err := services.NewRecommender(bus, cachedPreferences, savedJobs, searches,
		recommendations, jobs, cfg.Recommender)
	if err != nil {
		log.Fatalf("can't create recommender: %v", err)
	}

	cleaner, err := services.NewCacheCleaner(recommendations, searches,
		cfg.Recommender.CacheTTL, cfg.Recommender.SearchRetentionDays)
	if err != nil {
		log.Fatalf("can't create cleaner: %v", err)
	}
	defer cleaner.Stop()

	refresher := services.NewRefresher(recommender, preferences,
		cfg.Recommender.RefreshInterval, cfg.Recommender.MaxRefreshesPerSecond)
	go refresher.Run(ctx)

	<-ctx.Done()

	log.Info("Shutting down services...")
}
