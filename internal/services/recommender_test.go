package services

import (
	"context"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/jobmaze/recommender/internal/config"
	"github.com/jobmaze/recommender/internal/entities"
	"github.com/jobmaze/recommender/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPreferences struct {
	mock.Mock
}

func (m *mockPreferences) GetByUser(ctx context.Context, userID string) (*entities.Preferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Preferences), args.Error(1)
}

func (m *mockPreferences) Invalidate(userID string) {
	m.Called(userID)
}

type mockSavedJobs struct {
	mock.Mock
}

func (m *mockSavedJobs) GetByUser(ctx context.Context, userID string, limit int) ([]entities.SavedJob, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]entities.SavedJob), args.Error(1)
}

type mockSearchHistory struct {
	mock.Mock
}

func (m *mockSearchHistory) GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]entities.SearchRecord, error) {
	args := m.Called(ctx, userID, since, limit)
	return args.Get(0).([]entities.SearchRecord), args.Error(1)
}

type mockRecommendations struct {
	mock.Mock
}

func (m *mockRecommendations) Replace(ctx context.Context, userID string, recommendations []entities.Recommendation) error {
	return m.Called(ctx, userID, recommendations).Error(0)
}

func (m *mockRecommendations) LatestCreatedAt(ctx context.Context, userID string) (time.Time, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *mockRecommendations) ClearForUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func testRecommenderConfig() config.RecommenderConfig {
	return config.RecommenderConfig{
		CacheTTL:            24 * time.Hour,
		MaxRecommendations:  50,
		CandidatesPerSource: 500,
		MaxSavedJobs:        50,
		MaxRecentSearches:   20,
		SearchWindowDays:    30,
	}
}

type recommenderMocks struct {
	preferences     *mockPreferences
	savedJobs       *mockSavedJobs
	searches        *mockSearchHistory
	recommendations *mockRecommendations
	jobs            *mockJobs
}

func newTestRecommender(t *testing.T, bus EventBus.Bus, cfg config.RecommenderConfig) (*Recommender, recommenderMocks) {

	mocks := recommenderMocks{
		preferences:     &mockPreferences{},
		savedJobs:       &mockSavedJobs{},
		searches:        &mockSearchHistory{},
		recommendations: &mockRecommendations{},
		jobs:            &mockJobs{},
	}

	recommender, err := NewRecommender(bus, mocks.preferences, mocks.savedJobs,
		mocks.searches, mocks.recommendations, mocks.jobs, cfg)
	assert.NoError(t, err)
	return recommender, mocks
}

func Test_GenerateRecommendations_NoPreferencesAndNoSearches_ShortCircuits(t *testing.T) {

	recommender, mocks := newTestRecommender(t, EventBus.New(), testRecommenderConfig())

	mocks.preferences.On("GetByUser", mock.Anything, "user-1").Return(nil, nil)
	mocks.searches.On("GetRecent", mock.Anything, "user-1", mock.Anything, mock.Anything).
		Return([]entities.SearchRecord{}, nil)

	result := recommender.GenerateRecommendations(context.Background(), "user-1")

	assert.Empty(t, result)
	mocks.jobs.AssertNotCalled(t, "QueryCandidates", mock.Anything, mock.Anything, mock.Anything)
	mocks.recommendations.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
}

func Test_GenerateRecommendations_SortsByScoreAndTruncates(t *testing.T) {

	cfg := testRecommenderConfig()
	cfg.MaxRecommendations = 2

	recommender, mocks := newTestRecommender(t, EventBus.New(), cfg)

	preferences := entities.NewPreferences("user-1",
		[]string{"cook"}, []string{"Ontario"}, nil, nil, nil, nil, nil)

	candidates := []entities.CandidateJob{
		{Source: entities.SourceLMIA, RecordID: "rec-title-only", JobTitle: "Cook", Province: "Alberta"},
		{Source: entities.SourceLMIA, RecordID: "rec-title-and-area", JobTitle: "Cook", Province: "Ontario"},
		{Source: entities.SourceLMIA, RecordID: "rec-weak", JobTitle: "Cook Helper Trainee", Province: "Yukon"},
	}

	mocks.preferences.On("GetByUser", mock.Anything, "user-1").Return(preferences, nil)
	mocks.searches.On("GetRecent", mock.Anything, "user-1", mock.Anything, mock.Anything).
		Return([]entities.SearchRecord{}, nil)
	mocks.savedJobs.On("GetByUser", mock.Anything, "user-1", mock.Anything).
		Return([]entities.SavedJob{{UserID: "user-1", RecordID: "rec-weak"}}, nil)
	mocks.jobs.On("QueryCandidates", mock.Anything, entities.SourceLMIA, mock.Anything).
		Return(candidates, nil)
	mocks.jobs.On("QueryCandidates", mock.Anything, entities.SourceTrending, mock.Anything).
		Return([]entities.CandidateJob{}, nil)
	mocks.recommendations.On("Replace", mock.Anything, "user-1", mock.Anything).Return(nil)

	result := recommender.GenerateRecommendations(context.Background(), "user-1")

	assert.Len(t, result, 2)
	assert.Equal(t, "rec-title-and-area", result[0].JobID)
	assert.Equal(t, "rec-title-only", result[1].JobID)
	assert.InDelta(t, 0.55, result[0].Score, 1e-9)
	assert.InDelta(t, 0.30, result[1].Score, 1e-9)
}

func Test_GenerateRecommendations_CacheWriteFailureIsSwallowed(t *testing.T) {

	recommender, mocks := newTestRecommender(t, EventBus.New(), testRecommenderConfig())

	preferences := entities.NewPreferences("user-1",
		[]string{"cook"}, nil, nil, nil, nil, nil, nil)

	mocks.preferences.On("GetByUser", mock.Anything, "user-1").Return(preferences, nil)
	mocks.searches.On("GetRecent", mock.Anything, "user-1", mock.Anything, mock.Anything).
		Return([]entities.SearchRecord{}, nil)
	mocks.savedJobs.On("GetByUser", mock.Anything, "user-1", mock.Anything).
		Return([]entities.SavedJob{}, nil)
	mocks.jobs.On("QueryCandidates", mock.Anything, mock.Anything, mock.Anything).
		Return([]entities.CandidateJob{{Source: entities.SourceLMIA, RecordID: "rec-1", JobTitle: "Cook"}}, nil)
	mocks.recommendations.On("Replace", mock.Anything, "user-1", mock.Anything).
		Return(assert.AnError)

	result := recommender.GenerateRecommendations(context.Background(), "user-1")

	assert.NotEmpty(t, result)
	mocks.recommendations.AssertExpectations(t)
}

func Test_RefreshIfNeeded_FreshCacheDoesNothing(t *testing.T) {

	recommender, mocks := newTestRecommender(t, EventBus.New(), testRecommenderConfig())

	mocks.recommendations.On("LatestCreatedAt", mock.Anything, "user-1").
		Return(time.Now().Add(-23*time.Hour), nil)

	refreshed, err := recommender.RefreshIfNeeded(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.False(t, refreshed)
	mocks.preferences.AssertNotCalled(t, "GetByUser", mock.Anything, mock.Anything)
}

func Test_RefreshIfNeeded_StaleCacheRegeneratesOnce(t *testing.T) {

	recommender, mocks := newTestRecommender(t, EventBus.New(), testRecommenderConfig())

	mocks.recommendations.On("LatestCreatedAt", mock.Anything, "user-1").
		Return(time.Now().Add(-25*time.Hour), nil)
	mocks.preferences.On("GetByUser", mock.Anything, "user-1").Return(nil, nil).Once()
	mocks.searches.On("GetRecent", mock.Anything, "user-1", mock.Anything, mock.Anything).
		Return([]entities.SearchRecord{}, nil)

	refreshed, err := recommender.RefreshIfNeeded(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.True(t, refreshed)
	mocks.preferences.AssertExpectations(t)
}

func Test_RefreshIfNeeded_MissingCacheRegenerates(t *testing.T) {

	recommender, mocks := newTestRecommender(t, EventBus.New(), testRecommenderConfig())

	mocks.recommendations.On("LatestCreatedAt", mock.Anything, "user-1").
		Return(time.Time{}, nil)
	mocks.preferences.On("GetByUser", mock.Anything, "user-1").Return(nil, nil)
	mocks.searches.On("GetRecent", mock.Anything, "user-1", mock.Anything, mock.Anything).
		Return([]entities.SearchRecord{}, nil)

	refreshed, err := recommender.RefreshIfNeeded(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.True(t, refreshed)
}

func Test_PreferencesUpdatedEvent_ClearsCacheWithoutRegenerating(t *testing.T) {

	bus := EventBus.New()
	_, mocks := newTestRecommender(t, bus, testRecommenderConfig())

	mocks.preferences.On("Invalidate", "user-1").Return()
	mocks.recommendations.On("ClearForUser", mock.Anything, "user-1").Return(nil)

	bus.Publish(events.PreferencesUpdatedTopic, events.PreferencesUpdated{UserID: "user-1"})
	bus.WaitAsync()

	mocks.preferences.AssertCalled(t, "Invalidate", "user-1")
	mocks.recommendations.AssertCalled(t, "ClearForUser", mock.Anything, "user-1")
	mocks.jobs.AssertNotCalled(t, "QueryCandidates", mock.Anything, mock.Anything, mock.Anything)
}
