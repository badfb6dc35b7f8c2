package services

import (
	"context"
	"testing"
	"time"

	"github.com/jobmaze/recommender/internal/entities"
	"github.com/jobmaze/recommender/internal/repositories"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockJobs struct {
	mock.Mock
}

func (m *mockJobs) QueryCandidates(ctx context.Context, source entities.JobSource,
	query repositories.JobQuery) ([]entities.CandidateJob, error) {

	args := m.Called(ctx, source, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.CandidateJob), args.Error(1)
}

func recentSearch(keyword string) entities.SearchRecord {
	return entities.SearchRecord{Keyword: keyword, CreatedAt: time.Now()}
}

func Test_CandidateGenerator_TitleTermsAreTheSoleFilter(t *testing.T) {

	preferences := entities.NewPreferences("user-1",
		[]string{"cook"}, []string{"Ontario"}, nil, nil, nil, nil, nil)

	outOfProvinceCook := entities.CandidateJob{
		Source: entities.SourceLMIA, RecordID: "rec-1",
		JobTitle: "Cook", Province: "British Columbia",
	}

	jobs := &mockJobs{}
	jobs.On("QueryCandidates", mock.Anything, mock.Anything, mock.MatchedBy(func(q repositories.JobQuery) bool {
		return assert.ObjectsAreEqual([]string{"cook"}, q.TitleTerms) &&
			len(q.Provinces) == 0 && len(q.Cities) == 0 &&
			len(q.NOCCodes) == 0 && len(q.TEERCategories) == 0
	})).Return([]entities.CandidateJob{outOfProvinceCook}, nil).Twice()

	generator := NewCandidateGenerator(jobs, 500)
	candidates := generator.Generate(context.Background(), preferences, nil)

	assert.Contains(t, candidates, outOfProvinceCook)
	jobs.AssertExpectations(t)
}

func Test_CandidateGenerator_SearchKeywordsJoinTitleTerms(t *testing.T) {

	preferences := entities.NewPreferences("user-1",
		[]string{"cook"}, nil, nil, nil, nil, nil, nil)
	searches := []entities.SearchRecord{
		recentSearch("welder"),
		recentSearch("go"),                // too short
		recentSearch("track:home_visit"),  // UI instrumentation
		recentSearch("Cook"),              // duplicate of the preferred title
	}

	jobs := &mockJobs{}
	jobs.On("QueryCandidates", mock.Anything, mock.Anything, mock.MatchedBy(func(q repositories.JobQuery) bool {
		return assert.ObjectsAreEqual([]string{"cook", "welder"}, q.TitleTerms)
	})).Return([]entities.CandidateJob{}, nil).Twice()

	generator := NewCandidateGenerator(jobs, 500)
	generator.Generate(context.Background(), preferences, searches)

	jobs.AssertExpectations(t)
}

func Test_CandidateGenerator_IndustryIsTheFallbackFilter(t *testing.T) {

	preferences := entities.NewPreferences("user-1",
		nil, []string{"Ontario"}, nil, []string{"Healthcare"}, nil, nil, nil)

	jobs := &mockJobs{}
	jobs.On("QueryCandidates", mock.Anything, mock.Anything, mock.MatchedBy(func(q repositories.JobQuery) bool {
		return assert.ObjectsAreEqual([]string{"Healthcare"}, q.IndustryTerms) &&
			len(q.TitleTerms) == 0 && len(q.Provinces) == 0
	})).Return([]entities.CandidateJob{}, nil).Twice()

	generator := NewCandidateGenerator(jobs, 500)
	generator.Generate(context.Background(), preferences, nil)

	jobs.AssertExpectations(t)
}

func Test_CandidateGenerator_StrictFiltersWhenNoTitleOrIndustrySignal(t *testing.T) {

	preferences := entities.NewPreferences("user-1",
		nil, []string{"Ontario"}, []string{"Toronto"}, nil, []string{"63200"}, nil, []string{"3"})

	jobs := &mockJobs{}
	jobs.On("QueryCandidates", mock.Anything, mock.Anything, mock.MatchedBy(func(q repositories.JobQuery) bool {
		return assert.ObjectsAreEqual([]string{"Ontario"}, q.Provinces) &&
			assert.ObjectsAreEqual([]string{"Toronto"}, q.Cities) &&
			assert.ObjectsAreEqual([]string{"63200"}, q.NOCCodes) &&
			assert.ObjectsAreEqual([]string{"3"}, q.TEERCategories) &&
			len(q.TitleTerms) == 0 && len(q.IndustryTerms) == 0
	})).Return([]entities.CandidateJob{}, nil).Twice()

	generator := NewCandidateGenerator(jobs, 500)
	generator.Generate(context.Background(), preferences, nil)

	jobs.AssertExpectations(t)
}

func Test_CandidateGenerator_EmptyFilterNeverHitsTheSources(t *testing.T) {

	jobs := &mockJobs{}

	generator := NewCandidateGenerator(jobs, 500)
	candidates := generator.Generate(context.Background(), entities.EmptyPreferences("user-1"), nil)

	assert.Empty(t, candidates)
	jobs.AssertNotCalled(t, "QueryCandidates", mock.Anything, mock.Anything, mock.Anything)
}

func Test_CandidateGenerator_SourceFailureDegradesToPartialResult(t *testing.T) {

	preferences := entities.NewPreferences("user-1",
		[]string{"cook"}, nil, nil, nil, nil, nil, nil)

	trendingCook := entities.CandidateJob{
		Source: entities.SourceTrending, RecordID: "rec-2", JobTitle: "Cook",
	}

	jobs := &mockJobs{}
	jobs.On("QueryCandidates", mock.Anything, entities.SourceLMIA, mock.Anything).
		Return(nil, errors.New("source unavailable"))
	jobs.On("QueryCandidates", mock.Anything, entities.SourceTrending, mock.Anything).
		Return([]entities.CandidateJob{trendingCook}, nil)

	generator := NewCandidateGenerator(jobs, 500)
	candidates := generator.Generate(context.Background(), preferences, nil)

	assert.Equal(t, []entities.CandidateJob{trendingCook}, candidates)
}
