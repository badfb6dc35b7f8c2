package services

import (
	"context"
	"strings"

	"github.com/jobmaze/recommender/internal/entities"
	"github.com/jobmaze/recommender/internal/logger"
	"github.com/jobmaze/recommender/internal/repositories"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// keywords shorter than this carry no signal and are dropped before the union
// with preferred titles
const minKeywordLength = 3

type jobsRepository interface {
	QueryCandidates(ctx context.Context, source entities.JobSource, query repositories.JobQuery) ([]entities.CandidateJob, error)
}

// CandidateGenerator builds the raw candidate list for one scoring run,
// querying both job sources with a single filter group.
type CandidateGenerator struct {
	jobs           jobsRepository
	perSourceLimit int
}

func NewCandidateGenerator(jobs jobsRepository, perSourceLimit int) *CandidateGenerator {
	return &CandidateGenerator{jobs: jobs, perSourceLimit: perSourceLimit}
}

// Generate queries both sources with the filter derived from the effective
// preferences and recent searches. A source failure degrades to a partial
// result; an empty filter or zero matches yield an empty list, never an
// unfiltered fallback.
func (g *CandidateGenerator) Generate(ctx context.Context, preferences *entities.Preferences,
	searches []entities.SearchRecord) []entities.CandidateJob {

	query := buildJobQuery(preferences, searches, g.perSourceLimit)
	if query.IsEmpty() {
		return []entities.CandidateJob{}
	}

	var candidates []entities.CandidateJob
	for _, source := range []entities.JobSource{entities.SourceLMIA, entities.SourceTrending} {
		fromSource, err := g.jobs.QueryCandidates(ctx, source, query)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeJobSource).
				Errorf("failed to query %v candidates: %v", source, err)
			continue
		}
		candidates = append(candidates, fromSource...)
	}

	return candidates
}

// buildJobQuery picks the single filter group for this run. Title terms win
// over everything: a title match is a stronger fit signal than location, and
// over-constraining by location can hide the user's target role elsewhere. The
// scorer still rewards local matches. Industry is the next fallback; the
// strict membership filters apply only when neither signal exists.
func buildJobQuery(preferences *entities.Preferences, searches []entities.SearchRecord, limit int) repositories.JobQuery {

	query := repositories.JobQuery{Limit: limit}

	titleTerms := collectTitleTerms(preferences, searches)
	if len(titleTerms) > 0 {
		query.TitleTerms = titleTerms
		return query
	}

	if industries := preferences.IndustriesAsArray(); len(industries) > 0 {
		query.IndustryTerms = industries
		return query
	}

	query.Provinces = preferences.ProvincesAsArray()
	query.Cities = preferences.CitiesAsArray()
	query.NOCCodes = preferences.NOCCodesAsArray()
	query.TEERCategories = preferences.TEERCategoriesAsArray()
	return query
}

// collectTitleTerms unions preferred titles with distinct recent search
// keywords, dropping short and instrumentation keywords.
func collectTitleTerms(preferences *entities.Preferences, searches []entities.SearchRecord) []string {

	terms := preferences.JobTitlesAsArray()
	for _, record := range searches {
		keyword := strings.TrimSpace(record.Keyword)
		if len(keyword) < minKeywordLength || record.IsTracking() {
			continue
		}
		terms = append(terms, keyword)
	}

	return lo.UniqBy(terms, strings.ToLower)
}

// SearchKeywords extracts the usable keywords from recent searches for the
// scorer's recency signal.
func SearchKeywords(searches []entities.SearchRecord) []string {
	keywords := lo.FilterMap(searches, func(record entities.SearchRecord, _ int) (string, bool) {
		keyword := strings.TrimSpace(record.Keyword)
		return keyword, len(keyword) >= minKeywordLength && !record.IsTracking()
	})
	return lo.UniqBy(keywords, strings.ToLower)
}
