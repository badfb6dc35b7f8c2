package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jobmaze/recommender/internal/entities"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// JobQuery carries the filters for one candidate query. The candidate
// generator fills exactly one filter group per run: title terms, industry
// terms, or the strict membership filters.
type JobQuery struct {
	TitleTerms     []string
	IndustryTerms  []string
	Provinces      []string
	Cities         []string
	NOCCodes       []string
	TEERCategories []string
	Limit          int
}

// IsEmpty reports whether no filter is set. An empty query must never reach
// the database: an unfiltered scan would synthesize low-confidence matches.
func (q JobQuery) IsEmpty() bool {
	return len(q.TitleTerms) == 0 && len(q.IndustryTerms) == 0 &&
		len(q.Provinces) == 0 && len(q.Cities) == 0 &&
		len(q.NOCCodes) == 0 && len(q.TEERCategories) == 0
}

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

// QueryCandidates runs the query against one source and normalizes the rows.
// The two sources keep incompatible schemas: the province column is
// "territory" for lmia and "state" for trending_job, and only trending_job
// has an explicit "teer" column.
func (repo *Jobs) QueryCandidates(ctx context.Context, source entities.JobSource, query JobQuery) ([]entities.CandidateJob, error) {

	if query.IsEmpty() {
		return []entities.CandidateJob{}, nil
	}

	switch source {
	case entities.SourceLMIA:
		var jobs []entities.LMIAJob
		db := repo.applyFilters(repo.db.WithContext(ctx), query, "territory", false)
		if err := db.Limit(query.Limit).Find(&jobs).Error; err != nil {
			return nil, err
		}
		return lo.Map(jobs, func(job entities.LMIAJob, _ int) entities.CandidateJob {
			return entities.CandidateFromLMIA(job)
		}), nil

	case entities.SourceTrending:
		var jobs []entities.TrendingJob
		db := repo.applyFilters(repo.db.WithContext(ctx), query, "state", true)
		if err := db.Limit(query.Limit).Find(&jobs).Error; err != nil {
			return nil, err
		}
		return lo.Map(jobs, func(job entities.TrendingJob, _ int) entities.CandidateJob {
			return entities.CandidateFromTrending(job)
		}), nil

	default:
		return nil, fmt.Errorf("unknown job source: %v", source)
	}
}

func (repo *Jobs) applyFilters(db *gorm.DB, query JobQuery, provinceColumn string, hasTEERColumn bool) *gorm.DB {

	if len(query.TitleTerms) > 0 {
		return db.Where(likeAnyCondition("job_title", len(query.TitleTerms)), likeArgs(query.TitleTerms)...)
	}

	if len(query.IndustryTerms) > 0 {
		return db.Where(likeAnyCondition("industry", len(query.IndustryTerms)), likeArgs(query.IndustryTerms)...)
	}

	if len(query.Provinces) > 0 {
		db = db.Where("LOWER("+provinceColumn+") IN ?", lowered(query.Provinces))
	}
	if len(query.Cities) > 0 {
		db = db.Where("LOWER(city) IN ?", lowered(query.Cities))
	}
	if len(query.NOCCodes) > 0 {
		db = db.Where("noc_code IN ?", query.NOCCodes)
	}
	if len(query.TEERCategories) > 0 {
		derived := "(LENGTH(noc_code) = 5 AND SUBSTR(noc_code, 2, 1) IN ?)"
		if hasTEERColumn {
			db = db.Where("(teer IN ? OR (teer = '' AND "+derived+"))",
				query.TEERCategories, query.TEERCategories)
		} else {
			db = db.Where(derived, query.TEERCategories)
		}
	}
	return db
}

// likeAnyCondition builds an OR'd case-insensitive substring match over one
// column, one placeholder per term.
func likeAnyCondition(column string, terms int) string {
	condition := "LOWER(" + column + ") LIKE ?"
	return strings.Join(lo.Times(terms, func(_ int) string { return condition }), " OR ")
}

func likeArgs(terms []string) []any {
	return lo.Map(terms, func(term string, _ int) any {
		return "%" + strings.ToLower(term) + "%"
	})
}

func lowered(items []string) []string {
	return lo.Map(items, func(item string, _ int) string {
		return strings.ToLower(item)
	})
}
