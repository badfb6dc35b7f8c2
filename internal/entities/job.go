package entities

import "time"

type JobSource string

const (
	SourceLMIA     JobSource = "lmia"
	SourceTrending JobSource = "trending_job"
)

// LMIAJob is a row from the LMIA employers source. The province lives in the
// "territory" column and there is no explicit TEER column; TEER is derived from
// the NOC code.
type LMIAJob struct {
	RecordID  string `gorm:"primaryKey"`
	JobTitle  string
	Employer  string
	City      string
	Territory string
	NOCCode   string `gorm:"column:noc_code"`
	Industry  string
	CreatedAt time.Time
}

// TrendingJob is a row from the trending jobs source. The province lives in the
// "state" column and TEER is an explicit column.
type TrendingJob struct {
	RecordID  string `gorm:"primaryKey"`
	JobTitle  string
	Employer  string
	City      string
	State     string
	NOCCode   string `gorm:"column:noc_code"`
	Industry  string
	TEER      string `gorm:"column:teer"`
	CreatedAt time.Time
}

// CandidateJob is the normalized shape both sources map to before scoring.
type CandidateJob struct {
	Source   JobSource
	RecordID string
	JobTitle string
	Employer string
	City     string
	Province string
	NOCCode  string
	Industry string
	TEER     string
}

func CandidateFromLMIA(job LMIAJob) CandidateJob {
	return CandidateJob{
		Source:   SourceLMIA,
		RecordID: job.RecordID,
		JobTitle: job.JobTitle,
		Employer: job.Employer,
		City:     job.City,
		Province: job.Territory,
		NOCCode:  job.NOCCode,
		Industry: job.Industry,
	}
}

func CandidateFromTrending(job TrendingJob) CandidateJob {
	return CandidateJob{
		Source:   SourceTrending,
		RecordID: job.RecordID,
		JobTitle: job.JobTitle,
		Employer: job.Employer,
		City:     job.City,
		Province: job.State,
		NOCCode:  job.NOCCode,
		Industry: job.Industry,
		TEER:     job.TEER,
	}
}

// EffectiveTEER returns the explicit TEER category, falling back to the second
// digit of a 5-character NOC code. Empty when neither is available.
func (c CandidateJob) EffectiveTEER() string {
	if c.TEER != "" {
		return c.TEER
	}
	return DeriveTEER(c.NOCCode)
}

// DeriveTEER extracts the TEER category from a NOC code. The category is the
// second digit of the 5-character code; any other length yields nothing.
func DeriveTEER(nocCode string) string {
	if len(nocCode) != 5 {
		return ""
	}
	return string(nocCode[1])
}
