package entities

import (
	"encoding/json"
	"strings"
	"time"
)

// reasons contain commas, so they get a different list separator than the
// preference columns
const reasonSeparator = "|"

// Recommendation is one cached, scored suggestion linking a user to a job.
// The full set for a user is replaced on every regeneration.
type Recommendation struct {
	ID        int `gorm:"primaryKey"`
	UserID    string
	JobID     string
	JobSource JobSource
	Score     float64
	Reasons   string
	JobData   []byte
	CreatedAt time.Time
}

func NewRecommendation(userID string, job CandidateJob, score float64, reasons []string) Recommendation {
	snapshot, _ := json.Marshal(job)
	return Recommendation{
		UserID:    userID,
		JobID:     job.RecordID,
		JobSource: job.Source,
		Score:     score,
		Reasons:   strings.Join(reasons, reasonSeparator),
		JobData:   snapshot,
	}
}

func (r *Recommendation) ReasonsAsArray() []string {
	if r.Reasons == "" {
		return []string{}
	}
	return strings.Split(r.Reasons, reasonSeparator)
}

// Job unmarshals the snapshot taken when the recommendation was generated.
func (r *Recommendation) Job() (CandidateJob, error) {
	var job CandidateJob
	err := json.Unmarshal(r.JobData, &job)
	return job, err
}
