package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Recommendation_ReasonsSurviveCommas(t *testing.T) {

	job := CandidateJob{Source: SourceLMIA, RecordID: "rec-1", JobTitle: "Cook"}
	reasons := []string{"Matches NOC code 63200", "Located in your preferred area"}

	recommendation := NewRecommendation("user-1", job, 0.5, reasons)

	assert.Equal(t, reasons, recommendation.ReasonsAsArray())
}

func Test_Recommendation_JobSnapshotRoundTrips(t *testing.T) {

	job := CandidateJob{
		Source:   SourceTrending,
		RecordID: "rec-1",
		JobTitle: "Welder",
		Province: "Alberta",
		TEER:     "2",
	}

	recommendation := NewRecommendation("user-1", job, 0.8, []string{"Based on your profile"})

	snapshot, err := recommendation.Job()
	assert.NoError(t, err)
	assert.Equal(t, job, snapshot)
}
