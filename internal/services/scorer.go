package services

import (
	"fmt"
	"strings"

	"github.com/jobmaze/recommender/internal/entities"
)

// Weights are additive and intentionally sum past 1.0: a job matching several
// preferences saturates the score quickly. The final score is clamped, not
// normalized.
const (
	titleMatchWeight    = 0.30
	locationMatchWeight = 0.25
	nocMatchWeight      = 0.25
	industryMatchWeight = 0.20
	searchMatchWeight   = 0.20
	teerMatchWeight     = 0.15
	savedJobPenalty     = 0.10
)

const (
	reasonTitleMatch    = "Matches your preferred job title"
	reasonLocationMatch = "Located in your preferred area"
	reasonIndustryMatch = "In your preferred industry"
	reasonTEERMatch     = "Matches your preferred TEER category"
	reasonSearchMatch   = "Related to your recent searches"
	reasonDefault       = "Based on your profile"
)

// ScoreCandidate computes the match score in [0, 1] for one candidate job and
// the human-readable reasons shown in the UI. The reasons list is never empty.
func ScoreCandidate(job entities.CandidateJob, preferences *entities.Preferences,
	savedRecordIDs map[string]struct{}, searchKeywords []string) (float64, []string) {

	score := 0.0
	var reasons []string

	jobTitle := strings.ToLower(job.JobTitle)

	if matchesAnyTitle(jobTitle, preferences.JobTitlesAsArray()) {
		score += titleMatchWeight
		reasons = append(reasons, reasonTitleMatch)
	}

	if preferences.HasLocationPreference() && matchesLocation(job, preferences) {
		score += locationMatchWeight
		reasons = append(reasons, reasonLocationMatch)
	}

	if matchesAnySubstring(strings.ToLower(job.Industry), preferences.IndustriesAsArray()) {
		score += industryMatchWeight
		reasons = append(reasons, reasonIndustryMatch)
	}

	if job.NOCCode != "" && containsString(preferences.NOCCodesAsArray(), job.NOCCode) {
		score += nocMatchWeight
		reasons = append(reasons, fmt.Sprintf("Matches NOC code %s", job.NOCCode))
	}

	if teer := job.EffectiveTEER(); teer != "" && containsString(preferences.TEERCategoriesAsArray(), teer) {
		score += teerMatchWeight
		reasons = append(reasons, reasonTEERMatch)
	}

	if _, saved := savedRecordIDs[job.RecordID]; saved {
		score -= savedJobPenalty
	}

	if matchesAnySubstring(jobTitle+" "+strings.ToLower(job.Employer), searchKeywords) {
		score += searchMatchWeight
		reasons = append(reasons, reasonSearchMatch)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, reasonDefault)
	}

	return clamp01(score), reasons
}

// matchesAnyTitle checks a case-insensitive substring match against each
// preferred title, with underscores normalized to spaces.
func matchesAnyTitle(jobTitle string, preferredTitles []string) bool {
	for _, preferred := range preferredTitles {
		preferred = strings.ToLower(strings.ReplaceAll(preferred, "_", " "))
		if preferred != "" && strings.Contains(jobTitle, preferred) {
			return true
		}
	}
	return false
}

func matchesLocation(job entities.CandidateJob, preferences *entities.Preferences) bool {
	province := strings.ToLower(job.Province)
	city := strings.ToLower(job.City)

	terms := append(preferences.ProvincesAsArray(), preferences.CitiesAsArray()...)
	for _, term := range terms {
		term = strings.ToLower(term)
		if term == "" {
			continue
		}
		if strings.Contains(province, term) || strings.Contains(city, term) {
			return true
		}
	}
	return false
}

func matchesAnySubstring(haystack string, terms []string) bool {
	for _, term := range terms {
		term = strings.ToLower(term)
		if term != "" && strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
