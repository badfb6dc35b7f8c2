package entities

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// Preferences is the per-user preference record. List-valued fields are stored
// comma-joined; use the AsArray accessors when matching against jobs.
type Preferences struct {
	UserID         string `gorm:"primaryKey"`
	JobTitles      string
	Provinces      string
	Cities         string
	Industries     string
	NOCCodes       string
	CompanyTiers   string
	TEERCategories string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewPreferences(userID string, jobTitles, provinces, cities, industries,
	nocCodes, companyTiers, teerCategories []string) *Preferences {

	return &Preferences{
		UserID:         userID,
		JobTitles:      joinList(jobTitles),
		Provinces:      joinList(provinces),
		Cities:         joinList(cities),
		Industries:     joinList(industries),
		NOCCodes:       joinList(nocCodes),
		CompanyTiers:   joinList(companyTiers),
		TEERCategories: joinList(teerCategories),
	}
}

// EmptyPreferences is the fail-open default used when a user has no preference
// record yet.
func EmptyPreferences(userID string) *Preferences {
	return &Preferences{UserID: userID}
}

func (p *Preferences) JobTitlesAsArray() []string      { return splitList(p.JobTitles) }
func (p *Preferences) ProvincesAsArray() []string      { return splitList(p.Provinces) }
func (p *Preferences) CitiesAsArray() []string         { return splitList(p.Cities) }
func (p *Preferences) IndustriesAsArray() []string     { return splitList(p.Industries) }
func (p *Preferences) NOCCodesAsArray() []string       { return splitList(p.NOCCodes) }
func (p *Preferences) CompanyTiersAsArray() []string   { return splitList(p.CompanyTiers) }
func (p *Preferences) TEERCategoriesAsArray() []string { return splitList(p.TEERCategories) }

// HasLocationPreference reports whether any province or city is set.
func (p *Preferences) HasLocationPreference() bool {
	return p.Provinces != "" || p.Cities != ""
}

// IsEmpty reports whether no preference field carries a value.
func (p *Preferences) IsEmpty() bool {
	return p.JobTitles == "" && p.Provinces == "" && p.Cities == "" &&
		p.Industries == "" && p.NOCCodes == "" && p.CompanyTiers == "" &&
		p.TEERCategories == ""
}

func joinList(items []string) string {
	trimmed := lo.FilterMap(items, func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
	return strings.Join(trimmed, ",")
}

func splitList(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}
