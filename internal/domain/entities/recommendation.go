package entities

import "time"

// Recommendation pairs a classification with the facilities ranked for it
type Recommendation struct {
	ID             string               `json:"id"`
	Query          string               `json:"query"`
	Classification ClassificationResult `json:"classification"`
	Facilities     []RankedFacility     `json:"facilities"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// ListFilter narrows a facility list the way the list pages do
type ListFilter struct {
	Domain   Domain
	Category string
	Keyword  string
	OpenOnly bool
}

// CategoryAll disables the category filter
const CategoryAll = "전체"
