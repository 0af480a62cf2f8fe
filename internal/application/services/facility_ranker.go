package services

import (
	"sort"
	"strings"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
)

// DefaultTopN is the number of facilities a recommendation returns
const DefaultTopN = 5

const (
	nameKeywordWeight     = 3
	categoryKeywordWeight = 2

	generalBoostElevated = 10
	generalBoostComplex  = 5
	generalBoostDefault  = 1

	dentalKeyword   = "치과"
	internalKeyword = "내과"
)

var generalHospitalMarkers = []string{"종합", "대학"}

// FacilityRanker filters and orders located facilities for a classification
type FacilityRanker struct {
	topN int
}

// NewFacilityRanker creates a ranker returning at most topN results. Non-positive
// values use DefaultTopN.
func NewFacilityRanker(topN int) *FacilityRanker {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &FacilityRanker{topN: topN}
}

// Rank returns the top facilities for classification, best first. Ties keep
// input order. The input slice is not modified.
func (r *FacilityRanker) Rank(facilities []entities.Facility, classification entities.ClassificationResult) []entities.RankedFacility {
	dentalOnly := containsString(classification.MatchKeywords, dentalKeyword) &&
		!containsString(classification.MatchKeywords, internalKeyword)

	ranked := make([]entities.RankedFacility, 0, len(facilities))
	for i := range facilities {
		f := &facilities[i]
		if !f.HasLocation() {
			continue
		}
		if dentalOnly {
			if !strings.Contains(f.Category, dentalKeyword) && !strings.Contains(f.Name, dentalKeyword) {
				continue
			}
		} else if !containsAny(f.Category, classification.EligibleTypes) && !containsAny(f.Name, classification.MatchKeywords) {
			continue
		}
		ranked = append(ranked, entities.RankedFacility{
			Facility: f.Clone(),
			Score:    r.score(f, classification),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > r.topN {
		ranked = ranked[:r.topN]
	}
	return ranked
}

func (r *FacilityRanker) score(f *entities.Facility, classification entities.ClassificationResult) int {
	score := 0
	for _, kw := range classification.MatchKeywords {
		if strings.Contains(f.Name, kw) {
			score += nameKeywordWeight
		}
		if strings.Contains(f.Category, kw) {
			score += categoryKeywordWeight
		}
	}

	if isGeneralHospital(f) {
		switch {
		case classification.Urgency.IsElevated():
			score += generalBoostElevated
		case classification.IsComplex:
			score += generalBoostComplex
		default:
			score += generalBoostDefault
		}
	}
	return score
}

func isGeneralHospital(f *entities.Facility) bool {
	return containsAny(f.Name, generalHospitalMarkers) || containsAny(f.Category, generalHospitalMarkers)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
