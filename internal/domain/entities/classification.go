package entities

import (
	"encoding/json"
	"fmt"
)

// Urgency is the severity tier of a classification
type Urgency string

const (
	UrgencyNormal    Urgency = "NORMAL"
	UrgencyUrgent    Urgency = "URGENT"
	UrgencyEmergency Urgency = "EMERGENCY"
)

// Rank orders urgencies: EMERGENCY > URGENT > NORMAL. Unknown values rank lowest.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyEmergency:
		return 2
	case UrgencyUrgent:
		return 1
	default:
		return 0
	}
}

// Max returns the more severe of u and other
func (u Urgency) Max(other Urgency) Urgency {
	if other.Rank() > u.Rank() {
		return other
	}
	return u
}

// IsElevated reports whether the tier is URGENT or EMERGENCY
func (u Urgency) IsElevated() bool {
	return u.Rank() > 0
}

// UnmarshalJSON rejects tiers outside the fixed set
func (u *Urgency) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch Urgency(raw) {
	case UrgencyNormal, UrgencyUrgent, UrgencyEmergency:
		*u = Urgency(raw)
		return nil
	}
	return fmt.Errorf("unknown urgency %q", raw)
}

// Rule maps a keyword set to a department, urgency tier and facility types
type Rule struct {
	Keywords      []string `json:"keywords"`
	Department    string   `json:"department"`
	Description   string   `json:"description"`
	EligibleTypes []string `json:"eligibleTypes"`
	Urgency       Urgency  `json:"urgency"`
}

// ClassificationResult is the outcome of matching free text against the rule table
type ClassificationResult struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Urgency       Urgency  `json:"urgency"`
	IsComplex     bool     `json:"isComplex"`
	MatchedRules  int      `json:"matchedRules"`
	Departments   []string `json:"departments,omitempty"`
	EligibleTypes []string `json:"eligibleTypes"`
	MatchKeywords []string `json:"matchKeywords"`
}

// RankedFacility is a facility with a per-query score
type RankedFacility struct {
	Facility
	Score int `json:"score"`
}
