package services

import (
	"strings"

	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
)

// ErrEmptyQuery is returned for blank symptom text
var ErrEmptyQuery = apperrors.NewValidationError("symptom text is empty")

const (
	fallbackTitle       = "가까운 병원"
	fallbackDescription = "증상을 명확히 파악하기 어려워 일반 진료 병원을 추천합니다."

	emergencyTitle       = "응급 상황 감지"
	emergencyDescription = "즉시 처치가 가능한 종합병원 및 응급의료기관을 추천합니다."

	urgentTitleSuffix  = " (야간/진료가능)"
	urgentTitleNoDept  = "야간/휴일 진료"
	urgentDescription  = "현재 진료 가능성이 높은 대형 병원을 우선 추천합니다."
	complexDescription = "여러 증상이 복합되어 종합적인 진료가 필요해 보입니다."
	specialistSuffix   = " 관련 전문 병원을 우선 추천합니다."

	generalHospitalType = "종합병원"
)

var fallbackEligibleTypes = []string{"종합병원", "병원", "의원", "내과"}

// UrgencyClassifier maps free-text symptoms onto departments and an urgency tier
// using an ordered keyword rule table.
type UrgencyClassifier struct {
	rules []entities.Rule
}

// NewUrgencyClassifier creates a classifier over rules. Nil rules use the
// built-in table.
func NewUrgencyClassifier(rules []entities.Rule) *UrgencyClassifier {
	if rules == nil {
		rules = DefaultRuleTable()
	}
	return &UrgencyClassifier{rules: rules}
}

// Classify evaluates every rule against text. Keywords match as literal,
// case-sensitive substrings, so single-syllable keywords fire inside longer words.
func (c *UrgencyClassifier) Classify(text string) (entities.ClassificationResult, error) {
	if strings.TrimSpace(text) == "" {
		return entities.ClassificationResult{}, ErrEmptyQuery
	}

	matched := c.match(text)
	if len(matched) == 0 {
		return entities.ClassificationResult{
			Title:         fallbackTitle,
			Description:   fallbackDescription,
			Urgency:       entities.UrgencyNormal,
			EligibleTypes: append([]string(nil), fallbackEligibleTypes...),
			MatchKeywords: []string{},
		}, nil
	}

	urgency := entities.UrgencyNormal
	for _, r := range matched {
		urgency = urgency.Max(r.Urgency)
	}

	departments := newOrderedSet()
	for _, r := range matched {
		if r.Department != deptNightCare {
			departments.add(r.Department)
		}
	}
	deptLabel := strings.Join(departments.items, ", ")

	result := entities.ClassificationResult{
		Urgency:      urgency,
		IsComplex:    len(matched) > 1,
		MatchedRules: len(matched),
		Departments:  departments.items,
	}

	types := newOrderedSet()
	switch urgency {
	case entities.UrgencyEmergency:
		result.Title = emergencyTitle
		result.Description = emergencyDescription
		types.add(generalHospitalType)
	case entities.UrgencyUrgent:
		if deptLabel != "" {
			result.Title = deptLabel + urgentTitleSuffix
		} else {
			result.Title = urgentTitleNoDept
		}
		result.Description = urgentDescription
		types.add(generalHospitalType)
	default:
		result.Title = deptLabel
		if result.IsComplex {
			result.Description = complexDescription
		} else {
			result.Description = matched[0].Description + specialistSuffix
		}
	}

	keywords := newOrderedSet()
	for _, r := range matched {
		types.add(r.EligibleTypes...)
		if r.Department == deptNightCare || r.Department == deptEmergency {
			continue
		}
		keywords.add(strings.SplitN(r.Department, "/", 2)[0])
	}
	result.EligibleTypes = types.items
	result.MatchKeywords = keywords.items

	return result, nil
}

func (c *UrgencyClassifier) match(text string) []entities.Rule {
	var matched []entities.Rule
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(text, kw) {
				matched = append(matched, rule)
				break
			}
		}
	}
	return matched
}

// orderedSet keeps first-seen order
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *orderedSet) add(values ...string) {
	for _, v := range values {
		if _, ok := s.seen[v]; ok {
			continue
		}
		s.seen[v] = struct{}{}
		s.items = append(s.items, v)
	}
}
