package services

import (
	"github.com/Hash-621/TEAM202507-01-Final/internal/domain/entities"
)

// Departments with special handling during classification
const (
	deptNightCare = "24시 진료/응급실"
	deptEmergency = "응급의학과"
)

var defaultRules = []entities.Rule{
	{
		Keywords:      []string{"숨", "호흡", "기절", "의식", "심장", "흉통", "가슴", "마비", "출혈", "피가", "119", "응급"},
		Department:    deptEmergency,
		Description:   "즉시 응급 처치가 필요한 위급 상황입니다.",
		EligibleTypes: []string{"종합병원", "병원"},
		Urgency:       entities.UrgencyEmergency,
	},
	{
		Keywords:      []string{"밤", "새벽", "주말", "공휴일", "지금", "야간"},
		Department:    deptNightCare,
		Description:   "야간/휴일 진료가 가능한 병원을 우선합니다.",
		EligibleTypes: []string{"종합병원", "병원"},
		Urgency:       entities.UrgencyUrgent,
	},
	{
		Keywords:      []string{"배", "소화", "토", "속", "체", "설사", "복통", "위", "장염"},
		Department:    "내과",
		Description:   "소화기 계통 문제",
		EligibleTypes: []string{"내과", "종합병원", "병원", "의원"},
		Urgency:       entities.UrgencyNormal,
	},
	{
		Keywords:      []string{"뼈", "허리", "무릎", "관절", "다리", "팔", "골절", "근육", "통증", "어깨", "디스크"},
		Department:    "정형외과",
		Description:   "근골격계 질환",
		EligibleTypes: []string{"정형외과", "종합병원", "병원"},
		Urgency:       entities.UrgencyNormal,
	},
	{
		Keywords:      []string{"눈", "시력", "충혈", "눈곱", "다래끼", "안구"},
		Department:    "안과",
		Description:   "안구 질환",
		EligibleTypes: []string{"안과", "종합병원"},
		Urgency:       entities.UrgencyNormal,
	},
	{
		Keywords:      []string{"이", "치아", "잇몸", "사랑니", "스케일링", "턱", "치통"},
		Department:    "치과",
		Description:   "구강 질환",
		EligibleTypes: []string{"치과병원", "치과"},
		Urgency:       entities.UrgencyNormal,
	},
	{
		Keywords:      []string{"피부", "두드러기", "가려움", "발진", "아토피", "여드름", "화상"},
		Department:    "피부과",
		Description:   "피부 질환",
		EligibleTypes: []string{"피부과", "종합병원", "병원"},
		Urgency:       entities.UrgencyNormal,
	},
	{
		Keywords:      []string{"코", "목", "감기", "기침", "콧물", "귀", "청력", "비염"},
		Department:    "이비인후과",
		Description:   "호흡기/이비인후과 질환",
		EligibleTypes: []string{"이비인후과", "종합병원", "병원", "내과"},
		Urgency:       entities.UrgencyNormal,
	},
	{
		Keywords:      []string{"열", "몸살", "오한", "두통", "독감"},
		Department:    "내과",
		Description:   "전신 증상 및 고열",
		EligibleTypes: []string{"내과", "종합병원", "병원", "의원"},
		Urgency:       entities.UrgencyUrgent,
	},
	{
		Keywords:      []string{"침", "한약", "체질", "부항"},
		Department:    "한방과",
		Description:   "한방 진료",
		EligibleTypes: []string{"한방병원", "한의원"},
		Urgency:       entities.UrgencyNormal,
	},
}

// DefaultRuleTable returns a copy of the built-in rules in evaluation order
func DefaultRuleTable() []entities.Rule {
	out := make([]entities.Rule, len(defaultRules))
	for i, r := range defaultRules {
		out[i] = entities.Rule{
			Keywords:      append([]string(nil), r.Keywords...),
			Department:    r.Department,
			Description:   r.Description,
			EligibleTypes: append([]string(nil), r.EligibleTypes...),
			Urgency:       r.Urgency,
		}
	}
	return out
}
