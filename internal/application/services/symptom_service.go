package services

import (
	"strings"

	"github.com/klifeguard/emergency-finder/internal/domain/entities"
)

// SymptomRule associates symptom keywords with recommended departments and
// the equipment a suitable hospital needs.
type SymptomRule struct {
	Keywords    []string
	Departments []string
	Equipment   []string
}

// Rule order matters: classification is first-match, so a description
// mentioning both chest pain and a fracture resolves to the cardiac rule.
var symptomRules = []SymptomRule{
	{
		Keywords:    []string{"가슴통증", "가슴", "심장", "흉통", "심근경색", "협심증"},
		Departments: []string{"심장내과", "응급의학과", "순환기내과"},
		Equipment:   []string{entities.EquipmentAngio},
	},
	{
		Keywords:    []string{"뇌졸중", "마비", "어지러움", "두통", "뇌출혈", "뇌경색"},
		Departments: []string{"신경외과", "신경과"},
		Equipment:   []string{entities.EquipmentCT, entities.EquipmentMRI},
	},
	{
		Keywords:    []string{"소아", "아이", "어린이", "아기", "신생아", "소아고열"},
		Departments: []string{"소아청소년과", "소아외과"},
		Equipment:   []string{},
	},
	{
		Keywords:    []string{"골절", "외상", "사고", "교통사고", "다발성외상"},
		Departments: []string{"정형외과", "외과", "응급의학과"},
		Equipment:   []string{entities.EquipmentVentilator},
	},
	{
		Keywords:    []string{"호흡곤란", "호흡", "기침", "폐렴", "천식"},
		Departments: []string{"호흡기내과", "응급의학과"},
		Equipment:   []string{entities.EquipmentVentilator},
	},
	{
		Keywords:    []string{"화상", "열상", "찰과상"},
		Departments: []string{"외과", "성형외과"},
		Equipment:   []string{},
	},
	{
		Keywords:    []string{"복통", "배", "소화", "구토", "설사"},
		Departments: []string{"소화기내과", "외과"},
		Equipment:   []string{},
	},
	{
		Keywords:    []string{"출혈", "피", "대량출혈"},
		Departments: []string{"외과", "응급의학과"},
		Equipment:   []string{},
	},
}

var equipmentNames = map[string]string{
	entities.EquipmentCT:         "CT",
	entities.EquipmentMRI:        "MRI",
	entities.EquipmentAngio:      "심혈관조영실",
	entities.EquipmentVentilator: "인공호흡기",
}

// SymptomService maps free-text symptom descriptions onto the static rule
// table.
type SymptomService struct {
	rules []SymptomRule
}

// NewSymptomService creates a classifier over the built-in rule table.
func NewSymptomService() *SymptomService {
	return &SymptomService{rules: symptomRules}
}

// Classify returns the first rule any of whose keywords appears in the
// symptom text (case-insensitive substring), or nil when nothing matches.
func (s *SymptomService) Classify(symptoms string) *SymptomRule {
	lowered := strings.ToLower(symptoms)
	for i := range s.rules {
		for _, kw := range s.rules[i].Keywords {
			if strings.Contains(lowered, kw) {
				return &s.rules[i]
			}
		}
	}
	return nil
}

// MatchedKeywords returns the rule keywords that occur in the symptom text.
func (r *SymptomRule) MatchedKeywords(symptoms string) []string {
	lowered := strings.ToLower(symptoms)
	matched := make([]string, 0, len(r.Keywords))
	for _, kw := range r.Keywords {
		if strings.Contains(lowered, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// EquipmentNames returns the human-readable names of the rule's required
// equipment codes.
func (r *SymptomRule) EquipmentNames() []string {
	names := make([]string, 0, len(r.Equipment))
	for _, code := range r.Equipment {
		names = append(names, EquipmentName(code))
	}
	return names
}

// EquipmentName translates an equipment code into its display name. Unknown
// codes pass through unchanged.
func EquipmentName(code string) string {
	if name, ok := equipmentNames[code]; ok {
		return name
	}
	return code
}
