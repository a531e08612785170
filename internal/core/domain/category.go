package domain

import "strings"

// CategoryKey identifies one of the fixed document sensitivity classes.
// The set is closed: keys are not extensible at runtime.
type CategoryKey string

const (
	CategoryHRInfo       CategoryKey = "HR_INFO"
	CategoryPersonalInfo CategoryKey = "PERSONAL_INFO"
	CategoryBusinessInfo CategoryKey = "BUSINESS_INFO"
	CategoryTechInfo     CategoryKey = "TECH_INFO"
	CategoryPublicInfo   CategoryKey = "PUBLIC_INFO"
)

// DefaultCategory is assigned whenever the backend reports a type the
// registry does not know.
const DefaultCategory = CategoryPublicInfo

type categoryEntry struct {
	Key   CategoryKey
	Label string
}

// Registry display order matches the accordion order of the reference
// deployment.
var categoryEntries = []categoryEntry{
	{CategoryHRInfo, "인사 정보 (암호화 필요)"},
	{CategoryPersonalInfo, "개인 정보 (PII 무조건 암호화)"},
	{CategoryBusinessInfo, "사업 관련 정보 (핵심 내용 암호화)"},
	{CategoryTechInfo, "기술 정보 (부분 암호화)"},
	{CategoryPublicInfo, "공개 정보 (암호화 불필요)"},
}

var categoryLabels = func() map[CategoryKey]string {
	m := make(map[CategoryKey]string, len(categoryEntries))
	for _, e := range categoryEntries {
		m[e.Key] = e.Label
	}
	return m
}()

// CategoryKeys returns all valid keys in registry order.
func CategoryKeys() []CategoryKey {
	keys := make([]CategoryKey, 0, len(categoryEntries))
	for _, e := range categoryEntries {
		keys = append(keys, e.Key)
	}
	return keys
}

// NormalizeCategory maps an arbitrary raw value onto a valid CategoryKey.
// It trims and uppercases, then falls back to DefaultCategory for anything
// outside the fixed set. There is no aliasing: near-miss values are treated
// as unrecognized. Total: always returns a member of the key set.
func NormalizeCategory(raw string) CategoryKey {
	key := CategoryKey(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := categoryLabels[key]; ok {
		return key
	}
	return DefaultCategory
}

// ValidCategory reports whether key belongs to the fixed set.
func ValidCategory(key CategoryKey) bool {
	_, ok := categoryLabels[key]
	return ok
}

// CategoryLabel returns the display label for key. Unknown keys echo the raw
// key string; given NormalizeCategory's contract this path should not occur.
func CategoryLabel(key CategoryKey) string {
	if label, ok := categoryLabels[key]; ok {
		return label
	}
	return string(key)
}
