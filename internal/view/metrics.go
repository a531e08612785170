package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/secureai/docshield-console/internal/core/domain"
)

// TopCategory picks the key with the highest share. Ties break on the first
// key encountered with the maximum value; iteration follows registry order
// (then any unknown keys) so the result is deterministic.
func TopCategory(share map[domain.CategoryKey]float64) (domain.CategoryKey, bool) {
	if len(share) == 0 {
		return "", false
	}
	var (
		bestKey domain.CategoryKey
		bestVal = math.Inf(-1)
		found   bool
	)
	for _, key := range domain.CategoryKeys() {
		if val, ok := share[key]; ok && val > bestVal {
			bestKey, bestVal, found = key, val, true
		}
	}
	for key, val := range share {
		if !domain.ValidCategory(key) && val > bestVal {
			bestKey, bestVal, found = key, val, true
		}
	}
	return bestKey, found
}

// FormatRelevance renders a 0..1 relevance score as a rounded percentage.
func FormatRelevance(relevance float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(relevance*100)))
}

// FormatLatency converts milliseconds to seconds with one decimal place.
func FormatLatency(latencyMs float64) string {
	return fmt.Sprintf("%.1f초", latencyMs/1000)
}

// SummarizeMetrics renders the answer meta bar: relevance, used document
// count, dominant category and latency, separated by a middle dot.
func SummarizeMetrics(m *domain.AskMetrics) string {
	if m == nil {
		return ""
	}
	parts := []string{
		"연관도 " + FormatRelevance(m.Relevance),
		fmt.Sprintf("사용 문서 %d개", len(m.UsedDocs)),
	}
	if key, ok := TopCategory(m.CategoryShare); ok {
		parts = append(parts, "주 카테고리 "+domain.CategoryLabel(key))
	}
	if m.LatencyMs > 0 {
		parts = append(parts, FormatLatency(m.LatencyMs))
	}
	return strings.Join(parts, " · ")
}
