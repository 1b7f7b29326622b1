package advisor

import (
	"encoding/json"
	"strings"
)

// RequiredSections are the top-level keys every normalized report carries.
// All are list-shaped except Sample_Investment_Plan.
var RequiredSections = []string{
	"Investment_Actions", "Top_Mutual_Funds", "Diversification_Strategies",
	"Sample_Investment_Plan", "Market_Trends", "Justifications",
	"Risk_Assessment", "Projected_Outcomes",
}

const sectionInvestmentPlan = "Sample_Investment_Plan"

// NormalizeReport parses the summarizer's raw text into a StructuredReport.
// A ```json fence is stripped when both the opening and closing markers are
// present. Unparseable output is a SchemaViolation; there is no retry and no
// partial report. On success every missing or empty required section is
// backfilled with a placeholder of the right shape so downstream consumers
// never observe an absent key. Validation is intentionally shallow: only
// top-level section presence is enforced, never nested field completeness.
// Normalizing an already-complete report leaves it unchanged.
func NormalizeReport(raw string) (StructuredReport, error) {
	text := stripFence(raw)

	report := StructuredReport{}
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		return nil, &Error{Kind: KindSchemaViolation, Message: "summarizer did not return valid JSON", Err: err}
	}

	for _, key := range RequiredSections {
		if !emptySection(report[key]) {
			continue
		}
		if key == sectionInvestmentPlan {
			report[key] = map[string]any{}
		} else {
			report[key] = []any{map[string]any{}}
		}
	}
	return report, nil
}

func stripFence(s string) string {
	trimmed := strings.TrimSpace(s)
	const opening, closing = "```json", "```"
	if len(trimmed) > len(opening)+len(closing) &&
		strings.HasPrefix(trimmed, opening) && strings.HasSuffix(trimmed, closing) {
		return strings.TrimSpace(trimmed[len(opening) : len(trimmed)-len(closing)])
	}
	return trimmed
}

func emptySection(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
