package advisor

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func completeReportJSON(t *testing.T) string {
	t.Helper()
	rep := map[string]any{}
	for _, key := range RequiredSections {
		if key == sectionInvestmentPlan {
			rep[key] = map[string]any{"Monthly_Investment": "5000"}
		} else {
			rep[key] = []any{map[string]any{"Action": "do something"}}
		}
	}
	blob, err := json.Marshal(rep)
	if err != nil {
		t.Fatal(err)
	}
	return string(blob)
}

func TestNormalizeReportCompleteInputUnchanged(t *testing.T) {
	raw := completeReportJSON(t)
	rep, err := NormalizeReport(raw)
	if err != nil {
		t.Fatal(err)
	}
	var want StructuredReport
	if err := json.Unmarshal([]byte(raw), &want); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rep, want) {
		t.Fatalf("complete report must pass through unchanged:\ngot  %v\nwant %v", rep, want)
	}
}

func TestNormalizeReportStripsFence(t *testing.T) {
	raw := "```json\n" + completeReportJSON(t) + "\n```"
	if _, err := NormalizeReport(raw); err != nil {
		t.Fatalf("fenced report must parse, got %v", err)
	}
}

func TestNormalizeReportBackfillsMissingSections(t *testing.T) {
	rep, err := NormalizeReport(`{"Top_Mutual_Funds":[{"Fund_Name":"Axis Bluechip"}]}`)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range RequiredSections {
		if _, ok := rep[key]; !ok {
			t.Fatalf("section %s missing after normalization", key)
		}
	}
	if plan, ok := rep[sectionInvestmentPlan].(map[string]any); !ok || len(plan) != 0 {
		t.Fatalf("expected empty object for %s, got %v", sectionInvestmentPlan, rep[sectionInvestmentPlan])
	}
	actions, ok := rep["Investment_Actions"].([]any)
	if !ok || len(actions) != 1 {
		t.Fatalf("expected single-placeholder list, got %v", rep["Investment_Actions"])
	}
	if m, ok := actions[0].(map[string]any); !ok || len(m) != 0 {
		t.Fatalf("expected empty-object placeholder, got %v", actions[0])
	}
	funds := rep["Top_Mutual_Funds"].([]any)
	if funds[0].(map[string]any)["Fund_Name"] != "Axis Bluechip" {
		t.Fatal("present section must not be overwritten")
	}
}

func TestNormalizeReportBackfillsEmptySections(t *testing.T) {
	rep, err := NormalizeReport(`{"Investment_Actions":[],"Market_Trends":"","Sample_Investment_Plan":null}`)
	if err != nil {
		t.Fatal(err)
	}
	if actions := rep["Investment_Actions"].([]any); len(actions) != 1 {
		t.Fatalf("empty list must be backfilled, got %v", actions)
	}
	if trends := rep["Market_Trends"].([]any); len(trends) != 1 {
		t.Fatalf("empty string must be backfilled, got %v", rep["Market_Trends"])
	}
	if plan := rep[sectionInvestmentPlan].(map[string]any); len(plan) != 0 {
		t.Fatalf("null plan must become empty object, got %v", plan)
	}
}

func TestNormalizeReportIdempotent(t *testing.T) {
	first, err := NormalizeReport(`{"Justifications":[{"Fund":"X"}]}`)
	if err != nil {
		t.Fatal(err)
	}
	blob, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NormalizeReport(string(blob))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization must be idempotent:\nfirst  %v\nsecond %v", first, second)
	}
}

func TestNormalizeReportInvalidJSON(t *testing.T) {
	for _, raw := range []string{
		"I'm sorry, I cannot produce that report.",
		"```json\n{not valid}\n```",
		"",
	} {
		_, err := NormalizeReport(raw)
		var ae *Error
		if !errors.As(err, &ae) || ae.Kind != KindSchemaViolation {
			t.Fatalf("input %q: expected schema_violation, got %v", raw, err)
		}
	}
}

func TestStripFenceRequiresBothMarkers(t *testing.T) {
	if got := stripFence("```json\n{}"); got != "```json\n{}" {
		t.Fatalf("unclosed fence must not be stripped, got %q", got)
	}
	if got := stripFence("  {\"a\":1}  "); got != `{"a":1}` {
		t.Fatalf("plain input should only be trimmed, got %q", got)
	}
}
