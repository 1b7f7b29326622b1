// Package report renders a structured recommendation report as markdown,
// HTML, or PDF for distribution outside the API.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/wealthlens/fundadvisor/internal/advisor"
)

var sectionOrder = []struct {
	key   string
	title string
}{
	{"Investment_Actions", "Investment Actions"},
	{"Top_Mutual_Funds", "Top Mutual Funds"},
	{"Diversification_Strategies", "Diversification Strategies"},
	{"Sample_Investment_Plan", "Sample Investment Plan"},
	{"Market_Trends", "Market Trends"},
	{"Justifications", "Justifications"},
	{"Risk_Assessment", "Risk Assessment"},
	{"Projected_Outcomes", "Projected Outcomes"},
}

const disclaimer = "This report was generated automatically from public market data and is not investment advice. Consult a registered advisor before acting on it."

func BuildMarkdown(rep advisor.StructuredReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Mutual Fund Recommendation Report\n\n")
	fmt.Fprintf(&b, "- Market: %s\n", advisor.HomeMarket)
	fmt.Fprintf(&b, "- Date: %s\n\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "%s\n\n", disclaimer)

	for _, s := range sectionOrder {
		fmt.Fprintf(&b, "## %s\n\n", s.title)
		appendSection(&b, rep[s.key])
	}

	extras := make([]string, 0)
	for k := range rep {
		known := false
		for _, s := range sectionOrder {
			if s.key == k {
				known = true
				break
			}
		}
		if !known {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	if len(extras) > 0 {
		fmt.Fprintf(&b, "## Appendix\n\n```json\n%s\n```\n", prettyJSON(pick(rep, extras)))
	}
	return b.String()
}

func appendSection(b *strings.Builder, value any) {
	switch v := value.(type) {
	case nil:
		fmt.Fprintf(b, "_No data available._\n\n")
	case []any:
		if len(v) == 0 {
			fmt.Fprintf(b, "_No data available._\n\n")
			return
		}
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				if len(m) == 0 {
					continue
				}
				fmt.Fprintf(b, "%s\n", objectBullets(m))
				continue
			}
			fmt.Fprintf(b, "- %s\n", sanitizeLine(fmt.Sprint(item)))
		}
		b.WriteString("\n")
	case map[string]any:
		if len(v) == 0 {
			fmt.Fprintf(b, "_No data available._\n\n")
			return
		}
		fmt.Fprintf(b, "%s\n", objectBullets(v))
		b.WriteString("\n")
	case string:
		fmt.Fprintf(b, "%s\n\n", sanitizeLine(v))
	default:
		fmt.Fprintf(b, "```json\n%s\n```\n\n", prettyJSON(v))
	}
}

func objectBullets(m map[string]any) string {
	keys := sortedKeys(m)
	var b strings.Builder
	for _, k := range keys {
		switch inner := m[k].(type) {
		case string:
			fmt.Fprintf(&b, "- **%s:** %s\n", humanizeKey(k), sanitizeLine(inner))
		case float64:
			fmt.Fprintf(&b, "- **%s:** %s\n", humanizeKey(k), formatNumber(inner))
		case bool:
			fmt.Fprintf(&b, "- **%s:** %t\n", humanizeKey(k), inner)
		default:
			fmt.Fprintf(&b, "- **%s:** %s\n", humanizeKey(k), sanitizeLine(compactJSON(inner)))
		}
	}
	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func humanizeKey(k string) string {
	return strings.ReplaceAll(k, "_", " ")
}

func sanitizeLine(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func pick(rep advisor.StructuredReport, keys []string) map[string]any {
	out := map[string]any{}
	for _, k := range keys {
		out[k] = rep[k]
	}
	return out
}

// RenderHTML converts report markdown into a standalone HTML document.
func RenderHTML(markdown string) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>Fund Recommendation Report</title>" +
		"<style>" + baseCSS + "</style></head><body>" +
		"<div class='report-wrap'><div class='report-html'>" + content.String() + "</div></div>" +
		"</body></html>", nil
}

const baseCSS = `body{font-family:Georgia,serif;color:#1c1917;background:#faf9f7;margin:0;padding:1rem;}
.report-wrap{max-width:860px;margin:0 auto;background:#fff;border:1px solid #e7e5e4;padding:1.5rem 2rem;}
.report-html h1{font-size:1.6rem;border-bottom:2px solid #0f766e;padding-bottom:0.4rem;}
.report-html h2{font-size:1.2rem;color:#0f766e;margin-top:1.6rem;}
.report-html table{width:100%;border-collapse:collapse;font-size:0.85rem;}
.report-html th,.report-html td{border:1px solid #d6d3d1;padding:0.35rem 0.5rem;text-align:left;vertical-align:top;}
.report-html thead th{background:#f5f5f4;font-weight:700;}
.report-html code{background:#f5f5f4;padding:0.1rem 0.25rem;font-size:0.85em;}
.report-html pre{background:#f5f5f4;padding:0.75rem;overflow-x:auto;font-size:0.8rem;}`
