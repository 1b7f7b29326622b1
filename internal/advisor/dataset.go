package advisor

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// exportColumns is the fixed, ordered header of the dataset export. The
// summarization prompt references these names; do not reorder.
var exportColumns = []string{
	"symbol", "name", "country", "fund_family", "fund_type",
	"performance_rating", "risk_rating", "currency", "exchange", "mic_code",
	"schemeCode", "fund_house", "scheme_type", "scheme_category", "scheme_name", "nav_data",
}

// WriteDataset serializes one row per fund into a CSV file under dir, with
// every value quoted and the windowed NAV history embedded as a JSON-encoded
// string column. The file name carries a fresh UUID so concurrent requests
// never collide. The caller owns the file's lifecycle after upload.
func WriteDataset(dir string, funds []FundCandidate) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("funds_data_%s.csv", uuid.NewString()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create dataset export: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	writeQuotedRow(w, exportColumns)
	for _, fund := range funds {
		writeQuotedRow(w, []string{
			fund.Symbol, fund.Name, fund.Country, fund.FundFamily, fund.FundType,
			fund.PerformanceRating, fund.RiskRating, fund.Currency, fund.Exchange, fund.MICCode,
			fund.SchemeCode, fund.FundHouse, fund.SchemeType, fund.SchemeCategory, fund.SchemeName,
			EncodeNAV(fund.WindowedNAV),
		})
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("write dataset export: %w", err)
	}
	return path, nil
}

// writeQuotedRow emits one record with all values quoted, doubling any
// embedded quotes. encoding/csv only quotes when forced to, and the export
// contract requires every value quoted.
func writeQuotedRow(w *bufio.Writer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(field, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteString("\r\n")
}

// EncodeNAV renders the windowed series as the string cell of the nav_data
// column. Serialization failure degrades to an empty-list encoding rather than
// aborting the row.
func EncodeNAV(entries []SeriesEntry) string {
	if len(entries) == 0 {
		return "[]"
	}
	blob, err := json.Marshal(entries)
	if err != nil {
		return "[]"
	}
	return string(blob)
}
