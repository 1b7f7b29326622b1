package advisor

import (
	"context"

	"github.com/tidwall/gjson"
)

// FetchCatalog issues the single catalog lookup and flattens the nested
// result/list shape into fund candidates. A response without that shape, or
// with an empty list, is terminal for the request: no partial recommendation
// is produced from zero instruments.
func FetchCatalog(ctx context.Context, svc CatalogService, params QueryParameters) ([]FundCandidate, error) {
	body, err := svc.ListInstruments(ctx, params)
	if err != nil {
		return nil, upstreamErr("catalog", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, malformedErr("catalog", nil)
	}

	list := gjson.GetBytes(body, "result.list")
	if !list.IsArray() || len(list.Array()) == 0 {
		return nil, &Error{Kind: KindEmptyCatalog, Message: "no funds data found in the catalog response"}
	}

	funds := make([]FundCandidate, 0, len(list.Array()))
	for _, raw := range list.Array() {
		funds = append(funds, FundCandidate{
			Symbol:            raw.Get("symbol").String(),
			Name:              raw.Get("name").String(),
			Country:           raw.Get("country").String(),
			FundFamily:        raw.Get("fund_family").String(),
			FundType:          raw.Get("fund_type").String(),
			PerformanceRating: raw.Get("performance_rating").String(),
			RiskRating:        raw.Get("risk_rating").String(),
			Currency:          raw.Get("currency").String(),
			Exchange:          raw.Get("exchange").String(),
			MICCode:           raw.Get("mic_code").String(),
		})
	}
	return funds, nil
}
