package advisor

import (
	"context"
	"log"
	"time"
)

// WindowStrategy truncates a NAV series to the entries dated on or after the
// cutoff. Entries whose dates cannot be parsed are logged and skipped without
// aborting the rest of the series.
type WindowStrategy interface {
	Window(entries []SeriesEntry, cutoff time.Time) []SeriesEntry
}

// NewestFirstWindow stops scanning at the first entry older than the cutoff,
// relying on the series service's newest-first ordering. If the upstream ever
// returns entries out of order this silently drops in-window entries; pair an
// unordered source with FullScanWindow instead.
func NewestFirstWindow() WindowStrategy { return newestFirstWindow{} }

type newestFirstWindow struct{}

func (newestFirstWindow) Window(entries []SeriesEntry, cutoff time.Time) []SeriesEntry {
	var kept []SeriesEntry
	for _, entry := range entries {
		date, err := time.Parse(navDateLayout, entry.Date)
		if err != nil {
			log.Printf("advisor series: invalid date format %q, skipping entry", entry.Date)
			continue
		}
		if date.Before(cutoff) {
			break
		}
		kept = append(kept, entry)
	}
	return kept
}

// FullScanWindow filters the whole series without the ordering assumption.
func FullScanWindow() WindowStrategy { return fullScanWindow{} }

type fullScanWindow struct{}

func (fullScanWindow) Window(entries []SeriesEntry, cutoff time.Time) []SeriesEntry {
	var kept []SeriesEntry
	for _, entry := range entries {
		date, err := time.Parse(navDateLayout, entry.Date)
		if err != nil {
			log.Printf("advisor series: invalid date format %q, skipping entry", entry.Date)
			continue
		}
		if !date.Before(cutoff) {
			kept = append(kept, entry)
		}
	}
	return kept
}

// EnrichWithSeries fetches the scheme's series and fills the fund's metadata
// and windowed NAV history in place. On failure the fund is kept with its
// catalog-level fields: the scheme code was already confirmed to exist, so the
// metadata columns get the NotAvailable sentinel and the windowed series stays
// empty rather than dropping the row.
func EnrichWithSeries(ctx context.Context, svc SeriesService, window WindowStrategy, now time.Time, fund *FundCandidate) {
	data, err := svc.GetSeries(ctx, fund.SchemeCode)
	if err != nil {
		log.Printf("advisor series: fetch failed for scheme %s (%s): %v", fund.SchemeCode, fund.Name, err)
		fund.FundHouse = NotAvailable
		fund.SchemeType = NotAvailable
		fund.SchemeCategory = NotAvailable
		fund.SchemeName = NotAvailable
		fund.WindowedNAV = nil
		return
	}

	fund.FundHouse = orNotAvailable(data.Meta.FundHouse)
	fund.SchemeType = orNotAvailable(data.Meta.SchemeType)
	fund.SchemeCategory = orNotAvailable(data.Meta.SchemeCategory)
	fund.SchemeName = orNotAvailable(data.Meta.SchemeName)

	cutoff := now.AddDate(0, 0, -RetentionDays)
	fund.WindowedNAV = window.Window(data.Data, cutoff)
}

func orNotAvailable(v string) string {
	if v == "" {
		return NotAvailable
	}
	return v
}
