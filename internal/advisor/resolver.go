package advisor

import (
	"context"
	"log"
	"strings"
)

// ResolveScheme chooses exactly one scheme for a fund display name. An exact
// case-insensitive match against the returned scheme names wins; otherwise the
// first result in the service's returned order is taken. The first-result
// fallback is a deliberate weak tie-break, not a ranked best-match.
//
// A search failure or an empty result set drops the fund from the dataset
// entirely; that is a per-fund soft failure which never aborts the request.
func ResolveScheme(ctx context.Context, svc SeriesSearchService, name string) (SchemeMatch, bool) {
	matches, err := svc.Search(ctx, name)
	if err != nil {
		log.Printf("advisor resolver: search failed for fund %q: %v", name, err)
		return SchemeMatch{}, false
	}
	if len(matches) == 0 {
		log.Printf("advisor resolver: no schemes found for fund %q", name)
		return SchemeMatch{}, false
	}

	lower := strings.ToLower(name)
	for _, m := range matches {
		if strings.ToLower(m.SchemeName) == lower {
			return m, true
		}
	}
	return matches[0], true
}
