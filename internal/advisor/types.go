package advisor

import "context"

const (
	// HomeMarket is forced onto the extracted query parameters after a
	// successful parse, overriding whatever jurisdiction the agent returned.
	HomeMarket = "India"

	// RetentionDays bounds how far back the NAV history handed to the
	// summarizer reaches, measured from the time of the request.
	RetentionDays = 1825

	// NotAvailable marks scheme metadata that could not be fetched. Funds with
	// a confirmed scheme code are kept in the dataset even when the series
	// service fails; their metadata columns carry this sentinel.
	NotAvailable = "N/A"

	// navDateLayout is the day-first layout the series service uses.
	navDateLayout = "02-01-2006"
)

// RequiredParameterKeys must all be present in the extracted query parameters
// before the catalog lookup runs.
var RequiredParameterKeys = []string{"country", "performance_rating", "risk_rating"}

// UserProfile is the caller-supplied financial profile. All fields are free
// text; the two list fields are joined verbatim into the agent message and the
// summarization prompt.
type UserProfile struct {
	RiskTolerance  string   `json:"risk_tolerance"`
	FinancialGoals []string `json:"financial_goals"`
	Timeline       []string `json:"timeline"`
	Income         string   `json:"income"`
	Expenses       string   `json:"expenses"`
	Savings        string   `json:"savings"`
	DebtLevels     string   `json:"debt_levels"`
}

// QueryParameters is the filter set derived by the conversational agent and
// forwarded to the catalog service as request parameters.
type QueryParameters map[string]any

// FundCandidate is one instrument from the catalog lookup, enriched in place
// by scheme resolution and the series fetch. It lives for one request only.
type FundCandidate struct {
	Symbol            string
	Name              string
	Country           string
	FundFamily        string
	FundType          string
	PerformanceRating string
	RiskRating        string
	Currency          string
	Exchange          string
	MICCode           string

	SchemeCode     string
	FundHouse      string
	SchemeType     string
	SchemeCategory string
	SchemeName     string
	WindowedNAV    []SeriesEntry
}

// SeriesEntry is one {date, value} point of a NAV history. Values stay as
// strings end to end; the summarizer does the arithmetic.
type SeriesEntry struct {
	Date string `json:"date"`
	NAV  string `json:"nav"`
}

// SchemeMatch is one hit from the series search service, in service order.
type SchemeMatch struct {
	SchemeName string
	SchemeCode string
}

// SchemeMeta is the descriptive metadata attached to a scheme's series.
type SchemeMeta struct {
	FundHouse      string
	SchemeType     string
	SchemeCategory string
	SchemeName     string
}

// SchemeData is the full payload of the series service for one scheme code.
// Data is delivered newest-first; the windowing early-stop relies on that
// ordering (see WindowStrategy).
type SchemeData struct {
	Meta SchemeMeta
	Data []SeriesEntry
}

// FileHandle identifies an uploaded dataset. URI is the grounding store's
// identifier; Path is the local export the handle was minted from, kept so
// stores that inline content instead of uploading can read it back.
type FileHandle struct {
	URI      string
	Path     string
	MIMEType string
}

// StructuredReport is the final nested document. After normalization every
// required top-level section is present and non-empty.
type StructuredReport map[string]any

// AgentService is the conversational agent used for parameter extraction.
// Converse returns the raw reply body of a successful call; transport failures
// and non-success statuses surface as errors.
type AgentService interface {
	Converse(ctx context.Context, userID, sessionID, message string) (string, error)
}

// CatalogService lists candidate instruments for a parameter set. The raw
// response body is returned on success; shape interpretation happens in the
// catalog fetcher.
type CatalogService interface {
	ListInstruments(ctx context.Context, params QueryParameters) ([]byte, error)
}

// SeriesSearchService resolves a fund display name to candidate schemes.
type SeriesSearchService interface {
	Search(ctx context.Context, name string) ([]SchemeMatch, error)
}

// SeriesService fetches a scheme's metadata and full NAV history.
// Contract precondition: Data is sorted newest-first with no ordering gaps.
// Implementations that cannot guarantee that must be paired with the
// full-scan window strategy.
type SeriesService interface {
	GetSeries(ctx context.Context, schemeCode string) (SchemeData, error)
}

// GroundingStore uploads the exported dataset so the summarizer can use it as
// grounding context. Lifecycle of the uploaded copy is the store's problem.
type GroundingStore interface {
	Upload(ctx context.Context, path string) (FileHandle, error)
}

// Summarizer runs the generative summarization step against the prompt and the
// uploaded dataset, returning the raw text output.
type Summarizer interface {
	Generate(ctx context.Context, prompt string, handle FileHandle) (string, error)
}
