package advisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"
)

// scriptedSearch resolves per-name: codes maps a fund name to its scheme
// code; names absent from the map resolve to nothing.
type scriptedSearch struct {
	codes map[string]string
	calls int
}

func (s *scriptedSearch) Search(_ context.Context, name string) ([]SchemeMatch, error) {
	s.calls++
	code, ok := s.codes[name]
	if !ok {
		return nil, nil
	}
	return []SchemeMatch{{SchemeName: name, SchemeCode: code}}, nil
}

type scriptedSeries struct {
	failCodes map[string]bool
	now       time.Time
}

func (s *scriptedSeries) GetSeries(_ context.Context, code string) (SchemeData, error) {
	if s.failCodes[code] {
		return SchemeData{}, errors.New("series upstream 500")
	}
	return SchemeData{
		Meta: SchemeMeta{FundHouse: "House " + code, SchemeType: "Open Ended", SchemeCategory: "Equity", SchemeName: "Scheme " + code},
		Data: []SeriesEntry{{Date: s.now.Format("02-01-2006"), NAV: "100.0"}},
	}, nil
}

type captureStore struct {
	path string
	err  error
}

func (s *captureStore) Upload(_ context.Context, path string) (FileHandle, error) {
	s.path = path
	if s.err != nil {
		return FileHandle{}, s.err
	}
	return FileHandle{URI: "files/abc123", Path: path, MIMEType: "text/csv"}, nil
}

type captureSummarizer struct {
	reply  string
	err    error
	prompt string
	handle FileHandle
}

func (s *captureSummarizer) Generate(_ context.Context, prompt string, handle FileHandle) (string, error) {
	s.prompt = prompt
	s.handle = handle
	return s.reply, s.err
}

func threeFundCatalog() *mockCatalog {
	return &mockCatalog{body: []byte(`{"result":{"count":3,"list":[
		{"symbol":"A1","name":"Axis Bluechip Fund","country":"India","fund_family":"Axis","fund_type":"equity","performance_rating":5,"risk_rating":3,"currency":"INR","exchange":"NSE","mic_code":"XNSE"},
		{"symbol":"B1","name":"Unknown Fund","country":"India","fund_family":"X","fund_type":"equity","performance_rating":4,"risk_rating":3,"currency":"INR","exchange":"NSE","mic_code":"XNSE"},
		{"symbol":"C1","name":"HDFC Mid-Cap Opportunities","country":"India","fund_family":"HDFC","fund_type":"equity","performance_rating":4,"risk_rating":4,"currency":"INR","exchange":"NSE","mic_code":"XNSE"}
	]}}`)}
}

func agentReply() string {
	return `{"response":"{\"country\":\"United States\",\"performance_rating\":4,\"risk_rating\":3}"}`
}

func newTestPipeline(t *testing.T, agent AgentService, catalog CatalogService, search SeriesSearchService, series SeriesService, store GroundingStore, sum Summarizer) *Pipeline {
	t.Helper()
	return NewPipeline(agent, catalog, search, series, store, sum, Config{
		ExportDir: t.TempDir(),
		Now:       func() time.Time { return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC) },
	})
}

func TestPipelineEndToEnd(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	agent := &mockAgent{reply: agentReply()}
	catalog := threeFundCatalog()
	search := &scriptedSearch{codes: map[string]string{
		"Axis Bluechip Fund":         "120465",
		"HDFC Mid-Cap Opportunities": "118989",
	}}
	series := &scriptedSeries{now: now, failCodes: map[string]bool{"118989": true}}
	store := &captureStore{}
	sum := &captureSummarizer{reply: `{"Top_Mutual_Funds":[{"Fund_Name":"Axis Bluechip Fund"}]}`}

	p := newTestPipeline(t, agent, catalog, search, series, store, sum)
	report, err := p.Run(context.Background(), sampleProfile())
	if err != nil {
		t.Fatal(err)
	}

	// Jurisdiction forced before the catalog call.
	if catalog.gotParams["country"] != HomeMarket {
		t.Fatalf("expected forced country %q in catalog params, got %v", HomeMarket, catalog.gotParams["country"])
	}

	// Three candidates, one dropped for failed resolution, two exported.
	blob, err := os.ReadFile(store.path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(blob), "\r\n"), "\r\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if strings.Contains(string(blob), "Unknown Fund") {
		t.Fatal("unresolved fund must be dropped from the dataset")
	}
	// The fund with a failed series fetch stays, with sentinel metadata.
	if !strings.Contains(string(blob), `"118989","N/A","N/A","N/A","N/A","[]"`) {
		t.Fatalf("expected sentinel-filled row for failed series fetch:\n%s", string(blob))
	}

	// Prompt carries the profile; report carries all sections.
	for _, want := range []string{"Moderate", "retirement", "₹150000"} {
		if !strings.Contains(sum.prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if sum.handle.URI != "files/abc123" {
		t.Fatalf("summarizer must receive the uploaded handle, got %+v", sum.handle)
	}
	for _, key := range RequiredSections {
		if _, ok := report[key]; !ok {
			t.Fatalf("report missing section %s", key)
		}
	}
	if report["Top_Mutual_Funds"].([]any)[0].(map[string]any)["Fund_Name"] != "Axis Bluechip Fund" {
		t.Fatal("summarizer sections must survive normalization")
	}
}

func TestPipelineInvalidParametersStopsBeforeCatalog(t *testing.T) {
	agent := &mockAgent{reply: `{"response":"{\"country\":\"India\"}"}`}
	catalog := &mockCatalog{body: []byte(`{}`)}
	search := &scriptedSearch{}

	p := newTestPipeline(t, agent, catalog, search, &scriptedSeries{}, &captureStore{}, &captureSummarizer{})
	_, err := p.Run(context.Background(), sampleProfile())
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind != KindInvalidParameters {
		t.Fatalf("expected invalid_parameters, got %v", err)
	}
	if catalog.gotParams != nil {
		t.Fatal("catalog must not be queried with incomplete parameters")
	}
}

func TestPipelineEmptyCatalogStopsBeforeResolution(t *testing.T) {
	agent := &mockAgent{reply: agentReply()}
	catalog := &mockCatalog{body: []byte(`{"result":{"count":0,"list":[]}}`)}
	search := &scriptedSearch{}

	p := newTestPipeline(t, agent, catalog, search, &scriptedSeries{}, &captureStore{}, &captureSummarizer{})
	_, err := p.Run(context.Background(), sampleProfile())
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind != KindEmptyCatalog {
		t.Fatalf("expected empty_catalog, got %v", err)
	}
	if search.calls != 0 {
		t.Fatal("scheme resolution must not run on an empty catalog")
	}
}

func TestPipelineUploadFailure(t *testing.T) {
	agent := &mockAgent{reply: agentReply()}
	store := &captureStore{err: errors.New("file api down")}

	p := newTestPipeline(t, agent, threeFundCatalog(), &scriptedSearch{}, &scriptedSeries{}, store, &captureSummarizer{})
	_, err := p.Run(context.Background(), sampleProfile())
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind != KindUpstreamUnavailable {
		t.Fatalf("expected upstream_unavailable, got %v", err)
	}
}

func TestPipelineSummarizerGarbage(t *testing.T) {
	agent := &mockAgent{reply: agentReply()}
	sum := &captureSummarizer{reply: "cannot help with that"}

	p := newTestPipeline(t, agent, threeFundCatalog(), &scriptedSearch{}, &scriptedSeries{}, &captureStore{}, sum)
	_, err := p.Run(context.Background(), sampleProfile())
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind != KindSchemaViolation {
		t.Fatalf("expected schema_violation, got %v", err)
	}
}

func TestPipelineMintsFreshIdentifiers(t *testing.T) {
	agent := &mockAgent{reply: agentReply()}
	sum := &captureSummarizer{reply: "{}"}

	p := newTestPipeline(t, agent, threeFundCatalog(), &scriptedSearch{}, &scriptedSeries{}, &captureStore{}, sum)
	if _, err := p.Run(context.Background(), sampleProfile()); err != nil {
		t.Fatal(err)
	}
	firstUser, firstSession := agent.gotUserID, agent.gotSessionID
	if firstUser == "" || firstSession == "" || firstUser == firstSession {
		t.Fatalf("expected distinct non-empty ids, got user=%q session=%q", firstUser, firstSession)
	}
	if _, err := p.Run(context.Background(), sampleProfile()); err != nil {
		t.Fatal(err)
	}
	if agent.gotUserID == firstUser || agent.gotSessionID == firstSession {
		t.Fatal("each request must mint fresh ids")
	}
}

func TestPipelineDefaults(t *testing.T) {
	p := NewPipeline(&mockAgent{}, &mockCatalog{}, &scriptedSearch{}, &scriptedSeries{}, &captureStore{}, &captureSummarizer{}, Config{})
	if p.window == nil || p.exportDir != "." || p.now == nil {
		t.Fatalf("zero config must get defaults: %+v", fmt.Sprintf("window=%v dir=%q", p.window, p.exportDir))
	}
}
