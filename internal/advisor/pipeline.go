package advisor

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("fundadvisor.advisor")

// Pipeline turns a user profile into a structured investment report by
// chaining the external collaborators in sequence. One request occupies the
// pipeline fully before returning; the per-fund resolution loop runs serially,
// sized for catalogs of dozens of funds.
type Pipeline struct {
	agent      AgentService
	catalog    CatalogService
	search     SeriesSearchService
	series     SeriesService
	store      GroundingStore
	summarizer Summarizer

	window    WindowStrategy
	exportDir string
	now       func() time.Time
}

// Config tunes the non-collaborator parts of the pipeline. Zero values get
// sensible defaults: newest-first windowing and exports in the working
// directory.
type Config struct {
	ExportDir string
	Window    WindowStrategy
	Now       func() time.Time
}

func NewPipeline(agent AgentService, catalog CatalogService, search SeriesSearchService, series SeriesService, store GroundingStore, summarizer Summarizer, cfg Config) *Pipeline {
	if cfg.Window == nil {
		cfg.Window = NewestFirstWindow()
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Pipeline{
		agent:      agent,
		catalog:    catalog,
		search:     search,
		series:     series,
		store:      store,
		summarizer: summarizer,
		window:     cfg.Window,
		exportDir:  cfg.ExportDir,
		now:        cfg.Now,
	}
}

// Run executes the whole pipeline for one profile. Fresh user and session ids
// are minted per request so the agent service cannot correlate requests.
// Any returned error carries a Kind from the taxonomy in errors.go; per-fund
// failures never surface here.
func (p *Pipeline) Run(ctx context.Context, profile UserProfile) (StructuredReport, error) {
	ctx, span := tracer.Start(ctx, "advisor.pipeline.run")
	defer span.End()

	userID := uuid.NewString()
	sessionID := uuid.NewString()

	params, err := p.extractStage(ctx, userID, sessionID, profile)
	if err != nil {
		return nil, failSpan(span, err)
	}
	if err := ValidateParameters(params); err != nil {
		return nil, failSpan(span, err)
	}

	funds, err := p.catalogStage(ctx, params)
	if err != nil {
		return nil, failSpan(span, err)
	}

	kept := p.resolveStage(ctx, funds)
	span.SetAttributes(
		attribute.Int("advisor.catalog_funds", len(funds)),
		attribute.Int("advisor.dataset_rows", len(kept)),
	)

	path, err := p.assembleStage(ctx, kept)
	if err != nil {
		return nil, failSpan(span, err)
	}

	report, err := p.summarizeStage(ctx, profile, path)
	if err != nil {
		return nil, failSpan(span, err)
	}
	return report, nil
}

func (p *Pipeline) extractStage(ctx context.Context, userID, sessionID string, profile UserProfile) (QueryParameters, error) {
	ctx, span := tracer.Start(ctx, "advisor.stage.extract_parameters")
	defer span.End()
	params, err := ExtractParameters(ctx, p.agent, userID, sessionID, ProfileMessage(profile))
	if err != nil {
		return nil, failSpan(span, err)
	}
	return params, nil
}

func (p *Pipeline) catalogStage(ctx context.Context, params QueryParameters) ([]FundCandidate, error) {
	ctx, span := tracer.Start(ctx, "advisor.stage.fetch_catalog")
	defer span.End()
	funds, err := FetchCatalog(ctx, p.catalog, params)
	if err != nil {
		return nil, failSpan(span, err)
	}
	return funds, nil
}

// resolveStage runs the per-fund resolution loop. Funds whose names cannot be
// resolved to a scheme code are dropped; funds whose series fetch fails stay
// with sentinel metadata. Both outcomes are local to the fund.
func (p *Pipeline) resolveStage(ctx context.Context, funds []FundCandidate) []FundCandidate {
	ctx, span := tracer.Start(ctx, "advisor.stage.resolve_series",
		oteltrace.WithAttributes(attribute.Int("advisor.candidates", len(funds))))
	defer span.End()

	now := p.now()
	kept := make([]FundCandidate, 0, len(funds))
	for _, fund := range funds {
		match, ok := ResolveScheme(ctx, p.search, fund.Name)
		if !ok {
			log.Printf("advisor pipeline: skipping fund %q, no scheme code resolved", fund.Name)
			continue
		}
		fund.SchemeCode = match.SchemeCode
		EnrichWithSeries(ctx, p.series, p.window, now, &fund)
		kept = append(kept, fund)
	}
	span.SetAttributes(attribute.Int("advisor.resolved", len(kept)))
	return kept
}

func (p *Pipeline) assembleStage(ctx context.Context, funds []FundCandidate) (string, error) {
	_, span := tracer.Start(ctx, "advisor.stage.assemble_dataset")
	defer span.End()
	path, err := WriteDataset(p.exportDir, funds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return path, nil
}

func (p *Pipeline) summarizeStage(ctx context.Context, profile UserProfile, path string) (StructuredReport, error) {
	ctx, span := tracer.Start(ctx, "advisor.stage.summarize")
	defer span.End()

	handle, err := p.store.Upload(ctx, path)
	if err != nil {
		return nil, failSpan(span, upstreamErr("grounding store", err))
	}

	raw, err := p.summarizer.Generate(ctx, BuildPrompt(profile), handle)
	if err != nil {
		return nil, failSpan(span, upstreamErr("summarizer", err))
	}

	report, err := NormalizeReport(raw)
	if err != nil {
		return nil, failSpan(span, err)
	}
	return report, nil
}

func failSpan(span oteltrace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
