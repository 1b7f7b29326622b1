package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/wealthlens/fundadvisor/internal/advisor"
	"github.com/wealthlens/fundadvisor/internal/anthropicllm"
	"github.com/wealthlens/fundadvisor/internal/gemini"
	"github.com/wealthlens/fundadvisor/internal/httpapi"
	"github.com/wealthlens/fundadvisor/internal/lyzr"
	"github.com/wealthlens/fundadvisor/internal/mfapi"
	"github.com/wealthlens/fundadvisor/internal/telemetry"
	"github.com/wealthlens/fundadvisor/internal/twelvedata"
)

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	exportDir := flag.String("export-dir", ".", "directory for intermediate dataset exports")
	summarizer := flag.String("summarizer", "gemini", "summarizer backend: gemini or anthropic")
	otlpEndpoint := flag.String("otlp-endpoint", "", "OTLP trace collector endpoint (empty disables tracing)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, "fundadvisor", *otlpEndpoint)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Printf("advisor-server: trace shutdown: %v", err)
		}
	}()

	agent, err := lyzr.New(lyzr.Config{
		APIKey:  requiredEnv("LYZR_API_KEY"),
		AgentID: requiredEnv("AGENT_ID"),
	})
	if err != nil {
		log.Fatal(err)
	}
	catalog, err := twelvedata.New(twelvedata.Config{APIKey: requiredEnv("TWELVEDATA_API_KEY")})
	if err != nil {
		log.Fatal(err)
	}
	schemes := mfapi.New(mfapi.Config{})

	var store advisor.GroundingStore
	var summary advisor.Summarizer
	switch *summarizer {
	case "anthropic":
		caller, err := anthropicllm.NewCallerFromEnv()
		if err != nil {
			log.Fatal(err)
		}
		store, summary = caller, caller
	case "gemini":
		g, err := gemini.New(gemini.Config{APIKey: requiredEnv("GENAI_API_KEY")})
		if err != nil {
			log.Fatal(err)
		}
		store, summary = g, g
	default:
		log.Fatalf("unknown summarizer backend %q", *summarizer)
	}

	pipeline := advisor.NewPipeline(agent, catalog, schemes, schemes, store, summary, advisor.Config{
		ExportDir: *exportDir,
	})

	srv := &http.Server{
		Addr:    *addr,
		Handler: httpapi.NewServer(pipeline),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("advisor-server: shutdown: %v", err)
		}
	}()

	log.Printf("advisor-server listening on %s (summarizer=%s)", *addr, *summarizer)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func requiredEnv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		log.Fatalf("missing required env var %s", key)
	}
	return v
}
