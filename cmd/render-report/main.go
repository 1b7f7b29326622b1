package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wealthlens/fundadvisor/internal/advisor"
	"github.com/wealthlens/fundadvisor/internal/report"
)

func main() {
	inputPath := flag.String("input", "", "Path to saved recommendation report JSON")
	outputPath := flag.String("output", "", "Path to write rebuilt markdown (defaults to stdout)")
	htmlPath := flag.String("html-output", "", "Optional path to write rendered HTML")
	pdfPath := flag.String("pdf-output", "", "Optional path to write rendered PDF (requires a local Chromium)")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	in, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	var rep advisor.StructuredReport
	if err := json.Unmarshal(in, &rep); err != nil {
		log.Fatalf("decode input JSON: %v", err)
	}
	// Accept either a bare report or the API envelope form.
	if inner, ok := rep["recommendations"].(map[string]any); ok && len(rep) == 1 {
		rep = inner
	}

	markdown := report.BuildMarkdown(rep)
	if err := writeMarkdown(*outputPath, markdown); err != nil {
		log.Fatalf("write markdown: %v", err)
	}

	if *htmlPath == "" && *pdfPath == "" {
		return
	}
	htmlDoc, err := report.RenderHTML(markdown)
	if err != nil {
		log.Fatalf("render html: %v", err)
	}
	if *htmlPath != "" {
		if err := os.WriteFile(*htmlPath, []byte(htmlDoc), 0o644); err != nil {
			log.Fatalf("write html: %v", err)
		}
	}
	if *pdfPath != "" {
		renderer := report.NewChromiumPDFRenderer()
		pdf, err := renderer.Render(context.Background(), htmlDoc)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
	}
}

func writeMarkdown(outputPath, markdown string) error {
	if outputPath == "" {
		_, err := fmt.Print(markdown)
		return err
	}
	return os.WriteFile(outputPath, []byte(markdown), 0o644)
}
