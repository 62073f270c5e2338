package main

// Run the review pipeline against a local file without the HTTP server:
//   go run ./cmd/reviewfile -file contract.pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"contract-backend/internal/extract"
	"contract-backend/internal/llm"
	openai "contract-backend/internal/llm/openai"
	"contract-backend/internal/normalize"
	"contract-backend/internal/review"
	"contract-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	filePath := flag.String("file", "", "Path to contract file (pdf, docx or txt)")
	outPath := flag.String("out", "", "Path to write report JSON (optional)")
	markdown := flag.Bool("markdown", false, "Print the markdown rendering instead of the report")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	flag.Parse()

	if strings.TrimSpace(*filePath) == "" {
		exitErr("file path is required")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		exitErr(fmt.Sprintf("read file: %v", err))
	}
	fileName := filepath.Base(*filePath)

	ctx := context.Background()
	extracted, err := extract.Extract(ctx, bytes.NewReader(data), fileName)
	if err != nil {
		exitErr(fmt.Sprintf("extract text: %v", err))
	}
	if strings.TrimSpace(extracted) == "" {
		exitErr("no usable text could be extracted")
	}
	text := normalize.Normalize(extracted)

	if *markdown {
		fmt.Println(normalize.ToMarkdown(text, "Contract Analysis: "+fileName))
		return
	}

	client, err := buildClient(*provider, *model)
	if err != nil {
		exitErr(err.Error())
	}

	analyzer := &review.Analyzer{LLM: client}
	result := analyzer.Analyze(ctx, text)
	risks := analyzer.ReviewRisks(ctx, text, result.ContractType, result.GoverningLaw)
	report := review.BuildReport(fileName, result, risks, time.Now().UTC())

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("encode report: %v", err))
	}

	if strings.TrimSpace(*outPath) != "" {
		if err := os.WriteFile(*outPath, payload, 0o644); err != nil {
			exitErr(fmt.Sprintf("write report: %v", err))
		}
		fmt.Printf("OK: wrote %s\n", *outPath)
		return
	}
	fmt.Println(string(payload))
}

func buildClient(provider, model string) (llm.Client, error) {
	switch provider {
	case "openai":
		return openai.NewClient(os.Getenv("OPENAI_API_KEY"), model)
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}

func exitErr(msg string) {
	fmt.Fprintf(os.Stderr, "%s\n", msg)
	os.Exit(1)
}
