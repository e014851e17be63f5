// Package pipeline coordinates one audit run: extract the document text,
// assemble the prompt, make the single model call, and locate the answer.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/rohan4852/AuditBot/internal/extract"
	"github.com/rohan4852/AuditBot/internal/llm"
	"github.com/rohan4852/AuditBot/internal/report"
)

// TextExtractor is stage 1: document path -> text.
type TextExtractor interface {
	ExtractFile(ctx context.Context, path string) (extract.Result, error)
}

// Generator is the remote completion boundary. One synchronous call, no
// retries.
type Generator interface {
	GenerateContent(ctx context.Context, model, prompt string) ([]byte, error)
}

// Outcome is what one audit run produces.
type Outcome struct {
	Answer   string
	Raw      []byte
	Located  bool // answer came from a "text" field, not the raw body
	Method   string
	Warnings []string
	Row      report.Row
}

// Auditor runs the strictly sequential audit pipeline.
type Auditor struct {
	extractor TextExtractor
	client    Generator
	model     string
	logger    *slog.Logger
}

func New(extractor TextExtractor, client Generator, model string, logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{extractor: extractor, client: client, model: model, logger: logger}
}

// Run audits one document. An empty question falls back to the default
// question literal. Extraction and transport failures are terminal; an
// answer-less response is not — the raw body becomes the answer.
func (a *Auditor) Run(ctx context.Context, path, question string) (Outcome, error) {
	if strings.TrimSpace(question) == "" {
		question = llm.DefaultQuestion
	}
	start := time.Now()

	res, err := a.extractor.ExtractFile(ctx, path)
	if err != nil {
		return Outcome{}, fmt.Errorf("extract text: %w", err)
	}
	a.logger.Info("audit.extract.ok",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"skipped_pages", len(res.Warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)

	prompt := llm.BuildPrompt(res.Text, question)
	raw, err := a.client.GenerateContent(ctx, a.model, prompt)
	if err != nil {
		return Outcome{}, fmt.Errorf("model call: %w", err)
	}

	answer, located := llm.FindAnswer(raw)
	if !located {
		a.logger.Warn("audit.answer.not_located", "raw_bytes", len(raw))
		answer = string(raw)
	}

	out := Outcome{
		Answer:   answer,
		Raw:      raw,
		Located:  located,
		Method:   res.Method,
		Warnings: res.Warnings,
		Row:      report.ParseRow(filepath.Base(path), answer),
	}
	a.logger.Info("audit.done",
		"path", path,
		"located", located,
		"answer_bytes", len(answer),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
