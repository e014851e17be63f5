// Package ocr implements the image-recognition fallback: pages are rendered
// one at a time and handed to a recognition engine, skipping pages the engine
// cannot read.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	DefaultLanguage = "eng"
	DefaultDPI      = 300
)

// Config holds recognition settings, established once before page iteration.
type Config struct {
	Language    string  // tesseract language code, default "eng"
	TessdataDir string  // optional language-model directory, read by the engine only
	DPI         float64 // rasterization DPI, default 300
}

// Document is the page source the fallback loop reads from.
type Document interface {
	PageCount() int
	RenderPNG(page int, dpi float64) ([]byte, error)
}

// Recognizer runs the per-page fallback loop over a document.
type Recognizer struct {
	engine Engine
	cfg    Config
	logger *slog.Logger
}

func NewRecognizer(engine Engine, cfg Config, logger *slog.Logger) *Recognizer {
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.DPI <= 0 {
		cfg.DPI = DefaultDPI
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{engine: engine, cfg: cfg, logger: logger}
}

// Recognize renders every page in order and accumulates the recognized text,
// each page followed by a line separator.
//
// A page the engine fails on is skipped: its failure is recorded in the
// returned warnings and the loop continues. A rendering failure aborts the
// whole fallback; the partial accumulation is discarded and the error
// propagates as an extraction failure.
func (r *Recognizer) Recognize(ctx context.Context, doc Document) (string, []string, error) {
	pages := doc.PageCount()
	var b strings.Builder
	var warnings []string

	start := time.Now()
	r.logger.Info("ocr.recognize.start", "pages", pages, "lang", r.cfg.Language, "dpi", r.cfg.DPI)

	for i := 0; i < pages; i++ {
		png, err := doc.RenderPNG(i, r.cfg.DPI)
		if err != nil {
			r.logger.Error("ocr.render.failed", "page", i, "error", err)
			return "", warnings, fmt.Errorf("render page %d: %w", i, err)
		}
		text, err := r.engine.Recognize(ctx, png)
		if err != nil {
			r.logger.Warn("ocr.page.skipped", "page", i, "error", err)
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	r.logger.Info("ocr.recognize.done",
		"pages", pages,
		"skipped", len(warnings),
		"bytes", b.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b.String(), warnings, nil
}
