// Package extract decides how a document's text is obtained: direct
// extraction of selectable text, with a per-page recognition fallback when
// the direct result is too short to be usable.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rohan4852/AuditBot/internal/document"
	"github.com/rohan4852/AuditBot/internal/ocr"
)

// DefaultTextThreshold is the trimmed character count below which direct
// extraction is treated as insufficient and recognition runs.
const DefaultTextThreshold = 50

// Source is an open document handle. *document.Document satisfies it; tests
// substitute fakes.
type Source interface {
	PageCount() int
	PageText(page int) (string, error)
	RenderPNG(page int, dpi float64) ([]byte, error)
	Close() error
}

// Recognizer is the OCR fallback over an open document.
type Recognizer interface {
	Recognize(ctx context.Context, doc ocr.Document) (string, []string, error)
}

// Result summarizes one extraction run.
type Result struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr"
	Warnings []string
	Duration time.Duration
}

// Extractor owns the document for the duration of an extraction run.
type Extractor struct {
	recognizer Recognizer
	threshold  int
	logger     *slog.Logger

	open func(path string) (Source, error)
}

func NewExtractor(recognizer Recognizer, threshold int, logger *slog.Logger) *Extractor {
	if threshold <= 0 {
		threshold = DefaultTextThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		recognizer: recognizer,
		threshold:  threshold,
		logger:     logger,
		open:       openDocument,
	}
}

func openDocument(path string) (Source, error) {
	return document.Open(path)
}

// ExtractFile opens the document at path and extracts its text. The handle is
// released on every exit path, including a failed fallback.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	doc, err := e.open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open document: %w", err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			e.logger.Warn("extract.close_error", "path", path, "error", cerr)
		}
	}()

	res, err := e.extract(ctx, doc)
	res.Duration = time.Since(start)
	return res, err
}

// extract concatenates the selectable text of every page and, when the
// trimmed result is shorter than the threshold, replaces it with the
// recognition fallback's output — unless that output is blank, in which case
// the original short text is preserved.
func (e *Extractor) extract(ctx context.Context, doc Source) (Result, error) {
	pages := doc.PageCount()
	var b strings.Builder
	for i := 0; i < pages; i++ {
		t, err := doc.PageText(i)
		if err != nil {
			return Result{}, fmt.Errorf("extract page %d: %w", i, err)
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(t)
	}
	text := strings.TrimSpace(b.String())
	chars := utf8.RuneCountInString(text)

	res := Result{Text: text, Pages: pages, Method: "pdf-text"}
	if chars >= e.threshold {
		return res, nil
	}

	e.logger.Info("extract.fallback.start", "chars", chars, "threshold", e.threshold, "pages", pages)
	recognized, warnings, err := e.recognizer.Recognize(ctx, doc)
	res.Warnings = warnings
	if err != nil {
		return Result{}, fmt.Errorf("recognition fallback: %w", err)
	}
	if strings.TrimSpace(recognized) == "" {
		e.logger.Warn("extract.fallback.empty", "pages", pages)
		return res, nil
	}
	res.Text = strings.TrimSpace(recognized)
	res.Method = "pdf-ocr"
	return res, nil
}
