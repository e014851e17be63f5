package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in a single rendered page image. Implementations
// are configured once (language, data path) and then called once per page.
type Engine interface {
	Recognize(ctx context.Context, png []byte) (string, error)
}

// TesseractEngine runs Tesseract through gosseract.
type TesseractEngine struct {
	client *gosseract.Client
	lang   string
}

// NewTesseractEngine creates and configures a Tesseract client. Language
// defaults to "eng"; TessdataDir, when set, points at a directory containing
// language models and overrides the system default.
func NewTesseractEngine(cfg Config) (*TesseractEngine, error) {
	lang := cfg.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(lang); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("set tesseract language %q: %w", lang, err)
	}
	if cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataDir); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("set tessdata prefix %q: %w", cfg.TessdataDir, err)
		}
	}
	return &TesseractEngine{client: client, lang: lang}, nil
}

// Recognize OCRs one page image.
func (e *TesseractEngine) Recognize(ctx context.Context, png []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := e.client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return text, nil
}

// Close releases the Tesseract client.
func (e *TesseractEngine) Close() error { return e.client.Close() }
