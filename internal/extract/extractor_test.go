package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rohan4852/AuditBot/internal/ocr"
)

type fakeSource struct {
	texts     []string
	renderErr error
	closed    int
}

func (s *fakeSource) PageCount() int { return len(s.texts) }

func (s *fakeSource) PageText(page int) (string, error) { return s.texts[page], nil }

func (s *fakeSource) RenderPNG(page int, dpi float64) ([]byte, error) {
	if s.renderErr != nil {
		return nil, s.renderErr
	}
	return []byte{byte(page)}, nil
}

func (s *fakeSource) Close() error {
	s.closed++
	return nil
}

type fakeRecognizer struct {
	text     string
	warnings []string
	err      error
	calls    int
}

func (r *fakeRecognizer) Recognize(ctx context.Context, doc ocr.Document) (string, []string, error) {
	r.calls++
	if r.err != nil {
		return "", r.warnings, r.err
	}
	// drive the render path so render failures surface like the real loop
	for i := 0; i < doc.PageCount(); i++ {
		if _, err := doc.RenderPNG(i, 300); err != nil {
			return "", r.warnings, err
		}
	}
	return r.text, r.warnings, nil
}

func newTestExtractor(src *fakeSource, rec *fakeRecognizer) *Extractor {
	e := NewExtractor(rec, 0, nil)
	e.open = func(string) (Source, error) { return src, nil }
	return e
}

func TestLongDirectTextSkipsRecognition(t *testing.T) {
	long := strings.Repeat("policy text ", 10)
	src := &fakeSource{texts: []string{long}}
	rec := &fakeRecognizer{text: "should never be used"}

	res, err := newTestExtractor(src, rec).ExtractFile(context.Background(), "doc.pdf")
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if rec.calls != 0 {
		t.Fatalf("recognizer called %d times, want 0", rec.calls)
	}
	if res.Method != "pdf-text" {
		t.Fatalf("method = %q, want pdf-text", res.Method)
	}
	if res.Text != strings.TrimSpace(long) {
		t.Fatalf("text = %q", res.Text)
	}
	if src.closed != 1 {
		t.Fatalf("document closed %d times, want 1", src.closed)
	}
}

func TestShortTextFallsBackToRecognition(t *testing.T) {
	src := &fakeSource{texts: []string{"scan"}}
	rec := &fakeRecognizer{text: "Recognized page content that is clearly long enough.\n"}

	res, err := newTestExtractor(src, rec).ExtractFile(context.Background(), "doc.pdf")
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("recognizer called %d times, want 1", rec.calls)
	}
	if res.Method != "pdf-ocr" {
		t.Fatalf("method = %q, want pdf-ocr", res.Method)
	}
	if want := strings.TrimSpace(rec.text); res.Text != want {
		t.Fatalf("text = %q, want %q", res.Text, want)
	}
}

func TestShortMultibyteTextFallsBackToRecognition(t *testing.T) {
	// 30 characters but 60 bytes; the threshold counts characters.
	src := &fakeSource{texts: []string{strings.Repeat("п", 30)}}
	rec := &fakeRecognizer{text: "Recognized page content that is clearly long enough.\n"}

	res, err := newTestExtractor(src, rec).ExtractFile(context.Background(), "doc.pdf")
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("recognizer called %d times, want 1", rec.calls)
	}
	if res.Method != "pdf-ocr" {
		t.Fatalf("method = %q, want pdf-ocr", res.Method)
	}
}

func TestLongMultibyteTextSkipsRecognition(t *testing.T) {
	src := &fakeSource{texts: []string{strings.Repeat("ü", 50)}}
	rec := &fakeRecognizer{text: "should never be used"}

	res, err := newTestExtractor(src, rec).ExtractFile(context.Background(), "doc.pdf")
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if rec.calls != 0 {
		t.Fatalf("recognizer called %d times, want 0", rec.calls)
	}
	if res.Method != "pdf-text" {
		t.Fatalf("method = %q, want pdf-text", res.Method)
	}
}

func TestBlankRecognitionPreservesShortText(t *testing.T) {
	src := &fakeSource{texts: []string{"  short  "}}
	rec := &fakeRecognizer{text: " \n\n "}

	res, err := newTestExtractor(src, rec).ExtractFile(context.Background(), "doc.pdf")
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if res.Text != "short" {
		t.Fatalf("text = %q, want original short text", res.Text)
	}
	if res.Method != "pdf-text" {
		t.Fatalf("method = %q, want pdf-text", res.Method)
	}
}

func TestRecognitionWarningsSurface(t *testing.T) {
	src := &fakeSource{texts: []string{"x"}}
	rec := &fakeRecognizer{text: "recovered text from the surviving pages of the scan", warnings: []string{"page 1: blurry"}}

	res, err := newTestExtractor(src, rec).ExtractFile(context.Background(), "doc.pdf")
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0] != "page 1: blurry" {
		t.Fatalf("warnings = %v", res.Warnings)
	}
}

func TestRenderFailureReleasesHandle(t *testing.T) {
	src := &fakeSource{texts: []string{"a", "b", "c"}, renderErr: errors.New("render failed")}
	rec := &fakeRecognizer{}

	_, err := newTestExtractor(src, rec).ExtractFile(context.Background(), "doc.pdf")
	if err == nil {
		t.Fatal("expected extraction failure on render error")
	}
	if src.closed != 1 {
		t.Fatalf("document closed %d times, want 1", src.closed)
	}
}

func TestOpenFailureIsFatal(t *testing.T) {
	e := NewExtractor(&fakeRecognizer{}, 0, nil)
	e.open = func(string) (Source, error) { return nil, errors.New("bad header") }
	if _, err := e.ExtractFile(context.Background(), "broken.pdf"); err == nil {
		t.Fatal("expected error for unopenable document")
	}
}

func TestZeroPageDocument(t *testing.T) {
	src := &fakeSource{}
	rec := &fakeRecognizer{}

	res, err := newTestExtractor(src, rec).ExtractFile(context.Background(), "empty.pdf")
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if res.Text != "" || res.Pages != 0 {
		t.Fatalf("got text=%q pages=%d, want empty", res.Text, res.Pages)
	}
}
