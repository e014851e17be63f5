package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseRowStructuredAnswer(t *testing.T) {
	answer := `{"audit_finding": "Passwords must be 12+ characters.", "evidence": "Section 4.2: Passwords must contain at least 12 characters."}`
	r := ParseRow("policy.pdf", answer)
	if r.Filename != "policy.pdf" {
		t.Fatalf("filename = %q", r.Filename)
	}
	if r.AuditFinding != "Passwords must be 12+ characters." {
		t.Fatalf("finding = %q", r.AuditFinding)
	}
	if r.Evidence == "" {
		t.Fatal("evidence missing")
	}
}

func TestParseRowJSONWrappedInProse(t *testing.T) {
	answer := "Here is the result:\n```json\n{\"audit_finding\": \"EVIDENCE NOT FOUND\", \"evidence\": \"EVIDENCE NOT FOUND\"}\n```\nLet me know if you need more."
	r := ParseRow("a.pdf", answer)
	if r.AuditFinding != "EVIDENCE NOT FOUND" || r.Evidence != "EVIDENCE NOT FOUND" {
		t.Fatalf("row = %+v", r)
	}
}

func TestParseRowPlainAnswerBecomesFinding(t *testing.T) {
	answer := "  The policy requires quarterly reviews.  "
	r := ParseRow("b.pdf", answer)
	if r.AuditFinding != "The policy requires quarterly reviews." {
		t.Fatalf("finding = %q", r.AuditFinding)
	}
	if r.Evidence != "" {
		t.Fatalf("evidence = %q, want empty", r.Evidence)
	}
}

func TestParseRowBlankFindingKeepsEvidence(t *testing.T) {
	answer := `{"audit_finding": "  ", "evidence": "Section 2: reviews are quarterly."}`
	r := ParseRow("e.pdf", answer)
	if r.Evidence != "Section 2: reviews are quarterly." {
		t.Fatalf("evidence = %q, want parsed evidence kept", r.Evidence)
	}
	// the unusable finding is replaced by the whole answer
	if r.AuditFinding != answer {
		t.Fatalf("finding = %q", r.AuditFinding)
	}
}

func TestParseRowSchemaRejectsMissingEvidence(t *testing.T) {
	answer := `{"audit_finding": "something"}`
	r := ParseRow("c.pdf", answer)
	// schema fails, so the raw answer is the finding
	if r.AuditFinding != answer {
		t.Fatalf("finding = %q", r.AuditFinding)
	}
}

func TestParseRowSchemaRejectsNonStringTypes(t *testing.T) {
	answer := `{"audit_finding": 42, "evidence": null}`
	r := ParseRow("d.pdf", answer)
	if r.AuditFinding != answer {
		t.Fatalf("finding = %q", r.AuditFinding)
	}
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit_report.xlsx")
	rows := []Row{{Filename: "policy.pdf", AuditFinding: "finding", Evidence: "quoted sentence"}}
	if err := WriteXLSX(path, rows); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open written workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(sheetName, "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "finding" {
		t.Fatalf("B2 = %q", got)
	}
	if h, _ := f.GetCellValue(sheetName, "C1"); h != "Evidence" {
		t.Fatalf("C1 = %q", h)
	}
}
