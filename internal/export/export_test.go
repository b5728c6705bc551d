package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var sample = Dataset{
	Title:   "Liste des produits",
	Headers: []string{"ID", "Nom", "Quantité"},
	Rows: [][]string{
		{"1", "Coca 1.5L", "10"},
		{"2", "Eau Vive", "3"},
	},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, sample); err != nil {
		t.Fatalf("csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "ID,Nom,Quantité" {
		t.Fatalf("header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Coca 1.5L") {
		t.Fatalf("row: %q", lines[1])
	}
}

func TestWriteJSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sample); err != nil {
		t.Fatalf("json: %v", err)
	}
	var env struct {
		Title        string              `json:"title"`
		ExportDate   string              `json:"export_date"`
		TotalRecords int                 `json:"total_records"`
		Headers      []string            `json:"headers"`
		Records      []map[string]string `json:"records"`
	}
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.TotalRecords != 2 || len(env.Records) != 2 {
		t.Fatalf("record count: %+v", env)
	}
	if env.ExportDate == "" {
		t.Fatalf("export date missing")
	}
	if env.Records[0]["Nom"] != "Coca 1.5L" {
		t.Fatalf("record keyed by header: %+v", env.Records[0])
	}
}

func TestWriteTXT(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatTXT, sample); err != nil {
		t.Fatalf("txt: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Liste des produits") {
		t.Fatalf("title missing:\n%s", out)
	}
	if !strings.Contains(out, "Total: 2 enregistrement(s)") {
		t.Fatalf("footer missing:\n%s", out)
	}
}

func TestWriteHTMLEscapes(t *testing.T) {
	var buf bytes.Buffer
	d := Dataset{
		Title:   "Injection",
		Headers: []string{"Nom"},
		Rows:    [][]string{{"<script>alert(1)</script>"}},
	}
	if err := Write(&buf, FormatHTML, d); err != nil {
		t.Fatalf("html: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>alert") {
		t.Fatalf("cell content must be escaped:\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("expected escaped cell:\n%s", out)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatXLSX, sample); err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	// xlsx files are zip archives.
	if buf.Len() < 4 || buf.Bytes()[0] != 'P' || buf.Bytes()[1] != 'K' {
		t.Fatalf("not a zip archive")
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "pdf", sample); err != ErrUnsupportedFormat {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFileWritesSanitizedName(t *testing.T) {
	dir := t.TempDir()
	d := sample
	d.Title = "Rapport: ventes/août"
	path, err := File(dir, FormatCSV, d)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	name := filepath.Base(path)
	if strings.ContainsAny(name, ":/") {
		t.Fatalf("unsanitized filename: %q", name)
	}
	if !strings.HasSuffix(name, ".csv") {
		t.Fatalf("extension lost: %q", name)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file missing: %v", err)
	}
}

func TestSheetName(t *testing.T) {
	if got := sheetName("Rapport: ventes"); strings.Contains(got, ":") {
		t.Fatalf("forbidden char kept: %q", got)
	}
	long := strings.Repeat("a", 40)
	if got := sheetName(long); len([]rune(got)) != 31 {
		t.Fatalf("sheet name not trimmed: %d", len(got))
	}
	if sheetName("") != "Export" {
		t.Fatalf("empty title fallback")
	}
}
