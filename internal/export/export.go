package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	"github.com/andryfotsiny/gestion/internal/validation"
)

// Format names accepted by Write and File.
const (
	FormatCSV  = "csv"
	FormatTXT  = "txt"
	FormatJSON = "json"
	FormatHTML = "html"
	FormatXLSX = "xlsx"
)

var ErrUnsupportedFormat = fmt.Errorf("format d'export non supporté")

// Dataset is one tabular export: a title, column headers and string rows.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Write renders the dataset in the given format. All formats carry the same
// rows; JSON additionally wraps them in a metadata envelope.
func Write(w io.Writer, format string, d Dataset) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, d)
	case FormatTXT:
		return writeTXT(w, d)
	case FormatJSON:
		return writeJSON(w, d)
	case FormatHTML:
		return writeHTML(w, d)
	case FormatXLSX:
		return writeXLSX(w, d)
	default:
		return ErrUnsupportedFormat
	}
}

// File writes the dataset into dir with a sanitized, timestamped filename
// and returns the path.
func File(dir, format string, d Dataset) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := validation.SanitizeFilename(d.Title + "_" + time.Now().Format("20060102_150405") + "." + format)
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Write(f, format, d); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// ContentType returns the MIME type to serve for a format.
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatTXT:
		return "text/plain; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

func writeCSV(w io.Writer, d Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Headers); err != nil {
		return err
	}
	for _, row := range d.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeTXT renders fixed-width columns sized to the longest cell.
func writeTXT(w io.Writer, d Dataset) error {
	widths := make([]int, len(d.Headers))
	for i, h := range d.Headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range d.Rows {
		for i, cell := range row {
			if i < len(widths) && len([]rune(cell)) > widths[i] {
				widths[i] = len([]rune(cell))
			}
		}
	}
	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			width := 0
			if i < len(widths) {
				width = widths[i]
			}
			parts[i] = cell + strings.Repeat(" ", width-len([]rune(cell)))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}
	var b strings.Builder
	b.WriteString(d.Title + "\n")
	b.WriteString("Exporté le: " + time.Now().Format("2006-01-02 15:04:05") + "\n\n")
	b.WriteString(line(d.Headers) + "\n")
	total := 0
	for _, width := range widths {
		total += width
	}
	b.WriteString(strings.Repeat("-", total+2*(len(widths)-1)) + "\n")
	for _, row := range d.Rows {
		b.WriteString(line(row) + "\n")
	}
	b.WriteString(fmt.Sprintf("\nTotal: %d enregistrement(s)\n", len(d.Rows)))
	_, err := io.WriteString(w, b.String())
	return err
}

type jsonEnvelope struct {
	Title        string              `json:"title"`
	ExportDate   string              `json:"export_date"`
	TotalRecords int                 `json:"total_records"`
	Headers      []string            `json:"headers"`
	Records      []map[string]string `json:"records"`
}

func writeJSON(w io.Writer, d Dataset) error {
	records := make([]map[string]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		rec := make(map[string]string, len(d.Headers))
		for i, h := range d.Headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonEnvelope{
		Title:        d.Title,
		ExportDate:   time.Now().Format(time.RFC3339),
		TotalRecords: len(d.Rows),
		Headers:      d.Headers,
		Records:      records,
	})
}

var htmlTmpl = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 2em; }
h1 { color: #2c3e50; }
table { border-collapse: collapse; width: 100%; }
th { background: #2c3e50; color: #fff; padding: 8px; text-align: left; }
td { border: 1px solid #ddd; padding: 8px; }
tr:nth-child(even) { background: #f2f2f2; }
.meta { color: #7f8c8d; font-size: 0.9em; margin-bottom: 1em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Exporté le {{.Date}} · {{.Count}} enregistrement(s)</p>
<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

func writeHTML(w io.Writer, d Dataset) error {
	return htmlTmpl.Execute(w, map[string]any{
		"Title":   d.Title,
		"Date":    time.Now().Format("2006-01-02 15:04:05"),
		"Count":   len(d.Rows),
		"Headers": d.Headers,
		"Rows":    d.Rows,
	})
}

func writeXLSX(w io.Writer, d Dataset) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName(d.Title))
	if err != nil {
		return err
	}
	headerRow := sheet.AddRow()
	for _, h := range d.Headers {
		headerRow.AddCell().SetValue(h)
	}
	for _, row := range d.Rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetValue(cell)
		}
	}
	return file.Write(w)
}

// sheetName trims the title to Excel's 31-char sheet name limit and strips
// the characters xlsx forbids.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, title)
	runes := []rune(name)
	if len(runes) > 31 {
		runes = runes[:31]
	}
	if len(runes) == 0 {
		return "Export"
	}
	return string(runes)
}
