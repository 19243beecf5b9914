// Package report renders the task collection and its statistics for export.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"github.com/Sergey-Okey/toka-app/pkg/store"
	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"
)

// Formats lists the accepted export formats.
var Formats = []string{"json", "yaml", "csv", "pdf"}

// Report is everything an export contains.
type Report struct {
	GeneratedAt time.Time          `json:"generatedAt" yaml:"generatedAt"`
	Summary     store.Summary      `json:"summary" yaml:"summary"`
	History     []model.DailyStats `json:"history" yaml:"history"`
	Tasks       []model.Task       `json:"tasks" yaml:"tasks"`
}

// FromStore snapshots st.
func FromStore(st *store.Store, now time.Time) Report {
	return Report{
		GeneratedAt: now,
		Summary:     st.Summary(),
		History:     st.History(),
		Tasks:       st.Tasks(),
	}
}

type options struct {
	fontPath string
}

// Option configures Export.
type Option func(*options)

// WithFont embeds the TrueType font at path in PDF output so any Unicode
// text renders. Without it PDFs use the core Arial font, which only covers
// Latin-1 (cp1252); other characters are lost.
func WithFont(path string) Option {
	return func(o *options) { o.fontPath = path }
}

// NeedsUnicodeFont reports whether r holds text outside Latin-1, which the
// default PDF font cannot show.
func NeedsUnicodeFont(r Report) bool {
	outside := func(s string) bool {
		for _, c := range s {
			if c > 0xFF {
				return true
			}
		}
		return false
	}
	for _, c := range r.Summary.Categories {
		if outside(c) {
			return true
		}
	}
	for _, t := range r.Tasks {
		if outside(t.Title) || outside(t.Category) {
			return true
		}
	}
	return false
}

// Export renders r in format. CSV carries only the task rows.
func Export(r Report, format string, opts ...Option) ([]byte, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(r, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(r)
	case "csv":
		return exportCSV(r.Tasks)
	case "pdf":
		return exportPDF(r, o)
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
}

var csvHeader = []string{
	"id", "title", "completed", "created_at", "completed_date", "due_date",
	"category", "priority", "tags", "estimated_minutes", "spent_minutes", "description",
}

func exportCSV(tasks []model.Task) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		names := make([]string, 0, len(t.Tags))
		for _, tag := range t.Tags {
			names = append(names, tag.Name)
		}
		row := []string{
			t.ID,
			t.Title,
			strconv.FormatBool(t.Completed),
			formatTime(&t.CreatedAt),
			formatTime(t.CompletedDate),
			formatTime(t.DueDate),
			t.Category,
			string(t.Priority),
			strings.Join(names, ";"),
			strconv.Itoa(t.EstimatedTime),
			strconv.Itoa(t.TimeSpent),
			t.Description,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func formatTime(ts *model.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

const utf8Family = "body"

func exportPDF(r Report, o options) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")

	family := "Arial"
	bold := "B"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if o.fontPath != "" {
		ttf, err := os.ReadFile(o.fontPath)
		if err != nil {
			return nil, fmt.Errorf("read pdf font: %w", err)
		}
		pdf.AddUTF8FontFromBytes(utf8Family, "", ttf)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("load pdf font %s: %w", o.fontPath, err)
		}
		family, bold = utf8Family, ""
		tr = func(s string) string { return s }
	}
	setFont := func(style string, size float64) {
		if style != "" {
			style = bold
		}
		pdf.SetFont(family, style, size)
	}
	pdf.AddPage()

	setFont("B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(8)
	setFont("", 9)
	pdf.Cell(40, 6, r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	pdf.Ln(10)

	s := r.Summary
	setFont("B", 11)
	pdf.Cell(40, 8, "Summary")
	pdf.Ln(8)
	setFont("", 10)
	for _, line := range []string{
		fmt.Sprintf("Total: %d  Active: %d  Completed: %d  Overdue: %d", s.Total, s.Active, s.Completed, s.Overdue),
		fmt.Sprintf("Weekly productivity: %d%%  Predicted: %d%%", s.WeeklyProductivity, s.PredictedProductivity),
		fmt.Sprintf("Categories: %s", strings.Join(s.Categories, ", ")),
	} {
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}
	pdf.Ln(4)

	setFont("B", 11)
	pdf.Cell(40, 8, "Tasks")
	pdf.Ln(8)
	setFont("", 10)
	for _, t := range r.Tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s (%s)", mark, t.Title, t.Priority)
		if t.DueDate != nil {
			line += " due " + t.DueDate.Format("2006-01-02 15:04")
		}
		if t.Category != "" {
			line += " / " + t.Category
		}
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}

	if len(r.History) > 0 {
		pdf.Ln(4)
		setFont("B", 11)
		pdf.Cell(40, 8, "History")
		pdf.Ln(8)
		setFont("", 10)
		for _, d := range r.History {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s  %d/%d  %d%%", d.Date, d.Completed, d.Total, d.Productivity)), "0", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
