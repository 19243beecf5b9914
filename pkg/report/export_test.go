package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"github.com/Sergey-Okey/toka-app/pkg/storage"
	"github.com/Sergey-Okey/toka-app/pkg/store"
	"gopkg.in/yaml.v3"
)

var now = time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

func sampleReport(t *testing.T) Report {
	t.Helper()
	st := store.New(storage.NewMemory(),
		store.WithClock(func() time.Time { return now }),
		store.WithLogger(log.New(io.Discard, "", 0)),
		store.WithDebounce(0),
	)
	st.Init()
	due := now.Add(6 * time.Hour)
	st.AddTask(model.Draft{
		Title:    "Ship, \"quoted\" release",
		DueDate:  &due,
		Category: "work",
		Priority: model.PriorityHigh,
		Tags:     []model.Tag{{Name: "work"}},
	})
	done := st.AddTask(model.Draft{Title: "Água plants", Category: "home"})
	st.CompleteTask(done, 20*time.Minute)
	return FromStore(st, now)
}

func TestExportJSON(t *testing.T) {
	r := sampleReport(t)
	out, err := Export(r, "json")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var decoded struct {
		Summary store.Summary `json:"summary"`
		Tasks   []model.Task  `json:"tasks"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Summary.Total != 2 || decoded.Summary.Completed != 1 {
		t.Errorf("summary = %+v", decoded.Summary)
	}
	if len(decoded.Tasks) != 2 {
		t.Errorf("got %d tasks", len(decoded.Tasks))
	}
}

func TestExportYAML(t *testing.T) {
	out, err := Export(sampleReport(t), "YAML")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	tasks, ok := doc["tasks"].([]any)
	if !ok || len(tasks) != 2 {
		t.Fatalf("tasks = %#v", doc["tasks"])
	}
	first := tasks[0].(map[string]any)
	if first["title"] != "Água plants" {
		t.Errorf("title = %v", first["title"])
	}
	if !strings.Contains(string(out), "createdAt: \"2024-06-15T14:00:00Z\"") &&
		!strings.Contains(string(out), "createdAt: 2024-06-15T14:00:00Z") {
		t.Errorf("createdAt not written as a timestamp string:\n%s", out)
	}
}

func TestExportCSV(t *testing.T) {
	out, err := Export(sampleReport(t), "csv")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "id" || rows[0][len(rows[0])-1] != "description" {
		t.Errorf("header = %v", rows[0])
	}
	done, open := rows[1], rows[2]
	if done[2] != "true" || done[10] != "20" || done[4] == "" {
		t.Errorf("completed row = %v", done)
	}
	if open[1] != "Ship, \"quoted\" release" || open[5] != "2024-06-15T20:00:00Z" || open[8] != "Work" {
		t.Errorf("open row = %v", open)
	}
}

func TestExportPDF(t *testing.T) {
	out, err := Export(sampleReport(t), "pdf")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF: %q", out[:min(len(out), 16)])
	}
}

func TestExportPDFMissingFont(t *testing.T) {
	_, err := Export(sampleReport(t), "pdf", WithFont(filepath.Join(t.TempDir(), "absent.ttf")))
	if err == nil {
		t.Fatal("expected error for a font file that does not exist")
	}
}

func TestNeedsUnicodeFont(t *testing.T) {
	latin := Report{Tasks: []model.Task{{Title: "Água plants"}}}
	if NeedsUnicodeFont(latin) {
		t.Error("Latin-1 titles should not need a font")
	}
	cyrillic := Report{Tasks: []model.Task{{Title: "Купить молоко"}}}
	if !NeedsUnicodeFont(cyrillic) {
		t.Error("Cyrillic titles need a Unicode font")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	if _, err := Export(Report{}, "docx"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
