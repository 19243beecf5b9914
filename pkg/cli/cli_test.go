package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sergey-Okey/toka-app/pkg/config"
	"github.com/Sergey-Okey/toka-app/pkg/model"
)

// setupHome points the config directory at a temp dir and makes writes
// synchronous.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"TOKA_CALENDAR", "TOKA_BACKEND", "TOKA_DATA_DIR", "TOKA_ACTIVE_POLICY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("TOKA_DEBOUNCE_MS", "0")
	return home
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runErr(args...)
	if err != nil {
		t.Fatalf("toka %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func runErr(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAddListDone(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			setupHome(t)
			t.Setenv("TOKA_BACKEND", backend)

			id := strings.TrimSpace(run(t, "add", "Buy", "milk", "--priority", "high", "--tag", "work", "--estimate", "30m"))
			if id == "" {
				t.Fatal("add printed no id")
			}
			run(t, "add", "Walk dog")

			list := run(t, "list")
			if !strings.Contains(list, "Buy milk") || !strings.Contains(list, "Walk dog") {
				t.Errorf("list output missing tasks:\n%s", list)
			}
			if !strings.Contains(list, "#Work") {
				t.Errorf("tag not resolved through the registry:\n%s", list)
			}

			out := run(t, "done", id, "--spent", "45m")
			if !strings.HasPrefix(out, "[x]") {
				t.Errorf("done output = %q", out)
			}

			var task model.Task
			if err := json.Unmarshal([]byte(run(t, "show", id)), &task); err != nil {
				t.Fatal(err)
			}
			if !task.Completed || task.TimeSpent != 45 || task.CompletedDate == nil {
				t.Errorf("task after done = %+v", task)
			}

			pending := run(t, "list", "--pending")
			if strings.Contains(pending, "Buy milk") {
				t.Errorf("--pending listed a completed task:\n%s", pending)
			}

			stats := run(t, "stats")
			if !strings.Contains(stats, "Total: 2  Active: 1  Completed: 1  Overdue: 0") {
				t.Errorf("stats output:\n%s", stats)
			}
		})
	}
}

func TestUpdateToggleDelete(t *testing.T) {
	setupHome(t)
	id := strings.TrimSpace(run(t, "add", "Draft", "--due", "2099-01-02"))

	out := run(t, "update", id, "--title", "Final", "--category", "writing", "--no-due")
	if !strings.Contains(out, "Final") || !strings.Contains(out, "@writing") || strings.Contains(out, "due") {
		t.Errorf("update output = %q", out)
	}

	if out := run(t, "toggle", id); !strings.HasPrefix(out, "[x]") {
		t.Errorf("toggle output = %q", out)
	}
	if out := run(t, "toggle", id); !strings.HasPrefix(out, "[ ]") {
		t.Errorf("second toggle output = %q", out)
	}

	if out := run(t, "delete", id); !strings.Contains(out, "Deleted") {
		t.Errorf("delete output = %q", out)
	}
	if _, err := runErr("show", id); err == nil {
		t.Error("show of a deleted task should fail")
	}
}

func TestResolveIDPrefix(t *testing.T) {
	setupHome(t)
	id := strings.TrimSpace(run(t, "add", "Only task"))
	out := run(t, "show", id[:len(id)-4])
	if !strings.Contains(out, id) {
		t.Errorf("prefix lookup failed:\n%s", out)
	}
	if _, err := runErr("show", "does-not-exist"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	setupHome(t)
	if _, err := runErr("add", "x", "--priority", "critical"); err == nil {
		t.Error("expected error for unknown priority")
	}
	if _, err := runErr("add", "x", "--due", "next week"); err == nil {
		t.Error("expected error for unparseable due date")
	}
	if out := run(t, "list"); !strings.Contains(out, "No tasks found.") {
		t.Errorf("rejected adds must not create tasks:\n%s", out)
	}
}

func TestTagsCommands(t *testing.T) {
	setupHome(t)
	list := run(t, "tags", "list")
	for _, name := range []string{"Work", "Personal", "Urgent"} {
		if !strings.Contains(list, name) {
			t.Errorf("default tag %s missing:\n%s", name, list)
		}
	}
	run(t, "tags", "add", "Errands", "--color", "#ff9800")
	if list := run(t, "tags", "list"); !strings.Contains(list, "Errands") || !strings.Contains(list, "#ff9800") {
		t.Errorf("added tag missing:\n%s", list)
	}
}

func TestExportAndImport(t *testing.T) {
	home := setupHome(t)
	dir := filepath.Join(home, "in")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}

	tw := filepath.Join(dir, "export.json")
	twData := `[{"uuid":"1","description":"From tw","status":"pending","priority":"L","tags":["home"]},` +
		`{"uuid":"2","description":"Closed","status":"completed"}]`
	if err := os.WriteFile(tw, []byte(twData), 0600); err != nil {
		t.Fatal(err)
	}
	if out := run(t, "import", "--from", "taskwarrior", tw); !strings.Contains(out, "Imported 1 tasks") {
		t.Errorf("taskwarrior import = %q", out)
	}

	org := filepath.Join(dir, "inbox.org")
	if err := os.WriteFile(org, []byte("* TODO [#A] From org :work:\n* DONE Old\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if out := run(t, "import", "--from", "org", org); !strings.Contains(out, "Imported 1 tasks") {
		t.Errorf("org import = %q", out)
	}

	csvPath := filepath.Join(dir, "tasks.csv")
	run(t, "export", "--format", "csv", "--output", csvPath)
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "From tw") || !strings.Contains(string(data), "From org") {
		t.Errorf("csv export:\n%s", data)
	}

	if _, err := runErr("export", "--format", "docx"); err == nil {
		t.Error("expected error for unknown export format")
	}
	if _, err := runErr("import", "--from", "org"); err == nil {
		t.Error("expected error for org import without files")
	}
}

func TestConfigCommands(t *testing.T) {
	home := setupHome(t)
	run(t, "config", "set-calendar", "Chores")
	run(t, "config", "set-active-policy", "include-overdue")
	if _, err := runErr("config", "set-backend", "postgres"); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg, err := config.ReadFile(filepath.Join(home, ".config", "toka", "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Calendar != "Chores" || cfg.ActivePolicy != "include-overdue" {
		t.Errorf("saved config = %+v", cfg)
	}
	if cfg.DataDir != "" {
		t.Errorf("derived data dir was written back: %s", cfg.DataDir)
	}

	out := run(t, "config", "show")
	if !strings.Contains(out, `"calendar": "Chores"`) {
		t.Errorf("config show:\n%s", out)
	}
}
