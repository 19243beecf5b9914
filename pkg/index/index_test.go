package index

import (
	"testing"

	"github.com/Sergey-Okey/toka-app/pkg/storage"
)

func TestEventIndexPersists(t *testing.T) {
	mem := storage.NewMemory()
	idx, err := NewEventIndex(mem)
	if err != nil {
		t.Fatalf("NewEventIndex failed: %v", err)
	}
	idx.Set("task-1", "evt-1")
	idx.Set("task-2", "evt-2")
	idx.Remove("task-2")
	if err := idx.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := NewEventIndex(mem)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := reloaded.Get("task-1"); got != "evt-1" {
		t.Errorf("Expected evt-1, got %q", got)
	}
	if ids := reloaded.TaskIDs(); len(ids) != 1 || ids[0] != "task-1" {
		t.Errorf("Unexpected ids %v", ids)
	}
}

func TestSaveSkipsCleanIndex(t *testing.T) {
	mem := storage.NewMemory()
	idx, _ := NewEventIndex(mem)
	if err := idx.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok, _ := mem.GetItem(StorageKey); ok {
		t.Errorf("Expected no write for an unchanged index")
	}
}

func TestCorruptIndexIsAnError(t *testing.T) {
	mem := storage.NewMemory()
	_ = mem.SetItem(StorageKey, "{")
	if _, err := NewEventIndex(mem); err == nil {
		t.Errorf("Expected error for corrupt index")
	}
}
