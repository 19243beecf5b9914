package tags

import (
	"testing"

	"github.com/Sergey-Okey/toka-app/pkg/model"
)

func TestNewRegistrySeedsDefaults(t *testing.T) {
	r, seeded := NewRegistry(nil)
	if !seeded {
		t.Errorf("Expected empty registry to be seeded")
	}
	all := r.All()
	if len(all) != 3 || all[0].Name != "Work" || all[1].Name != "Personal" || all[2].Name != "Urgent" {
		t.Errorf("Unexpected defaults %+v", all)
	}

	r, seeded = NewRegistry([]model.Tag{{ID: "x", Name: "Home"}})
	if seeded || len(r.All()) != 1 {
		t.Errorf("Expected persisted tags to be kept as-is")
	}
}

func TestLookupIgnoresCase(t *testing.T) {
	r, _ := NewRegistry(nil)
	tag, ok := r.Lookup("  wORK ")
	if !ok || tag.ID != "1" {
		t.Errorf("Expected case-insensitive match for Work, got %+v ok=%v", tag, ok)
	}
	if _, ok := r.Lookup("groceries"); ok {
		t.Errorf("Expected no match for unknown tag")
	}
}

func TestAdd(t *testing.T) {
	r, _ := NewRegistry(nil)
	tag, created, err := r.Add("10", "Errands", "")
	if err != nil || !created {
		t.Fatalf("Add failed: created=%v err=%v", created, err)
	}
	if tag.Color != DefaultColor {
		t.Errorf("Expected default color, got %s", tag.Color)
	}
	dup, created, err := r.Add("11", "errands", "#000")
	if err != nil || created || dup.ID != "10" {
		t.Errorf("Expected existing tag for duplicate name, got %+v created=%v err=%v", dup, created, err)
	}
	if _, _, err := r.Add("12", "  ", ""); err == nil {
		t.Errorf("Expected error for empty name")
	}
	if len(r.All()) != 4 {
		t.Errorf("Expected 4 tags, got %d", len(r.All()))
	}
}

func TestResolve(t *testing.T) {
	r, _ := NewRegistry(nil)
	got := r.Resolve(FromNames([]string{"urgent", "garden", " "}))
	if len(got) != 2 {
		t.Fatalf("Expected 2 tags, got %d", len(got))
	}
	if got[0].Name != "Urgent" || got[0].Color != "#f44336" {
		t.Errorf("Expected registry name and color, got %+v", got[0])
	}
	if got[1].Name != "garden" || got[1].Color != DefaultColor {
		t.Errorf("Expected unknown tag with default color, got %+v", got[1])
	}
}
