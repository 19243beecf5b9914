// Package tags holds the registry of named, colored tags.
package tags

import (
	"fmt"
	"strings"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"golang.org/x/text/cases"
)

// DefaultColor is given to tags created without a color.
const DefaultColor = "#9e9e9e"

// Defaults are seeded into an empty registry.
func Defaults() []model.Tag {
	return []model.Tag{
		{ID: "1", Name: "Work", Color: "#31a974"},
		{ID: "2", Name: "Personal", Color: "#2196f3"},
		{ID: "3", Name: "Urgent", Color: "#f44336"},
	}
}

// Registry is an ordered set of tags with case-insensitive names.
// It is not safe for concurrent use.
type Registry struct {
	tags []model.Tag
}

// NewRegistry builds a registry from persisted tags. seeded reports that
// the defaults were used because tags was empty.
func NewRegistry(tags []model.Tag) (r *Registry, seeded bool) {
	if len(tags) == 0 {
		return &Registry{tags: Defaults()}, true
	}
	return &Registry{tags: append([]model.Tag(nil), tags...)}, false
}

func fold(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// All returns a copy of the registered tags in insertion order.
func (r *Registry) All() []model.Tag {
	return append([]model.Tag(nil), r.tags...)
}

// Lookup finds a tag by name, ignoring case.
func (r *Registry) Lookup(name string) (model.Tag, bool) {
	key := fold(name)
	for _, t := range r.tags {
		if fold(t.Name) == key {
			return t, true
		}
	}
	return model.Tag{}, false
}

// Add registers a new tag under id. Adding a name that already exists
// returns the existing tag and created=false.
func (r *Registry) Add(id, name, color string) (tag model.Tag, created bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, false, fmt.Errorf("tag name is required")
	}
	if existing, ok := r.Lookup(name); ok {
		return existing, false, nil
	}
	if color == "" {
		color = DefaultColor
	}
	tag = model.Tag{ID: id, Name: name, Color: color}
	r.tags = append(r.tags, tag)
	return tag, true, nil
}

// Resolve fills in registry colors for tags referenced by name. Unknown
// tags keep their own color, or get DefaultColor.
func (r *Registry) Resolve(in []model.Tag) []model.Tag {
	out := make([]model.Tag, 0, len(in))
	for _, t := range in {
		if known, ok := r.Lookup(t.Name); ok {
			if t.Color == "" {
				t.Color = known.Color
			}
			t.Name = known.Name
		} else if t.Color == "" {
			t.Color = DefaultColor
		}
		out = append(out, t)
	}
	return out
}

// FromNames turns plain tag names into tag values.
func FromNames(names []string) []model.Tag {
	out := make([]model.Tag, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, model.Tag{Name: n})
		}
	}
	return out
}
