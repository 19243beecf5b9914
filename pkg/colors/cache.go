// Package colors assigns calendar color ids to task categories.
package colors

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/storage"
)

const (
	// StorageKey holds the cache in the local storage.
	StorageKey = "calendarColors"
	// Uncategorized is the color of tasks without a category (graphite).
	Uncategorized = "8"
	// paletteSize is the number of Google Calendar event colors.
	paletteSize = 11
)

type CategoryState struct {
	ColorID  string    `json:"color_id"`
	LastUsed time.Time `json:"last_used"`
}

// ColorCache hands out one color per category. When every color is taken
// the least recently used category gives up its color.
type ColorCache struct {
	Categories map[string]*CategoryState `json:"categories"`
	store      storage.Storage
	now        func() time.Time
	dirty      bool
}

func NewColorCache(st storage.Storage, now func() time.Time) (*ColorCache, error) {
	if now == nil {
		now = time.Now
	}
	cache := &ColorCache{
		Categories: make(map[string]*CategoryState),
		store:      st,
		now:        now,
	}
	raw, ok, err := st.GetItem(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read color cache: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &cache.Categories); err != nil {
			return nil, fmt.Errorf("failed to decode color cache: %w", err)
		}
		if cache.Categories == nil {
			cache.Categories = make(map[string]*CategoryState)
		}
	}
	return cache, nil
}

func (c *ColorCache) Save() error {
	if !c.dirty {
		return nil
	}
	b, err := json.Marshal(c.Categories)
	if err != nil {
		return err
	}
	if err := c.store.SetItem(StorageKey, string(b)); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// ColorID returns the color for category, assigning one if needed.
func (c *ColorCache) ColorID(category string) string {
	if category == "" {
		return Uncategorized
	}
	if state, exists := c.Categories[category]; exists {
		state.LastUsed = c.now()
		c.dirty = true
		return state.ColorID
	}
	return c.assignColor(category)
}

func (c *ColorCache) assignColor(category string) string {
	used := make(map[string]bool)
	for _, s := range c.Categories {
		used[s.ColorID] = true
	}

	for i := 1; i <= paletteSize; i++ {
		id := strconv.Itoa(i)
		if id == Uncategorized || used[id] {
			continue
		}
		c.Categories[category] = &CategoryState{ColorID: id, LastUsed: c.now()}
		c.dirty = true
		return id
	}

	// Palette exhausted: recycle the least recently used color.
	var oldest string
	var oldestTime time.Time
	first := true
	for name, s := range c.Categories {
		if first || s.LastUsed.Before(oldestTime) || (s.LastUsed.Equal(oldestTime) && name < oldest) {
			oldestTime = s.LastUsed
			oldest = name
			first = false
		}
	}
	recycled := c.Categories[oldest].ColorID
	delete(c.Categories, oldest)
	c.Categories[category] = &CategoryState{ColorID: recycled, LastUsed: c.now()}
	c.dirty = true
	return recycled
}
