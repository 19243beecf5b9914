// Package index maps task ids to the calendar events published for them.
package index

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/Sergey-Okey/toka-app/pkg/storage"
)

// StorageKey holds the mapping in the local storage.
const StorageKey = "calendarEvents"

type EventIndex struct {
	Mappings map[string]string `json:"mappings"`
	store    storage.Storage
	mu       sync.RWMutex
	dirty    bool
}

// NewEventIndex loads the mapping from st. A corrupt value is reported
// rather than silently dropped, since it would orphan published events.
func NewEventIndex(st storage.Storage) (*EventIndex, error) {
	idx := &EventIndex{
		Mappings: make(map[string]string),
		store:    st,
	}
	if err := idx.Load(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *EventIndex) Load() error {
	raw, ok, err := idx.store.GetItem(StorageKey)
	if err != nil {
		return fmt.Errorf("failed to read event index: %w", err)
	}
	if !ok || raw == "" {
		return nil
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := json.Unmarshal([]byte(raw), &idx.Mappings); err != nil {
		return fmt.Errorf("failed to decode event index: %w", err)
	}
	if idx.Mappings == nil {
		idx.Mappings = make(map[string]string)
	}
	return nil
}

func (idx *EventIndex) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.dirty {
		return nil
	}
	b, err := json.Marshal(idx.Mappings)
	if err != nil {
		return err
	}
	if err := idx.store.SetItem(StorageKey, string(b)); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

func (idx *EventIndex) Get(taskID string) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.Mappings[taskID]
}

func (idx *EventIndex) Set(taskID, eventID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.Mappings[taskID] != eventID {
		idx.Mappings[taskID] = eventID
		idx.dirty = true
	}
}

func (idx *EventIndex) Remove(taskID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.Mappings[taskID]; exists {
		delete(idx.Mappings, taskID)
		idx.dirty = true
	}
}

// TaskIDs returns the indexed task ids in sorted order.
func (idx *EventIndex) TaskIDs() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ids := make([]string, 0, len(idx.Mappings))
	for id := range idx.Mappings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
