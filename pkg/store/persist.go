package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// writer coalesces save requests. schedule cancels any pending timer and
// starts a new one; flush writes immediately. After close every schedule
// writes synchronously so no state is left unwritten.
type writer struct {
	delay time.Duration
	save  func() error

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	closed  bool
}

func newWriter(delay time.Duration, save func() error) *writer {
	return &writer{delay: delay, save: save}
}

func (w *writer) schedule() {
	w.mu.Lock()
	w.pending = true
	if w.delay <= 0 || w.closed {
		w.mu.Unlock()
		_ = w.flush()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() { _ = w.flush() })
	w.mu.Unlock()
}

func (w *writer) flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if !w.pending {
		return nil
	}
	w.pending = false
	return w.save()
}

func (w *writer) close() error {
	err := w.flush()
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return err
}

// save writes a snapshot of the whole state. Failures are logged and
// recorded as diagnostics; the in-memory state stays authoritative.
func (s *Store) save() error {
	type item struct {
		key   string
		value any
		raw   string
	}
	var errs []error

	s.mu.Lock()
	items := []item{
		{key: KeyTasks, value: orEmpty(s.tasks)},
		{key: KeyHistory, value: orEmpty(s.history)},
		{key: KeyLogs, value: orEmpty(s.logs)},
	}
	if s.registry != nil {
		items = append(items, item{key: KeyTags, value: s.registry.All()})
	}
	for i := range items {
		b, err := json.Marshal(items[i].value)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", items[i].key, err))
			continue
		}
		items[i].raw = string(b)
	}
	s.mu.Unlock()

	for _, it := range items {
		if it.raw == "" {
			continue
		}
		if err := s.storage.SetItem(it.key, it.raw); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", it.key, err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		s.mu.Lock()
		s.logf("Warning: failed to persist state: %v", err)
		s.mu.Unlock()
	}
	return err
}

// orEmpty keeps empty collections encoded as [] rather than null.
func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// Flush writes any pending state now.
func (s *Store) Flush() error {
	return s.writer.flush()
}

// Close performs the final write. Mutations after Close still succeed and
// are written synchronously.
func (s *Store) Close() error {
	return s.writer.close()
}
