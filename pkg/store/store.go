// Package store owns the task collection, its derived statistics and their
// persistence to a storage.Storage.
//
// A Store is constructed once per process, initialized with Init (loading
// is also triggered lazily by the first operation) and closed with Close,
// which performs the final write. Every mutation schedules a debounced write
// of the whole state; in-memory state is authoritative and consistent as
// soon as an operation returns.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"github.com/Sergey-Okey/toka-app/pkg/stats"
	"github.com/Sergey-Okey/toka-app/pkg/storage"
	"github.com/Sergey-Okey/toka-app/pkg/tags"
	"github.com/google/uuid"
)

// Storage keys.
const (
	KeyTasks   = "tasks"
	KeyHistory = "taskHistory"
	KeyLogs    = "taskLogs"
	KeyTags    = "tags"
)

const (
	// DefaultDebounce coalesces bursts of mutations into one write.
	DefaultDebounce = 300 * time.Millisecond
	// LogLimit caps the persisted diagnostic log.
	LogLimit = 100
)

// ActivePolicy decides whether overdue tasks count as active.
type ActivePolicy string

const (
	ActiveExcludesOverdue ActivePolicy = "exclude-overdue"
	ActiveIncludesOverdue ActivePolicy = "include-overdue"
)

// ParseActivePolicy validates s; empty input selects ActiveExcludesOverdue.
func ParseActivePolicy(s string) (ActivePolicy, error) {
	switch ActivePolicy(s) {
	case "", ActiveExcludesOverdue:
		return ActiveExcludesOverdue, nil
	case ActiveIncludesOverdue:
		return ActiveIncludesOverdue, nil
	}
	return "", fmt.Errorf("unknown active policy %q", s)
}

type Store struct {
	storage storage.Storage
	logger  *log.Logger
	now     func() time.Time
	newID   func() (string, error)
	policy  ActivePolicy
	delay   time.Duration

	mu          sync.Mutex
	initialized bool
	tasks       []model.Task
	history     []model.DailyStats
	logs        []string
	registry    *tags.Registry

	writer *writer
}

type Option func(*Store)

// WithLogger directs warnings to l instead of the standard logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now. Calendar days are computed in the location
// of the returned times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDebounce sets the write coalescing window. Zero or negative writes
// synchronously after every mutation.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

// WithActivePolicy sets how ActiveCount treats overdue tasks.
func WithActivePolicy(p ActivePolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithIDGenerator replaces the UUIDv7 task id generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Store) { s.newID = gen }
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// New creates a store persisting to st.
func New(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		logger:  log.Default(),
		now:     time.Now,
		newID:   newUUID,
		policy:  ActiveExcludesOverdue,
		delay:   DefaultDebounce,
		tasks:   []model.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.writer = newWriter(s.delay, s.save)
	return s
}

// Init loads persisted state. Missing or corrupt values are logged and
// replaced by empty state. Calls after the first are no-ops.
func (s *Store) Init() {
	s.mu.Lock()
	dirty := s.initLocked()
	s.mu.Unlock()
	if dirty {
		s.writer.schedule()
	}
}

// initLocked loads state once and reports whether it must be rewritten
// (seeded tags or upgraded legacy records).
func (s *Store) initLocked() bool {
	if s.initialized {
		return false
	}
	s.initialized = true

	var upgraded bool
	if raw, ok := s.read(KeyTasks); ok {
		tasks, up, err := model.DecodeTasks([]byte(raw))
		if err != nil {
			s.logger.Printf("Warning: ignoring unreadable %s: %v", KeyTasks, err)
		} else {
			s.tasks = tasks
			upgraded = up
		}
	}

	if raw, ok := s.read(KeyHistory); ok {
		var history []model.DailyStats
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			s.logger.Printf("Warning: ignoring unreadable %s: %v", KeyHistory, err)
		} else {
			if len(history) > stats.HistoryLimit {
				history = history[len(history)-stats.HistoryLimit:]
			}
			s.history = history
		}
	}

	if raw, ok := s.read(KeyLogs); ok {
		var logs []string
		if err := json.Unmarshal([]byte(raw), &logs); err != nil {
			s.logger.Printf("Warning: ignoring unreadable %s: %v", KeyLogs, err)
		} else {
			if len(logs) > LogLimit {
				logs = logs[len(logs)-LogLimit:]
			}
			s.logs = logs
		}
	}

	var registered []model.Tag
	if raw, ok := s.read(KeyTags); ok {
		if err := json.Unmarshal([]byte(raw), &registered); err != nil {
			s.logger.Printf("Warning: ignoring unreadable %s: %v", KeyTags, err)
			registered = nil
		}
	}
	var seeded bool
	s.registry, seeded = tags.NewRegistry(registered)

	if upgraded {
		for i := range s.tasks {
			s.tasks[i].Tags = s.registry.Resolve(s.tasks[i].Tags)
		}
		s.logf("Upgraded legacy task records")
	}
	return upgraded || seeded
}

func (s *Store) read(key string) (string, bool) {
	raw, ok, err := s.storage.GetItem(key)
	if err != nil {
		s.logger.Printf("Warning: could not read %s: %v", key, err)
		return "", false
	}
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}

// logf records a timestamped diagnostic, evicting the oldest beyond LogLimit.
// Callers hold s.mu.
func (s *Store) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.logger.Print(msg)
	s.logs = append(s.logs, s.now().UTC().Format(time.RFC3339)+" "+msg)
	if len(s.logs) > LogLimit {
		s.logs = append([]string(nil), s.logs[len(s.logs)-LogLimit:]...)
	}
}

// mutate runs fn under the lock, rolls up today's statistics and schedules
// a write. fn's result is returned unchanged.
func (s *Store) mutate(fn func(now time.Time) bool) bool {
	s.mu.Lock()
	s.initLocked()
	now := s.now()
	ok := fn(now)
	s.history = stats.Rollup(s.history, s.tasks, now)
	s.mu.Unlock()

	s.writer.schedule()
	return ok
}

// view runs fn under the lock after making sure state is loaded.
func (s *Store) view(fn func(now time.Time)) {
	s.mu.Lock()
	dirty := s.initLocked()
	fn(s.now())
	s.mu.Unlock()
	if dirty {
		s.writer.schedule()
	}
}
