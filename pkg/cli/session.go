package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/config"
	"github.com/Sergey-Okey/toka-app/pkg/storage"
	"github.com/Sergey-Okey/toka-app/pkg/storage/sqlite"
	"github.com/Sergey-Okey/toka-app/pkg/store"
)

// session is one opened storage backend with the store on top of it.
type session struct {
	cfg     *config.Config
	storage storage.Storage
	store   *store.Store
	closers []func() error
}

func openSession(gf *globalFlags) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if gf.dataDir != "" {
		cfg.DataDir = gf.dataDir
	}
	if gf.backend != "" {
		cfg.Backend = gf.backend
	}

	policy, err := store.ParseActivePolicy(cfg.ActivePolicy)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	switch cfg.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		db, err := sqlite.Open(filepath.Join(cfg.DataDir, sqlite.DefaultFile))
		if err != nil {
			return nil, err
		}
		s.storage = db
		s.closers = append(s.closers, db.Close)
	case config.BackendFile:
		fs, err := storage.NewFile(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		s.storage = fs
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	s.store = store.New(s.storage,
		store.WithDebounce(time.Duration(cfg.DebounceMS)*time.Millisecond),
		store.WithActivePolicy(policy),
	)
	s.store.Init()
	// The store writes before the backend goes away.
	s.closers = append([]func() error{s.store.Close}, s.closers...)
	return s, nil
}

func (s *session) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// withStore opens a session, runs fn and closes the session, reporting the
// first error.
func withStore(gf *globalFlags, fn func(s *session) error) (err error) {
	s, err := openSession(gf)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
