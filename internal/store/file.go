package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/benvon/replan/internal/models"
	"go.uber.org/zap"
)

// FileStore keeps every record in one JSON document on local disk.
// Writes go to a temp file that is renamed over the target.
type FileStore struct {
	mu     sync.RWMutex
	doc    *document
	path   string
	logger *zap.Logger
}

// NewFileStore opens or creates the document at path
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &FileStore{doc: newDocument(), path: path, logger: logger}
	if err := s.load(); err != nil {
		logger.Error("file_store_load_failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open store file: %w", err)
	}
	defer func() { _ = file.Close() }()

	doc := newDocument()
	if err := json.NewDecoder(file).Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode store file: %w", err)
	}
	if doc.Profiles == nil {
		doc.Profiles = make(map[string]json.RawMessage)
	}
	if doc.Plans == nil {
		doc.Plans = make(map[string]map[string]json.RawMessage)
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// persist must be called with the write lock held
func (s *FileStore) persist() error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	tempFile := s.path + ".tmp"
	file, err := os.OpenFile(tempFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.doc); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to encode store file: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync store file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return os.Rename(tempFile, s.path)
}

func (s *FileStore) LoadProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.loadProfile(userID)
}

func (s *FileStore) SaveProfile(_ context.Context, userID string, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.doc.Profiles[userID]
	if err := s.doc.saveProfile(userID, profile); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		if had {
			s.doc.Profiles[userID] = prev
		} else {
			delete(s.doc.Profiles, userID)
		}
		return err
	}
	return nil
}

func (s *FileStore) DeleteProfile(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.doc.Profiles[userID]
	if !had {
		return nil
	}
	delete(s.doc.Profiles, userID)
	if err := s.persist(); err != nil {
		s.doc.Profiles[userID] = prev
		return err
	}
	return nil
}

func (s *FileStore) LoadPlan(_ context.Context, userID, date string) (*models.DailyPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.loadPlan(userID, date)
}

func (s *FileStore) SavePlan(_ context.Context, userID, date string, plan *models.DailyPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.doc.Plans[userID][date]
	if err := s.doc.savePlan(userID, date, plan); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		if had {
			s.doc.Plans[userID][date] = prev
		} else {
			delete(s.doc.Plans[userID], date)
		}
		return err
	}
	return nil
}

func (s *FileStore) ListPlans(_ context.Context, userID, from, to string) ([]models.PlanSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.listPlans(userID, from, to)
}

// Ping verifies the store directory is reachable
func (s *FileStore) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store directory unavailable: %w", err)
	}
	return nil
}
