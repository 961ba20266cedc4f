package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/benvon/replan/internal/models"
)

// document is the serialized form of every record kept by the local backends.
// Records are stored encoded so callers never share memory with the store.
type document struct {
	Profiles map[string]json.RawMessage            `json:"profiles"`
	Plans    map[string]map[string]json.RawMessage `json:"plans"`
}

func newDocument() *document {
	return &document{
		Profiles: make(map[string]json.RawMessage),
		Plans:    make(map[string]map[string]json.RawMessage),
	}
}

// MemoryStore keeps records in process memory
type MemoryStore struct {
	mu  sync.RWMutex
	doc *document
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{doc: newDocument()}
}

func (s *MemoryStore) LoadProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.loadProfile(userID)
}

func (s *MemoryStore) SaveProfile(_ context.Context, userID string, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.saveProfile(userID, profile)
}

func (s *MemoryStore) DeleteProfile(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.doc.Profiles, userID)
	return nil
}

func (s *MemoryStore) LoadPlan(_ context.Context, userID, date string) (*models.DailyPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.loadPlan(userID, date)
}

func (s *MemoryStore) SavePlan(_ context.Context, userID, date string, plan *models.DailyPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.savePlan(userID, date, plan)
}

func (s *MemoryStore) ListPlans(_ context.Context, userID, from, to string) ([]models.PlanSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.listPlans(userID, from, to)
}

func (d *document) loadProfile(userID string) (*models.UserProfile, error) {
	raw, ok := d.Profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	var p models.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

func (d *document) saveProfile(userID string, profile *models.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	d.Profiles[userID] = raw
	return nil
}

func (d *document) loadPlan(userID, date string) (*models.DailyPlan, error) {
	raw, ok := d.Plans[userID][date]
	if !ok {
		return nil, ErrNotFound
	}
	var p models.DailyPlan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return &p, nil
}

func (d *document) savePlan(userID, date string, plan *models.DailyPlan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if d.Plans[userID] == nil {
		d.Plans[userID] = make(map[string]json.RawMessage)
	}
	d.Plans[userID][date] = raw
	return nil
}

func (d *document) listPlans(userID, from, to string) ([]models.PlanSummary, error) {
	dates := make([]string, 0)
	for date := range d.Plans[userID] {
		// YYYY-MM-DD sorts lexically in date order
		if date >= from && date <= to {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	out := make([]models.PlanSummary, 0, len(dates))
	for _, date := range dates {
		p, err := d.loadPlan(userID, date)
		if err != nil {
			return nil, err
		}
		out = append(out, models.PlanSummary{Date: date, Plan: p})
	}
	return out, nil
}
