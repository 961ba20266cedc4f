package reminder

import (
	"sync"
	"time"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/notify"
	"github.com/benvon/replan/internal/timeutil"
)

// Manager keeps one Scheduler per user and reschedules on plan or settings changes
type Manager struct {
	notifier notify.Notifier
	defaults Settings
	now      func() time.Time
	opts     []Option

	mu         sync.Mutex
	schedulers map[string]*Scheduler
	settings   map[string]Settings
	blocks     map[string][]models.TimeBlock
}

// NewManager creates a manager; opts are applied to every Scheduler it creates
func NewManager(notifier notify.Notifier, defaults Settings, opts ...Option) *Manager {
	// today is judged by the same clock the schedulers use
	clock := &Scheduler{now: time.Now}
	for _, opt := range opts {
		opt(clock)
	}
	return &Manager{
		notifier:   notifier,
		defaults:   defaults,
		now:        clock.now,
		opts:       opts,
		schedulers: make(map[string]*Scheduler),
		settings:   make(map[string]Settings),
		blocks:     make(map[string][]models.TimeBlock),
	}
}

func (m *Manager) schedulerLocked(userID string) *Scheduler {
	s, ok := m.schedulers[userID]
	if !ok {
		s = NewScheduler(userID, m.notifier, m.opts...)
		m.schedulers[userID] = s
	}
	return s
}

// Settings returns the user's reminder settings
func (m *Manager) Settings(userID string) Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.settings[userID]; ok {
		return s
	}
	return m.defaults
}

// UpdateSettings stores settings and reschedules today's plan
func (m *Manager) UpdateSettings(userID string, settings Settings) {
	m.mu.Lock()
	m.settings[userID] = settings
	blocks := m.blocks[userID]
	s := m.schedulerLocked(userID)
	m.mu.Unlock()

	s.Schedule(blocks, settings)
}

// PlanChanged reschedules when the changed plan is today's; other dates are ignored
func (m *Manager) PlanChanged(userID, date string, blocks []models.TimeBlock) {
	if date != timeutil.FormatDate(m.now()) {
		return
	}

	m.mu.Lock()
	m.blocks[userID] = cloneBlocks(blocks)
	settings, ok := m.settings[userID]
	if !ok {
		settings = m.defaults
	}
	s := m.schedulerLocked(userID)
	m.mu.Unlock()

	s.Schedule(blocks, settings)
}

// Next returns the user's earliest pending reminder
func (m *Manager) Next(userID string) (Pending, bool) {
	m.mu.Lock()
	s, ok := m.schedulers[userID]
	m.mu.Unlock()
	if !ok {
		return Pending{}, false
	}
	return s.Next()
}

// Forget cancels and drops everything held for the user
func (m *Manager) Forget(userID string) {
	m.mu.Lock()
	s, ok := m.schedulers[userID]
	delete(m.schedulers, userID)
	delete(m.settings, userID)
	delete(m.blocks, userID)
	m.mu.Unlock()
	if ok {
		s.CancelAll()
	}
}

// Close cancels every user's reminders
func (m *Manager) Close() {
	m.mu.Lock()
	schedulers := make([]*Scheduler, 0, len(m.schedulers))
	for _, s := range m.schedulers {
		schedulers = append(schedulers, s)
	}
	m.mu.Unlock()
	for _, s := range schedulers {
		s.CancelAll()
	}
}

func cloneBlocks(blocks []models.TimeBlock) []models.TimeBlock {
	out := make([]models.TimeBlock, len(blocks))
	for i, b := range blocks {
		out[i] = b.Clone()
	}
	return out
}
