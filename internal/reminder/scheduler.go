package reminder

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/notify"
	"github.com/benvon/replan/internal/timeutil"
)

// Timer is the handle of a scheduled callback
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Pending describes a scheduled reminder
type Pending struct {
	BlockID      string              `json:"blockId"`
	NotifyAt     time.Time           `json:"notifyAt"`
	Notification notify.Notification `json:"notification"`
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithAfterFunc replaces timer creation
func WithAfterFunc(af AfterFunc) Option {
	return func(s *Scheduler) { s.afterFunc = af }
}

// WithActivateURL sets the link opened when a reminder is activated
func WithActivateURL(url string) Option {
	return func(s *Scheduler) { s.activateURL = url }
}

// Scheduler owns the reminders of one user
type Scheduler struct {
	userID      string
	notifier    notify.Notifier
	now         func() time.Time
	afterFunc   AfterFunc
	activateURL string

	mu       sync.Mutex
	timers   map[string]Timer
	pending  map[string]Pending
	notified map[string]bool
	day      string
}

// NewScheduler creates a scheduler delivering through notifier
func NewScheduler(userID string, notifier notify.Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		userID:    userID,
		notifier:  notifier,
		now:       time.Now,
		afterFunc: realAfterFunc,
		timers:    make(map[string]Timer),
		pending:   make(map[string]Pending),
		notified:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule replaces every pending reminder with one per eligible block of today.
// Fixed blocks, blocks without to-dos and notify times not after now are skipped.
// A block that already fired today is not scheduled again.
func (s *Scheduler) Schedule(blocks []models.TimeBlock, settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	now := s.now()
	if day := now.Format(time.DateOnly); day != s.day {
		clear(s.notified)
		s.day = day
	}
	if !settings.Enabled {
		return
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	offset := settings.Timing.Offset()

	for _, block := range blocks {
		if block.IsFixed || len(block.Todos) == 0 {
			continue
		}
		if s.notified[block.ID] {
			continue
		}
		if _, ok := s.pending[block.ID]; ok {
			continue
		}
		start := midnight.Add(time.Duration(timeutil.TimeToMinutes(block.StartTime)) * time.Minute)
		notifyAt := start.Add(-offset)
		if !notifyAt.After(now) {
			continue
		}

		n := notify.ForBlock(s.userID, block)
		n.ActivateURL = s.activateURL
		id := block.ID
		s.pending[id] = Pending{BlockID: id, NotifyAt: notifyAt, Notification: n}
		s.timers[id] = s.afterFunc(notifyAt.Sub(now), func() { s.fire(id, n) })
	}
}

func (s *Scheduler) fire(blockID string, n notify.Notification) {
	s.mu.Lock()
	if _, ok := s.pending[blockID]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pending, blockID)
	delete(s.timers, blockID)
	s.notified[blockID] = true
	s.mu.Unlock()

	s.notifier.Show(context.Background(), n)
}

// CancelAll stops every pending reminder
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Scheduler) cancelLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	clear(s.timers)
	clear(s.pending)
}

// Pending lists scheduled reminders ordered by notify time
func (s *Scheduler) Pending() []Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Pending, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NotifyAt.Equal(out[j].NotifyAt) {
			return out[i].BlockID < out[j].BlockID
		}
		return out[i].NotifyAt.Before(out[j].NotifyAt)
	})
	return out
}

// Next returns the earliest reminder still in the future
func (s *Scheduler) Next() (Pending, bool) {
	now := s.now()
	for _, p := range s.Pending() {
		if p.NotifyAt.After(now) {
			return p, true
		}
	}
	return Pending{}, false
}
