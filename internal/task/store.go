package task

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/notexe/glowcare/internal/kvstore"
	"github.com/notexe/glowcare/internal/notify"
)

const (
	DefaultStorageKey = "@todo_tasks"
	DefaultTitle      = "Task Reminder"
	DefaultRetention  = 24 * time.Hour
)

// Store owns the task list. Every mutation is applied in memory first and
// then written through to the key-value store; storage and scheduler failures
// are logged and never undo the in-memory change.
type Store struct {
	mu        sync.Mutex
	kv        kvstore.Store
	scheduler notify.Scheduler
	key       string
	title     string
	retention time.Duration
	now       func() time.Time
	logger    *log.Logger

	tasks  []Task
	lastID int64
	dirty  bool // last write failed; memory is ahead of storage
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the storage key the list lives under.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithTitle sets the alert title used for every reminder.
func WithTitle(title string) Option {
	return func(s *Store) { s.title = title }
}

func WithRetention(d time.Duration) Option {
	return func(s *Store) { s.retention = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty store. Call Load before serving user actions.
func NewStore(kv kvstore.Store, scheduler notify.Scheduler, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		scheduler: scheduler,
		key:       DefaultStorageKey,
		title:     DefaultTitle,
		retention: DefaultRetention,
		now:       time.Now,
		logger:    log.New(os.Stderr, "", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory list with the persisted one, dropping expired
// and malformed records. If anything was dropped the filtered list is written
// back immediately.
func (s *Store) Load(ctx context.Context) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = nil
	s.dirty = false

	stored, quarantined, ok := s.read(ctx)
	if !ok {
		return s.snapshot()
	}
	s.adopt(ctx, stored)

	if expired := s.expire(ctx); quarantined+expired > 0 {
		s.logger.Printf("[tasks] Purged %d expired or malformed tasks", quarantined+expired)
		s.persist(ctx)
	}

	return s.snapshot()
}

// Prune brings the list up to date with storage and purges tasks that have
// expired since they were loaded, cancelling their reminders. It returns how
// many tasks expired. Every mutation does the same first.
func (s *Store) Prune(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sync(ctx)
}

// Add creates a task and schedules its reminder for the next occurrence of
// timeOfDay. A failed schedule leaves the task without a reminder.
func (s *Store) Add(ctx context.Context, text, timeOfDay string) (Task, error) {
	if strings.TrimSpace(text) == "" {
		return Task{}, ErrEmptyText
	}
	tod, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sync(ctx)

	now := s.now()
	fireAt := tod.NextOccurrence(now)

	var handle *string
	id, err := s.scheduler.ScheduleAt(ctx, notify.Content{Title: s.title, Body: text}, fireAt)
	if err != nil {
		s.logger.Printf("[tasks] Error scheduling notification: %v", err)
	} else {
		handle = &id
	}

	t := Task{
		ID:             s.nextID(now),
		Text:           text,
		Time:           timeOfDay,
		Completed:      false,
		NotificationID: handle,
	}
	s.tasks = append(s.tasks, t)
	s.persist(ctx)

	return t, nil
}

// ToggleCompletion flips the completed flag. Completing a task cancels its
// reminder; un-completing it does not schedule a new one.
func (s *Store) ToggleCompletion(ctx context.Context, id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sync(ctx)
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false
	}

	t := &s.tasks[i]
	if !t.Completed && t.HasReminder() {
		s.cancel(ctx, *t.NotificationID)
		t.NotificationID = nil
	}
	t.Completed = !t.Completed
	s.persist(ctx)

	return *t, true
}

// Delete removes a task and cancels its reminder. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sync(ctx)
	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	if t := s.tasks[i]; t.HasReminder() {
		s.cancel(ctx, *t.NotificationID)
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.persist(ctx)

	return true
}

// Tasks returns the active list in insertion order. Tasks that expired since
// the last Load or Prune are left out.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	all := s.snapshot()
	out := all[:0]
	for _, t := range all {
		if !s.expired(t, now) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) Get(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 || s.expired(s.tasks[i], s.now()) {
		return Task{}, false
	}
	t := s.tasks[i]
	if t.NotificationID != nil {
		handle := *t.NotificationID
		t.NotificationID = &handle
	}
	return t, true
}

// read decodes the persisted list, dropping malformed and duplicate records.
// ok is false when storage could not be read or decoded.
func (s *Store) read(ctx context.Context) (tasks []Task, quarantined int, ok bool) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Printf("[tasks] Error loading tasks: %v", err)
		return nil, 0, false
	}
	if !found {
		return nil, 0, true
	}

	var stored []Task
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.Printf("[tasks] Error decoding tasks: %v", err)
		return nil, 0, false
	}

	tasks = make([]Task, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for _, t := range stored {
		if err := t.validate(); err != nil {
			s.logger.Printf("[tasks] Dropping malformed task %q: %v", t.ID, err)
			continue
		}
		if seen[t.ID] {
			s.logger.Printf("[tasks] Dropping duplicate task %q", t.ID)
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, len(stored) - len(tasks), true
}

// adopt replaces the in-memory list with stored. Reminders held by tasks that
// another writer completed or deleted are cancelled here.
func (s *Store) adopt(ctx context.Context, stored []Task) {
	live := make(map[string]bool, len(stored))
	for _, t := range stored {
		if t.HasReminder() {
			live[*t.NotificationID] = true
		}
		ms, _ := strconv.ParseInt(t.ID, 10, 64)
		if ms > s.lastID {
			s.lastID = ms
		}
	}
	for _, t := range s.tasks {
		if t.HasReminder() && !live[*t.NotificationID] {
			s.cancel(ctx, *t.NotificationID)
		}
	}
	s.tasks = stored
}

// sync re-reads storage before a mutation so writes from other processes
// sharing the key are not overwritten, then purges expired tasks. While the
// last write has failed the in-memory list is kept as is.
func (s *Store) sync(ctx context.Context) int {
	if !s.dirty {
		if stored, _, ok := s.read(ctx); ok {
			s.adopt(ctx, stored)
		}
	}

	expired := s.expire(ctx)
	if expired > 0 {
		s.logger.Printf("[tasks] Purged %d expired tasks", expired)
		s.persist(ctx)
	}
	return expired
}

// expire drops tasks whose age reached the retention window and cancels
// their reminders. The caller persists.
func (s *Store) expire(ctx context.Context) int {
	now := s.now()
	kept := s.tasks[:0:0]
	for _, t := range s.tasks {
		if !s.expired(t, now) {
			kept = append(kept, t)
			continue
		}
		if t.HasReminder() {
			s.cancel(ctx, *t.NotificationID)
		}
	}

	dropped := len(s.tasks) - len(kept)
	s.tasks = kept
	return dropped
}

func (s *Store) expired(t Task, now time.Time) bool {
	created, err := t.CreatedAt()
	return err != nil || now.Sub(created) >= s.retention
}

// nextID returns now in epoch milliseconds, bumped past the last issued id so
// two adds within one millisecond stay distinct.
func (s *Store) nextID(now time.Time) string {
	ms := now.UnixMilli()
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	s.lastID = ms
	return strconv.FormatInt(ms, 10)
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) cancel(ctx context.Context, handle string) {
	if err := s.scheduler.Cancel(ctx, handle); err != nil {
		s.logger.Printf("[tasks] Error cancelling notification %s: %v", handle, err)
	}
}

func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.snapshot())
	if err != nil {
		s.logger.Printf("[tasks] Error encoding tasks: %v", err)
		return
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		s.logger.Printf("[tasks] Error saving tasks: %v", err)
		s.dirty = true
		return
	}
	s.dirty = false
}

func (s *Store) snapshot() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		if t.NotificationID != nil {
			id := *t.NotificationID
			t.NotificationID = &id
		}
		out[i] = t
	}
	return out
}
