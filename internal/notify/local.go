package notify

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const deliveryTimeout = 30 * time.Second

// Timer is the part of *time.Timer the scheduler needs.
type Timer interface {
	Stop() bool
}

// AfterFunc starts a timer that runs f after d. It must run f on its own goroutine.
type AfterFunc func(d time.Duration, f func()) Timer

func timeAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Alert is a pending notification.
type Alert struct {
	ID      string
	Content Content
	At      time.Time
}

type pendingAlert struct {
	Alert
	timer Timer
}

type permission int

const (
	permissionUnknown permission = iota
	permissionGranted
	permissionDenied
)

// LocalScheduler keeps pending alerts in process and fires them with timers.
type LocalScheduler struct {
	mu         sync.Mutex
	sender     Sender
	afterFunc  AfterFunc
	now        func() time.Time
	logger     *log.Logger
	pending    map[string]*pendingAlert
	permission permission
}

// Option configures a LocalScheduler.
type Option func(*LocalScheduler)

func WithAfterFunc(fn AfterFunc) Option {
	return func(s *LocalScheduler) { s.afterFunc = fn }
}

func WithClock(now func() time.Time) Option {
	return func(s *LocalScheduler) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *LocalScheduler) { s.logger = l }
}

// NewLocalScheduler creates a scheduler that delivers through sender.
func NewLocalScheduler(sender Sender, opts ...Option) *LocalScheduler {
	s := &LocalScheduler{
		sender:    sender,
		afterFunc: timeAfterFunc,
		now:       time.Now,
		logger:    log.New(os.Stderr, "", log.LstdFlags),
		pending:   make(map[string]*pendingAlert),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LocalScheduler) RequestPermission(ctx context.Context) (bool, error) {
	err := s.sender.Ready(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.permission = permissionDenied
		return false, fmt.Errorf("notifications unavailable: %w", err)
	}
	s.permission = permissionGranted
	return true, nil
}

func (s *LocalScheduler) ScheduleAt(_ context.Context, c Content, at time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.permission == permissionDenied {
		return "", ErrPermissionDenied
	}

	delay := at.Sub(s.now())
	if delay < 0 {
		delay = 0
	}

	id := uuid.NewString()
	// The timer callback takes s.mu, so it cannot observe the map before the entry is stored.
	timer := s.afterFunc(delay, func() { s.fire(id) })
	s.pending[id] = &pendingAlert{
		Alert: Alert{ID: id, Content: c, At: at},
		timer: timer,
	}

	s.logger.Printf("[notify] Scheduled %s for %s", id, at.Format(time.RFC3339))
	return id, nil
}

func (s *LocalScheduler) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[id]
	if !ok {
		return nil
	}
	p.timer.Stop()
	delete(s.pending, id)

	s.logger.Printf("[notify] Cancelled %s", id)
	return nil
}

// Pending returns the alerts that have not fired yet, soonest first.
func (s *LocalScheduler) Pending() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	alerts := make([]Alert, 0, len(s.pending))
	for _, p := range s.pending {
		alerts = append(alerts, p.Alert)
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].At.Before(alerts[j].At)
	})
	return alerts
}

// Has reports whether id is a pending alert of this scheduler. Handles from
// an earlier process or another scheduler are not.
func (s *LocalScheduler) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.pending[id]
	return ok
}

// Stop cancels every pending alert.
func (s *LocalScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
}

func (s *LocalScheduler) fire(id string) {
	s.mu.Lock()
	p, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	if err := s.sender.Send(ctx, p.Content); err != nil {
		s.logger.Printf("[notify] Error: delivery of %s failed: %v", id, err)
		return
	}
	s.logger.Printf("[notify] Delivered %s", id)
}
