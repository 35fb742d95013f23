package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	was := !f.stopped
	f.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{delay: d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) last() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[len(c.timers)-1]
}

type recordingSender struct {
	mu       sync.Mutex
	sent     []Content
	readyErr error
	sendErr  error
}

func (r *recordingSender) Send(_ context.Context, c Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sendErr != nil {
		return r.sendErr
	}
	r.sent = append(r.sent, c)
	return nil
}

func (r *recordingSender) Ready(context.Context) error {
	return r.readyErr
}

var testNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func newTestScheduler(sender Sender) (*LocalScheduler, *fakeClock) {
	clock := &fakeClock{}
	s := NewLocalScheduler(sender,
		WithAfterFunc(clock.AfterFunc),
		WithClock(func() time.Time { return testNow }),
		WithLogger(log.New(io.Discard, "", 0)),
	)
	return s, clock
}

func TestScheduleAtFiresAfterDelay(t *testing.T) {
	ctx := context.Background()
	sender := &recordingSender{}
	s, clock := newTestScheduler(sender)

	id, err := s.ScheduleAt(ctx, Content{Title: "Task Reminder", Body: "Apply SPF"}, testNow.Add(2*time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	timer := clock.last()
	assert.Equal(t, 2*time.Hour, timer.delay)
	require.Len(t, s.Pending(), 1)

	assert.True(t, s.Has(id))

	timer.fn()

	assert.Equal(t, []Content{{Title: "Task Reminder", Body: "Apply SPF"}}, sender.sent)
	assert.Empty(t, s.Pending())
	assert.False(t, s.Has(id))
}

func TestScheduleAtInPastFiresImmediately(t *testing.T) {
	s, clock := newTestScheduler(&recordingSender{})

	_, err := s.ScheduleAt(context.Background(), Content{Body: "late"}, testNow.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), clock.last().delay)
}

func TestHandlesAreUnique(t *testing.T) {
	s, _ := newTestScheduler(&recordingSender{})
	ctx := context.Background()

	a, err := s.ScheduleAt(ctx, Content{Body: "a"}, testNow.Add(time.Hour))
	require.NoError(t, err)
	b, err := s.ScheduleAt(ctx, Content{Body: "a"}, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCancelIsIdempotent(t *testing.T) {
	ctx := context.Background()
	sender := &recordingSender{}
	s, clock := newTestScheduler(sender)

	id, err := s.ScheduleAt(ctx, Content{Body: "cleanse"}, testNow.Add(time.Hour))
	require.NoError(t, err)
	timer := clock.last()

	require.NoError(t, s.Cancel(ctx, id))
	assert.True(t, timer.stopped)
	assert.Empty(t, s.Pending())
	assert.False(t, s.Has(id))

	require.NoError(t, s.Cancel(ctx, id))
	require.NoError(t, s.Cancel(ctx, "never-issued"))

	// a stopped timer whose callback still runs must not deliver
	timer.fn()
	assert.Empty(t, sender.sent)
}

func TestPermissionDenied(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScheduler(&recordingSender{readyErr: errors.New("no token")})

	granted, err := s.RequestPermission(ctx)
	assert.False(t, granted)
	assert.Error(t, err)

	_, err = s.ScheduleAt(ctx, Content{Body: "x"}, testNow.Add(time.Hour))
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestPermissionGranted(t *testing.T) {
	s, _ := newTestScheduler(&recordingSender{})

	granted, err := s.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestDeliveryFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	clock := &fakeClock{}
	s := NewLocalScheduler(&recordingSender{sendErr: errors.New("offline")},
		WithAfterFunc(clock.AfterFunc),
		WithClock(func() time.Time { return testNow }),
		WithLogger(log.New(&logs, "", 0)),
	)

	_, err := s.ScheduleAt(context.Background(), Content{Body: "x"}, testNow)
	require.NoError(t, err)
	clock.last().fn()

	assert.Contains(t, logs.String(), "offline")
	assert.Empty(t, s.Pending())
}

func TestStopCancelsEverything(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestScheduler(&recordingSender{})

	for i := 0; i < 3; i++ {
		_, err := s.ScheduleAt(ctx, Content{Body: "x"}, testNow.Add(time.Duration(i+1)*time.Hour))
		require.NoError(t, err)
	}
	s.Stop()

	assert.Empty(t, s.Pending())
	for _, timer := range clock.timers {
		assert.True(t, timer.stopped)
	}
}

func TestRealTimerDelivers(t *testing.T) {
	sender := &recordingSender{}
	s := NewLocalScheduler(sender, WithLogger(log.New(io.Discard, "", 0)))

	_, err := s.ScheduleAt(context.Background(), Content{Body: "now"}, time.Now())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		sender.mu.Lock()
		defer sender.mu.Unlock()
		return len(sender.sent) == 1
	}, time.Second, 5*time.Millisecond)
}
