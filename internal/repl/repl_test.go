package repl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/notexe/glowcare/internal/advice"
	"github.com/notexe/glowcare/internal/api"
	"github.com/notexe/glowcare/internal/chat"
	"github.com/notexe/glowcare/internal/config"
	"github.com/notexe/glowcare/internal/kvstore"
	"github.com/notexe/glowcare/internal/notify"
	"github.com/notexe/glowcare/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScheduler struct {
	next      int
	cancelled []string
	live      map[string]bool
}

func (s *stubScheduler) RequestPermission(context.Context) (bool, error) { return true, nil }

func (s *stubScheduler) ScheduleAt(context.Context, notify.Content, time.Time) (string, error) {
	s.next++
	id := fmt.Sprintf("alert-%d", s.next)
	if s.live == nil {
		s.live = map[string]bool{}
	}
	s.live[id] = true
	return id, nil
}

func (s *stubScheduler) Cancel(_ context.Context, id string) error {
	s.cancelled = append(s.cancelled, id)
	delete(s.live, id)
	return nil
}

func (s *stubScheduler) Has(id string) bool { return s.live[id] }

type stubProvider struct {
	reply string
	got   []api.Request
}

func (p *stubProvider) Complete(_ context.Context, req api.Request) (api.Reply, error) {
	p.got = append(p.got, req)
	return api.Reply{Text: p.reply}, nil
}

func (p *stubProvider) Name() string { return "deepseek" }
func (p *stubProvider) Close() error { return nil }

type fixture struct {
	repl     *REPL
	out      *bytes.Buffer
	sched    *stubScheduler
	provider *stubProvider
}

func newFixture(t *testing.T, withChat bool) *fixture {
	t.Helper()

	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
	quiet := log.New(io.Discard, "", 0)
	kv := kvstore.NewMemoryStore()
	sched := &stubScheduler{}

	store := task.NewStore(kv, sched, task.WithClock(clock), task.WithLogger(quiet))
	store.Load(context.Background())

	cfg := &config.Config{}
	cfg.Model.Name = "deepseek-chat"

	f := &fixture{out: &bytes.Buffer{}, sched: sched}
	var chatLog *chat.Log
	var provider api.Provider
	if withChat {
		f.provider = &stubProvider{reply: "Use a gentle cleanser."}
		provider = f.provider
		chatLog = chat.NewLog(kv, provider, chat.Settings{Model: cfg.Model.Name},
			chat.WithClock(clock), chat.WithLogger(quiet))
	}

	f.repl = newREPL(store, chatLog, provider, cfg, f.out)
	return f
}

func (f *fixture) run(t *testing.T, input string) error {
	t.Helper()
	f.out.Reset()
	isCommand, command, args := f.repl.parseCommand(input)
	if !isCommand {
		return f.repl.handleMessage(context.Background(), input)
	}
	return f.repl.handleCommand(context.Background(), command, args)
}

func TestTaskCommands(t *testing.T) {
	f := newFixture(t, false)

	require.NoError(t, f.run(t, "/add 07:30 am Apply   sunscreen"))
	assert.Contains(t, f.out.String(), "Added: Apply sunscreen at 07:30 am")

	require.NoError(t, f.run(t, "/tasks"))
	assert.Contains(t, f.out.String(), "#1 [ ] 07:30 am  Apply sunscreen 🔔")

	require.NoError(t, f.run(t, "/done #1"))
	assert.Contains(t, f.out.String(), "Completed: Apply sunscreen")
	assert.Equal(t, []string{"alert-1"}, f.sched.cancelled)

	id := f.repl.tasks.Tasks()[0].ID
	require.NoError(t, f.run(t, "/done "+id))
	assert.Contains(t, f.out.String(), "Reopened: Apply sunscreen")

	require.NoError(t, f.run(t, "/delete #1"))
	assert.Contains(t, f.out.String(), "Deleted: Apply sunscreen")
	assert.Empty(t, f.repl.tasks.Tasks())

	require.NoError(t, f.run(t, "/tasks"))
	assert.Contains(t, f.out.String(), "No tasks yet")
}

func TestTasksShowOnlyLiveReminders(t *testing.T) {
	f := newFixture(t, false)
	f.repl.TrackReminders(f.sched.Has)

	require.NoError(t, f.run(t, "/add 07:30 AM Sunscreen"))
	require.NoError(t, f.run(t, "/tasks"))
	assert.Contains(t, f.out.String(), "Sunscreen 🔔")

	// the alert is gone (restart, or fired elsewhere) but the handle is still stored
	f.sched.live = nil
	require.True(t, f.repl.tasks.Tasks()[0].HasReminder())
	require.NoError(t, f.run(t, "/tasks"))
	assert.Contains(t, f.out.String(), "Sunscreen")
	assert.NotContains(t, f.out.String(), "🔔")
}

func TestTaskCommandErrors(t *testing.T) {
	f := newFixture(t, false)

	assert.ErrorContains(t, f.run(t, "/add 7:30 AM"), "usage")
	assert.ErrorIs(t, f.run(t, "/add 13:30 PM Toner"), task.ErrInvalidTime)
	assert.ErrorContains(t, f.run(t, "/done"), "usage")
	assert.ErrorContains(t, f.run(t, "/done #1"), "no task at position")
	assert.ErrorContains(t, f.run(t, "/delete 123"), "task not found")
	assert.ErrorContains(t, f.run(t, "/nope"), "unknown command")
	assert.Empty(t, f.repl.tasks.Tasks())
}

func TestChatDisabled(t *testing.T) {
	f := newFixture(t, false)

	assert.ErrorContains(t, f.run(t, "hello"), "not configured")
	assert.ErrorContains(t, f.run(t, "/quiz"), "not configured")
	assert.ErrorContains(t, f.run(t, "/clear"), "not configured")

	require.NoError(t, f.run(t, "/help"))
	assert.NotContains(t, f.out.String(), "/quiz")
}

func TestChatMessage(t *testing.T) {
	f := newFixture(t, true)

	require.NoError(t, f.run(t, "my skin is dry"))
	assert.Contains(t, f.out.String(), "DeepSeek: Use a gentle cleanser.")

	require.NoError(t, f.run(t, "/history"))
	assert.Contains(t, f.out.String(), "You: my skin is dry")

	require.NoError(t, f.run(t, "/clear"))
	assert.Empty(t, f.repl.chat.Messages())
}

func TestQuiz(t *testing.T) {
	f := newFixture(t, true)
	f.provider.reply = "## Morning\nCleanse, moisturize, SPF."
	f.repl.ask = func(q advice.Question) ([]string, error) {
		return q.Options[:1], nil
	}

	require.NoError(t, f.run(t, "/quiz"))
	assert.Contains(t, f.out.String(), "Question 8 of 8")
	assert.Contains(t, f.out.String(), "Cleanse, moisturize, SPF.")

	require.Len(t, f.provider.got, 1)
	prompt := f.provider.got[0].Messages[0].Content
	assert.Contains(t, prompt, "- Skin Type: Oily")
	assert.Contains(t, prompt, "- Dietary Habits: No restrictions")
}

func TestParseCommand(t *testing.T) {
	r := &REPL{}

	isCommand, command, args := r.parseCommand("/ADD  08:00 AM Toner ")
	assert.True(t, isCommand)
	assert.Equal(t, "/add", command)
	assert.Equal(t, "08:00 AM Toner", args)

	isCommand, _, _ = r.parseCommand("how do I use retinol?")
	assert.False(t, isCommand)
}
