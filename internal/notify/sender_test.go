package notify

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleSender(t *testing.T) {
	var out bytes.Buffer
	s := NewConsoleSender(&out, false)

	require.NoError(t, s.Ready(context.Background()))
	require.NoError(t, s.Send(context.Background(), Content{Title: "Task Reminder", Body: "Night cream"}))
	assert.Equal(t, "\n🔔 Task Reminder: Night cream\n", out.String())
}

func TestTelegramSender(t *testing.T) {
	var sentText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"glow","username":"glowbot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			require.NoError(t, r.ParseForm())
			sentText = r.FormValue("text")
			assert.Equal(t, "42", r.FormValue("chat_id"))
			assert.Equal(t, "HTML", r.FormValue("parse_mode"))
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	s := NewTelegramSender("token", 42).WithEndpoint(server.URL+"/bot%s/%s", server.Client())

	require.NoError(t, s.Ready(context.Background()))
	require.NoError(t, s.Send(context.Background(), Content{Title: "Task Reminder", Body: "Masks & serums"}))
	assert.Equal(t, "⏰ <b>Task Reminder</b>\n\nMasks &amp; serums", sentText)
}

func TestTelegramSenderWithoutToken(t *testing.T) {
	s := NewTelegramSender("", 42)
	assert.Error(t, s.Ready(context.Background()))
}
