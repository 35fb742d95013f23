package task

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()

	var req mcp.CallToolRequest
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func TestServerTools(t *testing.T) {
	f := newFixture(t)
	srv := NewServer(f.store)
	require.NotNil(t, srv.MCPServer())

	out, isErr := callTool(t, srv.handleListTasks, map[string]any{})
	assert.False(t, isErr)
	assert.Equal(t, "No tasks found.", out)

	out, isErr = callTool(t, srv.handleAddTask, map[string]any{"text": "Apply sunscreen", "time": "07:30 AM"})
	require.False(t, isErr, out)

	var added Task
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.Equal(t, "Apply sunscreen", added.Text)

	out, isErr = callTool(t, srv.handleToggleTask, map[string]any{"id": added.ID})
	assert.False(t, isErr)
	assert.Contains(t, out, "completed")

	out, isErr = callTool(t, srv.handleListTasks, map[string]any{"status": StatusPending})
	assert.False(t, isErr)
	assert.Equal(t, "No tasks found.", out)

	out, isErr = callTool(t, srv.handleListTasks, map[string]any{"status": StatusCompleted})
	assert.False(t, isErr)
	var listed []Task
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, added.ID, listed[0].ID)

	out, isErr = callTool(t, srv.handleDeleteTask, map[string]any{"id": added.ID})
	assert.False(t, isErr)
	assert.Contains(t, out, "deleted")
	assert.Empty(t, f.store.Tasks())
}

func TestServerToolErrors(t *testing.T) {
	f := newFixture(t)
	srv := NewServer(f.store)

	_, isErr := callTool(t, srv.handleAddTask, map[string]any{"text": "Serum", "time": "25:00"})
	assert.True(t, isErr)

	_, isErr = callTool(t, srv.handleAddTask, map[string]any{"text": "", "time": "08:00 AM"})
	assert.True(t, isErr)

	_, isErr = callTool(t, srv.handleToggleTask, map[string]any{"id": "404"})
	assert.True(t, isErr)

	_, isErr = callTool(t, srv.handleDeleteTask, map[string]any{})
	assert.True(t, isErr)

	_, isErr = callTool(t, srv.handleListTasks, map[string]any{"status": "archived"})
	assert.True(t, isErr)
}

func TestListTasksSeesOtherWritersAndExpiry(t *testing.T) {
	f := newFixture(t)
	srv := NewServer(f.store)
	f.store.Load(context.Background())

	// a second process sharing the storage key
	other := f.newStoreWith(&recordingScheduler{})
	_, err := other.Add(context.Background(), "Toner", "08:00 AM")
	require.NoError(t, err)

	out, isErr := callTool(t, srv.handleListTasks, map[string]any{})
	require.False(t, isErr)
	assert.Contains(t, out, "Toner")

	f.now = f.now.Add(25 * time.Hour)
	out, isErr = callTool(t, srv.handleListTasks, map[string]any{})
	assert.False(t, isErr)
	assert.Equal(t, "No tasks found.", out)
	assert.Empty(t, f.persisted(t))
}
