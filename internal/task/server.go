package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "tasks"
	serverVersion = "1.0.0"
)

// Status filters for list_tasks.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Server is the MCP server for the task list.
type Server struct {
	mcpServer *server.MCPServer
	store     *Store
}

// NewServer creates a new task MCP server backed by the given store. The
// store must already be loaded.
func NewServer(store *Store) *Server {
	s := &Server{
		store: store,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("add_task",
			mcp.WithDescription("Add a skincare task with a daily reminder time. The reminder fires at the next occurrence of that time."),
			mcp.WithString("text", mcp.Required(), mcp.Description("What to do, e.g. 'Apply sunscreen'")),
			mcp.WithString("time", mcp.Required(), mcp.Description("Time of day in 12-hour format, e.g. '07:30 AM'")),
		),
		s.handleAddTask,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_tasks",
			mcp.WithDescription("List tasks from the last 24 hours, optionally filtered by status (pending or completed)"),
			mcp.WithString("status", mcp.Description("Filter by status: pending, completed, or empty for all")),
		),
		s.handleListTasks,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("toggle_task",
			mcp.WithDescription("Toggle a task between pending and completed. Completing cancels its reminder."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Task ID")),
		),
		s.handleToggleTask,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_task",
			mcp.WithDescription("Delete a task and cancel its reminder"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Task ID")),
		),
		s.handleDeleteTask,
	)
}

func (s *Server) handleAddTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	timeOfDay := req.GetString("time", "")

	added, err := s.store.Add(ctx, text, timeOfDay)
	if err != nil {
		if errors.Is(err, ErrInvalidTime) {
			return mcp.NewToolResultError(fmt.Sprintf("%v (use 12-hour format, e.g. 07:30 AM)", err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to add task: %v", err)), nil
	}

	output, _ := json.MarshalIndent(added, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := req.GetString("status", "")
	switch status {
	case "", StatusPending, StatusCompleted:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q (use pending or completed)", status)), nil
	}

	s.store.Prune(ctx)

	var tasks []Task
	for _, t := range s.store.Tasks() {
		if status == StatusPending && t.Completed || status == StatusCompleted && !t.Completed {
			continue
		}
		tasks = append(tasks, t)
	}

	if len(tasks) == 0 {
		return mcp.NewToolResultText("No tasks found."), nil
	}

	output, _ := json.MarshalIndent(tasks, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleToggleTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	t, ok := s.store.ToggleCompletion(ctx, id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("task %s not found", id)), nil
	}

	state := StatusPending
	if t.Completed {
		state = StatusCompleted
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task %s marked as %s.", id, state)), nil
}

func (s *Server) handleDeleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if !s.store.Delete(ctx, id) {
		return mcp.NewToolResultError(fmt.Sprintf("task %s not found", id)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Task %s deleted.", id)), nil
}
