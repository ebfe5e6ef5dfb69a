package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ldi/jot/internal/store"
)

// NewServer creates an MCP server exposing the task list over stdio. Each
// tool maps onto one store operation; NotFound and blank-text rejections
// come back as tool errors, never as transport failures.
func NewServer(s *store.Store) *server.MCPServer {
	srv := server.NewMCPServer("jot", "0.1.0")

	srv.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Add a new task. The creation date and time are stamped automatically."),
		mcp.WithString("text", mcp.Description("Task text (must not be blank)"), mcp.Required()),
	), addTaskHandler(s))

	srv.AddTool(mcp.NewTool("update_task_text",
		mcp.WithDescription("Replace the text of an existing task. Date, time and completion are unaffected."),
		mcp.WithString("id", mcp.Description("Task id"), mcp.Required()),
		mcp.WithString("text", mcp.Description("New task text (must not be blank)"), mcp.Required()),
	), updateTaskTextHandler(s))

	srv.AddTool(mcp.NewTool("set_task_completed",
		mcp.WithDescription("Set or clear a task's completion flag."),
		mcp.WithString("id", mcp.Description("Task id"), mcp.Required()),
		mcp.WithBoolean("completed", mcp.Description("New completion state (defaults to true)")),
	), setTaskCompletedHandler(s))

	srv.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task."),
		mcp.WithString("id", mcp.Description("Task id"), mcp.Required()),
	), deleteTaskHandler(s))

	srv.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List all tasks in display order (oldest creation stamp first)."),
	), listTasksHandler(s))

	return srv
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func addTaskHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := mcp.ParseString(request, "text", "")

		now := time.Now()
		task := s.Add(text, now.Format("2006-01-02"), now.Format("15:04"))
		if task == nil {
			return mcp.NewToolResultError("task text must not be blank"), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Added task %s", task.ID)), nil
	}
}

func updateTaskTextHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")
		text := mcp.ParseString(request, "text", "")

		if err := s.UpdateText(id, text); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("task not found: %s", id)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Updated task %s", id)), nil
	}
}

func setTaskCompletedHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")
		completed := mcp.ParseBoolean(request, "completed", true)

		if err := s.SetCompleted(id, completed); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("task not found: %s", id)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Task %s completed=%v", id, completed)), nil
	}
}

func deleteTaskHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		if err := s.Remove(id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("task not found: %s", id)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Deleted task %s", id)), nil
	}
}

func listTasksHandler(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.MarshalIndent(s.List(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tasks: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
