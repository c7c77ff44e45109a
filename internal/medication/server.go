package medication

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "healing-meds"
	serverVersion = "1.0.0"
)

// Server exposes the medication pipeline over MCP so an external
// assistant can manage medications. Adds go through the controller, so
// they clamp inputs and enqueue reminders exactly like the UI path.
type Server struct {
	mcpServer  *server.MCPServer
	controller *Controller
}

func NewServer(controller *Controller) *Server {
	s := &Server{controller: controller}

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
		mcp.NewTool("add_medication",
			mcp.WithDescription("Add a medication and schedule its reminder. Out-of-range dose/hour/minute values are clamped."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Medication name")),
			mcp.WithNumber("dose", mcp.Required(), mcp.Description("Dose count (1-99)")),
			mcp.WithNumber("day", mcp.Required(), mcp.Description("Scheduled day as epoch-day index (days since 1970-01-01)")),
			mcp.WithNumber("hour", mcp.Required(), mcp.Description("Hour of day (0-23)")),
			mcp.WithNumber("minute", mcp.Required(), mcp.Description("Minute (0-59)")),
		),
		s.handleAdd,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_day",
			mcp.WithDescription("List the medications of one day, ordered by time of day"),
			mcp.WithNumber("day", mcp.Required(), mcp.Description("Epoch-day index")),
		),
		s.handleListDay,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_range",
			mcp.WithDescription("List the medications in an inclusive day range, ordered by (day, hour, minute)"),
			mcp.WithNumber("start", mcp.Required(), mcp.Description("First epoch-day index")),
			mcp.WithNumber("end", mcp.Required(), mcp.Description("Last epoch-day index")),
		),
		s.handleListRange,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_medication",
			mcp.WithDescription("Get a single medication by id"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Medication ID")),
		),
		s.handleGet,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("mark_taken",
			mcp.WithDescription("Mark a medication as taken or not taken"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Medication ID")),
			mcp.WithBoolean("taken", mcp.Description("Taken flag (default: true)")),
		),
		s.handleMarkTaken,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_medication",
			mcp.WithDescription("Delete a medication. An already-enqueued reminder for it is not cancelled."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Medication ID")),
		),
		s.handleDelete,
	)
}

func (s *Server) handleAdd(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	dose := int(req.GetFloat("dose", 1))
	day := int64(req.GetFloat("day", -1))
	hour := int(req.GetFloat("hour", 0))
	minute := int(req.GetFloat("minute", 0))

	if day < 0 {
		return mcp.NewToolResultError("day is required and must be a non-negative epoch-day index"), nil
	}

	id, err := s.controller.Add(name, dose, day, hour, minute)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add medication: %v", err)), nil
	}

	added, err := s.controller.GetByID(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read back medication: %v", err)), nil
	}

	output, _ := json.MarshalIndent(added, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListDay(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day := int64(req.GetFloat("day", -1))
	if day < 0 {
		return mcp.NewToolResultError("day is required and must be a non-negative epoch-day index"), nil
	}

	meds, err := s.controller.store.ByDay(day)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list medications: %v", err)), nil
	}

	if len(meds) == 0 {
		return mcp.NewToolResultText("No medications for that day."), nil
	}

	output, _ := json.MarshalIndent(meds, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListRange(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := int64(req.GetFloat("start", -1))
	end := int64(req.GetFloat("end", -1))
	if start < 0 || end < 0 {
		return mcp.NewToolResultError("start and end are required non-negative epoch-day indexes"), nil
	}

	meds, err := s.controller.store.ByRange(start, end)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list medications: %v", err)), nil
	}

	if len(meds) == 0 {
		return mcp.NewToolResultText("No medications in that range."), nil
	}

	output, _ := json.MarshalIndent(meds, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleGet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", -1))
	if id < 0 {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}

	m, err := s.controller.GetByID(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get medication: %v", err)), nil
	}

	output, _ := json.MarshalIndent(m, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleMarkTaken(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", -1))
	if id < 0 {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}
	taken := req.GetBool("taken", true)

	if err := s.controller.MarkTaken(id, taken); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to mark medication: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Medication %d marked taken=%v.", id, taken)), nil
}

func (s *Server) handleDelete(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(req.GetFloat("id", -1))
	if id < 0 {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}

	if err := s.controller.Delete(Medication{ID: id}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete medication: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Medication %d deleted.", id)), nil
}
