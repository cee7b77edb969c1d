package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitPlanner", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitPlanner exercise planning server. Summarize the exercise dataset, sample exercises for a body part, and generate motivational advice for a fitness goal."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetDatasetSummary, Handler: h.getDatasetSummary},
		server.ServerTool{Tool: toolListBodyParts, Handler: h.listBodyParts},
		server.ServerTool{Tool: toolSampleExercises, Handler: h.sampleExercises},
		server.ServerTool{Tool: toolListGoals, Handler: h.listGoals},
		server.ServerTool{Tool: toolGenerateAdvice, Handler: h.generateAdvice},
		server.ServerTool{Tool: toolGetAdviceHistory, Handler: h.getAdviceHistory},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resSummary, Handler: h.summary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resSummary = mcp.NewResource(
	"fitplanner://summary",
	"Dataset Summary",
	mcp.WithResourceDescription("Exercise count and the seven most common body parts"),
	mcp.WithMIMEType("application/json"),
)
