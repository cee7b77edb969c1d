package mcp

import (
	"context"
	"errors"

	"github.com/claude/fitplanner/internal/models"
	"github.com/claude/fitplanner/internal/report"
	"github.com/claude/fitplanner/internal/sampler"
	"github.com/mark3labs/mcp-go/mcp"
)

const noMatchWarning = "No exercises found for this body part."

func goalNames() []string {
	goals := models.Goals()
	out := make([]string, len(goals))
	for i, g := range goals {
		out[i] = string(g)
	}
	return out
}

// --- Tool definitions ---

var toolGetDatasetSummary = mcp.NewTool("get_dataset_summary",
	mcp.WithDescription("Number of exercises in the cleaned dataset and the most common body parts with their counts, most frequent first."),
	mcp.WithNumber("top", mcp.Description("How many body parts to return. Defaults to 7.")),
)

var toolListBodyParts = mcp.NewTool("list_body_parts",
	mcp.WithDescription("List the distinct body parts in the dataset, in the order they first appear."),
)

var toolSampleExercises = mcp.NewTool("sample_exercises",
	mcp.WithDescription("Randomly pick exercises that target a body part. Repeated calls return different exercises."),
	mcp.WithString("body_part", mcp.Required(), mcp.Description("Exact body part name (e.g. 'Abdominals', 'Biceps'). See list_body_parts.")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of exercises. Defaults to 5.")),
)

var toolListGoals = mcp.NewTool("list_goals",
	mcp.WithDescription("List the fitness goals advice can be generated for."),
)

var toolGenerateAdvice = mcp.NewTool("generate_advice",
	mcp.WithDescription("Generate a short motivational sentence about the mindset needed for a fitness goal."),
	mcp.WithString("goal", mcp.Required(), mcp.Description("Fitness goal"), mcp.Enum(goalNames()...)),
)

var toolGetAdviceHistory = mcp.NewTool("get_advice_history",
	mcp.WithDescription("Recently generated advice, newest first, including failed attempts."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of entries. Defaults to 20.")),
)

// --- Tool handlers ---

func (h *handlers) getDatasetSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	top := req.GetInt("top", report.DefaultTopN)

	sum, err := h.ds.Summary(ctx, top)
	if err != nil {
		h.log.Error("mcp get_dataset_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sum)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listBodyParts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parts, err := h.ds.BodyParts(ctx)
	if err != nil {
		h.log.Error("mcp list_body_parts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"body_parts": parts})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) sampleExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bodyPart, err := req.RequireString("body_part")
	if err != nil {
		return mcp.NewToolResultError("body_part parameter is required"), nil
	}
	limit := req.GetInt("limit", sampler.DefaultMaxSamples)

	recs, err := h.ds.Sample(ctx, bodyPart, limit)
	if errors.Is(err, models.ErrNoMatch) {
		return mcp.NewToolResultText(noMatchWarning), nil
	}
	if err != nil {
		h.log.Error("mcp sample_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"body_part": bodyPart,
		"exercises": recs,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listGoals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(map[string]any{"goals": goalNames()})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) generateAdvice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goal, err := req.RequireString("goal")
	if err != nil {
		return mcp.NewToolResultError("goal parameter is required"), nil
	}

	res, err := h.ds.Advice(ctx, goal)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.Failed() {
		return mcp.NewToolResultError(res.Error), nil
	}
	return mcp.NewToolResultText(res.Text), nil
}

func (h *handlers) getAdviceHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)

	hist, err := h.ds.History(ctx, limit)
	if err != nil {
		h.log.Error("mcp get_advice_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"advice": hist})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
