package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/fitplanner/internal/report"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) summary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sum, err := h.ds.Summary(ctx, report.DefaultTopN)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(sum)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
