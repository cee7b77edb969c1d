package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/claude/fitplanner/internal/models"
	"github.com/claude/fitplanner/internal/report"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeSource struct {
	summaryTop int
	sampleArgs []any
	summaryErr error
}

func (f *fakeSource) Summary(_ context.Context, top int) (*report.Summary, error) {
	f.summaryTop = top
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return &report.Summary{Count: 3, TopBodyParts: []models.BodyPartCount{{Value: "Chest", Count: 2}, {Value: "Lats", Count: 1}}}, nil
}

func (f *fakeSource) BodyParts(context.Context) ([]string, error) {
	return []string{"Chest", "Lats"}, nil
}

func (f *fakeSource) Sample(_ context.Context, bodyPart string, limit int) ([]models.ExerciseRecord, error) {
	f.sampleArgs = []any{bodyPart, limit}
	if bodyPart != "Chest" {
		return nil, fmt.Errorf("%w: %q", models.ErrNoMatch, bodyPart)
	}
	return []models.ExerciseRecord{{Title: "Push-up", BodyPart: "Chest"}}, nil
}

func (f *fakeSource) Advice(_ context.Context, goal string) (models.AdviceResult, error) {
	g, err := models.ParseGoal(goal)
	if err != nil {
		return models.AdviceResult{}, err
	}
	if g == models.GoalEndurance {
		return models.AdviceResult{Goal: g, Kind: models.KindGenerationFailed, Error: "AI Error: endpoint unreachable"}, nil
	}
	return models.AdviceResult{Goal: g, Text: "To achieve " + goal + ", the most important mindset is patience."}, nil
}

func (f *fakeSource) History(context.Context, int) ([]models.AdviceResult, error) {
	return []models.AdviceResult{{ID: "a"}}, nil
}

func newHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content is %T, want text", res.Content[0])
	}
	return tc.Text
}

// TestNewRegistersTools verifies the server builds with all tools.
func TestNewRegistersTools(t *testing.T) {
	s := New(&fakeSource{}, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if s == nil {
		t.Fatal("New returned nil")
	}
	for _, name := range []string{"get_dataset_summary", "list_body_parts", "sample_exercises", "list_goals", "generate_advice", "get_advice_history"} {
		if s.GetTool(name) == nil {
			t.Errorf("tool %s not registered", name)
		}
	}
}

// TestGetDatasetSummaryTool verifies the default top and JSON payload.
func TestGetDatasetSummaryTool(t *testing.T) {
	ds := &fakeSource{}
	res, err := newHandlers(ds).getDatasetSummary(context.Background(), callReq(nil))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if ds.summaryTop != report.DefaultTopN {
		t.Errorf("top = %d, want %d", ds.summaryTop, report.DefaultTopN)
	}
	var sum report.Summary
	if err := json.Unmarshal([]byte(resultText(t, res)), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.Count != 3 {
		t.Errorf("count = %d, want 3", sum.Count)
	}
}

// TestGetDatasetSummaryToolUnavailable verifies a missing dataset becomes a tool error.
func TestGetDatasetSummaryToolUnavailable(t *testing.T) {
	ds := &fakeSource{summaryErr: models.ErrDataUnavailable}
	res, _ := newHandlers(ds).getDatasetSummary(context.Background(), callReq(nil))
	if !res.IsError {
		t.Fatal("expected tool error")
	}
	if !strings.Contains(resultText(t, res), "dataset not available") {
		t.Errorf("text = %q", resultText(t, res))
	}
}

// TestSampleExercisesTool verifies arguments, success and the no-match warning.
func TestSampleExercisesTool(t *testing.T) {
	ds := &fakeSource{}
	h := newHandlers(ds)

	res, _ := h.sampleExercises(context.Background(), callReq(map[string]any{"body_part": "Chest", "limit": 3}))
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if ds.sampleArgs[0] != "Chest" || ds.sampleArgs[1] != 3 {
		t.Errorf("sample args = %v", ds.sampleArgs)
	}
	if !strings.Contains(resultText(t, res), "Push-up") {
		t.Errorf("text = %q", resultText(t, res))
	}

	res, _ = h.sampleExercises(context.Background(), callReq(map[string]any{"body_part": "Neck"}))
	if res.IsError {
		t.Error("no match should not be a tool error")
	}
	if got := resultText(t, res); got != noMatchWarning {
		t.Errorf("text = %q, want warning", got)
	}

	res, _ = h.sampleExercises(context.Background(), callReq(nil))
	if !res.IsError {
		t.Error("missing body_part should be a tool error")
	}
}

// TestGenerateAdviceTool verifies success, generation failure and unknown goals.
func TestGenerateAdviceTool(t *testing.T) {
	h := newHandlers(&fakeSource{})
	ctx := context.Background()

	res, _ := h.generateAdvice(ctx, callReq(map[string]any{"goal": "Strength"}))
	if res.IsError || !strings.HasPrefix(resultText(t, res), "To achieve Strength") {
		t.Errorf("Strength result = %+v", res)
	}

	res, _ = h.generateAdvice(ctx, callReq(map[string]any{"goal": "Endurance"}))
	if !res.IsError || !strings.HasPrefix(resultText(t, res), "AI Error: ") {
		t.Errorf("Endurance result = %+v", res)
	}

	res, _ = h.generateAdvice(ctx, callReq(map[string]any{"goal": "Yoga"}))
	if !res.IsError {
		t.Error("unknown goal should be a tool error")
	}
}

// TestListGoalsTool verifies every goal is listed.
func TestListGoalsTool(t *testing.T) {
	res, _ := newHandlers(&fakeSource{}).listGoals(context.Background(), callReq(nil))
	text := resultText(t, res)
	for _, g := range models.Goals() {
		if !strings.Contains(text, string(g)) {
			t.Errorf("goals %q missing %q", text, g)
		}
	}
}

// TestSummaryResource verifies the resource returns JSON under the requested URI.
func TestSummaryResource(t *testing.T) {
	var req mcp.ReadResourceRequest
	req.Params.URI = "fitplanner://summary"

	contents, err := newHandlers(&fakeSource{}).summary(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T", contents[0])
	}
	if tc.URI != "fitplanner://summary" || !strings.Contains(tc.Text, `"count":3`) {
		t.Errorf("resource = %+v", tc)
	}
}
