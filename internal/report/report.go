package report

import (
	"errors"
	"fmt"
	"sort"

	"github.com/claude/fitplanner/internal/dataset"
	"github.com/claude/fitplanner/internal/models"
)

// Defaults used by the dashboard.
const (
	DefaultTopN        = 7
	DefaultPreviewRows = 10
)

// ErrUnknownColumn is returned when a column is not in the dataset header.
var ErrUnknownColumn = errors.New("unknown column")

// Summary holds the descriptive counts shown above the exercise chart.
type Summary struct {
	Count        int                    `json:"count"`
	Dropped      int                    `json:"dropped"`
	TopBodyParts []models.BodyPartCount `json:"top_body_parts"`
}

// Summarize returns the row count and the n most frequent body parts.
func Summarize(t *dataset.Table, n int) (*Summary, error) {
	top, err := TopCategories(t, models.ColumnBodyPart, n)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Count:        t.Len(),
		Dropped:      t.Dropped(),
		TopBodyParts: top,
	}, nil
}

// TopCategories counts the values of column and returns at most n of them,
// most frequent first. Equal counts keep the order in which values first
// appear in the table.
func TopCategories(t *dataset.Table, column string, n int) ([]models.BodyPartCount, error) {
	values, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	if n <= 0 {
		return []models.BodyPartCount{}, nil
	}

	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	out := make([]models.BodyPartCount, len(order))
	for i, v := range order {
		out[i] = models.BodyPartCount{Value: v, Count: counts[v]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Preview returns the first n rows of the table, DefaultPreviewRows when n <= 0.
func Preview(t *dataset.Table, n int) []models.ExerciseRecord {
	if n <= 0 {
		n = DefaultPreviewRows
	}
	return t.Head(n)
}
