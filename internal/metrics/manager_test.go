package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestNewManagerRegistersInstruments verifies instruments are exported under the namespace.
func TestNewManagerRegistersInstruments(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterAdvice.WithLabelValues("Strength", "success").Inc()
	m.CounterSamples.WithLabelValues("Biceps").Add(3)
	m.GaugeDatasetRows.Set(42)

	if got := testutil.ToFloat64(m.CounterAdvice.WithLabelValues("Strength", "success")); got != 1 {
		t.Errorf("advice counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CounterSamples.WithLabelValues("Biceps")); got != 3 {
		t.Errorf("samples counter = %v, want 3", got)
	}

	expected := `
# HELP fitplanner_test_dataset_rows Number of exercise records kept after cleaning
# TYPE fitplanner_test_dataset_rows gauge
fitplanner_test_dataset_rows 42
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "fitplanner_test_dataset_rows"); err != nil {
		t.Error(err)
	}
}

// TestSetupPrometheus verifies runtime collectors and extras are registered.
func TestSetupPrometheus(t *testing.T) {
	reg := SetupPrometheus(nil)
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var hasGo bool
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "go_") {
			hasGo = true
			break
		}
	}
	if !hasGo {
		t.Error("expected go_* runtime metrics")
	}
}
