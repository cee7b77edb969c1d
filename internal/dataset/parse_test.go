package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/fitplanner/internal/models"
)

const sampleCSV = `,Title,Desc,Type,BodyPart,Equipment,Level,Rating,RatingDesc
0,Partner plank band row,A rowing exercise,Strength,Abdominals,Bands,Intermediate,0.0,Average
1,Banded crunch isometric hold,Hold the crunch,Strength,Abdominals,Bands,Intermediate,,
2,FYR Banded Plank Jack,"A plank, with jacks",Strength,Abdominals,Bands,Intermediate,0.0,Average
3,Barbell curl,Curl the bar,Strength,Biceps,Barbell,Beginner,8.9,Average
4,Hammer curl,NaN,Strength,Biceps,Dumbbell,Beginner,9.1,Average
5,Incline curl,Curl on a bench,Strength,Biceps,Dumbbell,Intermediate,8.1,Average
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "megaGymDataset.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestParseDropsMissingRows verifies that rows with any empty or NA field are
// discarded entirely and the rest keep file order.
func TestParseDropsMissingRows(t *testing.T) {
	table, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if table.Len() != 4 {
		t.Fatalf("rows = %d, want 4", table.Len())
	}
	if table.Dropped() != 2 {
		t.Errorf("dropped = %d, want 2", table.Dropped())
	}

	wantTitles := []string{"Partner plank band row", "FYR Banded Plank Jack", "Barbell curl", "Incline curl"}
	for i, rec := range table.Records() {
		if rec.Title != wantTitles[i] {
			t.Errorf("record %d title = %q, want %q", i, rec.Title, wantTitles[i])
		}
	}

	rec := table.Record(1)
	if rec.Desc != "A plank, with jacks" {
		t.Errorf("quoted desc = %q", rec.Desc)
	}
	if rec.Extra["Unnamed: 0"] != "2" {
		t.Errorf("index column = %q, want 2", rec.Extra["Unnamed: 0"])
	}
}

// TestParseNoMissingFields checks the cleaning invariant over every retained
// record and every column.
func TestParseNoMissingFields(t *testing.T) {
	table, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	for _, col := range table.Header() {
		values, ok := table.Column(col)
		if !ok {
			t.Fatalf("column %q not found", col)
		}
		for i, v := range values {
			if IsMissing(v) {
				t.Errorf("record %d column %q is missing", i, col)
			}
		}
	}
}

// TestParseShortRow verifies that a row with fewer cells than the header is dropped.
func TestParseShortRow(t *testing.T) {
	csv := "Title,Type,BodyPart,Equipment\nRow,Strength,Chest,Barbell\nShort,Strength\n"
	table, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if table.Len() != 1 || table.Dropped() != 1 {
		t.Errorf("len=%d dropped=%d, want 1/1", table.Len(), table.Dropped())
	}
}

// TestParseMissingColumn verifies that a header without BodyPart is reported
// as DataUnavailable.
func TestParseMissingColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("Title,Type,Equipment\nA,B,C\n"))
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}

// TestParseEmpty verifies that an empty file is DataUnavailable rather than an empty table.
func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}

// TestLoadMissingFile verifies that a missing dataset returns DataUnavailable
// and never panics.
func TestLoadMissingFile(t *testing.T) {
	table, err := Load("/nonexistent/megaGymDataset.csv")
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
	if table != nil {
		t.Error("expected nil table")
	}
}

// TestLoadFile verifies the path is recorded on a loaded table.
func TestLoadFile(t *testing.T) {
	path := writeTemp(t, sampleCSV)
	table, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if table.Path() != path {
		t.Errorf("path = %q, want %q", table.Path(), path)
	}
}

// TestParseBOMHeader verifies a UTF-8 byte-order mark before the first header
// cell does not hide that column.
func TestParseBOMHeader(t *testing.T) {
	data := "\ufeffTitle,Type,BodyPart,Equipment\nPush-up,Strength,Chest,Body Only\n"
	table, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	titles, ok := table.Column("Title")
	if !ok {
		t.Fatalf("Title column not found in header %q", table.Header())
	}
	if len(titles) != 1 || titles[0] != "Push-up" {
		t.Errorf("titles = %q, want [Push-up]", titles)
	}
}

// TestParseKeepsPaddedValues verifies only exact NA markers drop a row;
// whitespace-only and padded cells are kept as data.
func TestParseKeepsPaddedValues(t *testing.T) {
	data := "Title,Type,BodyPart,Equipment,Level\n" +
		"Push-up,Strength,Chest, ,Beginner\n" +
		"Dip,Strength,Triceps,Body Only, NaN\n" +
		"Row,Strength,Lats,Cable,NaN\n"
	table, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if table.Len() != 2 || table.Dropped() != 1 {
		t.Errorf("rows/dropped = %d/%d, want 2/1", table.Len(), table.Dropped())
	}
}

// TestIsMissing covers the NA marker set.
func TestIsMissing(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", false},
		{" NaN", false},
		{"NaN", true},
		{"nan", true},
		{"N/A", true},
		{"NULL", true},
		{"None", true},
		{"0.0", false},
		{"Abdominals", false},
		{"none", false},
	}
	for _, tt := range tests {
		if got := IsMissing(tt.in); got != tt.want {
			t.Errorf("IsMissing(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
