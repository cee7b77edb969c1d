package dataset

import (
	"maps"
	"slices"
	"sort"

	"github.com/claude/fitplanner/internal/models"
)

// Table is the cleaned, immutable exercise dataset in file order.
// Accessors return copies so callers cannot mutate shared state.
type Table struct {
	path    string
	header  []string
	records []models.ExerciseRecord
	dropped int
}

// NewTable builds a table from already-clean records. Used by tests and
// callers that assemble data in memory.
func NewTable(records []models.ExerciseRecord) *Table {
	t := &Table{records: make([]models.ExerciseRecord, len(records))}
	extra := make(map[string]bool)
	for i, r := range records {
		t.records[i] = cloneRecord(r)
		for k := range r.Extra {
			extra[k] = true
		}
	}
	t.header = []string{
		models.ColumnTitle, models.ColumnDesc, models.ColumnType, models.ColumnBodyPart,
		models.ColumnEquipment, models.ColumnLevel, models.ColumnRating, models.ColumnRatingDesc,
	}
	extraCols := make([]string, 0, len(extra))
	for k := range extra {
		extraCols = append(extraCols, k)
	}
	sort.Strings(extraCols)
	t.header = append(t.header, extraCols...)
	return t
}

// Path returns the source file, empty for in-memory tables.
func (t *Table) Path() string { return t.path }

// Len returns the number of retained records.
func (t *Table) Len() int { return len(t.records) }

// Dropped returns how many rows were discarded during cleaning.
func (t *Table) Dropped() int { return t.dropped }

// Header returns the normalized column names.
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

// Records returns a copy of all records.
func (t *Table) Records() []models.ExerciseRecord {
	return t.Head(len(t.records))
}

// Record returns the i-th record.
func (t *Table) Record(i int) models.ExerciseRecord {
	return cloneRecord(t.records[i])
}

// Head returns up to n records from the start of the table.
func (t *Table) Head(n int) []models.ExerciseRecord {
	if n > len(t.records) {
		n = len(t.records)
	}
	if n <= 0 {
		return []models.ExerciseRecord{}
	}
	out := make([]models.ExerciseRecord, n)
	for i := range out {
		out[i] = cloneRecord(t.records[i])
	}
	return out
}

// Column returns the values of a column in record order. ok is false when the
// header has no such column.
func (t *Table) Column(name string) (values []string, ok bool) {
	if !slices.Contains(t.header, name) {
		return nil, false
	}
	values = make([]string, 0, len(t.records))
	for _, r := range t.records {
		v, _ := r.Field(name)
		values = append(values, v)
	}
	return values, true
}

// BodyParts returns the distinct BodyPart values in first-seen order.
func (t *Table) BodyParts() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.records {
		if !seen[r.BodyPart] {
			seen[r.BodyPart] = true
			out = append(out, r.BodyPart)
		}
	}
	return out
}

// Indexes returns the positions of records whose BodyPart equals bodyPart exactly.
func (t *Table) Indexes(bodyPart string) []int {
	var idx []int
	for i, r := range t.records {
		if r.BodyPart == bodyPart {
			idx = append(idx, i)
		}
	}
	return idx
}

func cloneRecord(r models.ExerciseRecord) models.ExerciseRecord {
	if r.Extra != nil {
		r.Extra = maps.Clone(r.Extra)
	}
	return r
}
