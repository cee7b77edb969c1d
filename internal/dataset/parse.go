package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/claude/fitplanner/internal/models"
)

// naValues are the cell values treated as missing, matching the default NA
// markers of common dataframe CSV readers.
var naValues = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsMissing reports whether a raw cell value counts as a missing field. Only
// exact NA markers match; padded values such as " NaN" are data.
func IsMissing(v string) bool {
	return naValues[v]
}

// Load reads and cleans the dataset file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", models.ErrDataUnavailable, path, err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, err
	}
	t.path = path
	return t, nil
}

// Parse reads a CSV exercise dataset and drops every row with a missing field.
// Rows whose cell count differs from the header are dropped as well.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", models.ErrDataUnavailable)
		}
		return nil, fmt.Errorf("%w: reading header: %v", models.ErrDataUnavailable, err)
	}
	header = normalizeHeader(header)

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range models.RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", models.ErrDataUnavailable, col)
		}
	}

	t := &Table{header: header}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading row: %v", models.ErrDataUnavailable, err)
		}
		if len(row) != len(header) || hasMissing(row) {
			t.dropped++
			continue
		}
		t.records = append(t.records, buildRecord(header, row))
	}
	return t, nil
}

// normalizeHeader names blank header cells "Unnamed: <i>" and strips a UTF-8 BOM.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		out[i] = h
	}
	return out
}

func hasMissing(row []string) bool {
	for _, v := range row {
		if IsMissing(v) {
			return true
		}
	}
	return false
}

func buildRecord(header, row []string) models.ExerciseRecord {
	var rec models.ExerciseRecord
	for i, name := range header {
		v := row[i]
		switch name {
		case models.ColumnTitle:
			rec.Title = v
		case models.ColumnDesc:
			rec.Desc = v
		case models.ColumnType:
			rec.Type = v
		case models.ColumnBodyPart:
			rec.BodyPart = v
		case models.ColumnEquipment:
			rec.Equipment = v
		case models.ColumnLevel:
			rec.Level = v
		case models.ColumnRating:
			rec.Rating = v
		case models.ColumnRatingDesc:
			rec.RatingDesc = v
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[name] = v
		}
	}
	return rec
}
