package models

// ExerciseRecord is one cleaned row of the exercise dataset.
type ExerciseRecord struct {
	Title      string            `json:"title"`
	Desc       string            `json:"desc,omitempty"`
	Type       string            `json:"type"`
	BodyPart   string            `json:"body_part"`
	Equipment  string            `json:"equipment"`
	Level      string            `json:"level,omitempty"`
	Rating     string            `json:"rating,omitempty"`
	RatingDesc string            `json:"rating_desc,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Field returns the value of the named column, checking the known columns
// before Extra.
func (r ExerciseRecord) Field(column string) (string, bool) {
	switch column {
	case ColumnTitle:
		return r.Title, true
	case ColumnDesc:
		return r.Desc, true
	case ColumnType:
		return r.Type, true
	case ColumnBodyPart:
		return r.BodyPart, true
	case ColumnEquipment:
		return r.Equipment, true
	case ColumnLevel:
		return r.Level, true
	case ColumnRating:
		return r.Rating, true
	case ColumnRatingDesc:
		return r.RatingDesc, true
	}
	v, ok := r.Extra[column]
	return v, ok
}

// Column names as they appear in the dataset header.
const (
	ColumnTitle      = "Title"
	ColumnDesc       = "Desc"
	ColumnType       = "Type"
	ColumnBodyPart   = "BodyPart"
	ColumnEquipment  = "Equipment"
	ColumnLevel      = "Level"
	ColumnRating     = "Rating"
	ColumnRatingDesc = "RatingDesc"
)

// RequiredColumns must be present in the header for records to be built.
var RequiredColumns = []string{ColumnTitle, ColumnType, ColumnBodyPart, ColumnEquipment}

// BodyPartCount is one entry of a ranked category frequency list.
type BodyPartCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}
