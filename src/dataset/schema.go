package dataset

import (
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Kind classifies a column for cleaning and statistics purposes.
type Kind int

const (
	Categorical Kind = iota
	Numeric
	Temporal
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Temporal:
		return "temporal"
	default:
		return "categorical"
	}
}

// ColumnDescriptor pairs a column name with its inferred kind.
type ColumnDescriptor struct {
	Name string
	Kind Kind
}

// temporal name hints, matched as lowercase substrings
var timeKeywords = []string{"year", "date", "time"}

// InferKinds classifies every column of the dataset. Numeric gota types
// map to Numeric unless the column looks like calendar years, everything
// else is Categorical.
func InferKinds(df dataframe.DataFrame) []ColumnDescriptor {
	names := df.Names()
	types := df.Types()

	out := make([]ColumnDescriptor, len(names))
	for i, name := range names {
		out[i] = ColumnDescriptor{Name: name, Kind: inferKind(name, types[i], df.Col(name))}
	}
	return out
}

func inferKind(name string, t series.Type, col series.Series) Kind {
	switch t {
	case series.Int, series.Float:
		if hasTimeKeyword(name) || looksLikeYears(col) {
			return Temporal
		}
		return Numeric
	default:
		return Categorical
	}
}

func hasTimeKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range timeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// looksLikeYears reports whether every non-missing value is a whole
// number in a plausible calendar-year range.
func looksLikeYears(col series.Series) bool {
	any := false
	for _, v := range col.Float() {
		if math.IsNaN(v) {
			continue
		}
		if v != math.Trunc(v) || v < 1000 || v > 2200 {
			return false
		}
		any = true
	}
	return any
}
