package processor

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"melodymetrics/src/dataset"
	"melodymetrics/src/utils"
)

// Derived column names written by the cleaning operations.
const (
	PrimaryGenreColumn = "primary_genre"
	SubgenresColumn    = "subgenres"
	YearsAgoColumn     = "years_ago"

	durationMsColumn  = "duration_ms"
	durationMinColumn = "duration_minutes"
)

// DefaultFenceMultiplier is the conventional IQR fence factor.
const DefaultFenceMultiplier = 1.5

// missing reports whether an element counts as a null value. Gota marks
// NA elements, but blank strings in categorical columns count too.
func missing(e series.Element) bool {
	return e.IsNA() || strings.TrimSpace(e.String()) == ""
}

// CountNullsPerColumn counts missing values per column. Report only.
func CountNullsPerColumn(df dataframe.DataFrame) map[string]int {
	counts := make(map[string]int, df.Ncol())
	for _, name := range df.Names() {
		col := df.Col(name)
		n := 0
		for i := 0; i < col.Len(); i++ {
			if missing(col.Elem(i)) {
				n++
			}
		}
		counts[name] = n
	}
	return counts
}

// HasAnyNulls reports whether any column contains a missing value.
func HasAnyNulls(df dataframe.DataFrame) bool {
	for _, n := range CountNullsPerColumn(df) {
		if n > 0 {
			return true
		}
	}
	return false
}

// CountUniquePerColumn counts distinct raw values per column.
func CountUniquePerColumn(df dataframe.DataFrame) map[string]int {
	counts := make(map[string]int, df.Ncol())
	for _, name := range df.Names() {
		seen := make(map[string]bool)
		for _, v := range df.Col(name).Records() {
			seen[v] = true
		}
		counts[name] = len(seen)
	}
	return counts
}

// SplitGenreColumn splits the delimiter-separated source column into a
// primary_genre column (first trimmed token) and a subgenres column
// (remainder). The source column is left untouched and the derived
// columns are recomputed in place on re-invocation, so the operation is
// idempotent. Rows with a missing source value get a missing primary
// genre rather than an error.
func SplitGenreColumn(df dataframe.DataFrame, sourceCol, delim string) (dataframe.DataFrame, error) {
	if !utils.HasColumn(df, sourceCol) {
		return df, &dataset.ColumnNotFoundError{Column: sourceCol}
	}
	if delim == "" {
		delim = ","
	}

	src := df.Col(sourceCol)
	primary := make([]string, src.Len())
	subs := make([]string, src.Len())
	for i := 0; i < src.Len(); i++ {
		e := src.Elem(i)
		if missing(e) {
			primary[i] = "NaN"
			subs[i] = "NaN"
			continue
		}
		parts := strings.SplitN(e.String(), delim, 2)
		head := strings.TrimSpace(parts[0])
		if head == "" {
			head = "NaN"
		}
		primary[i] = head
		if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
			subs[i] = strings.TrimSpace(parts[1])
		} else {
			subs[i] = "NaN"
		}
	}

	out := df.Mutate(series.New(primary, series.String, PrimaryGenreColumn))
	out = out.Mutate(series.New(subs, series.String, SubgenresColumn))
	return out, nil
}

// AddYearsSinceColumn adds newCol holding current year minus the value of
// the year-like source column. Missing or non-numeric source values yield
// a missing result for that row, never a row drop.
func AddYearsSinceColumn(df dataframe.DataFrame, sourceCol, newCol string) (dataframe.DataFrame, error) {
	if !utils.HasColumn(df, sourceCol) {
		return df, &dataset.ColumnNotFoundError{Column: sourceCol}
	}
	if newCol == "" {
		newCol = YearsAgoColumn
	}

	current := float64(time.Now().Year())
	vals := df.Col(sourceCol).Float()
	out := make([]float64, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = current - v
	}
	return df.Mutate(series.New(out, series.Float, newCol)), nil
}

// ConvertDurationToMinutes replaces the duration_ms column with a
// duration_minutes column rounded to one decimal. A dataset that was
// already converted passes through unchanged.
func ConvertDurationToMinutes(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if !utils.HasColumn(df, durationMsColumn) {
		if utils.HasColumn(df, durationMinColumn) {
			return df, nil
		}
		return df, &dataset.ColumnNotFoundError{Column: durationMsColumn}
	}

	vals := df.Col(durationMsColumn).Float()
	mins := make([]float64, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			mins[i] = v
			continue
		}
		mins[i] = math.Round(v/60000*10) / 10
	}
	out := df.Mutate(series.New(mins, series.Float, durationMsColumn))
	return out.Rename(durationMinColumn, durationMsColumn), nil
}

// OutlierBounds holds the IQR fence for one column and the indices of
// rows falling outside it.
type OutlierBounds struct {
	Lower float64
	Upper float64
	Rows  []int
}

// DetectOutliers computes IQR fences (Q1-k*IQR, Q3+k*IQR) for the given
// numeric columns and flags the rows outside them. Columns absent from
// the dataset are skipped, not errors. k <= 0 selects the conventional
// 1.5 multiplier.
func DetectOutliers(df dataframe.DataFrame, columns []string, k float64) map[string]OutlierBounds {
	if k <= 0 {
		k = DefaultFenceMultiplier
	}

	out := make(map[string]OutlierBounds)
	for _, name := range columns {
		if !utils.HasColumn(df, name) {
			continue
		}
		vals := df.Col(name).Float()
		clean := make([]float64, 0, len(vals))
		for _, v := range vals {
			if !math.IsNaN(v) {
				clean = append(clean, v)
			}
		}
		if len(clean) == 0 {
			continue
		}
		sort.Float64s(clean)

		q1 := stat.Quantile(0.25, stat.Empirical, clean, nil)
		q3 := stat.Quantile(0.75, stat.Empirical, clean, nil)
		iqr := q3 - q1

		b := OutlierBounds{Lower: q1 - k*iqr, Upper: q3 + k*iqr}
		for i, v := range vals {
			if math.IsNaN(v) {
				continue
			}
			if v < b.Lower || v > b.Upper {
				b.Rows = append(b.Rows, i)
			}
		}
		out[name] = b
	}
	return out
}

// CleanReport summarizes what CleanOutliersAndDuplicates removed.
type CleanReport struct {
	OutlierRows   int
	DuplicateRows int
	Bounds        map[string]OutlierBounds
}

// CleanOutliersAndDuplicates removes the union of rows flagged by
// DetectOutliers across the given columns, then removes fully duplicate
// rows, keeping first occurrences. Zero flagged rows is not an error;
// the dataset comes back unchanged apart from exact duplicates.
func CleanOutliersAndDuplicates(df dataframe.DataFrame, columns []string, k float64) (dataframe.DataFrame, CleanReport) {
	bounds := DetectOutliers(df, columns, k)
	flagged := make(map[int]bool)
	for _, b := range bounds {
		for _, r := range b.Rows {
			flagged[r] = true
		}
	}

	report := CleanReport{OutlierRows: len(flagged), Bounds: bounds}

	records := df.Records() // first record is the header row
	seen := make(map[string]bool, df.Nrow())
	keep := make([]int, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		if flagged[i] {
			continue
		}
		key := strings.Join(records[i+1], "\x1f")
		if seen[key] {
			report.DuplicateRows++
			continue
		}
		seen[key] = true
		keep = append(keep, i)
	}

	if report.OutlierRows == 0 && report.DuplicateRows == 0 {
		return df, report
	}
	return df.Subset(keep), report
}
