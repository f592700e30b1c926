package processor

import (
	"math"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"melodymetrics/src/dataset"
	"melodymetrics/src/utils"
)

// ColumnSummary describes one column for presentation: inferred kind,
// fill level, cardinality and, for numeric kinds, value range.
type ColumnSummary struct {
	Name    string
	Kind    dataset.Kind
	NonNull int
	Unique  int
	Min     float64
	Max     float64
	Mean    float64
}

// DescribeColumns summarizes every column of the dataset.
func DescribeColumns(df dataframe.DataFrame) []ColumnSummary {
	descs := dataset.InferKinds(df)
	out := make([]ColumnSummary, 0, len(descs))
	for _, d := range descs {
		col := df.Col(d.Name)

		s := ColumnSummary{Name: d.Name, Kind: d.Kind}
		for i := 0; i < col.Len(); i++ {
			if !missing(col.Elem(i)) {
				s.NonNull++
			}
		}
		seen := make(map[string]bool)
		for _, v := range col.Records() {
			seen[v] = true
		}
		s.Unique = len(seen)

		if d.Kind != dataset.Categorical {
			if clean := cleanValues(col); len(clean) > 0 {
				s.Min = floats.Min(clean)
				s.Max = floats.Max(clean)
				s.Mean = stat.Mean(clean, nil)
			}
		}
		out = append(out, s)
	}
	return out
}

// ColumnDtype pairs a column name with its storage type.
type ColumnDtype struct {
	Name  string
	Dtype string
}

// Shape reports dataset dimensions and per-column dtypes.
type Shape struct {
	Rows   int
	Cols   int
	Dtypes []ColumnDtype
}

func ShapeInfo(df dataframe.DataFrame) Shape {
	names := df.Names()
	types := df.Types()

	shape := Shape{Rows: df.Nrow(), Cols: df.Ncol(), Dtypes: make([]ColumnDtype, len(names))}
	for i, name := range names {
		shape.Dtypes[i] = ColumnDtype{Name: name, Dtype: string(types[i])}
	}
	return shape
}

// Summary is the five-number-plus-mean description of a numeric column.
type Summary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// DescriptiveStatistics computes a Summary per numeric column. Missing
// values are excluded from every computation.
func DescriptiveStatistics(df dataframe.DataFrame) map[string]Summary {
	types := df.Types()
	out := make(map[string]Summary)
	for i, name := range df.Names() {
		if types[i] != series.Int && types[i] != series.Float {
			continue
		}
		clean := cleanValues(df.Col(name))
		if len(clean) == 0 {
			continue
		}
		sort.Float64s(clean)
		out[name] = Summary{
			Count: len(clean),
			Mean:  stat.Mean(clean, nil),
			Std:   stat.StdDev(clean, nil),
			Min:   clean[0],
			Q25:   stat.Quantile(0.25, stat.Empirical, clean, nil),
			Q50:   stat.Quantile(0.5, stat.Empirical, clean, nil),
			Q75:   stat.Quantile(0.75, stat.Empirical, clean, nil),
			Max:   clean[len(clean)-1],
		}
	}
	return out
}

// SpanReport is the time coverage of the dataset.
type SpanReport struct {
	Earliest int
	Latest   int
	Span     int
}

// DatasetDuration reports earliest and latest year of the date column and
// the span between them.
func DatasetDuration(df dataframe.DataFrame, dateCol string) (SpanReport, error) {
	if !utils.HasColumn(df, dateCol) {
		return SpanReport{}, &dataset.ColumnNotFoundError{Column: dateCol}
	}
	clean := cleanValues(df.Col(dateCol))
	if len(clean) == 0 {
		return SpanReport{}, nil
	}
	min := floats.Min(clean)
	max := floats.Max(clean)
	return SpanReport{Earliest: int(min), Latest: int(max), Span: int(max - min)}, nil
}

// CategoryCount is one category with an occurrence count.
type CategoryCount struct {
	Category string
	Count    int
}

// CategoryBucket is the top categories of one yearly bucket.
type CategoryBucket struct {
	Year int
	Top  []CategoryCount
}

// TopCategoriesOverTime groups rows into yearly buckets and keeps the
// top-n categories per bucket by count, ties broken by first-seen row
// order. Buckets come back in ascending year order. Rows with a missing
// year or category are excluded.
func TopCategoriesOverTime(df dataframe.DataFrame, categoryCol, timeCol string, n int) ([]CategoryBucket, error) {
	for _, c := range []string{categoryCol, timeCol} {
		if !utils.HasColumn(df, c) {
			return nil, &dataset.ColumnNotFoundError{Column: c}
		}
	}
	if n <= 0 {
		n = 3
	}

	years := df.Col(timeCol).Float()
	cats := df.Col(categoryCol)

	counts := make(map[int]map[string]int)
	firstSeen := make(map[string]int)
	for i := 0; i < cats.Len(); i++ {
		if math.IsNaN(years[i]) || missing(cats.Elem(i)) {
			continue
		}
		cat := strings.TrimSpace(cats.Elem(i).String())
		year := int(years[i])
		if _, ok := firstSeen[cat]; !ok {
			firstSeen[cat] = i
		}
		if counts[year] == nil {
			counts[year] = make(map[string]int)
		}
		counts[year][cat]++
	}

	bucketYears := make([]int, 0, len(counts))
	for y := range counts {
		bucketYears = append(bucketYears, y)
	}
	sort.Ints(bucketYears)

	buckets := make([]CategoryBucket, 0, len(bucketYears))
	for _, y := range bucketYears {
		top := make([]CategoryCount, 0, len(counts[y]))
		for cat, c := range counts[y] {
			top = append(top, CategoryCount{Category: cat, Count: c})
		}
		sort.SliceStable(top, func(a, b int) bool {
			if top[a].Count != top[b].Count {
				return top[a].Count > top[b].Count
			}
			return firstSeen[top[a].Category] < firstSeen[top[b].Category]
		})
		if len(top) > n {
			top = top[:n]
		}
		buckets = append(buckets, CategoryBucket{Year: y, Top: top})
	}
	return buckets, nil
}

// ExplicitBucket is the explicit-content share of one yearly bucket.
type ExplicitBucket struct {
	Year     int
	Fraction float64
}

// ExplicitContentEvolution computes, per yearly bucket, the fraction of
// rows whose flag column is true. Rows with a missing year or an
// unparseable flag are excluded; buckets that end up with zero rows are
// omitted, so there is never a division by zero.
func ExplicitContentEvolution(df dataframe.DataFrame, flagCol, timeCol string) ([]ExplicitBucket, error) {
	for _, c := range []string{flagCol, timeCol} {
		if !utils.HasColumn(df, c) {
			return nil, &dataset.ColumnNotFoundError{Column: c}
		}
	}

	years := df.Col(timeCol).Float()
	flags := df.Col(flagCol)

	total := make(map[int]int)
	explicit := make(map[int]int)
	for i := 0; i < flags.Len(); i++ {
		if math.IsNaN(years[i]) {
			continue
		}
		v, ok := parseFlag(flags.Elem(i))
		if !ok {
			continue
		}
		y := int(years[i])
		total[y]++
		if v {
			explicit[y]++
		}
	}

	bucketYears := make([]int, 0, len(total))
	for y := range total {
		bucketYears = append(bucketYears, y)
	}
	sort.Ints(bucketYears)

	out := make([]ExplicitBucket, 0, len(bucketYears))
	for _, y := range bucketYears {
		out = append(out, ExplicitBucket{Year: y, Fraction: float64(explicit[y]) / float64(total[y])})
	}
	return out, nil
}

// GenreFrequencies explodes the delimiter-separated genre column and
// counts every genre token, descending by count with ties in first-seen
// order. This feeds the genre distribution charts.
func GenreFrequencies(df dataframe.DataFrame, genreCol string) ([]CategoryCount, error) {
	if !utils.HasColumn(df, genreCol) {
		return nil, &dataset.ColumnNotFoundError{Column: genreCol}
	}

	col := df.Col(genreCol)
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for i := 0; i < col.Len(); i++ {
		e := col.Elem(i)
		if missing(e) {
			continue
		}
		for _, tok := range strings.Split(e.String(), ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			if _, ok := firstSeen[tok]; !ok {
				firstSeen[tok] = order
				order++
			}
			counts[tok]++
		}
	}

	out := make([]CategoryCount, 0, len(counts))
	for cat, c := range counts {
		out = append(out, CategoryCount{Category: cat, Count: c})
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return firstSeen[out[a].Category] < firstSeen[out[b].Category]
	})
	return out, nil
}

// cleanValues returns the column as floats with missing values dropped.
func cleanValues(col series.Series) []float64 {
	vals := col.Float()
	clean := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	return clean
}

// parseFlag interprets a boolean-ish cell. The second result is false
// when the cell cannot be interpreted.
func parseFlag(e series.Element) (bool, bool) {
	if e.IsNA() {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(e.String())) {
	case "true", "t", "1", "yes":
		return true, true
	case "false", "f", "0", "no":
		return false, true
	}
	return false, false
}
