package processor

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"melodymetrics/src/dataset"
)

func genreFrame() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"year", "genre"},
		{"2010", "pop, rock"},
		{"2010", "rock"},
		{"2021", "jazz"},
	})
}

func TestSplitGenreColumn(t *testing.T) {
	df, err := SplitGenreColumn(genreFrame(), "genre", ",")
	if err != nil {
		t.Fatalf("SplitGenreColumn returned error: %v", err)
	}

	got := df.Col(PrimaryGenreColumn).Records()
	want := []string{"pop", "rock", "jazz"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("primary_genre = %v, want %v", got, want)
	}
	if sub := df.Col(SubgenresColumn).Records()[0]; sub != "rock" {
		t.Errorf("subgenres[0] = %q, want %q", sub, "rock")
	}
}

func TestSplitGenreColumnIdempotent(t *testing.T) {
	once, err := SplitGenreColumn(genreFrame(), "genre", ",")
	if err != nil {
		t.Fatal(err)
	}
	twice, err := SplitGenreColumn(once, "genre", ",")
	if err != nil {
		t.Fatalf("re-running the split returned error: %v", err)
	}

	if once.Ncol() != twice.Ncol() {
		t.Errorf("re-running the split changed column count: %d -> %d", once.Ncol(), twice.Ncol())
	}
	if !reflect.DeepEqual(once.Col(PrimaryGenreColumn).Records(), twice.Col(PrimaryGenreColumn).Records()) {
		t.Error("re-running the split changed primary_genre values")
	}
}

func TestSplitGenreColumnMissingSourceValues(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"pop, rock", "NaN", ""}, series.String, "genre"),
	)
	out, err := SplitGenreColumn(df, "genre", ",")
	if err != nil {
		t.Fatal(err)
	}

	col := out.Col(PrimaryGenreColumn)
	if col.Elem(0).IsNA() {
		t.Error("primary_genre[0] unexpectedly missing")
	}
	for i := 1; i < 3; i++ {
		if !col.Elem(i).IsNA() {
			t.Errorf("primary_genre[%d] = %q, want missing", i, col.Elem(i).String())
		}
	}
}

func TestSplitGenreColumnMissingColumn(t *testing.T) {
	_, err := SplitGenreColumn(genreFrame(), "styles", ",")
	var notFound *dataset.ColumnNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want ColumnNotFoundError", err)
	}
	if notFound.Column != "styles" {
		t.Errorf("error names column %q, want %q", notFound.Column, "styles")
	}
}

func TestCountNullsPerColumn(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"a", "NaN", "b"}, series.String, "artist"),
		series.New([]float64{1, math.NaN(), 3}, series.Float, "popularity"),
	)

	counts := CountNullsPerColumn(df)
	if counts["artist"] != 1 || counts["popularity"] != 1 {
		t.Errorf("counts = %v, want 1 per column", counts)
	}
	for name, n := range counts {
		if n > df.Nrow() {
			t.Errorf("column %q null count %d exceeds row count %d", name, n, df.Nrow())
		}
	}

	if !HasAnyNulls(df) {
		t.Error("HasAnyNulls = false, want true")
	}
	if HasAnyNulls(genreFrame()) {
		t.Error("HasAnyNulls on a complete frame = true, want false")
	}
}

func TestCountUniquePerColumn(t *testing.T) {
	counts := CountUniquePerColumn(genreFrame())
	if counts["year"] != 2 {
		t.Errorf("unique years = %d, want 2", counts["year"])
	}
	if counts["genre"] != 3 {
		t.Errorf("unique genres = %d, want 3", counts["genre"])
	}
}

func TestAddYearsSinceColumn(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{2000, math.NaN()}, series.Float, "year"),
	)
	out, err := AddYearsSinceColumn(df, "year", YearsAgoColumn)
	if err != nil {
		t.Fatal(err)
	}

	vals := out.Col(YearsAgoColumn).Float()
	want := float64(time.Now().Year() - 2000)
	if vals[0] != want {
		t.Errorf("years_ago[0] = %v, want %v", vals[0], want)
	}
	if !math.IsNaN(vals[1]) {
		t.Errorf("years_ago[1] = %v, want NaN", vals[1])
	}
}

func TestAddYearsSinceColumnMissingColumn(t *testing.T) {
	_, err := AddYearsSinceColumn(genreFrame(), "released", YearsAgoColumn)
	var notFound *dataset.ColumnNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want ColumnNotFoundError", err)
	}
}

func TestConvertDurationToMinutes(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{180000, 212093}, series.Float, "duration_ms"),
	)
	out, err := ConvertDurationToMinutes(df)
	if err != nil {
		t.Fatal(err)
	}

	vals := out.Col("duration_minutes").Float()
	if vals[0] != 3.0 {
		t.Errorf("duration_minutes[0] = %v, want 3.0", vals[0])
	}
	if vals[1] != 3.5 {
		t.Errorf("duration_minutes[1] = %v, want 3.5", vals[1])
	}

	// Already converted datasets pass through unchanged.
	again, err := ConvertDurationToMinutes(out)
	if err != nil {
		t.Fatalf("second conversion returned error: %v", err)
	}
	if again.Ncol() != out.Ncol() {
		t.Error("second conversion changed the frame")
	}
}

func yearFrame(years []int) dataframe.DataFrame {
	return dataframe.New(series.New(years, series.Int, "year"))
}

func TestDetectOutliersFlagsFarYear(t *testing.T) {
	df := yearFrame([]int{1990, 1991, 1992, 1993, 1994, 2050})

	bounds := DetectOutliers(df, []string{"year"}, 0)
	b, ok := bounds["year"]
	if !ok {
		t.Fatal("no bounds computed for year column")
	}
	if !reflect.DeepEqual(b.Rows, []int{5}) {
		t.Errorf("flagged rows = %v, want [5]", b.Rows)
	}
	if b.Lower >= b.Upper {
		t.Errorf("bounds inverted: lower %v >= upper %v", b.Lower, b.Upper)
	}
}

func TestDetectOutliersSkipsAbsentColumns(t *testing.T) {
	df := yearFrame([]int{1990, 1991, 1992})
	bounds := DetectOutliers(df, []string{"popularity"}, 0)
	if len(bounds) != 0 {
		t.Errorf("bounds = %v, want empty map for absent column", bounds)
	}
}

func TestCleanOutliersAndDuplicates(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"year", "genre"},
		{"1990", "pop"},
		{"1991", "rock"},
		{"1992", "pop"},
		{"1993", "jazz"},
		{"1994", "rock"},
		{"2050", "pop"},
		{"1990", "pop"}, // exact duplicate of the first row
	})

	cleaned, report := CleanOutliersAndDuplicates(df, []string{"year"}, 0)

	if cleaned.Nrow() > df.Nrow() {
		t.Error("cleaning increased row count")
	}
	if report.OutlierRows != 1 {
		t.Errorf("OutlierRows = %d, want 1", report.OutlierRows)
	}
	if report.DuplicateRows != 1 {
		t.Errorf("DuplicateRows = %d, want 1", report.DuplicateRows)
	}
	if cleaned.Nrow() != 5 {
		t.Errorf("cleaned row count = %d, want 5", cleaned.Nrow())
	}
	for _, v := range cleaned.Col("year").Float() {
		b := report.Bounds["year"]
		if v < b.Lower || v > b.Upper {
			t.Errorf("row with year %v survived outside the fence [%v, %v]", v, b.Lower, b.Upper)
		}
	}
}

func TestCleanOutliersAndDuplicatesNoFlags(t *testing.T) {
	df := yearFrame([]int{1990, 1991, 1992, 1993})

	cleaned, report := CleanOutliersAndDuplicates(df, []string{"year"}, 0)
	if report.OutlierRows != 0 || report.DuplicateRows != 0 {
		t.Errorf("report = %+v, want zero removals", report)
	}
	if cleaned.Nrow() != df.Nrow() {
		t.Errorf("row count changed from %d to %d with nothing flagged", df.Nrow(), cleaned.Nrow())
	}
}
