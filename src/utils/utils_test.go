package utils

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func TestContains(t *testing.T) {
	if !Contains([]string{"year", "popularity"}, "year") {
		t.Error("Contains = false, want true")
	}
	if Contains([]int{1, 2}, 3) {
		t.Error("Contains = true, want false")
	}
}

func TestHasColumn(t *testing.T) {
	df := dataframe.New(series.New([]int{2000}, series.Int, "year"))
	if !HasColumn(df, "year") {
		t.Error("HasColumn(year) = false")
	}
	if HasColumn(df, "genre") {
		t.Error("HasColumn(genre) = true")
	}
}
