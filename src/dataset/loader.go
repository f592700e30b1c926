package dataset

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// nanTokens are the raw values treated as missing during load.
var nanTokens = []string{"", "NA", "N/A", "NaN", "null"}

// Load parses a tabular file into a DataFrame with per-column type
// detection. CSV and TSV are read directly; .xlsx goes through the first
// worksheet. A missing path yields DatasetFileNotFoundError, malformed
// content a ParseError.
func Load(path string) (dataframe.DataFrame, error) {
	if _, err := os.Stat(path); err != nil {
		return dataframe.DataFrame{}, &DatasetFileNotFoundError{Path: path}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path)
	case ".tsv":
		return loadCSV(path, '\t')
	default:
		return loadCSV(path, ',')
	}
}

func loadCSV(path string, delim rune) (dataframe.DataFrame, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read dataset file: %w", err)
	}

	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		// Catalog exports from older tooling tend to be Windows-1252.
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nanTokens),
		dataframe.WithDelimiter(delim),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: df.Err}
	}
	return df, nil
}

func loadXLSX(path string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: err}
	}
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: fmt.Errorf("workbook has no sheets")}
	}

	sheet := xlFile.Sheets[0]
	if len(sheet.Rows) < 2 {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: fmt.Errorf("sheet has no data rows")}
	}

	// First row is the header; rows may be ragged, so pad to header width.
	width := len(sheet.Rows[0].Cells)
	records := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rec := make([]string, width)
		for i, cell := range row.Cells {
			if i < width {
				rec[i] = cell.Value
			}
		}
		records = append(records, rec)
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nanTokens),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: df.Err}
	}
	return df, nil
}
