package dataset

import "fmt"

// DatasetFileNotFoundError reports that no candidate dataset file exists
// under the searched path, or that an explicit load path does not exist.
type DatasetFileNotFoundError struct {
	Path string
}

func (e *DatasetFileNotFoundError) Error() string {
	return fmt.Sprintf("no dataset file found under %s", e.Path)
}

// DatasetNotLoadedError reports that an operation requiring an active
// dataset was invoked while the store is empty.
type DatasetNotLoadedError struct{}

func (e *DatasetNotLoadedError) Error() string {
	return "no dataset loaded yet"
}

// ColumnNotFoundError reports a required column absent from the dataset.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in dataset", e.Column)
}

// ValidationError reports an attempt to install a malformed dataset.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid dataset: " + e.Reason
}

// ParseError reports that a located file is not a well-formed table.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s is not a well-formed dataset: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
