package dataset

import (
	"os"
	"path/filepath"
	"strings"
)

// tabularExts are the file extensions the locator recognizes as datasets.
var tabularExts = map[string]bool{
	".csv":  true,
	".tsv":  true,
	".xlsx": true,
}

// Locate searches root and its immediate subdirectories for a tabular file
// whose name contains keyword (case-insensitive). It returns the first
// match; directory entries are visited in lexical order so repeated calls
// are deterministic. Hidden directories are skipped.
func Locate(root, keyword string) (string, error) {
	kw := strings.ToLower(keyword)

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", &DatasetFileNotFoundError{Path: root}
	}

	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			if !strings.HasPrefix(entry.Name(), ".") {
				subdirs = append(subdirs, filepath.Join(root, entry.Name()))
			}
			continue
		}
		if matchesDataset(entry.Name(), kw) {
			return filepath.Join(root, entry.Name()), nil
		}
	}

	for _, dir := range subdirs {
		sub, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range sub {
			if !entry.IsDir() && matchesDataset(entry.Name(), kw) {
				return filepath.Join(dir, entry.Name()), nil
			}
		}
	}

	return "", &DatasetFileNotFoundError{Path: root}
}

func matchesDataset(name, keyword string) bool {
	lower := strings.ToLower(name)
	if !tabularExts[filepath.Ext(lower)] {
		return false
	}
	return keyword == "" || strings.Contains(lower, keyword)
}
