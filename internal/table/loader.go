package table

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Loader reads one sheet of a tabular file into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(path, sheet, labelColumn string) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupportedFormat indicates a file extension no loader handles.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// SourceLoadError reports a table that could not be loaded.
type SourceLoadError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *SourceLoadError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("load %s (sheet %s): %v", filepath.Base(e.Path), e.Sheet, e.Err)
	}
	return fmt.Sprintf("load %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *SourceLoadError) Unwrap() error { return e.Err }

// Load selects a loader by filename and reads the requested sheet.
// Every failure is returned as a *SourceLoadError.
func Load(path, sheet, labelColumn string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &SourceLoadError{Path: path, Sheet: sheet, Err: err}
	}
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		t, err := l.Load(path, sheet, labelColumn)
		if err != nil {
			return nil, &SourceLoadError{Path: path, Sheet: sheet, Err: err}
		}
		t.Source = Source{Path: path, Sheet: sheet}
		return t, nil
	}
	return nil, &SourceLoadError{Path: path, Sheet: sheet, Err: ErrUnsupportedFormat}
}

// workbookExts are tried in order when a configured workbook is missing.
var workbookExts = []string{".xls", ".xlsx", ".xlsm"}

// Locate returns path when it exists, otherwise the first existing sibling
// with the same base name and another workbook extension. DHS exports ship
// as .xls and are often re-saved as .xlsx.
func Locate(path string) (string, bool) {
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	ext := filepath.Ext(path)
	if !slices.Contains(workbookExts, strings.ToLower(ext)) {
		return path, false
	}
	stem := strings.TrimSuffix(path, ext)
	for _, e := range workbookExts {
		if strings.EqualFold(e, ext) {
			continue
		}
		if _, err := os.Stat(stem + e); err == nil {
			return stem + e, true
		}
	}
	return path, false
}

func init() {
	Register(xlsLoader{})
	Register(xlsxLoader{})
	Register(csvLoader{})
}
