package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

// Load reads a sheet selected by name (case-insensitive). An empty sheet name
// selects the first sheet. The first row is the header.
func (xlsxLoader) Load(path, sheet, labelColumn string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	target, err := pickSheet(f.GetSheetList(), sheet, path)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(target)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", target, err)
	}
	return fromGrid(target, rows, labelColumn)
}

// pickSheet selects a sheet by name (case-insensitive), or the first sheet
// when name is empty.
func pickSheet(sheets []string, name, path string) (string, error) {
	if len(sheets) == 0 {
		return "", errors.New("workbook has no sheets")
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet '%s' not found in workbook '%s'; available sheets: %s",
		name, filepath.Base(path), strings.Join(sheets, ", "))
}

// fromGrid turns a sheet grid whose first row is the header into a table.
func fromGrid(name string, rows [][]string, labelColumn string) (*Table, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", name)
	}
	return FromRecords(name, rows[0], rows[1:], labelColumn), nil
}

// SheetNames lists the sheets of an xlsx or xls workbook in workbook order.
func SheetNames(path string) ([]string, error) {
	if (xlsLoader{}).CanLoad(path) {
		return xlsSheetNames(path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}
