// Package workbook reads product rows out of an Excel workbook. Field
// names come from a configurable header row; the sheet name itself is
// meaningful to callers (it names the attribute group of every row).
package workbook

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row maps a header field name to the normalized cell value. Absent
// cells are present as empty strings.
type Row map[string]string

// Sheet is one worksheet's data region, in workbook order.
type Sheet struct {
	Name string
	Rows []Row
}

// StructuralError reports a sheet whose layout cannot be read, e.g. the
// header row is past the last populated row.
type StructuralError struct {
	Sheet  string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("sheet '%s': %s", e.Sheet, e.Reason)
}

var spaceRunRe = regexp.MustCompile(`\s{2,}`)

// normalizeCell trims a cell value and collapses interior whitespace
// runs to a single space.
func normalizeCell(v string) string {
	return spaceRunRe.ReplaceAllString(strings.TrimSpace(v), " ")
}

// Load opens the workbook at path and extracts every sheet's data region.
// headerRow and dataStartRow are 1-based workbook row indexes.
func Load(path string, headerRow, dataStartRow int) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		sheet, err := loadSheet(f, name, headerRow, dataStartRow)
		if err != nil {
			// A sheet whose header cannot be read is skipped, not fatal.
			var serr *StructuralError
			if errors.As(err, &serr) {
				log.Printf("WARNING: %v", serr)
				continue
			}
			return nil, err
		}
		sheets = append(sheets, sheet)
	}

	return sheets, nil
}

func loadSheet(f *excelize.File, name string, headerRow, dataStartRow int) (Sheet, error) {
	log.Printf("Processing sheet '%s'", name)

	rows, err := f.GetRows(name)
	if err != nil {
		return Sheet{}, fmt.Errorf("failed to read sheet '%s': %w", name, err)
	}

	names, err := fieldNames(name, rows, headerRow)
	if err != nil {
		return Sheet{}, err
	}

	if len(rows) < dataStartRow {
		log.Printf("WARNING: sheet '%s' contains no data rows", name)
	}

	sheet := Sheet{Name: name}
	for i := dataStartRow - 1; i < len(rows); i++ {
		row := make(Row, len(names))
		for col, field := range names {
			var v string
			if col < len(rows[i]) {
				v = rows[i][col]
			}
			row[field] = normalizeCell(v)
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	log.Printf("%d rows loaded from sheet '%s'", len(sheet.Rows), name)

	return sheet, nil
}

// fieldNames reads the header row left to right, stopping at the first
// blank cell. Field names must therefore be contiguous from column 1.
func fieldNames(sheet string, rows [][]string, headerRow int) ([]string, error) {
	if len(rows) < headerRow {
		return nil, &StructuralError{Sheet: sheet, Reason: "contains too little data"}
	}

	var names []string
	for _, cell := range rows[headerRow-1] {
		v := normalizeCell(cell)
		if v == "" {
			break
		}
		names = append(names, v)
	}

	if len(names) == 0 {
		return nil, &StructuralError{Sheet: sheet, Reason: "header row is empty"}
	}

	return names, nil
}
