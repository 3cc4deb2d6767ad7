package workbook

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-xlsform/pkg/tabular"
)

// ReadCSV reads one logical sheet from CSV data. The first record is the
// header. Ragged rows are tolerated; the tabular parser pads missing cells.
func ReadCSV(r io.Reader, sheetName string) (tabular.RawSheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return tabular.RawSheet{}, fmt.Errorf("workbook: read csv sheet %q: %w", sheetName, err)
	}
	sheet := tabular.RawSheet{Name: sheetName}
	if len(records) > 0 {
		sheet.Header = records[0]
		sheet.Rows = records[1:]
	}
	return sheet, nil
}

// ReadCSVDir assembles a workbook from a directory holding survey.csv and
// optionally choices.csv and settings.csv, matched case-insensitively.
func ReadCSVDir(dir string) (tabular.RawWorkbook, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return tabular.RawWorkbook{}, fmt.Errorf("workbook: read dir %s: %w", dir, err)
	}

	var wb tabular.RawWorkbook
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		switch base {
		case tabular.SheetSurvey, tabular.SheetChoices, tabular.SheetSettings:
		default:
			continue
		}

		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return tabular.RawWorkbook{}, fmt.Errorf("workbook: open %s: %w", name, err)
		}
		sheet, err := ReadCSV(f, base)
		f.Close()
		if err != nil {
			return tabular.RawWorkbook{}, err
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}
