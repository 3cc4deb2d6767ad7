// Package workbook reads and writes the spreadsheet containers the tabular
// model travels in. Only the raw sheet shape is produced here; interpreting
// rows is pkg/tabular's job.
package workbook

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-xlsform/pkg/tabular"
)

// ReadXLSX reads every sheet of an xlsx workbook into raw sheets. The first
// row of each sheet is its header; completely empty sheets are kept with an
// empty header so the parser can report them precisely.
func ReadXLSX(r io.Reader) (tabular.RawWorkbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return tabular.RawWorkbook{}, fmt.Errorf("workbook: open xlsx: %w", err)
	}
	defer f.Close()

	var wb tabular.RawWorkbook
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return tabular.RawWorkbook{}, fmt.Errorf("workbook: read sheet %q: %w", name, err)
		}
		sheet := tabular.RawSheet{Name: name}
		if len(rows) > 0 {
			sheet.Header = rows[0]
			sheet.Rows = rows[1:]
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

// ReadXLSXFile reads an xlsx workbook from disk.
func ReadXLSXFile(path string) (tabular.RawWorkbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return tabular.RawWorkbook{}, fmt.Errorf("workbook: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadXLSX(f)
}

// WriteXLSX lowers raw sheets into an xlsx workbook, preserving sheet and row
// order.
func WriteXLSX(wb tabular.RawWorkbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("workbook: name sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("workbook: add sheet %q: %w", sheet.Name, err)
		}

		if err := writeRow(f, sheet.Name, 1, sheet.Header); err != nil {
			return nil, err
		}
		for j, row := range sheet.Rows {
			if err := writeRow(f, sheet.Name, j+2, row); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("workbook: serialise xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	if len(cells) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("workbook: row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("workbook: write sheet %q row %d: %w", sheet, rowNum, err)
	}
	return nil
}
