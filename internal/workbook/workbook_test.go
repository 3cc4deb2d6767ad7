package workbook_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-xlsform/internal/workbook"
	"github.com/goliatone/go-xlsform/pkg/tabular"
)

func sampleSheets() tabular.RawWorkbook {
	return tabular.RawWorkbook{Sheets: []tabular.RawSheet{
		{
			Name:   "survey",
			Header: []string{"type", "name", "label"},
			Rows: [][]string{
				{"integer", "age", "Your age"},
				{"text", "remarks", "Remarks"},
			},
		},
		{
			Name:   "choices",
			Header: []string{"list_name", "name", "label"},
			Rows:   [][]string{{"yn", "y", "Yes"}},
		},
		{
			Name:   "settings",
			Header: []string{"form_title", "form_id", "version", "default_language"},
			Rows:   [][]string{{"Demo", "demo", "1.0", ""}},
		},
	}}
}

func TestXLSXRoundTrip(t *testing.T) {
	raw, err := workbook.WriteXLSX(sampleSheets())
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	wb, err := workbook.ReadXLSX(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	survey, ok := wb.Sheet("survey")
	if !ok {
		t.Fatalf("survey sheet missing: %#v", wb)
	}
	if diff := cmp.Diff([]string{"type", "name", "label"}, survey.Header); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if len(survey.Rows) != 2 || survey.Rows[0][1] != "age" {
		t.Fatalf("rows = %#v", survey.Rows)
	}

	sheets, err := tabular.Parse(wb)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sheets.Settings.FormID != "demo" {
		t.Fatalf("settings = %#v", sheets.Settings)
	}
}

func TestReadCSV(t *testing.T) {
	src := "type,name,label\ninteger,age,Your age\n"
	sheet, err := workbook.ReadCSV(strings.NewReader(src), "survey")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if sheet.Name != "survey" || len(sheet.Rows) != 1 {
		t.Fatalf("sheet = %#v", sheet)
	}
	if sheet.Rows[0][2] != "Your age" {
		t.Fatalf("rows = %#v", sheet.Rows)
	}
}

func TestReadCSVDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"Survey.csv":   "type,name\ntext,remarks\n",
		"choices.csv":  "list_name,name,label\nyn,y,Yes\n",
		"settings.csv": "form_title,form_id\nDemo,demo\n",
		"ignored.csv":  "a,b\n1,2\n",
		"notes.txt":    "not a sheet",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	wb, err := workbook.ReadCSVDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(wb.Sheets) != 3 {
		t.Fatalf("sheets = %#v", wb.Sheets)
	}
	if _, ok := wb.Sheet("survey"); !ok {
		t.Fatalf("survey sheet missing (case-insensitive filename)")
	}

	sheets, err := tabular.Parse(wb)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sheets.Survey) != 1 || sheets.Survey[0].Name != "remarks" {
		t.Fatalf("survey = %#v", sheets.Survey)
	}
}
