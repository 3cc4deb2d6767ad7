package tabular_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-xlsform/pkg/tabular"
)

func sampleWorkbook() tabular.RawWorkbook {
	return tabular.RawWorkbook{Sheets: []tabular.RawSheet{
		{
			Name:   "Survey",
			Header: []string{"type", "name", "label", "required", "constraint"},
			Rows: [][]string{
				{"integer", "age", "Your age", "yes", ". > 0"},
				{"select_one gender", "gender", "Gender", "", ""},
			},
		},
		{
			Name:   "CHOICES",
			Header: []string{"list_name", "name", "label"},
			Rows: [][]string{
				{"gender", "m", "Male"},
				{"gender", "f", "Female"},
			},
		},
		{
			Name:   "settings",
			Header: []string{"form_title", "form_id", "version", "default_language"},
			Rows:   [][]string{{"Demo", "demo", "3", "English (en)"}},
		},
	}}
}

func TestParseMatchesSheetsCaseInsensitively(t *testing.T) {
	sheets, err := tabular.Parse(sampleWorkbook())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []tabular.SurveyRow{
		{Type: "integer", Name: "age", Label: "Your age", Required: "yes", Constraint: ". > 0"},
		{Type: "select_one gender", Name: "gender", Label: "Gender"},
	}
	if diff := cmp.Diff(want, sheets.Survey); diff != "" {
		t.Fatalf("survey mismatch (-want +got):\n%s", diff)
	}
	if len(sheets.Choices) != 2 {
		t.Fatalf("choices = %#v", sheets.Choices)
	}
	if sheets.Settings.FormID != "demo" || sheets.Settings.DefaultLanguage != "English (en)" {
		t.Fatalf("settings = %#v", sheets.Settings)
	}
}

func TestParseMissingSurveySheet(t *testing.T) {
	wb := tabular.RawWorkbook{Sheets: []tabular.RawSheet{
		{Name: "choices", Header: []string{"list_name", "name", "label"}},
	}}
	_, err := tabular.Parse(wb)
	if err == nil || !strings.Contains(err.Error(), "survey") {
		t.Fatalf("error = %v, want mention of survey", err)
	}
}

func TestParseEmptySurveySheet(t *testing.T) {
	wb := tabular.RawWorkbook{Sheets: []tabular.RawSheet{
		{Name: "survey", Header: []string{"type", "name"}},
	}}
	_, err := tabular.Parse(wb)
	if err == nil || !strings.Contains(err.Error(), "survey") {
		t.Fatalf("error = %v, want mention of survey", err)
	}
}

func TestParseCollectsRowErrors(t *testing.T) {
	wb := tabular.RawWorkbook{Sheets: []tabular.RawSheet{
		{
			Name:   "survey",
			Header: []string{"type", "name"},
			Rows: [][]string{
				{"", "age"},
				{"text", ""},
				{"text", "ok"},
			},
		},
	}}
	_, err := tabular.Parse(wb)
	var parseErr *tabular.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if len(parseErr.Rows) != 2 {
		t.Fatalf("problems = %#v", parseErr.Rows)
	}
	if parseErr.Rows[0].Message != "missing type" || parseErr.Rows[1].Message != "missing name" {
		t.Fatalf("problems = %#v", parseErr.Rows)
	}
}

func TestParseRejectsDuplicateNames(t *testing.T) {
	wb := tabular.RawWorkbook{Sheets: []tabular.RawSheet{
		{
			Name:   "survey",
			Header: []string{"type", "name"},
			Rows: [][]string{
				{"text", "age"},
				{"integer", "age"},
			},
		},
	}}
	_, err := tabular.Parse(wb)
	var parseErr *tabular.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if len(parseErr.Rows) != 1 {
		t.Fatalf("problems = %#v", parseErr.Rows)
	}
	problem := parseErr.Rows[0]
	if problem.Row != 2 || !strings.Contains(problem.Message, `duplicate name "age"`) {
		t.Fatalf("problem = %#v", problem)
	}
}

func TestParseNormalizesBlankAndNaNCells(t *testing.T) {
	wb := tabular.RawWorkbook{Sheets: []tabular.RawSheet{
		{
			Name:   "survey",
			Header: []string{"type", "name", "label", "hint"},
			Rows: [][]string{
				{"text", "remarks", "NaN", "  "},
				{"", "", "", ""},
			},
		},
	}}
	sheets, err := tabular.Parse(wb)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sheets.Survey) != 1 {
		t.Fatalf("blank rows should be skipped, got %#v", sheets.Survey)
	}
	row := sheets.Survey[0]
	if row.Label != "" || row.Hint != "" {
		t.Fatalf("cells not normalised: %#v", row)
	}
}

func TestParseToleratesMissingOptionalSheets(t *testing.T) {
	wb := tabular.RawWorkbook{Sheets: []tabular.RawSheet{
		{Name: "survey", Header: []string{"type", "name"}, Rows: [][]string{{"text", "remarks"}}},
	}}
	sheets, err := tabular.Parse(wb)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sheets.Choices) != 0 {
		t.Fatalf("choices = %#v", sheets.Choices)
	}
	if sheets.Settings != (tabular.Settings{}) {
		t.Fatalf("settings = %#v", sheets.Settings)
	}
}

func TestValidateLanguage(t *testing.T) {
	for _, ok := range []string{"", "English (en)", "en", "pt-BR", "French"} {
		if err := tabular.ValidateLanguage(ok); err != nil {
			t.Fatalf("ValidateLanguage(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"English (not a tag!)", "12345"} {
		if err := tabular.ValidateLanguage(bad); err == nil {
			t.Fatalf("ValidateLanguage(%q) should fail", bad)
		}
	}
}

func TestRegistryFromChoiceRows(t *testing.T) {
	reg := tabular.Registry([]tabular.ChoiceRow{
		{ListName: "yn", Name: "y", Label: "Yes"},
		{ListName: "yn", Name: "n", Label: "No"},
		{ListName: "yn", Name: "y", Label: "Yes"},
	})
	options, err := reg.Resolve("yn")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("duplicate option not collapsed: %#v", options)
	}
}
