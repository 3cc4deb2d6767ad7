package tabular

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-xlsform/pkg/form"
)

// The three-sheet tabular model is the stable interchange format between the
// authoring surface and the compiler. Column names and tokens are part of the
// wire contract and never change.

// YesToken is the literal boolean-ish columns (required, read_only) carry
// when set; anything else means unset.
const YesToken = "yes"

// RequiredToken is the token the required column carries when a field is
// mandatory; part of the frozen wire contract.
const RequiredToken = YesToken

// Canonical sheet names, matched case-insensitively on ingestion.
const (
	SheetSurvey   = "survey"
	SheetChoices  = "choices"
	SheetSettings = "settings"
)

// SurveyRow is one typed survey-sheet record. All cells are strings on the
// wire; empty means absent.
type SurveyRow struct {
	Type       string
	Name       string
	Label      string
	Hint       string
	Required   string
	Constraint string
	Relevant   string
	Calculate  string
	Default    string
	Appearance string
	// ReadOnly is an optional extension column carrying the same "yes" token
	// as Required.
	ReadOnly string
}

// ChoiceRow is one typed choices-sheet record.
type ChoiceRow struct {
	ListName string
	Name     string
	Label    string
}

// Settings is the single settings-sheet record.
type Settings struct {
	FormTitle       string
	FormID          string
	Version         string
	DefaultLanguage string
}

// Sheets is the parsed three-sheet model.
type Sheets struct {
	Survey   []SurveyRow
	Choices  []ChoiceRow
	Settings Settings
}

// RawSheet is an untyped sheet as read from a workbook: a header row plus
// data rows of string cells.
type RawSheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// RawWorkbook is a collection of raw sheets.
type RawWorkbook struct {
	Sheets []RawSheet
}

// Sheet finds a sheet by name, case-insensitively.
func (wb RawWorkbook) Sheet(name string) (RawSheet, bool) {
	for _, s := range wb.Sheets {
		if strings.EqualFold(strings.TrimSpace(s.Name), name) {
			return s, true
		}
	}
	return RawSheet{}, false
}

var surveyHeader = []string{
	"type", "name", "label", "hint", "required",
	"constraint", "relevant", "calculate", "default", "appearance",
}

var choicesHeader = []string{"list_name", "name", "label"}

var settingsHeader = []string{"form_title", "form_id", "version", "default_language"}

// Raw lowers the typed model back into raw sheets with the contract column
// order. The optional read_only column is appended only when some row uses
// it, keeping the default layout byte-stable.
func (s Sheets) Raw() RawWorkbook {
	readonly := false
	for _, row := range s.Survey {
		if row.ReadOnly != "" {
			readonly = true
			break
		}
	}

	header := append([]string(nil), surveyHeader...)
	if readonly {
		header = append(header, "read_only")
	}
	surveyRows := make([][]string, 0, len(s.Survey))
	for _, row := range s.Survey {
		cells := []string{
			row.Type, row.Name, row.Label, row.Hint, row.Required,
			row.Constraint, row.Relevant, row.Calculate, row.Default, row.Appearance,
		}
		if readonly {
			cells = append(cells, row.ReadOnly)
		}
		surveyRows = append(surveyRows, cells)
	}

	choiceRows := make([][]string, 0, len(s.Choices))
	for _, row := range s.Choices {
		choiceRows = append(choiceRows, []string{row.ListName, row.Name, row.Label})
	}

	return RawWorkbook{Sheets: []RawSheet{
		{Name: SheetSurvey, Header: header, Rows: surveyRows},
		{Name: SheetChoices, Header: append([]string(nil), choicesHeader...), Rows: choiceRows},
		{
			Name:   SheetSettings,
			Header: append([]string(nil), settingsHeader...),
			Rows: [][]string{{
				s.Settings.FormTitle, s.Settings.FormID,
				s.Settings.Version, s.Settings.DefaultLanguage,
			}},
		},
	}}
}

// Registry builds a choice registry from choice rows, preserving first-seen
// list order and deduplicating identical (value, label) pairs.
func Registry(rows []ChoiceRow) *form.ChoiceRegistry {
	reg := form.NewChoiceRegistry()
	for _, row := range rows {
		reg.Register(row.ListName, []form.ChoiceOption{{Value: row.Name, Label: row.Label}})
	}
	return reg
}

// RowError locates a structural problem inside a raw sheet. Row is the
// 1-based data row index (the header is row 0).
type RowError struct {
	Sheet   string
	Row     int
	Message string
}

func (e RowError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("tabular: sheet %q row %d: %s", e.Sheet, e.Row, e.Message)
	}
	return fmt.Sprintf("tabular: sheet %q: %s", e.Sheet, e.Message)
}

// ParseError aggregates every structural error found in one workbook.
type ParseError struct {
	Rows []RowError
}

func (e *ParseError) Error() string {
	switch len(e.Rows) {
	case 0:
		return "tabular: invalid workbook"
	case 1:
		return e.Rows[0].Error()
	default:
		msgs := make([]string, len(e.Rows))
		for i, r := range e.Rows {
			msgs[i] = r.Error()
		}
		return strings.Join(msgs, "; ")
	}
}
