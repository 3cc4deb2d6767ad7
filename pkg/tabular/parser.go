package tabular

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Parse reads a raw workbook into the typed three-sheet model. Sheet names
// match case-insensitively. A missing or empty survey sheet is fatal, as is
// any survey row without both type and name; missing choices or settings
// sheets are treated as empty. All structural problems are collected into a
// single ParseError rather than failing on the first.
func Parse(wb RawWorkbook) (Sheets, error) {
	var problems []RowError

	survey, ok := wb.Sheet(SheetSurvey)
	if !ok {
		return Sheets{}, &ParseError{Rows: []RowError{{
			Sheet:   SheetSurvey,
			Message: "survey sheet is missing",
		}}}
	}

	var sheets Sheets
	surveyCols := columnIndex(survey.Header)
	seenNames := make(map[string]struct{}, len(survey.Rows))
	for i, cells := range survey.Rows {
		cell := cellReader(surveyCols, cells)
		row := SurveyRow{
			Type:       cell("type"),
			Name:       cell("name"),
			Label:      cell("label"),
			Hint:       cell("hint"),
			Required:   cell("required"),
			Constraint: cell("constraint"),
			Relevant:   cell("relevant"),
			Calculate:  cell("calculate"),
			Default:    cell("default"),
			Appearance: cell("appearance"),
			ReadOnly:   cell("read_only"),
		}
		if isBlankRow(cells) {
			continue
		}
		if row.Type == "" {
			problems = append(problems, RowError{Sheet: SheetSurvey, Row: i + 1, Message: "missing type"})
			continue
		}
		if row.Name == "" {
			problems = append(problems, RowError{Sheet: SheetSurvey, Row: i + 1, Message: "missing name"})
			continue
		}
		if _, dup := seenNames[row.Name]; dup {
			problems = append(problems, RowError{
				Sheet:   SheetSurvey,
				Row:     i + 1,
				Message: fmt.Sprintf("duplicate name %q", row.Name),
			})
			continue
		}
		seenNames[row.Name] = struct{}{}
		sheets.Survey = append(sheets.Survey, row)
	}

	if choices, ok := wb.Sheet(SheetChoices); ok {
		choiceCols := columnIndex(choices.Header)
		for _, cells := range choices.Rows {
			cell := cellReader(choiceCols, cells)
			row := ChoiceRow{
				ListName: cell("list_name"),
				Name:     cell("name"),
				Label:    cell("label"),
			}
			if row.ListName == "" || row.Name == "" {
				continue
			}
			sheets.Choices = append(sheets.Choices, row)
		}
	}

	if settings, ok := wb.Sheet(SheetSettings); ok && len(settings.Rows) > 0 {
		settingsCols := columnIndex(settings.Header)
		cell := cellReader(settingsCols, settings.Rows[0])
		sheets.Settings = Settings{
			FormTitle:       cell("form_title"),
			FormID:          cell("form_id"),
			Version:         cell("version"),
			DefaultLanguage: cell("default_language"),
		}
	}

	if len(sheets.Survey) == 0 && len(problems) == 0 {
		problems = append(problems, RowError{Sheet: SheetSurvey, Message: "survey sheet has no rows"})
	}
	if len(problems) > 0 {
		return Sheets{}, &ParseError{Rows: problems}
	}
	return sheets, nil
}

// ValidateLanguage checks a settings default_language value. Values shaped
// like "English (en)" have the parenthesised tag checked; bare values are
// accepted when they parse as a BCP-47 tag or plain language word.
func ValidateLanguage(value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	if open := strings.LastIndex(v, "("); open >= 0 && strings.HasSuffix(v, ")") {
		tag := v[open+1 : len(v)-1]
		if _, err := language.Parse(tag); err != nil {
			return fmt.Errorf("tabular: default_language %q: tag %q: %w", value, tag, err)
		}
		return nil
	}
	if _, err := language.Parse(v); err == nil {
		return nil
	}
	// Plain names like "English" are common in hand-authored sheets.
	for _, r := range v {
		if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ ", r) {
			return fmt.Errorf("tabular: default_language %q is not a recognised language", value)
		}
	}
	return nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// cellReader returns a lookup over one row that normalises absent, blank, and
// NaN cells (spreadsheet tools serialise empty numeric cells that way) to "".
func cellReader(cols map[string]int, cells []string) func(string) string {
	return func(column string) string {
		i, ok := cols[column]
		if !ok || i >= len(cells) {
			return ""
		}
		return normalizeCell(cells[i])
	}
}

func normalizeCell(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "nan", "#n/a", "n/a":
		return ""
	}
	return v
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if normalizeCell(c) != "" {
			return false
		}
	}
	return true
}
