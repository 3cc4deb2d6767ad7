package tabular

import (
	"fmt"

	"github.com/goliatone/go-xlsform/pkg/fieldtype"
	"github.com/goliatone/go-xlsform/pkg/form"
)

// Emit serialises a form document into the three-sheet model. The document is
// validated first and its defaults are filled in place, so repeated calls on
// the same document produce byte-identical sheets.
func Emit(doc *form.Document) (Sheets, error) {
	if doc == nil {
		return Sheets{}, fmt.Errorf("tabular: document is required")
	}
	if err := doc.Validate(); err != nil {
		return Sheets{}, fmt.Errorf("tabular: emit: %w", err)
	}
	doc.EnsureDefaults()
	registry := doc.Registry()

	sheets := Sheets{
		Settings: Settings{
			FormTitle:       doc.Title,
			FormID:          doc.FormID,
			Version:         doc.Version,
			DefaultLanguage: doc.DefaultLanguage,
		},
	}

	emitted := make(map[string]struct{})
	for _, field := range doc.Fields {
		row := SurveyRow{
			Type:       string(field.Type),
			Name:       field.Name,
			Label:      field.DisplayLabel(),
			Hint:       field.Hint,
			Constraint: field.Constraint,
			Relevant:   field.Relevant,
			Calculate:  field.Calculate,
			Default:    field.Default,
			Appearance: field.Appearance,
		}
		if field.Required {
			row.Required = RequiredToken
		}
		if field.Readonly {
			row.ReadOnly = YesToken
		}

		if fieldtype.IsChoice(field.Type) {
			listName := field.ChoiceListRef
			if listName == "" {
				listName = field.Name + "_choices"
				registry.Register(listName, field.InlineOptions)
			}
			row.Type = string(field.Type) + " " + listName

			if _, done := emitted[listName]; !done {
				emitted[listName] = struct{}{}
				if options, err := registry.Resolve(listName); err == nil {
					for _, opt := range options {
						sheets.Choices = append(sheets.Choices, ChoiceRow{
							ListName: listName,
							Name:     opt.Value,
							Label:    opt.Label,
						})
					}
				}
				// Unresolvable references keep their bind at compile time
				// and surface as a warning there, so emission carries on.
			}
		}

		sheets.Survey = append(sheets.Survey, row)
	}

	return sheets, nil
}
