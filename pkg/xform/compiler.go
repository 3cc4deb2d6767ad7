package xform

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-xlsform/pkg/fieldtype"
	"github.com/goliatone/go-xlsform/pkg/form"
	"github.com/goliatone/go-xlsform/pkg/tabular"
)

// Namespace declarations required by the form runtime dialect.
const (
	NamespaceXForms   = "http://www.w3.org/2002/xforms"
	NamespaceXHTML    = "http://www.w3.org/1999/xhtml"
	NamespaceEvents   = "http://www.w3.org/2001/xml-events"
	NamespaceSchema   = "http://www.w3.org/2001/XMLSchema"
	NamespaceJavaRosa = "http://openrosa.org/javarosa"
)

// Warning codes attached to non-fatal compilation findings.
const (
	WarnUnknownType       = "unknown-type"
	WarnChoiceListMissing = "choice-list-missing"
)

// Warning is a non-fatal finding tied to a field.
type Warning struct {
	Code    string
	Field   string
	Message string
}

// Meta is the form metadata the compiler settled on after applying the
// fallback chain for identifiers and titles.
type Meta struct {
	FormID          string
	Title           string
	Version         string
	DefaultLanguage string
}

// Compiled carries the built tree plus everything the pipeline reports.
type Compiled struct {
	Root     *Element
	Meta     Meta
	Warnings []Warning
}

// fallbackFormID anchors bind nodesets when the settings sheet provides
// neither an id nor a title. A fixed value keeps compilation of identical
// input byte-identical.
const fallbackFormID = "data"

// Compile turns parsed tabular sheets plus a choice registry into an XForm
// tree. Pass a nil registry to build one from the choices sheet. Row order is
// preserved end to end: the nth survey row yields the nth instance child, the
// nth bind, and (when the row has one) the nth body control. Reordering would
// silently change the meaning of authored skip-logic expressions.
func Compile(sheets tabular.Sheets, registry *form.ChoiceRegistry) (Compiled, error) {
	if len(sheets.Survey) == 0 {
		return Compiled{}, fmt.Errorf("xform: survey has no rows")
	}
	if registry == nil {
		registry = tabular.Registry(sheets.Choices)
	}

	meta := resolveMeta(sheets.Settings)

	var badNames, dupNames []string
	seen := make(map[string]struct{}, len(sheets.Survey))
	for _, row := range sheets.Survey {
		if !form.ValidXMLName(row.Name) {
			badNames = append(badNames, row.Name)
		}
		if _, dup := seen[row.Name]; dup {
			dupNames = append(dupNames, row.Name)
		}
		seen[row.Name] = struct{}{}
	}
	if len(badNames) > 0 {
		return Compiled{}, fmt.Errorf("xform: field names are not legal XML element names: %s",
			strings.Join(badNames, ", "))
	}
	if len(dupNames) > 0 {
		return Compiled{}, fmt.Errorf("xform: duplicate field names: %s", strings.Join(dupNames, ", "))
	}

	var warnings []Warning

	instanceRoot := NewElement(meta.FormID).
		WithAttr("id", meta.FormID).
		WithAttr("version", meta.Version)

	model := NewElement("model", NewElement("instance", instanceRoot))
	body := NewElement("h:body")

	for _, row := range sheets.Survey {
		parsed := fieldtype.Parse(row.Type)
		if !parsed.Known {
			warnings = append(warnings, Warning{
				Code:    WarnUnknownType,
				Field:   row.Name,
				Message: fmt.Sprintf("unrecognised type %q compiled as %q", row.Type, fieldtype.RuntimeTypeFallback),
			})
		}

		node := NewElement(row.Name)
		if row.Default != "" {
			node.Append(Text(row.Default))
		}
		instanceRoot.Append(node)

		model.Append(bindFor(meta.FormID, row, parsed))

		control, warning := controlFor(meta.FormID, row, parsed, registry)
		if warning != nil {
			warnings = append(warnings, *warning)
		}
		if control != nil {
			body.Append(control)
		}
	}

	root := NewElement("h:html").
		WithAttr("xmlns", NamespaceXForms).
		WithAttr("xmlns:h", NamespaceXHTML).
		WithAttr("xmlns:ev", NamespaceEvents).
		WithAttr("xmlns:xsd", NamespaceSchema).
		WithAttr("xmlns:jr", NamespaceJavaRosa).
		Append(
			NewElement("h:head",
				NewElement("h:title", Text(meta.Title)),
				model,
			),
			body,
		)

	return Compiled{Root: root, Meta: meta, Warnings: warnings}, nil
}

func resolveMeta(settings tabular.Settings) Meta {
	formID := strings.TrimSpace(settings.FormID)
	if formID == "" {
		formID = form.Slug(settings.FormTitle)
	}
	if formID == "" || !form.ValidXMLName(formID) {
		formID = fallbackFormID
	}

	title := strings.TrimSpace(settings.FormTitle)
	if title == "" {
		title = formID
	}

	version := strings.TrimSpace(settings.Version)
	if version == "" {
		version = form.DefaultVersion
	}

	return Meta{
		FormID:          formID,
		Title:           title,
		Version:         version,
		DefaultLanguage: settings.DefaultLanguage,
	}
}

// bindFor emits the bind element for one row. Optional attributes follow the
// omission rule: present exactly when the source column is non-empty, never
// emitted as an empty string.
func bindFor(formID string, row tabular.SurveyRow, parsed fieldtype.Parsed) *Element {
	bind := NewElement("bind").
		WithAttr("nodeset", nodePath(formID, row.Name)).
		WithAttr("type", fieldtype.RuntimeType(parsed.Type))

	if row.Required == tabular.RequiredToken {
		bind.WithAttr("required", "true()")
	}
	if row.ReadOnly == tabular.YesToken {
		bind.WithAttr("readonly", "true()")
	}
	if row.Relevant != "" {
		bind.WithAttr("relevant", row.Relevant)
	}
	if row.Constraint != "" {
		bind.WithAttr("constraint", row.Constraint)
	}
	if row.Calculate != "" {
		bind.WithAttr("calculate", row.Calculate)
	}
	return bind
}

// controlFor emits the body control for one row, or nil for computed rows and
// for choice rows whose list cannot be resolved (the bind survives either
// way; the latter case also returns a warning). Label and hint text is copied
// verbatim; the serializer escapes it.
func controlFor(formID string, row tabular.SurveyRow, parsed fieldtype.Parsed, registry *form.ChoiceRegistry) (*Element, *Warning) {
	if fieldtype.IsComputed(parsed.Type) {
		return nil, nil
	}

	label := row.Label
	if label == "" {
		label = row.Name
	}

	var control *Element
	switch {
	case fieldtype.IsChoice(parsed.Type):
		options, err := registry.Resolve(parsed.ListName)
		if err != nil {
			return nil, &Warning{
				Code:    WarnChoiceListMissing,
				Field:   row.Name,
				Message: fmt.Sprintf("choice list %q not found; control dropped, bind kept", parsed.ListName),
			}
		}
		name := "select1"
		if parsed.Type == fieldtype.SelectMultiple {
			name = "select"
		}
		control = NewElement(name)
		appendControlAttrs(control, formID, row)
		control.Append(NewElement("label", Text(label)))
		appendHint(control, row)
		for _, opt := range options {
			control.Append(NewElement("item",
				NewElement("label", Text(opt.Label)),
				NewElement("value", Text(opt.Value)),
			))
		}
	case fieldtype.IsDisplayOnly(parsed.Type):
		control = NewElement("output")
		appendControlAttrs(control, formID, row)
		control.Append(NewElement("label", Text(label)))
	default:
		control = NewElement("input")
		appendControlAttrs(control, formID, row)
		control.Append(NewElement("label", Text(label)))
		appendHint(control, row)
	}
	return control, nil
}

func appendControlAttrs(control *Element, formID string, row tabular.SurveyRow) {
	control.WithAttr("ref", nodePath(formID, row.Name))
	if row.Appearance != "" {
		control.WithAttr("appearance", row.Appearance)
	}
}

func appendHint(control *Element, row tabular.SurveyRow) {
	if row.Hint != "" {
		control.Append(NewElement("hint", Text(row.Hint)))
	}
}

func nodePath(formID, name string) string {
	return "/" + formID + "/" + name
}
