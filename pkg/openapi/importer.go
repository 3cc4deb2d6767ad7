// Package openapi bootstraps a form document from an OpenAPI operation, so
// teams with an API contract can start a form from the request schema instead
// of authoring every field by hand.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-xlsform/pkg/fieldtype"
	"github.com/goliatone/go-xlsform/pkg/form"
)

// Option customises the importer.
type Option func(*Importer)

// WithBooleanChoices overrides the (value, label) pairs generated for boolean
// properties. The default is yes/no.
func WithBooleanChoices(options []form.ChoiceOption) Option {
	return func(i *Importer) {
		if len(options) > 0 {
			i.booleanChoices = options
		}
	}
}

// Importer converts OpenAPI operations into form documents.
type Importer struct {
	booleanChoices []form.ChoiceOption
}

// booleanListName is the shared list registered for boolean properties.
const booleanListName = "yes_no"

// NewImporter constructs an Importer applying any provided options.
func NewImporter(options ...Option) *Importer {
	i := &Importer{
		booleanChoices: []form.ChoiceOption{
			{Value: "yes", Label: "Yes"},
			{Value: "no", Label: "No"},
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i
}

// Import loads an OpenAPI document and turns the request body schema of the
// named operation into a form document. Properties are emitted in sorted name
// order since JSON object properties carry no order of their own.
func (i *Importer) Import(ctx context.Context, raw []byte, operationID string) (*form.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	if operationID == "" {
		return nil, errors.New("openapi: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return nil, fmt.Errorf("openapi: operation %q not found", operationID)
	}

	schema := requestSchema(operation)
	if schema == nil {
		return nil, fmt.Errorf("openapi: operation %q has no request schema", operationID)
	}

	doc := &form.Document{
		FormID: form.Slug(operationID),
		Title:  form.CleanText(strings.TrimSpace(operation.Summary)),
	}
	if doc.Title == "" {
		doc.Title = operationID
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, err := i.convertProperty(doc, name, ref.Value)
		if err != nil {
			return nil, err
		}
		if _, ok := required[name]; ok {
			field.Required = true
		}
		doc.Fields = append(doc.Fields, field)
	}

	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("openapi: operation %q request schema has no usable properties", operationID)
	}
	return doc, nil
}

func (i *Importer) convertProperty(doc *form.Document, name string, schema *openapi3.Schema) (form.Field, error) {
	if !form.ValidXMLName(name) {
		return form.Field{}, fmt.Errorf("openapi: property %q is not usable as a field name", name)
	}

	// API descriptions routinely carry HTML; strip it here so downstream
	// stages can treat labels and hints as plain text.
	field := form.Field{
		Name:  name,
		Label: form.CleanText(strings.TrimSpace(schema.Title)),
		Hint:  form.CleanText(strings.TrimSpace(schema.Description)),
	}

	if len(schema.Enum) > 0 {
		field.Type = fieldtype.SelectOne
		listName := name + "_choices"
		field.ChoiceListRef = listName
		doc.Registry().Register(listName, enumOptions(schema.Enum))
		return field, nil
	}

	switch {
	case schema.Type.Is(openapi3.TypeBoolean):
		field.Type = fieldtype.SelectOne
		field.ChoiceListRef = booleanListName
		doc.Registry().Register(booleanListName, i.booleanChoices)
	case schema.Type.Is(openapi3.TypeInteger):
		field.Type = fieldtype.Integer
	case schema.Type.Is(openapi3.TypeNumber):
		field.Type = fieldtype.Decimal
	case schema.Type.Is(openapi3.TypeString):
		field.Type = stringFieldType(schema.Format)
	default:
		// Arrays and nested objects do not flatten onto a flat survey; keep
		// the raw payload as text for a human to restructure.
		field.Type = fieldtype.Text
	}

	if schema.Default != nil {
		field.Default = fmt.Sprintf("%v", schema.Default)
	}
	return field, nil
}

func stringFieldType(format string) fieldtype.FieldType {
	switch format {
	case "date":
		return fieldtype.Date
	case "date-time":
		return fieldtype.DateTime
	case "time":
		return fieldtype.Time
	case "binary", "byte":
		return fieldtype.File
	default:
		return fieldtype.Text
	}
}

func enumOptions(values []any) []form.ChoiceOption {
	options := make([]form.ChoiceOption, 0, len(values))
	for _, v := range values {
		s := fmt.Sprintf("%v", v)
		options = append(options, form.ChoiceOption{Value: form.Slug(s), Label: s})
	}
	return options
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}
