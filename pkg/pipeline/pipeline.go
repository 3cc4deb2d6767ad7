// Package pipeline orchestrates the compilation of a form into its XForm
// artifact: validate → (parse | emit) → compile → serialize. All failure
// paths are converted into a structured Result; nothing escapes the boundary,
// including panics from buggy inputs.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-xlsform/pkg/form"
	"github.com/goliatone/go-xlsform/pkg/tabular"
	"github.com/goliatone/go-xlsform/pkg/xform"
)

// Option customises the pipeline configuration.
type Option func(*Pipeline)

// WithChoiceRegistry supplies choice lists resolved out-of-band (shared
// option libraries, project-level lists). Lists from the input's own choices
// sheet are merged on top.
func WithChoiceRegistry(registry *form.ChoiceRegistry) Option {
	return func(p *Pipeline) {
		p.registry = registry
	}
}

// WithWarningHandler registers a callback invoked for every non-fatal
// warning as it is recorded, in addition to the warning appearing in the
// Result. Useful for wiring warnings into a caller's logger.
func WithWarningHandler(handler func(Issue)) Option {
	return func(p *Pipeline) {
		p.onWarning = handler
	}
}

// Pipeline compiles form documents or tabular input into XForm XML. A
// Pipeline holds no per-compilation state, so independent forms may be
// compiled concurrently by separate invocations.
type Pipeline struct {
	registry  *form.ChoiceRegistry
	onWarning func(Issue)
}

// New constructs a Pipeline applying any provided options.
func New(options ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Request describes one compilation input. Exactly one of Document, Sheets,
// or Workbook should be set; they are consulted in that order.
type Request struct {
	// Document is an authored in-memory form.
	Document *form.Document

	// Sheets is the already-parsed tabular model.
	Sheets *tabular.Sheets

	// Workbook is raw uploaded sheet data that still needs parsing.
	Workbook *tabular.RawWorkbook
}

// Compile runs the full pipeline and always returns a Result; it never
// returns an error and never panics past its own boundary.
func (p *Pipeline) Compile(ctx context.Context, req Request) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = failure(Issue{
				Severity: SeverityError,
				Code:     CodeInternal,
				Message:  fmt.Sprintf("pipeline: internal error: %v", r),
			})
		}
	}()

	if ctx == nil {
		return failure(Issue{Severity: SeverityError, Code: CodeInternal, Message: "pipeline: context is required"})
	}
	if err := ctx.Err(); err != nil {
		return failure(Issue{Severity: SeverityError, Code: CodeInternal, Message: err.Error()})
	}

	sheets, registry, issues := p.resolveInput(req)
	if hasErrors(issues) {
		return failureAll(issues)
	}
	warnings := issues

	if err := tabular.ValidateLanguage(sheets.Settings.DefaultLanguage); err != nil {
		warnings = append(warnings, Issue{
			Severity: SeverityWarning,
			Code:     CodeLanguage,
			Message:  err.Error(),
		})
	}

	compiled, err := xform.Compile(sheets, registry)
	if err != nil {
		return failureAll(append(warnings, Issue{
			Severity: SeverityError,
			Code:     CodeCompile,
			Message:  err.Error(),
		}))
	}
	for _, w := range compiled.Warnings {
		warnings = append(warnings, Issue{
			Severity: SeverityWarning,
			Code:     w.Code,
			Field:    w.Field,
			Message:  w.Message,
		})
	}

	xml, err := xform.Serialize(compiled.Root)
	if err != nil {
		return failureAll(append(warnings, Issue{
			Severity: SeverityError,
			Code:     CodeSerialize,
			Message:  err.Error(),
		}))
	}

	for _, w := range warnings {
		p.warn(w)
	}

	return Result{
		Success: true,
		Metadata: Metadata{
			FormID:          compiled.Meta.FormID,
			Title:           compiled.Meta.Title,
			Version:         compiled.Meta.Version,
			DefaultLanguage: compiled.Meta.DefaultLanguage,
		},
		XFormXML: xml,
		Warnings: warnings,
	}
}

// resolveInput normalises whichever input the request carries into parsed
// sheets plus the registry the compiler should consult.
func (p *Pipeline) resolveInput(req Request) (tabular.Sheets, *form.ChoiceRegistry, []Issue) {
	switch {
	case req.Document != nil:
		sheets, err := tabular.Emit(req.Document)
		if err != nil {
			return tabular.Sheets{}, nil, []Issue{{
				Severity: SeverityError,
				Code:     CodeStructural,
				Message:  err.Error(),
			}}
		}
		return sheets, p.mergedRegistry(req.Document.Registry(), sheets.Choices), nil

	case req.Sheets != nil:
		return *req.Sheets, p.mergedRegistry(nil, req.Sheets.Choices), nil

	case req.Workbook != nil:
		sheets, err := tabular.Parse(*req.Workbook)
		if err != nil {
			return tabular.Sheets{}, nil, parseIssues(err)
		}
		return sheets, p.mergedRegistry(nil, sheets.Choices), nil

	default:
		return tabular.Sheets{}, nil, []Issue{{
			Severity: SeverityError,
			Code:     CodeStructural,
			Message:  "pipeline: document, sheets, or workbook is required",
		}}
	}
}

// mergedRegistry layers the input's own choice lists over any registry the
// pipeline was configured with.
func (p *Pipeline) mergedRegistry(base *form.ChoiceRegistry, rows []tabular.ChoiceRow) *form.ChoiceRegistry {
	if p.registry == nil && base != nil {
		return base
	}
	merged := form.NewChoiceRegistry()
	if p.registry != nil {
		for _, list := range p.registry.Lists() {
			merged.Register(list.Name, list.Options)
		}
	}
	if base != nil {
		for _, list := range base.Lists() {
			merged.Register(list.Name, list.Options)
		}
	}
	for _, row := range rows {
		merged.Register(row.ListName, []form.ChoiceOption{{Value: row.Name, Label: row.Label}})
	}
	return merged
}

func (p *Pipeline) warn(issue Issue) {
	if p.onWarning != nil {
		p.onWarning(issue)
	}
}

func parseIssues(err error) []Issue {
	var parseErr *tabular.ParseError
	if errors.As(err, &parseErr) {
		issues := make([]Issue, 0, len(parseErr.Rows))
		for _, row := range parseErr.Rows {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     CodeStructural,
				Field:    fmt.Sprintf("%s:%d", row.Sheet, row.Row),
				Message:  row.Error(),
			})
		}
		return issues
	}
	return []Issue{{Severity: SeverityError, Code: CodeStructural, Message: err.Error()}}
}
