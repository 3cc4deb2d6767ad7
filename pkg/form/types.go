package form

import (
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-xlsform/pkg/fieldtype"
)

// ChoiceOption is a single (value, label) entry inside a choice list.
type ChoiceOption struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// ChoiceList is a named, ordered set of options. Option order is semantically
// meaningful to end users and is preserved everywhere.
type ChoiceList struct {
	Name    string         `yaml:"name"`
	Options []ChoiceOption `yaml:"options"`
}

// Field models one form question. Exactly one of {plain field, choice field}
// holds: ChoiceListRef is set if and only if Type is a choice kind.
type Field struct {
	Name          string              `yaml:"name"`
	Type          fieldtype.FieldType `yaml:"type"`
	Label         string              `yaml:"label,omitempty"`
	Hint          string              `yaml:"hint,omitempty"`
	Required      bool                `yaml:"required,omitempty"`
	Readonly      bool                `yaml:"readonly,omitempty"`
	Constraint    string              `yaml:"constraint,omitempty"`
	Relevant      string              `yaml:"relevant,omitempty"`
	Calculate     string              `yaml:"calculate,omitempty"`
	Default       string              `yaml:"default,omitempty"`
	ChoiceListRef string              `yaml:"choice_list,omitempty"`
	// InlineOptions carries options authored directly on the field; the
	// emitter synthesizes a "<name>_choices" list for them when no
	// ChoiceListRef names a shared list.
	InlineOptions []ChoiceOption `yaml:"options,omitempty"`
	Appearance    string         `yaml:"appearance,omitempty"`
}

// DisplayLabel returns the label, defaulting to the field name.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.Name
}

// Document is the whole authored form: ordered fields plus the choice
// registry. It is consumed once by the compiler and not persisted here.
type Document struct {
	FormID          string          `yaml:"form_id,omitempty"`
	Title           string          `yaml:"title,omitempty"`
	Version         string          `yaml:"version,omitempty"`
	DefaultLanguage string          `yaml:"default_language,omitempty"`
	Fields          []Field         `yaml:"fields"`
	Choices         *ChoiceRegistry `yaml:"-"`
	ChoiceLists     []ChoiceList    `yaml:"choices,omitempty"`
}

// DefaultVersion is applied when a document carries no version.
const DefaultVersion = "1.0"

// EnsureDefaults fills FormID and Version in place so later stages see a
// fully-populated document. FormID falls back to a slug of the title, then to
// a generated identifier; calling it twice is a no-op, which keeps repeated
// emissions byte-identical.
func (d *Document) EnsureDefaults() {
	if strings.TrimSpace(d.Version) == "" {
		d.Version = DefaultVersion
	}
	if strings.TrimSpace(d.FormID) == "" {
		if slug := Slug(d.Title); slug != "" {
			d.FormID = slug
		} else {
			d.FormID = GeneratedID()
		}
	}
}

// Registry returns the document's choice registry, building it from
// ChoiceLists on first use.
func (d *Document) Registry() *ChoiceRegistry {
	if d.Choices == nil {
		d.Choices = NewChoiceRegistry()
		for _, list := range d.ChoiceLists {
			d.Choices.Register(list.Name, list.Options)
		}
	}
	return d.Choices
}

// Slug lowercases a title into an identifier usable as a form id and XML
// element name. Returns "" when nothing survives.
func Slug(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteByte('_')
		}
	}
	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return ""
	}
	if slug[0] >= '0' && slug[0] <= '9' {
		slug = "form_" + slug
	}
	return slug
}

// GeneratedID mints a fresh form identifier.
func GeneratedID() string {
	return "form_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
