package form

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/goliatone/go-xlsform/pkg/fieldtype"
)

// ValidXMLName reports whether name is usable as an XML element local name.
// The check covers the NCName subset the form runtime accepts: a letter or
// underscore followed by letters, digits, hyphens, underscores, or dots, with
// no colon.
func ValidXMLName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// Validate checks the document invariants that must hold before emission:
// non-empty XML-safe field names, unique names, and the choice-field pairing
// rule (a choice list reference exists iff the type is a choice kind).
func (d *Document) Validate() error {
	seen := make(map[string]struct{}, len(d.Fields))
	for i, f := range d.Fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("form: field %d has no name", i)
		}
		if !ValidXMLName(name) {
			return fmt.Errorf("form: field name %q is not a legal XML element name", name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("form: duplicate field name %q", name)
		}
		seen[name] = struct{}{}

		isChoice := fieldtype.IsChoice(f.Type)
		hasList := f.ChoiceListRef != "" || len(f.InlineOptions) > 0
		if isChoice && !hasList {
			return fmt.Errorf("form: choice field %q names no choice list", name)
		}
		if !isChoice && f.ChoiceListRef != "" {
			return fmt.Errorf("form: field %q is not a choice type but references list %q", name, f.ChoiceListRef)
		}
	}
	return nil
}
