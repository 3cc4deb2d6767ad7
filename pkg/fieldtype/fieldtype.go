package fieldtype

import "strings"

// FieldType is the question-type tag attached to a survey row. The built-in
// set is closed; tags outside it are represented as Extension values so an
// unknown widget still flows through the compiler.
type FieldType string

const (
	Text           FieldType = "text"
	Integer        FieldType = "integer"
	Decimal        FieldType = "decimal"
	Date           FieldType = "date"
	Time           FieldType = "time"
	DateTime       FieldType = "datetime"
	SelectOne      FieldType = "select_one"
	SelectMultiple FieldType = "select_multiple"
	Note           FieldType = "note"
	Geopoint       FieldType = "geopoint"
	Geotrace       FieldType = "geotrace"
	Geoshape       FieldType = "geoshape"
	Image          FieldType = "image"
	Audio          FieldType = "audio"
	Video          FieldType = "video"
	File           FieldType = "file"
	Barcode        FieldType = "barcode"
	Calculate      FieldType = "calculate"
	Acknowledge    FieldType = "acknowledge"
)

// runtimeTypes maps every built-in tag onto the type string the form runtime
// expects on a bind element.
var runtimeTypes = map[FieldType]string{
	Text:           "string",
	Integer:        "int",
	Decimal:        "decimal",
	Date:           "date",
	Time:           "time",
	DateTime:       "dateTime",
	SelectOne:      "select1",
	SelectMultiple: "select",
	Note:           "string",
	Geopoint:       "geopoint",
	Geotrace:       "geotrace",
	Geoshape:       "geoshape",
	Image:          "binary",
	Audio:          "binary",
	Video:          "binary",
	File:           "binary",
	Barcode:        "barcode",
	Calculate:      "string",
	Acknowledge:    "string",
}

// RuntimeTypeFallback is used for tags outside the built-in set so unknown
// extension types still compile into a generic runtime artifact.
const RuntimeTypeFallback = "string"

// Parsed is the result of splitting a raw type tag.
type Parsed struct {
	Type FieldType
	// ListName carries the choice-list suffix of a select tag
	// ("select_one gender" → "gender"). Empty for non-choice tags.
	ListName string
	// Known reports whether Type belongs to the built-in set. When false the
	// caller should record a mapping warning; RuntimeType still answers with
	// the string fallback.
	Known bool
}

// Parse splits a raw survey type tag into its field type and optional
// choice-list suffix. Tags are matched case-sensitively after trimming; a
// select tag keeps only its first suffix token as the list name.
func Parse(raw string) Parsed {
	tag := strings.TrimSpace(raw)
	listName := ""
	if head, rest, ok := strings.Cut(tag, " "); ok {
		if ft := FieldType(head); ft == SelectOne || ft == SelectMultiple {
			tag = head
			listName = strings.TrimSpace(rest)
			if value, _, cut := strings.Cut(listName, " "); cut {
				listName = value
			}
		}
	}
	ft := FieldType(tag)
	_, known := runtimeTypes[ft]
	return Parsed{Type: ft, ListName: listName, Known: known}
}

// RuntimeType returns the runtime data type for a tag, falling back to
// "string" for anything outside the built-in set.
func RuntimeType(ft FieldType) string {
	if rt, ok := runtimeTypes[ft]; ok {
		return rt
	}
	return RuntimeTypeFallback
}

// Known reports whether ft belongs to the built-in set.
func Known(ft FieldType) bool {
	_, ok := runtimeTypes[ft]
	return ok
}

// IsChoice reports whether ft selects from a choice list.
func IsChoice(ft FieldType) bool {
	return ft == SelectOne || ft == SelectMultiple
}

// IsComputed reports whether ft produces a value without a body control.
func IsComputed(ft FieldType) bool {
	return ft == Calculate
}

// IsDisplayOnly reports whether ft renders as read-only output.
func IsDisplayOnly(ft FieldType) bool {
	return ft == Note
}
