package xform

import (
	"fmt"
	"strings"
)

const indentUnit = "  "

// Serialize prints the tree as well-formed XML with stable two-space
// indentation. The output is deterministic for a given tree: attribute order
// is attachment order and no line wrapping or reflowing is applied.
// Characters XML 1.0 cannot represent (control characters other than tab,
// newline, carriage return) are a fatal serialisation error.
func Serialize(root *Element) (string, error) {
	if root == nil {
		return "", fmt.Errorf("xform: root element is required")
	}
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\"?>\n")
	if err := writeElement(&b, root, 0); err != nil {
		return "", err
	}
	b.WriteString("\n")
	return b.String(), nil
}

func writeElement(b *strings.Builder, el *Element, depth int) error {
	if !validElementName(el.Name) {
		return fmt.Errorf("xform: %q is not a legal XML element name", el.Name)
	}

	indent := strings.Repeat(indentUnit, depth)
	b.WriteString(indent)
	b.WriteByte('<')
	b.WriteString(el.Name)
	for _, attr := range el.Attrs {
		value, err := escape(attr.Value, true)
		if err != nil {
			return fmt.Errorf("xform: attribute %s of <%s>: %w", attr.Name, el.Name, err)
		}
		b.WriteByte(' ')
		b.WriteString(attr.Name)
		b.WriteString(`="`)
		b.WriteString(value)
		b.WriteByte('"')
	}

	if len(el.Children) == 0 {
		b.WriteString("/>")
		return nil
	}

	if textOnly(el) {
		b.WriteByte('>')
		for _, child := range el.Children {
			text, err := escape(string(child.(Text)), false)
			if err != nil {
				return fmt.Errorf("xform: text inside <%s>: %w", el.Name, err)
			}
			b.WriteString(text)
		}
		b.WriteString("</")
		b.WriteString(el.Name)
		b.WriteByte('>')
		return nil
	}

	b.WriteByte('>')
	for _, child := range el.Children {
		b.WriteByte('\n')
		switch c := child.(type) {
		case *Element:
			if err := writeElement(b, c, depth+1); err != nil {
				return err
			}
		case Text:
			text, err := escape(string(c), false)
			if err != nil {
				return fmt.Errorf("xform: text inside <%s>: %w", el.Name, err)
			}
			b.WriteString(strings.Repeat(indentUnit, depth+1))
			b.WriteString(text)
		}
	}
	b.WriteByte('\n')
	b.WriteString(indent)
	b.WriteString("</")
	b.WriteString(el.Name)
	b.WriteByte('>')
	return nil
}

func textOnly(el *Element) bool {
	for _, child := range el.Children {
		if _, ok := child.(Text); !ok {
			return false
		}
	}
	return true
}

func escape(s string, inAttr bool) (string, error) {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			if inAttr {
				b.WriteString("&quot;")
			} else {
				b.WriteRune(r)
			}
		case '\t', '\n', '\r':
			b.WriteRune(r)
		default:
			if r < 0x20 || r == 0xFFFE || r == 0xFFFF {
				return "", fmt.Errorf("character %U cannot be represented in XML", r)
			}
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func validElementName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == ':' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7F:
		case i > 0 && (r == '-' || r == '.' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}
