package form

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses a YAML-serialised form document, the interchange format
// the authoring surface uses when it hands a Document to the compiler
// directly instead of a workbook.
func DecodeYAML(raw []byte) (*Document, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("form: yaml document is empty")
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("form: decode yaml document: %w", err)
	}
	return &doc, nil
}

// EncodeYAML serialises a document back to YAML. Registry contents are
// flattened into the choices section so the output is self-contained.
func EncodeYAML(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("form: document is required")
	}
	if doc.Choices != nil {
		doc.ChoiceLists = doc.Choices.Lists()
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("form: encode yaml document: %w", err)
	}
	return out, nil
}
