package form

import "fmt"

// ChoiceRegistry deduplicates and stores named option lists referenced by
// choice-type fields. Registration order is first-seen and preserved.
type ChoiceRegistry struct {
	order []string
	lists map[string][]ChoiceOption
}

// NewChoiceRegistry creates an empty registry.
func NewChoiceRegistry() *ChoiceRegistry {
	return &ChoiceRegistry{lists: make(map[string][]ChoiceOption)}
}

// Register adds options under listName. Registering the same name again
// merges: options whose (value, label) pair is already present are skipped,
// new ones are appended in their given order.
func (r *ChoiceRegistry) Register(listName string, options []ChoiceOption) {
	existing, ok := r.lists[listName]
	if !ok {
		r.order = append(r.order, listName)
	}
	seen := make(map[ChoiceOption]struct{}, len(existing))
	for _, opt := range existing {
		seen[opt] = struct{}{}
	}
	for _, opt := range options {
		if _, dup := seen[opt]; dup {
			continue
		}
		seen[opt] = struct{}{}
		existing = append(existing, opt)
	}
	r.lists[listName] = existing
}

// Resolve returns the options registered under listName.
func (r *ChoiceRegistry) Resolve(listName string) ([]ChoiceOption, error) {
	options, ok := r.lists[listName]
	if !ok {
		return nil, fmt.Errorf("form: choice list %q not found", listName)
	}
	return options, nil
}

// Has reports whether listName is registered.
func (r *ChoiceRegistry) Has(listName string) bool {
	_, ok := r.lists[listName]
	return ok
}

// Names returns the registered list names in first-seen order.
func (r *ChoiceRegistry) Names() []string {
	return append([]string(nil), r.order...)
}

// Lists returns all registered lists in first-seen order.
func (r *ChoiceRegistry) Lists() []ChoiceList {
	out := make([]ChoiceList, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, ChoiceList{
			Name:    name,
			Options: append([]ChoiceOption(nil), r.lists[name]...),
		})
	}
	return out
}
