// Package models - model registry, handles, and label metadata.
package models

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Category groups findings by the kind of problem they describe.
type Category string

const (
	// CategoryDisease covers fungal, bacterial, and viral infections.
	CategoryDisease Category = "Disease"
	// CategoryDeficiency covers nutrient and watering problems.
	CategoryDeficiency Category = "Deficiency"
	// CategoryPest covers insect and animal damage.
	CategoryPest Category = "Pest"
	// CategoryEnvironmental covers weather and exposure stress.
	CategoryEnvironmental Category = "Environmental"
	// CategoryOther is everything the other categories do not cover.
	CategoryOther Category = "Other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryDisease, CategoryDeficiency, CategoryPest, CategoryEnvironmental, CategoryOther:
		return true
	}
	return false
}

// ClassInfo is one classifier output class: a label and its category.
type ClassInfo struct {
	Label    string   `json:"label"`
	Category Category `json:"category"`
}

// LabelTable maps classifier output indices to labels and categories. It is
// external configuration shipped alongside the classifier asset and is
// validated against the model's declared class count at init, never inferred
// from index ranges at prediction time.
type LabelTable struct {
	Classes []ClassInfo `json:"classes"`
}

// ParseLabelTable decodes and validates a label table JSON document.
//
// Arguments:
//   - data: The JSON bytes, {"classes": [{"label": ..., "category": ...}, ...]}.
//
// Returns:
//   - *LabelTable: The validated table.
//   - error: If the document is malformed, empty, or names unknown categories.
func ParseLabelTable(data []byte) (*LabelTable, error) {
	var table LabelTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, errors.Wrap(err, "parsing label table")
	}
	if len(table.Classes) == 0 {
		return nil, errors.New("label table has no classes")
	}
	for i, class := range table.Classes {
		if class.Label == "" {
			return nil, errors.Errorf("class %d has an empty label", i)
		}
		if !class.Category.Valid() {
			return nil, errors.Errorf("class %d (%s) has unknown category %q", i, class.Label, class.Category)
		}
	}
	return &table, nil
}

// Len returns the number of classes in the table.
func (t *LabelTable) Len() int { return len(t.Classes) }

// Label returns the label for a class index.
func (t *LabelTable) Label(i int) string { return t.Classes[i].Label }

// Category returns the category for a class index.
func (t *LabelTable) Category(i int) Category { return t.Classes[i].Category }

// Validate checks the table against the classifier's declared class count.
func (t *LabelTable) Validate(classCount int) error {
	if len(t.Classes) != classCount {
		return errors.Errorf("label table has %d classes, classifier declares %d", len(t.Classes), classCount)
	}
	return nil
}
