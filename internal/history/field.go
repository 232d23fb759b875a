package history

import "strings"

// FieldID identifies an editable style field.
type FieldID int

const (
	// FieldUnknown is used for free-form labels that match no known field.
	FieldUnknown FieldID = iota
	FieldName
	FieldTitle
	FieldAbstract
	FieldFillColor
	FieldFillOpacity
	FieldStrokeColor
	FieldStrokeWidth
	FieldStrokeOpacity
	FieldSize
	FieldRotation
	FieldLabelFont
	FieldLabelVisible
)

var fieldNames = [...]string{
	FieldUnknown:       "unknown",
	FieldName:          "name",
	FieldTitle:         "title",
	FieldAbstract:      "abstract",
	FieldFillColor:     "fill-color",
	FieldFillOpacity:   "fill-opacity",
	FieldStrokeColor:   "stroke-color",
	FieldStrokeWidth:   "stroke-width",
	FieldStrokeOpacity: "stroke-opacity",
	FieldSize:          "size",
	FieldRotation:      "rotation",
	FieldLabelFont:     "label-font",
	FieldLabelVisible:  "label-visible",
}

// String returns the canonical label of the field.
func (f FieldID) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fieldNames[FieldUnknown]
	}
	return fieldNames[f]
}

// Known reports whether f is a defined field other than FieldUnknown.
func (f FieldID) Known() bool {
	return f > FieldUnknown && int(f) < len(fieldNames)
}

// ParseFieldID resolves a label to a FieldID.
// Matching ignores case and treats '_' and ' ' like '-'.
// Labels that match nothing resolve to FieldUnknown.
func ParseFieldID(label string) FieldID {
	norm := strings.ToLower(strings.TrimSpace(label))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	for i, name := range fieldNames {
		if i == int(FieldUnknown) {
			continue
		}
		if name == norm {
			return FieldID(i)
		}
	}
	return FieldUnknown
}

// Fields returns every known field in declaration order.
func Fields() []FieldID {
	out := make([]FieldID, 0, len(fieldNames)-1)
	for i := 1; i < len(fieldNames); i++ {
		out = append(out, FieldID(i))
	}
	return out
}

// Direction selects which side of a record is applied.
type Direction int

const (
	// Undo restores a record's old value.
	Undo Direction = iota
	// Redo restores a record's new value.
	Redo
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	default:
		return "unknown"
	}
}
