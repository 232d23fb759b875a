package style

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dshills/stylehistory/internal/history"
)

// Kind is the value shape a field accepts.
type Kind int

const (
	KindString Kind = iota
	KindFloat
	KindBool
	KindColor
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindColor:
		return "color"
	default:
		return "unknown"
	}
}

// fieldSpec describes one field's kind and bounds.
type fieldSpec struct {
	kind     Kind
	min, max float64 // KindFloat only; max < min means no upper bound
}

var fieldSpecs = map[history.FieldID]fieldSpec{
	history.FieldName:          {kind: KindString},
	history.FieldTitle:         {kind: KindString},
	history.FieldAbstract:      {kind: KindString},
	history.FieldFillColor:     {kind: KindColor},
	history.FieldFillOpacity:   {kind: KindFloat, min: 0, max: 1},
	history.FieldStrokeColor:   {kind: KindColor},
	history.FieldStrokeWidth:   {kind: KindFloat, min: 0, max: -1},
	history.FieldStrokeOpacity: {kind: KindFloat, min: 0, max: 1},
	history.FieldSize:          {kind: KindFloat, min: 0, max: -1},
	history.FieldRotation:      {kind: KindFloat, min: -360, max: 360},
	history.FieldLabelFont:     {kind: KindString},
	history.FieldLabelVisible:  {kind: KindBool},
}

// KindOf returns the kind of a known field.
func KindOf(field history.FieldID) (Kind, bool) {
	s, ok := fieldSpecs[field]
	return s.kind, ok
}

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Normalize checks value against the field and returns it in canonical
// form: float64 for KindFloat, bool for KindBool, upper-case "#RRGGBB" for
// KindColor and string for KindString.
func Normalize(field history.FieldID, value any) (any, error) {
	s, ok := fieldSpecs[field]
	if !ok {
		return nil, fmt.Errorf("%s: %w", field, ErrUnknownField)
	}

	switch s.kind {
	case KindString:
		v, ok := value.(string)
		if !ok {
			return nil, kindError(field, s.kind, value)
		}
		return v, nil

	case KindColor:
		v, ok := value.(string)
		if !ok || !colorPattern.MatchString(v) {
			return nil, kindError(field, s.kind, value)
		}
		return strings.ToUpper(v), nil

	case KindBool:
		v, ok := value.(bool)
		if !ok {
			return nil, kindError(field, s.kind, value)
		}
		return v, nil

	case KindFloat:
		var v float64
		switch n := value.(type) {
		case float64:
			v = n
		case float32:
			v = float64(n)
		case int:
			v = float64(n)
		case int64:
			v = float64(n)
		default:
			return nil, kindError(field, s.kind, value)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < s.min || (s.max >= s.min && v > s.max) {
			return nil, fmt.Errorf("%s = %v: %w", field, v, ErrValueRange)
		}
		return v, nil
	}

	return nil, kindError(field, s.kind, value)
}

// ParseValue converts user-entered text to a value for field.
func ParseValue(field history.FieldID, text string) (any, error) {
	s, ok := fieldSpecs[field]
	if !ok {
		return nil, fmt.Errorf("%s: %w", field, ErrUnknownField)
	}

	switch s.kind {
	case KindFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, ErrValueKind)
		}
		return Normalize(field, v)
	case KindBool:
		v, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, ErrValueKind)
		}
		return v, nil
	default:
		return Normalize(field, text)
	}
}

func kindError(field history.FieldID, kind Kind, value any) error {
	return fmt.Errorf("%s wants %s, got %T: %w", field, kind, value, ErrValueKind)
}
