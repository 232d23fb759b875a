package style

import (
	"fmt"
	"maps"

	"github.com/dshills/stylehistory/internal/history"
)

// Document is a single-rule point/polygon style.
type Document struct {
	Name     string `toml:"name" yaml:"name"`
	Title    string `toml:"title" yaml:"title"`
	Abstract string `toml:"abstract" yaml:"abstract"`

	Fill   Fill   `toml:"fill" yaml:"fill"`
	Stroke Stroke `toml:"stroke" yaml:"stroke"`
	Symbol Symbol `toml:"symbol" yaml:"symbol"`
	Label  Label  `toml:"label" yaml:"label"`

	// Options holds vendor options keyed by their raw name.
	Options map[string]string `toml:"options,omitempty" yaml:"options,omitempty"`
}

// Fill describes the interior paint.
type Fill struct {
	Color   string  `toml:"color" yaml:"color"`
	Opacity float64 `toml:"opacity" yaml:"opacity"`
}

// Stroke describes the outline paint.
type Stroke struct {
	Color   string  `toml:"color" yaml:"color"`
	Width   float64 `toml:"width" yaml:"width"`
	Opacity float64 `toml:"opacity" yaml:"opacity"`
}

// Symbol describes the point marker.
type Symbol struct {
	Size     float64 `toml:"size" yaml:"size"`
	Rotation float64 `toml:"rotation" yaml:"rotation"`
}

// Label describes text labelling.
type Label struct {
	Font    string `toml:"font" yaml:"font"`
	Visible bool   `toml:"visible" yaml:"visible"`
}

// NewDocument returns a document with default paint values.
func NewDocument() *Document {
	return &Document{
		Fill:   Fill{Color: "#808080", Opacity: 1},
		Stroke: Stroke{Color: "#000000", Width: 1, Opacity: 1},
		Symbol: Symbol{Size: 6},
		Label:  Label{Font: "Serif"},
	}
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := *d
	c.Options = maps.Clone(d.Options)
	return &c
}

// Get returns the value of a known field.
func (d *Document) Get(field history.FieldID) (any, error) {
	switch field {
	case history.FieldName:
		return d.Name, nil
	case history.FieldTitle:
		return d.Title, nil
	case history.FieldAbstract:
		return d.Abstract, nil
	case history.FieldFillColor:
		return d.Fill.Color, nil
	case history.FieldFillOpacity:
		return d.Fill.Opacity, nil
	case history.FieldStrokeColor:
		return d.Stroke.Color, nil
	case history.FieldStrokeWidth:
		return d.Stroke.Width, nil
	case history.FieldStrokeOpacity:
		return d.Stroke.Opacity, nil
	case history.FieldSize:
		return d.Symbol.Size, nil
	case history.FieldRotation:
		return d.Symbol.Rotation, nil
	case history.FieldLabelFont:
		return d.Label.Font, nil
	case history.FieldLabelVisible:
		return d.Label.Visible, nil
	default:
		return nil, fmt.Errorf("%s: %w", field, ErrUnknownField)
	}
}

// Set stores a normalized value in a known field.
func (d *Document) Set(field history.FieldID, value any) error {
	v, err := Normalize(field, value)
	if err != nil {
		return err
	}

	switch field {
	case history.FieldName:
		d.Name = v.(string)
	case history.FieldTitle:
		d.Title = v.(string)
	case history.FieldAbstract:
		d.Abstract = v.(string)
	case history.FieldFillColor:
		d.Fill.Color = v.(string)
	case history.FieldFillOpacity:
		d.Fill.Opacity = v.(float64)
	case history.FieldStrokeColor:
		d.Stroke.Color = v.(string)
	case history.FieldStrokeWidth:
		d.Stroke.Width = v.(float64)
	case history.FieldStrokeOpacity:
		d.Stroke.Opacity = v.(float64)
	case history.FieldSize:
		d.Symbol.Size = v.(float64)
	case history.FieldRotation:
		d.Symbol.Rotation = v.(float64)
	case history.FieldLabelFont:
		d.Label.Font = v.(string)
	case history.FieldLabelVisible:
		d.Label.Visible = v.(bool)
	}
	return nil
}

// Option returns a vendor option and whether it is set.
func (d *Document) Option(name string) (string, bool) {
	v, ok := d.Options[name]
	return v, ok
}

// SetOption stores a vendor option. A nil value removes it.
func (d *Document) SetOption(name string, value any) error {
	if value == nil {
		delete(d.Options, name)
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("option %s wants string, got %T: %w", name, value, ErrValueKind)
	}
	if d.Options == nil {
		d.Options = make(map[string]string)
	}
	d.Options[name] = s
	return nil
}

// Validate checks every field value.
func (d *Document) Validate() error {
	for _, field := range history.Fields() {
		v, err := d.Get(field)
		if err != nil {
			return err
		}
		if _, err := Normalize(field, v); err != nil {
			return err
		}
	}
	return nil
}
