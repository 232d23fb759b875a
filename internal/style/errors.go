package style

import "errors"

// Errors returned by style operations.
var (
	// ErrUnknownField indicates a field that the document does not have.
	ErrUnknownField = errors.New("unknown style field")

	// ErrValueKind indicates a value of the wrong shape for its field.
	ErrValueKind = errors.New("value has wrong kind for field")

	// ErrValueRange indicates a value outside the field's allowed range.
	ErrValueRange = errors.New("value out of range")

	// ErrUnsupportedFormat indicates a document file extension with no codec.
	ErrUnsupportedFormat = errors.New("unsupported style file format")
)
