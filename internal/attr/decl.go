package attr

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Declaration describes one attribute slot on a schema.
//
// Declarations are plain data; the schema validates them once at build time
// (defaults are checked against the kind there, so a bad default fails the
// schema, not the first write).
type Declaration struct {
	// Name is the attribute name, unique within a schema. Normalized to
	// NFC at schema build so visually identical names share one identity.
	Name string

	// Kind is the value kind (type plus range/regex constraints).
	Kind Kind

	// Default is the initial value for new owners. A nil default makes the
	// attribute nil-allowed: explicit writes of nil are then valid.
	Default any

	// Constant marks the attribute read-only outside an override scope.
	Constant bool

	// Doc is the attribute's documentation string.
	Doc string
}

// AllowsNil reports whether nil is a valid value for this declaration.
// Mirrors the default: nil default means nil stays writable.
func (d Declaration) AllowsNil() bool {
	return d.Default == nil
}

// normalizeName applies NFC normalization to an attribute name.
// Lookups normalize too, so callers may pass either form.
func normalizeName(name string) string {
	return norm.NFC.String(name)
}

// validate checks the declaration itself (not a candidate value).
func (d Declaration) validate() error {
	if d.Name == "" {
		return &Error{Code: ErrCodeValidation, Message: "declaration has empty name"}
	}
	if d.Kind == nil {
		return &Error{Code: ErrCodeValidation, Attr: d.Name, Message: "declaration has nil kind"}
	}
	if d.Default != nil {
		if _, err := d.Kind.Validate("", d.Name, d.Default); err != nil {
			return &Error{
				Code:    ErrCodeValidation,
				Attr:    d.Name,
				Message: fmt.Sprintf("default value invalid: %v", err),
			}
		}
	}
	return nil
}
