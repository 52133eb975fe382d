package attr

import "fmt"

// Schema is an ordered, immutable set of attribute declarations shared by
// every owner built from it.
//
// Declaration order is preserved from construction and is the iteration
// order everywhere (Update application, Names, CLI output). This mirrors
// the rest of the system's determinism doctrine: no map-order dependence.
type Schema struct {
	decls []Declaration
	index map[string]int
}

// NewSchema builds a schema from declarations.
//
// Names are NFC-normalized and must be unique. Defaults are validated
// against their kinds here - a bad default is a schema construction error,
// not a deferred first-write error.
func NewSchema(decls ...Declaration) (*Schema, error) {
	s := &Schema{
		decls: make([]Declaration, 0, len(decls)),
		index: make(map[string]int, len(decls)),
	}
	for _, d := range decls {
		d.Name = normalizeName(d.Name)
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := s.index[d.Name]; dup {
			return nil, &Error{
				Code:    ErrCodeValidation,
				Attr:    d.Name,
				Message: fmt.Sprintf("duplicate attribute name %q", d.Name),
			}
		}
		s.index[d.Name] = len(s.decls)
		s.decls = append(s.decls, d)
	}
	return s, nil
}

// MustSchema is NewSchema that panics on error. For tests and package-level
// schema literals known to be valid.
func MustSchema(decls ...Declaration) *Schema {
	s, err := NewSchema(decls...)
	if err != nil {
		panic(err)
	}
	return s
}

// Decl returns the declaration for name (NFC-normalized before lookup).
func (s *Schema) Decl(name string) (Declaration, bool) {
	i, ok := s.index[normalizeName(name)]
	if !ok {
		return Declaration{}, false
	}
	return s.decls[i], true
}

// Has reports whether name is declared.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[normalizeName(name)]
	return ok
}

// Names returns attribute names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.decls))
	for i, d := range s.decls {
		names[i] = d.Name
	}
	return names
}

// Decls returns a copy of the declarations in declaration order.
func (s *Schema) Decls() []Declaration {
	out := make([]Declaration, len(s.decls))
	copy(out, s.decls)
	return out
}

// Len returns the number of declarations.
func (s *Schema) Len() int {
	return len(s.decls)
}
