// Package compiler turns CUE schema declarations into attr schemas.
//
// Schemas are declared in CUE files under a top-level "schemas" struct:
//
//	schemas: station: {
//		doc: "Weather station"
//		attributes: [
//			{name: "temperature", kind: "number", lo: -40, hi: 60, default: 20.0},
//			{name: "station_id", kind: "string", regex: "^[a-z0-9-]+$", default: "stn-0", constant: true},
//			{name: "online", kind: "bool", default: true},
//			{name: "load", kind: "dynamic"},
//		]
//	}
//
// The compiler uses the CUE SDK's Go API directly (not a CLI subprocess)
// and reports positionful errors. Attribute order in the CUE list becomes
// schema declaration order.
package compiler

import (
	"fmt"
	"regexp"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/attune/internal/attr"
)

// SchemaSpec is one compiled named schema.
type SchemaSpec struct {
	Name   string
	Doc    string
	Schema *attr.Schema
}

// CompileError represents a schema compilation failure with position info.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileSchemas compiles every schema under the top-level "schemas" struct,
// in declaration order.
func CompileSchemas(v cue.Value) ([]SchemaSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schemasVal := v.LookupPath(cue.ParsePath("schemas"))
	if !schemasVal.Exists() {
		return nil, &CompileError{
			Field:   "schemas",
			Message: "top-level schemas struct is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := schemasVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []SchemaSpec
	for iter.Next() {
		spec, err := CompileSchema(iter.Selector().Unquoted(), iter.Value())
		if err != nil {
			return nil, err
		}
		specs = append(specs, *spec)
	}
	if len(specs) == 0 {
		return nil, &CompileError{
			Field:   "schemas",
			Message: "at least one schema is required",
			Pos:     schemasVal.Pos(),
		}
	}
	return specs, nil
}

// CompileSchema compiles one named schema struct.
func CompileSchema(name string, v cue.Value) (*SchemaSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &SchemaSpec{Name: name}

	docVal := v.LookupPath(cue.ParsePath("doc"))
	if docVal.Exists() {
		doc, err := docVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Doc = doc
	}

	attrsVal := v.LookupPath(cue.ParsePath("attributes"))
	if !attrsVal.Exists() {
		return nil, &CompileError{
			Field:   name + ".attributes",
			Message: "attributes list is required",
			Pos:     v.Pos(),
		}
	}
	attrIter, err := attrsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var decls []attr.Declaration
	for attrIter.Next() {
		d, err := compileDeclaration(name, attrIter.Value())
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	if len(decls) == 0 {
		return nil, &CompileError{
			Field:   name + ".attributes",
			Message: "at least one attribute is required",
			Pos:     attrsVal.Pos(),
		}
	}

	schema, err := attr.NewSchema(decls...)
	if err != nil {
		return nil, &CompileError{
			Field:   name,
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	spec.Schema = schema
	return spec, nil
}

// compileDeclaration compiles one attribute entry.
func compileDeclaration(schemaName string, v cue.Value) (attr.Declaration, error) {
	var d attr.Declaration

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return d, &CompileError{
			Field:   schemaName + ".attributes",
			Message: "attribute name is required",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return d, formatCUEError(err)
	}
	d.Name = name
	field := schemaName + "." + name

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return d, &CompileError{Field: field, Message: "kind is required", Pos: v.Pos()}
	}
	kindName, err := kindVal.String()
	if err != nil {
		return d, formatCUEError(err)
	}
	kind, err := compileKind(field, kindName, v)
	if err != nil {
		return d, err
	}
	d.Kind = kind

	if constVal := v.LookupPath(cue.ParsePath("constant")); constVal.Exists() {
		c, err := constVal.Bool()
		if err != nil {
			return d, formatCUEError(err)
		}
		d.Constant = c
	}
	if docVal := v.LookupPath(cue.ParsePath("doc")); docVal.Exists() {
		doc, err := docVal.String()
		if err != nil {
			return d, formatCUEError(err)
		}
		d.Doc = doc
	}
	if defVal := v.LookupPath(cue.ParsePath("default")); defVal.Exists() {
		def, err := compileDefault(field, kindName, defVal)
		if err != nil {
			return d, err
		}
		d.Default = def
	}
	return d, nil
}

// compileKind builds the value kind from the entry's kind name and bounds.
func compileKind(field, kindName string, v cue.Value) (attr.Kind, error) {
	switch kindName {
	case "number":
		lo, hasLo, err := lookupFloat(v, "lo")
		if err != nil {
			return nil, err
		}
		hi, hasHi, err := lookupFloat(v, "hi")
		if err != nil {
			return nil, err
		}
		if hasLo || hasHi {
			k := attr.NewNumber()
			if hasLo {
				k.Lo = lo
			}
			if hasHi {
				k.Hi = hi
			}
			return k, nil
		}
		return attr.NewNumber(), nil

	case "integer":
		loVal := v.LookupPath(cue.ParsePath("lo"))
		hiVal := v.LookupPath(cue.ParsePath("hi"))
		if loVal.Exists() != hiVal.Exists() {
			return nil, &CompileError{
				Field:   field,
				Message: "integer bounds require both lo and hi",
				Pos:     v.Pos(),
			}
		}
		if loVal.Exists() {
			lo, err := loVal.Int64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			hi, err := hiVal.Int64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			return attr.IntegerIn(lo, hi), nil
		}
		return attr.NewInteger(), nil

	case "string":
		reVal := v.LookupPath(cue.ParsePath("regex"))
		if reVal.Exists() {
			pattern, err := reVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, &CompileError{
					Field:   field,
					Message: fmt.Sprintf("invalid regex: %v", err),
					Pos:     reVal.Pos(),
				}
			}
			return attr.StringMatching(re), nil
		}
		return attr.NewString(), nil

	case "bool":
		return attr.NewBool(), nil

	case "dynamic":
		return attr.NewDynamic(), nil

	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unknown kind %q: must be number, integer, string, bool, or dynamic", kindName),
			Pos:     v.Pos(),
		}
	}
}

// compileDefault decodes a default value according to the kind.
func compileDefault(field, kindName string, v cue.Value) (any, error) {
	if v.Null() == nil {
		return nil, nil
	}
	switch kindName {
	case "number", "dynamic":
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return f, nil
	case "integer":
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return n, nil
	case "string":
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return s, nil
	case "bool":
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return b, nil
	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("cannot decode default for kind %q", kindName),
			Pos:     v.Pos(),
		}
	}
}

func lookupFloat(v cue.Value, path string) (float64, bool, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return 0, false, nil
	}
	f, err := fv.Float64()
	if err != nil {
		return 0, false, formatCUEError(err)
	}
	return f, true, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
