package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) ([]SchemaSpec, error) {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	return CompileSchemas(v)
}

// =============================================================================
// Valid schemas
// =============================================================================

func TestCompileSchemas_FullStationSchema(t *testing.T) {
	specs, err := compile(t, `
schemas: station: {
	doc: "Weather station"
	attributes: [
		{name: "temperature", kind: "number", lo: -40, hi: 60, default: 20.0},
		{name: "samples", kind: "integer", lo: 0, hi: 1000, default: 0},
		{name: "station_id", kind: "string", regex: "^[a-z0-9-]+$", default: "stn-0", constant: true, doc: "immutable id"},
		{name: "online", kind: "bool", default: true},
		{name: "load", kind: "dynamic"},
	]
}
`)
	require.NoError(t, err)
	require.Len(t, specs, 1)

	spec := specs[0]
	assert.Equal(t, "station", spec.Name)
	assert.Equal(t, "Weather station", spec.Doc)
	require.NotNil(t, spec.Schema)

	// CUE list order becomes declaration order
	assert.Equal(t, []string{"temperature", "samples", "station_id", "online", "load"},
		spec.Schema.Names())

	temp, ok := spec.Schema.Decl("temperature")
	require.True(t, ok)
	assert.Equal(t, "number", temp.Kind.Name())
	assert.Equal(t, 20.0, temp.Default)

	samples, ok := spec.Schema.Decl("samples")
	require.True(t, ok)
	assert.Equal(t, "integer", samples.Kind.Name())
	assert.Equal(t, int64(0), samples.Default)

	id, ok := spec.Schema.Decl("station_id")
	require.True(t, ok)
	assert.True(t, id.Constant)
	assert.Equal(t, "immutable id", id.Doc)
	assert.Equal(t, "stn-0", id.Default)

	load, ok := spec.Schema.Decl("load")
	require.True(t, ok)
	assert.Equal(t, "dynamic", load.Kind.Name())
	assert.Nil(t, load.Default)
}

func TestCompileSchemas_MultipleSchemasInOrder(t *testing.T) {
	specs, err := compile(t, `
schemas: {
	alpha: attributes: [{name: "x", kind: "number"}]
	beta: attributes: [{name: "y", kind: "bool", default: false}]
}
`)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "alpha", specs[0].Name)
	assert.Equal(t, "beta", specs[1].Name)
}

func TestCompileSchemas_NullDefaultMeansNilSlot(t *testing.T) {
	specs, err := compile(t, `
schemas: s: attributes: [{name: "x", kind: "number", default: null}]
`)
	require.NoError(t, err)
	d, ok := specs[0].Schema.Decl("x")
	require.True(t, ok)
	assert.Nil(t, d.Default)
	assert.True(t, d.AllowsNil())
}

// =============================================================================
// Compile failures
// =============================================================================

func TestCompileSchemas_MissingSchemasStruct(t *testing.T) {
	_, err := compile(t, `other: 1`)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "schemas", ce.Field)
}

func TestCompileSchemas_MissingAttributesList(t *testing.T) {
	_, err := compile(t, `schemas: s: doc: "empty"`)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "s.attributes", ce.Field)
}

func TestCompileSchemas_UnknownKind(t *testing.T) {
	_, err := compile(t, `
schemas: s: attributes: [{name: "x", kind: "decimal"}]
`)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "s.x", ce.Field)
	assert.Contains(t, ce.Message, `unknown kind "decimal"`)
}

func TestCompileSchemas_InvalidRegex(t *testing.T) {
	_, err := compile(t, `
schemas: s: attributes: [{name: "x", kind: "string", regex: "["}]
`)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "invalid regex")
}

func TestCompileSchemas_IntegerBoundsRequireBoth(t *testing.T) {
	_, err := compile(t, `
schemas: s: attributes: [{name: "x", kind: "integer", lo: 0}]
`)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "both lo and hi")
}

func TestCompileSchemas_DefaultOutsideBoundsRejected(t *testing.T) {
	_, err := compile(t, `
schemas: s: attributes: [{name: "x", kind: "number", lo: 0, hi: 10, default: 99.0}]
`)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "s", ce.Field)
}

func TestCompileSchemas_DuplicateAttributeName(t *testing.T) {
	_, err := compile(t, `
schemas: s: attributes: [
	{name: "x", kind: "number"},
	{name: "x", kind: "bool"},
]
`)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "s", ce.Field)
}

func TestCompileError_FormatsPosition(t *testing.T) {
	e := &CompileError{Field: "s.x", Message: "kind is required"}
	assert.Equal(t, "s.x: kind is required", e.Error())
}
