package attr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/attune/internal/gen"
)

func testOwner(t *testing.T) *Owner {
	t.Helper()
	return NewOwner(testSchema(t),
		WithLabel("station"),
		WithTokenGenerator(NewFixedGenerator(
			"tx-1", "tx-2", "tx-3", "tx-4", "tx-5", "tx-6", "tx-7", "tx-8",
		)),
	)
}

// =============================================================================
// Defaults and round-trips
// =============================================================================

func TestOwner_StartsAtDefaults(t *testing.T) {
	o := testOwner(t)

	v, err := o.Get("temperature")
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)

	v, err = o.Get("online")
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestOwner_SetRoundTrip(t *testing.T) {
	o := testOwner(t)

	require.NoError(t, o.Set("temperature", 35.5))
	v, err := o.Get("temperature")
	require.NoError(t, err)
	assert.Equal(t, 35.5, v)
}

func TestOwner_InvalidSetLeavesValueUnchanged(t *testing.T) {
	o := testOwner(t)

	err := o.Set("temperature", 999.0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	v, _ := o.Get("temperature")
	assert.Equal(t, 20.0, v, "failed write must not mutate")

	err = o.Set("temperature", "hot")
	assert.True(t, IsValidation(err))
	v, _ = o.Get("temperature")
	assert.Equal(t, 20.0, v)
}

func TestOwner_UnknownAttribute(t *testing.T) {
	o := testOwner(t)

	err := o.Set("pressure", 1.0)
	require.Error(t, err)
	assert.True(t, IsUnknownAttribute(err))

	_, err = o.Get("pressure")
	assert.True(t, IsUnknownAttribute(err))
}

// =============================================================================
// Constants and override scopes
// =============================================================================

func TestOwner_ConstantRejectsWrites(t *testing.T) {
	o := testOwner(t)

	err := o.Set("station_id", "stn-9")
	require.Error(t, err)
	assert.True(t, IsConstantViolation(err))

	v, _ := o.Get("station_id")
	assert.Equal(t, "stn-0", v)
}

func TestOwner_OverrideScopeAllowsConstantWrites(t *testing.T) {
	o := testOwner(t)

	release := o.AllowConstantWrites()
	require.NoError(t, o.Set("station_id", "stn-9"))
	release()

	v, _ := o.Get("station_id")
	assert.Equal(t, "stn-9", v)

	// Closed scope: constants locked again
	err := o.Set("station_id", "stn-10")
	assert.True(t, IsConstantViolation(err))
}

func TestOwner_NestedOverrideScopesCompose(t *testing.T) {
	o := testOwner(t)

	outer := o.AllowConstantWrites()
	inner := o.AllowConstantWrites()

	inner()
	// Outer scope still open
	require.NoError(t, o.Set("station_id", "stn-1"))

	outer()
	err := o.Set("station_id", "stn-2")
	assert.True(t, IsConstantViolation(err))
}

func TestOwner_OverrideReleaseIsIdempotent(t *testing.T) {
	o := testOwner(t)

	release := o.AllowConstantWrites()
	release()
	release() // double release must not unbalance a later scope

	again := o.AllowConstantWrites()
	require.NoError(t, o.Set("station_id", "stn-3"))
	again()

	err := o.Set("station_id", "stn-4")
	assert.True(t, IsConstantViolation(err))
}

// =============================================================================
// Nil handling
// =============================================================================

func TestOwner_NilFollowsDefault(t *testing.T) {
	schema, err := NewSchema(
		Declaration{Name: "with_default", Kind: NewString(), Default: "x"},
		Declaration{Name: "nilable", Kind: NewString()},
	)
	require.NoError(t, err)
	o := NewOwner(schema, WithTokenGenerator(NewFixedGenerator("t1", "t2", "t3")))

	// nil default -> nil writable
	require.NoError(t, o.Set("nilable", "hello"))
	require.NoError(t, o.Set("nilable", nil))
	v, _ := o.Get("nilable")
	assert.Nil(t, v)

	// non-nil default -> nil rejected
	err = o.Set("with_default", nil)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

// =============================================================================
// Update (multi-attribute logical updates)
// =============================================================================

func TestOwner_UpdateAppliesAll(t *testing.T) {
	o := testOwner(t)

	require.NoError(t, o.Update(map[string]any{
		"temperature": 5.0,
		"online":      false,
	}))

	v, _ := o.Get("temperature")
	assert.Equal(t, 5.0, v)
	v, _ = o.Get("online")
	assert.Equal(t, false, v)
}

func TestOwner_UpdateIsAtomicOnValidationFailure(t *testing.T) {
	o := testOwner(t)

	err := o.Update(map[string]any{
		"temperature": 5.0,
		"samples":     int64(-1), // out of bounds
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// Nothing applied - including the valid part
	v, _ := o.Get("temperature")
	assert.Equal(t, 20.0, v)
	v, _ = o.Get("samples")
	assert.Equal(t, int64(0), v)
}

func TestOwner_UpdateRejectsUnknownKeys(t *testing.T) {
	o := testOwner(t)

	err := o.Update(map[string]any{"bogus": 1})
	require.Error(t, err)
	assert.True(t, IsUnknownAttribute(err))
}

// =============================================================================
// Dynamic attributes (pull model)
// =============================================================================

func TestOwner_DynamicResolvesThroughEnv(t *testing.T) {
	schema, err := NewSchema(
		Declaration{Name: "load", Kind: NewDynamic()},
	)
	require.NoError(t, err)

	env := gen.NewEnv(0)
	o := NewOwner(schema, WithEnv(env), WithTokenGenerator(NewFixedGenerator("t1", "t2")))

	require.NoError(t, o.Set("load", gen.ScaledTime(3)))

	env.SetTime(2)
	v, err := o.Get("load")
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	env.SetTime(5)
	v, _ = o.Get("load")
	assert.Equal(t, 15.0, v)

	// Raw returns the stored node, not a sample
	raw, err := o.Raw("load")
	require.NoError(t, err)
	_, isNode := raw.(gen.Node)
	assert.True(t, isNode)
}

func TestOwner_DynamicWithoutEnvReturnsNode(t *testing.T) {
	schema, err := NewSchema(Declaration{Name: "load", Kind: NewDynamic()})
	require.NoError(t, err)
	o := NewOwner(schema, WithTokenGenerator(NewFixedGenerator("t1")))

	require.NoError(t, o.Set("load", gen.ScaledTime(3)))
	v, err := o.Get("load")
	require.NoError(t, err)
	_, isNode := v.(gen.Node)
	assert.True(t, isNode, "no env bound: the raw node comes back")
}

func TestOwner_DynamicAcceptsConcreteValue(t *testing.T) {
	schema, err := NewSchema(Declaration{Name: "load", Kind: NewDynamic()})
	require.NoError(t, err)
	o := NewOwner(schema, WithEnv(gen.NewEnv(0)), WithTokenGenerator(NewFixedGenerator("t1")))

	require.NoError(t, o.Set("load", 7))
	v, _ := o.Get("load")
	assert.Equal(t, 7.0, v)
}
