package attr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema(
		Declaration{Name: "temperature", Kind: NumberIn(-40, 60), Default: 20.0, Doc: "ambient temperature"},
		Declaration{Name: "samples", Kind: IntegerIn(0, 1000), Default: int64(0)},
		Declaration{Name: "station_id", Kind: NewString(), Default: "stn-0", Constant: true},
		Declaration{Name: "online", Kind: NewBool(), Default: true},
	)
	require.NoError(t, err)
	return s
}

func TestNewSchema_PreservesDeclarationOrder(t *testing.T) {
	s := testSchema(t)
	assert.Equal(t, []string{"temperature", "samples", "station_id", "online"}, s.Names())
	assert.Equal(t, 4, s.Len())
}

func TestNewSchema_RejectsDuplicateNames(t *testing.T) {
	_, err := NewSchema(
		Declaration{Name: "a", Kind: NewBool()},
		Declaration{Name: "a", Kind: NewNumber()},
	)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestNewSchema_RejectsEmptyNameAndNilKind(t *testing.T) {
	_, err := NewSchema(Declaration{Name: "", Kind: NewBool()})
	assert.True(t, IsValidation(err))

	_, err = NewSchema(Declaration{Name: "x"})
	assert.True(t, IsValidation(err))
}

func TestNewSchema_ValidatesDefaults(t *testing.T) {
	// A default outside the declared bounds fails at schema build, not at
	// the first write.
	_, err := NewSchema(Declaration{Name: "n", Kind: NumberIn(0, 10), Default: 99.0})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// A default not matching a string regex fails the same way.
	_, err = NewSchema(Declaration{Name: "s", Kind: StringMatching(ipRegex), Default: ""})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestNewSchema_NilDefaultAllowed(t *testing.T) {
	s, err := NewSchema(Declaration{Name: "s", Kind: StringMatching(ipRegex)})
	require.NoError(t, err)

	d, ok := s.Decl("s")
	require.True(t, ok)
	assert.True(t, d.AllowsNil())
}

func TestSchema_NFCNormalization(t *testing.T) {
	// "é" composed (U+00E9) vs decomposed (e + U+0301) must be one identity.
	composed := "café"
	decomposed := "café"

	s, err := NewSchema(Declaration{Name: decomposed, Kind: NewBool(), Default: false})
	require.NoError(t, err)

	assert.True(t, s.Has(composed))
	d, ok := s.Decl(composed)
	require.True(t, ok)
	assert.Equal(t, composed, d.Name)
}

func TestSchema_DeclLookup(t *testing.T) {
	s := testSchema(t)

	d, ok := s.Decl("temperature")
	require.True(t, ok)
	assert.Equal(t, "ambient temperature", d.Doc)
	assert.False(t, d.Constant)

	_, ok = s.Decl("missing")
	assert.False(t, ok)
}

func TestMustSchema_PanicsOnBadSchema(t *testing.T) {
	assert.Panics(t, func() {
		MustSchema(Declaration{Name: "", Kind: NewBool()})
	})
}
