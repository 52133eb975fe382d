package harness

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/attune/internal/attr"
)

func TestGolden_SingleWrites(t *testing.T) {
	err := RunWithGolden(t, &Scenario{
		Name:  "single-write",
		Label: "station",
		Decls: []attr.Declaration{
			{Name: "temperature", Kind: attr.NumberIn(-40, 60), Default: 20.0},
			{Name: "online", Kind: attr.NewBool(), Default: true},
		},
		Steps: []Step{
			{Set: &SetStep{Attr: "temperature", Value: 25.5}},
			{Set: &SetStep{Attr: "online", Value: false}},
			{Set: &SetStep{Attr: "temperature", Value: 99.0}},
		},
	})
	require.NoError(t, err)
}

func TestGolden_BatchedUpdate(t *testing.T) {
	err := RunWithGolden(t, &Scenario{
		Name:  "batched-update",
		Label: "station",
		Decls: []attr.Declaration{
			{Name: "temperature", Kind: attr.NumberIn(-40, 60), Default: 20.0},
			{Name: "samples", Kind: attr.IntegerIn(0, 1000), Default: int64(0)},
			{Name: "online", Kind: attr.NewBool(), Default: true},
		},
		Steps: []Step{
			{Update: map[string]any{"temperature": 1.0, "online": false}},
			{Set: &SetStep{Attr: "samples", Value: int64(5)}},
		},
	})
	require.NoError(t, err)
}

func TestGolden_DynamicSlot(t *testing.T) {
	five := int64(5)
	err := RunWithGolden(t, &Scenario{
		Name:  "dynamic-slot",
		Label: "station",
		Decls: []attr.Declaration{
			{Name: "load", Kind: attr.NewDynamic()},
		},
		Steps: []Step{
			{Set: &SetStep{Attr: "load", Value: 2.0}},
			{Time: &five},
			{Set: &SetStep{Attr: "load", Value: 4.0}},
		},
	})
	require.NoError(t, err)
}
