package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddAndLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(
		NewValueParameter(Info{Identifier: "b", Upper: 10, Def: 4}),
		NewValueParameter(Info{Identifier: "a", Upper: 10}),
	))

	assert.Equal(t, []string{"a", "b"}, r.IDs())

	v, err := r.Get("b")
	require.NoError(t, err)
	assert.Equal(t, uint32(4), v)

	require.NoError(t, r.Set("b", 9))
	v, err = r.Get("b")
	require.NoError(t, err)
	assert.Equal(t, uint32(9), v)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(NewValueParameter(Info{Identifier: "a", Upper: 1})))

	err := r.Add(
		NewValueParameter(Info{Identifier: "c", Upper: 1}),
		NewValueParameter(Info{Identifier: "a", Upper: 1}),
	)
	assert.ErrorIs(t, err, ErrDuplicateParameter)
	_, ok := r.Lookup("c")
	assert.False(t, ok, "rejected batch must not be partially registered")

	err = r.Add(
		NewValueParameter(Info{Identifier: "d", Upper: 1}),
		NewValueParameter(Info{Identifier: "d", Upper: 1}),
	)
	assert.ErrorIs(t, err, ErrDuplicateParameter)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryUnknownParameter(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownParameter)
	assert.ErrorIs(t, r.Set("missing", 1), ErrUnknownParameter)
}

func TestValueParameterBounds(t *testing.T) {
	p := NewValueParameter(Info{Identifier: "v", Lower: 2, Upper: 4, Def: 2})
	assert.ErrorIs(t, p.Set(5), ErrOutOfRange)
	assert.ErrorIs(t, p.Set(1), ErrOutOfRange)
	require.NoError(t, p.Set(4))
}
