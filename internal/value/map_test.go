package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSetGetDelete(t *testing.T) {
	m := NewMap(4)
	require.NoError(t, m.Set(String("a"), Int(1)))
	require.NoError(t, m.Set(String("b"), Int(2)))

	v, ok := m.Get(String("a"))
	require.True(t, ok)
	assert.Equal(t, Int(1), v)

	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Delete(String("a")))
	assert.Equal(t, 1, m.Len())

	_, ok = m.Get(String("a"))
	assert.False(t, ok)
}

func TestMapRejectsUnhashableKey(t *testing.T) {
	m := NewMap(1)
	err := m.Set(Array{Elems: []Value{Int(1)}}, Int(1))
	assert.Error(t, err)
}

func TestMapFloatKeyDistinctFromIntKey(t *testing.T) {
	m := NewMap(2)
	require.NoError(t, m.Set(Int(1), String("int-one")))
	require.NoError(t, m.Set(Float(1), String("float-one")))
	assert.Equal(t, 2, m.Len())
}

func TestMapKeysPreserveInsertionOrder(t *testing.T) {
	m := NewMap(3)
	require.NoError(t, m.Set(String("z"), Int(1)))
	require.NoError(t, m.Set(String("a"), Int(2)))
	require.NoError(t, m.Set(String("m"), Int(3)))

	keys := m.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, String("z"), keys[0])
	assert.Equal(t, String("a"), keys[1])
	assert.Equal(t, String("m"), keys[2])
}
