package treeval

import (
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func TestMappingOrder(t *testing.T) {
	m := NewMapping()
	m.Set(NewString("z"), NewInt(1))
	m.Set(NewString("a"), NewInt(2))
	m.Set(NewString("m"), NewInt(3))

	var keys []string
	for key := range m.All() {
		s, _ := key.AsString()
		keys = append(keys, s)
	}

	require.Equal(t, keys, []string{"z", "a", "m"})
}

func TestMappingSetOverwrite(t *testing.T) {
	m := NewMapping()
	m.Set(NewString("a"), NewInt(1))
	m.Set(NewString("b"), NewInt(2))
	m.Set(NewString("a"), NewInt(3))

	require.Equal(t, m.Len(), 2)

	value, ok := m.Get(NewString("a"))
	require.True(t, ok)
	require.True(t, value.Equal(NewInt(3)))

	// the overwritten entry keeps its position
	var keys []string
	for key := range m.All() {
		s, _ := key.AsString()
		keys = append(keys, s)
	}
	require.Equal(t, keys, []string{"a", "b"})
}

func TestMappingCompositeKeys(t *testing.T) {
	m := NewMapping()
	m.Set(NewSequence(NewInt(1), NewInt(2)), NewString("tuple"))

	value, ok := m.Get(NewSequence(NewInt(1), NewInt(2)))
	require.True(t, ok)
	require.True(t, value.Equal(NewString("tuple")))

	_, ok = m.Get(NewSequence(NewInt(2), NewInt(1)))
	require.False(t, ok)

	// mapping keys match regardless of their own entry order
	m.Set(mappingOf(
		NewString("x"), NewInt(1),
		NewString("y"), NewInt(2),
	), NewString("point"))

	value, ok = m.Get(mappingOf(
		NewString("y"), NewInt(2),
		NewString("x"), NewInt(1),
	))
	require.True(t, ok)
	require.True(t, value.Equal(NewString("point")))
}

func TestMappingKeyKinds(t *testing.T) {
	m := NewMapping()
	m.Set(NewInt(1), NewString("int"))
	m.Set(NewFloat(1.0), NewString("float"))
	m.Set(NewString("1"), NewString("string"))
	m.Set(NewBool(true), NewString("bool"))
	m.Set(Null(), NewString("null"))

	// same digit, five distinct keys
	require.Equal(t, m.Len(), 5)

	value, ok := m.Get(NewFloat(1.0))
	require.True(t, ok)
	require.True(t, value.Equal(NewString("float")))
}

func TestMappingFloatKeyIdentity(t *testing.T) {
	m := NewMapping()
	m.Set(NewFloat(0.0), NewString("zero"))
	m.Set(NewFloat(math.Copysign(0, -1)), NewString("negative zero"))

	// negative zero is the same key as zero
	require.Equal(t, m.Len(), 1)

	key, _ := firstEntry(m)
	f, ok := key.AsFloat()
	require.True(t, ok)
	require.False(t, math.Signbit(f))

	// all NaN keys are one key
	m = NewMapping()
	m.Set(NewFloat(math.NaN()), NewString("first"))
	m.Set(NewFloat(math.NaN()), NewString("second"))

	require.Equal(t, m.Len(), 1)

	value, ok := m.Get(NewFloat(math.NaN()))
	require.True(t, ok)
	require.True(t, value.Equal(NewString("second")))
}

func TestMappingDelete(t *testing.T) {
	m := NewMapping()
	m.Set(NewString("a"), NewInt(1))
	m.Set(NewString("b"), NewInt(2))
	m.Set(NewString("c"), NewInt(3))

	require.True(t, m.Delete(NewString("b")))
	require.False(t, m.Delete(NewString("b")))
	require.Equal(t, m.Len(), 2)

	_, ok := m.Get(NewString("b"))
	require.False(t, ok)

	// remaining entries keep their order and stay reachable
	value, ok := m.Get(NewString("c"))
	require.True(t, ok)
	require.True(t, value.Equal(NewInt(3)))

	var keys []string
	for key := range m.All() {
		s, _ := key.AsString()
		keys = append(keys, s)
	}
	require.Equal(t, keys, []string{"a", "c"})
}

func TestMappingClone(t *testing.T) {
	m := NewMapping()
	m.Set(NewString("a"), NewSequence(NewInt(1)))

	clone := m.Clone()
	m.Set(NewString("b"), NewInt(2))

	require.Equal(t, clone.Len(), 1)
	require.Equal(t, m.Len(), 2)

	value, ok := clone.Get(NewString("a"))
	require.True(t, ok)
	require.True(t, value.Equal(NewSequence(NewInt(1))))
}

func TestMappingNilSafety(t *testing.T) {
	var m *Mapping

	require.Equal(t, m.Len(), 0)

	_, ok := m.Get(NewString("a"))
	require.False(t, ok)

	require.False(t, m.Delete(NewString("a")))

	for range m.All() {
		t.Fatal("nil mapping must not yield entries")
	}

	v := m.Value()
	require.Equal(t, v.Kind(), KindMapping)

	wrapped, ok := v.AsMapping()
	require.True(t, ok)
	require.Equal(t, wrapped.Len(), 0)
}

func TestMappingZeroValue(t *testing.T) {
	var m Mapping
	m.Set(NewString("a"), NewInt(1))

	require.Equal(t, m.Len(), 1)
}

func firstEntry(m *Mapping) (Value, Value) {
	for key, value := range m.All() {
		return key, value
	}
	return Value{}, Value{}
}
