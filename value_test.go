package treeval

import (
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func TestValueZero(t *testing.T) {
	var v Value

	require.True(t, v.IsNull())
	require.Equal(t, v.Kind(), KindNull)
	require.True(t, v.Equal(Null()))
}

func TestValueAccessors(t *testing.T) {
	b, ok := NewBool(true).AsBool()
	require.True(t, ok)
	require.Equal(t, b, true)

	i, ok := NewInt(-3).AsInt()
	require.True(t, ok)
	require.Equal(t, i, int64(-3))

	f, ok := NewFloat(2.5).AsFloat()
	require.True(t, ok)
	require.Equal(t, f, 2.5)

	s, ok := NewString("abc").AsString()
	require.True(t, ok)
	require.Equal(t, s, "abc")

	seq, ok := NewSequence(NewInt(1), NewInt(2)).AsSequence()
	require.True(t, ok)
	require.Len(t, seq, 2)

	m, ok := mappingOf(NewString("a"), NewInt(1)).AsMapping()
	require.True(t, ok)
	require.Equal(t, m.Len(), 1)

	// accessors decline other kinds
	_, ok = NewString("abc").AsBool()
	require.False(t, ok)
	_, ok = NewInt(1).AsString()
	require.False(t, ok)
	_, ok = Null().AsSequence()
	require.False(t, ok)
}

func TestNewIntWidths(t *testing.T) {
	i, ok := NewInt(int8(-5)).AsInt()
	require.True(t, ok)
	require.Equal(t, i, int64(-5))

	i, ok = NewInt(int32(1 << 20)).AsInt()
	require.True(t, ok)
	require.Equal(t, i, int64(1<<20))
}

func TestNewUintWidening(t *testing.T) {
	i, ok := NewUint(uint8(200)).AsInt()
	require.True(t, ok)
	require.Equal(t, i, int64(200))

	i, ok = NewUint(uint64(math.MaxInt64)).AsInt()
	require.True(t, ok)
	require.Equal(t, i, int64(math.MaxInt64))

	// above the signed range the decimal text is kept instead
	v := NewUint(uint64(math.MaxUint64))
	require.Equal(t, v.Kind(), KindString)

	s, ok := v.AsString()
	require.True(t, ok)
	require.Equal(t, s, "18446744073709551615")
}

func TestValueEqual(t *testing.T) {
	require.True(t, NewInt(5).Equal(NewInt(5)))
	require.False(t, NewInt(5).Equal(NewInt(6)))
	require.False(t, NewInt(5).Equal(NewFloat(5.0)))
	require.False(t, NewInt(5).Equal(NewString("5")))

	require.True(t, NewSequence(NewInt(1), NewInt(2)).Equal(NewSequence(NewInt(1), NewInt(2))))
	require.False(t, NewSequence(NewInt(2), NewInt(1)).Equal(NewSequence(NewInt(1), NewInt(2))))

	// mappings compare independent of entry order
	first := mappingOf(
		NewString("a"), NewInt(1),
		NewString("b"), NewInt(2),
	)
	second := mappingOf(
		NewString("b"), NewInt(2),
		NewString("a"), NewInt(1),
	)
	require.True(t, first.Equal(second))

	// NaN compares like the float it is
	nan := NewFloat(math.NaN())
	require.False(t, nan.Equal(nan))
}

func TestValueClone(t *testing.T) {
	m := NewMapping()
	m.Set(NewString("a"), NewSequence(NewInt(1)))
	original := m.Value()

	clone := original.Clone()
	require.True(t, clone.Equal(original))

	m.Set(NewString("b"), NewInt(2))
	require.False(t, clone.Equal(original))

	cloned, ok := clone.AsMapping()
	require.True(t, ok)
	require.Equal(t, cloned.Len(), 1)
}

func TestValueString(t *testing.T) {
	input := mappingOf(
		NewString("a"), NewSequence(NewInt(1), NewFloat(2.5), NewBool(true)),
		NewString("b"), Null(),
	)

	require.Equal(t, input.String(), `{"a": [1, 2.5, true], "b": null}`)
	require.Equal(t, NewFloat(1e21).String(), "1e+21")
	require.Equal(t, NewString("say \"hi\"").String(), `"say \"hi\""`)
}

func TestKindString(t *testing.T) {
	require.Equal(t, KindNull.String(), "null")
	require.Equal(t, KindBool.String(), "bool")
	require.Equal(t, KindInt.String(), "int")
	require.Equal(t, KindFloat.String(), "float")
	require.Equal(t, KindString.String(), "string")
	require.Equal(t, KindSequence.String(), "sequence")
	require.Equal(t, KindMapping.String(), "mapping")
}
