package treeval

import (
	"golang.org/x/exp/constraints"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant stored in a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

// String returns the name of the kind, e.g. "string" or "mapping".
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a node of a dynamic, self-describing value tree: a null, a bool,
// a signed 64 bit integer, a float, a string, a sequence of values, or an
// ordered [Mapping] of value pairs. It is the intermediate representation
// that sits between a parsed document (see [FromYAML] and [FromJSON]) and
// the typed Go values produced by [Unmarshal] or by a custom [Visitor].
//
// The zero Value is null.
//
// A Value handed to [Unmarshal] or to one of the [Decoder] methods is
// consumed: sequences and mappings give up their elements to the decode and
// must not be decoded a second time from the same handle. Use [Value.Clone]
// first if the tree is needed again afterwards.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	m    *Mapping
}

// Null returns the null value. It is equivalent to the zero Value and exists
// for symmetry with the other constructors.
func Null() Value {
	return Value{}
}

// NewBool returns a bool value.
func NewBool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NewInt returns an integer value. All signed integer widths are stored as
// int64.
func NewInt[T constraints.Signed](i T) Value {
	return Value{kind: KindInt, i: int64(i)}
}

// NewUint returns an integer value for an unsigned input. A value that fits
// into the signed 64 bit range is stored as an integer; a larger value is
// preserved losslessly as its decimal string representation instead of being
// truncated.
func NewUint[T constraints.Unsigned](u T) Value {
	if uint64(u) <= math.MaxInt64 {
		return Value{kind: KindInt, i: int64(u)}
	}
	return Value{kind: KindString, s: strconv.FormatUint(uint64(u), 10)}
}

// NewFloat returns a float value. Both float widths are stored as float64.
func NewFloat[T constraints.Float](f T) Value {
	return Value{kind: KindFloat, f: float64(f)}
}

// NewString returns a string value.
func NewString(s string) Value {
	return Value{kind: KindString, s: s}
}

// NewSequence returns a sequence value holding the given elements.
func NewSequence(elems ...Value) Value {
	return Value{kind: KindSequence, seq: elems}
}

// Kind returns the variant stored in v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the bool stored in v. The second return value is false if v
// is not a bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the integer stored in v. The second return value is false if
// v is not an integer.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns the float stored in v. The second return value is false if
// v is not a float.
func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// AsString returns the string stored in v. The second return value is false
// if v is not a string.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsSequence returns the elements of a sequence value. The returned slice is
// shared with v; it is not a copy. The second return value is false if v is
// not a sequence.
func (v Value) AsSequence() ([]Value, bool) {
	return v.seq, v.kind == KindSequence
}

// AsMapping returns the [Mapping] stored in v. The mapping is shared with v.
// The second return value is false if v is not a mapping.
func (v Value) AsMapping() (*Mapping, bool) {
	return v.m, v.kind == KindMapping
}

// Equal reports whether v and w are structurally equal: same kind and same
// content. Sequences compare element-wise in order; mappings compare
// independent of entry order; floats compare with ==, so NaN is not equal to
// itself.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == w.b
	case KindInt:
		return v.i == w.i
	case KindFloat:
		return v.f == w.f
	case KindString:
		return v.s == w.s
	case KindSequence:
		if len(v.seq) != len(w.seq) {
			return false
		}
		for idx, elem := range v.seq {
			if !elem.Equal(w.seq[idx]) {
				return false
			}
		}
		return true
	case KindMapping:
		if v.m.Len() != w.m.Len() {
			return false
		}
		for key, value := range v.m.All() {
			other, ok := w.m.Get(key)
			if !ok || !value.Equal(other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of v. Decoding consumes a tree, so callers that
// want to decode the same tree twice must clone it before the first decode.
func (v Value) Clone() Value {
	switch v.kind {
	case KindSequence:
		elems := make([]Value, len(v.seq))
		for idx, elem := range v.seq {
			elems[idx] = elem.Clone()
		}
		return Value{kind: KindSequence, seq: elems}
	case KindMapping:
		return Value{kind: KindMapping, m: v.m.Clone()}
	default:
		return v
	}
}

// String renders v in a compact flow style for debugging and error messages.
// It is not a serializer; use an encoder for output meant to be parsed.
func (v Value) String() string {
	var sb strings.Builder
	v.render(&sb)
	return sb.String()
}

func (v Value) render(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindString:
		sb.WriteString(strconv.Quote(v.s))
	case KindSequence:
		sb.WriteByte('[')
		for idx, elem := range v.seq {
			if idx > 0 {
				sb.WriteString(", ")
			}
			elem.render(sb)
		}
		sb.WriteByte(']')
	case KindMapping:
		sb.WriteByte('{')
		first := true
		for key, value := range v.m.All() {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			key.render(sb)
			sb.WriteString(": ")
			value.render(sb)
		}
		sb.WriteByte('}')
	}
}
