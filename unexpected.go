package treeval

import "strconv"

type unexpectedKind uint8

const (
	unexpectedNull unexpectedKind = iota
	unexpectedBool
	unexpectedInt
	unexpectedUint
	unexpectedFloat
	unexpectedString
	unexpectedSeq
	unexpectedMap
	unexpectedOption
	unexpectedNewtype
	unexpectedEnum
	unexpectedUnitVariant
)

// Unexpected describes the shape of input that a [Visitor] was handed when
// it wanted something else. It appears in [Error] values of kind
// [InvalidType] and [InvalidValue] next to the visitor's own expectation,
// e.g. `invalid type: string "on", expected a boolean`.
//
// Unexpected is a plain token: it renders into the error message and
// compares with ==, nothing more.
type Unexpected struct {
	kind unexpectedKind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
}

// UnexpectedNull reports a null where it was not wanted.
func UnexpectedNull() Unexpected {
	return Unexpected{kind: unexpectedNull}
}

// UnexpectedBool reports an unwanted boolean with its value.
func UnexpectedBool(b bool) Unexpected {
	return Unexpected{kind: unexpectedBool, b: b}
}

// UnexpectedInt reports an unwanted integer with its value.
func UnexpectedInt(i int64) Unexpected {
	return Unexpected{kind: unexpectedInt, i: i}
}

// UnexpectedUint reports an unwanted unsigned integer with its value.
func UnexpectedUint(u uint64) Unexpected {
	return Unexpected{kind: unexpectedUint, u: u}
}

// UnexpectedFloat reports an unwanted floating point number with its value.
func UnexpectedFloat(f float64) Unexpected {
	return Unexpected{kind: unexpectedFloat, f: f}
}

// UnexpectedString reports an unwanted string with its value.
func UnexpectedString(s string) Unexpected {
	return Unexpected{kind: unexpectedString, s: s}
}

// UnexpectedSeq reports an unwanted sequence.
func UnexpectedSeq() Unexpected {
	return Unexpected{kind: unexpectedSeq}
}

// UnexpectedMap reports an unwanted mapping.
func UnexpectedMap() Unexpected {
	return Unexpected{kind: unexpectedMap}
}

// UnexpectedOption reports an unwanted optional value.
func UnexpectedOption() Unexpected {
	return Unexpected{kind: unexpectedOption}
}

// UnexpectedNewtype reports an unwanted single-value wrapper.
func UnexpectedNewtype() Unexpected {
	return Unexpected{kind: unexpectedNewtype}
}

// UnexpectedEnum reports an unwanted variant value.
func UnexpectedEnum() Unexpected {
	return Unexpected{kind: unexpectedEnum}
}

// UnexpectedUnitVariant reports an enum variant that carried no payload
// where a payload was required.
func UnexpectedUnitVariant() Unexpected {
	return Unexpected{kind: unexpectedUnitVariant}
}

func (u Unexpected) String() string {
	switch u.kind {
	case unexpectedNull:
		return "null"
	case unexpectedBool:
		return "boolean " + strconv.FormatBool(u.b)
	case unexpectedInt:
		return "integer " + strconv.FormatInt(u.i, 10)
	case unexpectedUint:
		return "unsigned integer " + strconv.FormatUint(u.u, 10)
	case unexpectedFloat:
		return "floating point " + strconv.FormatFloat(u.f, 'g', -1, 64)
	case unexpectedString:
		return "string " + strconv.Quote(u.s)
	case unexpectedSeq:
		return "sequence"
	case unexpectedMap:
		return "map"
	case unexpectedOption:
		return "optional value"
	case unexpectedNewtype:
		return "newtype value"
	case unexpectedEnum:
		return "enum"
	case unexpectedUnitVariant:
		return "unit variant"
	default:
		panic("treeval: unknown unexpected kind")
	}
}

// unexpected classifies a value for use in error messages.
func (v Value) unexpected() Unexpected {
	switch v.kind {
	case KindNull:
		return UnexpectedNull()
	case KindBool:
		return UnexpectedBool(v.b)
	case KindInt:
		return UnexpectedInt(v.i)
	case KindFloat:
		return UnexpectedFloat(v.f)
	case KindString:
		return UnexpectedString(v.s)
	case KindSequence:
		return UnexpectedSeq()
	case KindMapping:
		return UnexpectedMap()
	default:
		panic("treeval: unknown value kind")
	}
}
