package treeval

// Prebuilt seeds for the common recursive decode requests. They cover the
// positions where a visitor needs nested values but has no opinion on how
// to shape them.

var (
	anyVis    = anyVisitor{BaseVisitor{Expect: "any value"}}
	valueVis  = valueVisitor{BaseVisitor{Expect: "a tree value"}}
	stringVis = stringVisitor{BaseVisitor{Expect: "a string"}}
	ignoreVis = ignoreVisitor{}
)

// AnySeed decodes a value into its Go-native form: nil, bool, int64,
// float64, string, []any, or map[string]any with string keys.
func AnySeed(dec Decoder) (any, error) {
	return dec.Decode(anyVis)
}

// ValueSeed decodes a value back into a [Value]. Decoding a tree with
// ValueSeed rebuilds an equal tree.
func ValueSeed(dec Decoder) (any, error) {
	return dec.Decode(valueVis)
}

// StringSeed decodes a string and nothing else. It is the usual seed for
// mapping keys and variant names.
func StringSeed(dec Decoder) (any, error) {
	return dec.Decode(stringVis)
}

// IgnoreSeed consumes a value of any shape and returns nil. Visitors use it
// to drain input they do not care about without breaking the rule that
// composite values must be fully consumed.
func IgnoreSeed(dec Decoder) (any, error) {
	return dec.Decode(ignoreVis)
}

type anyVisitor struct {
	BaseVisitor
}

func (anyVisitor) VisitNull() (any, error) { return nil, nil }
func (anyVisitor) VisitBool(b bool) (any, error) { return b, nil }
func (anyVisitor) VisitInt(i int64) (any, error) { return i, nil }
func (anyVisitor) VisitUint(u uint64) (any, error) { return u, nil }
func (anyVisitor) VisitFloat(f float64) (any, error) { return f, nil }
func (anyVisitor) VisitString(s string) (any, error) { return s, nil }
func (anyVisitor) VisitNone() (any, error) { return nil, nil }

func (v anyVisitor) VisitSome(dec Decoder) (any, error) {
	return dec.Decode(v)
}

func (v anyVisitor) VisitNewtype(dec Decoder) (any, error) {
	return dec.Decode(v)
}

func (anyVisitor) VisitSeq(seq SeqAccess) (any, error) {
	size, _ := seq.SizeHint()
	out := make([]any, 0, size)

	for {
		elem, ok, err := seq.NextElement(AnySeed)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, elem)
	}
}

func (anyVisitor) VisitMap(m MapAccess) (any, error) {
	size, _ := m.SizeHint()
	out := make(map[string]any, size)

	for {
		key, ok, err := m.NextKey(StringSeed)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}

		value, err := m.NextValue(AnySeed)
		if err != nil {
			return nil, err
		}
		out[key.(string)] = value
	}
}

type valueVisitor struct {
	BaseVisitor
}

func (valueVisitor) VisitNull() (any, error) { return Null(), nil }
func (valueVisitor) VisitBool(b bool) (any, error) { return NewBool(b), nil }
func (valueVisitor) VisitInt(i int64) (any, error) { return NewInt(i), nil }
func (valueVisitor) VisitUint(u uint64) (any, error) { return NewUint(u), nil }
func (valueVisitor) VisitFloat(f float64) (any, error) { return NewFloat(f), nil }
func (valueVisitor) VisitString(s string) (any, error) { return NewString(s), nil }
func (valueVisitor) VisitNone() (any, error) { return Null(), nil }

func (v valueVisitor) VisitSome(dec Decoder) (any, error) {
	return dec.Decode(v)
}

func (v valueVisitor) VisitNewtype(dec Decoder) (any, error) {
	return dec.Decode(v)
}

func (valueVisitor) VisitSeq(seq SeqAccess) (any, error) {
	size, _ := seq.SizeHint()
	out := make([]Value, 0, size)

	for {
		elem, ok, err := seq.NextElement(ValueSeed)
		if err != nil {
			return nil, err
		}
		if !ok {
			return NewSequence(out...), nil
		}
		out = append(out, elem.(Value))
	}
}

func (valueVisitor) VisitMap(ma MapAccess) (any, error) {
	out := NewMapping()

	for {
		key, ok, err := ma.NextKey(ValueSeed)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out.Value(), nil
		}

		value, err := ma.NextValue(ValueSeed)
		if err != nil {
			return nil, err
		}
		out.Set(key.(Value), value.(Value))
	}
}

type stringVisitor struct {
	BaseVisitor
}

func (stringVisitor) VisitString(s string) (any, error) { return s, nil }

// ignoreVisitor accepts every shape and throws the content away. Composite
// values are still drained element by element so that leftover checks pass.
type ignoreVisitor struct{}

func (ignoreVisitor) Expecting() string { return "anything at all" }
func (ignoreVisitor) VisitNull() (any, error) { return nil, nil }
func (ignoreVisitor) VisitBool(bool) (any, error) { return nil, nil }
func (ignoreVisitor) VisitInt(int64) (any, error) { return nil, nil }
func (ignoreVisitor) VisitUint(uint64) (any, error) { return nil, nil }
func (ignoreVisitor) VisitFloat(float64) (any, error) { return nil, nil }
func (ignoreVisitor) VisitString(string) (any, error) { return nil, nil }
func (ignoreVisitor) VisitNone() (any, error) { return nil, nil }

func (v ignoreVisitor) VisitSome(dec Decoder) (any, error) {
	return dec.Decode(v)
}

func (v ignoreVisitor) VisitNewtype(dec Decoder) (any, error) {
	return dec.Decode(v)
}

func (ignoreVisitor) VisitSeq(seq SeqAccess) (any, error) {
	for {
		_, ok, err := seq.NextElement(IgnoreSeed)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}
}

func (ignoreVisitor) VisitMap(m MapAccess) (any, error) {
	for {
		_, ok, err := m.NextKey(IgnoreSeed)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}

		if _, err := m.NextValue(IgnoreSeed); err != nil {
			return nil, err
		}
	}
}

func (ignoreVisitor) VisitEnum(e EnumAccess) (any, error) {
	_, variant, err := e.Variant(IgnoreSeed)
	if err != nil {
		return nil, err
	}

	_, err = variant.NewtypeVariant(IgnoreSeed)
	return nil, err
}
