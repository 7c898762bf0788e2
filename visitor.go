package treeval

// Decoder is the dynamic half of the decode protocol. A Decoder represents
// one input value and knows what that value is; it drives a [Visitor], which
// knows what the caller wants. Calling one of the Decode methods hands the
// value to the matching Visit method of the visitor and returns whatever the
// visitor produced.
//
// [Value] is the canonical implementation. Sub-decoders for sequence
// elements, mapping keys and values, and enum payloads are handed out
// during traversal via [SeqAccess], [MapAccess] and [VariantAccess].
//
// A Decoder is consumed by use: composite values hand their elements over
// to the visitor one by one and do not retain them. Decode a [Value] twice
// only after taking a [Value.Clone].
type Decoder interface {
	// Decode dispatches on the actual shape of the value: a null calls
	// VisitNull, a boolean VisitBool, a sequence VisitSeq, and so on. This
	// is the right entry point whenever the caller has no shape
	// requirement of its own.
	Decode(visitor Visitor) (any, error)

	// DecodeOption distinguishes absence from presence. A null value calls
	// VisitNone; everything else calls VisitSome with a Decoder for the
	// value itself.
	DecodeOption(visitor Visitor) (any, error)

	// DecodeNewtype decodes a single-value wrapper. The tree data model
	// gives wrappers no shape of their own, so the value calls
	// VisitNewtype with itself as the inner Decoder.
	DecodeNewtype(visitor Visitor) (any, error)

	// DecodeEnum reinterprets the value as an externally tagged variant:
	// a string is a bare variant name, a mapping with exactly one entry is
	// a name with a payload. The visitor's VisitEnum receives an
	// [EnumAccess] to take the name and payload apart.
	DecodeEnum(visitor Visitor) (any, error)
}

// Visitor receives a value from a [Decoder] and produces a result from it.
// It is the static half of the decode protocol: one Visit method per shape
// the input may take. The method for the shape that actually occurs is
// called exactly once; its result is passed through unchanged, so the
// caller of [Decoder.Decode] gets back precisely what the visitor returned.
//
// A Visitor rarely implements every method. Embed a [BaseVisitor] to
// decline everything by default with an [InvalidType] error and override
// only the shapes the target type can absorb:
//
//	type stringSliceVisitor struct {
//		treeval.BaseVisitor
//	}
//
//	func (v stringSliceVisitor) VisitSeq(seq treeval.SeqAccess) (any, error) {
//		var out []string
//		for {
//			elem, ok, err := seq.NextElement(treeval.StringSeed)
//			if err != nil || !ok {
//				return out, err
//			}
//			out = append(out, elem.(string))
//		}
//	}
//
// Visit methods report failure through their error result. Returning an
// [Error] keeps the structured form available to callers, but any error
// aborts the decode all the same.
type Visitor interface {
	// Expecting describes what this visitor can absorb, phrased to follow
	// "expected", e.g. "a string" or "a map of user records". It is used
	// to build error messages when the input shape does not fit.
	Expecting() string

	// VisitNull handles an explicit null.
	VisitNull() (any, error)

	// VisitBool handles a boolean.
	VisitBool(b bool) (any, error)

	// VisitInt handles a signed integer.
	VisitInt(i int64) (any, error)

	// VisitUint handles an unsigned integer. Tree values normalize
	// unsigned numbers at construction, so this method is only reached
	// through Decoder implementations outside this package.
	VisitUint(u uint64) (any, error)

	// VisitFloat handles a floating point number.
	VisitFloat(f float64) (any, error)

	// VisitString handles a string.
	VisitString(s string) (any, error)

	// VisitNone handles an absent optional value.
	VisitNone() (any, error)

	// VisitSome handles a present optional value.
	VisitSome(dec Decoder) (any, error)

	// VisitNewtype handles a single-value wrapper.
	VisitNewtype(dec Decoder) (any, error)

	// VisitSeq handles a sequence. The visitor must drain seq completely;
	// elements still pending when it returns fail the decode.
	VisitSeq(seq SeqAccess) (any, error)

	// VisitMap handles a mapping. The visitor must drain m completely;
	// entries still pending when it returns fail the decode.
	VisitMap(m MapAccess) (any, error)

	// VisitEnum handles an externally tagged variant.
	VisitEnum(e EnumAccess) (any, error)
}

// A Seed is a decode request that can be applied to any [Decoder]. Access
// types take seeds wherever the original protocol would recurse, so the
// caller decides how nested values are interpreted: pass a custom visitor
// via [Apply], a reflection target via [UnmarshalSeed], or one of the
// prebuilt seeds like [ValueSeed] and [StringSeed].
type Seed func(dec Decoder) (any, error)

// Apply builds a [Seed] that runs the self-describing [Decoder.Decode]
// against visitor.
func Apply(visitor Visitor) Seed {
	return func(dec Decoder) (any, error) {
		return dec.Decode(visitor)
	}
}

// SeqAccess hands out the elements of a sequence, in order, exactly once
// each. It is passed to [Visitor.VisitSeq].
type SeqAccess interface {
	// NextElement decodes the next element with seed. ok is false when the
	// sequence is exhausted; that is not an error.
	NextElement(seed Seed) (value any, ok bool, err error)

	// SizeHint returns the number of remaining elements if known.
	SizeHint() (int, bool)
}

// MapAccess hands out the entries of a mapping in order, split into key and
// value steps so both sides can be decoded with their own seeds. It is
// passed to [Visitor.VisitMap].
//
// Calls must alternate: NextKey, then NextValue for the same entry.
// Calling NextValue with no key pending is a bug in the visitor and
// panics.
type MapAccess interface {
	// NextKey decodes the next entry's key with seed and parks the entry's
	// value for the following NextValue call. ok is false when the mapping
	// is exhausted.
	NextKey(seed Seed) (key any, ok bool, err error)

	// NextValue decodes the value parked by the preceding NextKey.
	NextValue(seed Seed) (value any, err error)

	// SizeHint returns the number of remaining entries if known.
	SizeHint() (int, bool)
}

// EnumAccess splits an externally tagged variant into its name and its
// payload. It is passed to [Visitor.VisitEnum].
type EnumAccess interface {
	// Variant decodes the variant name with seed and returns a
	// [VariantAccess] for the payload.
	Variant(seed Seed) (name any, payload VariantAccess, err error)
}

// VariantAccess decodes the payload of a variant. Exactly one method must
// be called, chosen by what the named variant expects; a mismatch between
// the expectation and the payload that is actually present yields an
// [InvalidType] error.
type VariantAccess interface {
	// UnitVariant asserts that the variant carries no payload. An explicit
	// null payload is accepted as no payload.
	UnitVariant() error

	// NewtypeVariant decodes a single-value payload with seed.
	NewtypeVariant(seed Seed) (any, error)

	// TupleVariant decodes a sequence payload with seed.
	TupleVariant(seed Seed) (any, error)

	// StructVariant decodes a mapping payload with seed.
	StructVariant(seed Seed) (any, error)
}
