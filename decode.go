package treeval

var (
	_ Decoder = Value{}
	_ Decoder = (*seqDecoder)(nil)
	_ Decoder = (*mapDecoder)(nil)

	_ SeqAccess     = (*seqDecoder)(nil)
	_ MapAccess     = (*mapDecoder)(nil)
	_ EnumAccess    = (*enumAccess)(nil)
	_ VariantAccess = variantAccess{}
)

// Decode dispatches on the shape of v: scalars go straight to the matching
// Visit method, sequences and mappings hand the visitor an access cursor
// over their elements. Composite values must be drained: if the visitor
// returns with elements still pending, the decode fails with an
// [InvalidLength] error carrying the original element count.
func (v Value) Decode(visitor Visitor) (any, error) {
	switch v.kind {
	case KindNull:
		return visitor.VisitNull()
	case KindBool:
		return visitor.VisitBool(v.b)
	case KindInt:
		return visitor.VisitInt(v.i)
	case KindFloat:
		return visitor.VisitFloat(v.f)
	case KindString:
		return visitor.VisitString(v.s)
	case KindSequence:
		return decodeElements(v.seq, visitor)
	case KindMapping:
		return decodeEntries(v.m.entries, visitor)
	default:
		panic("treeval: unknown value kind")
	}
}

// DecodeOption maps null to VisitNone and re-offers any other value through
// VisitSome.
func (v Value) DecodeOption(visitor Visitor) (any, error) {
	if v.kind == KindNull {
		return visitor.VisitNone()
	}
	return visitor.VisitSome(v)
}

// DecodeNewtype hands v to VisitNewtype unchanged; wrappers have no shape
// of their own in the tree data model.
func (v Value) DecodeNewtype(visitor Visitor) (any, error) {
	return visitor.VisitNewtype(v)
}

// DecodeEnum reinterprets v as an externally tagged variant. A string is a
// bare variant name; a mapping with exactly one entry is a name with a
// payload. A mapping of any other size is an [InvalidValue], every other
// shape an [InvalidType].
func (v Value) DecodeEnum(visitor Visitor) (any, error) {
	switch v.kind {
	case KindString:
		return visitor.VisitEnum(&enumAccess{tag: v})

	case KindMapping:
		if v.m.Len() != 1 {
			return nil, NewInvalidValue(UnexpectedMap(), "map with a single key")
		}
		entry := v.m.entries[0]
		v.m.entries[0] = mapEntry{}
		return visitor.VisitEnum(&enumAccess{
			tag:        entry.key,
			payload:    entry.value,
			hasPayload: true,
		})

	default:
		return nil, NewInvalidType(v.unexpected(), "string or map")
	}
}

// decodeElements runs VisitSeq over the elements of a sequence value and
// enforces that the visitor consumed all of them.
func decodeElements(elems []Value, visitor Visitor) (any, error) {
	length := len(elems)
	seq := &seqDecoder{elems: elems}

	result, err := visitor.VisitSeq(seq)
	if err != nil {
		return nil, err
	}
	if seq.remaining() != 0 {
		return nil, NewInvalidLength(length, "fewer elements in sequence")
	}
	return result, nil
}

// decodeEntries runs VisitMap over the entries of a mapping value and
// enforces that the visitor consumed all of them.
func decodeEntries(entries []mapEntry, visitor Visitor) (any, error) {
	length := len(entries)
	m := &mapDecoder{entries: entries}

	result, err := visitor.VisitMap(m)
	if err != nil {
		return nil, err
	}
	if m.remaining() != 0 {
		return nil, NewInvalidLength(length, "fewer elements in map")
	}
	return result, nil
}

// seqDecoder is a forward cursor over the elements of a sequence. Elements
// are moved out one at a time; a cleared slot is never handed out twice.
type seqDecoder struct {
	elems []Value
	next  int
}

func (s *seqDecoder) remaining() int {
	return len(s.elems) - s.next
}

func (s *seqDecoder) NextElement(seed Seed) (any, bool, error) {
	if s.next >= len(s.elems) {
		return nil, false, nil
	}

	elem := s.elems[s.next]
	s.elems[s.next] = Value{}
	s.next++

	value, err := seed(elem)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *seqDecoder) SizeHint() (int, bool) {
	return s.remaining(), true
}

// Decode treats the remaining elements as a value of their own: an
// exhausted cursor decodes as null, anything else dispatches VisitSeq with
// the usual leftover check. This is how tuple variant payloads and other
// nested sequence positions decode.
func (s *seqDecoder) Decode(visitor Visitor) (any, error) {
	length := s.remaining()
	if length == 0 {
		return visitor.VisitNull()
	}

	result, err := visitor.VisitSeq(s)
	if err != nil {
		return nil, err
	}
	if s.remaining() != 0 {
		return nil, NewInvalidLength(length, "fewer elements in sequence")
	}
	return result, nil
}

func (s *seqDecoder) DecodeOption(visitor Visitor) (any, error) {
	return s.Decode(visitor)
}

func (s *seqDecoder) DecodeNewtype(visitor Visitor) (any, error) {
	return s.Decode(visitor)
}

func (s *seqDecoder) DecodeEnum(visitor Visitor) (any, error) {
	return s.Decode(visitor)
}

// mapDecoder is a forward cursor over the entries of a mapping. NextKey
// parks the entry's value for the NextValue call that must follow.
type mapDecoder struct {
	entries []mapEntry
	next    int

	pending    Value
	hasPending bool
}

func (m *mapDecoder) remaining() int {
	return len(m.entries) - m.next
}

func (m *mapDecoder) NextKey(seed Seed) (any, bool, error) {
	if m.next >= len(m.entries) {
		return nil, false, nil
	}

	entry := m.entries[m.next]
	m.entries[m.next] = mapEntry{}
	m.next++

	m.pending = entry.value
	m.hasPending = true

	key, err := seed(entry.key)
	if err != nil {
		return nil, false, err
	}
	return key, true, nil
}

func (m *mapDecoder) NextValue(seed Seed) (any, error) {
	if !m.hasPending {
		panic("treeval: NextValue called before NextKey")
	}

	value := m.pending
	m.pending = Value{}
	m.hasPending = false

	return seed(value)
}

func (m *mapDecoder) SizeHint() (int, bool) {
	return m.remaining(), true
}

// Decode dispatches VisitMap over the remaining entries. Unlike the
// sequence form there is no leftover check on this path; only a mapping
// decoded from a [Value] enforces exhaustion.
func (m *mapDecoder) Decode(visitor Visitor) (any, error) {
	return visitor.VisitMap(m)
}

func (m *mapDecoder) DecodeOption(visitor Visitor) (any, error) {
	return m.Decode(visitor)
}

func (m *mapDecoder) DecodeNewtype(visitor Visitor) (any, error) {
	return m.Decode(visitor)
}

func (m *mapDecoder) DecodeEnum(visitor Visitor) (any, error) {
	return m.Decode(visitor)
}

// enumAccess splits a variant value into its name and payload.
type enumAccess struct {
	tag        Value
	payload    Value
	hasPayload bool
}

func (e *enumAccess) Variant(seed Seed) (any, VariantAccess, error) {
	name, err := seed(e.tag)
	if err != nil {
		return nil, nil, err
	}
	return name, variantAccess{payload: e.payload, hasPayload: e.hasPayload}, nil
}

// variantAccess decodes the payload half of a variant. The payload the
// input actually carried decides which of the four forms succeed.
type variantAccess struct {
	payload    Value
	hasPayload bool
}

func (v variantAccess) UnitVariant() error {
	if !v.hasPayload || v.payload.kind == KindNull {
		return nil
	}
	return NewInvalidType(v.payload.unexpected(), "unit")
}

func (v variantAccess) NewtypeVariant(seed Seed) (any, error) {
	if !v.hasPayload {
		return nil, NewInvalidType(UnexpectedUnitVariant(), "newtype variant")
	}
	return seed(v.payload)
}

func (v variantAccess) TupleVariant(seed Seed) (any, error) {
	switch {
	case !v.hasPayload:
		return nil, NewInvalidType(UnexpectedUnitVariant(), "tuple variant")
	case v.payload.kind == KindSequence:
		return seed(&seqDecoder{elems: v.payload.seq})
	default:
		return nil, NewInvalidType(v.payload.unexpected(), "tuple variant")
	}
}

func (v variantAccess) StructVariant(seed Seed) (any, error) {
	switch {
	case !v.hasPayload:
		return nil, NewInvalidType(UnexpectedUnitVariant(), "struct variant")
	case v.payload.kind == KindMapping:
		return seed(&mapDecoder{entries: v.payload.m.entries})
	default:
		return nil, NewInvalidType(v.payload.unexpected(), "struct variant")
	}
}
