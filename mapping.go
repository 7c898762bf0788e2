package treeval

import (
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Mapping is an ordered collection of key/value pairs. Keys are unique by
// structural equality and iteration yields entries in insertion order.
// Setting a key that is already present overwrites the stored value but
// keeps the original key and its position.
//
// Key identity is decided by a canonical fingerprint of the key value, so
// any Value can be a key, including sequences and mappings. Two float keys
// are the same key when they are numerically equal; all NaN keys are the
// same key, and negative zero is the same key as zero.
//
// The zero Mapping is empty and ready for use.
type Mapping struct {
	entries []mapEntry
	index   map[string]int
}

type mapEntry struct {
	key   Value
	value Value
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{}
}

// Value wraps m into a mapping [Value].
func (m *Mapping) Value() Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{kind: KindMapping, m: m}
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Set stores value under key. A later Set with a structurally equal key
// overwrites the value and keeps the key's original position.
func (m *Mapping) Set(key, value Value) {
	fp := fingerprint(key)
	if idx, ok := m.index[fp]; ok {
		m.entries[idx].value = value
		return
	}

	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[fp] = len(m.entries)
	m.entries = append(m.entries, mapEntry{key: key, value: value})
}

// Get returns the value stored under a key structurally equal to key.
func (m *Mapping) Get(key Value) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	idx, ok := m.index[fingerprint(key)]
	if !ok {
		return Value{}, false
	}
	return m.entries[idx].value, true
}

// Delete removes the entry stored under key and reports whether an entry was
// removed. The positions of the remaining entries are unchanged.
func (m *Mapping) Delete(key Value) bool {
	if m == nil {
		return false
	}
	fp := fingerprint(key)
	idx, ok := m.index[fp]
	if !ok {
		return false
	}

	m.entries = slices.Delete(m.entries, idx, idx+1)
	delete(m.index, fp)
	for mapped, at := range m.index {
		if at > idx {
			m.index[mapped] = at - 1
		}
	}
	return true
}

// All iterates over the entries in insertion order.
func (m *Mapping) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		if m == nil {
			return
		}
		for _, e := range m.entries {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Clone returns a deep copy of m.
func (m *Mapping) Clone() *Mapping {
	if m == nil {
		return NewMapping()
	}

	clone := &Mapping{
		entries: make([]mapEntry, len(m.entries)),
		index:   make(map[string]int, len(m.index)),
	}
	for idx, e := range m.entries {
		clone.entries[idx] = mapEntry{key: e.key.Clone(), value: e.value.Clone()}
	}
	for fp, at := range m.index {
		clone.index[fp] = at
	}
	return clone
}

// fingerprint renders a value into a canonical byte form so that
// structurally equal values collide on a plain string key. Strings are
// length-prefixed and numbers are terminated to keep adjacent encodings
// unambiguous; mapping entries are sorted so entry order does not matter.
func fingerprint(v Value) string {
	var sb strings.Builder
	appendFingerprint(&sb, v)
	return sb.String()
}

func appendFingerprint(sb *strings.Builder, v Value) {
	switch v.kind {
	case KindNull:
		sb.WriteByte('z')
	case KindBool:
		if v.b {
			sb.WriteString("b1")
		} else {
			sb.WriteString("b0")
		}
	case KindInt:
		sb.WriteByte('i')
		sb.WriteString(strconv.FormatInt(v.i, 10))
		sb.WriteByte(';')
	case KindFloat:
		sb.WriteByte('f')
		switch {
		case math.IsNaN(v.f):
			sb.WriteString("nan")
		case v.f == 0:
			// negative zero folds into zero
			sb.WriteString("0")
		default:
			sb.WriteString(strconv.FormatUint(math.Float64bits(v.f), 16))
		}
		sb.WriteByte(';')
	case KindString:
		sb.WriteByte('s')
		sb.WriteString(strconv.Itoa(len(v.s)))
		sb.WriteByte(':')
		sb.WriteString(v.s)
	case KindSequence:
		sb.WriteByte('[')
		for _, elem := range v.seq {
			appendFingerprint(sb, elem)
		}
		sb.WriteByte(']')
	case KindMapping:
		prints := make([]string, 0, v.m.Len())
		for key, value := range v.m.All() {
			var esb strings.Builder
			appendFingerprint(&esb, key)
			appendFingerprint(&esb, value)
			prints = append(prints, esb.String())
		}
		slices.Sort(prints)

		sb.WriteByte('{')
		for _, p := range prints {
			sb.WriteString(p)
		}
		sb.WriteByte('}')
	}
}
