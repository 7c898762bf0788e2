package treeval

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"sync"
)

// ErrNoValue indicates that the input carried no entry for a struct field
// that a Binder with [Binder.RequireFields] insists on.
var ErrNoValue = errors.New("no value")

// NotSupportedError indicates that a target type has no tree
// representation, e.g. a channel or a function.
type NotSupportedError struct {
	Type reflect.Type
}

func (n NotSupportedError) Error() string {
	return fmt.Sprintf("type %q is not supported", n.Type)
}

// Unmarshaler is the interface implemented by types that decode themselves
// from a [Decoder]. UnmarshalTree runs before any built-in handling, so the
// type takes over completely; it is also the door to [Decoder.DecodeEnum]
// and [Decoder.DecodeOption] for types with their own shape rules.
type Unmarshaler interface {
	UnmarshalTree(dec Decoder) error
}

// Unmarshal decodes v onto the target, which must be a non-nil pointer.
// It uses the default [Binder]: field names come from the "json" struct
// tag, struct fields without input keep their zero value, and unknown
// mapping keys are consumed and dropped.
func Unmarshal(v Value, target any) error {
	return def.Unmarshal(v, target)
}

// UnmarshalNew decodes v into a fresh T.
func UnmarshalNew[T any](v Value) (T, error) {
	return UnmarshalNewWith[T](&def, v)
}

// UnmarshalNewWith decodes v into a fresh T using the given Binder.
func UnmarshalNewWith[T any](b *Binder, v Value) (T, error) {
	var target T
	err := b.Unmarshal(v, &target)
	return target, err
}

// UnmarshalSeed returns a [Seed] that decodes into target using the
// default [Binder]. It bridges custom visitors back into reflection,
// e.g. for variant payloads.
func UnmarshalSeed(target any) Seed {
	return def.UnmarshalSeed(target)
}

// A setter fills a reflect.Value from the given Decoder
type setter func(Decoder, reflect.Value) error

// A set of types that are currently in construction
type typeSet map[reflect.Type]struct{}

var (
	tyValue           = reflect.TypeFor[Value]()
	tyUnmarshaler     = reflect.TypeFor[Unmarshaler]()
	tyTextUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// The default Binder instance.
var def Binder

// Binder customizes how values bind onto Go types. The zero value reads
// field names from the "json" struct tag, leaves struct fields without
// input at their zero value, and consumes unknown mapping keys silently.
//
// A Binder compiles one [setter] per target type and caches it, so reusing
// a Binder across calls is cheap. It is safe for concurrent use.
type Binder struct {
	// the struct tag that is used
	structTag string

	// Cache for setters, indexed by reflect.Type
	setterCache sync.Map

	// Fail with ErrNoValue if the input has no entry for a struct field
	requireFields bool

	// Fail on mapping keys that match no struct field
	disallowUnknown bool
}

func NewBinder() *Binder {
	return &Binder{structTag: "json"}
}

// WithTag returns a Binder that reads field names from the given struct
// tag instead of "json".
func (b *Binder) WithTag(structTag string) *Binder {
	if b.structTag == structTag {
		return b
	}

	return &Binder{
		structTag:       structTag,
		requireFields:   b.requireFields,
		disallowUnknown: b.disallowUnknown,
	}
}

// RequireFields returns a Binder that fails with [ErrNoValue] when the
// input carries no entry for a struct field.
func (b *Binder) RequireFields() *Binder {
	if b.requireFields {
		return b
	}

	return &Binder{
		structTag:       b.structTag,
		requireFields:   true,
		disallowUnknown: b.disallowUnknown,
	}
}

// DisallowUnknownFields returns a Binder that fails when a mapping carries
// a key matching no field of the target struct.
func (b *Binder) DisallowUnknownFields() *Binder {
	if b.disallowUnknown {
		return b
	}

	return &Binder{
		structTag:       b.structTag,
		requireFields:   b.requireFields,
		disallowUnknown: true,
	}
}

// Unmarshal decodes v onto the target, which must be a non-nil pointer.
func (b *Binder) Unmarshal(v Value, target any) error {
	targetValue := reflect.ValueOf(target).Elem()

	// build the setter for the targets type
	setter, err := b.setterOf(typeSet{}, targetValue.Type())
	if err != nil {
		return err
	}

	return setter(v, targetValue)
}

// UnmarshalSeed returns a [Seed] that decodes into target, which must be a
// non-nil pointer.
func (b *Binder) UnmarshalSeed(target any) Seed {
	targetValue := reflect.ValueOf(target).Elem()

	return func(dec Decoder) (any, error) {
		setter, err := b.setterOf(typeSet{}, targetValue.Type())
		if err != nil {
			return nil, err
		}

		return nil, setter(dec, targetValue)
	}
}

func (b *Binder) setterOf(inConstruction typeSet, ty reflect.Type) (setter, error) {
	if cached, ok := b.setterCache.Load(ty); ok {
		return cached.(setter), nil
	}

	if _, ok := inConstruction[ty]; ok {
		// detected a cycle. return a setter that does a cache lookup when executed.
		// we assume that the actual setter will be in the cache once this setter is executed.
		lazySetter := func(dec Decoder, target reflect.Value) error {
			cached, _ := b.setterCache.Load(ty)
			return cached.(setter)(dec, target)
		}

		return lazySetter, nil
	}

	inConstruction[ty] = struct{}{}

	setter, err := b.makeSetterOf(inConstruction, ty)
	if err != nil {
		return nil, err
	}

	b.setterCache.Store(ty, setter)

	return setter, nil
}

func (b *Binder) makeSetterOf(inConstruction typeSet, ty reflect.Type) (setter, error) {
	if ty == tyValue {
		return setValue, nil
	}

	if reflect.PointerTo(ty).Implements(tyUnmarshaler) {
		return setUnmarshaler, nil
	}

	if reflect.PointerTo(ty).Implements(tyTextUnmarshaler) {
		return setTextUnmarshaler, nil
	}

	switch ty.Kind() {
	case reflect.Bool:
		return setBool, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setInt, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return setUint, nil

	case reflect.Float32, reflect.Float64:
		return setFloat, nil

	case reflect.String:
		return setString, nil

	case reflect.Pointer:
		return b.makeSetPointer(inConstruction, ty)

	case reflect.Struct:
		return b.makeSetStruct(inConstruction, ty)

	case reflect.Slice:
		return b.makeSetSlice(inConstruction, ty)

	case reflect.Array:
		return b.makeSetArray(inConstruction, ty)

	case reflect.Map:
		return b.makeSetMap(inConstruction, ty)

	case reflect.Interface:
		if ty.NumMethod() == 0 {
			return setAny, nil
		}
		return nil, NotSupportedError{Type: ty}

	default:
		return nil, NotSupportedError{Type: ty}
	}
}

func (b *Binder) makeSetStruct(inConstruction typeSet, ty reflect.Type) (setter, error) {
	structTag := b.structTag
	if structTag == "" {
		structTag = "json"
	}

	fields := structFields(ty, structTag)

	setters := make([]setter, 0, len(fields))
	index := make(map[string]int, len(fields))

	for idx, field := range fields {
		se, err := b.setterOf(inConstruction, field.Type)
		if err != nil {
			return nil, fmt.Errorf("setter for field %q: %w", field.Name, err)
		}

		setters = append(setters, se)
		index[field.Name] = idx
	}

	requireFields := b.requireFields
	disallowUnknown := b.disallowUnknown

	setter := func(dec Decoder, target reflect.Value) error {
		_, err := dec.Decode(&structVisitor{
			BaseVisitor:     BaseVisitor{Expect: "struct " + ty.String()},
			fields:          fields,
			setters:         setters,
			index:           index,
			requireFields:   requireFields,
			disallowUnknown: disallowUnknown,
			target:          target,
		})
		return err
	}

	return setter, nil
}

type structVisitor struct {
	BaseVisitor
	fields          []field
	setters         []setter
	index           map[string]int
	requireFields   bool
	disallowUnknown bool
	target          reflect.Value
}

func (v *structVisitor) VisitMap(m MapAccess) (any, error) {
	seen := make([]bool, len(v.fields))

	for {
		key, ok, err := m.NextKey(StringSeed)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		name := key.(string)
		idx, known := v.index[name]
		if !known {
			if v.disallowUnknown {
				return nil, fmt.Errorf("unknown field %q on %q", name, v.target.Type())
			}

			// consume and drop the value to keep the cursor in step
			if _, err := m.NextValue(IgnoreSeed); err != nil {
				return nil, err
			}
			continue
		}

		seen[idx] = true

		fieldValue := v.target.FieldByIndex(v.fields[idx].Index)
		_, err = m.NextValue(func(dec Decoder) (any, error) {
			return nil, v.setters[idx](dec, fieldValue)
		})
		if err != nil {
			return nil, fmt.Errorf("set field %q on %q: %w", name, v.target.Type(), err)
		}
	}

	if v.requireFields {
		for idx, field := range v.fields {
			if !seen[idx] {
				return nil, fmt.Errorf("field %q: %w", field.Name, ErrNoValue)
			}
		}
	}

	return nil, nil
}

func (b *Binder) makeSetMap(inConstruction typeSet, ty reflect.Type) (setter, error) {
	keySetter, err := b.setterOf(inConstruction, ty.Key())
	if err != nil {
		return nil, fmt.Errorf("setter for key type %q: %w", ty, err)
	}

	valueSetter, err := b.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for value type %q: %w", ty, err)
	}

	visitor := mapVisitor{
		BaseVisitor: BaseVisitor{Expect: "a map"},
		mapType:     ty,
		keySetter:   keySetter,
		valueSetter: valueSetter,
	}

	setter := func(dec Decoder, target reflect.Value) error {
		result, err := dec.Decode(visitor)
		if err != nil {
			return err
		}

		target.Set(result.(reflect.Value))
		return nil
	}

	return setter, nil
}

type mapVisitor struct {
	BaseVisitor
	mapType     reflect.Type
	keySetter   setter
	valueSetter setter
}

func (v mapVisitor) VisitMap(m MapAccess) (any, error) {
	size, _ := m.SizeHint()
	out := reflect.MakeMapWithSize(v.mapType, size)

	keyType := v.mapType.Key()
	valueType := v.mapType.Elem()

	for {
		keyTarget := reflect.New(keyType).Elem()
		_, ok, err := m.NextKey(func(dec Decoder) (any, error) {
			return nil, v.keySetter(dec, keyTarget)
		})
		if err != nil {
			return nil, fmt.Errorf("set key: %w", err)
		}
		if !ok {
			return out, nil
		}

		valueTarget := reflect.New(valueType).Elem()
		_, err = m.NextValue(func(dec Decoder) (any, error) {
			return nil, v.valueSetter(dec, valueTarget)
		})
		if err != nil {
			return nil, fmt.Errorf("set value: %w", err)
		}

		out.SetMapIndex(keyTarget, valueTarget)
	}
}

func (b *Binder) makeSetSlice(inConstruction typeSet, ty reflect.Type) (setter, error) {
	elementSetter, err := b.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	var visitor Visitor = sliceVisitor{
		BaseVisitor:   BaseVisitor{Expect: "a sequence"},
		sliceType:     ty,
		elementSetter: elementSetter,
	}

	if ty.Elem().Kind() == reflect.Uint8 {
		// byte slices additionally decode from a string
		visitor = byteSliceVisitor{sliceVisitor{
			BaseVisitor:   BaseVisitor{Expect: "a string or byte sequence"},
			sliceType:     ty,
			elementSetter: elementSetter,
		}}
	}

	setter := func(dec Decoder, target reflect.Value) error {
		result, err := dec.Decode(visitor)
		if err != nil {
			return err
		}

		target.Set(result.(reflect.Value))
		return nil
	}

	return setter, nil
}

type sliceVisitor struct {
	BaseVisitor
	sliceType     reflect.Type
	elementSetter setter
}

func (v sliceVisitor) VisitSeq(seq SeqAccess) (any, error) {
	size, _ := seq.SizeHint()
	out := reflect.MakeSlice(v.sliceType, 0, size)

	elementType := v.sliceType.Elem()

	for idx := 0; ; idx++ {
		elementTarget := reflect.New(elementType).Elem()
		_, ok, err := seq.NextElement(func(dec Decoder) (any, error) {
			return nil, v.elementSetter(dec, elementTarget)
		})
		if err != nil {
			return nil, fmt.Errorf("set element idx=%d: %w", idx, err)
		}
		if !ok {
			return out, nil
		}

		out = reflect.Append(out, elementTarget)
	}
}

type byteSliceVisitor struct {
	sliceVisitor
}

func (v byteSliceVisitor) VisitString(s string) (any, error) {
	bytes := reflect.ValueOf([]byte(s))
	if bytes.Type() != v.sliceType {
		bytes = bytes.Convert(v.sliceType)
	}
	return bytes, nil
}

func (b *Binder) makeSetArray(inConstruction typeSet, ty reflect.Type) (setter, error) {
	elementSetter, err := b.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	visitor := arrayVisitor{
		BaseVisitor:   BaseVisitor{Expect: fmt.Sprintf("an array of length %d", ty.Len())},
		arrayType:     ty,
		elementSetter: elementSetter,
	}

	setter := func(dec Decoder, target reflect.Value) error {
		result, err := dec.Decode(visitor)
		if err != nil {
			return err
		}

		target.Set(result.(reflect.Value))
		return nil
	}

	return setter, nil
}

type arrayVisitor struct {
	BaseVisitor
	arrayType     reflect.Type
	elementSetter setter
}

func (v arrayVisitor) VisitSeq(seq SeqAccess) (any, error) {
	out := reflect.New(v.arrayType).Elem()

	for idx := range v.arrayType.Len() {
		elementTarget := out.Index(idx)
		_, ok, err := seq.NextElement(func(dec Decoder) (any, error) {
			return nil, v.elementSetter(dec, elementTarget)
		})
		if err != nil {
			return nil, fmt.Errorf("set element idx=%d: %w", idx, err)
		}
		if !ok {
			// ran out of input; idx elements were present in total
			return nil, NewInvalidLength(idx, v.Expect)
		}
	}

	return out, nil
}

func (b *Binder) makeSetPointer(inConstruction typeSet, ty reflect.Type) (setter, error) {
	pointeeType := ty.Elem()

	pointeeSetter, err := b.setterOf(inConstruction, pointeeType)
	if err != nil {
		return nil, err
	}

	visitor := pointerVisitor{
		BaseVisitor:   BaseVisitor{Expect: "an optional " + pointeeType.String()},
		pointeeType:   pointeeType,
		pointeeSetter: pointeeSetter,
	}

	setter := func(dec Decoder, target reflect.Value) error {
		result, err := dec.DecodeOption(visitor)
		if err != nil {
			return err
		}

		target.Set(result.(reflect.Value))
		return nil
	}

	return setter, nil
}

// pointerVisitor implements the option semantic of pointer targets: null
// input leaves the pointer nil, anything else allocates and decodes into
// the pointee.
type pointerVisitor struct {
	BaseVisitor
	pointeeType   reflect.Type
	pointeeSetter setter
}

func (v pointerVisitor) VisitNone() (any, error) {
	return reflect.Zero(reflect.PointerTo(v.pointeeType)), nil
}

func (v pointerVisitor) VisitSome(dec Decoder) (any, error) {
	newValue := reflect.New(v.pointeeType)
	if err := v.pointeeSetter(dec, newValue.Elem()); err != nil {
		return nil, err
	}

	return newValue, nil
}

var (
	boolVis  = boolVisitor{BaseVisitor{Expect: "a boolean"}}
	intVis   = intVisitor{BaseVisitor{Expect: "an integer"}}
	uintVis  = uintVisitor{BaseVisitor{Expect: "an unsigned integer"}}
	floatVis = floatVisitor{BaseVisitor{Expect: "a floating point number"}}
)

type boolVisitor struct {
	BaseVisitor
}

func (boolVisitor) VisitBool(b bool) (any, error) { return b, nil }

type intVisitor struct {
	BaseVisitor
}

func (intVisitor) VisitInt(i int64) (any, error) { return i, nil }

func (intVisitor) VisitUint(u uint64) (any, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("invalid int64 value %d: %w", u, strconv.ErrRange)
	}
	return int64(u), nil
}

type uintVisitor struct {
	BaseVisitor
}

func (uintVisitor) VisitInt(i int64) (any, error) {
	if i < 0 {
		return nil, NewInvalidValue(UnexpectedInt(i), "an unsigned integer")
	}
	return uint64(i), nil
}

func (uintVisitor) VisitUint(u uint64) (any, error) { return u, nil }

type floatVisitor struct {
	BaseVisitor
}

func (floatVisitor) VisitInt(i int64) (any, error) { return float64(i), nil }

func (floatVisitor) VisitUint(u uint64) (any, error) { return float64(u), nil }

func (floatVisitor) VisitFloat(f float64) (any, error) { return f, nil }

func setBool(dec Decoder, target reflect.Value) error {
	result, err := dec.Decode(boolVis)
	if err != nil {
		return err
	}

	target.SetBool(result.(bool))
	return nil
}

func setInt(dec Decoder, target reflect.Value) error {
	result, err := dec.Decode(intVis)
	if err != nil {
		return err
	}

	value := result.(int64)
	if target.OverflowInt(value) {
		return fmt.Errorf("invalid %s value %d: %w", target.Type(), value, strconv.ErrRange)
	}

	target.SetInt(value)
	return nil
}

func setUint(dec Decoder, target reflect.Value) error {
	result, err := dec.Decode(uintVis)
	if err != nil {
		return err
	}

	value := result.(uint64)
	if target.OverflowUint(value) {
		return fmt.Errorf("invalid %s value %d: %w", target.Type(), value, strconv.ErrRange)
	}

	target.SetUint(value)
	return nil
}

func setFloat(dec Decoder, target reflect.Value) error {
	result, err := dec.Decode(floatVis)
	if err != nil {
		return err
	}

	target.SetFloat(result.(float64))
	return nil
}

func setString(dec Decoder, target reflect.Value) error {
	result, err := dec.Decode(stringVis)
	if err != nil {
		return err
	}

	target.SetString(result.(string))
	return nil
}

func setValue(dec Decoder, target reflect.Value) error {
	result, err := ValueSeed(dec)
	if err != nil {
		return err
	}

	target.Set(reflect.ValueOf(result))
	return nil
}

func setAny(dec Decoder, target reflect.Value) error {
	result, err := AnySeed(dec)
	if err != nil {
		return err
	}

	if result == nil {
		target.SetZero()
		return nil
	}

	target.Set(reflect.ValueOf(result))
	return nil
}

func setUnmarshaler(dec Decoder, target reflect.Value) error {
	m := target.Addr().Interface().(Unmarshaler)
	return m.UnmarshalTree(dec)
}

func setTextUnmarshaler(dec Decoder, target reflect.Value) error {
	result, err := dec.Decode(stringVis)
	if err != nil {
		return err
	}

	m := target.Addr().Interface().(encoding.TextUnmarshaler)
	return m.UnmarshalText([]byte(result.(string)))
}
