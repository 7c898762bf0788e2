package treeval

import (
	"bytes"
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"io"
	"strconv"
)

// FromJSON parses a single JSON value from data into a [Value]. Object
// member order is preserved, including duplicate keys where the last value
// wins in place.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := jsonValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, errors.New("unexpected end of json input")
		}
		return Value{}, err
	}

	if dec.More() {
		return Value{}, errors.New("trailing data after json value")
	}

	return v, nil
}

// UnmarshalJSON converts JSON into a tree value. It makes [Value] a target
// for [json.Unmarshal], on its own or as a field inside a larger struct.
func (v *Value) UnmarshalJSON(data []byte) error {
	value, err := FromJSON(data)
	if err != nil {
		return err
	}

	*v = value
	return nil
}

func jsonValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			return jsonArray(dec)
		case '{':
			return jsonObject(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}

	case nil:
		return Null(), nil

	case bool:
		return NewBool(t), nil

	case string:
		return NewString(t), nil

	case json.Number:
		return jsonNumber(t), nil

	case float64:
		// only reachable without UseNumber, kept as a safety net
		return NewFloat(t), nil

	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func jsonArray(dec *json.Decoder) (Value, error) {
	var elems []Value

	for dec.More() {
		elem, err := jsonValue(dec)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, elem)
	}

	// consume the closing bracket
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return NewSequence(elems...), nil
}

func jsonObject(dec *json.Decoder) (Value, error) {
	m := NewMapping()

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}

		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("unexpected object key %v", keyTok)
		}

		value, err := jsonValue(dec)
		if err != nil {
			return Value{}, err
		}

		m.Set(NewString(key), value)
	}

	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return m.Value(), nil
}

// jsonNumber picks the leanest kind that holds the literal: int64 first,
// then uint64, then float64. A number that fits none of them keeps its
// decimal text.
func jsonNumber(n json.Number) Value {
	s := n.String()

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return NewInt(i)
	}

	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return NewUint(u)
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return NewFloat(f)
	}

	return NewString(s)
}
