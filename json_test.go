package treeval

import (
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func TestFromJSONScalars(t *testing.T) {
	cases := []struct {
		Input string
		Want  Value
	}{
		{"null", Null()},
		{"true", NewBool(true)},
		{"false", NewBool(false)},
		{`"abc"`, NewString("abc")},

		{"21", NewInt(21)},
		{"-3", NewInt(-3)},
		{"9223372036854775807", NewInt(int64(math.MaxInt64))},

		// unsigned integers beyond the signed range keep their decimal text
		{"18446744073709551615", NewString("18446744073709551615")},

		{"2.5", NewFloat(2.5)},
		{"1e3", NewFloat(1000.0)},

		// out of range even for float64, the text is all that is left
		{"1e999", NewString("1e999")},
	}

	for _, tc := range cases {
		value, err := FromJSON([]byte(tc.Input))
		require.NoError(t, err, "input %q", tc.Input)
		require.True(t, value.Equal(tc.Want), "input %q: got %s, want %s", tc.Input, value, tc.Want)
	}
}

func TestFromJSONObjectOrder(t *testing.T) {
	value, err := FromJSON([]byte(`{"b": 1, "a": 2, "m": 3}`))
	require.NoError(t, err)
	require.Equal(t, value.String(), `{"b": 1, "a": 2, "m": 3}`)
}

func TestFromJSONDuplicateKeys(t *testing.T) {
	value, err := FromJSON([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)
	require.Equal(t, value.String(), `{"a": 3, "b": 2}`)
}

func TestFromJSONNested(t *testing.T) {
	value, err := FromJSON([]byte(`{"items": [{"id": 1}, {"id": 2}], "total": 2}`))
	require.NoError(t, err)
	require.Equal(t, value.String(), `{"items": [{"id": 1}, {"id": 2}], "total": 2}`)
}

func TestFromJSONEmptyComposites(t *testing.T) {
	value, err := FromJSON([]byte("[]"))
	require.NoError(t, err)
	require.Equal(t, value.Kind(), KindSequence)

	seq, _ := value.AsSequence()
	require.Len(t, seq, 0)

	value, err = FromJSON([]byte("{}"))
	require.NoError(t, err)
	require.Equal(t, value.Kind(), KindMapping)

	m, _ := value.AsMapping()
	require.Equal(t, m.Len(), 0)
}

func TestFromJSONErrors(t *testing.T) {
	_, err := FromJSON([]byte(""))
	require.EqualError(t, err, "unexpected end of json input")

	_, err = FromJSON([]byte("1 2"))
	require.EqualError(t, err, "trailing data after json value")

	_, err = FromJSON([]byte("[1, 2"))
	require.Error(t, err)
}

func TestJSONValueField(t *testing.T) {
	type Event struct {
		Type    string `json:"type"`
		Payload Value  `json:"payload"`
	}

	var event Event
	err := json.Unmarshal([]byte(`{"type": "created", "payload": {"id": 7, "tags": ["a"]}}`), &event)
	require.NoError(t, err)
	require.Equal(t, event.Type, "created")
	require.Equal(t, event.Payload.String(), `{"id": 7, "tags": ["a"]}`)
}

func TestJSONEndToEnd(t *testing.T) {
	type User struct {
		Name   string   `json:"name"`
		Age    int      `json:"age"`
		Emails []string `json:"emails"`
	}

	value, err := FromJSON([]byte(`{"name": "ada", "age": 36, "emails": ["ada@example.com"]}`))
	require.NoError(t, err)

	user, err := UnmarshalNew[User](value)
	require.NoError(t, err)
	require.Equal(t, user, User{
		Name:   "ada",
		Age:    36,
		Emails: []string{"ada@example.com"},
	})
}
