package treeval

import (
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"math"
	"testing"
)

func TestFromYAMLScalars(t *testing.T) {
	cases := []struct {
		Input string
		Want  Value
	}{
		{"null", Null()},
		{"~", Null()},
		{"", Null()},

		{"true", NewBool(true)},
		{"TRUE", NewBool(true)},
		{"false", NewBool(false)},

		{"12", NewInt(12)},
		{"-7", NewInt(-7)},
		{"0x1F", NewInt(31)},
		{"0o14", NewInt(12)},
		{"014", NewInt(12)},
		{"0b101", NewInt(5)},
		{"1_000", NewInt(1000)},
		{"9223372036854775807", NewInt(int64(math.MaxInt64))},

		// unsigned integers beyond the signed range keep their decimal text
		{"18446744073709551615", NewString("18446744073709551615")},

		{"1.5", NewFloat(1.5)},
		{"-2e3", NewFloat(-2000.0)},
		{".inf", NewFloat(math.Inf(1))},
		{"-.Inf", NewFloat(math.Inf(-1))},

		{"hello", NewString("hello")},
		{`"true"`, NewString("true")},
		{`"12"`, NewString("12")},

		// YAML 1.2 core schema, not booleans
		{"yes", NewString("yes")},
		{"on", NewString("on")},

		// a YAML 1.1 octal form with digits that are not valid octal
		{"01289", NewString("01289")},

		{"2015-02-24", NewString("2015-02-24")},
	}

	for _, tc := range cases {
		value, err := FromYAML([]byte(tc.Input))
		require.NoError(t, err, "input %q", tc.Input)
		require.True(t, value.Equal(tc.Want), "input %q: got %s, want %s", tc.Input, value, tc.Want)
	}
}

func TestFromYAMLNaN(t *testing.T) {
	value, err := FromYAML([]byte(".NaN"))
	require.NoError(t, err)

	f, ok := value.AsFloat()
	require.True(t, ok)
	require.True(t, math.IsNaN(f))
}

func TestFromYAMLKeyOrder(t *testing.T) {
	const doc = `
name: treeval
replicas: 3
ports:
  - 80
  - 443
labels:
  app: demo
  tier: backend
`

	value, err := FromYAML([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, value.String(),
		`{"name": "treeval", "replicas": 3, "ports": [80, 443], "labels": {"app": "demo", "tier": "backend"}}`)
}

func TestFromYAMLDuplicateKeys(t *testing.T) {
	value, err := FromYAML([]byte("a: 1\nb: 2\na: 3\n"))
	require.NoError(t, err)
	require.Equal(t, value.String(), `{"a": 3, "b": 2}`)
}

func TestFromYAMLMixedKeyKinds(t *testing.T) {
	value, err := FromYAML([]byte("1: int\n1.0: float\n\"1\": string\n"))
	require.NoError(t, err)

	m, ok := value.AsMapping()
	require.True(t, ok)
	require.Equal(t, m.Len(), 3)

	v, ok := m.Get(NewInt(1))
	require.True(t, ok)
	require.True(t, v.Equal(NewString("int")))

	v, ok = m.Get(NewFloat(1.0))
	require.True(t, ok)
	require.True(t, v.Equal(NewString("float")))

	v, ok = m.Get(NewString("1"))
	require.True(t, ok)
	require.True(t, v.Equal(NewString("string")))
}

func TestFromYAMLAliases(t *testing.T) {
	const doc = `
base: &base
  host: localhost
  port: 8080
copy: *base
first: &a 1
second: *a
`

	value, err := FromYAML([]byte(doc))
	require.NoError(t, err)

	m, _ := value.AsMapping()

	base, _ := m.Get(NewString("base"))
	clone, ok := m.Get(NewString("copy"))
	require.True(t, ok)
	require.True(t, clone.Equal(base))

	second, ok := m.Get(NewString("second"))
	require.True(t, ok)
	require.True(t, second.Equal(NewInt(1)))
}

func TestFromYAMLAliasCycle(t *testing.T) {
	_, err := FromYAML([]byte("a: &x\n  b: *x\n"))
	require.ErrorContains(t, err, "contains itself")
}

func TestFromYAMLMergeKeys(t *testing.T) {
	const doc = `
anchors:
  list:
    - &CENTER { x: 1, y: 2 }
    - &LEFT { x: 0, y: 2 }
    - &BIG { r: 10 }
    - &SMALL { r: 1 }
plain:
  x: 1
  y: 2
  r: 10
  label: center/big
mergeOne:
  <<: *CENTER
  r: 10
  label: center/big
mergeMultiple:
  <<: [*CENTER, *BIG]
  label: center/big
override:
  <<: [*BIG, *LEFT, *SMALL]
  x: 1
  label: center/big
shortTag:
  !!merge << : [*CENTER, *BIG]
  label: center/big
`

	value, err := FromYAML([]byte(doc))
	require.NoError(t, err)

	m, _ := value.AsMapping()
	plain, ok := m.Get(NewString("plain"))
	require.True(t, ok)

	for _, name := range []string{"mergeOne", "mergeMultiple", "override", "shortTag"} {
		merged, ok := m.Get(NewString(name))
		require.True(t, ok)
		require.True(t, merged.Equal(plain), "%s: got %s, want %s", name, merged, plain)
	}
}

func TestFromYAMLQuotedMergeKeyIsLiteral(t *testing.T) {
	value, err := FromYAML([]byte(`"<<": 1`))
	require.NoError(t, err)

	m, _ := value.AsMapping()
	v, ok := m.Get(NewString("<<"))
	require.True(t, ok)
	require.True(t, v.Equal(NewInt(1)))
}

func TestFromYAMLMergeRequiresMap(t *testing.T) {
	_, err := FromYAML([]byte("<<: 5\n"))
	require.ErrorContains(t, err, "map merge requires map or sequence of maps")
}

func TestFromYAMLBadExplicitTag(t *testing.T) {
	_, err := FromYAML([]byte("!!int hello"))
	require.ErrorContains(t, err, `cannot decode "hello" as !!int`)

	_, err = FromYAML([]byte("!!bool yes"))
	require.ErrorContains(t, err, `cannot decode "yes" as !!bool`)

	_, err = FromYAML([]byte("!mytag 5"))
	require.ErrorContains(t, err, `cannot unmarshal tag "!mytag"`)
}

func TestYAMLValueField(t *testing.T) {
	type Config struct {
		Name string `yaml:"name"`
		Spec Value  `yaml:"spec"`
	}

	const doc = `
name: demo
spec:
  replicas: 3
  ports: [80, 443]
`

	var cfg Config
	err := yaml.Unmarshal([]byte(doc), &cfg)
	require.NoError(t, err)
	require.Equal(t, cfg.Name, "demo")
	require.Equal(t, cfg.Spec.String(), `{"replicas": 3, "ports": [80, 443]}`)
}

func TestYAMLEndToEnd(t *testing.T) {
	type Server struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	}
	type Config struct {
		Server   Server    `json:"server"`
		Timeouts []float64 `json:"timeouts"`
		Debug    bool      `json:"debug"`
	}

	const doc = `
server:
  host: localhost
  port: 8080
timeouts: [1.5, 30]
debug: true
`

	value, err := FromYAML([]byte(doc))
	require.NoError(t, err)

	cfg, err := UnmarshalNew[Config](value)
	require.NoError(t, err)
	require.Equal(t, cfg, Config{
		Server:   Server{Host: "localhost", Port: 8080},
		Timeouts: []float64{1.5, 30},
		Debug:    true,
	})
}
