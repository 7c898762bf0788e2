package treeval

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// FromYAML parses the first YAML document in data into a [Value]. An empty
// document parses as null.
func FromYAML(data []byte) (Value, error) {
	var v Value
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Value{}, err
	}
	return v, nil
}

// UnmarshalYAML converts a YAML node into a tree value. It makes [Value] a
// target for [yaml.Unmarshal], on its own or as a field inside a larger
// struct.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var c yamlConverter

	value, err := c.value(node)
	if err != nil {
		return err
	}

	*v = value
	return nil
}

type yamlConverter struct {
	// expanding guards against aliases that contain themselves
	expanding map[*yaml.Node]bool
}

func (c *yamlConverter) value(yn *yaml.Node) (Value, error) {
	switch yn.Kind {
	case yaml.DocumentNode:
		if len(yn.Content) == 0 {
			return Null(), nil
		}
		return c.value(yn.Content[0])

	case yaml.SequenceNode:
		return c.sequence(yn)

	case yaml.MappingNode:
		return c.mapping(yn)

	case yaml.ScalarNode:
		return c.scalar(yn)

	case yaml.AliasNode:
		return c.alias(yn)

	default:
		return Value{}, fmt.Errorf("unknown yaml node kind: %d", yn.Kind)
	}
}

func (c *yamlConverter) alias(yn *yaml.Node) (Value, error) {
	if c.expanding[yn] {
		return Value{}, fmt.Errorf("anchor %q contains itself", yn.Value)
	}

	if c.expanding == nil {
		c.expanding = make(map[*yaml.Node]bool)
	}
	c.expanding[yn] = true

	value, err := c.value(yn.Alias)
	delete(c.expanding, yn)

	return value, err
}

func (c *yamlConverter) sequence(yn *yaml.Node) (Value, error) {
	elems := make([]Value, 0, len(yn.Content))

	for _, child := range yn.Content {
		elem, err := c.value(child)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, elem)
	}

	return NewSequence(elems...), nil
}

func (c *yamlConverter) mapping(yn *yaml.Node) (Value, error) {
	m := NewMapping()

	// merge keys apply after the explicit entries so that explicit entries
	// always win, matching what yaml.v3 itself does for map targets
	var mergeNodes []*yaml.Node

	for idx := 0; idx+1 < len(yn.Content); idx += 2 {
		keyNode, valueNode := yn.Content[idx], yn.Content[idx+1]

		if isMergeKey(keyNode) {
			mergeNodes = append(mergeNodes, valueNode)
			continue
		}

		key, err := c.value(keyNode)
		if err != nil {
			return Value{}, err
		}

		value, err := c.value(valueNode)
		if err != nil {
			return Value{}, err
		}

		m.Set(key, value)
	}

	for _, mergeNode := range mergeNodes {
		if err := c.merge(mergeNode, m); err != nil {
			return Value{}, err
		}
	}

	return m.Value(), nil
}

// merge applies the value of a "<<" entry to m: a mapping, an alias to a
// mapping, or a sequence of those. Only keys absent from m are inserted, so
// explicit entries and earlier merge entries stay in charge.
func (c *yamlConverter) merge(yn *yaml.Node, m *Mapping) error {
	switch yn.Kind {
	case yaml.SequenceNode:
		for _, child := range yn.Content {
			if err := c.merge(child, m); err != nil {
				return err
			}
		}
		return nil

	case yaml.MappingNode, yaml.AliasNode:
		value, err := c.value(yn)
		if err != nil {
			return err
		}

		merged, ok := value.AsMapping()
		if !ok {
			return fmt.Errorf("map merge requires map or sequence of maps as the value")
		}

		for key, v := range merged.All() {
			if _, present := m.Get(key); !present {
				m.Set(key, v)
			}
		}
		return nil

	default:
		return fmt.Errorf("map merge requires map or sequence of maps as the value")
	}
}

func isMergeKey(yn *yaml.Node) bool {
	return yn.Kind == yaml.ScalarNode && yn.Value == "<<" &&
		(yn.Tag == "" || yn.Tag == "!" || yn.ShortTag() == mergeTag)
}

const (
	nullTag      = "!!null"
	boolTag      = "!!bool"
	strTag       = "!!str"
	intTag       = "!!int"
	floatTag     = "!!float"
	timestampTag = "!!timestamp"
	binaryTag    = "!!binary"
	mergeTag     = "!!merge"
)

// rxOctalYaml11 matches the YAML 1.1 base-8 integer form, deliberately
// including the digits 8 and 9 which are not valid octal.
var rxOctalYaml11 = sync.OnceValue(func() *regexp.Regexp {
	return regexp.MustCompile(`^[-+]?0[0-9_]+$`)
})

func (c *yamlConverter) scalar(yn *yaml.Node) (Value, error) {
	tag := yn.ShortTag()

	// An untagged scalar like 01289 is a YAML 1.1 octal literal with digits
	// that are not valid octal; yaml.v3 resolves it as a float. Most YAML
	// decoders fall back to a string here, so do the same.
	if yn.Style&yaml.TaggedStyle == 0 && tag == floatTag && rxOctalYaml11().MatchString(yn.Value) {
		tag = strTag
	}

	switch tag {
	case nullTag:
		return Null(), nil

	case boolTag:
		switch yn.Value {
		case "true", "True", "TRUE":
			return NewBool(true), nil
		case "false", "False", "FALSE":
			return NewBool(false), nil
		default:
			return Value{}, fmt.Errorf("cannot decode %q as %s", yn.Value, tag)
		}

	case intTag:
		return yamlInteger(yn.Value)

	case floatTag:
		return yamlFloat(yn.Value)

	case strTag, timestampTag, binaryTag:
		// timestamps stay strings; !!binary keeps its base64 text
		return NewString(yn.Value), nil

	default:
		return Value{}, fmt.Errorf("cannot unmarshal tag %q", tag)
	}
}

// yamlInteger parses an integer scalar. The resolver strips digit
// underscores before tagging, so parsing does the same. ParseInt with base 0
// covers the 0x, 0o and 0b prefixes and the bare leading-zero octal form.
// Values beyond the int64 range widen through uint64 and finally fall back
// to the decimal string.
func yamlInteger(s string) (Value, error) {
	plain := strings.ReplaceAll(s, "_", "")

	i, err := strconv.ParseInt(plain, 0, 64)
	if err == nil {
		return NewInt(i), nil
	}

	u, uerr := strconv.ParseUint(plain, 0, 64)
	if uerr == nil {
		return NewUint(u), nil
	}

	return Value{}, fmt.Errorf("cannot decode %q as %s: %w", s, intTag, err)
}

func yamlFloat(s string) (Value, error) {
	switch s {
	case ".inf", ".Inf", ".INF", "+.inf", "+.Inf", "+.INF":
		return NewFloat(math.Inf(1)), nil
	case "-.inf", "-.Inf", "-.INF":
		return NewFloat(math.Inf(-1)), nil
	case ".nan", ".NaN", ".NAN":
		return NewFloat(math.NaN()), nil
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	if err != nil {
		return Value{}, fmt.Errorf("cannot decode %q as %s: %w", s, floatTag, err)
	}
	return NewFloat(f), nil
}
