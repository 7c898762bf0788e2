package treeval

import (
	"reflect"
	"slices"
	"strings"
)

type field struct {
	Name  string
	Type  reflect.Type
	Index []int
}

// structFields resolves the decodable fields of a struct type, walking
// embedded structs breadth first. For a contested name the shallowest field
// wins; at equal depth a single explicitly tagged field wins; anything still
// ambiguous is dropped without error, same as encoding/json.
func structFields(ty reflect.Type, structTag string) []field {
	if ty.Kind() != reflect.Struct {
		panic("not a struct")
	}

	type queued struct {
		Type        reflect.Type
		ParentIndex []int
	}

	type candidate struct {
		Explicit bool
		Field    field
	}

	queue := []queued{{Type: ty}}

	candidates := map[string][]candidate{}

	var order []string

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		for idx := range item.Type.NumField() {
			fi := item.Type.Field(idx)
			if !fi.IsExported() {
				continue
			}

			name, explicit := nameOf(fi, structTag)
			if name == "" {
				// this one is skipped
				continue
			}

			// derive the index of this field. ensure we allocate a new slice
			// by setting cap to the length of the parents index
			parent := item.ParentIndex
			index := append(parent[:len(parent):len(parent)], fi.Index...)

			if fi.Anonymous && !explicit {
				// this is an embedded field. skip if not struct
				if fi.Type.Kind() != reflect.Struct {
					continue
				}

				// queue for later analysis
				queue = append(queue, queued{fi.Type, index})
				continue
			}

			if len(candidates[name]) == 0 {
				order = append(order, name)
			}

			candidates[name] = append(candidates[name], candidate{
				Explicit: explicit,
				Field: field{
					Name:  name,
					Index: index,
					Type:  fi.Type,
				},
			})
		}
	}

	var fields []field

	for _, name := range order {
		group := candidates[name]

		// walking in bfs order sorts the group by depth, shallowest first.
		// only candidates at the shallowest depth are visible
		depth := len(group[0].Field.Index)
		visible := group
		for idx, c := range group {
			if len(c.Field.Index) > depth {
				visible = group[:idx]
				break
			}
		}

		if len(visible) == 1 {
			fields = append(fields, visible[0].Field)
			continue
		}

		// several fields at the same depth. a single explicitly tagged
		// field wins, any other conflict drops the name
		explicit := slices.DeleteFunc(slices.Clone(visible), func(c candidate) bool { return !c.Explicit })
		if len(explicit) == 1 {
			fields = append(fields, explicit[0].Field)
		}
	}

	return fields
}

func nameOf(fi reflect.StructField, structTag string) (name string, explicit bool) {
	tag := fi.Tag.Get(structTag)

	if tag == "" {
		// no tag, take the original name
		return fi.Name, false
	}

	if tag == "-" {
		// return an empty name to indicate: skip this field
		return "", true
	}

	idx := strings.IndexByte(tag, ',')
	switch {
	case idx == -1:
		// no comma, take the full tag as explicit name
		return tag, true

	case idx > 0:
		// non empty alias, take up to comma
		return tag[:idx], true

	default:
		// no alias before the comma, keep the field name
		return fi.Name, false
	}
}
