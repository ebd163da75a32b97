package database

import (
	"slices"

	"github.com/hay-kot/hadaf/internal/core/syntax"
)

// add indexes every tag of item under its stringified value. Tags that
// stringify to the empty string are not indexed.
func (idx Index) add(codec *syntax.Codec, item *DbItem) {
	for name, data := range item.TagsData {
		value := codec.StringifyValue(data)
		if value == "" {
			continue
		}
		values, ok := idx[name]
		if !ok {
			values = map[string][]int{}
			idx[name] = values
		}
		if !slices.Contains(values[value], item.ID) {
			values[value] = append(values[value], item.ID)
		}
	}
}

// remove drops the index entries of item, pruning empty value and name maps.
func (idx Index) remove(codec *syntax.Codec, item *DbItem) {
	for name, data := range item.TagsData {
		values, ok := idx[name]
		if !ok {
			continue
		}
		value := codec.StringifyValue(data)
		ids := slices.DeleteFunc(values[value], func(id int) bool { return id == item.ID })
		if len(ids) == 0 {
			delete(values, value)
		} else {
			values[value] = ids
		}
		if len(values) == 0 {
			delete(idx, name)
		}
	}
}

// Names returns the indexed tag names, sorted.
func (idx Index) Names() []string {
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Values returns the indexed values of the tag named name, sorted.
func (idx Index) Values(name string) []string {
	values := make([]string, 0, len(idx[name]))
	for value := range idx[name] {
		values = append(values, value)
	}
	slices.Sort(values)
	return values
}
