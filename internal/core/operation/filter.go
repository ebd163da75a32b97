package operation

import (
	"context"
	"strings"

	"github.com/hay-kot/hadaf/internal/core/database"
	"github.com/hay-kot/hadaf/internal/core/syntax"
)

// Negation marks a filter tag as negated, as in `@project!:foo`.
const Negation = "!"

// Wildcard matches any value, as in `@project:*`.
const Wildcard = "*"

// predicate tests the value of a record tag; ok is false when the record does
// not carry the tag.
type predicate func(data syntax.TagData, ok bool) bool

type tagFilter struct {
	name  string
	match predicate
}

// Filter keeps the fetched records matching every configured tag:
//
//	@tag:value      tag equals value
//	@tag!:value     tag does not equal value
//	@tag:a..b       tag within a and b, inclusive
//	@tag!:a..b      tag outside a and b
//	@tag:v1,v2      tag is one of the values
//	@tag!:v1,v2     tag is none of the values
//	@tag:*          tag is present
//	@tag!:*         tag is absent
//
// A later tag on the same name replaces an earlier one.
type Filter struct {
	passthrough
	index   TagIndex
	item    *syntax.Item
	filters []tagFilter
}

// NewFilter is the Factory of the filter operation.
func NewFilter(deps Deps, item *syntax.Item) Operation {
	f := &Filter{index: deps.Index, item: item}
	for _, tag := range item.Tags {
		name, negated := strings.CutSuffix(tag.Name, Negation)
		match := newPredicate(tag.TagData)
		if negated {
			base := match
			match = func(data syntax.TagData, ok bool) bool { return !base(data, ok) }
		}
		f.set(tagFilter{name: name, match: match})
	}
	return f
}

func (f *Filter) set(filter tagFilter) {
	for i := range f.filters {
		if f.filters[i].name == filter.name {
			f.filters[i] = filter
			return
		}
	}
	f.filters = append(f.filters, filter)
}

func newPredicate(want syntax.TagData) predicate {
	switch {
	case want.Kind == syntax.KindList:
		alternatives := make([]predicate, len(want.List))
		for i, value := range want.List {
			alternatives[i] = newPredicate(value)
		}
		return func(data syntax.TagData, ok bool) bool {
			for _, alt := range alternatives {
				if alt(data, ok) {
					return true
				}
			}
			return false
		}
	case want.Kind == syntax.KindInterval:
		low, high := want.List[0], want.List[1]
		return func(data syntax.TagData, ok bool) bool {
			if !ok {
				return false
			}
			lo, okLow := syntax.Compare(low, data)
			hi, okHigh := syntax.Compare(data, high)
			return okLow && okHigh && lo <= 0 && hi <= 0
		}
	case want.Kind == syntax.KindText && want.Text == Wildcard:
		return func(_ syntax.TagData, ok bool) bool { return ok }
	default:
		return func(data syntax.TagData, ok bool) bool {
			return ok && syntax.Equal(data, want)
		}
	}
}

// Match reports whether record passes every filter.
func (f *Filter) Match(record *database.DbItem) bool {
	for _, filter := range f.filters {
		data, ok := record.Tag(filter.name)
		if !filter.match(data, ok) {
			return false
		}
	}
	return true
}

func (f *Filter) Names(ctx context.Context) ([]string, error) {
	names, err := unusedNames(ctx, f.index, f.item.Tags)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, 2*len(names))
	for _, name := range names {
		out = append(out, name, name+Negation)
	}
	return out, nil
}

func (f *Filter) Values(ctx context.Context, name string) ([]string, error) {
	return f.index.TagValues(ctx, strings.TrimSuffix(name, Negation))
}

func (f *Filter) OutputDbItems(_ context.Context, items []*database.DbItem) ([]*database.DbItem, error) {
	out := make([]*database.DbItem, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}
	return out, nil
}
