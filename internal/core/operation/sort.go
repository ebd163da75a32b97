package operation

import (
	"context"
	"slices"

	"github.com/hay-kot/hadaf/internal/core/database"
	"github.com/hay-kot/hadaf/internal/core/syntax"
)

type sortKey struct {
	name string
	desc bool
}

// Sort orders the fetched records by the tags configured with `asc` or
// `desc`, in declaration order. Records missing a key come after the ones
// carrying it whatever the direction; ties keep their relative order.
type Sort struct {
	passthrough
	index TagIndex
	tags  []syntax.Tag
	keys  []sortKey
}

// NewSort is the Factory of the sort operation.
func NewSort(deps Deps, item *syntax.Item) Operation {
	s := &Sort{index: deps.Index}
	for _, tag := range item.Tags {
		dir, ok := direction(tag.TagData)
		if !ok {
			continue
		}
		s.tags = append(s.tags, tag)
		s.keys = append(s.keys, sortKey{name: tag.Name, desc: dir == Desc})
	}
	return s
}

func (s *Sort) Names(ctx context.Context) ([]string, error) {
	return unusedNames(ctx, s.index, s.tags)
}

func (s *Sort) Values(context.Context, string) ([]string, error) {
	return Directions(), nil
}

func (s *Sort) OutputDbItems(_ context.Context, items []*database.DbItem) ([]*database.DbItem, error) {
	slices.SortStableFunc(items, s.compare)
	return items, nil
}

func (s *Sort) compare(a, b *database.DbItem) int {
	for _, key := range s.keys {
		x, okA := a.Tag(key.name)
		y, okB := b.Tag(key.name)
		switch {
		case !okA && !okB:
			continue
		case !okA:
			return 1
		case !okB:
			return -1
		}

		c, ok := syntax.Compare(x, y)
		if !ok || c == 0 {
			continue
		}
		if key.desc {
			return -c
		}
		return c
	}
	return 0
}
