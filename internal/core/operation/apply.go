package operation

import (
	"context"

	"github.com/hay-kot/hadaf/internal/core/database"
	"github.com/hay-kot/hadaf/internal/core/syntax"
)

// Apply stamps its tags on every record about to be saved. When overwrite is
// false (the defaults operation) a tag is only set on records lacking it.
type Apply struct {
	passthrough
	index     TagIndex
	tags      []syntax.Tag
	overwrite bool
}

// NewApply is the Factory of the apply operation: configured tags replace the
// values records carry.
func NewApply(deps Deps, item *syntax.Item) Operation {
	return &Apply{index: deps.Index, tags: item.Tags, overwrite: true}
}

// NewDefaults is the Factory of the defaults operation: configured tags are
// only added to records that do not carry them.
func NewDefaults(deps Deps, item *syntax.Item) Operation {
	return &Apply{index: deps.Index, tags: item.Tags}
}

func (a *Apply) Names(ctx context.Context) ([]string, error) {
	return unusedNames(ctx, a.index, a.tags)
}

func (a *Apply) Values(ctx context.Context, name string) ([]string, error) {
	return a.index.TagValues(ctx, name)
}

func (a *Apply) InputDbItems(_ context.Context, items []*database.DbItem) ([]*database.DbItem, error) {
	for _, item := range items {
		for _, tag := range a.tags {
			if !a.overwrite && item.HasTag(tag.Name) {
				continue
			}
			item.SetTag(tag.Name, tag.TagData)
		}
	}
	return items, nil
}
