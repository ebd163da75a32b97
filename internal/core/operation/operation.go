// Package operation implements the declarative transforms a document can
// request in its operations section. Each operation is bound to the item that
// configures it and hooks into the four phases around the database boundary.
package operation

import (
	"context"
	"slices"

	"github.com/hay-kot/hadaf/internal/core/database"
	"github.com/hay-kot/hadaf/internal/core/syntax"
)

// TagIndex exposes the indexed tag names and values used for suggestions.
type TagIndex interface {
	TagNames(ctx context.Context) ([]string, error)
	TagValues(ctx context.Context, name string) ([]string, error)
}

// Deps are the collaborators handed to operation factories.
type Deps struct {
	Index TagIndex
	Codec *syntax.Codec
}

// Operation is a pipeline stage. Input phases run in declaration order, output
// phases in reverse order.
type Operation interface {
	// Names returns the tag names the operation accepts next.
	Names(ctx context.Context) ([]string, error)
	// Values returns the values suggested for the tag named name.
	Values(ctx context.Context, name string) ([]string, error)

	InputItems(ctx context.Context, items []*syntax.Item) ([]*syntax.Item, error)
	InputDbItems(ctx context.Context, items []*database.DbItem) ([]*database.DbItem, error)
	OutputDbItems(ctx context.Context, items []*database.DbItem) ([]*database.DbItem, error)
	OutputItems(ctx context.Context, items []*syntax.Item) ([]*syntax.Item, error)
}

// Factory binds an operation to its configuration item.
type Factory func(deps Deps, item *syntax.Item) Operation

// passthrough implements every phase as the identity. Operations embed it
// and override the phases they act on.
type passthrough struct{}

func (passthrough) InputItems(_ context.Context, items []*syntax.Item) ([]*syntax.Item, error) {
	return items, nil
}

func (passthrough) InputDbItems(_ context.Context, items []*database.DbItem) ([]*database.DbItem, error) {
	return items, nil
}

func (passthrough) OutputDbItems(_ context.Context, items []*database.DbItem) ([]*database.DbItem, error) {
	return items, nil
}

func (passthrough) OutputItems(_ context.Context, items []*syntax.Item) ([]*syntax.Item, error) {
	return items, nil
}

// unusedNames returns the indexed tag names not present in tags.
func unusedNames(ctx context.Context, index TagIndex, tags []syntax.Tag) ([]string, error) {
	names, err := index.TagNames(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(names, func(name string) bool {
		return slices.ContainsFunc(tags, func(tag syntax.Tag) bool { return tag.Name == name })
	}), nil
}

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Directions lists the accepted sort directions.
func Directions() []string {
	return []string{Asc, Desc}
}

// direction reports the sort direction a tag value names.
func direction(data syntax.TagData) (string, bool) {
	if data.Kind != syntax.KindText {
		return "", false
	}
	switch data.Text {
	case Asc, Desc:
		return data.Text, true
	default:
		return "", false
	}
}
