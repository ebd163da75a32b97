package operation

import (
	"context"
	"slices"

	"github.com/hay-kot/hadaf/internal/core/syntax"
)

// MissingLabel titles the group of items lacking the grouping tag.
const MissingLabel = "[undefined]"

type groupKey struct {
	name string
	desc bool
}

// GroupBy nests the output under one level of container items per configured
// tag, titled by the tag value. On input it flattens those containers back and
// stamps each item with the tags its container labels encode.
type GroupBy struct {
	passthrough
	index TagIndex
	codec *syntax.Codec
	tags  []syntax.Tag
	keys  []groupKey
}

// NewGroupBy is the Factory of the groupBy operation.
func NewGroupBy(deps Deps, item *syntax.Item) Operation {
	g := &GroupBy{index: deps.Index, codec: deps.Codec, tags: item.Tags}
	for _, tag := range item.Tags {
		dir, _ := direction(tag.TagData)
		g.keys = append(g.keys, groupKey{name: tag.Name, desc: dir == Desc})
	}
	return g
}

func (g *GroupBy) Names(ctx context.Context) ([]string, error) {
	return unusedNames(ctx, g.index, g.tags)
}

func (g *GroupBy) Values(context.Context, string) ([]string, error) {
	return Directions(), nil
}

func (g *GroupBy) InputItems(_ context.Context, items []*syntax.Item) ([]*syntax.Item, error) {
	return g.flatten(items, 0, nil), nil
}

func (g *GroupBy) OutputItems(_ context.Context, items []*syntax.Item) ([]*syntax.Item, error) {
	return g.group(items, 0), nil
}

// group partitions items by the value of keys[level], recursively.
func (g *GroupBy) group(items []*syntax.Item, level int) []*syntax.Item {
	if level >= len(g.keys) {
		return items
	}
	key := g.keys[level]

	var labels []string
	members := map[string][]*syntax.Item{}
	for _, item := range items {
		label := g.label(item, key.name)
		if _, ok := members[label]; !ok {
			labels = append(labels, label)
		}
		members[label] = append(members[label], item)
	}

	containers := make([]*syntax.Item, 0, len(labels))
	for _, label := range labels {
		containers = append(containers, &syntax.Item{
			Title: label,
			Tags:  []syntax.Tag{},
			Items: g.group(members[label], level+1),
		})
	}

	slices.SortStableFunc(containers, func(a, b *syntax.Item) int {
		return g.compareLabels(a.Title, b.Title, key.desc)
	})
	return containers
}

func (g *GroupBy) label(item *syntax.Item, name string) string {
	tag, ok := item.Tag(name)
	if !ok {
		return MissingLabel
	}
	label := g.codec.StringifyValue(tag.TagData)
	if label == "" {
		return "true"
	}
	return label
}

func (g *GroupBy) compareLabels(a, b string, desc bool) int {
	switch {
	case a == MissingLabel && b == MissingLabel:
		return 0
	case a == MissingLabel:
		return 1
	case b == MissingLabel:
		return -1
	}

	c, ok := syntax.Compare(g.codec.ParseValue(a), g.codec.ParseValue(b))
	if !ok {
		return 0
	}
	if desc {
		return -c
	}
	return c
}

// flatten walks the containers of keys[level:] and returns their leaves,
// stamped with the labels collected on the way down.
func (g *GroupBy) flatten(items []*syntax.Item, level int, labels []string) []*syntax.Item {
	if level >= len(g.keys) {
		return g.stamp(items, labels)
	}

	var out []*syntax.Item
	for _, container := range items {
		out = append(out, g.flatten(container.Items, level+1, append(slices.Clip(labels), container.Title))...)
	}
	return out
}

// stamp adds the tags encoded by labels to items and all their descendants.
// A missing label removes the tag instead.
func (g *GroupBy) stamp(items []*syntax.Item, labels []string) []*syntax.Item {
	for _, item := range items {
		for i, label := range labels {
			name := g.keys[i].name
			if label == MissingLabel {
				item.Tags = slices.DeleteFunc(item.Tags, func(tag syntax.Tag) bool { return tag.Name == name })
				continue
			}
			item.Tags = append(item.Tags, syntax.NewTag(name, g.codec.ParseValue(label)))
		}
		item.Items = g.stamp(item.Items, labels)
	}
	return items
}
