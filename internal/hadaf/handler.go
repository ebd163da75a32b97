// Package hadaf wires the document pipeline: it splits a document into its
// operations and content sections, saves the content through the database
// and renders the stored items back through the configured operations.
package hadaf

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hay-kot/hadaf/internal/core/database"
	"github.com/hay-kot/hadaf/internal/core/operation"
	"github.com/hay-kot/hadaf/internal/core/syntax"
)

// DefaultSeparator is the text of the item separating operations from content.
const DefaultSeparator = "---"

// Handler processes parsed documents against the database.
type Handler struct {
	db         *database.Database
	operations *operation.Registry
	codec      *syntax.Codec
	separator  string
	log        zerolog.Logger
}

// NewHandler creates a Handler. An empty separator means DefaultSeparator.
func NewHandler(db *database.Database, operations *operation.Registry, codec *syntax.Codec, separator string, log zerolog.Logger) *Handler {
	if separator == "" {
		separator = DefaultSeparator
	}
	return &Handler{
		db:         db,
		operations: operations,
		codec:      codec,
		separator:  separator,
		log:        log,
	}
}

// Handle saves the content of items and returns the document rendered from the
// database: the operations section and separator, when present, followed by
// the stored items transformed by the operations.
func (h *Handler) Handle(ctx context.Context, items []*syntax.Item) ([]*syntax.Item, error) {
	opsItems, separator, content := h.split(items)
	ops := h.instantiate(opsItems)

	h.log.Debug().Ctx(ctx).
		Int("operations", len(ops)).
		Int("items", len(content)).
		Msg("handling document")

	var err error
	for _, op := range ops {
		if content, err = op.InputItems(ctx, content); err != nil {
			return nil, fmt.Errorf("input items: %w", err)
		}
	}

	records, err := h.db.CreateDbItems(ctx, content)
	if err != nil {
		return nil, err
	}
	for _, op := range ops {
		if records, err = op.InputDbItems(ctx, records); err != nil {
			return nil, fmt.Errorf("input records: %w", err)
		}
	}

	if err := h.db.Save(ctx, records); err != nil {
		return nil, err
	}

	records, err = h.db.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	slices.Reverse(ops)
	for _, op := range ops {
		if records, err = op.OutputDbItems(ctx, records); err != nil {
			return nil, fmt.Errorf("output records: %w", err)
		}
	}

	content = h.db.ToItems(records)
	for _, op := range ops {
		if content, err = op.OutputItems(ctx, content); err != nil {
			return nil, fmt.Errorf("output items: %w", err)
		}
	}

	h.log.Debug().Ctx(ctx).
		Int("saved", len(records)).
		Int("rendered", len(content)).
		Msg("document handled")

	if separator == nil {
		return content, nil
	}
	out := make([]*syntax.Item, 0, len(opsItems)+1+len(content))
	out = append(out, opsItems...)
	out = append(out, separator)
	return append(out, content...), nil
}

// split cuts items at the first top level separator item. Without a separator
// the whole document is content.
func (h *Handler) split(items []*syntax.Item) (ops []*syntax.Item, separator *syntax.Item, content []*syntax.Item) {
	i := slices.IndexFunc(items, func(item *syntax.Item) bool { return item.Text == h.separator })
	if i < 0 {
		return nil, nil, items
	}
	return items[:i], items[i], items[i+1:]
}

func (h *Handler) instantiate(items []*syntax.Item) []operation.Operation {
	deps := h.deps()
	var ops []operation.Operation
	for _, item := range items {
		if op, ok := h.operations.New(deps, item); ok {
			ops = append(ops, op)
		}
	}
	return ops
}

func (h *Handler) deps() operation.Deps {
	return operation.Deps{Index: h.db, Codec: h.codec}
}

// suggester is the completion half of an operation.
type suggester interface {
	Names(ctx context.Context) ([]string, error)
	Values(ctx context.Context, name string) ([]string, error)
}

// contentTags completes tags of content items from the database index.
type contentTags struct {
	index operation.TagIndex
	tags  []syntax.Tag
}

func (c contentTags) Names(ctx context.Context) ([]string, error) {
	names, err := c.index.TagNames(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(names, func(name string) bool {
		return slices.ContainsFunc(c.tags, func(tag syntax.Tag) bool { return tag.Name == name })
	}), nil
}

func (c contentTags) Values(ctx context.Context, name string) ([]string, error) {
	return c.index.TagValues(ctx, name)
}

// Autocomplete returns suggestions for the line text typed so far:
//
//	""             operation names, as "name: "
//	"... "         tag names, as "@name"
//	"... @na"      tag names
//	"... @name:"   values of the tag
//
// Tags are completed by the operation the line configures, or from the
// database index for content lines.
func (h *Handler) Autocomplete(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimLeft(text, " \t\r\n")
	if text == "" {
		names := h.operations.Names()
		for i, name := range names {
			names[i] = name + syntax.TitleEnd + " "
		}
		return names, nil
	}

	lastWord := text[strings.LastIndexAny(text, " \t")+1:]

	var s suggester = contentTags{index: h.db}
	if items := h.codec.Parse(text); len(items) > 0 {
		s = contentTags{index: h.db, tags: items[0].Tags}
		if op, ok := h.operations.New(h.deps(), items[0]); ok {
			s = op
		}
	}

	switch {
	case lastWord == "":
		names, err := s.Names(ctx)
		if err != nil {
			return nil, err
		}
		for i, name := range names {
			names[i] = syntax.TagStart + name
		}
		return names, nil
	case !strings.HasPrefix(lastWord, syntax.TagStart):
		return []string{}, nil
	case !strings.Contains(lastWord, syntax.TagSeparator):
		return s.Names(ctx)
	default:
		name, _, _ := strings.Cut(strings.TrimPrefix(lastWord, syntax.TagStart), syntax.TagSeparator)
		return s.Values(ctx, name)
	}
}
