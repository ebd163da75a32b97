package database

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/hay-kot/hadaf/internal/core/syntax"
)

// Database converts between item forests and persisted records.
type Database struct {
	storage Storage
	codec   *syntax.Codec
	log     zerolog.Logger
}

// New creates a Database over storage.
func New(storage Storage, codec *syntax.Codec, log zerolog.Logger) *Database {
	return &Database{
		storage: storage,
		codec:   codec,
		log:     log,
	}
}

// CreateDbItems flattens items into records in preorder. Items keep the id
// of their id tag; the others get fresh ids. Nothing is written: ids handed
// out here become permanent once the records are saved.
func (db *Database) CreateDbItems(ctx context.Context, items []*syntax.Item) ([]*DbItem, error) {
	data, err := db.storage.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}

	var out []*DbItem
	for _, item := range items {
		out = appendDbItems(out, &data.Meta, item, 0)
	}
	return out, nil
}

func appendDbItems(out []*DbItem, meta *Meta, item *syntax.Item, parentID int) []*DbItem {
	record := &DbItem{
		ParentID:    parentID,
		Title:       item.Title,
		Text:        item.Text,
		Description: item.Description,
		TagsNames:   []string{},
		TagsData:    map[string]syntax.TagData{TagTitle: syntax.Text(item.Title)},
	}

	id := 0
	for _, tag := range item.Tags {
		switch tag.Name {
		case TagParent:
			continue
		case TagID:
			id = recordID(tag.TagData)
			continue
		}
		if !slices.Contains(record.TagsNames, tag.Name) {
			record.TagsNames = append(record.TagsNames, tag.Name)
		}
		record.TagsData[tag.Name] = tag.TagData
	}

	if parentID != 0 {
		record.TagsNames = slices.Insert(record.TagsNames, 0, TagParent)
		record.TagsData[TagParent] = syntax.Number(float64(parentID))
	}

	if id == 0 {
		id = meta.NextID
		meta.NextID++
	}
	meta.NextID = max(meta.NextID, id+1)

	record.ID = id
	record.TagsNames = slices.Insert(record.TagsNames, 0, TagID)
	record.TagsData[TagID] = syntax.Number(float64(id))

	out = append(out, record)
	for _, child := range item.Items {
		out = appendDbItems(out, meta, child, id)
	}
	return out
}

// recordID returns the id carried by an id tag, or 0 when the value is not a
// positive integer.
func recordID(data syntax.TagData) int {
	if data.Kind != syntax.KindNumber {
		return 0
	}
	id := int(data.Number)
	if float64(id) != data.Number || id < 1 {
		return 0
	}
	return id
}

// Save applies records to the database. A record in StateDeleted is removed
// with all its descendants; any other record replaces the stored one with the
// same id. Records nested under a record deleted in the same batch are
// dropped with it.
func (db *Database) Save(ctx context.Context, items []*DbItem) error {
	data, err := db.storage.Read(ctx)
	if err != nil {
		return fmt.Errorf("read database: %w", err)
	}

	var updated, deleted int
	dropped := map[int]bool{}
	for _, item := range items {
		switch {
		case item.State() == StateDeleted:
			dropped[item.ID] = true
			deleted += db.deleteItem(data, item)
		case item.ParentID != 0 && dropped[item.ParentID]:
			dropped[item.ID] = true
			deleted += db.deleteItem(data, item)
		default:
			db.updateItem(data, item)
			updated++
		}
	}

	if err := db.storage.Write(ctx, data); err != nil {
		return fmt.Errorf("write database: %w", err)
	}

	db.log.Debug().
		Int("updated", updated).
		Int("deleted", deleted).
		Int("next_id", data.Meta.NextID).
		Msg("database saved")

	return nil
}

func (db *Database) updateItem(data *Data, item *DbItem) {
	if old, ok := data.Items[item.ID]; ok {
		data.Indexes.remove(db.codec, old)
	}
	stored := item.Clone()
	data.Items[item.ID] = stored
	data.Meta.NextID = max(data.Meta.NextID, item.ID+1)
	data.Indexes.add(db.codec, stored)
}

// deleteItem removes item and its descendants, children first, and returns
// the number of stored records removed.
func (db *Database) deleteItem(data *Data, item *DbItem) int {
	removed := 0
	for _, child := range childrenOf(data, item.ID) {
		removed += db.deleteItem(data, child)
	}

	if old, ok := data.Items[item.ID]; ok {
		data.Indexes.remove(db.codec, old)
		delete(data.Items, item.ID)
		removed++
	}
	return removed
}

func childrenOf(data *Data, id int) []*DbItem {
	var children []*DbItem
	for _, item := range data.Items {
		if item.ParentID == id {
			children = append(children, item)
		}
	}
	slices.SortFunc(children, func(a, b *DbItem) int { return a.ID - b.ID })
	return children
}

// Fetch returns every stored record ordered by id.
func (db *Database) Fetch(ctx context.Context) ([]*DbItem, error) {
	data, err := db.storage.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}

	items := make([]*DbItem, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b *DbItem) int { return a.ID - b.ID })
	return items, nil
}

// ToItems groups records into a forest through their parent links. Records
// whose parent is not part of items become roots. Order follows items.
func (db *Database) ToItems(items []*DbItem) []*syntax.Item {
	nodes := make(map[int]*syntax.Item, len(items))
	for _, record := range items {
		nodes[record.ID] = toItem(record)
	}

	children := map[int][]int{}
	var roots []int
	for _, record := range items {
		if _, ok := nodes[record.ParentID]; record.ParentID != 0 && ok && record.ParentID != record.ID {
			children[record.ParentID] = append(children[record.ParentID], record.ID)
			continue
		}
		roots = append(roots, record.ID)
	}

	return groupItems(nodes, children, roots, map[int]bool{})
}

func groupItems(nodes map[int]*syntax.Item, children map[int][]int, ids []int, seen map[int]bool) []*syntax.Item {
	out := make([]*syntax.Item, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		node := nodes[id]
		node.Items = groupItems(nodes, children, children[id], seen)
		out = append(out, node)
	}
	return out
}

func toItem(record *DbItem) *syntax.Item {
	item := &syntax.Item{
		Title:       record.Title,
		Text:        record.Text,
		Description: record.Description,
		Tags:        make([]syntax.Tag, 0, len(record.TagsNames)),
		Items:       []*syntax.Item{},
	}
	if title, ok := record.TagsData[TagTitle]; ok && title.Kind == syntax.KindText {
		item.Title = title.Text
	}
	for _, name := range record.TagsNames {
		if name == TagTitle {
			continue
		}
		if data, ok := record.TagsData[name]; ok {
			item.Tags = append(item.Tags, syntax.NewTag(name, data))
		}
	}
	return item
}

// TagNames returns the names of every indexed tag.
func (db *Database) TagNames(ctx context.Context) ([]string, error) {
	data, err := db.storage.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}
	return data.Indexes.Names(), nil
}

// TagValues returns the indexed values of the tag named name.
func (db *Database) TagValues(ctx context.Context, name string) ([]string, error) {
	data, err := db.storage.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}
	return data.Indexes.Values(name), nil
}

// Export returns a copy of the whole database.
func (db *Database) Export(ctx context.Context) (*Data, error) {
	data, err := db.storage.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}
	return data, nil
}

// Replace overwrites the whole database with data. Records are keyed by
// their map key and the index is rebuilt from them.
func (db *Database) Replace(ctx context.Context, data *Data) error {
	data.Normalize()
	data.Indexes = Index{}
	for id, item := range data.Items {
		item.ID = id
		if item.TagsData == nil {
			item.TagsData = map[string]syntax.TagData{}
		}
		if item.TagsNames == nil {
			item.TagsNames = []string{}
		}
		data.Indexes.add(db.codec, item)
	}

	if err := db.storage.Write(ctx, data); err != nil {
		return fmt.Errorf("write database: %w", err)
	}

	db.log.Info().
		Int("items", len(data.Items)).
		Int("next_id", data.Meta.NextID).
		Msg("database replaced")

	return nil
}
