// Package database reconciles parsed documents with the persisted item
// records: it assigns ids, tracks parent links, cascades deletions and keeps
// the tag value index in sync with the records.
package database

import (
	"context"
	"slices"

	"github.com/hay-kot/hadaf/internal/core/syntax"
)

// Reserved tag names.
const (
	TagID     = "id"
	TagParent = "parent"
	TagTitle  = "title"
	TagDelete = "delete"
)

// CurrentVersion is the version written in new databases.
const CurrentVersion = 1

// Meta holds database bookkeeping.
type Meta struct {
	Version int `json:"version"`
	NextID  int `json:"nextId"`
}

// Index maps a tag name to its stringified values, each with the ids of the
// records carrying it.
type Index map[string]map[string][]int

// Data is the persisted database.
type Data struct {
	Meta    Meta            `json:"meta"`
	Indexes Index           `json:"indexes"`
	Items   map[int]*DbItem `json:"items"`
}

// NewData returns an empty database.
func NewData() *Data {
	return &Data{
		Meta:    Meta{Version: CurrentVersion, NextID: 1},
		Indexes: Index{},
		Items:   map[int]*DbItem{},
	}
}

// Normalize repairs fields a decoded file may leave unset. NextID is raised
// above every stored id.
func (d *Data) Normalize() {
	if d.Meta.Version == 0 {
		d.Meta.Version = CurrentVersion
	}
	if d.Indexes == nil {
		d.Indexes = Index{}
	}
	if d.Items == nil {
		d.Items = map[int]*DbItem{}
	}
	if d.Meta.NextID < 1 {
		d.Meta.NextID = 1
	}
	for id, item := range d.Items {
		if item == nil {
			delete(d.Items, id)
			continue
		}
		d.Meta.NextID = max(d.Meta.NextID, id+1)
	}
}

// Storage reads and writes the whole database. Read must return a value the
// caller is free to mutate.
type Storage interface {
	Read(ctx context.Context) (*Data, error)
	Write(ctx context.Context, data *Data) error
}

// State is the lifecycle state a record requests when saved.
type State int

const (
	StateActive State = iota
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateDeleted:
		return "deleted"
	default:
		return "active"
	}
}

// DbItem is a persisted record. TagsNames keeps the order tags are rendered
// in; TagsData also holds the hidden title tag.
type DbItem struct {
	ID          int                       `json:"id"`
	ParentID    int                       `json:"parentId,omitempty"`
	Title       string                    `json:"title"`
	Text        string                    `json:"text"`
	Description string                    `json:"description,omitempty"`
	TagsNames   []string                  `json:"tagsNames"`
	TagsData    map[string]syntax.TagData `json:"tagsData"`
}

// Tag returns the value of the tag named name.
func (i *DbItem) Tag(name string) (syntax.TagData, bool) {
	data, ok := i.TagsData[name]
	return data, ok
}

// HasTag reports whether the record carries a tag named name.
func (i *DbItem) HasTag(name string) bool {
	_, ok := i.TagsData[name]
	return ok
}

// SetTag sets the tag value, appending name to the rendered tags when the
// record does not carry it yet.
func (i *DbItem) SetTag(name string, data syntax.TagData) {
	if i.TagsData == nil {
		i.TagsData = map[string]syntax.TagData{}
	}
	if _, ok := i.TagsData[name]; !ok && !slices.Contains(i.TagsNames, name) {
		i.TagsNames = append(i.TagsNames, name)
	}
	i.TagsData[name] = data
}

// State is StateDeleted when the record carries a delete tag that is not an
// explicit false.
func (i *DbItem) State() State {
	data, ok := i.TagsData[TagDelete]
	if !ok {
		return StateActive
	}
	if data.Kind == syntax.KindBoolean && !data.Bool {
		return StateActive
	}
	return StateDeleted
}

// Clone returns a deep copy of the record.
func (i *DbItem) Clone() *DbItem {
	out := *i
	out.TagsNames = slices.Clone(i.TagsNames)
	out.TagsData = make(map[string]syntax.TagData, len(i.TagsData))
	for name, data := range i.TagsData {
		out.TagsData[name] = data
	}
	return &out
}
