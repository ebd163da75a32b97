// Package syntax implements the plain-text outline format: a reader over raw
// text, a codec for typed tag values, and the parser and serializer that
// convert between text and a forest of items.
package syntax

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Kind identifies the shape of a TagData value.
type Kind string

const (
	KindText     Kind = "text"
	KindBoolean  Kind = "boolean"
	KindNumber   Kind = "number"
	KindDuration Kind = "duration"
	KindDate     Kind = "date"
	KindList     Kind = "list"
	KindInterval Kind = "interval"
)

// TagData is a typed tag value. Kind decides which field holds the value:
//
//	text      Text
//	boolean   Bool
//	number    Number
//	duration  Int (minutes)
//	date      Int (unix milliseconds)
//	list      List
//	interval  List (exactly two elements: low, high)
type TagData struct {
	Kind   Kind
	Text   string
	Bool   bool
	Number float64
	Int    int64
	List   []TagData
}

// Text returns a text value.
func Text(s string) TagData { return TagData{Kind: KindText, Text: s} }

// Bool returns a boolean value.
func Bool(b bool) TagData { return TagData{Kind: KindBoolean, Bool: b} }

// Number returns a numeric value.
func Number(f float64) TagData { return TagData{Kind: KindNumber, Number: f} }

// Duration returns a duration value in minutes.
func Duration(minutes int64) TagData { return TagData{Kind: KindDuration, Int: minutes} }

// Date returns a date value in unix milliseconds.
func Date(millis int64) TagData { return TagData{Kind: KindDate, Int: millis} }

// List returns a list value.
func List(values ...TagData) TagData { return TagData{Kind: KindList, List: values} }

// Interval returns an interval value.
func Interval(low, high TagData) TagData {
	return TagData{Kind: KindInterval, List: []TagData{low, high}}
}

// Tag is a named TagData.
type Tag struct {
	Name string
	TagData
}

// NewTag returns a tag named name holding data.
func NewTag(name string, data TagData) Tag {
	return Tag{Name: name, TagData: data}
}

// Item is a node of a parsed document.
type Item struct {
	Title       string
	Text        string
	Description string
	Tags        []Tag
	Items       []*Item
}

// Tag returns the last tag named name.
func (i *Item) Tag(name string) (Tag, bool) {
	for j := len(i.Tags) - 1; j >= 0; j-- {
		if i.Tags[j].Name == name {
			return i.Tags[j], true
		}
	}
	return Tag{}, false
}

// IsEmpty reports whether the item carries no title, text, nor tags.
func (i *Item) IsEmpty() bool {
	return i.Title == "" && i.Text == "" && len(i.Tags) == 0
}

// Equal reports whether a and b have the same kind and value.
func Equal(a, b TagData) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindBoolean:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Number == b.Number
	case KindDuration, KindDate:
		return a.Int == b.Int
	case KindList, KindInterval:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	default:
		return a.Text == b.Text
	}
}

// Compare orders a and b. Booleans, numbers, durations and dates compare
// numerically with each other, texts compare lexically. The second result is
// false when the values are not comparable.
func Compare(a, b TagData) (int, bool) {
	if a.Kind == KindText && b.Kind == KindText {
		return strings.Compare(a.Text, b.Text), true
	}
	x, okA := a.scalar()
	y, okB := b.scalar()
	if !okA || !okB {
		return 0, false
	}
	switch {
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	default:
		return 0, true
	}
}

func (d TagData) scalar() (float64, bool) {
	switch d.Kind {
	case KindNumber:
		return d.Number, !math.IsNaN(d.Number)
	case KindDuration, KindDate:
		return float64(d.Int), true
	case KindBoolean:
		if d.Bool {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

type tagDataJSON struct {
	Type  Kind            `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the value as {"type": kind, "value": value}.
func (d TagData) MarshalJSON() ([]byte, error) {
	var value any
	switch d.Kind {
	case KindBoolean:
		value = d.Bool
	case KindNumber:
		value = d.Number
	case KindDuration, KindDate:
		value = d.Int
	case KindList, KindInterval:
		list := d.List
		if list == nil {
			list = []TagData{}
		}
		value = list
	case KindText, "":
		value = d.Text
	default:
		return nil, fmt.Errorf("unknown tag data kind %q", d.Kind)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	kind := d.Kind
	if kind == "" {
		kind = KindText
	}
	return json.Marshal(tagDataJSON{Type: kind, Value: raw})
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (d *TagData) UnmarshalJSON(data []byte) error {
	var raw tagDataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := TagData{Kind: raw.Type}
	var target any
	switch raw.Type {
	case KindText:
		target = &out.Text
	case KindBoolean:
		target = &out.Bool
	case KindNumber:
		target = &out.Number
	case KindDuration, KindDate:
		target = &out.Int
	case KindList, KindInterval:
		target = &out.List
	default:
		return fmt.Errorf("unknown tag data type %q", raw.Type)
	}

	if len(raw.Value) > 0 {
		if err := json.Unmarshal(raw.Value, target); err != nil {
			return fmt.Errorf("decode %s value: %w", raw.Type, err)
		}
	}
	if raw.Type == KindInterval && len(out.List) != 2 {
		return fmt.Errorf("interval must have 2 bounds, got %d", len(out.List))
	}

	*d = out
	return nil
}
