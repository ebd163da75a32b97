package syntax

import "strings"

// level is one frame of the indentation stack: lines indented by width
// characters are appended to items.
type level struct {
	width int
	items *[]*Item
}

// Parse converts text to a forest of items. Indentation (spaces and tabs
// counted alike) nests an item under the previous item of the enclosing
// level. Parse never fails: text that does not fit the grammar ends up as
// item text.
func (c *Codec) Parse(text string) []*Item {
	r := NewReader(text)
	doc := []*Item{}
	levels := []level{{width: 0, items: &doc}}

	for !r.IsEnd() {
		indentation := len(r.ReadMany(spaces...))
		description, hasDescription := parseDescription(r)
		item := c.parseItem(r)

		switch {
		case item != nil:
			top := levels[len(levels)-1]
			if indentation > top.width {
				target := top.items
				if n := len(*top.items); n > 0 {
					target = &(*top.items)[n-1].Items
				}
				levels = append(levels, level{width: indentation, items: target})
				r.ReadOne(newLine...)
			}
			for len(levels) > 1 && indentation < levels[len(levels)-1].width {
				levels = levels[:len(levels)-1]
			}
			top = levels[len(levels)-1]
			*top.items = append(*top.items, item)

		case hasDescription && description != "":
			for len(levels) > 1 && indentation < levels[len(levels)-1].width {
				levels = levels[:len(levels)-1]
			}
			top := levels[len(levels)-1]
			if n := len(*top.items); n > 0 {
				appendDescription((*top.items)[n-1], description)
			} else {
				*top.items = append(*top.items, &Item{Text: strings.TrimSpace(description), Tags: []Tag{}, Items: []*Item{}})
			}
		}

		r.ReadOne(newLine...)
	}

	return doc
}

func appendDescription(item *Item, description string) {
	if item.Description == "" {
		item.Description = description
		return
	}
	item.Description += "\n" + description
}

func parseDescription(r *Reader) (string, bool) {
	if _, ok := r.PeekOne(DescriptionPrefix); !ok {
		return "", false
	}
	r.Read(len(DescriptionPrefix))
	return r.ReadUntil(newLine...), true
}

func (c *Codec) parseItem(r *Reader) *Item {
	item := &Item{
		Title: parseTitle(r),
		Text:  parseText(r),
		Tags:  c.parseTags(r),
		Items: []*Item{},
	}
	if item.IsEmpty() {
		return nil
	}
	return item
}

// parseTitle reads a `title:` prefix. The first word is a title only when it
// ends with the title terminator and is not a tag.
func parseTitle(r *Reader) string {
	prefix := r.PeekUntil(titleStop...)
	if strings.HasPrefix(prefix, TagStart) || !strings.HasSuffix(prefix, TitleEnd) {
		return ""
	}
	r.Read(len([]rune(prefix)))
	return strings.TrimSuffix(prefix, TitleEnd)
}

func parseText(r *Reader) string {
	r.ReadMany(spaces...)
	if _, ok := r.PeekOne(TagStart); ok {
		return ""
	}
	text := r.ReadUntil(textStop...)
	r.ReadMany(spaces...)
	return strings.TrimSpace(text)
}

func (c *Codec) parseTags(r *Reader) []Tag {
	tags := []Tag{}
	for !r.IsEnd() {
		tag, ok := c.parseTag(r)
		if !ok {
			break
		}
		tags = append(tags, tag)
		r.ReadMany(spaces...)
	}
	return tags
}

// parseTag reads `@name` or `@name:value`. A tag without value is true.
func (c *Codec) parseTag(r *Reader) (Tag, bool) {
	if _, ok := r.PeekOne(TagStart); !ok {
		return Tag{}, false
	}
	r.Read(len(TagStart))
	name := r.ReadUntil(tagNameStop...)
	data := Bool(true)
	if _, ok := r.PeekOne(TagSeparator); ok {
		r.Read(len(TagSeparator))
		data = c.ParseValue(r.ReadUntil(whitespace...))
	}
	return NewTag(name, data), true
}
