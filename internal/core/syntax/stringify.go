package syntax

import (
	"strconv"
	"strings"
)

const indentUnit = "  "

// Stringify renders items as text. Children are indented by two spaces more
// than their parent and descriptions follow their item line.
func (c *Codec) Stringify(items []*Item) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, c.stringifyItem(item, ""))
	}
	return strings.Join(lines, "\n")
}

func (c *Codec) stringifyItem(item *Item, indentation string) string {
	var parts []string
	if item.Title != "" {
		parts = append(parts, item.Title+TitleEnd)
	}
	if item.Text != "" {
		parts = append(parts, item.Text)
	}
	for _, tag := range item.Tags {
		parts = append(parts, c.StringifyTag(tag))
	}

	lines := []string{indentation + strings.Join(parts, " ")}
	if item.Description != "" {
		for _, line := range strings.Split(item.Description, "\n") {
			lines = append(lines, indentation+DescriptionPrefix+line)
		}
	}
	for _, child := range item.Items {
		lines = append(lines, c.stringifyItem(child, indentation+indentUnit))
	}
	return strings.Join(lines, "\n")
}

// StringifyTag renders `@name:value`, or `@name` when the value is empty.
// Booleans are always explicit so a bare `@flag` reads back as `@flag:true`.
func (c *Codec) StringifyTag(tag Tag) string {
	out := TagStart + tag.Name
	if tag.Kind == KindBoolean {
		return out + TagSeparator + strconv.FormatBool(tag.Bool)
	}
	if value := c.StringifyValue(tag.TagData); value != "" {
		out += TagSeparator + value
	}
	return out
}
