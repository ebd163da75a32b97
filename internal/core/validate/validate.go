// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/hadaf/internal/core/syntax"
)

// TagName validates a tag name as typed on the command line: non-empty and
// free of whitespace and of the tag start and separator characters. A
// leading tag start is tolerated.
func TagName(name string) error {
	name = strings.TrimPrefix(name, syntax.TagStart)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return fmt.Errorf("name must not contain whitespace")
	}
	if strings.Contains(name, syntax.TagStart) || strings.Contains(name, syntax.TagSeparator) {
		return fmt.Errorf("name must not contain %q or %q", syntax.TagStart, syntax.TagSeparator)
	}
	return nil
}

// TagNameField returns a criterio validator for tag names.
func TagNameField(field, name string) error {
	return criterio.Run(field, name, TagName)
}
