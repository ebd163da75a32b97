package syntax

// Literal tokens of the document grammar.
const (
	TagStart          = "@"
	TagSeparator      = ":"
	TitleEnd          = ":"
	ListSeparator     = ","
	IntervalSeparator = ".."
	DescriptionPrefix = "| "
)

var (
	newLine        = []string{"\n", "\r\n"}
	spaces         = []string{" ", "\t"}
	whitespace     = concat(newLine, spaces)
	spacedTagStart = []string{" " + TagStart, "\t" + TagStart}

	titleStop   = concat(spaces, newLine)
	textStop    = concat(newLine, spacedTagStart)
	tagNameStop = concat(whitespace, []string{TagSeparator})
)

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
