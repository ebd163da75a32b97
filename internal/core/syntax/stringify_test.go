package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodec_Stringify(t *testing.T) {
	codec := newTestCodec()

	items := []*Item{
		node("", "A task", []Tag{NewTag("id", Number(1)), NewTag("new", Bool(true))},
			node("", "A subtask", []Tag{NewTag("est", Duration(90))}),
		),
		node("bar", "", nil),
		node("", "", []Tag{NewTag("done", Bool(false))}),
	}

	want := "A task @id:1 @new:true\n" +
		"  A subtask @est:1h30m\n" +
		"bar:\n" +
		"@done:false"

	assert.Equal(t, want, codec.Stringify(items))
}

func TestCodec_StringifyDescription(t *testing.T) {
	codec := newTestCodec()

	item := node("", "Parent", nil, node("", "Child", nil))
	item.Description = "line one\nline two"

	want := "Parent\n" +
		"| line one\n" +
		"| line two\n" +
		"  Child"
	assert.Equal(t, want, codec.Stringify([]*Item{item}))
}

func TestCodec_StringifyTag(t *testing.T) {
	codec := newTestCodec()

	assert.Equal(t, "@fun:true", codec.StringifyTag(NewTag("fun", Bool(true))))
	assert.Equal(t, "@fun:false", codec.StringifyTag(NewTag("fun", Bool(false))))
	assert.Equal(t, "@note", codec.StringifyTag(NewTag("note", Text(""))))
	assert.Equal(t, "@project:foo", codec.StringifyTag(NewTag("project", Text("foo"))))
	assert.Equal(t, "@range:1..5", codec.StringifyTag(NewTag("range", Interval(Number(1), Number(5)))))
}

func TestCodec_RoundTripIsStable(t *testing.T) {
	codec := newTestCodec()

	docs := []string{
		"A task @id:1 @fun:true @deadline:15/04/2024 @est:1h15m",
		"groupBy: @project:asc\n---\nbar:\n  Task 2 @id:2 @project:bar\n[undefined]:\n  Task 5 @id:5",
		"   messy    spacing   @a:1    @b\n\tchild\n\n\n  sibling",
		"Task\n| with a description\n  Child @due:10h30",
		"a @b c @d\n  x:",
	}

	for _, doc := range docs {
		once := codec.Stringify(codec.Parse(doc))
		twice := codec.Stringify(codec.Parse(once))
		assert.Equal(t, once, twice, "document %q", doc)
		assert.Equal(t, codec.Parse(doc), codec.Parse(once), "document %q", doc)
	}
}
