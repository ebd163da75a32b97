package operation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBy_OutputItems(t *testing.T) {
	tests := []struct {
		name   string
		config string
		input  string
		want   string
	}{
		{
			name:   "single tag asc",
			config: "groupBy: @project:asc",
			input: "Task 1 @id:1 @project:foo\n" +
				"Task 2 @id:2 @project:bar\n" +
				"Task 3 @id:3 @project:foo\n" +
				"Task 5 @id:5 @temp",
			want: "bar:\n" +
				"  Task 2 @id:2 @project:bar\n" +
				"foo:\n" +
				"  Task 1 @id:1 @project:foo\n" +
				"  Task 3 @id:3 @project:foo\n" +
				"[undefined]:\n" +
				"  Task 5 @id:5 @temp:true",
		},
		{
			name:   "single tag desc keeps missing last",
			config: "groupBy: @project:desc",
			input: "Task 5 @id:5 @temp\n" +
				"Task 2 @id:2 @project:bar\n" +
				"Task 1 @id:1 @project:foo",
			want: "foo:\n" +
				"  Task 1 @id:1 @project:foo\n" +
				"bar:\n" +
				"  Task 2 @id:2 @project:bar\n" +
				"[undefined]:\n" +
				"  Task 5 @id:5 @temp:true",
		},
		{
			name:   "nested levels",
			config: "groupBy: @project:desc @duration:asc",
			input: "Task 1 @id:1 @project:foo @duration:1h\n" +
				"Task 3 @id:3 @project:foo\n" +
				"Task 4 @id:4 @duration:30m\n" +
				"Task 7 @id:7 @project:foo @duration:25m",
			want: "foo:\n" +
				"  25m:\n" +
				"    Task 7 @id:7 @project:foo @duration:25m\n" +
				"  1h:\n" +
				"    Task 1 @id:1 @project:foo @duration:1h\n" +
				"  [undefined]:\n" +
				"    Task 3 @id:3 @project:foo\n" +
				"[undefined]:\n" +
				"  30m:\n" +
				"    Task 4 @id:4 @duration:30m",
		},
		{
			name:   "boolean values are labelled true",
			config: "groupBy: @done:asc",
			input:  "a @done\nb @done:false",
			want:   "false:\n  b @done:false\ntrue:\n  a @done:true",
		},
		{
			name:   "no keys",
			config: "groupBy:",
			input:  "a\nb",
			want:   "a\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := testDeps()
			op := NewGroupBy(deps, configItem(t, tt.config))

			got, err := op.OutputItems(context.Background(), deps.Codec.Parse(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, deps.Codec.Stringify(got))
		})
	}
}

func TestGroupBy_InputItems(t *testing.T) {
	deps := testDeps()
	op := NewGroupBy(deps, configItem(t, "groupBy: @project:asc"))

	input := "bar:\n" +
		"  Task 2 @id:2 @project:bar\n" +
		"    Subtask @id:6\n" +
		"  Task 4 @id:4 @project:demo\n" +
		"demo:\n" +
		"foo:\n" +
		"  Task 5 @id:5 @temp\n" +
		"[undefined]:\n" +
		"  Task 3 @id:3 @project:foo"

	got, err := op.InputItems(context.Background(), deps.Codec.Parse(input))
	require.NoError(t, err)

	want := "Task 2 @id:2 @project:bar @project:bar\n" +
		"  Subtask @id:6 @project:bar\n" +
		"Task 4 @id:4 @project:demo @project:bar\n" +
		"Task 5 @id:5 @temp:true @project:foo\n" +
		"Task 3 @id:3"
	assert.Equal(t, want, deps.Codec.Stringify(got))
}

func TestGroupBy_InputItemsNested(t *testing.T) {
	deps := testDeps()
	op := NewGroupBy(deps, configItem(t, "groupBy: @project:desc @duration:asc"))

	input := "foo:\n" +
		"  25m:\n" +
		"    Task 7 @id:7\n" +
		"  [undefined]:\n" +
		"    Task 3 @id:3 @duration:1h\n" +
		"[undefined]:\n" +
		"  30m:\n" +
		"    Task 4 @id:4 @project:foo"

	got, err := op.InputItems(context.Background(), deps.Codec.Parse(input))
	require.NoError(t, err)

	want := "Task 7 @id:7 @project:foo @duration:25m\n" +
		"Task 3 @id:3 @project:foo\n" +
		"Task 4 @id:4 @duration:30m"
	assert.Equal(t, want, deps.Codec.Stringify(got))
}

func TestGroupBy_Suggestions(t *testing.T) {
	ctx := context.Background()
	op := NewGroupBy(testDeps(), configItem(t, "groupBy: @project"))

	names, err := op.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"duration", "id"}, names)

	values, err := op.Values(ctx, "project")
	require.NoError(t, err)
	assert.Equal(t, []string{"asc", "desc"}, values)
}
