package operation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/hadaf/internal/core/database"
	"github.com/hay-kot/hadaf/internal/core/syntax"
)

func tagLine(t *testing.T, codec *syntax.Codec, item *database.DbItem) string {
	t.Helper()
	line := item.Text
	for _, name := range item.TagsNames {
		line += " " + codec.StringifyTag(syntax.NewTag(name, item.TagsData[name]))
	}
	return line
}

func TestApply_InputDbItems(t *testing.T) {
	deps := testDeps()
	op := NewApply(deps, configItem(t, "apply: @project:foo @duration:30m"))

	got, err := op.InputDbItems(context.Background(), records(t,
		"Task 2 @id:2 @serious:true @duration:25m\n"+
			"Task 3 @id:3 @project:other\n"+
			"Task 5"))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Task 2 @id:2 @serious:true @duration:30m @project:foo", tagLine(t, deps.Codec, got[0]))
	assert.Equal(t, "Task 3 @id:3 @project:foo @duration:30m", tagLine(t, deps.Codec, got[1]))
	assert.Equal(t, "Task 5 @project:foo @duration:30m", tagLine(t, deps.Codec, got[2]))
}

func TestDefaults_InputDbItems(t *testing.T) {
	deps := testDeps()
	op := NewDefaults(deps, configItem(t, "defaults: @project:foo @duration:30m"))

	got, err := op.InputDbItems(context.Background(), records(t,
		"Task 2 @id:2 @serious:true @duration:25m\n"+
			"Task 3 @id:3 @project:other\n"+
			"Task 6 @project:new"))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Task 2 @id:2 @serious:true @duration:25m @project:foo", tagLine(t, deps.Codec, got[0]))
	assert.Equal(t, "Task 3 @id:3 @project:other @duration:30m", tagLine(t, deps.Codec, got[1]))
	assert.Equal(t, "Task 6 @project:new @duration:30m", tagLine(t, deps.Codec, got[2]))
}

func TestApply_Suggestions(t *testing.T) {
	ctx := context.Background()

	for _, config := range []string{"apply: @project:foo", "defaults: @project:foo"} {
		op, ok := Builtin().New(testDeps(), configItem(t, config))
		require.True(t, ok)

		names, err := op.Names(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"duration", "id"}, names, config)

		values, err := op.Values(ctx, "duration")
		require.NoError(t, err)
		assert.Equal(t, []string{"25m", "1h"}, values, config)
	}
}
