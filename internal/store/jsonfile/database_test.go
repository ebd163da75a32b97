package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/hadaf/internal/core/database"
	"github.com/hay-kot/hadaf/internal/core/syntax"
)

func sampleData() *database.Data {
	data := database.NewData()
	data.Meta.NextID = 3
	data.Items[1] = &database.DbItem{
		ID:        1,
		Text:      "A task",
		TagsNames: []string{"id", "est"},
		TagsData: map[string]syntax.TagData{
			"id":    syntax.Number(1),
			"title": syntax.Text(""),
			"est":   syntax.Duration(75),
		},
	}
	data.Items[2] = &database.DbItem{
		ID:          2,
		ParentID:    1,
		Title:       "sub",
		Text:        "A subtask",
		Description: "details",
		TagsNames:   []string{"id", "parent", "range"},
		TagsData: map[string]syntax.TagData{
			"id":     syntax.Number(2),
			"parent": syntax.Number(1),
			"title":  syntax.Text("sub"),
			"range":  syntax.Interval(syntax.Number(1), syntax.Duration(30)),
		},
	}
	data.Indexes["est"] = map[string][]int{"1h15m": {1}}
	return data
}

func TestDatabaseStore_ReadMissing(t *testing.T) {
	t.Parallel()

	store := NewDatabaseStore(afero.NewMemMapFs(), "/data/db.json")

	data, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, database.NewData(), data)
}

func TestDatabaseStore_ReadEmptyFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/db.json", nil, 0o644))

	data, err := NewDatabaseStore(fs, "/data/db.json").Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, database.NewData(), data)
}

func TestDatabaseStore_ReadInvalid(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/db.json", []byte("{not json"), 0o644))

	_, err := NewDatabaseStore(fs, "/data/db.json").Read(context.Background())
	assert.Error(t, err)
}

func TestDatabaseStore_WriteRead(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	store := NewDatabaseStore(fs, "/data/nested/db.json")
	ctx := context.Background()

	want := sampleData()
	require.NoError(t, store.Write(ctx, want))

	exists, err := afero.Exists(fs, "/data/nested/db.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists, "temporary file should be renamed")

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDatabaseStore_ReadReturnsCopies(t *testing.T) {
	t.Parallel()

	store := NewDatabaseStore(afero.NewMemMapFs(), "/db.json")
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, sampleData()))

	first, err := store.Read(ctx)
	require.NoError(t, err)
	first.Meta.NextID = 100
	delete(first.Items, 1)

	second, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, second.Meta.NextID)
	assert.Contains(t, second.Items, 1)
}

func TestDatabaseStore_FileFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	store := NewDatabaseStore(afero.NewOsFs(), path)

	data := database.NewData()
	data.Items[1] = &database.DbItem{
		ID:        1,
		Text:      "Task",
		TagsNames: []string{"id", "fun"},
		TagsData: map[string]syntax.TagData{
			"fun": syntax.Bool(true),
			"id":  syntax.Number(1),
		},
	}
	require.NoError(t, store.Write(context.Background(), data))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	want := `{"meta":{"version":1,"nextId":1},"indexes":{},"items":{"1":{"id":1,"title":"","text":"Task",` +
		`"tagsNames":["id","fun"],"tagsData":{"fun":{"type":"boolean","value":true},"id":{"type":"number","value":1}}}}}`
	assert.JSONEq(t, want, string(raw))
}

func TestDatabaseStore_ReadRepairsNextID(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	raw := `{"meta":{"version":1,"nextId":1},"items":{"7":{"id":7,"title":"","text":"x","tagsNames":[],"tagsData":{}}}}`
	require.NoError(t, afero.WriteFile(fs, "/db.json", []byte(raw), 0o644))

	data, err := NewDatabaseStore(fs, "/db.json").Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, data.Meta.NextID)
	assert.NotNil(t, data.Indexes)
}
