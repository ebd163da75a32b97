package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/hadaf/internal/core/config"
	"github.com/hay-kot/hadaf/internal/core/env"
	"github.com/hay-kot/hadaf/internal/hadaf"
)

type registrar interface {
	Register(app *cli.Command) *cli.Command
}

func newTestApp(t *testing.T) (*Flags, *hadaf.App) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = "/data"

	flags := &Flags{
		ConfigPath: "/config/hadaf/config.yaml",
		DataDir:    "/data",
		Config:     &cfg,
	}
	e := env.Memory(time.Date(2024, time.April, 15, 9, 30, 0, 0, time.UTC))
	return flags, hadaf.NewApp(e, &cfg)
}

// runCmd runs the command registered by r with args and returns its stdout.
func runCmd(t *testing.T, r registrar, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	app := &cli.Command{
		Name:           "hadaf",
		Writer:         &buf,
		ErrWriter:      io.Discard,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	r.Register(app)

	err := app.Run(context.Background(), append([]string{"hadaf"}, args...))
	return buf.String(), err
}

func seedDocument(t *testing.T, app *hadaf.App, doc string) {
	t.Helper()
	_, err := app.Documents.Handle(context.Background(), doc)
	require.NoError(t, err)
}

func TestHandleCmd_Stdin(t *testing.T) {
	flags, app := newTestApp(t)
	app.Env.Stdin = strings.NewReader("A task\n  A subtask\n")

	out, err := runCmd(t, NewHandleCmd(flags, app), "handle")
	require.NoError(t, err)
	assert.Equal(t, "A task @id:1\n  A subtask @id:2 @parent:1\n", out)
}

func TestHandleCmd_Operations(t *testing.T) {
	flags, app := newTestApp(t)
	seedDocument(t, app, "Task 1 @project:foo\nTask 2 @project:bar")
	app.Env.Stdin = strings.NewReader("filter: @project:bar\n---\n")

	out, err := runCmd(t, NewHandleCmd(flags, app), "handle")
	require.NoError(t, err)
	assert.Equal(t, "filter: @project:bar\n---\nTask 2 @id:2 @project:bar\n", out)
}

func TestHandleCmd_WriteFile(t *testing.T) {
	flags, app := newTestApp(t)
	fs := app.Env.FS
	require.NoError(t, afero.WriteFile(fs, "/docs/todo.hadaf", []byte("A task\n"), 0o644))

	out, err := runCmd(t, NewHandleCmd(flags, app), "handle", "--write", "-f", "/docs/todo.hadaf")
	require.NoError(t, err)
	assert.Empty(t, out)

	content, err := afero.ReadFile(fs, "/docs/todo.hadaf")
	require.NoError(t, err)
	assert.Equal(t, "A task @id:1\n", string(content))
}

func TestHandleCmd_FileArgument(t *testing.T) {
	flags, app := newTestApp(t)
	fs := app.Env.FS
	require.NoError(t, afero.WriteFile(fs, "/docs/todo.hadaf", []byte("A task\n"), 0o644))

	out, err := runCmd(t, NewHandleCmd(flags, app), "handle", "/docs/todo.hadaf")
	require.NoError(t, err)
	assert.Equal(t, "A task @id:1\n", out)

	content, err := afero.ReadFile(fs, "/docs/todo.hadaf")
	require.NoError(t, err)
	assert.Equal(t, "A task\n", string(content))

	_, err = runCmd(t, NewHandleCmd(flags, app), "handle", "--write", "/docs/todo.hadaf")
	require.NoError(t, err)

	// the first run already stored the untagged line once
	content, err = afero.ReadFile(fs, "/docs/todo.hadaf")
	require.NoError(t, err)
	assert.Equal(t, "A task @id:1\nA task @id:2\n", string(content))
}

func TestHandleCmd_WriteRequiresFile(t *testing.T) {
	flags, app := newTestApp(t)

	_, err := runCmd(t, NewHandleCmd(flags, app), "handle", "--write")
	assert.ErrorContains(t, err, "--write requires a file")
}

func TestCompleteCmd(t *testing.T) {
	flags, app := newTestApp(t)
	seedDocument(t, app, "Task 1 @project:foo\nTask 2 @project:bar")

	out, err := runCmd(t, NewCompleteCmd(flags, app), "complete", "Some task @project:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"foo", "bar"}, strings.Fields(out))
}

func TestCompleteCmd_JSON(t *testing.T) {
	flags, app := newTestApp(t)

	out, err := runCmd(t, NewCompleteCmd(flags, app), "complete", "--json", "")
	require.NoError(t, err)

	var got []string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"filter: ", "sort: ", "defaults: ", "apply: ", "groupBy: "}, got)
}

func TestCompleteCmd_JSONEmpty(t *testing.T) {
	flags, app := newTestApp(t)

	out, err := runCmd(t, NewCompleteCmd(flags, app), "complete", "--json", "Some task @project:")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestCompleteCmd_StdinUsesLastLine(t *testing.T) {
	flags, app := newTestApp(t)
	seedDocument(t, app, "Task 1 @project:foo @est:1h")
	app.Env.Stdin = strings.NewReader("First line @est:2h\nsort: @\n")

	out, err := runCmd(t, NewCompleteCmd(flags, app), "complete")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"id", "project", "est"}, strings.Fields(out))
}

func TestFmtCmd_Stdin(t *testing.T) {
	flags, app := newTestApp(t)
	app.Env.Stdin = strings.NewReader("A task @urgent\n    Nested\n")

	out, err := runCmd(t, NewFmtCmd(flags, app), "fmt")
	require.NoError(t, err)
	assert.Equal(t, "A task @urgent:true\n  Nested\n", out)

	records, err := app.DB.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFmtCmd_All(t *testing.T) {
	flags, app := newTestApp(t)
	fs := app.Env.FS
	require.NoError(t, afero.WriteFile(fs, "/docs/a.hadaf", []byte("A @x\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/docs/b.hadaf", []byte("B @x:true\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/docs/c.md", []byte("C @x\n"), 0o644))

	out, err := runCmd(t, NewFmtCmd(flags, app), "fmt", "--all", "--dir", "/docs")
	require.NoError(t, err)
	assert.Contains(t, out, "/docs/a.hadaf")
	assert.NotContains(t, out, "/docs/b.hadaf")

	content, err := afero.ReadFile(fs, "/docs/a.hadaf")
	require.NoError(t, err)
	assert.Equal(t, "A @x:true\n", string(content))

	content, err = afero.ReadFile(fs, "/docs/c.md")
	require.NoError(t, err)
	assert.Equal(t, "C @x\n", string(content))
}

func TestFmtCmd_Check(t *testing.T) {
	flags, app := newTestApp(t)
	fs := app.Env.FS
	require.NoError(t, afero.WriteFile(fs, "/docs/a.hadaf", []byte("A @x\n"), 0o644))

	out, err := runCmd(t, NewFmtCmd(flags, app), "fmt", "--check", "/docs/a.hadaf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 document(s) not formatted")
	assert.Contains(t, out, "/docs/a.hadaf")

	content, err := afero.ReadFile(fs, "/docs/a.hadaf")
	require.NoError(t, err)
	assert.Equal(t, "A @x\n", string(content))
}

func TestTagsCmd_List(t *testing.T) {
	flags, app := newTestApp(t)
	seedDocument(t, app, "Task 1 @project:foo\nTask 2 @project:bar")

	out, err := runCmd(t, NewTagsCmd(flags, app), "tags", "--json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var project TagInfo
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &project))
	assert.Equal(t, TagInfo{Name: "project", Values: []string{"bar", "foo"}}, project)
}

func TestTagsCmd_ListText(t *testing.T) {
	flags, app := newTestApp(t)
	seedDocument(t, app, "Task 1 @project:foo")

	out, err := runCmd(t, NewTagsCmd(flags, app), "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "@project")
	assert.Contains(t, out, "foo")
}

func TestTagsCmd_Values(t *testing.T) {
	flags, app := newTestApp(t)
	seedDocument(t, app, "Task 1 @project:foo\nTask 2 @project:bar")

	out, err := runCmd(t, NewTagsCmd(flags, app), "tags", "values", "@project")
	require.NoError(t, err)
	assert.Equal(t, "bar\nfoo\n", out)
}

func TestTagsCmd_ValuesInvalidName(t *testing.T) {
	flags, app := newTestApp(t)

	out, err := runCmd(t, NewTagsCmd(flags, app), "tags", "values", "project:foo")
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestDbCmd_Path(t *testing.T) {
	flags, app := newTestApp(t)

	out, err := runCmd(t, NewDbCmd(flags, app), "db", "path")
	require.NoError(t, err)
	assert.Equal(t, "/data/db.json\n", out)
}

func TestDbCmd_ExportImport(t *testing.T) {
	flags, app := newTestApp(t)
	seedDocument(t, app, "Task 1 @project:foo")

	dump, err := runCmd(t, NewDbCmd(flags, app), "db", "export")
	require.NoError(t, err)
	assert.Contains(t, dump, `"nextId": 2`)

	targetFlags, target := newTestApp(t)
	require.NoError(t, afero.WriteFile(target.Env.FS, "/backup.json", []byte(dump), 0o644))

	_, err = runCmd(t, NewDbCmd(targetFlags, target), "db", "import", "-f", "/backup.json")
	require.NoError(t, err)

	values, err := target.DB.TagValues(context.Background(), "project")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, values)
}

func TestDbCmd_ImportInvalid(t *testing.T) {
	flags, app := newTestApp(t)
	app.Env.Stdin = strings.NewReader("not json")

	_, err := runCmd(t, NewDbCmd(flags, app), "db", "import")
	assert.ErrorContains(t, err, "decode JSON")
}

func TestConfigValidateCmd_Valid(t *testing.T) {
	flags, app := newTestApp(t)

	out, err := runCmd(t, NewConfigValidateCmd(flags, app), "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
}

func TestConfigValidateCmd_InvalidJSON(t *testing.T) {
	flags, app := newTestApp(t)
	flags.Config.Theme = "solarized"
	flags.Config.Files = []string{"[oops"}

	out, err := runCmd(t, NewConfigValidateCmd(flags, app), "config", "validate", "--format", "json")
	require.Error(t, err)

	var result struct {
		Valid  bool              `json:"valid"`
		Errors []ValidationError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Valid)

	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"files[0]", "theme"}, fields)
}
