package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/hadaf/internal/core/logging"
	"github.com/hay-kot/hadaf/internal/core/styles"
	"github.com/hay-kot/hadaf/internal/core/syntax"
	"github.com/hay-kot/hadaf/internal/core/validate"
	"github.com/hay-kot/hadaf/internal/hadaf"
	"github.com/hay-kot/hadaf/pkg/iojson"
)

type TagsCmd struct {
	flags *Flags
	app   *hadaf.App

	// flags
	jsonOutput bool
}

// NewTagsCmd creates a new tags command
func NewTagsCmd(flags *Flags, app *hadaf.App) *TagsCmd {
	return &TagsCmd{flags: flags, app: app}
}

// TagInfo is the JSON form of an indexed tag.
type TagInfo struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Register adds the tags command to the application
func (cmd *TagsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tags",
		Usage:     "List the tags known to the database",
		UsageText: "hadaf tags [--json] | hadaf tags values <name>",
		Description: `Lists every indexed tag name with its distinct values.

Examples:
  hadaf tags                  # all tags with their values
  hadaf tags values project   # values of @project`,
		Flags:  []cli.Flag{cmd.jsonFlag()},
		Action: cmd.runList,
		Commands: []*cli.Command{
			{
				Name:          "values",
				Usage:         "List the values of a tag",
				UsageText:     "hadaf tags values <name>",
				Flags:         []cli.Flag{cmd.jsonFlag()},
				ShellComplete: TagNameCompleter(cmd.app),
				Action:        cmd.runValues,
			},
		},
	})

	return app
}

func (cmd *TagsCmd) jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:        "json",
		Usage:       "output as JSON lines",
		Destination: &cmd.jsonOutput,
	}
}

func (cmd *TagsCmd) runList(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "tags")

	names, err := cmd.app.DB.TagNames(ctx)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	for _, name := range names {
		values, err := cmd.app.DB.TagValues(ctx, name)
		if err != nil {
			return err
		}

		if cmd.jsonOutput {
			if err := iojson.WriteLine(out, TagInfo{Name: name, Values: values}); err != nil {
				return fmt.Errorf("encode tag: %w", err)
			}
			continue
		}

		_, _ = fmt.Fprintf(out, "%s %s\n", styles.Tag(name), styles.TagCountStyle.Render(fmt.Sprintf("(%d)", len(values))))
		for _, value := range values {
			_, _ = fmt.Fprintln(out, styles.TagValueStyle.Render(value))
		}
	}

	return nil
}

func (cmd *TagsCmd) runValues(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "tags")

	name := c.Args().First()
	if err := validate.TagNameField("name", name); err != nil {
		return err
	}
	name = strings.TrimPrefix(name, syntax.TagStart)

	values, err := cmd.app.DB.TagValues(ctx, name)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		if values == nil {
			values = []string{}
		}
		return iojson.WriteLine(out, TagInfo{Name: name, Values: values})
	}

	for _, value := range values {
		_, _ = fmt.Fprintln(out, value)
	}
	return nil
}
