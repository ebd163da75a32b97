package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/hadaf/internal/core/logging"
	"github.com/hay-kot/hadaf/internal/hadaf"
	"github.com/hay-kot/hadaf/pkg/iojson"
)

type HandleCmd struct {
	flags *Flags
	app   *hadaf.App

	// flags
	input *iojson.InputReader
	write bool
}

// NewHandleCmd creates a new handle command
func NewHandleCmd(flags *Flags, app *hadaf.App) *HandleCmd {
	return &HandleCmd{
		flags: flags,
		app:   app,
		input: iojson.NewInputReader("path to document (reads from stdin if not provided)"),
	}
}

// Register adds the handle command to the application
func (cmd *HandleCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "handle",
		Usage:     "Save a document and print it back from the database",
		UsageText: "hadaf handle [--write] [-f <file> | <file>]",
		Description: `Reads a document, saves its items to the database and prints the
document rendered from the database.

A document may start with an operations section (filter:, sort:, defaults:,
apply:, groupBy:) followed by the separator line. Operations shape what is
saved and what is printed.

The file may be given with --file or as the first argument. Use --write
to rewrite it in place.`,
		Flags: []cli.Flag{
			cmd.input.Flag(),
			&cli.BoolFlag{
				Name:        "write",
				Aliases:     []string{"w"},
				Usage:       "rewrite the file in place instead of printing",
				Destination: &cmd.write,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HandleCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "handle")

	if cmd.input.File() == "" && c.Args().Present() {
		cmd.input.SetFile(c.Args().First())
	}

	if cmd.write {
		path := cmd.input.File()
		if path == "" {
			return fmt.Errorf("--write requires a file")
		}

		changed, err := cmd.app.Documents.HandleFile(ctx, path)
		if err != nil {
			return fmt.Errorf("handle %s: %w", path, err)
		}
		log.Debug().Ctx(ctx).Bool("changed", changed).Msg("handled document")
		return nil
	}

	data, err := cmd.input.ReadAll(cmd.app.Env.FS, cmd.app.Env.Stdin)
	if err != nil {
		return err
	}

	out, err := cmd.app.Documents.Handle(ctx, string(data))
	if err != nil {
		return fmt.Errorf("handle document: %w", err)
	}

	return writeDocument(c, out)
}

// writeDocument prints a rendered document followed by a newline, or nothing
// for an empty document.
func writeDocument(c *cli.Command, doc string) error {
	if doc == "" {
		return nil
	}
	_, err := fmt.Fprintln(c.Root().Writer, doc)
	return err
}
