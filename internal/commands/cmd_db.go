package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/hadaf/internal/core/database"
	"github.com/hay-kot/hadaf/internal/core/logging"
	"github.com/hay-kot/hadaf/internal/hadaf"
	"github.com/hay-kot/hadaf/pkg/iojson"
)

// DbCmd implements the hadaf db command group.
type DbCmd struct {
	flags *Flags
	app   *hadaf.App

	// import flags
	input *iojson.InputReader
}

// NewDbCmd creates a new db command.
func NewDbCmd(flags *Flags, app *hadaf.App) *DbCmd {
	return &DbCmd{
		flags: flags,
		app:   app,
		input: iojson.NewInputReader("path to JSON file (reads from stdin if not provided)"),
	}
}

// Register adds the db command to the application.
func (cmd *DbCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "db",
		Usage: "Inspect and move the item database",
		Description: `Database commands for backups and troubleshooting.

Examples:
  hadaf db path                     # print the database file location
  hadaf db export > backup.json     # dump the database as JSON
  hadaf db import -f backup.json    # replace the database from a dump`,
		Commands: []*cli.Command{
			cmd.pathCmd(),
			cmd.exportCmd(),
			cmd.importCmd(),
		},
	})

	return app
}

func (cmd *DbCmd) pathCmd() *cli.Command {
	return &cli.Command{
		Name:      "path",
		Usage:     "Print the database file location",
		UsageText: "hadaf db path",
		Action: func(ctx context.Context, c *cli.Command) error {
			_, err := fmt.Fprintln(c.Root().Writer, cmd.app.Store.Path())
			return err
		},
	}
}

func (cmd *DbCmd) exportCmd() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write the database as JSON to stdout",
		UsageText: "hadaf db export",
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = logging.WithCommand(ctx, "db export")

			data, err := cmd.app.DB.Export(ctx)
			if err != nil {
				return err
			}
			return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, data)
		},
	}
}

func (cmd *DbCmd) importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Replace the database with a JSON dump",
		UsageText: "hadaf db import [-f <file>]",
		Description: `Replaces the whole database with the dump read from --file or stdin.
The tag index is rebuilt from the imported items.`,
		Flags: []cli.Flag{cmd.input.Flag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = logging.WithCommand(ctx, "db import")

			data, err := iojson.ReadJSON[database.Data](cmd.input, cmd.app.Env.FS, cmd.app.Env.Stdin)
			if err != nil {
				return err
			}

			if err := cmd.app.DB.Replace(ctx, &data); err != nil {
				return err
			}

			log.Info().Ctx(ctx).Int("items", len(data.Items)).Msg("database imported")
			return nil
		},
	}
}
