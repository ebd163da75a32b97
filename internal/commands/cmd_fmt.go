package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/hadaf/internal/core/logging"
	"github.com/hay-kot/hadaf/internal/core/styles"
	"github.com/hay-kot/hadaf/internal/hadaf"
	"github.com/hay-kot/hadaf/pkg/iojson"
)

type FmtCmd struct {
	flags *Flags
	app   *hadaf.App

	// flags
	all   bool
	check bool
	dir   string
}

// NewFmtCmd creates a new fmt command
func NewFmtCmd(flags *Flags, app *hadaf.App) *FmtCmd {
	return &FmtCmd{flags: flags, app: app}
}

// Register adds the fmt command to the application
func (cmd *FmtCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "fmt",
		Usage:     "Normalize documents without touching the database",
		UsageText: "hadaf fmt [--check] [--all [--dir <dir>]] [<file>...]",
		Description: `Rewrites documents in their canonical form: two-space indentation,
single spaces and explicit boolean tags. The database is not read or written.

With no files, formats stdin to stdout. Use --all to format every document
matching the configured file patterns under --dir.

Use --check to list the documents that are not formatted and exit non-zero
instead of rewriting them.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "format every document matching the configured patterns",
				Destination: &cmd.all,
			},
			&cli.BoolFlag{
				Name:        "check",
				Usage:       "report unformatted documents without rewriting them",
				Destination: &cmd.check,
			},
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "directory searched by --all",
				Value:       ".",
				Destination: &cmd.dir,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *FmtCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "fmt")

	paths := c.Args().Slice()
	if cmd.all {
		found, err := cmd.app.Documents.Find(cmd.dir)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}

	if len(paths) == 0 {
		data, err := iojson.NewInputReader("").ReadAll(cmd.app.Env.FS, cmd.app.Env.Stdin)
		if err != nil {
			return err
		}
		return writeDocument(c, cmd.app.Documents.Format(string(data)))
	}

	out := c.Root().Writer
	unformatted := 0
	for _, path := range paths {
		var (
			changed bool
			err     error
		)
		if cmd.check {
			changed, err = cmd.app.Documents.CheckFormat(ctx, path)
		} else {
			changed, err = cmd.app.Documents.FormatFile(ctx, path)
		}
		if err != nil {
			return fmt.Errorf("format %s: %w", path, err)
		}
		if !changed {
			continue
		}

		unformatted++
		_, _ = fmt.Fprintln(out, styles.WarningStyle.Render(path))
	}

	if cmd.check && unformatted > 0 {
		return cli.Exit(fmt.Sprintf("%d document(s) not formatted", unformatted), 1)
	}
	return nil
}
