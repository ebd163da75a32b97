package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/hadaf/internal/core/logging"
	"github.com/hay-kot/hadaf/internal/core/styles"
	"github.com/hay-kot/hadaf/internal/hadaf"
)

type WatchCmd struct {
	flags *Flags
	app   *hadaf.App

	// flags
	noSync bool
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags, app *hadaf.App) *WatchCmd {
	return &WatchCmd{flags: flags, app: app}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Handle documents as they are saved",
		UsageText: "hadaf watch [--no-sync] [<dir>]",
		Description: `Watches a directory (default: current directory) and handles every
document matching the configured file patterns each time it is saved.

Documents are handled once on startup unless --no-sync is given. Writes are
debounced by watch.debounce from the config file. Stop with Ctrl-C.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "no-sync",
				Usage:       "skip handling existing documents on startup",
				Destination: &cmd.noSync,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "watch")
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := "."
	if c.Args().Present() {
		root = c.Args().First()
	}

	watcher, err := cmd.app.NewWatcher(root)
	if err != nil {
		return err
	}
	defer watcher.Close() //nolint:errcheck

	out := c.Root().Writer

	if !cmd.noSync {
		results, err := watcher.Sync(ctx)
		if err != nil {
			return fmt.Errorf("sync documents: %w", err)
		}
		for _, r := range results {
			cmd.report(out, r)
		}
	}

	results, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	log.Info().Ctx(ctx).Str("dir", root).Msg("watching documents")
	for r := range results {
		cmd.report(out, r)
	}

	return nil
}

func (cmd *WatchCmd) report(out io.Writer, r hadaf.WatchResult) {
	l := logging.Document(log.Logger, r.Path)
	switch {
	case r.Err != nil:
		l.Error().Err(r.Err).Msg("handle failed")
		_, _ = fmt.Fprintf(out, "%s %s\n", styles.ErrorStyle.Render("error"), r.Path)
	case r.Changed:
		l.Info().Msg("document updated")
		_, _ = fmt.Fprintf(out, "%s %s\n", styles.SuccessStyle.Render("updated"), r.Path)
	default:
		l.Debug().Msg("document unchanged")
	}
}
