package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/hadaf/internal/commands"
	"github.com/hay-kot/hadaf/internal/core/config"
	"github.com/hay-kot/hadaf/internal/core/env"
	"github.com/hay-kot/hadaf/internal/core/logging"
	"github.com/hay-kot/hadaf/internal/core/styles"
	"github.com/hay-kot/hadaf/internal/hadaf"
	"github.com/hay-kot/hadaf/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		hadafApp  = &hadaf.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "hadaf",
		Usage:     "Plain-text outliner backed by a tag database",
		UsageText: "hadaf [global options] command [command options]",
		Description: `Hadaf keeps your tasks in a database and lets you edit them as plain
text documents. Each line is an item, indentation nests items, and @name:value
tags carry data.

Handling a document saves its items and prints it back from the database,
shaped by the operations at the top of the document:

  filter: @project:work @done!:true
  sort: @deadline:asc
  ---
  Write the report @deadline:15/04/2024

Run 'hadaf watch' to handle documents every time your editor saves them.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("HADAF_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (logs go to stderr when unset)",
				Sources:     cli.EnvVars("HADAF_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("HADAF_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory (defaults to ~/.hadaf)",
				Sources:     cli.EnvVars(env.DataDirVar),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			e := env.Default()

			if flags.DataDir == "" {
				flags.DataDir, err = e.DataDir()
				if err != nil {
					return ctx, err
				}
			}

			cfg, err := config.Read(e.FS, flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			// `config validate` reports problems itself
			if c.Args().First() != "config" {
				if err := cfg.Validate(); err != nil {
					return ctx, fmt.Errorf("invalid config: %w", err)
				}
			}

			if palette, ok := styles.GetPalette(cfg.Theme); ok {
				styles.SetTheme(palette)
			}

			flags.Config = cfg

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*hadafApp = *hadaf.NewApp(e, cfg)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewHandleCmd(flags, hadafApp).Register(app)
	app = commands.NewCompleteCmd(flags, hadafApp).Register(app)
	app = commands.NewFmtCmd(flags, hadafApp).Register(app)
	app = commands.NewWatchCmd(flags, hadafApp).Register(app)
	app = commands.NewTagsCmd(flags, hadafApp).Register(app)
	app = commands.NewDbCmd(flags, hadafApp).Register(app)
	app = commands.NewConfigValidateCmd(flags, hadafApp).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
