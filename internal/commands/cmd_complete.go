package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/hadaf/internal/core/logging"
	"github.com/hay-kot/hadaf/internal/hadaf"
	"github.com/hay-kot/hadaf/pkg/iojson"
)

type CompleteCmd struct {
	flags *Flags
	app   *hadaf.App

	// flags
	jsonOutput bool
}

// NewCompleteCmd creates a new complete command
func NewCompleteCmd(flags *Flags, app *hadaf.App) *CompleteCmd {
	return &CompleteCmd{flags: flags, app: app}
}

// Register adds the complete command to the application
func (cmd *CompleteCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "complete",
		Usage:     "Suggest completions for a line of a document",
		UsageText: "hadaf complete [--json] [<line>]",
		Description: `Prints completion suggestions for the line typed so far, one per line.
The line is read from stdin when no argument is given.

  ""                  operation names
  "Some task "        tag names, as @name
  "Some task @pro"    tag names
  "Some task @pro:"   values of the tag

Intended for editor integrations. Use --json for a JSON array.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as a JSON array",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CompleteCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "complete")

	text, err := cmd.line(c)
	if err != nil {
		return err
	}

	suggestions, err := cmd.app.Handler.Autocomplete(ctx, text)
	if err != nil {
		return fmt.Errorf("autocomplete: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		if suggestions == nil {
			suggestions = []string{}
		}
		return iojson.WriteLine(out, suggestions)
	}

	for _, s := range suggestions {
		if _, err := fmt.Fprintln(out, s); err != nil {
			return err
		}
	}
	return nil
}

// line returns the text to complete. Only the last line of the input counts
// and its trailing whitespace is kept, since it decides what is suggested.
func (cmd *CompleteCmd) line(c *cli.Command) (string, error) {
	if c.Args().Present() {
		return c.Args().First(), nil
	}

	data, err := iojson.NewInputReader("").ReadAll(cmd.app.Env.FS, cmd.app.Env.Stdin)
	if err != nil {
		return "", err
	}

	text := strings.TrimSuffix(string(data), "\n")
	if i := strings.LastIndex(text, "\n"); i >= 0 {
		text = text[i+1:]
	}
	return text, nil
}
