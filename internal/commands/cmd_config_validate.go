package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/hadaf/internal/core/styles"
	"github.com/hay-kot/hadaf/internal/hadaf"
	"github.com/hay-kot/hadaf/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	app    *hadaf.App
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags, app *hadaf.App) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags, app: app}
}

// ValidationError is one invalid config field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "hadaf config validate [options]",
				Description: "Validates the configuration file, checking the separator, file patterns, theme and paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	errs := fieldErrors(cmd.flags.Config.ValidateDeep(cmd.app.Env.FS, cmd.flags.ConfigPath))

	if cmd.format == "json" {
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, struct {
			Valid  bool              `json:"valid"`
			Config string            `json:"config"`
			Errors []ValidationError `json:"errors,omitempty"`
		}{
			Valid:  len(errs) == 0,
			Config: cmd.flags.ConfigPath,
			Errors: errs,
		}); err != nil {
			return err
		}
	} else {
		cmd.outputText(c.Root().Writer, errs)
	}

	if len(errs) > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *ConfigValidateCmd) outputText(w io.Writer, errs []ValidationError) {
	for _, e := range errs {
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", styles.ErrorStyle.Render("✗"), e.Field, e.Message)
	}

	_, _ = fmt.Fprintln(w)
	if len(errs) == 0 {
		_, _ = fmt.Fprintln(w, styles.SuccessStyle.Render("Configuration is valid"))
		return
	}
	_, _ = fmt.Fprintln(w, styles.ErrorStyle.Render(fmt.Sprintf("%d error(s) found", len(errs))))
}

// fieldErrors flattens a validation error into its field errors.
func fieldErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: "config", Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out
}
