package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/hbsbind/internal/app"
	"github.com/vk/hbsbind/internal/hbs"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("hbsbind", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
hbsbind - Bind template markers to data and export the template.

Usage:
  hbsbind [options] [PROJECT]

Arguments:
  PROJECT
    Path to the .hcl project file.

Options:
`)
		flagSet.PrintDefaults()
	}

	projectFlag := flagSet.String("project", "", "Path to the project file.")
	pFlag := flagSet.String("p", "", "Path to the project file (shorthand).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	exportFlag := flagSet.String("export", "", "Write the template here instead of the project's export_path. '-' is stdout.")
	previewFlag := flagSet.Bool("preview", false, "Render the template against the sample data and print it.")
	checkFlag := flagSet.Bool("check", false, "Report unpaired blocks, empty placeholders and unresolved paths.")
	interactiveFlag := flagSet.Bool("interactive", false, "Open the explorer for every marker that still needs a binding.")
	bindFlag := flagSet.Int("bind", hbs.NoID, "Open the explorer for the marker with this id.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *projectFlag != "" {
		path = *projectFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Project path determined.", "path", path)

	if path == "" {
		slog.Debug("No project path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ProjectPath: path,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		ExportPath:  *exportFlag,
		Preview:     *previewFlag,
		Check:       *checkFlag,
		Interactive: *interactiveFlag,
		BindID:      *bindFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
