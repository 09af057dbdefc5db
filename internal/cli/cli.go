package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/stickernest/stickernest/internal/app"
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
	flagSet := flag.NewFlagSet("stickernest", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
stickernest - A widget canvas host with pre-wired pipeline presets.

Usage:
  stickernest [options] [PRESET_ID]

Arguments:
  PRESET_ID
    The id of the preset to run, e.g. 'grocery-management-pipeline'.

Options:
`)
		flagSet.PrintDefaults()
	}

	presetFlag := flagSet.String("preset", "", "Id of the preset to run as a canvas.")
	pFlag := flagSet.String("p", "", "Id of the preset to run (shorthand).")
	presetsPathFlag := flagSet.String("presets-path", "", "Path to a directory with extra .hcl preset files.")
	widgetsPathFlag := flagSet.String("widgets-path", "", "Path to a directory with extra .json widget manifests.")
	stateDBFlag := flagSet.String("state-db", "", "Path to the sqlite file for widget state. Empty keeps state in memory.")
	gatewayPortFlag := flagSet.Int("gateway-port", 4455, "Port for the socket.io widget gateway. 0 is disabled.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	presetID := ""
	if *presetFlag != "" {
		presetID = *presetFlag
	} else if *pFlag != "" {
		presetID = *pFlag
	} else if flagSet.NArg() > 0 {
		presetID = flagSet.Arg(0)
	}
	slog.Debug("Preset id determined.", "preset", presetID)

	if presetID == "" {
		slog.Debug("No preset id provided, printing usage and exiting.")
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
		PresetID:        presetID,
		PresetsPath:     *presetsPathFlag,
		WidgetsPath:     *widgetsPathFlag,
		StateDBPath:     *stateDBFlag,
		GatewayPort:     *gatewayPortFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
