package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/wathbahs/muraji/pkg/utils/logging"
	"github.com/wathbahs/muraji/pkg/utils/safe"
)

type Logger struct {
	level      string
	format     string
	output     string
	quiet      bool
	stacktrace bool
}

func (x *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Category:    "logging",
			Aliases:     []string{"l"},
			Sources:     cli.EnvVars("MURAJI_LOG_LEVEL"),
			Usage:       "Log level [debug|info|warn|error]",
			Value:       "info",
			Destination: &x.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Category:    "logging",
			Aliases:     []string{"f"},
			Sources:     cli.EnvVars("MURAJI_LOG_FORMAT"),
			Usage:       "Log format [console|json]",
			Value:       "console",
			Destination: &x.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Category:    "logging",
			Aliases:     []string{"o"},
			Sources:     cli.EnvVars("MURAJI_LOG_OUTPUT"),
			Usage:       "Log destination: 'stdout', 'stderr', or a file path",
			Value:       "stdout",
			Destination: &x.output,
		},
		&cli.BoolFlag{
			Name:        "log-quiet",
			Category:    "logging",
			Aliases:     []string{"q"},
			Usage:       "Suppress all log output",
			Sources:     cli.EnvVars("MURAJI_LOG_QUIET"),
			Destination: &x.quiet,
		},
		&cli.BoolFlag{
			Name:        "log-stacktrace",
			Category:    "logging",
			Aliases:     []string{"s"},
			Usage:       "Include stack traces in error logs (console format only)",
			Sources:     cli.EnvVars("MURAJI_LOG_STACKTRACE"),
			Destination: &x.stacktrace,
			Value:       true,
		},
	}
}

func (x Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", x.level),
		slog.String("format", x.format),
		slog.String("output", x.output),
	)
}

func (x *Logger) parseFormat() (logging.Format, error) {
	switch x.format {
	case "console":
		return logging.FormatConsole, nil
	case "json":
		return logging.FormatJSON, nil
	default:
		return 0, goerr.New("invalid log format", goerr.V("format", x.format))
	}
}

func (x *Logger) parseLevel() (slog.Level, error) {
	switch x.level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, goerr.New("invalid log level", goerr.V("level", x.level))
	}
}

// Configure sets up the default logger and returns a closer function. The
// closer is safe to call even when an error is returned.
func (x *Logger) Configure() (func(), error) {
	closer := func() {}

	if x.quiet {
		logging.Quiet()
		return closer, nil
	}

	format, err := x.parseFormat()
	if err != nil {
		return closer, err
	}
	level, err := x.parseLevel()
	if err != nil {
		return closer, err
	}

	var output io.Writer
	switch x.output {
	case "stdout", "-":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		f, err := os.OpenFile(filepath.Clean(x.output), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return closer, goerr.Wrap(err, "failed to open log file", goerr.V("path", x.output))
		}
		output = f
		closer = func() {
			safe.Close(context.Background(), f)
		}
	}

	logging.SetDefault(logging.New(output, level, format, x.stacktrace))

	return closer, nil
}
