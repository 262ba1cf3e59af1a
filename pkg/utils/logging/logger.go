package logging

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/clog/hooks"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
)

type Format int

const (
	FormatConsole Format = iota + 1
	FormatJSON
)

var (
	defaultMu     sync.Mutex
	defaultLogger = slog.Default()
)

func Default() *slog.Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultLogger
}

func SetDefault(logger *slog.Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// Quiet discards all default-logger output. Used by tests and by commands
// that print structured results to stdout.
func Quiet() {
	SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func ErrAttr(err error) slog.Attr { return slog.Any("error", err) }

// redactor masks credential-bearing fields before they reach any handler.
func redactor() func([]string, slog.Attr) slog.Attr {
	return masq.New(
		masq.WithTag("secret"),
		masq.WithFieldPrefix("secret_"),
		masq.WithFieldName("Authorization"),
	)
}

// flattenGoErr expands a goerr value into its attached key/values without
// the stack trace.
func flattenGoErr(_ []string, attr slog.Attr) *clog.HandleAttr {
	goErr, ok := attr.Value.Any().(*goerr.Error)
	if !ok {
		return nil
	}

	var attrs []any
	for k, v := range goErr.Values() {
		attrs = append(attrs, slog.Any(k, v))
	}
	attrs = append(attrs, slog.Any("cause", goErr.Error()))
	grouped := slog.Group(attr.Key, attrs...)

	return &clog.HandleAttr{NewAttr: &grouped}
}

func New(w io.Writer, level slog.Level, format Format, stacktrace bool) *slog.Logger {
	filter := redactor()

	errHook := flattenGoErr
	if stacktrace {
		errHook = hooks.GoErr()
	}

	switch format {
	case FormatConsole:
		return slog.New(clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(filter),
			clog.WithAttrHook(errHook),
			clog.WithColorMap(&clog.ColorMap{
				Level: map[slog.Level]*color.Color{
					slog.LevelDebug: color.New(color.FgGreen, color.Bold),
					slog.LevelInfo:  color.New(color.FgCyan, color.Bold),
					slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
					slog.LevelError: color.New(color.FgRed, color.Bold),
				},
				LevelDefault: color.New(color.FgBlue, color.Bold),
				Time:         color.New(color.FgWhite),
				Message:      color.New(color.FgHiWhite),
				AttrKey:      color.New(color.FgHiCyan),
				AttrValue:    color.New(color.FgHiWhite),
			}),
		))

	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   true,
			Level:       level,
			ReplaceAttr: filter,
		}))

	default:
		panic(fmt.Sprintf("unsupported log format: %d", format))
	}
}
