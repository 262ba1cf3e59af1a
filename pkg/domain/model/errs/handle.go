package errs

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/utils/logging"
)

// Handle reports an unrecoverable error to Sentry and the structured logger.
// It never panics, even if the logging stack itself fails.
func Handle(ctx context.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			// last resort when the logging stack itself is broken
			fmt.Fprintf(os.Stderr, "[CRITICAL] error handler panicked: original_error=%s, panic=%v\n",
				err.Error(), r)
		}
	}()

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range goerr.Values(err) {
			scope.SetExtra(k, v)
		}
	})
	evID := hub.CaptureException(err)

	logging.From(ctx).Error("Error: "+err.Error(),
		slog.Any("error", err),
		slog.Any("sentry.id", evID),
	)
}
