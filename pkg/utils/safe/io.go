// Package safe wraps cleanup calls whose errors have nowhere to go
// except the log.
package safe

import (
	"context"
	"io"

	"github.com/wathbahs/muraji/pkg/utils/logging"
)

func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("close failed", logging.ErrAttr(err))
	}
}
