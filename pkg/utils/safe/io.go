// Package safe wraps I/O calls whose errors can only be logged, such as
// closing a request body or writing a response that is already committed.
package safe

import (
	"context"
	"io"

	"github.com/caeleel/friendbook/pkg/utils/logging"
)

// Close closes closer and logs a failure. A nil closer is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Warn("failed to close", "error", err)
	}
}

// Write writes data to w and logs a failure or a short write
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	n, err := w.Write(data)
	if err != nil {
		logging.From(ctx).Warn("failed to write", "error", err, "written", n, "size", len(data))
	}
}
