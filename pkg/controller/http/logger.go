package http

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/wathbahs/muraji/pkg/utils/logging"
)

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (x *statusResponseWriter) WriteHeader(status int) {
	x.status = status
	x.ResponseWriter.WriteHeader(status)
}

func (x *statusResponseWriter) Write(b []byte) (int, error) {
	if x.status == 0 {
		x.status = http.StatusOK
	}
	return x.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.From(r.Context()).With("request_id", uuid.New().String())

		sw := &statusResponseWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r.WithContext(logging.With(r.Context(), logger)))

		logger.Info("Access Log",
			slog.Any("method", r.Method),
			slog.Any("path", r.URL.Path),
			slog.Any("query", r.URL.Query()),
			slog.Int("status", sw.status),
		)
	})
}
