package http

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/m-mizutani/goerr/v2"
)

func panicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				panicErr := goerr.New("panic recovered",
					goerr.V("panic", fmt.Sprintf("%v", err)),
					goerr.V("stack", string(debug.Stack())),
					goerr.V("method", r.Method),
					goerr.V("path", r.URL.Path),
				)
				handleError(w, r, panicErr)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
