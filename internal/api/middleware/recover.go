package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/lzjever/mbos-activity/internal/core"
)

// Recoverer turns a handler panic into an ACT_INTERNAL response. A panic
// inside a transaction callback has already rolled the transaction back by
// the time it reaches here.
func Recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				log.Error("panic recovered",
					zap.Any("panic", rvr),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("stack", string(debug.Stack())),
					zap.String("request_id", GetRequestID(r)),
				)
				writeError(w, core.ErrInternal, "internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
