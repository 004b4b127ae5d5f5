package middleware_http

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"nemo-ecommerce/internal/logger"
)

// Recoverer turns a panic into a JSON 500 and logs the stack.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error(r.Context(), "panic",
					slog.String("recover", fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
