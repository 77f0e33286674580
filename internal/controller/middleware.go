package controller

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sharetube/multisync/pkg/ctxlogger"
)

func (c *controller) requestIdMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = ctxlogger.AppendCtx(ctx, slog.String("request_id", c.generateTimeBasedId()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLoggingMw logs once the request is served. WebSocket requests are
// logged when the connection closes.
func (c *controller) requestLoggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		c.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
