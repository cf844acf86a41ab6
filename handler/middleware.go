package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// RequestLog writes one line per /api request once the response is done.
func RequestLog(log *otelzap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api") {
				next.ServeHTTP(rw, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(rw, r.ProtoMajor)
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				fields := []interface{}{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"duration_ms", time.Since(start).Milliseconds(),
				}
				if id := middleware.GetReqID(r.Context()); id != "" {
					fields = append(fields, "request_id", id)
				}

				l := log.Ctx(r.Context())
				switch {
				case status >= 500:
					l.Errorw("HTTP request", fields...)
				case status >= 400:
					l.Warnw("HTTP request", fields...)
				default:
					l.Infow("HTTP request", fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// Recover turns a panic in a handler into a 500 with a {message} body. The
// panic is logged and not re-raised, so the server keeps serving.
func Recover(log *otelzap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				ctx := r.Context()
				log.Ctx(ctx).Errorw("panic", "error", rec, "method", r.Method, "path", r.URL.Path)

				message := msgUnhandledServer
				if err, ok := rec.(error); ok && err.Error() != "" {
					message = err.Error()
				}
				respond(ctx, rw, http.StatusInternalServerError, map[string]string{"message": message})
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
