package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const traceIDHeader = "X-Trace-ID"

// traceID returns the caller's X-Trace-ID when it parses as a UUID and a
// fresh one otherwise, so arbitrary header text never reaches the logs.
func traceID(r *http.Request) string {
	if id, err := uuid.Parse(r.Header.Get(traceIDHeader)); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// withTraceID stores a request scoped logger carrying trace_id in the
// context and echoes the id back in the response header.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := traceID(r)
		w.Header().Set(traceIDHeader, id)

		reqLogger := h.logger.GetChildLogger()
		reqLogger.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", id)
		})

		next.ServeHTTP(w, r.WithContext(reqLogger.WithContext(r.Context())))
	})
}
