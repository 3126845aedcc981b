package backend

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hammamikhairi/akira/internal/format"
	"github.com/hammamikhairi/akira/internal/logger"
)

// NewRouter wires the chat handler behind the usual middleware.
func NewRouter(h *Handler, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	h.RegisterRoutes(r)
	return r
}

// requestLogger logs one line per request, noting mobile callers.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			device := "desktop"
			if format.IsMobileDevice(r.UserAgent()) {
				device = "mobile"
			}
			log.Info("%s %s -> %d (%s, %s) [%s]",
				r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Microsecond),
				device, middleware.GetReqID(r.Context()))
		})
	}
}
