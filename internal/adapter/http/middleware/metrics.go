package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/oakbank/core-ledger/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Metrics records request duration per route template so path parameters do
// not explode label cardinality.
func Metrics(collectors *metrics.Collectors) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}

			collectors.ObserveHTTPRequest(route, r.Method, rec.status, time.Since(start))
		})
	}
}
