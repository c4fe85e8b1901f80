package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/2beens/fitassess/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PanicRecovery turns a handler panic into a 500 response. The panic is logged
// with its stack, counted, and recorded on the request span.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				log.WithFields(log.Fields{
					"method": req.Method,
					"route":  routeTemplate(req),
				}).Errorf("http: panic serving %s: %v\n%s", req.URL.Path, recovered, debug.Stack())

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}

				span := trace.SpanFromContext(req.Context())
				span.SetStatus(codes.Error, "panic")
				span.RecordError(fmt.Errorf("panic: %v", recovered))

				http.Error(w, "internal error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, req)
		})
	}
}
