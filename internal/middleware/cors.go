package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

const (
	anyOrigin     = "*"
	allowHeaders  = "Accept, Content-Type, Content-Length, Accept-Encoding"
	allowMethods  = "POST, GET, OPTIONS"
	exposeHeaders = "Content-Disposition, Retry-After"
	// preflight results are cached by the browser for 10 minutes
	preflightMaxAge = "600"
)

// Cors allows browser requests from the configured origins. Requests without an
// Origin header (curl, server-to-server) pass through untouched. A "*" entry
// allows every origin.
func Cors(allowedOrigins []string) func(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !allowed[origin] && !allowed[anyOrigin] {
				log.Warnf("CORS: origin not allowed for path [%s] and origin [%s]", r.URL.Path, origin)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")

			if r.Method != http.MethodOptions {
				h.Set("Access-Control-Expose-Headers", exposeHeaders)
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Max-Age", preflightMaxAge)
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
