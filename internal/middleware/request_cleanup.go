package middleware

import (
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// DrainAndCloseRequest caps the request body at maxBodyBytes. Requests that
// announce a larger body are rejected with 413 before reaching the handler.
// Once the handler returns, the unread remainder is drained and the body closed
// so the connection can be reused.
func DrainAndCloseRequest(maxBodyBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBodyBytes > 0 && r.ContentLength > maxBodyBytes {
				log.Debugf("request body of %d bytes rejected, limit is %d", r.ContentLength, maxBodyBytes)
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}

			if r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			if maxBodyBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			}
			defer func() {
				if drained, _ := io.Copy(io.Discard, r.Body); drained > 0 {
					log.Tracef("drained %d unread body bytes for %s", drained, r.URL.Path)
				}
				_ = r.Body.Close()
			}()

			next.ServeHTTP(w, r)
		})
	}
}
