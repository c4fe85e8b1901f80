package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainAndCloseRequest_DeclaredLengthTooLarge(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/assessment", strings.NewReader(strings.Repeat("x", 100)))
	DrainAndCloseRequest(10)(next).ServeHTTP(rr, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestDrainAndCloseRequest_StreamedBodyLimit(t *testing.T) {
	var readErr error
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/assessment", strings.NewReader(strings.Repeat("x", 100)))
	// unknown length, as with chunked transfer encoding
	req.ContentLength = -1
	DrainAndCloseRequest(10)(next).ServeHTTP(rr, req)

	require.Error(t, readErr)
	var maxBytesErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxBytesErr)
}

func TestDrainAndCloseRequest_UnderLimit(t *testing.T) {
	var body []byte
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/assessment", strings.NewReader(`{"age":25}`))
	DrainAndCloseRequest(1024)(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"age":25}`, string(body))
}

func TestDrainAndCloseRequest_UnreadBodyDrained(t *testing.T) {
	body := strings.NewReader(`{"age":25,"gender":"male"}`)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/assessment", body)
	DrainAndCloseRequest(0)(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, body.Len())
}
