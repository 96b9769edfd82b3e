package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	})
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()

	CORS(okHandler()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), "POST")
	require.Contains(t, resp.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	require.Empty(t, resp.Body.String())
}

func TestCORSPassThrough(t *testing.T) {
	resp := httptest.NewRecorder()
	CORS(okHandler()).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/chat", nil))

	require.Equal(t, http.StatusTeapot, resp.Code)
	require.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "hi", resp.Body.String())
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	resp := httptest.NewRecorder()
	RequestLogger(logger)(okHandler()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusTeapot, resp.Code)
	out := buf.String()
	require.Contains(t, out, `"msg":"http request"`)
	require.Contains(t, out, `"path":"/healthz"`)
	require.Contains(t, out, `"status":418`)
	require.Contains(t, out, `"bytes":2`)
}
