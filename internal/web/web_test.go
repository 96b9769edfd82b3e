package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandlerServesUI(t *testing.T) {
	h := Handler()

	tests := []struct {
		path     string
		contains string
	}{
		{path: "/", contains: `id="composer"`},
		{path: "/app.js", contains: "There was a connection problem. Try again shortly."},
		{path: "/app.js", contains: "Sorry, couldn't get a reply right now."},
		{path: "/styles.css", contains: ".bubble.bot.safety"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := httptest.NewRecorder()
			h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, http.StatusOK, resp.Code)
			require.Contains(t, resp.Body.String(), tt.contains)
		})
	}
}

func TestHandlerMissingFile(t *testing.T) {
	resp := httptest.NewRecorder()
	Handler().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/nope.txt", nil))
	require.Equal(t, http.StatusNotFound, resp.Code)
}
