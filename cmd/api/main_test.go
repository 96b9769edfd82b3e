package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"

	"github.com/nurumindfulness/nuru/backend/internal/config"
	"github.com/nurumindfulness/nuru/backend/internal/logging"
)

func TestBuildRouterWithoutCredentials(t *testing.T) {
	req := require.New(t)
	cfg, err := config.LoadFrom(env.EnvSet{"CRISIS_REPLY": "reach out to someone you trust"})
	req.NoError(err)

	router, err := buildRouter(context.Background(), cfg, logging.Discard())
	req.NoError(err)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"I want to die"}`)))
	req.Equal(http.StatusOK, resp.Code)
	req.JSONEq(`{"reply":"reach out to someone you trust","safety":true}`, resp.Body.String())

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hello"}`)))
	req.Equal(http.StatusInternalServerError, resp.Code)
}

func TestBuildRouterUnknownProviderFailsClosed(t *testing.T) {
	cfg, err := config.LoadFrom(env.EnvSet{"LLM_PROVIDER": "gemini", "OPENAI_API_KEY": "sk-test"})
	require.NoError(t, err)

	router, err := buildRouter(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hello"}`)))
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	require.Contains(t, resp.Body.String(), "gemini")
}

func TestRunServerShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: addr, Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
