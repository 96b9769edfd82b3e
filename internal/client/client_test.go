package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nurumindfulness/nuru/backend/internal/model/chat"
)

func TestClientSend(t *testing.T) {
	req := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body chat.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "I had a hard day", body.Message)

		_, _ = w.Write([]byte(`{"reply":"I'm sorry to hear that","safety":false}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", 0)
	reply, err := c.Send(context.Background(), "I had a hard day")
	req.NoError(err)
	req.Equal(chat.Reply{Reply: "I'm sorry to hear that"}, reply)
}

func TestClientSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"Upstream completion API error","detail":"bad key"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).Send(context.Background(), "hello")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, "Upstream completion API error", apiErr.Body.Error)
	require.Equal(t, "bad key", apiErr.Body.Detail)
	require.Contains(t, apiErr.Error(), "502")
}

func TestClientPersona(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/persona", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"nuru","name":"Nuru","title":"NuruMindfulness","greeting":"Hi"}`))
	}))
	defer srv.Close()

	g, err := New(srv.URL, 0).Persona(context.Background())
	require.NoError(t, err)
	require.Equal(t, Greeting{ID: "nuru", Name: "Nuru", Title: "NuruMindfulness", Greeting: "Hi"}, g)
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, 0).Send(context.Background(), "hello")
	require.Error(t, err)
	var apiErr *APIError
	require.False(t, errors.As(err, &apiErr))
}
