package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nurumindfulness/nuru/backend/internal/mocks"
	"github.com/nurumindfulness/nuru/backend/internal/model/persona"
	"github.com/nurumindfulness/nuru/backend/internal/service/ai"
)

func dialChat(t *testing.T, r http.Handler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebSocketRelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	completer.EXPECT().
		Complete(gomock.Any(), "I had a hard day").
		Return("I'm sorry to hear that", nil).
		Times(1)
	completer.EXPECT().
		Complete(gomock.Any(), "what now").
		Return("", &ai.UpstreamError{Provider: "openai", Status: http.StatusUnauthorized, Detail: "bad key"}).
		Times(1)

	conn := dialChat(t, setupRouter(t, completer))

	t.Run("relayed reply", func(t *testing.T) {
		req := require.New(t)
		req.NoError(conn.WriteJSON(map[string]string{"message": "I had a hard day"}))
		var frame map[string]any
		req.NoError(conn.ReadJSON(&frame))
		req.Equal("I'm sorry to hear that", frame["reply"])
		req.Equal(false, frame["safety"])
	})

	t.Run("crisis reply", func(t *testing.T) {
		req := require.New(t)
		req.NoError(conn.WriteJSON(map[string]string{"message": "I want to die"}))
		var frame map[string]any
		req.NoError(conn.ReadJSON(&frame))
		req.Equal(persona.DefaultCrisisReply, frame["reply"])
		req.Equal(true, frame["safety"])
	})

	t.Run("bad frame", func(t *testing.T) {
		req := require.New(t)
		req.NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"message":7}`)))
		var frame map[string]any
		req.NoError(conn.ReadJSON(&frame))
		req.Equal("Missing 'message' in body", frame["error"])
		req.EqualValues(http.StatusBadRequest, frame["status"])
	})

	t.Run("upstream failure", func(t *testing.T) {
		req := require.New(t)
		req.NoError(conn.WriteJSON(map[string]string{"message": "what now"}))
		var frame map[string]any
		req.NoError(conn.ReadJSON(&frame))
		req.Equal("Upstream completion API error", frame["error"])
		req.Equal("bad key", frame["detail"])
		req.EqualValues(http.StatusBadGateway, frame["status"])
	})
}
