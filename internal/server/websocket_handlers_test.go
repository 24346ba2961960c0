package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MeKo-Tech/qrnode/internal/node"
	"github.com/MeKo-Tech/qrnode/internal/testutil"
	"github.com/MeKo-Tech/qrnode/internal/validation"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWebSocketConn records messages written by the server.
type mockWebSocketConn struct {
	sentMessages [][]byte
}

func (m *mockWebSocketConn) WriteMessage(_ int, data []byte) error {
	m.sentMessages = append(m.sentMessages, data)
	return nil
}

func wsRequest(t *testing.T, req WebSocketNodeRequest) []byte {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return data
}

func TestHandleWebSocketMessage(t *testing.T) {
	s := newTestServer(t)
	img := pngBytes(t, testutil.BlankImage(10, 10))
	ctx := context.Background()

	t.Run("invalid json", func(t *testing.T) {
		resp := s.handleWebSocketMessage(ctx, []byte("{"))
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, errTypeInvalidRequest, resp.ErrorType)
		assert.NotEmpty(t, resp.RequestID)
	})

	t.Run("unknown node", func(t *testing.T) {
		resp := s.handleWebSocketMessage(ctx, wsRequest(t, WebSocketNodeRequest{Node: "nope"}))
		assert.Equal(t, errTypeUnknownNode, resp.ErrorType)
	})

	t.Run("bad image", func(t *testing.T) {
		resp := s.handleWebSocketMessage(ctx, wsRequest(t, WebSocketNodeRequest{
			Node: node.ValidateNodeID, Image: []byte("xx"),
		}))
		assert.Equal(t, errTypeInvalidRequest, resp.ErrorType)
	})

	t.Run("validate match", func(t *testing.T) {
		resp := s.handleWebSocketMessage(ctx, wsRequest(t, WebSocketNodeRequest{
			Node:   node.ValidateNodeID,
			Image:  img,
			Inputs: map[string]any{"extracted_text": "http://a.b", "protocol": "Http", "text": "a.b"},
		}))
		require.Equal(t, "completed", resp.Status, resp.Error)
		assert.Equal(t, int(validation.CodeMatch), resp.Outputs[node.OutputValidationCode])
		assert.Equal(t, ImageInfo{Width: 10, Height: 10}, resp.Outputs[node.OutputImage])
	})

	t.Run("passthrough as bool", func(t *testing.T) {
		resp := s.handleWebSocketMessage(ctx, wsRequest(t, WebSocketNodeRequest{
			Node:   node.ValidateNodeID,
			Image:  img,
			Inputs: map[string]any{"extracted_text": "", "protocol": "None", "text": "a", "passthrough": true},
		}))
		require.Equal(t, "completed", resp.Status, resp.Error)
		assert.Equal(t, int(validation.CodeEmpty), resp.Outputs[node.OutputValidationCode])
	})

	t.Run("strict failure carries code", func(t *testing.T) {
		resp := s.handleWebSocketMessage(ctx, wsRequest(t, WebSocketNodeRequest{
			Node:   node.ValidateNodeID,
			Image:  img,
			Inputs: map[string]any{"extracted_text": "b", "protocol": "None", "text": "a"},
		}))
		assert.Equal(t, errTypeValidation, resp.ErrorType)
		require.NotNil(t, resp.ValidationCode)
		assert.Equal(t, int(validation.CodeMismatch), *resp.ValidationCode)
		assert.Contains(t, resp.Error, `extracted_text of "b" does not match input text of "a"`)
	})
}

func TestSendWebSocketResponse(t *testing.T) {
	conn := &mockWebSocketConn{}
	newTestServer(t).sendWebSocketResponse(conn, wsError("id-1", "n", errTypeInternal, "boom"))

	require.Len(t, conn.sentMessages, 1)
	var resp WebSocketNodeResponse
	require.NoError(t, json.Unmarshal(conn.sentMessages[0], &resp))
	assert.Equal(t, "id-1", resp.RequestID)
	assert.Equal(t, "boom", resp.Error)
}

func TestWebSocketRoundTrip(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.NoError(t, conn.WriteJSON(WebSocketNodeRequest{
		Node:   node.ValidateNodeID,
		Image:  pngBytes(t, testutil.BlankImage(8, 8)),
		Inputs: map[string]any{"extracted_text": "https://x.y", "text": "x.y"},
	}))

	var resp WebSocketNodeResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "completed", resp.Status, resp.Error)
	assert.EqualValues(t, 0, resp.Outputs[node.OutputValidationCode])
}
