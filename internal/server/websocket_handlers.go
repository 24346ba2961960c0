package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeKo-Tech/qrnode/internal/imageio"
	"github.com/MeKo-Tech/qrnode/internal/node"
	"github.com/MeKo-Tech/qrnode/internal/validation"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketNodeRequest asks the server to run one node. Image holds encoded
// image bytes (base64 in JSON) and feeds the node's IMAGE input.
type WebSocketNodeRequest struct {
	Node   string         `json:"node"`
	Image  []byte         `json:"image,omitempty"`
	Inputs map[string]any `json:"inputs,omitempty"`
}

// WebSocketNodeResponse reports the outcome of a WebSocketNodeRequest.
type WebSocketNodeResponse struct {
	Type           string         `json:"type"`
	Status         string         `json:"status"` // "completed", "error"
	Node           string         `json:"node,omitempty"`
	RequestID      string         `json:"request_id,omitempty"`
	Outputs        map[string]any `json:"outputs,omitempty"`
	Error          string         `json:"error,omitempty"`
	ErrorType      string         `json:"error_type,omitempty"`
	ValidationCode *int           `json:"validation_code,omitempty"`
}

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// nodeWebSocketHandler upgrades the connection and serves node requests
// until the client disconnects.
func (s *Server) nodeWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	s.handleWebSocketConnection(ctx, conn)
}

func (s *Server) handleWebSocketConnection(ctx context.Context, conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			return
		}
		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.sendWebSocketResponse(conn, s.handleWebSocketMessage(ctx, data))
		}
	}
}

// handleWebSocketMessage runs one request and builds its response.
func (s *Server) handleWebSocketMessage(ctx context.Context, data []byte) WebSocketNodeResponse {
	reqID := uuid.NewString()

	var req WebSocketNodeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return wsError(reqID, "", errTypeInvalidRequest, fmt.Sprintf("Failed to parse request: %v", err))
	}
	n, ok := s.registry.Get(req.Node)
	if !ok {
		return wsError(reqID, req.Node, errTypeUnknownNode, fmt.Sprintf("%v: %q", node.ErrUnknownNode, req.Node))
	}

	in, err := wsInputs(n.Descriptor(), req)
	if err != nil {
		return wsError(reqID, req.Node, errTypeInvalidRequest, err.Error())
	}

	out, err := s.execute(ctx, req.Node, "websocket", in)
	if err != nil {
		_, errType := classifyError(err)
		resp := wsError(reqID, req.Node, errType, err.Error())
		var failure *validation.Failure
		if errors.As(err, &failure) {
			code := int(failure.Code)
			resp.ValidationCode = &code
		}
		return resp
	}
	return WebSocketNodeResponse{
		Type:      "node_response",
		Status:    "completed",
		Node:      req.Node,
		RequestID: reqID,
		Outputs:   encodeOutputs(out),
	}
}

// wsInputs converts JSON inputs into node values. JSON booleans map to the
// host's "True"/"False" combo spelling and whole numbers to int.
func wsInputs(d node.Descriptor, req WebSocketNodeRequest) (node.Values, error) {
	in := node.Values{}
	for k, v := range req.Inputs {
		switch val := v.(type) {
		case bool:
			if val {
				in[k] = "True"
			} else {
				in[k] = "False"
			}
		case float64:
			in[k] = int(val)
		default:
			in[k] = v
		}
	}
	if len(req.Image) == 0 {
		return in, nil
	}
	img, err := imageio.Decode(req.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	for _, socket := range d.Inputs {
		if socket.Type == node.TypeImage {
			in[socket.Name] = img
		}
	}
	return in, nil
}

func wsError(reqID, nodeID, errType, msg string) WebSocketNodeResponse {
	return WebSocketNodeResponse{
		Type:      "error",
		Status:    "error",
		Node:      nodeID,
		RequestID: reqID,
		Error:     msg,
		ErrorType: errType,
	}
}

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn WebSocketConnWriter, response WebSocketNodeResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
