package server

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MeKo-Tech/qrnode/internal/barcode"
	"github.com/MeKo-Tech/qrnode/internal/imageio"
	"github.com/MeKo-Tech/qrnode/internal/node"
	"github.com/MeKo-Tech/qrnode/internal/validation"
	"github.com/MeKo-Tech/qrnode/internal/version"
	"github.com/gorilla/mux"
)

// Error types reported in responses and metrics.
const (
	errTypeValidation     = "validation_failure"
	errTypeConfiguration  = "invalid_configuration"
	errTypeMissingDep     = "missing_dependency"
	errTypeUnknownNode    = "unknown_node"
	errTypeInvalidRequest = "invalid_request"
	errTypeTimeout        = "timeout"
	errTypeInternal       = "internal_error"
)

// classifyError maps a node error to an HTTP status and an error type.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, validation.ErrValidationFailed):
		return http.StatusUnprocessableEntity, errTypeValidation
	case errors.Is(err, barcode.ErrMissingDependency):
		return http.StatusServiceUnavailable, errTypeMissingDep
	case errors.Is(err, barcode.ErrInvalidConfiguration), errors.Is(err, validation.ErrInvalidConfiguration):
		return http.StatusBadRequest, errTypeConfiguration
	case errors.Is(err, node.ErrUnknownNode):
		return http.StatusNotFound, errTypeUnknownNode
	case errors.Is(err, node.ErrMissingInput), errors.Is(err, node.ErrInputType):
		return http.StatusBadRequest, errTypeInvalidRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errTypeTimeout
	default:
		return http.StatusInternalServerError, errTypeInternal
	}
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// nodesHandler lists the registered nodes.
func (s *Server) nodesHandler(w http.ResponseWriter, _ *http.Request) {
	nodes := make(map[string]node.Descriptor)
	for id, n := range s.registry.ClassMappings() {
		nodes[id] = n.Descriptor()
	}
	writeJSON(w, http.StatusOK, NodesResponse{
		Nodes:        nodes,
		DisplayNames: s.registry.DisplayNameMappings(),
		Count:        len(nodes),
	})
}

// runNodeHandler executes one node from a multipart form. IMAGE inputs are
// read from file parts, every other input from the form field of the same name.
func (s *Server) runNodeHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	reqID := requestID(r.Context())

	n, ok := s.registry.Get(id)
	if !ok {
		s.writeNodeError(w, id, reqID, node.ErrUnknownNode)
		return
	}

	limit := s.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(strings.ToLower(err.Error()), "too large") {
			s.writeErrorResponse(w, http.StatusRequestEntityTooLarge, NodeResponse{
				Node: id, RequestID: reqID, Error: "File too large", ErrorType: errTypeInvalidRequest,
			})
			return
		}
		s.writeErrorResponse(w, http.StatusBadRequest, NodeResponse{
			Node: id, RequestID: reqID, Error: "Failed to parse form data", ErrorType: errTypeInvalidRequest,
		})
		return
	}

	in, err := formInputs(r, n.Descriptor())
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, NodeResponse{
			Node: id, RequestID: reqID, Error: err.Error(), ErrorType: errTypeInvalidRequest,
		})
		return
	}

	out, err := s.execute(r.Context(), id, "http", in)
	if err != nil {
		s.writeNodeError(w, id, reqID, err)
		return
	}
	writeJSON(w, http.StatusOK, NodeResponse{Success: true, Node: id, RequestID: reqID, Outputs: encodeOutputs(out)})
}

// formInputs collects node inputs from a parsed multipart form. Absent fields
// are left out so the registry can apply combo defaults.
func formInputs(r *http.Request, d node.Descriptor) (node.Values, error) {
	in := node.Values{}
	for _, socket := range d.Inputs {
		if socket.Type == node.TypeImage {
			img, err := formImage(r, socket.Name)
			if err != nil {
				return nil, err
			}
			if img != nil {
				in[socket.Name] = img
			}
			continue
		}
		if vals, ok := r.MultipartForm.Value[socket.Name]; ok && len(vals) > 0 {
			in[socket.Name] = vals[0]
		}
	}
	return in, nil
}

func formImage(r *http.Request, name string) (image.Image, error) {
	file, header, err := r.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	uploadSizeBytes.Observe(float64(header.Size))
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	img, err := imageio.Decode(data)
	if err != nil {
		return nil, errors.New("invalid image format for " + name)
	}
	return img, nil
}

// execute runs a node with the server timeout and records metrics.
func (s *Server) execute(ctx context.Context, id, transport string, in node.Values) (node.Values, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	out, err := s.registry.Run(ctx, id, in)
	nodeRunDuration.WithLabelValues(id).Observe(time.Since(start).Seconds())

	var failure *validation.Failure
	switch {
	case errors.As(err, &failure):
		validationCodesTotal.WithLabelValues(failure.Code.String()).Inc()
	case err == nil:
		if code, ok := out[node.OutputValidationCode].(int); ok {
			validationCodesTotal.WithLabelValues(validation.Code(code).String()).Inc()
		}
	}

	outcome := "success"
	if err != nil {
		_, outcome = classifyError(err)
		slog.Debug("Node run failed", "node", id, "transport", transport, "error", err)
	}
	nodeRunsTotal.WithLabelValues(id, transport, outcome).Inc()
	return out, err
}

// encodeOutputs replaces image outputs with their dimensions.
func encodeOutputs(out node.Values) map[string]any {
	enc := make(map[string]any, len(out))
	for k, v := range out {
		if img, ok := v.(image.Image); ok {
			b := img.Bounds()
			enc[k] = ImageInfo{Width: b.Dx(), Height: b.Dy()}
			continue
		}
		enc[k] = v
	}
	return enc
}

func (s *Server) writeNodeError(w http.ResponseWriter, id, reqID string, err error) {
	status, errType := classifyError(err)
	resp := NodeResponse{Node: id, RequestID: reqID, Error: err.Error(), ErrorType: errType}
	var failure *validation.Failure
	if errors.As(err, &failure) {
		code := int(failure.Code)
		resp.ValidationCode = &code
	}
	if status >= http.StatusInternalServerError {
		slog.Error("Node request failed", "node", id, "request_id", reqID, "error", err)
	}
	s.writeErrorResponse(w, status, resp)
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, status int, resp NodeResponse) {
	resp.Success = false
	if strings.TrimSpace(resp.Error) == "" {
		resp.Error = http.StatusText(status)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
