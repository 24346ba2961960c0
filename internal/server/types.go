package server

import "github.com/MeKo-Tech/qrnode/internal/node"

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// NodesResponse is returned by GET /nodes.
type NodesResponse struct {
	Nodes        map[string]node.Descriptor `json:"nodes"`
	DisplayNames map[string]string          `json:"display_names"`
	Count        int                        `json:"count"`
}

// ImageInfo stands in for an image output; pixels are not echoed back.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NodeResponse is returned by POST /nodes/{id}.
type NodeResponse struct {
	Success        bool           `json:"success"`
	Node           string         `json:"node,omitempty"`
	RequestID      string         `json:"request_id,omitempty"`
	Outputs        map[string]any `json:"outputs,omitempty"`
	Error          string         `json:"error,omitempty"`
	ErrorType      string         `json:"error_type,omitempty"`
	ValidationCode *int           `json:"validation_code,omitempty"`
}
