package httpapi

import "github.com/chazu/geomaster/pkg/shape"

// shapeRequest describes one shape by kind and parameter mapping.
type shapeRequest struct {
	Kind       string       `json:"kind"`
	Parameters shape.Params `json:"parameters"`
}

type calculationResponse struct {
	// Result is nil when the exact value is not finite.
	Result     *float64     `json:"result,omitempty"`
	Metric     string       `json:"metric"`
	Kind       string       `json:"kind"`
	Parameters shape.Params `json:"parameters"`
}

type containmentRequest struct {
	Outer shapeRequest `json:"outer"`
	Inner shapeRequest `json:"inner"`
}

type shapeResponse struct {
	Kind       string       `json:"kind"`
	Parameters shape.Params `json:"parameters"`
}

type containmentResponse struct {
	Contained bool          `json:"contained"`
	Outer     shapeResponse `json:"outer"`
	Inner     shapeResponse `json:"inner"`
	Message   string        `json:"message"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Field   string `json:"field,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func toShapeResponse(s shape.Shape) shapeResponse {
	return shapeResponse{Kind: s.Kind().String(), Parameters: s.Params()}
}
