package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/chazu/geomaster/pkg/calc"
	"github.com/chazu/geomaster/pkg/shape"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Containment verdict messages.
const (
	MessageContained    = "the inner shape is contained in the outer shape"
	MessageNotContained = "the inner shape is NOT contained in the outer shape"
)

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return &requestError{err: err}
	}
	return nil
}

// POST /api/v1/calculations/{metric}
func (s *Server) handleCalculation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	m, err := calc.ParseMetric(r.PathValue("metric"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: codeNotFound, Message: err.Error()})
		return
	}

	ctx, span := s.tracer.Start(r.Context(), "calculation",
		trace.WithAttributes(attribute.String("geomaster.metric", m.String())))
	defer span.End()

	var req shapeRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(ctx, span, w, err)
		return
	}
	span.SetAttributes(attribute.String("geomaster.kind", req.Kind))

	sh, err := shape.Build(req.Kind, req.Parameters)
	if err != nil {
		s.fail(ctx, span, w, err)
		return
	}
	v, err := calc.Compute(sh, m)
	if err != nil {
		s.fail(ctx, span, w, err)
		return
	}

	resp := calculationResponse{
		Metric:     m.String(),
		Kind:       sh.Kind().String(),
		Parameters: sh.Params(),
	}
	if rv, ok := calc.Round(v, s.places); ok {
		resp.Result = &rv
	}
	span.SetAttributes(attribute.Float64("geomaster.result", v))
	s.logger.InfoContext(ctx, "calculation", "metric", m.String(), "kind", sh.Kind().String(), "result", v)
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/v1/validations/contained-shape
func (s *Server) handleContainedShape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	ctx, span := s.tracer.Start(r.Context(), "contained-shape")
	defer span.End()

	var req containmentRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(ctx, span, w, err)
		return
	}
	span.SetAttributes(
		attribute.String("geomaster.outer.kind", req.Outer.Kind),
		attribute.String("geomaster.inner.kind", req.Inner.Kind),
	)

	outer, err := shape.Build(req.Outer.Kind, req.Outer.Parameters)
	if err != nil {
		s.fail(ctx, span, w, &operandError{operand: "outer", err: err})
		return
	}
	inner, err := shape.Build(req.Inner.Kind, req.Inner.Parameters)
	if err != nil {
		s.fail(ctx, span, w, &operandError{operand: "inner", err: err})
		return
	}
	ok, err := calc.Contains(outer, inner)
	if err != nil {
		s.fail(ctx, span, w, err)
		return
	}

	msg := MessageNotContained
	if ok {
		msg = MessageContained
	}
	span.SetAttributes(attribute.Bool("geomaster.contained", ok))
	s.logger.InfoContext(ctx, "containment",
		"outer", outer.Kind().String(), "inner", inner.Kind().String(), "contained", ok)
	writeJSON(w, http.StatusOK, containmentResponse{
		Contained: ok,
		Outer:     toShapeResponse(outer),
		Inner:     toShapeResponse(inner),
		Message:   msg,
	})
}

// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Code: codeNotFound, Message: "no route for " + r.URL.Path})
}
