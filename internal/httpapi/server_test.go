package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chazu/geomaster/pkg/shape"
	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func ptr(v float64) *float64 { return &v }

func TestCalculation(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		want calculationResponse
	}{
		{
			name: "circle area",
			path: "/api/v1/calculations/area",
			body: `{"kind":"circle","parameters":{"radius":5}}`,
			want: calculationResponse{Result: ptr(78.54), Metric: "area", Kind: "circle", Parameters: shape.Params{"radius": 5}},
		},
		{
			name: "rectangle perimeter",
			path: "/api/v1/calculations/perimeter",
			body: `{"kind":"Rectangle","parameters":{"width":3,"height":4,"depth":9}}`,
			want: calculationResponse{Result: ptr(14), Metric: "perimeter", Kind: "rectangle", Parameters: shape.Params{"width": 3, "height": 4}},
		},
		{
			name: "sphere volume",
			path: "/api/v1/calculations/volume",
			body: `{"kind":"SPHERE","parameters":{"radius":3}}`,
			want: calculationResponse{Result: ptr(113.1), Metric: "volume", Kind: "sphere", Parameters: shape.Params{"radius": 3}},
		},
		{
			name: "sphere surface area",
			path: "/api/v1/calculations/surface-area",
			body: `{"kind":"sphere","parameters":{"radius":1}}`,
			want: calculationResponse{Result: ptr(12.57), Metric: "surface-area", Kind: "sphere", Parameters: shape.Params{"radius": 1}},
		},
		{
			name: "overflow omits result",
			path: "/api/v1/calculations/area",
			body: `{"kind":"rectangle","parameters":{"width":1e200,"height":1e200}}`,
			want: calculationResponse{Metric: "area", Kind: "rectangle", Parameters: shape.Params{"width": 1e200, "height": 1e200}},
		},
	}
	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			got := decodeBody[calculationResponse](t, rec)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("response mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCalculationRoundPlaces(t *testing.T) {
	s := New(WithRoundPlaces(0))
	rec := do(t, s, http.MethodPost, "/api/v1/calculations/area", `{"kind":"circle","parameters":{"radius":5}}`)
	got := decodeBody[calculationResponse](t, rec)
	if got.Result == nil || *got.Result != 79 {
		t.Errorf("result = %v, want 79", got.Result)
	}
}

func TestCalculationErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		want       errorResponse
	}{
		{
			name:       "unsupported kind",
			method:     http.MethodPost,
			path:       "/api/v1/calculations/area",
			body:       `{"kind":"hexagon","parameters":{"side":1}}`,
			wantStatus: http.StatusBadRequest,
			want:       errorResponse{Code: "UNSUPPORTED_KIND", Message: `shape kind "hexagon" is not supported`, Kind: "hexagon", Field: "kind"},
		},
		{
			name:       "missing parameter",
			method:     http.MethodPost,
			path:       "/api/v1/calculations/area",
			body:       `{"kind":"rectangle","parameters":{"width":-1}}`,
			wantStatus: http.StatusBadRequest,
			want:       errorResponse{Code: "MISSING_PARAMETER", Message: `parameter "height" is required for rectangle`, Kind: "rectangle", Field: "height"},
		},
		{
			name:       "invalid parameter",
			method:     http.MethodPost,
			path:       "/api/v1/calculations/area",
			body:       `{"kind":"circle","parameters":{"radius":0}}`,
			wantStatus: http.StatusBadRequest,
			want:       errorResponse{Code: "INVALID_PARAMETER", Message: `parameter "radius" of circle must be a positive finite number, got 0`, Kind: "circle", Field: "radius"},
		},
		{
			name:       "unsupported capability",
			method:     http.MethodPost,
			path:       "/api/v1/calculations/volume",
			body:       `{"kind":"circle","parameters":{"radius":1}}`,
			wantStatus: http.StatusBadRequest,
			want:       errorResponse{Code: "UNSUPPORTED_CAPABILITY", Message: "circle does not support volume", Kind: "circle", Field: "metric"},
		},
		{
			name:       "missing parameters object",
			method:     http.MethodPost,
			path:       "/api/v1/calculations/area",
			body:       `{"kind":"circle"}`,
			wantStatus: http.StatusBadRequest,
			want:       errorResponse{Code: "MISSING_PARAMETER", Message: `parameter "radius" is required for circle`, Kind: "circle", Field: "radius"},
		},
	}
	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			got := decodeBody[errorResponse](t, rec)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("error mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransportErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", http.MethodPost, "/api/v1/calculations/area", `{"kind":`, http.StatusBadRequest, codeInvalidRequest},
		{"string parameter", http.MethodPost, "/api/v1/calculations/area", `{"kind":"circle","parameters":{"radius":"5"}}`, http.StatusBadRequest, codeInvalidRequest},
		{"wrong method", http.MethodGet, "/api/v1/calculations/area", "", http.StatusMethodNotAllowed, codeMethodNotAllowed},
		{"unknown metric", http.MethodPost, "/api/v1/calculations/diameter", `{}`, http.StatusNotFound, codeNotFound},
		{"unknown route", http.MethodGet, "/api/v2/anything", "", http.StatusNotFound, codeNotFound},
		{"validation wrong method", http.MethodPut, "/api/v1/validations/contained-shape", "", http.StatusMethodNotAllowed, codeMethodNotAllowed},
	}
	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			got := decodeBody[errorResponse](t, rec)
			if got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.wantStatus == http.StatusMethodNotAllowed && rec.Header().Get("Allow") != http.MethodPost {
				t.Errorf("Allow = %q", rec.Header().Get("Allow"))
			}
		})
	}
}

func TestContainedShape(t *testing.T) {
	tests := []struct {
		name string
		body string
		want containmentResponse
	}{
		{
			name: "circle in square",
			body: `{"outer":{"kind":"rectangle","parameters":{"width":10,"height":10}},"inner":{"kind":"circle","parameters":{"radius":5}}}`,
			want: containmentResponse{
				Contained: true,
				Outer:     shapeResponse{Kind: "rectangle", Parameters: shape.Params{"width": 10, "height": 10}},
				Inner:     shapeResponse{Kind: "circle", Parameters: shape.Params{"radius": 5}},
				Message:   MessageContained,
			},
		},
		{
			name: "larger circle",
			body: `{"outer":{"kind":"circle","parameters":{"radius":2}},"inner":{"kind":"circle","parameters":{"radius":3}}}`,
			want: containmentResponse{
				Contained: false,
				Outer:     shapeResponse{Kind: "circle", Parameters: shape.Params{"radius": 2}},
				Inner:     shapeResponse{Kind: "circle", Parameters: shape.Params{"radius": 3}},
				Message:   MessageNotContained,
			},
		},
	}
	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/validations/contained-shape", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			got := decodeBody[containmentResponse](t, rec)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("response mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContainedShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want errorResponse
	}{
		{
			name: "sphere pair",
			body: `{"outer":{"kind":"sphere","parameters":{"radius":5}},"inner":{"kind":"circle","parameters":{"radius":1}}}`,
			want: errorResponse{Code: "UNSUPPORTED_PAIR", Message: "containment of circle in sphere is not supported", Kind: "sphere"},
		},
		{
			name: "invalid inner",
			body: `{"outer":{"kind":"circle","parameters":{"radius":5}},"inner":{"kind":"circle","parameters":{"radius":-1}}}`,
			want: errorResponse{Code: "INVALID_PARAMETER", Message: `parameter "radius" of circle must be a positive finite number, got -1`, Kind: "circle", Field: "inner.radius"},
		},
		{
			name: "unknown outer kind",
			body: `{"outer":{"kind":"triangle","parameters":{}},"inner":{"kind":"circle","parameters":{"radius":1}}}`,
			want: errorResponse{Code: "UNSUPPORTED_KIND", Message: `shape kind "triangle" is not supported`, Kind: "triangle", Field: "outer.kind"},
		},
	}
	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/validations/contained-shape", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			got := decodeBody[errorResponse](t, rec)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("error mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, New(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeBody[healthResponse](t, rec); got.Status != "ok" {
		t.Errorf("status = %q", got.Status)
	}
}

func TestSpansRecorded(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	s := New(WithTracerProvider(tp))

	do(t, s, http.MethodPost, "/api/v1/calculations/area", `{"kind":"circle","parameters":{"radius":1}}`)
	do(t, s, http.MethodPost, "/api/v1/calculations/area", `{"kind":"circle","parameters":{"radius":0}}`)

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Name() != "calculation" || spans[0].Status().Code == codes.Error {
		t.Errorf("first span = %q status %v", spans[0].Name(), spans[0].Status())
	}
	if spans[1].Status().Code != codes.Error || spans[1].Status().Description != "INVALID_PARAMETER" {
		t.Errorf("second span status = %+v", spans[1].Status())
	}
	if len(spans[1].Events()) == 0 {
		t.Error("expected the error to be recorded as a span event")
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	do(t, s, http.MethodPost, "/api/v1/calculations/area", `{"kind":"circle","parameters":{"radius":1}}`)
	do(t, s, http.MethodPost, "/api/v1/calculations/area", `{"kind":"square"}`)

	out := buf.String()
	if !strings.Contains(out, "level=INFO msg=calculation") {
		t.Errorf("missing info line in %q", out)
	}
	if !strings.Contains(out, "level=WARN msg=\"request rejected\" code=UNSUPPORTED_KIND") {
		t.Errorf("missing warn line in %q", out)
	}
}

func TestRecoverPanic(t *testing.T) {
	s := New()
	h := s.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeBody[errorResponse](t, rec); got.Code != codeInternal {
		t.Errorf("code = %q", got.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(WithShutdownTimeout(time.Second)).Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
