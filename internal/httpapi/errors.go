package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chazu/geomaster/pkg/shape"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Codes for errors raised by the transport itself. Shape errors carry their
// own code.
const (
	codeInvalidRequest   = "INVALID_REQUEST"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	codeNotFound         = "NOT_FOUND"
	codeInternal         = "INTERNAL"
)

// requestError marks a body that could not be decoded.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return "malformed request body: " + e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

// operandError ties a shape error to the request member it came from.
type operandError struct {
	operand string
	err     error
}

func (e *operandError) Error() string { return fmt.Sprintf("%s: %v", e.operand, e.err) }
func (e *operandError) Unwrap() error { return e.err }

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// errorStatus maps err to a status code and response body.
func errorStatus(err error) (int, errorResponse) {
	var se *shape.Error
	if errors.As(err, &se) {
		field := se.Field()
		var oe *operandError
		if errors.As(err, &oe) && field != "" {
			field = oe.operand + "." + field
		}
		return http.StatusBadRequest, errorResponse{
			Code:    string(se.Code),
			Message: se.Error(),
			Kind:    se.Kind,
			Field:   field,
		}
	}
	var re *requestError
	if errors.As(err, &re) {
		return http.StatusBadRequest, errorResponse{Code: codeInvalidRequest, Message: re.Error()}
	}
	return http.StatusInternalServerError, errorResponse{Code: codeInternal, Message: "internal error"}
}

// fail records err on the span, logs it and writes the error response.
func (s *Server) fail(ctx context.Context, span trace.Span, w http.ResponseWriter, err error) {
	status, body := errorStatus(err)

	span.RecordError(err)
	span.SetStatus(codes.Error, body.Code)

	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx, "request failed", "error", err)
	} else {
		s.logger.WarnContext(ctx, "request rejected", "code", body.Code, "error", err)
	}
	writeJSON(w, status, body)
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Code:    codeMethodNotAllowed,
		Message: "method not allowed, use " + allow,
	})
}
