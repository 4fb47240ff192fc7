package httputil

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/vendly/marketplace/pkg/errors"
	"github.com/vendly/marketplace/pkg/logger"
	"github.com/vendly/marketplace/pkg/validator"
)

// Response is the standard response envelope used across all endpoints.
type Response struct {
	XMLName xml.Name       `json:"-" xml:"response"`
	Data    any            `json:"data,omitempty" xml:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty" xml:"error,omitempty"`
}

// FieldErrors maps field names to validation messages. It implements
// xml.Marshaler because encoding/xml has no native map support.
type FieldErrors map[string]string

// MarshalXML encodes the field map as one element per field, in sorted order.
func (f FieldErrors) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if len(f) == 0 {
		return nil
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, k := range slices.Sorted(maps.Keys(f)) {
		el := xml.StartElement{Name: xml.Name{Local: k}}
		if err := e.EncodeElement(f[k], el); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string      `json:"code" xml:"code"`
	Message   string      `json:"message" xml:"message"`
	Fields    FieldErrors `json:"fields,omitempty" xml:"fields,omitempty"`
	RequestID string      `json:"request_id,omitempty" xml:"request_id,omitempty"`
}

// wantsXML reports whether the client asked for an XML representation via the
// Accept header. JSON is the default for everything else, including */*.
func wantsXML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/xml") || strings.Contains(accept, "text/xml")
}

// Write writes v with the given status code, rendering JSON or XML according
// to the request's Accept header.
func Write(w http.ResponseWriter, r *http.Request, status int, v any) {
	if wantsXML(r) {
		WriteXML(w, status, v)
		return
	}
	WriteJSON(w, status, v)
}

// WriteJSON writes a JSON response with the given status code.
// If encoding fails, headers are already sent so nothing can be done.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteXML writes an XML response with the given status code.
func WriteXML(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(v)
}

// WriteError writes a standardized error response based on the error type.
// It handles AppError, the sentinel errors, and logs internal server errors.
// It prefers the request-scoped logger from context (set by the RequestLogger
// middleware) over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	requestID := logger.CorrelationIDFromContext(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		Write(w, r, appErr.Status, Response{
			Error: &ErrorResponse{Code: appErr.Code, Message: appErr.Message, RequestID: requestID},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code = "NOT_FOUND"
		message = "resource not found"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		code = "ALREADY_EXISTS"
		message = "resource already exists"
	case errors.Is(err, apperrors.ErrInvalidInput):
		code = "INVALID_INPUT"
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		code = "UNAUTHORIZED"
		message = "authentication required"
	case errors.Is(err, apperrors.ErrForbidden):
		code = "FORBIDDEN"
		message = "permission denied"
	}

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	Write(w, r, status, Response{
		Error: &ErrorResponse{Code: code, Message: message, RequestID: requestID},
	})
}

// WriteValidationError writes a standardized validation error response with
// field-level details when the error is a validator.ValidationError.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		Write(w, r, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  FieldErrors(valErr.Fields()),
			},
		})
		return
	}

	Write(w, r, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

// PaginatedResponse is a generic paginated list response envelope.
type PaginatedResponse[T any] struct {
	XMLName    xml.Name `json:"-" xml:"response"`
	Data       []T      `json:"data" xml:"data"`
	TotalCount int      `json:"total_count" xml:"total_count"`
	Page       int      `json:"page" xml:"page"`
	PerPage    int      `json:"per_page" xml:"per_page"`
	TotalPages int      `json:"total_pages" xml:"total_pages"`
	HasNext    bool     `json:"has_next" xml:"has_next"`
}

// NewPaginatedResponse constructs a PaginatedResponse from the given data,
// total count, page, and per-page values. It computes TotalPages and HasNext.
func NewPaginatedResponse[T any](data []T, totalCount, page, perPage int) PaginatedResponse[T] {
	totalPages := totalCount / perPage
	if totalCount%perPage > 0 {
		totalPages++
	}
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// ParseUUID validates that the given string is a valid UUID and returns it.
// If invalid, it writes a 400 Bad Request response with code INVALID_PARAMETER
// and returns uuid.Nil plus false, signaling the caller to return early.
func ParseUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(param)
	if err != nil {
		Write(w, r, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "invalid UUID: " + param,
			},
		})
		return uuid.Nil, false
	}
	return id, true
}
