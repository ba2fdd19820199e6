package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"carnorm/internal/errors"
)

// ErrorResponse represents an HTTP error response
type ErrorResponse struct {
	Error          string             `json:"error"`
	Code           string             `json:"code"`
	Field          string             `json:"field,omitempty"`
	Record         *int               `json:"record,omitempty"`
	Details        interface{}        `json:"details,omitempty"`
	SuggestedFixes []errors.FixAction `json:"suggestedFixes,omitempty"`
}

// WriteError writes an error response with the given status
func WriteError(w http.ResponseWriter, err error, status int) {
	resp := ErrorResponse{
		Error: err.Error(),
		Code:  string(errors.InternalError),
	}

	var carErr *errors.CarError
	if stderrors.As(err, &carErr) {
		resp.Code = string(carErr.Code)
		resp.Field = carErr.Field
		resp.Record = carErr.Record
		resp.Details = carErr.Details
		resp.SuggestedFixes = carErr.SuggestedFixes
	}

	WriteJSON(w, resp, status)
}

// WriteCarError writes err with a status derived from its code
func WriteCarError(w http.ResponseWriter, err error) {
	code := errors.InternalError
	var carErr *errors.CarError
	if stderrors.As(err, &carErr) {
		code = carErr.Code
	}
	WriteError(w, err, MapErrorToStatus(code))
}

// MapErrorToStatus maps error codes to HTTP status codes
func MapErrorToStatus(code errors.ErrorCode) int {
	switch code {
	case errors.MalformedField:
		return http.StatusUnprocessableEntity // 422
	case errors.InvalidDocument:
		return http.StatusBadRequest // 400
	case errors.UnsupportedFormat:
		return http.StatusBadRequest // 400
	case errors.InvalidParameter:
		return http.StatusBadRequest // 400
	case errors.IOFailure:
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// MethodNotAllowed writes a 405 listing the allowed methods
func MethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	WriteError(w, errors.NewCarError(errors.InvalidParameter, "method not allowed", nil), http.StatusMethodNotAllowed)
}

// InternalError writes a 500 Internal Server Error
func InternalError(w http.ResponseWriter, message string, err error) {
	WriteError(w, errors.NewCarError(errors.InternalError, message, err), http.StatusInternalServerError)
}
