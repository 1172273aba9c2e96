package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/fotom-studio/fotom/internal/platform/errors"
)

// responseEnvelope wraps every success payload; clients unwrap the
// "response" key before reading the document.
type responseEnvelope struct {
	Response any `json:"response"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

// writeResponse writes a success payload inside the response envelope.
func writeResponse(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, responseEnvelope{Response: payload})
}

// writeError maps a domain error onto the wire: the code picks the HTTP
// status and any metadata becomes client-visible details. Unknown errors
// collapse to a plain 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	body := errorBody{
		Code:    string(code),
		Message: http.StatusText(code.HTTPStatus()),
		Details: apperrors.GetMetadata(err),
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		body.Message = appErr.Message
	}
	writeJSON(w, code.HTTPStatus(), errorResponse{Error: body})
}
