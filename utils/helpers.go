package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/taobot/taobot/constants"
)

// ============================================================================
// STANDARDIZED JSON HELPERS
// ============================================================================

// ErrorEnvelope is the JSON body written for failed requests.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewErrorEnvelope builds an error body labelled with the status text of code.
func NewErrorEnvelope(code int, message string) ErrorEnvelope {
	return ErrorEnvelope{Error: http.StatusText(code), Message: message}
}

// ErrorMessage returns the best available message for a failure value:
// the text of an error, or the generic fallback for anything else.
func ErrorMessage(v any) string {
	if err, ok := v.(error); ok && err != nil {
		return err.Error()
	}
	return constants.ResponseUnknownError
}

// ============================================================================
// STANDARDIZED HTTP HELPERS
// ============================================================================

// WriteHTTPJSON writes v as a JSON response with the given status code.
func WriteHTTPJSON(w http.ResponseWriter, code int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		Error("%s: %v", constants.LogFailedEncodeJSON, err)
		WriteHTTPError(w, constants.LogFailedEncodeJSON, http.StatusInternalServerError)
		return err
	}
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		Error(constants.LogWriteFailed, err)
		return err
	}
	return nil
}

// WriteHTTPError writes a standardized JSON error response.
func WriteHTTPError(w http.ResponseWriter, message string, code int) {
	data, err := json.Marshal(NewErrorEnvelope(code, message))
	if err != nil {
		// Fallback to plain text if JSON marshaling fails
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeText)
		w.WriteHeader(code)
		fmt.Fprintf(w, "Error: %s", message)
		return
	}
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		Error(constants.LogWriteFailed, err)
	}
}
