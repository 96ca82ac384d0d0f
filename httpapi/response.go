package httpapi

import (
	"encoding/json"
	"net/http"
)

// ErrorDetail is the error payload embedded in failed responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

type errorResponse struct {
	Error ErrorDetail `json:"error"`
}

// respondJSON writes v as a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes a structured error body. Codes are stable machine
// identifiers; messages stay generic so no internal detail leaks.
func respondError(w http.ResponseWriter, status int, code string) {
	respondJSON(w, status, errorResponse{Error: ErrorDetail{
		Code:    code,
		Message: http.StatusText(status),
	}})
}
