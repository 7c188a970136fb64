package http

import (
	"encoding/json"
	"net/http"

	"cantiere/internal/forms"
)

// errorBody is the uniform error payload for non-validation failures.
type errorBody struct {
	Error string `json:"error"`
}

// fieldErrorBody carries per-field validation messages.
type fieldErrorBody struct {
	Errors forms.FieldErrors `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	// The status line is already out, so an encode failure can only be
	// a broken connection. Nothing useful to do with it here.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// writeFieldErrors answers a validation failure with 422 and the field map.
func writeFieldErrors(w http.ResponseWriter, errs forms.FieldErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, fieldErrorBody{Errors: errs})
}

func writeMethodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
