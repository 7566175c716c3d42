// Package httpx provides JSON response helpers shared by all HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Msg    string       `json:"msg"`
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError reports a single failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Msg sends an ErrorBody carrying only a message.
func Msg(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Msg: msg})
}

// Internal sends a generic 500 without leaking internals.
func Internal(w http.ResponseWriter) {
	Msg(w, http.StatusInternalServerError, "Internal server error")
}

// ValidationFailed sends a 400 listing every failed field rule.
func ValidationFailed(w http.ResponseWriter, err error) {
	JSON(w, http.StatusBadRequest, ErrorBody{
		Msg:    "Validation failed",
		Errors: fieldErrors(err),
	})
}

// DecodeJSON decodes the request body into target.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "_", Msg: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Msg: "failed on " + fe.Tag()})
	}
	return out
}
