package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/redirusmana/bakery-shop-web/pkg/validator"
)

type errorDetail struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code,omitempty"`
}

type envelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    any           `json:"data,omitempty"`
	Errors  []errorDetail `json:"errors,omitempty"`
}

func respondOK(w http.ResponseWriter, message string, data any) {
	respond(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// respondFailure declares a business failure: HTTP 200 with success false.
func respondFailure(w http.ResponseWriter, message string, details ...errorDetail) {
	respond(w, http.StatusOK, envelope{Success: false, Message: message, Errors: details})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, envelope{Success: false, Message: message})
}

func respond(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func decode(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(dst)
}

// respondInvalid reports a decode or validation failure as a declared
// failure with per-field error details.
func respondInvalid(w http.ResponseWriter, err error) {
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		fields := verr.Fields()
		details := make([]errorDetail, 0, len(fields))
		for field, msg := range fields {
			details = append(details, errorDetail{Message: field + " " + msg, Field: field, Code: "VALIDATION"})
		}
		respondFailure(w, "validation failed", details...)
		return
	}
	respondFailure(w, "invalid request body")
}
