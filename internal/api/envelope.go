package api

import "encoding/json"

// Envelope is the wire format of every commerce API response.
// A transport-level success whose payload declares failure (Success false)
// is still a failed call.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []ErrorDetail   `json:"errors,omitempty"`
}

// ErrorDetail is a structured error entry in a failure envelope.
type ErrorDetail struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code,omitempty"`
}

// failureMessage picks the most specific message from a failure envelope:
// the first structured error detail, else the envelope message, else empty.
func (e *Envelope) failureMessage() string {
	if len(e.Errors) > 0 && e.Errors[0].Message != "" {
		return e.Errors[0].Message
	}
	return e.Message
}
