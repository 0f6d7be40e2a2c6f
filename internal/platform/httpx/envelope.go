// Package httpx provides the response envelope shared by every API endpoint.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape: Success=false always carries a
// human-readable Message; Data is endpoint specific.
type Envelope struct {
	Success bool   `json:"Success"`
	Data    any    `json:"Data"`
	Message string `json:"Message"`
}

// OK sends a successful envelope with the given payload.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created sends a successful envelope with status 201.
func Created(w http.ResponseWriter, data any) {
	write(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Fail sends a failed envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

// DecodeJSON decodes the request body into target.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
