package api

import (
	"encoding/json"
	"net/http"

	"carrierwatch/internal/auth"
	"carrierwatch/internal/register"
)

// errorEnvelope is the JSON body returned for every failed register request.
// Entries is always present (empty) so dashboard clients can bind to it
// unconditionally.
type errorEnvelope struct {
	Success bool                     `json:"success"`
	Error   string                   `json:"error"`
	Details string                   `json:"details,omitempty"`
	Entries []register.RegisterEntry `json:"entries"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorEnvelope{
		Success: false,
		Error:   msg,
		Details: details,
		Entries: []register.RegisterEntry{},
	})
}

// requireWrite gates a mutating handler behind token auth and a write
// permission check on the given object. With auth not configured the handler
// stays open.
func requireWrite(authSvc *auth.Service, obj string, next http.Handler) http.Handler {
	if authSvc == nil {
		return next
	}
	return authSvc.Middleware(authSvc.RequirePermission(obj, "write", next))
}
