package api

import (
	"encoding/json"
	"net/http"
)

// Error messages fixed by the device contract.
const (
	errInvalidPassword   = "Invalid password"
	errFermenterNotFound = "Fermenter not found"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes the device's flat error shape: {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFermenterNotFound writes the 404 used for out-of-range fermenter
// and PID ids.
func writeFermenterNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, errFermenterNotFound)
}

// writeUnauthorized writes a bodyless 401. The device emits no payload on
// session failure and the dashboard relies on the bare status code.
func writeUnauthorized(w http.ResponseWriter) {
	w.WriteHeader(http.StatusUnauthorized)
}

// writeBadRequest writes a bodyless 400, used for out-of-range output ids.
func writeBadRequest(w http.ResponseWriter) {
	w.WriteHeader(http.StatusBadRequest)
}

// writeInternalError writes a 500 error response. Reached only from the
// recovery middleware and the login token-generation failure path.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, message)
}
