package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError matches the {message} body the handlers produce.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
