// Package respond centralizes JSON response writing for the HTTP handlers.
package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// JSON writes the payload with the given status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}

// Message writes a bare {"message": ...} body.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// Error writes an error response; the body shape matches Message so clients
// read one field for both outcomes.
func Error(w http.ResponseWriter, status int, message string) {
	Message(w, status, message)
}
