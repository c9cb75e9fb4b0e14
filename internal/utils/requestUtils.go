package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// RespondWithJSON writes payload with the given status code.
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// SendFailure writes the API's failure envelope: {message, success:false}.
// Most business failures go out with statusCode 200; the success flag, not
// the status code, is what existing clients check.
func SendFailure(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, map[string]interface{}{
		"message": message,
		"success": false,
	})
}

// SendMessage writes the success acknowledgment envelope.
func SendMessage(w http.ResponseWriter, message string) {
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"success": true,
	})
}
