// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package api

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/caraudioevents/authcore/internal/logging"
	"github.com/caraudioevents/authcore/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError writes a stable API error shape.
func writeError(w http.ResponseWriter, status int, code, message, auditID string) {
	writeJSON(w, status, models.APIError{
		Error:   message,
		Code:    code,
		AuditID: auditID,
	})
}
