// Package dmutils collects the helpers shared by the marketplace frontend
// applications: transactional email over the notification provider, request
// logging, signed invite tokens, cross-frontend URLs, and downloadable
// CSV/ODS report generation for Gin handlers.
package dmutils

import "net/http"

// H is shorthand for a JSON response payload.
type H map[string]any

var (
	BR  = http.StatusBadRequest
	ISR = http.StatusInternalServerError
	SU  = http.StatusServiceUnavailable
)
