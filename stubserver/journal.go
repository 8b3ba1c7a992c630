package stubserver

import (
	"net/http"
	"time"
)

// LoggedRequest is a request received by the server, as recorded in its journal.
type LoggedRequest struct {
	ID               string      `json:"id"`
	Time             time.Time   `json:"loggedDate"`
	Method           string      `json:"method"`
	Path             string      `json:"path"`
	Query            string      `json:"query,omitempty"`
	Headers          http.Header `json:"headers,omitempty"`
	Body             string      `json:"body,omitempty"`
	MatchedMappingID string      `json:"matchedMappingId,omitempty"`
}

// WasMatched returns true if the request was answered by a mapping.
func (r LoggedRequest) WasMatched() bool {
	return r.MatchedMappingID != ""
}
