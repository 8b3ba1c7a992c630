package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a completed HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// String returns the body as a string.
func (r *Response) String() string {
	return string(r.Body)
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("malformed JSON response body (status %d): %w", r.StatusCode, err)
	}
	return nil
}
