package httpclient

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurlCommandForGet(t *testing.T) {
	r := OutgoingRequest{Method: "GET", URL: "http://127.0.0.1:5000/api/users", Header: http.Header{}}
	assert.Equal(t, "curl -i -X GET http://127.0.0.1:5000/api/users", r.CurlCommand())
}

func TestCurlCommandQuotesHeadersAndBody(t *testing.T) {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	r := OutgoingRequest{
		Method: "POST",
		URL:    "http://127.0.0.1:5000/api/users",
		Header: header,
		Body:   []byte(`{"Name":"John Doe"}`),
	}
	assert.Equal(t,
		`curl -i -X POST -H 'Content-Type: application/json' --data-binary '{"Name":"John Doe"}' http://127.0.0.1:5000/api/users`,
		r.CurlCommand())
}
