package stubserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminAddAndListMappings(t *testing.T) {
	s := startServer(t)

	status, _, body := doRequest(t, "POST", s.URL()+"/__admin/mappings",
		`{"id": "m1", "request": {"method": "GET", "urlPath": "/hello"}, "response": {"status": 200, "body": "hi"}}`)
	require.Equal(t, http.StatusCreated, status, body)

	status, _, body = doRequest(t, "GET", s.URL()+"/hello", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "hi", body)

	status, _, body = doRequest(t, "GET", s.URL()+"/__admin/mappings", "")
	require.Equal(t, 200, status)
	var listed mappingsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &listed))
	require.Len(t, listed.Mappings, 1)
	assert.Equal(t, "m1", listed.Mappings[0].ID)
	assert.Equal(t, "/hello", listed.Mappings[0].Request.URLPath)
}

func TestAdminRejectsInvalidMapping(t *testing.T) {
	s := startServer(t)
	status, _, _ := doRequest(t, "POST", s.URL()+"/__admin/mappings", `{`)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _, _ = doRequest(t, "POST", s.URL()+"/__admin/mappings",
		`{"request": {"urlPathPattern": "("}, "response": {}}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdminRequestsAreNotJournaled(t *testing.T) {
	s := startServer(t)
	doRequest(t, "GET", s.URL()+"/something", "")

	status, _, body := doRequest(t, "GET", s.URL()+"/__admin/requests", "")
	require.Equal(t, 200, status)
	var listed requestsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &listed))
	require.Len(t, listed.Requests, 1)
	assert.Equal(t, "/something", listed.Requests[0].Path)
}

func TestAdminDeleteMappings(t *testing.T) {
	s := startServer(t)
	m, err := s.Given(Request()).RespondWith(Response())
	require.NoError(t, err)
	_, err = s.Given(Request()).RespondWith(Response())
	require.NoError(t, err)

	status, _, _ := doRequest(t, "DELETE", s.URL()+"/__admin/mappings/"+m.ID, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, s.Mappings(), 1)

	status, _, _ = doRequest(t, "DELETE", s.URL()+"/__admin/mappings/"+m.ID, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = doRequest(t, "DELETE", s.URL()+"/__admin/mappings", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, s.Mappings())
}

func TestAdminUnknownPath(t *testing.T) {
	s := startServer(t)
	status, _, _ := doRequest(t, "GET", s.URL()+"/__admin/nothing", "")
	assert.Equal(t, http.StatusNotFound, status)
	status, _, _ = doRequest(t, "PUT", s.URL()+"/__admin/requests", "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}
