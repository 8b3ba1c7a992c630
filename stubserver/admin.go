package stubserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	adminMappingsPath = adminPathPrefix + "mappings"
	adminRequestsPath = adminPathPrefix + "requests"
)

type mappingsResponse struct {
	Mappings []MappingDefinition `json:"mappings"`
}

type requestsResponse struct {
	Requests []LoggedRequest `json:"requests"`
}

type adminError struct {
	Error string `json:"error"`
}

// serveAdmin handles the admin endpoints:
//
//	GET    /__admin/mappings        list mappings
//	POST   /__admin/mappings        add a mapping from a MappingDefinition
//	DELETE /__admin/mappings        remove all mappings and clear the journal
//	DELETE /__admin/mappings/{id}   remove one mapping
//	GET    /__admin/requests        list journaled requests
func (s *Server) serveAdmin(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimSuffix(req.URL.Path, "/")
	switch {
	case path == adminMappingsPath:
		switch req.Method {
		case http.MethodGet:
			resp := mappingsResponse{Mappings: []MappingDefinition{}}
			for _, m := range s.Mappings() {
				resp.Mappings = append(resp.Mappings, m.Definition())
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var def MappingDefinition
			if err := json.NewDecoder(req.Body).Decode(&def); err != nil {
				writeJSON(w, http.StatusBadRequest, adminError{Error: fmt.Sprintf("malformed mapping: %s", err)})
				return
			}
			m, err := s.AddMapping(def)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, adminError{Error: err.Error()})
				return
			}
			writeJSON(w, http.StatusCreated, m.Definition())
		case http.MethodDelete:
			s.Reset()
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case strings.HasPrefix(path, adminMappingsPath+"/"):
		if req.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !s.RemoveMapping(strings.TrimPrefix(path, adminMappingsPath+"/")) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case path == adminRequestsPath:
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, requestsResponse{Requests: append([]LoggedRequest{}, s.Requests()...)})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
