package stubserver

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DefaultPriority is the priority of mappings that do not specify one. Lower values take
// precedence.
const DefaultPriority = 5

// Mapping is a registered request matcher and its response.
type Mapping struct {
	ID       string
	Priority int
	Request  *RequestMatcher
	Response *ResponseDefinition
	seq      int
}

// MappingBuilder is returned by Server.Given.
type MappingBuilder struct {
	server   *Server
	request  *RequestMatcher
	priority int
	id       string
}

// Given starts a new mapping for requests that satisfy matcher. The mapping is not active until
// RespondWith is called.
func (s *Server) Given(matcher *RequestMatcher) *MappingBuilder {
	if matcher == nil {
		matcher = Request()
	}
	return &MappingBuilder{server: s, request: matcher, priority: DefaultPriority}
}

// AtPriority sets the mapping's priority. When several mappings match a request, the one with
// the lowest priority value is used; among equal priorities, the most recently added wins.
func (b *MappingBuilder) AtPriority(priority int) *MappingBuilder {
	b.priority = priority
	return b
}

// WithID sets the mapping ID instead of generating one.
func (b *MappingBuilder) WithID(id string) *MappingBuilder {
	b.id = id
	return b
}

// RespondWith completes the mapping and registers it with the server. The mapping keeps copies
// of the matcher and response, so later builder calls on them do not affect it.
func (b *MappingBuilder) RespondWith(response *ResponseDefinition) (*Mapping, error) {
	if err := b.request.Err(); err != nil {
		return nil, err
	}
	if response == nil {
		response = Response()
	}
	if err := response.Err(); err != nil {
		return nil, err
	}
	m := &Mapping{
		ID:       b.id,
		Priority: b.priority,
		Request:  b.request.clone(),
		Response: response.clone(),
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if err := b.server.addMapping(m); err != nil {
		return nil, err
	}
	return m, nil
}

// MappingDefinition is the JSON form of a mapping, as used in mapping files and the admin API.
type MappingDefinition struct {
	ID       string                 `json:"id,omitempty"`
	Priority ldvalue.OptionalInt    `json:"priority,omitempty"`
	Request  RequestDefinition      `json:"request"`
	Response ResponseDefinitionJSON `json:"response"`
}

// Definition returns the JSON form of the mapping.
func (m *Mapping) Definition() MappingDefinition {
	return MappingDefinition{
		ID:       m.ID,
		Priority: ldvalue.NewOptionalInt(m.Priority),
		Request:  m.Request.definition(),
		Response: m.Response.definition(),
	}
}

// AddMapping registers a mapping from its JSON form.
func (s *Server) AddMapping(def MappingDefinition) (*Mapping, error) {
	matcher, err := newRequestMatcher(def.Request)
	if err != nil {
		return nil, err
	}
	response, err := newResponseDefinition(def.Response)
	if err != nil {
		return nil, err
	}
	b := s.Given(matcher).WithID(def.ID)
	if def.Priority.IsDefined() {
		b.AtPriority(def.Priority.IntValue())
	}
	return b.RespondWith(response)
}

// LoadMappings reads a JSON array of mapping definitions and registers all of them. Nothing is
// registered if any definition is invalid.
func (s *Server) LoadMappings(r io.Reader) error {
	var defs []MappingDefinition
	if err := json.NewDecoder(r).Decode(&defs); err != nil {
		return fmt.Errorf("malformed mapping data: %w", err)
	}
	mappings := make([]*Mapping, 0, len(defs))
	for i, def := range defs {
		matcher, err := newRequestMatcher(def.Request)
		if err != nil {
			return fmt.Errorf("mapping %d: %w", i, err)
		}
		response, err := newResponseDefinition(def.Response)
		if err != nil {
			return fmt.Errorf("mapping %d: %w", i, err)
		}
		m := &Mapping{
			ID:       def.ID,
			Priority: DefaultPriority,
			Request:  matcher,
			Response: response,
		}
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if def.Priority.IsDefined() {
			m.Priority = def.Priority.IntValue()
		}
		mappings = append(mappings, m)
	}
	return s.addMappings(mappings)
}

// LoadMappingsFile is LoadMappings for a file.
func (s *Server) LoadMappingsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := s.LoadMappings(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
