package stubserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/launchdarkly/http-stub-tests/logging"
)

const (
	defaultListenAddress = "127.0.0.1:0"
	adminPathPrefix      = "/__admin/"
	noMatchStatus        = "No matching mapping found"
)

// ErrServerStopped is returned when mappings are added to a server after Stop.
var ErrServerStopped = errors.New("stub server has been stopped")

// Server is an HTTP stub server listening on a loopback address. It is safe for concurrent use.
type Server struct {
	server   *httptest.Server
	logger   logging.Logger
	mappings []*Mapping
	journal  []LoggedRequest
	lastSeq  int
	stopped  bool
	lock     sync.Mutex
	closing  sync.Once
}

type config struct {
	listenAddress string
	logger        logging.Logger
}

// Option configures Start.
type Option func(*config)

// WithLogger sets the logger that receives a line for every request the server handles.
func WithLogger(logger logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithListenAddress sets the address to listen on. The default is 127.0.0.1:0, which picks an
// unused port.
func WithListenAddress(address string) Option {
	return func(c *config) {
		c.listenAddress = address
	}
}

// Start creates a server and starts listening. The caller must call Stop when finished.
func Start(opts ...Option) (*Server, error) {
	c := config{listenAddress: defaultListenAddress}
	for _, o := range opts {
		o(&c)
	}
	listener, err := net.Listen("tcp", c.listenAddress)
	if err != nil {
		return nil, fmt.Errorf("stub server could not listen on %s: %w", c.listenAddress, err)
	}

	s := &Server{logger: logging.OrNull(c.logger)}
	s.server = httptest.NewUnstartedServer(http.HandlerFunc(s.serveHTTP))
	_ = s.server.Listener.Close()
	s.server.Listener = listener
	s.server.Start()

	s.logger.Printf("Stub server listening at %s", s.server.URL)
	return s, nil
}

// URL returns the base URL of the server, such as http://127.0.0.1:54321.
func (s *Server) URL() string {
	return s.server.URL
}

// Stop closes the listener and blocks until all outstanding requests have completed. It is
// safe to call more than once.
func (s *Server) Stop() {
	s.closing.Do(func() {
		s.lock.Lock()
		s.stopped = true
		s.lock.Unlock()
		s.server.CloseClientConnections()
		s.server.Close()
		s.logger.Printf("Stub server at %s stopped", s.server.URL)
	})
}

// Reset removes all mappings and clears the request journal.
func (s *Server) Reset() {
	s.lock.Lock()
	s.mappings = nil
	s.journal = nil
	s.lock.Unlock()
}

// Mappings returns the registered mappings in registration order.
func (s *Server) Mappings() []*Mapping {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]*Mapping(nil), s.mappings...)
}

// RemoveMapping unregisters the mapping with the given ID. It returns false if there was none.
func (s *Server) RemoveMapping(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	for i, m := range s.mappings {
		if m.ID == id {
			s.mappings = append(s.mappings[:i], s.mappings[i+1:]...)
			return true
		}
	}
	return false
}

// Requests returns every journaled request in the order received.
func (s *Server) Requests() []LoggedRequest {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]LoggedRequest(nil), s.journal...)
}

// UnmatchedRequests returns the journaled requests that no mapping answered.
func (s *Server) UnmatchedRequests() []LoggedRequest {
	var ret []LoggedRequest
	for _, r := range s.Requests() {
		if !r.WasMatched() {
			ret = append(ret, r)
		}
	}
	return ret
}

func (s *Server) addMapping(m *Mapping) error {
	return s.addMappings([]*Mapping{m})
}

// addMappings registers all of mappings or, if any ID is already taken, none of them.
func (s *Server) addMappings(mappings []*Mapping) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.stopped {
		return ErrServerStopped
	}
	ids := make(map[string]struct{}, len(s.mappings)+len(mappings))
	for _, existing := range s.mappings {
		ids[existing.ID] = struct{}{}
	}
	for _, m := range mappings {
		if _, taken := ids[m.ID]; taken {
			return fmt.Errorf("a mapping with ID %q already exists", m.ID)
		}
		ids[m.ID] = struct{}{}
	}
	for _, m := range mappings {
		s.lastSeq++
		m.seq = s.lastSeq
		s.mappings = append(s.mappings, m)
		s.logger.Printf("Added mapping %s: %s", m.ID, m.Request)
	}
	return nil
}

// selectMapping must be called with the lock held.
func (s *Server) selectMapping(r incomingRequest) *Mapping {
	var best *Mapping
	for _, m := range s.mappings {
		if !m.Request.matches(r) {
			continue
		}
		if best == nil || m.Priority < best.Priority ||
			(m.Priority == best.Priority && m.seq > best.seq) {
			best = m
		}
	}
	return best
}

func (s *Server) serveHTTP(w http.ResponseWriter, req *http.Request) {
	if strings.HasPrefix(req.URL.Path, adminPathPrefix) {
		s.serveAdmin(w, req)
		return
	}

	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			s.logger.Printf("Unexpected error trying to read request body: %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = data
	}

	incoming := incomingRequest{
		method: req.Method,
		path:   req.URL.Path,
		query:  req.URL.Query(),
		header: req.Header,
		body:   body,
	}
	logged := LoggedRequest{
		ID:      uuid.New().String(),
		Time:    time.Now(),
		Method:  req.Method,
		Path:    req.URL.Path,
		Query:   req.URL.RawQuery,
		Headers: req.Header.Clone(),
		Body:    string(body),
	}

	s.lock.Lock()
	m := s.selectMapping(incoming)
	if m != nil {
		logged.MatchedMappingID = m.ID
	}
	s.journal = append(s.journal, logged)
	s.lock.Unlock()

	if m == nil {
		s.logger.Printf("No mapping matched %s %s", req.Method, req.URL.Path)
		writeNoMatch(w, req)
		return
	}

	s.logger.Printf("%s %s matched mapping %s, responding with status %d",
		req.Method, req.URL.Path, m.ID, m.Response.statusCode())
	req.Body = io.NopCloser(bytes.NewReader(body))
	m.Response.handler().ServeHTTP(w, req)
}

type noMatchResponse struct {
	Status string
	Path   string
	Method string
}

func writeNoMatch(w http.ResponseWriter, req *http.Request) {
	data, _ := json.Marshal(noMatchResponse{
		Status: noMatchStatus,
		Path:   req.URL.Path,
		Method: req.Method,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(data)
}
