package stubserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/itchyny/gojq"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// RequestMatcher describes the criteria an incoming request must satisfy. An empty matcher
// matches every request. Builder methods modify the matcher in place and return it so calls
// can be chained.
type RequestMatcher struct {
	method    string
	path      string
	pathRegex *regexp.Regexp
	body      *string
	jsonBody  *ldvalue.Value
	jqSource  string
	jq        *gojq.Code
	headers   map[string]string
	query     map[string]string
	err       error
}

// incomingRequest is the part of an HTTP request that matchers look at. The body is read once
// by the server before matching.
type incomingRequest struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   []byte
}

// Request returns an empty RequestMatcher.
func Request() *RequestMatcher {
	return &RequestMatcher{}
}

// WithPath requires the request path to equal path exactly.
func (m *RequestMatcher) WithPath(path string) *RequestMatcher {
	m.path = path
	return m
}

// WithPathRegex requires the whole request path to match pattern.
func (m *RequestMatcher) WithPathRegex(pattern string) *RequestMatcher {
	rx, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		m.setErr(fmt.Errorf("invalid path pattern %q: %w", pattern, err))
		return m
	}
	m.pathRegex = rx
	return m
}

// UsingMethod requires the request method to be method. Comparison is case-insensitive.
func (m *RequestMatcher) UsingMethod(method string) *RequestMatcher {
	m.method = strings.ToUpper(method)
	return m
}

func (m *RequestMatcher) UsingGet() *RequestMatcher    { return m.UsingMethod(http.MethodGet) }
func (m *RequestMatcher) UsingPost() *RequestMatcher   { return m.UsingMethod(http.MethodPost) }
func (m *RequestMatcher) UsingPut() *RequestMatcher    { return m.UsingMethod(http.MethodPut) }
func (m *RequestMatcher) UsingDelete() *RequestMatcher { return m.UsingMethod(http.MethodDelete) }

// WithBody requires the request body to be byte-for-byte equal to body.
func (m *RequestMatcher) WithBody(body string) *RequestMatcher {
	m.body = &body
	return m
}

// WithJSONBody requires the request body to be JSON that is structurally equal to body:
// property order and insignificant whitespace are ignored.
func (m *RequestMatcher) WithJSONBody(body string) *RequestMatcher {
	if !json.Valid([]byte(body)) {
		m.setErr(fmt.Errorf("expected JSON body is not valid JSON: %s", body))
		return m
	}
	v := ldvalue.Parse([]byte(body))
	m.jsonBody = &v
	return m
}

// WithBodyMatchingJQ requires the request body to be JSON for which the jq expression expr
// produces true as its first result, for instance `.Name == "John Doe"`.
func (m *RequestMatcher) WithBodyMatchingJQ(expr string) *RequestMatcher {
	query, err := gojq.Parse(expr)
	if err != nil {
		m.setErr(fmt.Errorf("invalid jq expression %q: %w", expr, err))
		return m
	}
	code, err := gojq.Compile(query)
	if err != nil {
		m.setErr(fmt.Errorf("invalid jq expression %q: %w", expr, err))
		return m
	}
	m.jqSource = expr
	m.jq = code
	return m
}

// WithHeader requires the request to have a header called name whose first value is value.
func (m *RequestMatcher) WithHeader(name, value string) *RequestMatcher {
	if m.headers == nil {
		m.headers = make(map[string]string)
	}
	m.headers[http.CanonicalHeaderKey(name)] = value
	return m
}

// WithQueryParam requires the request URL to have a query parameter called name whose first
// value is value.
func (m *RequestMatcher) WithQueryParam(name, value string) *RequestMatcher {
	if m.query == nil {
		m.query = make(map[string]string)
	}
	m.query[name] = value
	return m
}

// Err returns the first error encountered while building the matcher, such as an invalid
// regular expression.
func (m *RequestMatcher) Err() error {
	return m.err
}

func (m *RequestMatcher) setErr(err error) {
	if m.err == nil {
		m.err = err
	}
}

func (m *RequestMatcher) clone() *RequestMatcher {
	c := *m
	c.headers = copyStringMap(m.headers)
	c.query = copyStringMap(m.query)
	return &c
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	ret := make(map[string]string, len(m))
	for k, v := range m {
		ret[k] = v
	}
	return ret
}

func (m *RequestMatcher) matches(r incomingRequest) bool {
	if m.method != "" && m.method != r.method {
		return false
	}
	if m.path != "" && m.path != r.path {
		return false
	}
	if m.pathRegex != nil && !m.pathRegex.MatchString(r.path) {
		return false
	}
	for name, value := range m.headers {
		if r.header.Get(name) != value {
			return false
		}
	}
	for name, value := range m.query {
		if r.query.Get(name) != value {
			return false
		}
	}
	if m.body != nil && *m.body != string(r.body) {
		return false
	}
	if m.jsonBody != nil {
		if !json.Valid(r.body) || !m.jsonBody.Equal(ldvalue.Parse(r.body)) {
			return false
		}
	}
	if m.jq != nil && !m.matchesJQ(r.body) {
		return false
	}
	return true
}

func (m *RequestMatcher) matchesJQ(body []byte) bool {
	var input interface{}
	if err := json.Unmarshal(body, &input); err != nil {
		return false
	}
	iter := m.jq.Run(input)
	v, ok := iter.Next()
	if !ok {
		return false
	}
	if _, isErr := v.(error); isErr {
		return false
	}
	return v == true
}

// String describes the matcher for log output.
func (m *RequestMatcher) String() string {
	var parts []string
	if m.method != "" {
		parts = append(parts, m.method)
	} else {
		parts = append(parts, "ANY")
	}
	switch {
	case m.path != "":
		parts = append(parts, m.path)
	case m.pathRegex != nil:
		parts = append(parts, "~"+m.pathRegex.String())
	default:
		parts = append(parts, "*")
	}
	for _, name := range sortedKeys(m.headers) {
		parts = append(parts, fmt.Sprintf("header %s=%q", name, m.headers[name]))
	}
	for _, name := range sortedKeys(m.query) {
		parts = append(parts, fmt.Sprintf("query %s=%q", name, m.query[name]))
	}
	if m.body != nil {
		parts = append(parts, fmt.Sprintf("body=%q", *m.body))
	}
	if m.jsonBody != nil {
		parts = append(parts, "json="+m.jsonBody.JSONString())
	}
	if m.jq != nil {
		parts = append(parts, fmt.Sprintf("jq=%q", m.jqSource))
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RequestDefinition is the JSON form of a RequestMatcher.
type RequestDefinition struct {
	Method          string            `json:"method,omitempty"`
	URLPath         string            `json:"urlPath,omitempty"`
	URLPathPattern  string            `json:"urlPathPattern,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
	QueryParameters map[string]string `json:"queryParameters,omitempty"`
	BodyPatterns    []BodyPattern     `json:"bodyPatterns,omitempty"`
}

// BodyPattern is one body criterion in a RequestDefinition. Exactly one field should be set.
// EqualToJSON may be given either as a JSON value or as a string containing JSON.
type BodyPattern struct {
	EqualTo     *string        `json:"equalTo,omitempty"`
	EqualToJSON *ldvalue.Value `json:"equalToJson,omitempty"`
	MatchesJQ   string         `json:"matchesJq,omitempty"`
}

var errEmptyBodyPattern = errors.New("body pattern has no criteria")

func newRequestMatcher(def RequestDefinition) (*RequestMatcher, error) {
	m := Request()
	if def.Method != "" && def.Method != "ANY" {
		m.UsingMethod(def.Method)
	}
	if def.URLPath != "" {
		m.WithPath(def.URLPath)
	}
	if def.URLPathPattern != "" {
		m.WithPathRegex(def.URLPathPattern)
	}
	for name, value := range def.Headers {
		m.WithHeader(name, value)
	}
	for name, value := range def.QueryParameters {
		m.WithQueryParam(name, value)
	}
	for _, p := range def.BodyPatterns {
		switch {
		case p.EqualTo != nil:
			m.WithBody(*p.EqualTo)
		case p.EqualToJSON != nil:
			if p.EqualToJSON.Type() == ldvalue.StringType {
				m.WithJSONBody(p.EqualToJSON.StringValue())
			} else {
				m.WithJSONBody(p.EqualToJSON.JSONString())
			}
		case p.MatchesJQ != "":
			m.WithBodyMatchingJQ(p.MatchesJQ)
		default:
			m.setErr(errEmptyBodyPattern)
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m, nil
}

func (m *RequestMatcher) definition() RequestDefinition {
	def := RequestDefinition{
		Method:  m.method,
		URLPath: m.path,
	}
	if m.pathRegex != nil {
		s := m.pathRegex.String()
		def.URLPathPattern = strings.TrimSuffix(strings.TrimPrefix(s, "^(?:"), ")$")
	}
	if len(m.headers) > 0 {
		def.Headers = copyStringMap(m.headers)
	}
	if len(m.query) > 0 {
		def.QueryParameters = copyStringMap(m.query)
	}
	if m.body != nil {
		body := *m.body
		def.BodyPatterns = append(def.BodyPatterns, BodyPattern{EqualTo: &body})
	}
	if m.jsonBody != nil {
		v := *m.jsonBody
		def.BodyPatterns = append(def.BodyPatterns, BodyPattern{EqualToJSON: &v})
	}
	if m.jq != nil {
		def.BodyPatterns = append(def.BodyPatterns, BodyPattern{MatchesJQ: m.jqSource})
	}
	return def
}
