package stubserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ResponseDefinition describes the canned response for a mapping. The zero status code means
// 200. The body is written exactly as given.
type ResponseDefinition struct {
	status  int
	headers http.Header
	body    []byte
	delay   time.Duration
	err     error
}

// Response returns a ResponseDefinition for an empty 200 response.
func Response() *ResponseDefinition {
	return &ResponseDefinition{status: http.StatusOK, headers: make(http.Header)}
}

func (r *ResponseDefinition) WithStatusCode(status int) *ResponseDefinition {
	r.status = status
	return r
}

func (r *ResponseDefinition) WithBody(body string) *ResponseDefinition {
	r.body = []byte(body)
	return r
}

// WithJSONBody marshals v as the response body and sets the Content-Type header to
// application/json.
func (r *ResponseDefinition) WithJSONBody(v interface{}) *ResponseDefinition {
	data, err := json.Marshal(v)
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("cannot marshal response body: %w", err)
		}
		return r
	}
	r.body = data
	r.header().Set("Content-Type", "application/json")
	return r
}

func (r *ResponseDefinition) WithHeader(name, value string) *ResponseDefinition {
	r.header().Add(name, value)
	return r
}

func (r *ResponseDefinition) header() http.Header {
	if r.headers == nil {
		r.headers = make(http.Header)
	}
	return r.headers
}

// WithDelay makes the server wait for d before sending the response. The wait ends early if
// the client goes away.
func (r *ResponseDefinition) WithDelay(d time.Duration) *ResponseDefinition {
	r.delay = d
	return r
}

func (r *ResponseDefinition) Err() error {
	return r.err
}

func (r *ResponseDefinition) clone() *ResponseDefinition {
	c := *r
	c.headers = r.headers.Clone()
	return &c
}

func (r *ResponseDefinition) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func (r *ResponseDefinition) handler() http.Handler {
	headers := r.headers.Clone()
	canned := httphelpers.HandlerWithResponse(r.statusCode(), nil, r.body)
	h := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		for name, values := range headers {
			for _, v := range values {
				w.Header().Add(name, v)
			}
		}
		canned.ServeHTTP(w, req)
	})
	if r.delay <= 0 {
		return h
	}
	delay := r.delay
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			h.ServeHTTP(w, req)
		case <-req.Context().Done():
		}
	})
}

// ResponseDefinitionJSON is the JSON form of a ResponseDefinition. If both Body and JSONBody are
// set, JSONBody wins. Each header value is either a string or an array of strings for a header
// that is sent more than once.
type ResponseDefinitionJSON struct {
	Status                 int                      `json:"status,omitempty"`
	Headers                map[string]ldvalue.Value `json:"headers,omitempty"`
	Body                   string                   `json:"body,omitempty"`
	JSONBody               *ldvalue.Value           `json:"jsonBody,omitempty"`
	FixedDelayMilliseconds ldvalue.OptionalInt      `json:"fixedDelayMilliseconds,omitempty"`
}

func newResponseDefinition(def ResponseDefinitionJSON) (*ResponseDefinition, error) {
	r := Response()
	if def.Status != 0 {
		r.WithStatusCode(def.Status)
	}
	for name, value := range def.Headers {
		switch value.Type() {
		case ldvalue.StringType:
			r.WithHeader(name, value.StringValue())
		case ldvalue.ArrayType:
			for i := 0; i < value.Count(); i++ {
				item := value.GetByIndex(i)
				if item.Type() != ldvalue.StringType {
					return nil, fmt.Errorf("header %q: values must be strings", name)
				}
				r.WithHeader(name, item.StringValue())
			}
		default:
			return nil, fmt.Errorf("header %q: value must be a string or an array of strings", name)
		}
	}
	if def.Body != "" {
		r.WithBody(def.Body)
	}
	if def.JSONBody != nil {
		r.body = []byte(def.JSONBody.JSONString())
		if r.headers.Get("Content-Type") == "" {
			r.headers.Set("Content-Type", "application/json")
		}
	}
	if def.FixedDelayMilliseconds.IsDefined() {
		r.WithDelay(time.Duration(def.FixedDelayMilliseconds.IntValue()) * time.Millisecond)
	}
	return r, r.err
}

func (r *ResponseDefinition) definition() ResponseDefinitionJSON {
	def := ResponseDefinitionJSON{
		Status: r.statusCode(),
		Body:   string(r.body),
	}
	if len(r.headers) > 0 {
		def.Headers = make(map[string]ldvalue.Value, len(r.headers))
		for name, values := range r.headers {
			if len(values) == 1 {
				def.Headers[name] = ldvalue.String(values[0])
				continue
			}
			items := make([]ldvalue.Value, 0, len(values))
			for _, v := range values {
				items = append(items, ldvalue.String(v))
			}
			def.Headers[name] = ldvalue.ArrayOf(items...)
		}
	}
	if r.delay > 0 {
		def.FixedDelayMilliseconds = ldvalue.NewOptionalInt(int(r.delay / time.Millisecond))
	}
	return def
}
