package httpclient

import (
	"net/http"
	"sort"
	"strings"

	"github.com/alessio/shellescape"
)

// OutgoingRequest describes a request as it was sent by the Client.
type OutgoingRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// CurlCommand returns a shell command that repeats the request with curl.
func (r OutgoingRequest) CurlCommand() string {
	var b commandBuilder
	b.add("curl", "-i", "-X", r.Method)
	names := make([]string, 0, len(r.Header))
	for name := range r.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range r.Header[name] {
			b.add("-H", name+": "+v)
		}
	}
	if r.Body != nil {
		b.add("--data-binary", string(r.Body))
	}
	b.add(r.URL)
	return b.String()
}
