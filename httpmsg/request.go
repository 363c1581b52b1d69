// Package httpmsg implements the Request/Response data model: a headers
// container paired with a body communicator, plus the status-code
// reason-phrase table. Transports build these from the wire; the
// routing core treats a Request as the application sees it — immutable
// except for the body's own read cursor.
package httpmsg

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/webpp-sub002/corehttp/body"
	"github.com/webpp-sub002/corehttp/header"
)

// HTTPVersion is the two-part HTTP version from a request/status line.
type HTTPVersion struct {
	Major int
	Minor int
}

// String renders "HTTP/{major}.{minor}".
func (v HTTPVersion) String() string {
	return fmt.Sprintf("HTTP/%d.%d", v.Major, v.Minor)
}

// HTTP11 is the version nearly every transport in this module speaks.
var HTTP11 = HTTPVersion{Major: 1, Minor: 1}

// Request is the parsed/constructed request the application sees.
// Transports populate Headers field-by-field and prime Body with a
// read-side body.Communicator before handing the Request to a router.
type Request struct {
	Method  string
	URI     string
	Version HTTPVersion
	Headers *header.RequestHeaders
	Body    *body.Communicator
	Host    string

	ctx context.Context
}

// NewRequest returns a Request with empty headers and an Empty body,
// ready for a transport to populate.
func NewRequest(method, uri string, version HTTPVersion) *Request {
	return &Request{
		Method:  method,
		URI:     uri,
		Version: version,
		Headers: header.NewRequestHeaders(),
		Body:    body.New(),
		ctx:     context.Background(),
	}
}

// Context returns the request's context, defaulting to Background.
func (r *Request) Context() context.Context {
	if r == nil || r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithContext returns a shallow copy of r with ctx attached.
func (r *Request) WithContext(ctx context.Context) *Request {
	if r == nil {
		return nil
	}
	cp := *r
	cp.ctx = ctx
	return &cp
}

// String returns the request line this Request would have produced.
func (r *Request) String() string {
	if r == nil {
		return "<nil request>"
	}
	return fmt.Sprintf("%s %s %s", r.Method, r.URI, r.Version)
}

// ErrMalformedRequestLine is returned by ParseRequestLine for a line that
// is not "METHOD SP Request-URI SP HTTP/x.y".
var ErrMalformedRequestLine = errors.New("httpmsg: malformed request line")

// ParseRequestLine parses a raw "METHOD target HTTP/x.y" line, as read by
// a socket transport off the wire ahead of headers.
func ParseRequestLine(line string) (method, target string, version HTTPVersion, err error) {
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return "", "", HTTPVersion{}, errors.Wrapf(ErrMalformedRequestLine, "%q", line)
	}
	method, target, proto := parts[0], parts[1], parts[2]

	if method == "" || len(method) > 20 {
		return "", "", HTTPVersion{}, errors.Wrapf(ErrMalformedRequestLine, "invalid method %q", method)
	}
	for _, c := range method {
		if c < 'A' || c > 'Z' {
			return "", "", HTTPVersion{}, errors.Wrapf(ErrMalformedRequestLine, "method must be uppercase: %q", method)
		}
	}

	if !strings.HasPrefix(proto, "HTTP/") {
		return "", "", HTTPVersion{}, errors.Wrapf(ErrMalformedRequestLine, "invalid protocol %q", proto)
	}
	ver := strings.TrimPrefix(proto, "HTTP/")
	dot := strings.IndexByte(ver, '.')
	if dot < 0 {
		return "", "", HTTPVersion{}, errors.Wrapf(ErrMalformedRequestLine, "invalid version %q", proto)
	}
	major, err1 := strconv.Atoi(ver[:dot])
	minor, err2 := strconv.Atoi(ver[dot+1:])
	if err1 != nil || err2 != nil {
		return "", "", HTTPVersion{}, errors.Wrapf(ErrMalformedRequestLine, "invalid version numbers %q", proto)
	}

	return method, target, HTTPVersion{Major: major, Minor: minor}, nil
}
