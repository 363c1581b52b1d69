// Package cgi adapts the classic CGI/1.1 environment-variable protocol to
// the router core: one process invocation, one request, one response
// written to stdout with a leading "Status:" line in place of a literal
// HTTP status line.
package cgi

import (
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/webpp-sub002/corehttp/httpmsg"
)

// Router is satisfied by both router.StaticRouter and
// router.DynamicRouter; the transport only ever needs the top-level
// entry point.
type Router interface {
	Serve(req *httpmsg.Request) *httpmsg.Response
}

// Env abstracts the CGI environment variable lookup so tests don't have
// to mutate process-global state via os.Setenv.
type Env func(key string) string

// httpPrefix is the variable-name prefix CGI uses for request headers
// forwarded by the web server, per cgi_request.hpp's fill_headers.
const httpPrefix = "HTTP_"

// BuildRequest constructs a Request from a CGI environment, reading the
// request body (if any) from body. Header reconstruction follows
// cgi_request.hpp exactly: CONTENT_LENGTH maps to Content-Length,
// CONTENT_TYPE maps to Content-Type, and every other HTTP_X_Y variable
// maps to X-Y with underscores turned into hyphens. env handles the
// well-known single-variable lookups; environ supplies the full listing
// the HTTP_* scan needs.
func BuildRequest(environ []string, env Env, body io.Reader) (*httpmsg.Request, error) {
	method := env("REQUEST_METHOD")
	uri := env("REQUEST_URI")
	version := httpmsg.HTTP11
	if proto := env("SERVER_PROTOCOL"); proto != "" {
		if v, ok := parseServerProtocol(proto); ok {
			version = v
		}
	}

	req := httpmsg.NewRequest(method, uri, version)
	req.Host = env("SERVER_NAME")

	if cl := env("CONTENT_LENGTH"); cl != "" {
		req.Headers.Set("Content-Length", cl)
	}
	if ct := env("CONTENT_TYPE"); ct != "" {
		req.Headers.Set("Content-Type", ct)
	}

	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, httpPrefix) {
			continue
		}
		fieldName := strings.ReplaceAll(strings.TrimPrefix(name, httpPrefix), "_", "-")
		req.Headers.Set(fieldName, value)
	}

	if body != nil {
		n, _ := strconv.Atoi(env("CONTENT_LENGTH"))
		if n > 0 {
			buf := make([]byte, n)
			if _, err := io.ReadFull(body, buf); err != nil && err != io.EOF {
				return nil, err
			}
			if err := req.Body.UseText(buf); err != nil {
				return nil, err
			}
		}
	}

	return req, nil
}

func parseServerProtocol(proto string) (httpmsg.HTTPVersion, bool) {
	if !strings.HasPrefix(proto, "HTTP/") {
		return httpmsg.HTTPVersion{}, false
	}
	ver := strings.TrimPrefix(proto, "HTTP/")
	major, minor, ok := strings.Cut(ver, ".")
	if !ok {
		return httpmsg.HTTPVersion{}, false
	}
	maj, err1 := strconv.Atoi(major)
	mnr, err2 := strconv.Atoi(minor)
	if err1 != nil || err2 != nil {
		return httpmsg.HTTPVersion{}, false
	}
	return httpmsg.HTTPVersion{Major: maj, Minor: mnr}, true
}

// Handler drives router once per invocation: build the request from the
// environment, dispatch it, and serialize the CGI-flavored response
// (Status: line, headers, blank line, body) to out.
type Handler struct {
	Router Router
	Log    *logrus.Logger
}

// NewHandler returns a Handler wired to router.
func NewHandler(router Router) *Handler {
	return &Handler{Router: router}
}

// ServeCGI runs one full CGI request/response cycle.
func (h *Handler) ServeCGI(environ []string, env Env, stdin io.Reader, out io.Writer) error {
	req, err := BuildRequest(environ, env, stdin)
	if err != nil {
		if h.Log != nil {
			h.Log.WithError(err).Error("cgi: failed to build request")
		}
		return err
	}

	resp := h.Router.Serve(req)

	if err := resp.WriteCGIStatusLine(out); err != nil {
		return err
	}
	if _, err := resp.Headers.WriteTo(out); err != nil {
		return err
	}
	if _, err := io.WriteString(out, "\r\n"); err != nil {
		return err
	}
	_, err = resp.Body.WriteTo(out)
	return err
}
