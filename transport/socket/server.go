// Package socket implements the plain-TCP HTTP/1.1 transport: a
// net.Listener accept loop handing each connection to its own goroutine,
// reading the request line and headers with internal/wire's
// CRLFFastReader and writing the response back with
// httpmsg.Response.WriteTo.
package socket

import (
	"context"
	"io"
	"net"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/webpp-sub002/corehttp/header"
	"github.com/webpp-sub002/corehttp/httpmsg"
	"github.com/webpp-sub002/corehttp/internal/wire"
)

// Router is satisfied by both router.StaticRouter and
// router.DynamicRouter.
type Router interface {
	Serve(req *httpmsg.Request) *httpmsg.Response
}

// maxLineLength bounds a single request-line or header-line read, a
// guard against a client streaming an unbounded line.
const maxLineLength = 8192

// Server accepts connections on a net.Listener and dispatches each
// parsed request to Router, one goroutine per connection, one request
// per connection (no keep-alive — a deliberate simplification over a
// production HTTP/1.1 transport, since persistent connections are
// orthogonal to the routing core this module exists to demonstrate).
type Server struct {
	Router Router
	Log    *logrus.Logger
}

// NewServer returns a Server wired to router.
func NewServer(router Router) *Server {
	return &Server{Router: router}
}

// Serve accepts connections from ln until it returns an error (e.g. the
// listener is closed), handling each one in its own goroutine.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	req, err := s.readRequest(conn)
	if err != nil {
		if s.Log != nil && err != io.EOF {
			s.Log.WithError(err).Warn("socket: failed to read request")
		}
		return
	}

	resp := s.Router.Serve(req)
	if _, err := resp.WriteTo(conn, req.Version); err != nil && s.Log != nil {
		s.Log.WithError(err).Warn("socket: failed to write response")
	}
}

// readRequest parses the request line, headers, and (if present) a
// fixed-length body off conn.
func (s *Server) readRequest(conn net.Conn) (*httpmsg.Request, error) {
	r := wire.NewCRLFFastReader(conn)

	line, _, err := r.ReadLine(maxLineLength)
	if err != nil {
		return nil, err
	}
	method, target, version, err := httpmsg.ParseRequestLine(string(line))
	if err != nil {
		return nil, err
	}

	req := httpmsg.NewRequest(method, target, version)

	for {
		hline, _, err := r.ReadLine(maxLineLength)
		if err != nil {
			return nil, errors.Wrap(err, "socket: reading headers")
		}
		if len(hline) == 0 {
			break
		}
		name, value, ok := strings.Cut(string(hline), ":")
		if !ok {
			return nil, errors.Errorf("socket: malformed header line %q", hline)
		}
		req.Headers.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	req.Host = req.Headers.Get("Host")

	switch {
	case req.Headers.ContentLength() > 0:
		buf := make([]byte, req.Headers.ContentLength())
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errors.Wrap(err, "socket: reading body")
		}
		if err := req.Body.UseText(buf); err != nil {
			return nil, err
		}

	case strings.EqualFold(req.Headers.Get("Transfer-Encoding"), "chunked"):
		cr := wire.NewChunkedReader(context.Background(), r, trailerSink{req.Headers})
		buf, err := io.ReadAll(cr)
		if err != nil {
			return nil, errors.Wrap(err, "socket: reading chunked body")
		}
		if err := req.Body.UseText(buf); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// trailerSink adapts RequestHeaders to wire.TrailerSink so a chunked
// request body's trailer fields land in the same header container as
// the leading fields.
type trailerSink struct {
	headers *header.RequestHeaders
}

func (t trailerSink) Add(name, value string) {
	t.headers.Set(name, value)
}
