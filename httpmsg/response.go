package httpmsg

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/webpp-sub002/corehttp/body"
	"github.com/webpp-sub002/corehttp/header"
	"github.com/webpp-sub002/corehttp/internal/wire"
)

// DefaultContentType is what CalculateDefaultHeaders sets when no
// content-type field is present.
const DefaultContentType = "text/html; charset=utf-8"

// Response is the headers + body pair the application and error handlers
// mutate. A fresh Response has status 200 and an Empty body.
type Response struct {
	Headers *header.ResponseHeaders
	Body    *body.Communicator
}

// NewResponse returns an empty Response: status 200, no headers, Empty
// body.
func NewResponse() *Response {
	return &Response{
		Headers: header.NewResponseHeaders(),
		Body:    body.New(),
	}
}

// Empty reports whether the response has neither headers nor body
// content. The router uses this to decide whether a route has produced
// a response yet.
func (r *Response) Empty() bool {
	return r.Headers.Empty() && r.Body.Empty()
}

// SetStatus sets only the status code; the body is left untouched. It is
// the Go equivalent of the source's `response = StatusCode::X` sugar.
func (r *Response) SetStatus(code int) {
	r.Headers.StatusCode = code
}

// CalculateDefaultHeaders fills in content-type and content-length when
// the application has not set them itself. It is idempotent: calling it
// twice produces the same headers as calling it once, and it never
// overwrites an existing content-type, content-length, or
// transfer-encoding.
//
// When the body's size cannot be known in advance (a Stream variant
// wrapping a non-seekable source), Content-Length is replaced by
// Transfer-Encoding: chunked — WriteTo frames the body accordingly.
func (r *Response) CalculateDefaultHeaders() {
	if !r.Headers.Has("content-type")[0] {
		r.Headers.Set("Content-Type", DefaultContentType)
	}
	if r.Headers.Has("content-length")[0] || r.Headers.Has("transfer-encoding")[0] {
		return
	}
	if n, known := r.Body.Size(); known {
		r.Headers.Set("Content-Length", fmt.Sprintf("%d", n))
	} else {
		r.Headers.Set("Transfer-Encoding", "chunked")
	}
}

// WriteStatusLine writes "{version} {code} {reason}\r\n", the form used
// by socket and FastCGI transports.
func (r *Response) WriteStatusLine(w io.Writer, version HTTPVersion) error {
	_, err := fmt.Fprintf(w, "%s %d %s\r\n", version, r.Headers.StatusCode, ReasonPhrase(r.Headers.StatusCode))
	return err
}

// WriteCGIStatusLine writes "Status: {code} {reason}\r\n", the form CGI
// requires in place of a literal HTTP status line.
func (r *Response) WriteCGIStatusLine(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Status: %d %s\r\n", r.Headers.StatusCode, ReasonPhrase(r.Headers.StatusCode))
	return err
}

// WriteTo serializes the full response — status line, headers, blank
// line, body — for a transport that speaks a literal HTTP status line
// (socket, FastCGI). CGI transports should instead combine
// WriteCGIStatusLine, Headers.ToString, and Body.WriteTo themselves,
// since the source's Status: convention does not fit this helper.
func (r *Response) WriteTo(w io.Writer, version HTTPVersion) (int64, error) {
	var total int64
	if err := r.WriteStatusLine(w, version); err != nil {
		return total, err
	}
	n, err := r.Headers.WriteTo(w)
	total += n
	if err != nil {
		return total, err
	}
	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return total, err
	}
	if strings.EqualFold(r.Headers.Get("Transfer-Encoding"), "chunked") {
		return total, r.writeChunkedBody(w)
	}
	n, err = r.Body.WriteTo(w)
	total += n
	return total, err
}

// writeChunkedBody frames the body through a ChunkedWriter instead of
// writing it raw, for the case CalculateDefaultHeaders anticipates: a
// Stream body whose size cannot be reported up front.
func (r *Response) writeChunkedBody(w io.Writer) error {
	cw := wire.NewChunkedWriter(context.Background(), w)
	if _, err := r.Body.WriteTo(cw); err != nil {
		return err
	}
	return cw.Close()
}
