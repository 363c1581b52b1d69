package header

import "io"

// DefaultStatusCode is the status a fresh ResponseHeaders starts with.
const DefaultStatusCode = 200

// ResponseHeaders wraps a Container with the numeric status code. The
// status line itself (reason phrase included) is written by the
// transport adapter, not by this type — ToString only serializes the
// field list.
type ResponseHeaders struct {
	Container
	StatusCode int
}

// NewResponseHeaders returns ResponseHeaders with the default status (200)
// and no fields.
func NewResponseHeaders() *ResponseHeaders {
	return &ResponseHeaders{StatusCode: DefaultStatusCode}
}

// ToString writes each field as "Name: Value\r\n" to out, in insertion
// order. It does not write the status line or the trailing blank line
// that separates headers from the body — the transport owns framing.
func (h *ResponseHeaders) ToString(out io.Writer) error {
	_, err := h.WriteTo(out)
	return err
}
