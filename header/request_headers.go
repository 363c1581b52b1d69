package header

import (
	"strconv"
	"strings"
)

// RequestHeaders wraps a Container with the one piece of typed behavior
// requests need: the claimed Content-Length.
type RequestHeaders struct {
	Container
}

// NewRequestHeaders returns an empty RequestHeaders.
func NewRequestHeaders() *RequestHeaders {
	return &RequestHeaders{}
}

// ContentLength parses the content-length field as an unsigned integer,
// returning 0 if the header is absent or does not parse. The header is
// what the client claims; it may not match the body communicator's
// actual buffered size.
func (h *RequestHeaders) ContentLength() uint64 {
	v := strings.TrimSpace(h.Get("content-length"))
	if v == "" {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
