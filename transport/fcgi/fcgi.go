// Package fcgi implements a minimal, single-request-per-connection
// FastCGI responder: enough of the FastCGI 1.0 record protocol to
// receive one FCGI_PARAMS + FCGI_STDIN request and answer it with
// FCGI_STDOUT + FCGI_END_REQUEST records. Connection multiplexing,
// FCGI_GET_VALUES, and the management-record role negotiation the full
// protocol defines are out of scope — this adapter exists to exercise
// the body-communicator contract against a second wire format, not to
// replace a production FastCGI stack.
package fcgi

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/webpp-sub002/corehttp/httpmsg"
)

type recordType uint8

const (
	typeBeginRequest recordType = 1
	typeEndRequest   recordType = 3
	typeParams       recordType = 4
	typeStdin        recordType = 5
	typeStdout       recordType = 6
)

const (
	fcgiVersion1  = 1
	headerLen     = 8
	roleResponder = 1
)

type recordHeader struct {
	version       uint8
	recType       recordType
	requestID     uint16
	contentLength uint16
	paddingLength uint8
}

func readRecordHeader(r io.Reader) (recordHeader, error) {
	var raw [headerLen]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return recordHeader{}, err
	}
	return recordHeader{
		version:       raw[0],
		recType:       recordType(raw[1]),
		requestID:     binary.BigEndian.Uint16(raw[2:4]),
		contentLength: binary.BigEndian.Uint16(raw[4:6]),
		paddingLength: raw[6],
	}, nil
}

func writeRecord(w io.Writer, recType recordType, requestID uint16, content []byte) error {
	var raw [headerLen]byte
	raw[0] = fcgiVersion1
	raw[1] = byte(recType)
	binary.BigEndian.PutUint16(raw[2:4], requestID)
	binary.BigEndian.PutUint16(raw[4:6], uint16(len(content)))
	raw[6] = 0
	raw[7] = 0
	if _, err := w.Write(raw[:]); err != nil {
		return err
	}
	_, err := w.Write(content)
	return err
}

// readNameValuePairs decodes the FastCGI name-value length encoding: a
// length under 128 is a single byte; otherwise it is 4 bytes with the
// high bit of the first byte set, masked off to recover the value.
func readNameValuePairs(data []byte) map[string]string {
	pairs := make(map[string]string)
	pos := 0
	readLen := func() (int, bool) {
		if pos >= len(data) {
			return 0, false
		}
		b0 := data[pos]
		if b0&0x80 == 0 {
			pos++
			return int(b0), true
		}
		if pos+4 > len(data) {
			return 0, false
		}
		n := int(binary.BigEndian.Uint32(data[pos:pos+4])) & 0x7fffffff
		pos += 4
		return n, true
	}

	for pos < len(data) {
		nameLen, ok := readLen()
		if !ok {
			break
		}
		valueLen, ok := readLen()
		if !ok {
			break
		}
		if pos+nameLen+valueLen > len(data) {
			break
		}
		name := string(data[pos : pos+nameLen])
		pos += nameLen
		value := string(data[pos : pos+valueLen])
		pos += valueLen
		pairs[name] = value
	}
	return pairs
}

// readStreamRecords reads consecutive records of want until a
// zero-length record terminates the stream, per the FastCGI framing
// rule that an empty record closes FCGI_PARAMS/FCGI_STDIN.
func readStreamRecords(r *bufio.Reader, want recordType) ([]byte, error) {
	var buf []byte
	for {
		hdr, err := readRecordHeader(r)
		if err != nil {
			return nil, err
		}
		if hdr.recType != want {
			return nil, errors.Errorf("fcgi: expected record type %d, got %d", want, hdr.recType)
		}
		content := make([]byte, hdr.contentLength)
		if _, err := io.ReadFull(r, content); err != nil {
			return nil, errors.Wrap(err, "fcgi: reading record content")
		}
		if hdr.paddingLength > 0 {
			if _, err := io.CopyN(io.Discard, r, int64(hdr.paddingLength)); err != nil {
				return nil, err
			}
		}
		if hdr.contentLength == 0 {
			return buf, nil
		}
		buf = append(buf, content...)
	}
}

// Router is satisfied by both router.StaticRouter and
// router.DynamicRouter.
type Router interface {
	Serve(req *httpmsg.Request) *httpmsg.Response
}

// Handler drives router against one FastCGI connection.
type Handler struct {
	Router Router
	Log    *logrus.Logger
}

// NewHandler returns a Handler wired to router.
func NewHandler(router Router) *Handler {
	return &Handler{Router: router}
}

// ServeConn handles exactly one FastCGI request on conn: it expects a
// begin-request record, a params stream, a stdin stream, dispatches the
// router, and writes the response back as stdout + end-request records.
func (h *Handler) ServeConn(conn io.ReadWriter) (err error) {
	defer func() {
		if err != nil && h.Log != nil {
			h.Log.WithError(err).Warn("fcgi: connection failed")
		}
	}()

	r := bufio.NewReader(conn)

	begin, err := readRecordHeader(r)
	if err != nil {
		return err
	}
	if begin.recType != typeBeginRequest {
		return errors.Errorf("fcgi: expected FCGI_BEGIN_REQUEST, got %d", begin.recType)
	}
	if _, err := io.CopyN(io.Discard, r, int64(begin.contentLength)+int64(begin.paddingLength)); err != nil {
		return err
	}
	requestID := begin.requestID

	paramBytes, err := readStreamRecords(r, typeParams)
	if err != nil {
		return err
	}
	params := readNameValuePairs(paramBytes)

	stdin, err := readStreamRecords(r, typeStdin)
	if err != nil {
		return err
	}

	req := requestFromParams(params, stdin)

	resp := h.Router.Serve(req)

	var out bufio.Writer
	out.Reset(conn)

	if err := writeResponseBody(&out, requestID, resp); err != nil {
		return err
	}

	appStatus := make([]byte, 8)
	binary.BigEndian.PutUint32(appStatus[0:4], uint32(resp.Headers.StatusCode))
	appStatus[4] = 0 // protocol status: request complete
	if err := writeRecord(&out, typeEndRequest, requestID, appStatus); err != nil {
		return err
	}
	return out.Flush()
}

// writeResponseBody renders resp exactly as a CGI-style response
// (Status: line, headers, blank line, body) and frames it as one or
// more FCGI_STDOUT records followed by the terminating empty record.
func writeResponseBody(w io.Writer, requestID uint16, resp *httpmsg.Response) error {
	buf := &byteSink{}
	if err := resp.WriteCGIStatusLine(buf); err != nil {
		return err
	}
	if _, err := resp.Headers.WriteTo(buf); err != nil {
		return err
	}
	if _, err := buf.Write([]byte("\r\n")); err != nil {
		return err
	}
	if _, err := resp.Body.WriteTo(buf); err != nil {
		return err
	}
	rendered := buf.Bytes()

	const maxChunk = 0xFFFF
	for len(rendered) > 0 {
		n := len(rendered)
		if n > maxChunk {
			n = maxChunk
		}
		if err := writeRecord(w, typeStdout, requestID, rendered[:n]); err != nil {
			return err
		}
		rendered = rendered[n:]
	}
	return writeRecord(w, typeStdout, requestID, nil)
}

// byteSink is an io.Writer accumulating bytes, used so the CGI-style
// rendering helpers (which take io.Writer) can build one contiguous
// buffer before it is chunked into FCGI_STDOUT records.
type byteSink struct {
	buf []byte
}

func (s *byteSink) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

func (s *byteSink) Bytes() []byte { return s.buf }

func requestFromParams(params map[string]string, stdin []byte) *httpmsg.Request {
	version := httpmsg.HTTP11
	if proto, ok := params["SERVER_PROTOCOL"]; ok {
		if v, ok := parseServerProtocol(proto); ok {
			version = v
		}
	}

	req := httpmsg.NewRequest(params["REQUEST_METHOD"], params["REQUEST_URI"], version)
	req.Host = params["SERVER_NAME"]

	if cl, ok := params["CONTENT_LENGTH"]; ok && cl != "" {
		req.Headers.Set("Content-Length", cl)
	}
	if ct, ok := params["CONTENT_TYPE"]; ok && ct != "" {
		req.Headers.Set("Content-Type", ct)
	}
	for name, value := range params {
		const httpPrefix = "HTTP_"
		if len(name) <= len(httpPrefix) || name[:len(httpPrefix)] != httpPrefix {
			continue
		}
		fieldName := headerNameFromEnv(name[len(httpPrefix):])
		req.Headers.Set(fieldName, value)
	}

	if len(stdin) > 0 {
		_ = req.Body.UseText(stdin)
	}

	return req
}

func headerNameFromEnv(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '_' {
			out[i] = '-'
		} else {
			out[i] = name[i]
		}
	}
	return string(out)
}

func parseServerProtocol(proto string) (httpmsg.HTTPVersion, bool) {
	const prefix = "HTTP/"
	if len(proto) <= len(prefix) || proto[:len(prefix)] != prefix {
		return httpmsg.HTTPVersion{}, false
	}
	rest := proto[len(prefix):]
	dot := -1
	for i, c := range rest {
		if c == '.' {
			dot = i
			break
		}
	}
	if dot < 0 {
		return httpmsg.HTTPVersion{}, false
	}
	var major, minor int
	if _, err := parseDigits(rest[:dot], &major); err != nil {
		return httpmsg.HTTPVersion{}, false
	}
	if _, err := parseDigits(rest[dot+1:], &minor); err != nil {
		return httpmsg.HTTPVersion{}, false
	}
	return httpmsg.HTTPVersion{Major: major, Minor: minor}, true
}

func parseDigits(s string, out *int) (int, error) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errors.Errorf("fcgi: invalid digits %q", s)
		}
		n = n*10 + int(c-'0')
	}
	*out = n
	return n, nil
}
