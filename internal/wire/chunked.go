package wire

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Sentinel errors for chunked transfer-encoding framing, shared by every
// transport adapter that speaks HTTP/1.1 chunked bodies over the wire.
var (
	ErrBadChunk          = errors.New("wire: invalid chunk encoding")
	ErrUnexpectedTrailer = errors.New("wire: unexpected trailer")
)

// TrailerSink receives trailer fields parsed after the terminal zero-sized
// chunk. Transports pass their header container here.
type TrailerSink interface {
	Add(name, value string)
}

type chunkState int

const (
	stateChunkHeader chunkState = iota
	stateChunkData
	stateChunkCRLF
	stateTrailer
	stateDone
)

// ChunkedReader decodes an HTTP/1.1 "Transfer-Encoding: chunked" body into
// a plain byte stream, optionally delivering trailer fields into sink.
type ChunkedReader struct {
	ctx    context.Context
	r      *bufio.Reader
	state  chunkState
	remain int64
	sink   TrailerSink
}

// NewChunkedReader wraps src, decoding chunked framing as bytes are read.
// sink may be nil if trailers should be discarded.
func NewChunkedReader(ctx context.Context, src io.Reader, sink TrailerSink) *ChunkedReader {
	return &ChunkedReader{
		ctx:   ctx,
		r:     bufio.NewReader(src),
		state: stateChunkHeader,
		sink:  sink,
	}
}

func (c *ChunkedReader) Read(p []byte) (int, error) {
	select {
	case <-c.ctx.Done():
		return 0, c.ctx.Err()
	default:
	}

	switch c.state {
	case stateDone:
		return 0, io.EOF

	case stateChunkHeader:
		size, err := c.nextChunkSize()
		if err != nil {
			return 0, err
		}
		if size == 0 {
			c.state = stateTrailer
			return 0, nil
		}
		c.remain = size
		c.state = stateChunkData
		return 0, nil

	case stateChunkData:
		if c.remain <= 0 {
			c.state = stateChunkCRLF
			return 0, nil
		}
		if int64(len(p)) > c.remain {
			p = p[:c.remain]
		}
		n, err := c.r.Read(p)
		c.remain -= int64(n)
		if err != nil {
			return n, err
		}
		if c.remain == 0 {
			c.state = stateChunkCRLF
		}
		return n, nil

	case stateChunkCRLF:
		line, err := c.r.ReadString('\n')
		if err != nil {
			return 0, ErrBadChunk
		}
		if line != "\r\n" {
			return 0, ErrBadChunk
		}
		c.state = stateChunkHeader
		return 0, nil

	case stateTrailer:
		if err := c.readTrailers(); err != nil {
			return 0, err
		}
		c.state = stateDone
		return 0, io.EOF

	default:
		return 0, errors.Errorf("wire: invalid chunk reader state %d", c.state)
	}
}

func (c *ChunkedReader) nextChunkSize() (int64, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return 0, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, ErrBadChunk
	}
	if semi := strings.IndexByte(line, ';'); semi >= 0 {
		line = line[:semi]
	}
	size, err := strconv.ParseInt(line, 16, 64)
	if err != nil || size < 0 {
		return 0, ErrBadChunk
	}
	return size, nil
}

func (c *ChunkedReader) readTrailers() error {
	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			return ErrUnexpectedTrailer
		}
		if line == "\r\n" {
			return nil
		}
		line = strings.TrimSuffix(line, "\r\n")
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			return ErrUnexpectedTrailer
		}
		if c.sink != nil {
			c.sink.Add(strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]))
		}
	}
}

// ChunkedWriter encodes writes as HTTP/1.1 chunked transfer-encoding frames.
type ChunkedWriter struct {
	ctx context.Context
	w   *bufio.Writer
}

// NewChunkedWriter wraps w, framing every Write as one chunk.
func NewChunkedWriter(ctx context.Context, w io.Writer) *ChunkedWriter {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	return &ChunkedWriter{ctx: ctx, w: bw}
}

// Write emits one chunk for p: "<hex>\r\n<p>\r\n". A zero-length write is a
// no-op; the terminal "0\r\n\r\n" is emitted by Close.
func (cw *ChunkedWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	select {
	case <-cw.ctx.Done():
		return 0, cw.ctx.Err()
	default:
	}

	if _, err := cw.w.WriteString(strconv.FormatInt(int64(len(p)), 16)); err != nil {
		return 0, err
	}
	if _, err := cw.w.WriteString("\r\n"); err != nil {
		return 0, err
	}
	n, err := cw.w.Write(p)
	if err != nil {
		return n, err
	}
	if _, err := cw.w.WriteString("\r\n"); err != nil {
		return n, err
	}
	return n, nil
}

// Close writes the terminating zero-sized chunk and flushes the writer.
func (cw *ChunkedWriter) Close() error {
	select {
	case <-cw.ctx.Done():
		return cw.ctx.Err()
	default:
	}
	if _, err := cw.w.WriteString("0\r\n\r\n"); err != nil {
		return err
	}
	return cw.w.Flush()
}
