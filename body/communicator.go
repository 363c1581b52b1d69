// Package body implements the tri-modal body-communicator abstraction used
// by both requests (read-side, primed from the wire) and responses
// (write-then-serialize). A Communicator starts Empty; the first
// write-family call it receives decides which of the three live variants
// (Text, CStream, Stream) it settles into until Reset returns it to Empty.
package body

import (
	"io"

	"github.com/pkg/errors"
)

// Variant identifies which storage mode a Communicator has settled into.
type Variant int

const (
	// Empty holds no bytes and has not yet been written to.
	Empty Variant = iota
	// Text holds contiguous bytes with character semantics.
	Text
	// CStream holds contiguous bytes addressed through a read/write cursor.
	CStream
	// Stream wraps a shared-ownership read/write/seek object.
	Stream
)

func (v Variant) String() string {
	switch v {
	case Empty:
		return "empty"
	case Text:
		return "text"
	case CStream:
		return "cstream"
	case Stream:
		return "stream"
	default:
		return "unknown"
	}
}

// ErrCrossTalk is returned (or, for operations that must hand back a live
// reference, wrapped and returned as an error rather than silently
// failing) when an operation targets a variant the Communicator did not
// settle into. Reads and writes that have a natural zero value fail
// closed instead of returning this error — see the per-operation comments
// below.
var ErrCrossTalk = errors.New("body: cross-talk: operation not supported by active variant")

// unknownSize is the Size() sentinel for a Stream whose length cannot be
// determined without consuming it.
const unknownSize = -1

// Streamer is the contract a Stream-variant payload must satisfy: a
// shared, seekable read/write object (an *os.File, an in-memory buffer, a
// network connection wrapper, …).
type Streamer interface {
	io.Reader
	io.Writer
	io.Seeker
}

// Communicator is the tri-modal body store. The zero value is a valid,
// Empty communicator.
type Communicator struct {
	variant Variant

	text    []byte
	textPos int64

	cstream *cursorBuffer

	stream Streamer
}

// New returns a fresh, Empty Communicator.
func New() *Communicator {
	return &Communicator{}
}

// Which reports the live variant.
func (c *Communicator) Which() Variant {
	return c.variant
}

// Size returns the byte count of the active variant's content. For Empty
// it is 0. For Stream it reports false if the underlying object cannot
// report its length (e.g. it is not an io.Seeker-backed size query, or
// Seek itself fails) — callers should treat that as "unknown", not zero.
func (c *Communicator) Size() (n int64, known bool) {
	switch c.variant {
	case Empty:
		return 0, true
	case Text:
		return int64(len(c.text)), true
	case CStream:
		return c.cstream.size(), true
	case Stream:
		if b, ok := c.stream.(*cursorBuffer); ok {
			return b.size(), true
		}
		cur, err := c.stream.Seek(0, io.SeekCurrent)
		if err != nil {
			return unknownSize, false
		}
		end, err := c.stream.Seek(0, io.SeekEnd)
		if err != nil {
			return unknownSize, false
		}
		_, _ = c.stream.Seek(cur, io.SeekStart)
		return end, true
	default:
		return 0, true
	}
}

// Empty reports whether the communicator currently holds zero bytes. A
// Stream at EOF counts as empty.
func (c *Communicator) Empty() bool {
	switch c.variant {
	case Empty:
		return true
	case Text:
		return len(c.text) == 0
	case CStream:
		return c.cstream.size() == 0
	case Stream:
		if b, ok := c.stream.(*cursorBuffer); ok {
			return b.rpos >= b.size()
		}
		cur, err := c.stream.Seek(0, io.SeekCurrent)
		if err != nil {
			return false
		}
		end, err := c.stream.Seek(0, io.SeekEnd)
		if err != nil {
			return false
		}
		_, _ = c.stream.Seek(cur, io.SeekStart)
		return cur >= end
	default:
		return true
	}
}

// Data returns the raw bytes iff the active variant is Text; otherwise nil.
func (c *Communicator) Data() []byte {
	if c.variant != Text {
		return nil
	}
	return c.text
}

// Append adds bytes with character semantics. A fresh (Empty)
// communicator transitions to Text. A CStream or Stream communicator
// writes through instead of erroring, since the bytes can still be
// accepted by either storage.
func (c *Communicator) Append(p []byte) (int, error) {
	switch c.variant {
	case Empty:
		c.variant = Text
		c.text = append(c.text, p...)
		return len(p), nil
	case Text:
		c.text = append(c.text, p...)
		return len(p), nil
	case CStream:
		return c.cstream.write(p)
	case Stream:
		return c.stream.Write(p)
	default:
		return 0, ErrCrossTalk
	}
}

// Write adds bytes through a cursor-addressed store. A fresh (Empty)
// communicator transitions to CStream. A Text communicator appends (the
// bytes still exist as text, so the call is served rather than rejected).
// A Stream communicator writes through.
func (c *Communicator) Write(p []byte) (int, error) {
	switch c.variant {
	case Empty:
		c.variant = CStream
		c.cstream = newCursorBuffer()
		return c.cstream.write(p)
	case CStream:
		return c.cstream.write(p)
	case Text:
		c.text = append(c.text, p...)
		return len(p), nil
	case Stream:
		return c.stream.Write(p)
	default:
		return 0, ErrCrossTalk
	}
}

// Insert is the `<<` stream-insertion operator. A fresh (Empty)
// communicator transitions to Stream, backed by an in-memory buffer
// unless UseStream was already called. Insert on an existing Stream
// writes through. Any other active variant cannot serve a stream
// insertion and returns ErrCrossTalk, matching the source's behavior of
// raising for operations that must hand back a live stream reference.
func (c *Communicator) Insert(p []byte) error {
	switch c.variant {
	case Empty:
		c.variant = Stream
		c.stream = newCursorBuffer()
		_, err := c.stream.Write(p)
		return err
	case Stream:
		_, err := c.stream.Write(p)
		return err
	default:
		return ErrCrossTalk
	}
}

// UseStream attaches an externally owned Streamer and transitions an
// Empty communicator to Stream. It is how a transport primes a
// request's read-side body with a live connection or file, and how an
// application opts into the Stream variant for a large response body
// without routing bytes through Insert first.
func (c *Communicator) UseStream(s Streamer) error {
	if c.variant != Empty {
		return ErrCrossTalk
	}
	c.variant = Stream
	c.stream = s
	return nil
}

// UseText primes an Empty communicator directly with a Text payload,
// used by transports that have already buffered a small request body in
// full (e.g. from Content-Length) and want Data()/Size() to reflect it
// immediately rather than transitioning on first Append.
func (c *Communicator) UseText(p []byte) error {
	if c.variant != Empty {
		return ErrCrossTalk
	}
	c.variant = Text
	c.text = p
	return nil
}

// UseCStream primes an Empty communicator directly with CStream content.
func (c *Communicator) UseCStream(p []byte) error {
	if c.variant != Empty {
		return ErrCrossTalk
	}
	c.variant = CStream
	c.cstream = &cursorBuffer{buf: p}
	return nil
}

// Read serves the body_reader view: bytes are read from whatever variant
// is active, advancing a read cursor. Reading an Empty communicator fails
// closed by returning 0, io.EOF rather than raising CrossTalk, per the
// source's "read/write fail closed" rule.
func (c *Communicator) Read(p []byte) (int, error) {
	switch c.variant {
	case Empty:
		return 0, io.EOF
	case Text:
		if c.textPos >= int64(len(c.text)) {
			return 0, io.EOF
		}
		n := copy(p, c.text[c.textPos:])
		c.textPos += int64(n)
		return n, nil
	case CStream:
		return c.cstream.read(p)
	case Stream:
		return c.stream.Read(p)
	default:
		return 0, nil
	}
}

// StreamReader returns the live stream for `>>`-style extraction. It
// raises ErrCrossTalk when the active variant is not Stream, since the
// caller needs a live reference that no other variant can provide.
func (c *Communicator) StreamReader() (io.Reader, error) {
	if c.variant != Stream {
		return nil, ErrCrossTalk
	}
	return c.stream, nil
}

// Rdbuf returns the underlying Streamer for direct manipulation. Raises
// ErrCrossTalk unless the active variant is Stream.
func (c *Communicator) Rdbuf() (Streamer, error) {
	if c.variant != Stream {
		return nil, ErrCrossTalk
	}
	return c.stream, nil
}

// Seekg seeks within the active Stream. Raises ErrCrossTalk for any
// other variant.
func (c *Communicator) Seekg(offset int64, whence int) (int64, error) {
	if c.variant != Stream {
		return 0, ErrCrossTalk
	}
	return c.stream.Seek(offset, whence)
}

// Tellg reports the current Stream position. Raises ErrCrossTalk for any
// other variant.
func (c *Communicator) Tellg() (int64, error) {
	if c.variant != Stream {
		return 0, ErrCrossTalk
	}
	return c.stream.Seek(0, io.SeekCurrent)
}

// Clear resets the active variant's contents to empty without changing
// which variant is active.
func (c *Communicator) Clear() {
	switch c.variant {
	case Text:
		c.text = c.text[:0]
		c.textPos = 0
	case CStream:
		c.cstream = newCursorBuffer()
	case Stream:
		if seeker, ok := c.stream.(interface {
			Truncate(int64) error
		}); ok {
			_ = seeker.Truncate(0)
		}
	}
}

// Reset returns the communicator to Empty, discarding any storage.
func (c *Communicator) Reset() {
	c.variant = Empty
	c.text = nil
	c.textPos = 0
	c.cstream = nil
	c.stream = nil
}

// WriteTo serializes the active variant to the wire, dispatching per
// spec: Text writes the contiguous bytes, CStream loops Read into a
// fixed buffer, Stream copies directly from the underlying Streamer.
func (c *Communicator) WriteTo(w io.Writer) (int64, error) {
	switch c.variant {
	case Empty:
		return 0, nil
	case Text:
		n, err := w.Write(c.text)
		return int64(n), err
	case CStream:
		return c.cstream.writeTo(w)
	case Stream:
		return io.Copy(w, c.stream)
	default:
		return 0, nil
	}
}

// cursorBuffer is the CStream backing store: a growable byte slice
// addressed through an explicit read cursor, and (when used as the
// Stream backing store for an in-memory Insert) a seekable position too.
type cursorBuffer struct {
	buf    []byte
	rpos   int64
	wseek  int64
	seeked bool
}

func newCursorBuffer() *cursorBuffer {
	return &cursorBuffer{}
}

func (b *cursorBuffer) write(p []byte) (int, error) {
	if b.seeked {
		// Writes after an explicit Seek overwrite in place, growing if needed.
		end := b.wseek + int64(len(p))
		if end > int64(len(b.buf)) {
			grown := make([]byte, end)
			copy(grown, b.buf)
			b.buf = grown
		}
		copy(b.buf[b.wseek:], p)
		b.wseek = end
		return len(p), nil
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *cursorBuffer) read(p []byte) (int, error) {
	if b.rpos >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.rpos:])
	b.rpos += int64(n)
	return n, nil
}

func (b *cursorBuffer) size() int64 {
	return int64(len(b.buf))
}

// Truncate empties the buffer and resets both cursors, letting Clear()
// reuse an in-memory Stream backing without discarding the Streamer.
func (b *cursorBuffer) Truncate(int64) error {
	b.buf = b.buf[:0]
	b.rpos = 0
	b.wseek = 0
	b.seeked = false
	return nil
}

func (b *cursorBuffer) writeTo(w io.Writer) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	for {
		n, err := b.read(buf)
		if n > 0 {
			wn, werr := w.Write(buf[:n])
			total += int64(wn)
			if werr != nil {
				return total, werr
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Seek implements io.Seeker so a cursorBuffer can also back the Stream
// variant for Insert's default in-memory backing.
func (b *cursorBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = b.rpos + offset
	case io.SeekEnd:
		pos = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("body: invalid whence")
	}
	if pos < 0 {
		return 0, errors.New("body: negative seek position")
	}
	b.rpos = pos
	b.wseek = pos
	b.seeked = true
	return pos, nil
}

func (b *cursorBuffer) Read(p []byte) (int, error) { return b.read(p) }
func (b *cursorBuffer) Write(p []byte) (int, error) {
	n, err := b.write(p)
	if err == nil {
		b.seeked = false
	}
	return n, err
}
