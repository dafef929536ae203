package binread

import (
	"bytes"
	"io"

	"github.com/npillmayer/texbin/core"
	"golang.org/x/exp/mmap"
)

// Reader is a cursor over binary input. It is not safe for concurrent use.
type Reader struct {
	src    io.ReaderAt
	size   int64
	pos    int64
	closer io.Closer
	buf    [4]byte
}

// New creates a reader for src, which holds size bytes.
func New(src io.ReaderAt, size int64) *Reader {
	return &Reader{src: src, size: size}
}

// FromBytes creates a reader over an in-memory byte slice.
func FromBytes(b []byte) *Reader {
	return New(bytes.NewReader(b), int64(len(b)))
}

// Open memory-maps a file and returns a reader for it. Clients have to call
// Close when done.
func Open(path string) (*Reader, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot open %q", path)
	}
	tracer().Debugf("mapped %q, %d bytes", path, m.Len())
	r := New(m, int64(m.Len()))
	r.closer = m
	return r, nil
}

// Close releases a memory-mapped source. For other sources it is a no-op.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Len returns the size of the input in bytes.
func (r *Reader) Len() int64 {
	return r.size
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Remaining returns the number of bytes between the read position and the end.
func (r *Reader) Remaining() int64 {
	return r.size - r.pos
}

// Seek implements io.Seeker. Positions outside [0, Len()] are rejected.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.pos + offset
	case io.SeekEnd:
		abs = r.size + offset
	default:
		return r.pos, core.Error(core.EINVALID, "invalid whence %d", whence)
	}
	if abs < 0 {
		return r.pos, core.Error(core.EINVALID, "seek to negative position %d", abs)
	}
	if abs > r.size {
		return r.pos, core.Error(core.EEOF, "seek to %d beyond input length %d", abs, r.size)
	}
	r.pos = abs
	return abs, nil
}

func (r *Reader) read(p []byte) error {
	if int64(len(p)) > r.size-r.pos {
		return core.Error(core.EEOF, "read of %d bytes at offset %d exceeds input length %d",
			len(p), r.pos, r.size)
	}
	n, err := r.src.ReadAt(p, r.pos)
	r.pos += int64(n)
	if n < len(p) {
		return core.WrapError(err, core.EEOF, "short read at offset %d", r.pos)
	}
	return nil
}

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.read(r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

// ReadBytes reads the next n bytes into a fresh slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, core.Error(core.EINVALID, "negative byte count %d", n)
	}
	if int64(n) > r.Remaining() {
		return nil, core.Error(core.EEOF, "read of %d bytes at offset %d exceeds input length %d",
			n, r.pos, r.size)
	}
	b := make([]byte, n)
	if err := r.read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadUnsigned reads an n-byte big-endian unsigned integer, 1 ≤ n ≤ 4.
func (r *Reader) ReadUnsigned(n int) (uint32, error) {
	if n < 1 || n > 4 {
		return 0, core.Error(core.EINVALID, "integer width %d out of range", n)
	}
	b := r.buf[:n]
	if err := r.read(b); err != nil {
		return 0, err
	}
	var u uint32
	for _, c := range b {
		u = u<<8 | uint32(c)
	}
	return u, nil
}

// ReadSigned reads an n-byte big-endian two's-complement integer, 1 ≤ n ≤ 4.
// The sign is taken from the top bit of the first byte.
func (r *Reader) ReadSigned(n int) (int32, error) {
	u, err := r.ReadUnsigned(n)
	if err != nil {
		return 0, err
	}
	shift := uint(32 - 8*n)
	return int32(u<<shift) >> shift, nil
}

// ReadFixWord reads a 4-byte fix_word.
func (r *Reader) ReadFixWord() (FixWord, error) {
	s, err := r.ReadSigned(4)
	return FixWord(s), err
}

// ReadBCPL reads a length byte followed by that many bytes.
func (r *Reader) ReadBCPL() (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(n))
	return string(b), err
}

// ReadBCPLField reads a BCPL string stored in a fixed-size field of size bytes,
// as found in TFM headers. The length byte may not exceed size-1.
func (r *Reader) ReadBCPLField(size int) (string, error) {
	field, err := r.ReadBytes(size)
	if err != nil {
		return "", err
	}
	if size == 0 {
		return "", nil
	}
	n := int(field[0])
	if n > size-1 {
		return "", core.Malformed("BCPL string length %d exceeds field size %d", n, size)
	}
	return string(field[1 : 1+n]), nil
}
