package keycoder

const initialWriterCap = 16

func ensureCapacity(buf []byte, minCap int) []byte {
	c := cap(buf)
	if minCap > c {
		if c < initialWriterCap {
			c = initialWriterCap
		}
		for minCap > c {
			c <<= 1
		}
		old := buf
		buf = make([]byte, len(old), c)
		copy(buf, old)
	}
	return buf
}

func grow(buf []byte, n int) (int, []byte) {
	off := len(buf)
	newLen := off + n
	buf = ensureCapacity(buf, newLen)
	return off, buf[:newLen]
}

// Writer is an append-only byte buffer that doubles its capacity as it grows.
// The zero value is ready to use.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer that appends to dst.
func NewWriter(dst []byte) *Writer {
	return &Writer{buf: dst}
}

func (w *Writer) PutByte(b byte) {
	off, buf := grow(w.buf, 1)
	buf[off] = b
	w.buf = buf
}

func (w *Writer) PutBytes(b []byte) {
	off, buf := grow(w.buf, len(b))
	copy(buf[off:], b)
	w.buf = buf
}

// PutInverted appends the bitwise complement of b.
func (w *Writer) PutInverted(b []byte) {
	off, buf := grow(w.buf, len(b))
	for i, c := range b {
		buf[off+i] = ^c
	}
	w.buf = buf
}

// Len returns the number of bytes written so far, including any bytes the
// Writer was seeded with.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Finish returns the accumulated bytes. The Writer must not be used afterwards.
func (w *Writer) Finish() []byte {
	buf := w.buf
	w.buf = nil
	return buf
}

// Reader is a bounds-checked cursor over an immutable byte slice. Every read
// past the end fails with ErrTruncatedInput instead of reading out of bounds.
type Reader struct {
	orig []byte
	buf  []byte
}

func NewReader(data []byte) *Reader {
	return &Reader{orig: data, buf: data}
}

func makeReader(data []byte) Reader {
	return Reader{orig: data, buf: data}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return len(r.orig) - len(r.buf)
}

func (r *Reader) Remaining() int {
	return len(r.buf)
}

func (r *Reader) Peek() (byte, error) {
	if len(r.buf) == 0 {
		return 0, r.truncated(1)
	}
	return r.buf[0], nil
}

func (r *Reader) TakeByte() (byte, error) {
	if len(r.buf) == 0 {
		return 0, r.truncated(1)
	}
	b := r.buf[0]
	r.buf = r.buf[1:]
	return b, nil
}

// TakeBytes returns the next n bytes. The result aliases the input slice.
func (r *Reader) TakeBytes(n int) ([]byte, error) {
	if n < 0 || len(r.buf) < n {
		return nil, r.truncated(n)
	}
	v := r.buf[:n:n]
	r.buf = r.buf[n:]
	return v, nil
}

func (r *Reader) truncated(wanted int) error {
	return dataErrf(r.orig, r.Offset(), ErrTruncatedInput, "not enough data: %d bytes remaining, %d wanted", len(r.buf), wanted)
}

func (r *Reader) errf(err error, format string, args ...any) error {
	return dataErrf(r.orig, r.Offset(), err, format, args...)
}
