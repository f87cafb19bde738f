package keycoder

import "bytes"

// Blobs and text are written with every 0x00 escaped as 0x00 0x01 and a
// trailing 0x00 0x00. The terminator sorts below any escaped zero, so a
// string sorts before all of its extensions, and escaping doesn't change the
// relative order of two strings.
const (
	escapeByte     = 0x00
	escapedZero    = 0x01
	terminatorByte = 0x00
)

func appendEscaped(w *Writer, b []byte) {
	for {
		i := bytes.IndexByte(b, escapeByte)
		if i < 0 {
			w.PutBytes(b)
			break
		}
		w.PutBytes(b[:i+1])
		w.PutByte(escapedZero)
		b = b[i+1:]
	}
	w.PutByte(escapeByte)
	w.PutByte(terminatorByte)
}

// readEscaped decodes an escaped string into a newly allocated slice.
func readEscaped(r *Reader) ([]byte, error) {
	out := []byte{}
	for {
		i := bytes.IndexByte(r.buf, escapeByte)
		if i < 0 {
			r.buf = r.buf[len(r.buf):]
			return nil, r.truncated(2)
		}
		if i+1 >= len(r.buf) {
			r.buf = r.buf[len(r.buf):]
			return nil, r.truncated(1)
		}
		out = append(out, r.buf[:i]...)
		esc := r.buf[i+1]
		switch esc {
		case terminatorByte:
			r.buf = r.buf[i+2:]
			return out, nil
		case escapedZero:
			out = append(out, 0)
			r.buf = r.buf[i+2:]
		default:
			r.buf = r.buf[i+1:]
			return nil, r.errf(ErrMalformedPayload, "invalid escape sequence 00 %02x", esc)
		}
	}
}
