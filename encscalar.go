package keycoder

import (
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const uuidSize = len(uuid.UUID{})

// EncodeValue returns the encoding of a single value, as used for storing
// values rather than composing keys.
func EncodeValue(v Value) ([]byte, error) {
	return AppendValue(nil, v)
}

// AppendValue appends the encoding of v to dst.
func AppendValue(dst []byte, v Value) ([]byte, error) {
	w := NewWriter(dst)
	if err := appendValue(w, v, false); err != nil {
		return dst, err
	}
	return w.Finish(), nil
}

// DecodeValue decodes a byte string holding exactly one encoded value.
func DecodeValue(b []byte) (Value, error) {
	r := makeReader(b)
	v, err := readValue(&r, false)
	if err != nil {
		return Value{}, err
	}
	if r.Remaining() != 0 {
		return Value{}, r.errf(ErrMalformedPayload, "%d trailing bytes after value", r.Remaining())
	}
	return v, nil
}

// appendValue writes the tag and payload of v. Inside nested keys, the range
// sentinel is not allowed.
func appendValue(w *Writer, v Value, nested bool) error {
	switch v.kind {
	case kindEnd, KindNull:
		w.PutByte(byte(KindNull))
	case KindInteger:
		appendInt(w, v)
	case KindBool:
		w.PutByte(byte(KindBool))
		if v.Bool() {
			w.PutByte(1)
		} else {
			w.PutByte(0)
		}
	case KindBlob:
		w.PutByte(byte(KindBlob))
		appendEscaped(w, v.raw)
	case KindText:
		if !utf8.ValidString(v.str) {
			return unsupportedf("text %q is not valid UTF-8", v.str)
		}
		w.PutByte(byte(KindText))
		appendEscaped(w, unsafeBytesFromString(v.str))
	case KindUUID:
		w.PutByte(byte(KindUUID))
		w.PutBytes(v.id[:])
	case KindKey:
		w.PutByte(byte(KindKey))
		if err := appendElements(w, v.key, true); err != nil {
			return err
		}
		w.PutByte(byte(kindEnd))
	case KindSentinel:
		if nested {
			return errors.Wrap(ErrMalformedSentinelPlacement, "sentinel inside a nested key")
		}
		w.PutByte(byte(KindSentinel))
	default:
		return unsupportedf("value kind %v", v.kind)
	}
	return nil
}

// readValue decodes one value. It does not check where a sentinel occurs
// within a top-level key; callers do.
func readValue(r *Reader, nested bool) (Value, error) {
	start := r.Offset()
	c, err := r.TakeByte()
	if err != nil {
		return Value{}, err
	}
	k := Kind(c)
	if !k.IsValue() {
		return Value{}, dataErrf(r.orig, start, ErrUnknownKind, "unknown tag %02x", c)
	}
	switch k {
	case KindNull:
		return Null(), nil
	case KindInteger:
		return readInt(r, false)
	case KindNegInteger:
		return readInt(r, true)
	case KindBool:
		b, err := r.TakeByte()
		if err != nil {
			return Value{}, err
		}
		if b > 1 {
			return Value{}, r.errf(ErrMalformedPayload, "invalid bool byte %02x", b)
		}
		return Bool(b == 1), nil
	case KindBlob:
		raw, err := readEscaped(r)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindBlob, raw: raw}, nil
	case KindText:
		raw, err := readEscaped(r)
		if err != nil {
			return Value{}, err
		}
		if !utf8.Valid(raw) {
			return Value{}, dataErrf(r.orig, start, ErrInvalidUTF8, "invalid text")
		}
		return Text(string(raw)), nil
	case KindUUID:
		if r.Remaining() < uuidSize {
			err := errors.Mark(ErrTruncatedInput, ErrInvalidUUIDLength)
			return Value{}, r.errf(err, "UUID payload has %d bytes, wanted %d", r.Remaining(), uuidSize)
		}
		b, _ := r.TakeBytes(uuidSize)
		var id uuid.UUID
		copy(id[:], b)
		return UUID(id), nil
	case KindKey:
		return readNested(r)
	case KindSentinel:
		if nested {
			return Value{}, dataErrf(r.orig, start, ErrMalformedSentinelPlacement, "sentinel inside a nested key")
		}
		return Sentinel(), nil
	default:
		panic("unreachable")
	}
}

func readNested(r *Reader) (Value, error) {
	key := Key{}
	for {
		c, err := r.Peek()
		if err != nil {
			return Value{}, err
		}
		if Kind(c) == kindEnd {
			r.buf = r.buf[1:]
			return Value{kind: KindKey, key: key}, nil
		}
		v, err := readValue(r, true)
		if err != nil {
			return Value{}, err
		}
		key = append(key, v)
	}
}
