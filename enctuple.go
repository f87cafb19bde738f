package keycoder

import "github.com/cockroachdb/errors"

// EncodeKey returns the order-preserving encoding of key: the concatenation of
// its element encodings. A Sentinel may only appear once, as the last element.
func EncodeKey(key Key) ([]byte, error) {
	return AppendKey(nil, key)
}

// AppendKey appends the encoding of key to dst. On error, dst is returned
// unchanged.
func AppendKey(dst []byte, key Key) ([]byte, error) {
	w := NewWriter(dst)
	if err := appendElements(w, key, false); err != nil {
		return dst, err
	}
	return w.Finish(), nil
}

// MustEncodeKey is like EncodeKey but panics on error.
func MustEncodeKey(key Key) []byte {
	return must(EncodeKey(key))
}

func appendElements(w *Writer, key Key, nested bool) error {
	last := len(key) - 1
	for i, v := range key {
		if v.IsSentinel() && i != last && !nested {
			return errors.Wrapf(ErrMalformedSentinelPlacement, "sentinel at element %d of %d", i, len(key))
		}
		if err := appendValue(w, v, nested); err != nil {
			return wrapElement(err, i)
		}
	}
	return nil
}

// DecodeKey decodes a byte string produced by EncodeKey. An empty input is the
// empty key.
func DecodeKey(b []byte) (Key, error) {
	r := makeReader(b)
	var key Key
	for r.Remaining() > 0 {
		v, err := readTopLevelValue(&r)
		if err != nil {
			return nil, err
		}
		key = append(key, v)
	}
	return key, nil
}

// readTopLevelValue decodes one element of a top-level key, insisting that a
// sentinel is the final byte of the input.
func readTopLevelValue(r *Reader) (Value, error) {
	start := r.Offset()
	v, err := readValue(r, false)
	if err != nil {
		return Value{}, err
	}
	if v.IsSentinel() && r.Remaining() != 0 {
		return Value{}, dataErrf(r.orig, start, ErrMalformedSentinelPlacement, "%d bytes follow the sentinel", r.Remaining())
	}
	return v, nil
}

// PrefixBound returns the encoding of prefix followed by a Sentinel: a byte
// string that sorts after the encoding of every key starting with prefix, and
// before every greater key that doesn't. It is the exclusive upper bound of a
// prefix scan.
func PrefixBound(prefix Key) ([]byte, error) {
	return EncodeKey(prefix.Append(Sentinel()))
}
