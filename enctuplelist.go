package keycoder

import (
	"bytes"

	"github.com/cockroachdb/errors"
)

// EncodeKeys encodes a list of keys after a raw prefix, separating keys with a
// separator tag that sorts above every value kind. A list whose first key
// equals another list's only key therefore sorts after it and after any
// longer key sharing that prefix.
//
// A Sentinel may only be the last element of the last key. An empty list and a
// list holding one empty key both encode to just the prefix.
func EncodeKeys(prefix []byte, keys ...Key) ([]byte, error) {
	w := NewWriter(make([]byte, 0, len(prefix)+initialWriterCap))
	w.PutBytes(prefix)
	last := len(keys) - 1
	for i, key := range keys {
		if i > 0 {
			w.PutByte(byte(kindSep))
		}
		if i != last && len(key) > 0 && key[len(key)-1].IsSentinel() {
			return nil, errors.Wrapf(ErrMalformedSentinelPlacement, "sentinel ends key %d of %d", i, len(keys))
		}
		if err := appendElements(w, key, false); err != nil {
			return nil, errors.Wrapf(err, "key %d", i)
		}
	}
	return w.Finish(), nil
}

// DecodeKeys decodes the output of EncodeKeys. It fails with ErrPrefixMismatch
// if b doesn't start with prefix. Input holding nothing but the prefix decodes
// to no keys.
func DecodeKeys(prefix, b []byte) ([]Key, error) {
	return decodeKeys(prefix, b, false)
}

// DecodeFirstKey decodes only the first key of the output of EncodeKeys.
func DecodeFirstKey(prefix, b []byte) (Key, error) {
	keys, err := decodeKeys(prefix, b, true)
	if err != nil || len(keys) == 0 {
		return nil, err
	}
	return keys[0], nil
}

func decodeKeys(prefix, b []byte, first bool) ([]Key, error) {
	if !bytes.HasPrefix(b, prefix) {
		return nil, dataErrf(b, 0, ErrPrefixMismatch, "expected prefix %x", prefix)
	}
	r := makeReader(b)
	r.buf = r.buf[len(prefix):]
	if r.Remaining() == 0 {
		return nil, nil
	}

	var keys []Key
	var key Key
	for r.Remaining() > 0 {
		c, _ := r.Peek()
		if Kind(c) == kindSep {
			r.buf = r.buf[1:]
			keys = append(keys, key)
			if first {
				return keys, nil
			}
			key = nil
			continue
		}
		v, err := readTopLevelValue(&r)
		if err != nil {
			return nil, err
		}
		key = append(key, v)
	}
	return append(keys, key), nil
}

// NextGreater returns the shortest byte string that sorts after every string
// starting with b, or nil if there is none (b is empty or all 0xFF bytes).
func NextGreater(b []byte) []byte {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] != 0xFF {
			out := bytes.Clone(b[:i+1])
			out[i]++
			return out
		}
	}
	return nil
}

// Invert returns the bitwise complement of b. Inverting the encoding of a
// single value reverses its sort order, which gives descending order for
// keys made of one value. It does not work element-wise on longer keys,
// because terminators invert too.
func Invert(b []byte) []byte {
	w := NewWriter(make([]byte, 0, len(b)))
	w.PutInverted(b)
	return w.Finish()
}
