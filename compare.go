package keycoder

import (
	"bytes"
	"cmp"
	"strings"
)

// Compare returns -1, 0 or +1 depending on whether a sorts before, together
// with, or after b. Values of different kinds order by Kind; within a kind,
// integers order numerically, blobs and UUIDs byte-wise, text by code point
// and nested keys element by element.
//
// For any keys A and B, bytes.Compare(EncodeKey(A), EncodeKey(B)) agrees with
// A.Compare(B).
func Compare(a, b Value) int {
	ka, kb := a.Kind(), b.Kind()
	if ka != kb {
		return cmp.Compare(ka, kb)
	}
	switch ka {
	case KindNegInteger, KindInteger:
		if a.big == nil && b.big == nil {
			return cmp.Compare(a.num, b.num)
		}
		return a.BigInt().Cmp(b.BigInt())
	case KindBool:
		return cmp.Compare(a.num, b.num)
	case KindBlob:
		return bytes.Compare(a.raw, b.raw)
	case KindText:
		return strings.Compare(a.str, b.str)
	case KindUUID:
		return bytes.Compare(a.id[:], b.id[:])
	case KindKey:
		return a.key.Compare(b.key)
	default:
		return 0
	}
}

// Compare orders keys element by element; a strict prefix sorts first.
func (k Key) Compare(o Key) int {
	n := min(len(k), len(o))
	for i := 0; i < n; i++ {
		if c := Compare(k[i], o[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(k), len(o))
}
