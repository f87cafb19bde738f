package keycoder

import (
	"bytes"
	"encoding/hex"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Value is one element of a key: null, an integer of any size, a bool, a
// blob, a text string, a UUID, a nested key, or the range sentinel.
//
// The zero Value is null. Values are immutable once built; constructors copy
// caller-owned slices and big integers.
type Value struct {
	kind Kind
	num  int64
	big  *big.Int // set only when the integer doesn't fit into int64
	raw  []byte
	str  string
	id   uuid.UUID
	key  Key
}

var (
	minInt64Big = big.NewInt(math.MinInt64)
	maxInt64Big = big.NewInt(math.MaxInt64)
)

func Null() Value {
	return Value{kind: KindNull}
}

func Int(n int64) Value {
	return Value{kind: KindInteger, num: n}
}

func Uint(n uint64) Value {
	if n <= math.MaxInt64 {
		return Int(int64(n))
	}
	return Value{kind: KindInteger, big: new(big.Int).SetUint64(n)}
}

// BigInt returns an integer value of arbitrary magnitude. A nil n is zero.
func BigInt(n *big.Int) Value {
	if n == nil {
		return Int(0)
	}
	if n.Cmp(minInt64Big) >= 0 && n.Cmp(maxInt64Big) <= 0 {
		return Int(n.Int64())
	}
	return Value{kind: KindInteger, big: new(big.Int).Set(n)}
}

func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool}
}

func Blob(b []byte) Value {
	return Value{kind: KindBlob, raw: bytes.Clone(b)}
}

// Text returns a text value. Encoding fails with ErrUnsupportedValue if s is
// not valid UTF-8.
func Text(s string) Value {
	return Value{kind: KindText, str: s}
}

func UUID(id uuid.UUID) Value {
	return Value{kind: KindUUID, id: id}
}

// UUIDFromBytes returns a UUID value holding b, which must be exactly 16
// bytes long.
func UUIDFromBytes(b []byte) (Value, error) {
	if len(b) != len(uuid.UUID{}) {
		return Value{}, dataErrf(b, 0, ErrInvalidUUIDLength, "got %d bytes, wanted %d", len(b), len(uuid.UUID{}))
	}
	var id uuid.UUID
	copy(id[:], b)
	return UUID(id), nil
}

// Nested returns a value that embeds k as a single element of another key.
func Nested(k Key) Value {
	return Value{kind: KindKey, key: k.Clone()}
}

// Sentinel returns the range sentinel. As the last element of a key, it makes
// the encoding sort after every key that extends the elements before it.
func Sentinel() Value {
	return Value{kind: KindSentinel}
}

// Kind returns the value's tag. Integers below zero report KindNegInteger.
func (v Value) Kind() Kind {
	switch v.kind {
	case kindEnd:
		return KindNull
	case KindInteger:
		if v.sign() < 0 {
			return KindNegInteger
		}
		return KindInteger
	default:
		return v.kind
	}
}

func (v Value) IsNull() bool {
	return v.Kind() == KindNull
}

func (v Value) IsInteger() bool {
	return v.kind == KindInteger
}

func (v Value) IsSentinel() bool {
	return v.kind == KindSentinel
}

func (v Value) sign() int {
	if v.big != nil {
		return v.big.Sign()
	}
	switch {
	case v.num < 0:
		return -1
	case v.num > 0:
		return 1
	default:
		return 0
	}
}

// Int64 returns the integer held by v and whether it fits into int64.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindInteger || v.big != nil {
		return 0, false
	}
	return v.num, true
}

// BigInt returns a fresh copy of the integer held by v, or nil if v isn't an
// integer.
func (v Value) BigInt() *big.Int {
	if v.kind != KindInteger {
		return nil
	}
	if v.big != nil {
		return new(big.Int).Set(v.big)
	}
	return big.NewInt(v.num)
}

func (v Value) Bool() bool {
	return v.kind == KindBool && v.num != 0
}

// Bytes returns the payload of a blob. The result must not be modified.
func (v Value) Bytes() []byte {
	if v.kind != KindBlob {
		return nil
	}
	return v.raw
}

func (v Value) Text() string {
	if v.kind != KindText {
		return ""
	}
	return v.str
}

func (v Value) UUID() uuid.UUID {
	if v.kind != KindUUID {
		return uuid.Nil
	}
	return v.id
}

// Key returns the elements of a nested key. The result must not be modified.
func (v Value) Key() Key {
	if v.kind != KindKey {
		return nil
	}
	return v.key
}

func (v Value) Equal(o Value) bool {
	return Compare(v, o) == 0
}

func (v Value) String() string {
	var buf strings.Builder
	v.format(&buf)
	return buf.String()
}

func (v Value) format(buf *strings.Builder) {
	switch v.kind {
	case kindEnd, KindNull:
		buf.WriteString("null")
	case KindInteger:
		if v.big != nil {
			buf.WriteString(v.big.String())
		} else {
			buf.WriteString(strconv.FormatInt(v.num, 10))
		}
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool()))
	case KindBlob:
		buf.WriteString("x'")
		buf.WriteString(hex.EncodeToString(v.raw))
		buf.WriteByte('\'')
	case KindText:
		buf.WriteString(strconv.Quote(v.str))
	case KindUUID:
		buf.WriteString(v.id.String())
	case KindKey:
		v.key.format(buf)
	case KindSentinel:
		buf.WriteString("<sentinel>")
	default:
		buf.WriteString(v.kind.String())
	}
}

// Key is an ordered sequence of values. Keys compare element by element; a
// key that is a strict prefix of another sorts first.
type Key []Value

// Clone returns a copy of k that shares no slices with it.
func (k Key) Clone() Key {
	if k == nil {
		return nil
	}
	c := make(Key, len(k))
	copy(c, k)
	return c
}

// Append returns a new key holding k followed by vals. k is never modified.
func (k Key) Append(vals ...Value) Key {
	c := make(Key, 0, len(k)+len(vals))
	c = append(c, k...)
	return append(c, vals...)
}

// HasPrefix reports whether the first len(prefix) elements of k equal prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, v := range prefix {
		if !v.Equal(k[i]) {
			return false
		}
	}
	return true
}

func (k Key) Equal(o Key) bool {
	return k.Compare(o) == 0
}

func (k Key) String() string {
	var buf strings.Builder
	k.format(&buf)
	return buf.String()
}

func (k Key) format(buf *strings.Builder) {
	buf.WriteByte('(')
	for i, v := range k {
		if i > 0 {
			buf.WriteString(", ")
		}
		v.format(buf)
	}
	buf.WriteByte(')')
}
