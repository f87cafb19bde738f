package store

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/andreyvit/keycoder"
)

const (
	debugLogRawScans = false
)

// Range selects keys of a collection or index. The constructors use
// mnemonics: O means open, I means inclusive, E means exclusive; the first
// letter is for the lower bound, the second for the upper bound.
//
// Bounds are whole keys compared with keycoder order, so (a, b) is above the
// exclusive lower bound (a) and above the inclusive upper bound (a) too. Prefix
// restricts the range to keys starting with it. A range whose lower bound is
// above its upper bound is empty. Over an index, the bounds apply to the index
// keys and every entry of a matching index key is included.
type Range struct {
	Prefix   keycoder.Key
	Lower    keycoder.Key
	Upper    keycoder.Key
	LowerInc bool
	UpperInc bool
	Reverse  bool
}

func OO() Range                  { return Range{} }
func IO(l keycoder.Key) Range    { return Range{Lower: l, LowerInc: true} }
func EO(l keycoder.Key) Range    { return Range{Lower: l, LowerInc: false} }
func OI(u keycoder.Key) Range    { return Range{Upper: u, UpperInc: true} }
func OE(u keycoder.Key) Range    { return Range{Upper: u, UpperInc: false} }
func II(l, u keycoder.Key) Range { return Range{Lower: l, Upper: u, LowerInc: true, UpperInc: true} }
func IE(l, u keycoder.Key) Range {
	return Range{Lower: l, Upper: u, LowerInc: true, UpperInc: false}
}
func EI(l, u keycoder.Key) Range {
	return Range{Lower: l, Upper: u, LowerInc: false, UpperInc: true}
}
func EE(l, u keycoder.Key) Range {
	return Range{Lower: l, Upper: u, LowerInc: false, UpperInc: false}
}
func Prefix(p keycoder.Key) Range                { return Range{Prefix: p} }
func (rang Range) Prefixed(p keycoder.Key) Range { rang.Prefix = p; return rang }
func (rang Range) Reversed() Range               { rang.Reverse = true; return rang }

// rawRange is a Range compiled to byte bounds: lower inclusive, upper
// exclusive.
type rawRange struct {
	lower   []byte
	upper   []byte
	reverse bool
}

// compile turns r into byte bounds below base, the physical prefix of a
// collection or index.
//
// Rows are stored as base ++ Enc(key). A prefix p spans
// [Enc(p), Enc(p ++ Sentinel)). An exclusive lower bound l starts at
// Enc(l) ++ 0x00 and an inclusive upper bound u ends before Enc(u) ++ 0x00:
// nothing sorts between Enc(k) and Enc(k) ++ 0x00, because every encoded
// element starts with a tag above 0x00.
//
// Index entries (nested is true) are stored as
// base ++ Enc(Nested(indexKey)) ++ Enc(Nested(primaryKey)), so the bounds
// apply to the nested index key instead. A bound k becomes Enc(Nested(k)), a
// prefix p leaves the nested key unterminated, and the successor of a bound
// appends 0xFF, which sorts above the primary key that follows it.
func (r Range) compile(base []byte, nested bool) (rawRange, error) {
	succ := byte(0x00)
	if nested {
		succ = 0xFF
	}
	bound := func(k keycoder.Key, open bool) ([]byte, error) {
		buf := bytes.Clone(base)
		if !nested {
			return keycoder.AppendKey(buf, k)
		}
		if open || endsWithSentinel(k) {
			return keycoder.AppendKey(append(buf, byte(keycoder.KindKey)), k)
		}
		return keycoder.AppendKey(buf, keycoder.Key{keycoder.Nested(k)})
	}

	lower, err := bound(r.Prefix, true)
	if err != nil {
		return rawRange{}, err
	}
	upper, err := bound(r.Prefix.Append(keycoder.Sentinel()), true)
	if err != nil {
		return rawRange{}, err
	}

	if r.Lower != nil {
		l, err := bound(r.Lower, false)
		if err != nil {
			return rawRange{}, err
		}
		if !r.LowerInc {
			l = append(l, succ)
		}
		if bytes.Compare(l, lower) > 0 {
			lower = l
		}
	}
	if r.Upper != nil {
		u, err := bound(r.Upper, false)
		if err != nil {
			return rawRange{}, err
		}
		if r.UpperInc {
			u = append(u, succ)
		}
		if bytes.Compare(u, upper) < 0 {
			upper = u
		}
	}
	return rawRange{lower: lower, upper: upper, reverse: r.Reverse}, nil
}

func endsWithSentinel(k keycoder.Key) bool {
	return len(k) > 0 && k[len(k)-1].IsSentinel()
}

func (r *rawRange) empty() bool {
	return bytes.Compare(r.lower, r.upper) >= 0
}

func (r *rawRange) start(bcur storageCursor, logger *slog.Logger) ([]byte, []byte) {
	if r.empty() {
		return nil, nil
	}
	var k, v []byte
	if r.reverse {
		k, v = bcur.SeekBefore(r.upper)
		if debugLogRawScans {
			logger.LogAttrs(context.Background(), slog.LevelDebug, "SEEK before upper", hexAttr("upper", r.upper), hexAttr("key", k), hexAttr("val", v))
		}
	} else {
		k, v = bcur.Seek(r.lower)
		if debugLogRawScans {
			logger.LogAttrs(context.Background(), slog.LevelDebug, "SEEK to lower", hexAttr("lower", r.lower), hexAttr("key", k), hexAttr("val", v))
		}
	}
	if k != nil && r.match(k, logger) {
		return k, v
	}
	return nil, nil
}

func (r *rawRange) next(bcur storageCursor, logger *slog.Logger) ([]byte, []byte) {
	var k, v []byte
	if r.reverse {
		k, v = bcur.Prev()
		if debugLogRawScans {
			logger.LogAttrs(context.Background(), slog.LevelDebug, "PREV", hexAttr("key", k), hexAttr("val", v))
		}
	} else {
		k, v = bcur.Next()
		if debugLogRawScans {
			logger.LogAttrs(context.Background(), slog.LevelDebug, "NEXT", hexAttr("key", k), hexAttr("val", v))
		}
	}
	if k != nil && r.match(k, logger) {
		return k, v
	}
	return nil, nil
}

func (r *rawRange) match(k []byte, logger *slog.Logger) bool {
	if bytes.Compare(k, r.lower) < 0 {
		if debugLogRawScans {
			logger.LogAttrs(context.Background(), slog.LevelDebug, "BAIL on lower", hexAttr("lower", r.lower), hexAttr("key", k))
		}
		return false
	}
	if bytes.Compare(k, r.upper) >= 0 {
		if debugLogRawScans {
			logger.LogAttrs(context.Background(), slog.LevelDebug, "BAIL on upper", hexAttr("upper", r.upper), hexAttr("key", k))
		}
		return false
	}
	return true
}
