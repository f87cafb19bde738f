package keycoder

import (
	"encoding/binary"
	"math"
	"math/big"
	"math/bits"
)

// Integers are written as a length class followed by the minimal big-endian
// magnitude:
//
//	non-negative:  KindInteger     L  m1 m2 ... mL
//	negative:      KindNegInteger ^L ^m1 ^m2 ... ^mL
//
// L is the number of magnitude bytes, so zero is just KindInteger 0x00. When
// L >= 255, the length class is 0xFF, then one byte M, then L as M big-endian
// bytes. Comparing the classes first and the magnitudes second gives numeric
// order; inverting every byte reverses it for negative numbers.
const (
	maxShortLengthClass = 0xFE
	extLengthClass      = 0xFF
	maxLengthClassSize  = 2 + 8
)

func appendInt(w *Writer, v Value) {
	if v.big != nil {
		neg := v.big.Sign() < 0
		// big.Int.Bytes returns the absolute value.
		appendMagnitude(w, neg, v.big.Bytes())
		return
	}

	n := v.num
	neg := n < 0
	var m uint64
	if neg {
		m = uint64(^n) + 1
	} else {
		m = uint64(n)
	}
	var mb [8]byte
	binary.BigEndian.PutUint64(mb[:], m)
	size := (bits.Len64(m) + 7) / 8
	appendMagnitude(w, neg, mb[8-size:])
}

func appendMagnitude(w *Writer, neg bool, mag []byte) {
	var hdr [maxLengthClassSize]byte
	lc := putLengthClass(hdr[:], len(mag))
	if neg {
		w.PutByte(byte(KindNegInteger))
		w.PutInverted(lc)
		w.PutInverted(mag)
	} else {
		w.PutByte(byte(KindInteger))
		w.PutBytes(lc)
		w.PutBytes(mag)
	}
}

func putLengthClass(buf []byte, n int) []byte {
	if n <= maxShortLengthClass {
		buf[0] = byte(n)
		return buf[:1]
	}
	size := (bits.Len64(uint64(n)) + 7) / 8
	buf[0] = extLengthClass
	buf[1] = byte(size)
	var lb [8]byte
	binary.BigEndian.PutUint64(lb[:], uint64(n))
	copy(buf[2:], lb[8-size:])
	return buf[:2+size]
}

// takeMaybeInverted reads one byte, inverting it for negative integers.
func takeMaybeInverted(r *Reader, neg bool) (byte, error) {
	c, err := r.TakeByte()
	if neg {
		c = ^c
	}
	return c, err
}

func readLengthClass(r *Reader, neg bool) (int, error) {
	c, err := takeMaybeInverted(r, neg)
	if err != nil {
		return 0, err
	}
	if c != extLengthClass {
		return int(c), nil
	}

	size, err := takeMaybeInverted(r, neg)
	if err != nil {
		return 0, err
	}
	if size == 0 || size > 8 {
		return 0, r.errf(ErrMalformedPayload, "invalid integer length class size %d", size)
	}
	lb, err := r.TakeBytes(int(size))
	if err != nil {
		return 0, err
	}
	var n uint64
	for i, b := range lb {
		if neg {
			b = ^b
		}
		if i == 0 && b == 0 {
			return 0, r.errf(ErrMalformedPayload, "non-minimal integer length class")
		}
		n = n<<8 | uint64(b)
	}
	if n <= maxShortLengthClass {
		return 0, r.errf(ErrMalformedPayload, "extended length class used for %d bytes", n)
	}
	if n > math.MaxInt32 || n > uint64(r.Remaining()) {
		return 0, r.truncated(int(min(n, math.MaxInt32)))
	}
	return int(n), nil
}

func readInt(r *Reader, neg bool) (Value, error) {
	n, err := readLengthClass(r, neg)
	if err != nil {
		return Value{}, err
	}
	mag, err := r.TakeBytes(n)
	if err != nil {
		return Value{}, err
	}
	if n == 0 {
		if neg {
			return Value{}, r.errf(ErrMalformedPayload, "negative zero")
		}
		return Int(0), nil
	}

	first := mag[0]
	if neg {
		first = ^first
	}
	if first == 0 {
		return Value{}, r.errf(ErrMalformedPayload, "non-minimal integer magnitude")
	}

	if n <= 8 {
		var m uint64
		for _, b := range mag {
			if neg {
				b = ^b
			}
			m = m<<8 | uint64(b)
		}
		if !neg {
			return Uint(m), nil
		}
		if m <= 1<<63 {
			return Int(int64(^m + 1)), nil
		}
		bi := new(big.Int).SetUint64(m)
		return Value{kind: KindInteger, big: bi.Neg(bi)}, nil
	}

	buf := mag
	if neg {
		buf = make([]byte, n)
		for i, b := range mag {
			buf[i] = ^b
		}
	}
	bi := new(big.Int).SetBytes(buf)
	if neg {
		bi.Neg(bi)
	}
	return Value{kind: KindInteger, big: bi}, nil
}
