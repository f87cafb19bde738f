package keycoder

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestWriter_Basics(t *testing.T) {
	w := NewWriter(nil)
	w.PutByte(1)
	w.PutBytes([]byte{2, 3})
	w.PutInverted([]byte{0x00, 0xF0})
	if w.Len() != 5 {
		t.Fatalf("Len = %d, wanted 5", w.Len())
	}
	if got := w.Finish(); !reflect.DeepEqual(got, []byte{1, 2, 3, 0xFF, 0x0F}) {
		t.Fatalf("Finish = %x, wanted 010203ff0f", got)
	}
}

func TestWriter_GrowsFromSeed(t *testing.T) {
	seed := make([]byte, 2)
	seed[0], seed[1] = 0xAA, 0xBB
	w := NewWriter(seed)
	for i := 0; i < 100; i++ {
		w.PutByte(byte(i))
	}
	buf := w.Finish()
	if len(buf) != 102 || buf[0] != 0xAA || buf[1] != 0xBB || buf[101] != 99 {
		t.Fatalf("Finish = (len %d) %x", len(buf), buf)
	}
	if cap(buf) < 102 || cap(buf)&(cap(buf)-1) != 0 {
		t.Fatalf("cap = %d, wanted a power of two >= 102", cap(buf))
	}
}

func TestReader_Basics(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	if c, err := r.Peek(); err != nil || c != 1 {
		t.Fatalf("Peek = (%d, %v), wanted (1, nil)", c, err)
	}
	if c, err := r.TakeByte(); err != nil || c != 1 {
		t.Fatalf("TakeByte = (%d, %v), wanted (1, nil)", c, err)
	}
	b, err := r.TakeBytes(2)
	if err != nil || !reflect.DeepEqual(b, []byte{2, 3}) {
		t.Fatalf("TakeBytes = (%x, %v), wanted 0203", b, err)
	}
	if cap(b) != 2 {
		t.Fatalf("cap(TakeBytes) = %d, wanted 2", cap(b))
	}
	if r.Offset() != 3 || r.Remaining() != 1 {
		t.Fatalf("Offset, Remaining = %d, %d, wanted 3, 1", r.Offset(), r.Remaining())
	}
}

func TestReader_Errors(t *testing.T) {
	t.Run("TakeBytes not enough data", func(t *testing.T) {
		r := NewReader([]byte{1, 2})
		_, err := r.TakeBytes(3)
		var de *DataError
		if !errors.As(err, &de) {
			t.Fatalf("TakeBytes err = %T %v, wanted *DataError", err, err)
		}
		if de.Off != 0 || !errors.Is(err, ErrTruncatedInput) {
			t.Fatalf("DataError = %v, wanted truncation at 0", de)
		}
		if r.Remaining() != 2 {
			t.Fatalf("failed TakeBytes consumed input")
		}
	})

	t.Run("TakeByte at end", func(t *testing.T) {
		r := NewReader([]byte{7})
		_, _ = r.TakeByte()
		_, err := r.TakeByte()
		var de *DataError
		if !errors.As(err, &de) || de.Off != 1 {
			t.Fatalf("TakeByte err = %v, wanted *DataError at 1", err)
		}
	})

	t.Run("negative length", func(t *testing.T) {
		r := NewReader([]byte{1})
		if _, err := r.TakeBytes(-1); !errors.Is(err, ErrTruncatedInput) {
			t.Fatalf("TakeBytes(-1) err = %v, wanted ErrTruncatedInput", err)
		}
	})
}
