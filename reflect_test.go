package keycoder

import (
	"math"
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type userID int32
type slug string
type octet byte

func TestValueOf(t *testing.T) {
	id := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")
	n := 42
	var nilPtr *int
	tests := []struct {
		input    any
		expected Value
	}{
		{nil, Null()},
		{Int(3), Int(3)},
		{5, Int(5)},
		{int8(-5), Int(-5)},
		{int32(-7), Int(-7)},
		{uint8(200), Int(200)},
		{uint32(math.MaxUint32), Int(math.MaxUint32)},
		{uint64(math.MaxUint64), Uint(math.MaxUint64)},
		{big.NewInt(9), Int(9)},
		{true, Bool(true)},
		{"hi", Text("hi")},
		{[]byte{0, 1}, Blob([]byte{0, 1})},
		{id, UUID(id)},
		{[16]byte(id), UUID(id)},
		{userID(12), Int(12)},
		{slug("x-y"), Text("x-y")},
		{[16]octet{0: 0x00, 1: 0x11, 15: 0xff}, UUID(uuid.UUID{0: 0x00, 1: 0x11, 15: 0xff})},
		{[]octet{0, 1}, Blob([]byte{0, 1})},
		{&n, Int(42)},
		{nilPtr, Null()},
		{Key{Int(1)}, Nested(Key{Int(1)})},
		{[]Value{Text("a")}, Nested(Key{Text("a")})},
		{[]any{1, "a", nil}, Nested(Key{Int(1), Text("a"), Null()})},
	}
	for _, tt := range tests {
		actual, err := ValueOf(tt.input)
		if err != nil {
			t.Errorf("** ValueOf(%#v) failed: %v", tt.input, err)
		} else if diff := cmp.Diff(tt.expected, actual); diff != "" {
			t.Errorf("** ValueOf(%#v) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestValueOf_Unsupported(t *testing.T) {
	for _, x := range []any{3.14, struct{}{}, map[string]int{}, []int{1}, [4]byte{}, [4]octet{}, [16]int{}} {
		if _, err := ValueOf(x); !errors.Is(err, ErrUnsupportedValue) {
			t.Errorf("** ValueOf(%#v) err = %v, wanted ErrUnsupportedValue", x, err)
		}
	}
	if _, err := KeyOf(1, 2.5); !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("** KeyOf(1, 2.5) err = %v, wanted ErrUnsupportedValue", err)
	}
}

func TestMustKey(t *testing.T) {
	key := MustKey("users", 7, []any{"nested", true})
	expected := Key{Text("users"), Int(7), Nested(Key{Text("nested"), Bool(true)})}
	if diff := cmp.Diff(expected, key); diff != "" {
		t.Fatalf("MustKey mismatch (-want +got):\n%s", diff)
	}
}

func TestValueAny(t *testing.T) {
	id := uuid.New()
	huge := bigPow2(100)
	tests := []struct {
		input    Value
		expected any
	}{
		{Null(), nil},
		{Value{}, nil},
		{Int(-3), int64(-3)},
		{Bool(true), true},
		{Blob([]byte{1}), []byte{1}},
		{Text("t"), "t"},
		{UUID(id), id},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.expected, tt.input.Any()); diff != "" {
			t.Errorf("** %v.Any() mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
	if got, ok := BigInt(huge).Any().(*big.Int); !ok || got.Cmp(huge) != 0 {
		t.Errorf("** BigInt(2^100).Any() = %v, wanted 2^100", BigInt(huge).Any())
	}
	if got, ok := Nested(Key{Int(1)}).Any().(Key); !ok || !got.Equal(Key{Int(1)}) {
		t.Errorf("** Nested.Any() = %v, wanted (1)", got)
	}

	for _, v := range []Value{Int(-3), Text("x"), UUID(id), Nested(Key{Int(1), Null()})} {
		back, err := ValueOf(v.Any())
		if err != nil || !back.Equal(v) {
			t.Errorf("** ValueOf(%v.Any()) = %v, %v", v, back, err)
		}
	}
}
