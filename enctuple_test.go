package keycoder

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestEncodeKey(t *testing.T) {
	id := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")
	tests := []struct {
		input    Key
		expected string
	}{
		{Key{}, ""},
		{Key{Null()}, "0f"},
		{Key{Value{}}, "0f"},
		{Key{Bool(false)}, "1e00"},
		{Key{Bool(true)}, "1e01"},
		{Key{Blob(nil)}, "280000"},
		{Key{Blob([]byte{0})}, "2800010000"},
		{Key{Blob([]byte{0, 1})}, "280001010000"},
		{Key{Blob([]byte("a\x00b"))}, "28610001620000"},
		{Key{Text("")}, "320000"},
		{Key{Text("a")}, "32610000"},
		{Key{Text("é")}, "32c3a90000"},
		{Key{UUID(id)}, "5a00112233445566778899aabbccddeeff"},
		{Key{Nested(Key{Int(1), Text("x")})}, "5f1501013278000000"},
		{Key{Nested(Key{})}, "5f00"},
		{Key{Nested(Key{Nested(Key{Null()})})}, "5f5f0f0000"},
		{Key{Text("a"), Sentinel()}, "32610000ff"},
		{Key{Sentinel()}, "ff"},
		{Key{Int(-1), Int(0), Null()}, "14fefe15000f"},
	}
	for _, tt := range tests {
		encoded, err := EncodeKey(tt.input)
		if err != nil {
			t.Errorf("** EncodeKey(%v) failed: %v", tt.input, err)
			continue
		}
		encodedStr := hex.EncodeToString(encoded)
		if encodedStr != tt.expected {
			t.Errorf("** EncodeKey(%v) = %q, wanted %q", tt.input, encodedStr, tt.expected)
			continue
		}
		decoded, err := DecodeKey(encoded)
		if err != nil {
			t.Errorf("** DecodeKey(%q) failed: %v", encodedStr, err)
		} else if diff := cmp.Diff(tt.input, decoded); diff != "" {
			t.Errorf("** DecodeKey(%q) mismatch (-want +got):\n%s", encodedStr, diff)
		}
	}
}

func TestAppendKey(t *testing.T) {
	buf := []byte("pfx")
	buf, err := AppendKey(buf, Key{Int(7)})
	if err != nil {
		t.Fatal(err)
	}
	if a, e := hex.EncodeToString(buf), hex.EncodeToString([]byte("pfx"))+"150107"; a != e {
		t.Fatalf("AppendKey = %s, wanted %s", a, e)
	}

	orig := []byte("pfx")
	out, err := AppendKey(orig, Key{Sentinel(), Int(1)})
	if err == nil {
		t.Fatalf("AppendKey with misplaced sentinel succeeded")
	}
	if !bytes.Equal(out, orig) {
		t.Fatalf("AppendKey on error = %x, wanted the original %x", out, orig)
	}
}

func TestNesting(t *testing.T) {
	key := Key{Nested(Key{Int(1), Text("x")})}
	decoded := must(DecodeKey(must(EncodeKey(key))))
	if diff := cmp.Diff(key, decoded); diff != "" {
		t.Fatalf("nested round trip mismatch (-want +got):\n%s", diff)
	}
	inner := decoded[0].Key()
	if len(inner) != 2 || inner[1].Text() != "x" {
		t.Fatalf("decoded[0].Key() = %v, wanted (1, \"x\")", inner)
	}

	deep := Key{Text("leaf")}
	for i := 0; i < 50; i++ {
		deep = Key{Nested(deep), Int(int64(i))}
	}
	decoded = must(DecodeKey(must(EncodeKey(deep))))
	if !decoded.Equal(deep) {
		t.Fatalf("deeply nested key did not round-trip")
	}
}

func TestSentinelPlacement(t *testing.T) {
	bad := []Key{
		{Sentinel(), Int(1)},
		{Sentinel(), Sentinel()},
		{Nested(Key{Int(1), Sentinel()})},
		{Nested(Key{Sentinel()}), Int(1)},
	}
	for _, key := range bad {
		_, err := EncodeKey(key)
		if !errors.Is(err, ErrMalformedSentinelPlacement) {
			t.Errorf("** EncodeKey(%v) err = %v, wanted ErrMalformedSentinelPlacement", key, err)
		}
	}

	badEncodings := []string{
		"ff0f",           // sentinel followed by null
		"ffff",           // two sentinels
		"5f15010fff00",   // sentinel inside a nested key
		"32610000ff1500", // sentinel followed by an integer
	}
	for _, s := range badEncodings {
		_, err := DecodeKey(must(hex.DecodeString(s)))
		if !errors.Is(err, ErrMalformedSentinelPlacement) {
			t.Errorf("** DecodeKey(%s) err = %v, wanted ErrMalformedSentinelPlacement", s, err)
		}
	}
}

func TestDecodeKey_Errors(t *testing.T) {
	tests := []struct {
		input string
		err   error
	}{
		{"00", ErrUnknownKind},
		{"01", ErrUnknownKind},
		{"66", ErrUnknownKind}, // key list separator outside a key list
		{"0f63", ErrUnknownKind},
		{"1e02", ErrMalformedPayload},
		{"28610002", ErrMalformedPayload},
		{"32ff0000", ErrInvalidUTF8},
		{"32c30000", ErrInvalidUTF8},
		{"5a0011", ErrInvalidUUIDLength},
		{"5a0011", ErrTruncatedInput},
		{"5a", ErrInvalidUUIDLength},
		{"5f0f", ErrTruncatedInput},
		{"5f66", ErrUnknownKind},
		{"2861", ErrTruncatedInput},
		{"286100", ErrTruncatedInput},
	}
	for _, tt := range tests {
		_, err := DecodeKey(must(hex.DecodeString(tt.input)))
		if !errors.Is(err, tt.err) {
			t.Errorf("** DecodeKey(%s) err = %v, wanted %v", tt.input, err, tt.err)
		}
		var de *DataError
		if !errors.As(err, &de) {
			t.Errorf("** DecodeKey(%s) err = %T, wanted *DataError", tt.input, err)
		}
	}
}

func TestDecodeKey_Truncation(t *testing.T) {
	keys := []Key{
		{Int(-1000), Text("héllo"), Blob([]byte{0, 0, 1, 0}), UUID(uuid.New())},
		{Nested(Key{Int(1), Nested(Key{Text("x"), Bool(true)})}), Int(1 << 40), Sentinel()},
		{Null(), Bool(false), BigInt(bigPow2(100)), BigInt(bigNegPow2(100)), Text("")},
	}
	for _, key := range keys {
		enc := must(EncodeKey(key))
		boundaries := map[int]bool{}
		for j := 0; j <= len(key); j++ {
			boundaries[len(must(EncodeKey(key[:j])))] = true
		}
		for i := 0; i < len(enc); i++ {
			decoded, err := DecodeKey(enc[:i])
			if boundaries[i] {
				if err != nil {
					t.Errorf("** DecodeKey(%x) at element boundary failed: %v", enc[:i], err)
				} else if !decoded.Equal(key[:len(decoded)]) {
					t.Errorf("** DecodeKey(%x) = %v, wanted a prefix of %v", enc[:i], decoded, key)
				}
			} else if !errors.Is(err, ErrTruncatedInput) {
				t.Errorf("** DecodeKey(%x) err = %v, wanted ErrTruncatedInput", enc[:i], err)
			}
		}
	}
}

func TestEncodeKey_UnsupportedValue(t *testing.T) {
	_, err := EncodeKey(Key{Int(1), Text("bad \xff utf8")})
	if !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("EncodeKey(invalid UTF-8) err = %v, wanted ErrUnsupportedValue", err)
	}
	if !strings.Contains(err.Error(), "element 1") {
		t.Fatalf("err = %q, wanted the element index", err.Error())
	}
}

func TestPrefixBound(t *testing.T) {
	prefix := Key{Text("a")}
	bound := must(PrefixBound(prefix))
	if a, e := hex.EncodeToString(bound), "32610000ff"; a != e {
		t.Fatalf("PrefixBound = %s, wanted %s", a, e)
	}
	lo := must(EncodeKey(prefix))
	for _, key := range []Key{
		{Text("a")},
		{Text("a"), Null()},
		{Text("a"), Text("b")},
		{Text("a"), Nested(Key{Int(1)}), Int(5)},
	} {
		enc := must(EncodeKey(key))
		if bytes.Compare(enc, lo) < 0 || bytes.Compare(enc, bound) >= 0 {
			t.Errorf("** %v = %x is outside [%x, %x)", key, enc, lo, bound)
		}
	}
	for _, key := range []Key{{Text("a\x00")}, {Text("b")}, {Text("")}, {Nested(Key{Text("a")})}} {
		enc := must(EncodeKey(key))
		if bytes.Compare(enc, lo) >= 0 && bytes.Compare(enc, bound) < 0 {
			t.Errorf("** %v = %x is inside [%x, %x)", key, enc, lo, bound)
		}
	}
}
