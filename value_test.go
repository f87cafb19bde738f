package keycoder

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
)

func TestValueString(t *testing.T) {
	id := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")
	tests := []struct {
		input    Value
		expected string
	}{
		{Null(), "null"},
		{Value{}, "null"},
		{Int(-12), "-12"},
		{BigInt(bigPow2(70)), "1180591620717411303424"},
		{Bool(false), "false"},
		{Blob([]byte{0, 0xAB}), "x'00ab'"},
		{Text("a\"b"), `"a\"b"`},
		{UUID(id), "00112233-4455-6677-8899-aabbccddeeff"},
		{Nested(Key{Int(1), Text("x")}), `(1, "x")`},
		{Sentinel(), "<sentinel>"},
	}
	for _, tt := range tests {
		if actual := tt.input.String(); actual != tt.expected {
			t.Errorf("** String() = %q, wanted %q", actual, tt.expected)
		}
	}
	if s := (Key{Text("a"), Sentinel()}).String(); s != `("a", <sentinel>)` {
		t.Errorf("** Key.String() = %q", s)
	}
}

func TestValueKinds(t *testing.T) {
	tests := []struct {
		input    Value
		expected Kind
	}{
		{Value{}, KindNull},
		{Int(0), KindInteger},
		{Int(-1), KindNegInteger},
		{BigInt(bigNegPow2(100)), KindNegInteger},
		{BigInt(bigPow2(100)), KindInteger},
		{Bool(true), KindBool},
		{Blob(nil), KindBlob},
		{Text(""), KindText},
		{UUID(uuid.Nil), KindUUID},
		{Nested(nil), KindKey},
		{Sentinel(), KindSentinel},
	}
	for _, tt := range tests {
		if k := tt.input.Kind(); k != tt.expected {
			t.Errorf("** %v.Kind() = %v, wanted %v", tt.input, k, tt.expected)
		}
	}
	if KindUUID.String() != "uuid" {
		t.Errorf("** KindUUID.String() = %q", KindUUID.String())
	}
	if Kind(7).String() != "unknown(7)" {
		t.Errorf("** Kind(7).String() = %q", Kind(7).String())
	}
	for _, v := range sampleValues() {
		if !v.Kind().IsValue() {
			t.Errorf("** %v.Kind().IsValue() = false", v)
		}
	}
	for _, k := range []Kind{kindEnd, kindSep, Kind(7), Kind(0xFE)} {
		if k.IsValue() {
			t.Errorf("** %v.IsValue() = true", k)
		}
	}
}

func TestConstructorsCopyInput(t *testing.T) {
	b := []byte{1, 2}
	v := Blob(b)
	b[0] = 9
	if v.Bytes()[0] != 1 {
		t.Fatalf("Blob shares its input")
	}

	n := big.NewInt(1)
	n.Lsh(n, 100)
	v = BigInt(n)
	n.SetInt64(0)
	if v.BigInt().Cmp(bigPow2(100)) != 0 {
		t.Fatalf("BigInt shares its input")
	}

	k := Key{Int(1)}
	v = Nested(k)
	k[0] = Int(2)
	if !v.Key().Equal(Key{Int(1)}) {
		t.Fatalf("Nested shares its input")
	}
}

func TestKeyHelpers(t *testing.T) {
	base := make(Key, 1, 4)
	base[0] = Text("a")
	x := base.Append(Int(1))
	y := base.Append(Int(2))
	if !x.Equal(Key{Text("a"), Int(1)}) || !y.Equal(Key{Text("a"), Int(2)}) {
		t.Fatalf("Append shared its receiver: x=%v y=%v", x, y)
	}
	if !x.HasPrefix(base) || !x.HasPrefix(nil) || x.HasPrefix(y) || base.HasPrefix(x) {
		t.Fatalf("HasPrefix gave a wrong answer")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b     Value
		expected int
	}{
		{Null(), Value{}, 0},
		{Int(5), BigInt(big.NewInt(5)), 0},
		{Int(-1), Int(0), -1},
		{BigInt(bigNegPow2(80)), Int(-1 << 62), -1},
		{BigInt(bigPow2(80)), Int(1 << 62), 1},
		{Bool(true), Int(100), 1},
		{Blob([]byte("b")), Text("a"), -1},
		{Text("ab"), Text("a"), 1},
		{Nested(Key{Int(1)}), Nested(Key{Int(1), Null()}), -1},
		{Sentinel(), Nested(Key{Sentinel()}), 1},
		{Sentinel(), Sentinel(), 0},
	}
	for _, tt := range tests {
		if c := Compare(tt.a, tt.b); c != tt.expected {
			t.Errorf("** Compare(%v, %v) = %d, wanted %d", tt.a, tt.b, c, tt.expected)
		}
		if c := Compare(tt.b, tt.a); c != -tt.expected {
			t.Errorf("** Compare(%v, %v) = %d, wanted %d", tt.b, tt.a, c, -tt.expected)
		}
	}
}
