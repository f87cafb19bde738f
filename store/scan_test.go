package store

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/andreyvit/keycoder"
	"github.com/stretchr/testify/require"
)

func TestRange_Compile(t *testing.T) {
	k := keycoder.MustKey
	base := []byte{0xAA}
	enc := func(key keycoder.Key) string {
		return "aa" + hex.EncodeToString(keycoder.MustEncodeKey(key))
	}
	tests := []struct {
		name  string
		rang  Range
		lower string
		upper string
	}{
		{"OO", OO(), "aa", "aaff"},
		{"prefix", Prefix(k("a")), enc(k("a")), enc(k("a", keycoder.Sentinel()))},
		{"IO", IO(k(1)), enc(k(1)), "aaff"},
		{"EO", EO(k(1)), enc(k(1)) + "00", "aaff"},
		{"OI", OI(k(1)), "aa", enc(k(1)) + "00"},
		{"OE", OE(k(1)), "aa", enc(k(1))},
		{"prefix narrows bounds", IE(k(0), k(9)).Prefixed(k(1)), enc(k(1)), enc(k(1, keycoder.Sentinel()))},
		{"bounds narrow prefix", EI(k(1, 2), k(1, 5)).Prefixed(k(1)), enc(k(1, 2)) + "00", enc(k(1, 5)) + "00"},
	}
	for _, tt := range tests {
		r, err := tt.rang.compile(base, false)
		require.NoError(t, err, tt.name)
		require.Equal(t, tt.lower, hex.EncodeToString(r.lower), tt.name)
		require.Equal(t, tt.upper, hex.EncodeToString(r.upper), tt.name)
		require.False(t, r.empty(), tt.name)
	}

	r, err := II(k(2), k(1)).compile(base, false)
	require.NoError(t, err)
	require.True(t, r.empty())

	r, err = EE(k(1), k(1)).compile(base, false)
	require.NoError(t, err)
	require.True(t, r.empty())

	r, err = II(k(1), k(1)).compile(base, false)
	require.NoError(t, err)
	require.False(t, r.empty())
	require.False(t, r.match(keycoder.MustEncodeKey(k(1)), nil)) // no base
	require.True(t, r.match(append(bytes.Clone(base), keycoder.MustEncodeKey(k(1))...), nil))
	require.False(t, r.match(append(bytes.Clone(base), keycoder.MustEncodeKey(k(1, 0))...), nil))

	_, err = Prefix(k(keycoder.Sentinel(), 1)).compile(base, false)
	require.ErrorIs(t, err, keycoder.ErrMalformedSentinelPlacement)
}

func TestRange_CompileNested(t *testing.T) {
	k := keycoder.MustKey
	base := []byte{0xAA}
	key := func(key keycoder.Key) string {
		return "aa5f" + hex.EncodeToString(keycoder.MustEncodeKey(key))
	}
	tests := []struct {
		name  string
		rang  Range
		lower string
		upper string
	}{
		{"OO", OO(), "aa5f", "aa5fff"},
		{"prefix", Prefix(k("a")), key(k("a")), key(k("a")) + "ff"},
		{"IO", IO(k(1)), key(k(1)) + "00", "aa5fff"},
		{"EO", EO(k(1)), key(k(1)) + "00ff", "aa5fff"},
		{"OI", OI(k(1)), "aa5f", key(k(1)) + "00ff"},
		{"OE", OE(k(1)), "aa5f", key(k(1)) + "00"},
		{"sentinel bound", OE(k(1, keycoder.Sentinel())), "aa5f", key(k(1)) + "ff"},
	}
	for _, tt := range tests {
		r, err := tt.rang.compile(base, true)
		require.NoError(t, err, tt.name)
		require.Equal(t, tt.lower, hex.EncodeToString(r.lower), tt.name)
		require.Equal(t, tt.upper, hex.EncodeToString(r.upper), tt.name)
	}

	idx := &Index{prefix: base}
	entry := func(ik, pk keycoder.Key) []byte {
		raw, err := idx.entryKey(ik, pk)
		require.NoError(t, err)
		return raw
	}
	pk := k("zz", 99)

	// Entries whose index key equals a bound sit inside inclusive bounds and
	// outside exclusive ones, whatever their primary key.
	r, err := II(k(1), k(1)).compile(base, true)
	require.NoError(t, err)
	require.True(t, r.match(entry(k(1), pk), nil))
	require.True(t, r.match(entry(k(1), nil), nil))
	require.False(t, r.match(entry(k(1, 0), pk), nil))
	require.False(t, r.match(entry(k(0), pk), nil))

	r, err = EE(k(1), k(3)).compile(base, true)
	require.NoError(t, err)
	require.False(t, r.match(entry(k(1), pk), nil))
	require.True(t, r.match(entry(k(1, 0), pk), nil))
	require.True(t, r.match(entry(k(2), pk), nil))
	require.False(t, r.match(entry(k(3), pk), nil))

	// A shorter index key sorts before its extensions even when the extension
	// starts with a low tag.
	r, err = OE(k(1, nil)).compile(base, true)
	require.NoError(t, err)
	require.True(t, r.match(entry(k(1), pk), nil))
	require.False(t, r.match(entry(k(1, nil), pk), nil))

	ik, gotPK, err := splitIndexEntry(idx, entry(k("a", 1), pk))
	require.NoError(t, err)
	require.Equal(t, `("a", 1)`, ik.String())
	require.Equal(t, `("zz", 99)`, gotPK.String())

	_, _, err = splitIndexEntry(idx, append(bytes.Clone(base), keycoder.MustEncodeKey(k("a", pk))...))
	require.ErrorIs(t, err, ErrCorruptRecord)
}
