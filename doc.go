/*
Package keycoder encodes structured keys into byte strings whose byte-wise
order matches the order of the keys themselves, so that an ordered key-value
store can sort, range-scan and index them with plain bytes.Compare.

A Key is a sequence of Values. Keys compare element by element, and a key that
is a strict prefix of another sorts first. Values of different kinds sort in
this order:

 1. null
 2. negative integers
 3. non-negative integers
 4. bools (false, then true)
 5. blobs
 6. text
 7. UUIDs
 8. nested keys
 9. the range sentinel

# Encoding

Every element starts with a one-byte tag (see Kind); the numeric order of tags
is the order listed above.

**Null** is just the tag.

**Integers** are the tag, a length class and the minimal big-endian magnitude.
The length class is the number of magnitude bytes, so longer (bigger) numbers
sort later. Negative numbers use a lower tag and have both the length class and
the magnitude bit-inverted, which reverses their order. Magnitudes of 255 bytes
or more use an extended length class (0xFF, a byte count, the length), so there
is no upper bound on size.

**Bools** are the tag and a 0x00 or 0x01 byte.

**Blobs and text** are the tag, then the bytes with every 0x00 written as
0x00 0x01, then 0x00 0x00. Text is UTF-8, whose byte order is code point order.

**UUIDs** are the tag and 16 raw bytes.

**Nested keys** are the tag, the encodings of their elements, then 0x00. The
terminator is below every tag, so a nested key sorts before its extensions.

**The range sentinel** is the tag 0xFF and may only end a top-level key. The
encoding of (a, b, Sentinel) sorts after every key that starts with (a, b),
which makes it the exclusive upper bound of a prefix scan; see PrefixBound.

Decoding accepts only the canonical encoding of each value, so two valid byte
strings are equal exactly when the keys they encode are equal. Every decoding
failure is a *DataError wrapping one of the Err* sentinels.

# Key lists

EncodeKeys packs several keys into one string after a raw prefix, separated by
a tag that sorts above every value kind.

# Concurrency

Encoding and decoding keep no shared state; every call owns its Writer or
Reader. Decoded blobs and text never alias the input.
*/
package keycoder
