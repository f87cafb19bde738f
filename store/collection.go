package store

import (
	"slices"

	"github.com/andreyvit/keycoder"
	"github.com/cockroachdb/errors"
)

// Physical keyspace. Every key starts with a space tag:
//
//	data rows:     (0, collection) ++ primary key
//	index entries: (1, collection, index) ++ index key ++ (nested primary key)
//
// Index entries have empty values. Because keys are keycoder encodings, a
// prefix scan over (0, collection) visits the rows of one collection in
// primary key order, and the nested primary key keeps entries with equal
// index keys distinct.
const (
	spaceData  = 0
	spaceIndex = 1
)

// Collection is a named set of rows keyed by keycoder keys. Collections are
// plain descriptors; they don't need to be registered with a DB.
type Collection struct {
	name    string
	enc     Encoding
	indexes []*Index
	prefix  []byte
}

// NewCollection returns a collection that stores its values with enc.
func NewCollection(name string, enc Encoding) *Collection {
	if !enc.valid() {
		panic(errors.Newf("collection %s: invalid encoding %d", name, int(enc)))
	}
	return &Collection{
		name:   name,
		enc:    enc,
		prefix: keycoder.MustEncodeKey(keycoder.Key{keycoder.Int(spaceData), keycoder.Text(name)}),
	}
}

func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) Encoding() Encoding {
	return c.enc
}

func (c *Collection) Indexes() []*Index {
	return slices.Clone(c.indexes)
}

// IndexFunc returns the index keys of a row. Returning several keys adds the
// row to the index several times; returning none leaves it out.
type IndexFunc func(key keycoder.Key, val any) []keycoder.Key

// AddIndex declares a secondary index. Indexes should be declared before any
// row is written; RebuildIndex fills in an index added later.
func (c *Collection) AddIndex(name string, fn IndexFunc) *Index {
	for _, idx := range c.indexes {
		if idx.name == name {
			panic(errors.Newf("collection %s: duplicate index %s", c.name, name))
		}
	}
	idx := &Index{
		coll: c,
		name: name,
		fn:   fn,
		pos:  len(c.indexes),
		prefix: keycoder.MustEncodeKey(keycoder.Key{
			keycoder.Int(spaceIndex), keycoder.Text(c.name), keycoder.Text(name),
		}),
	}
	c.indexes = append(c.indexes, idx)
	return idx
}

// dataKey returns the physical key of the row with the given primary key.
func (c *Collection) dataKey(key keycoder.Key) ([]byte, error) {
	if err := checkStoredKey(key); err != nil {
		return nil, collErrf(c, nil, key, err, "invalid key")
	}
	raw, err := keycoder.AppendKey(slices.Clip(c.prefix), key)
	if err != nil {
		return nil, collErrf(c, nil, key, err, "invalid key")
	}
	return raw, nil
}

// decodeDataKey extracts the primary key from the physical key of a row.
func (c *Collection) decodeDataKey(raw []byte) (keycoder.Key, error) {
	key, err := keycoder.DecodeKey(raw[len(c.prefix):])
	if err != nil {
		return nil, collErrf(c, nil, nil, err, "invalid stored key")
	}
	return key, nil
}

func checkStoredKey(key keycoder.Key) error {
	if endsWithSentinel(key) {
		return errors.Wrap(keycoder.ErrMalformedSentinelPlacement, "the range sentinel cannot be stored")
	}
	return nil
}
