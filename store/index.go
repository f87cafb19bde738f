package store

import (
	"bytes"
	"slices"

	"github.com/andreyvit/keycoder"
)

// Index is a secondary index over a collection. Each entry maps an index key
// to the primary key of a row; several rows may share an index key.
type Index struct {
	coll   *Collection
	name   string
	fn     IndexFunc
	pos    int
	prefix []byte
}

func (idx *Index) Name() string {
	return idx.name
}

func (idx *Index) Collection() *Collection {
	return idx.coll
}

// FullName returns "collection.index".
func (idx *Index) FullName() string {
	return idx.coll.name + "." + idx.name
}

// entryKey returns the physical key of an index entry. Both keys are nested,
// so entries sort by index key first and bounds on index keys of any length
// stay exact.
func (idx *Index) entryKey(indexKey, primaryKey keycoder.Key) ([]byte, error) {
	if err := checkStoredKey(indexKey); err != nil {
		return nil, err
	}
	return keycoder.AppendKey(slices.Clip(idx.prefix), keycoder.Key{keycoder.Nested(indexKey), keycoder.Nested(primaryKey)})
}

// indexBuilder collects the physical index keys of one row.
type indexBuilder struct {
	key     keycoder.Key
	entries [][]byte
}

func makeIndexBuilder(key keycoder.Key) indexBuilder {
	return indexBuilder{key: key}
}

func (b *indexBuilder) add(idx *Index, val any) error {
	for _, ik := range idx.fn(b.key, val) {
		raw, err := idx.entryKey(ik, b.key)
		if err != nil {
			return collErrf(idx.coll, idx, b.key, err, "invalid index key %v", ik)
		}
		b.entries = append(b.entries, raw)
	}
	return nil
}

func (b *indexBuilder) addAll(c *Collection, val any) error {
	for _, idx := range c.indexes {
		if err := b.add(idx, val); err != nil {
			return err
		}
	}
	return nil
}

// keep adds raw entries verbatim, e.g. entries of other indexes carried over
// from an existing record.
func (b *indexBuilder) keep(raw []byte) {
	b.entries = append(b.entries, bytes.Clone(raw))
}

// finalize sorts and deduplicates the entries.
func (b *indexBuilder) finalize() [][]byte {
	slices.SortFunc(b.entries, bytes.Compare)
	return slices.CompactFunc(b.entries, bytes.Equal)
}
