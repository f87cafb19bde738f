package store

import (
	"bytes"
	"encoding/binary"

	"github.com/andreyvit/keycoder"
)

// appendIndexKeys appends a uvarint count followed by each key as uvarint
// length + bytes. keys must be sorted.
func appendIndexKeys(buf []byte, keys [][]byte) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(keys)))
	for _, k := range keys {
		buf = binary.AppendUvarint(buf, uint64(len(k)))
		buf = append(buf, k...)
	}
	return buf
}

// decodeIndexKeys calls f with every key recorded by appendIndexKeys. The keys
// alias data.
func decodeIndexKeys(data []byte, f func(key []byte)) error {
	orig := data
	n, c := binary.Uvarint(data)
	if c <= 0 {
		return recordErrf(orig, 0, "invalid index keys: bad count")
	}
	data = data[c:]
	for i := uint64(0); i < n; i++ {
		size, c := binary.Uvarint(data)
		if c <= 0 || size > uint64(len(data)-c) {
			return recordErrf(orig, len(orig)-len(data), "invalid index keys: bad key %d of %d", i, n)
		}
		data = data[c:]
		f(data[:size:size])
		data = data[size:]
	}
	if len(data) != 0 {
		return recordErrf(orig, len(orig)-len(data), "invalid index keys: %d trailing bytes", len(data))
	}
	return nil
}

type indexDiffer struct {
	newKeys [][]byte
}

// checkOldKey reports whether oldKey is still among the new keys. Old keys
// must be fed in ascending order.
func (d *indexDiffer) checkOldKey(oldKey []byte) bool {
	// Look for a new key that's >= old key.
	for len(d.newKeys) > 0 {
		c := bytes.Compare(oldKey, d.newKeys[0])
		if c < 0 {
			return false
		} else if c == 0 {
			return true // found exact match
		}
		d.newKeys = d.newKeys[1:] // shift to next new key and compare again
	}
	return false // no more new keys, so remaining old keys have been deleted
}

func findRemovedIndexKeys(oldData []byte, newKeys [][]byte, removed func(key []byte)) error {
	d := indexDiffer{newKeys}
	return decodeIndexKeys(oldData, func(key []byte) {
		if !d.checkOldKey(key) {
			removed(key)
		}
	})
}

// splitIndexEntry splits the physical key of an index entry into the index
// key and the primary key of the row it points to.
func splitIndexEntry(idx *Index, raw []byte) (indexKey, primaryKey keycoder.Key, err error) {
	tail, err := keycoder.DecodeKey(raw[len(idx.prefix):])
	if err != nil {
		return nil, nil, err
	}
	if len(tail) != 2 || tail[0].Kind() != keycoder.KindKey || tail[1].Kind() != keycoder.KindKey {
		return nil, nil, recordErrf(raw, len(idx.prefix), "index entry is not a nested index key followed by a nested primary key")
	}
	return tail[0].Key(), tail[1].Key(), nil
}
