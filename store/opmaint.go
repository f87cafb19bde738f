package store

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/andreyvit/keycoder"
)

// RebuildIndex drops every entry of idx and recomputes them from the stored
// rows. Each row is decoded as a T and handed to the IndexFunc, so T should be
// the type Put is called with. Use it after adding an index to a collection
// that already has data, or after changing what an IndexFunc returns.
func RebuildIndex[T any](tx *Tx, idx *Index) error {
	if err := tx.check(true); err != nil {
		return err
	}
	c := idx.coll

	stale, err := tx.rawKeys(idx.prefix)
	if err != nil {
		return err
	}
	for _, k := range stale {
		if err := tx.stx.Delete(k); err != nil {
			return err
		}
	}

	type row struct {
		key keycoder.Key
		raw []byte
	}
	var rows []row
	cur := tx.Scan(c, OO())
	for cur.Next() {
		rows = append(rows, row{cur.Key(), bytes.Clone(cur.value)})
	}
	cur.Close()
	if err := cur.Err(); err != nil {
		return err
	}

	for _, r := range rows {
		var rec record
		if err := rec.decode(r.raw); err != nil {
			return collErrf(c, nil, r.key, err, "decoding value")
		}
		var val T
		if err := rec.Flags.encoding().decodeValue(rec.Data, &val); err != nil {
			return collErrf(c, nil, r.key, err, "decoding value")
		}

		ib := makeIndexBuilder(r.key)
		err := decodeIndexKeys(rec.Index, func(k []byte) {
			if !bytes.HasPrefix(k, idx.prefix) {
				ib.keep(k)
			}
		})
		if err != nil {
			return collErrf(c, nil, r.key, err, "decoding index keys")
		}
		if err := ib.add(idx, val); err != nil {
			return err
		}
		indexKeys := ib.finalize()

		keyRaw, err := c.dataKey(r.key)
		if err != nil {
			return err
		}
		if err := tx.stx.Put(keyRaw, reencodeRecord(&rec, indexKeys)); err != nil {
			return err
		}
		for _, k := range indexKeys {
			if bytes.HasPrefix(k, idx.prefix) {
				if err := tx.stx.Put(k, emptyIndexValue); err != nil {
					return err
				}
			}
		}
	}

	tx.db.logger.LogAttrs(context.Background(), slog.LevelInfo, "index rebuilt", slog.String("index", idx.FullName()), slog.Int("rows", len(rows)), slog.Int("dropped", len(stale)))
	return nil
}

// rawKeys returns copies of every physical key starting with prefix.
func (tx *Tx) rawKeys(prefix []byte) ([][]byte, error) {
	rang := rawRange{lower: prefix, upper: keycoder.NextGreater(prefix)}
	if rang.upper == nil {
		panic("rawKeys: unbounded prefix")
	}
	bcur, err := tx.stx.Cursor()
	if err != nil {
		return nil, err
	}
	defer bcur.Close()

	var keys [][]byte
	for k, _ := rang.start(bcur, tx.db.logger); k != nil; k, _ = rang.next(bcur, tx.db.logger) {
		keys = append(keys, bytes.Clone(k))
	}
	return keys, nil
}
