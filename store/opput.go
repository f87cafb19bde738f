package store

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/andreyvit/keycoder"
)

// Put stores val under key in collection c, replacing any previous value, and
// updates every index of c.
func (tx *Tx) Put(c *Collection, key keycoder.Key, val any) error {
	if err := tx.check(true); err != nil {
		return err
	}
	keyRaw, err := c.dataKey(key)
	if err != nil {
		return err
	}

	ib := makeIndexBuilder(key)
	if err := ib.addAll(c, val); err != nil {
		return err
	}
	indexKeys := ib.finalize()

	valueRaw, err := encodeRecord(c.enc, val, indexKeys)
	if err != nil {
		return collErrf(c, nil, key, err, "encoding value")
	}

	oldValueRaw, err := tx.stx.Get(keyRaw)
	if err != nil {
		return err
	}
	if oldValueRaw != nil {
		var old record
		if err := old.decode(oldValueRaw); err != nil {
			return collErrf(c, nil, key, err, "decoding old value")
		}
		if bytes.Equal(valueRaw, oldValueRaw) {
			if tx.db.verbose {
				tx.db.logger.LogAttrs(context.Background(), slog.LevelDebug, "PUT.NOOP", slog.String("coll", c.name), slog.String("key", key.String()))
			}
			return nil
		}
		var delErr error
		err = findRemovedIndexKeys(old.Index, indexKeys, func(k []byte) {
			if delErr == nil {
				delErr = tx.stx.Delete(k)
			}
		})
		if err != nil {
			return collErrf(c, nil, key, err, "decoding old index keys")
		}
		if delErr != nil {
			return delErr
		}
	}

	if tx.db.verbose {
		tx.db.logger.LogAttrs(context.Background(), slog.LevelDebug, "PUT", slog.String("coll", c.name), slog.String("key", key.String()), slog.Int("size", len(valueRaw)), slog.Int("index_keys", len(indexKeys)))
	}
	if err := tx.stx.Put(keyRaw, valueRaw); err != nil {
		return err
	}
	for _, k := range indexKeys {
		if err := tx.stx.Put(k, emptyIndexValue); err != nil {
			return err
		}
	}
	tx.db.WriteCount.Add(1)
	return nil
}

var emptyIndexValue = []byte{}
