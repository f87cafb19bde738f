package store

import (
	"context"
	"log/slog"

	"github.com/andreyvit/keycoder"
)

// Delete removes the row stored under key together with its index entries,
// and reports whether there was one.
func (tx *Tx) Delete(c *Collection, key keycoder.Key) (bool, error) {
	if err := tx.check(true); err != nil {
		return false, err
	}
	keyRaw, err := c.dataKey(key)
	if err != nil {
		return false, err
	}
	raw, err := tx.stx.Get(keyRaw)
	if err != nil || raw == nil {
		return false, err
	}

	var old record
	if err := old.decode(raw); err != nil {
		return false, collErrf(c, nil, key, err, "decoding old value")
	}
	var delErr error
	err = decodeIndexKeys(old.Index, func(k []byte) {
		if delErr == nil {
			delErr = tx.stx.Delete(k)
		}
	})
	if err != nil {
		return false, collErrf(c, nil, key, err, "decoding old index keys")
	}
	if delErr != nil {
		return false, delErr
	}

	if tx.db.verbose {
		tx.db.logger.LogAttrs(context.Background(), slog.LevelDebug, "DELETE", slog.String("coll", c.name), slog.String("key", key.String()))
	}
	if err := tx.stx.Delete(keyRaw); err != nil {
		return false, err
	}
	tx.db.WriteCount.Add(1)
	return true, nil
}

// DeleteRange removes every row of c within r and returns how many there were.
func (tx *Tx) DeleteRange(c *Collection, r Range) (int, error) {
	if err := tx.check(true); err != nil {
		return 0, err
	}
	var keys []keycoder.Key
	cur := tx.Scan(c, r)
	for cur.Next() {
		keys = append(keys, cur.Key())
	}
	cur.Close()
	if err := cur.Err(); err != nil {
		return 0, err
	}
	for _, key := range keys {
		if _, err := tx.Delete(c, key); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}
