package store

import (
	"context"
	"log/slog"

	"github.com/andreyvit/keycoder"
)

// Get decodes the value stored under key into out and reports whether it was
// found. out is left untouched if it wasn't.
func (tx *Tx) Get(c *Collection, key keycoder.Key, out any) (bool, error) {
	if err := tx.check(false); err != nil {
		return false, err
	}
	keyRaw, err := c.dataKey(key)
	if err != nil {
		return false, err
	}
	raw, err := tx.stx.Get(keyRaw)
	if err != nil {
		return false, err
	}
	tx.db.ReadCount.Add(1)
	if raw == nil {
		return false, nil
	}
	if err := decodeRow(c, key, raw, out); err != nil {
		return true, err
	}
	return true, nil
}

// Exists reports whether key is present in c.
func (tx *Tx) Exists(c *Collection, key keycoder.Key) (bool, error) {
	if err := tx.check(false); err != nil {
		return false, err
	}
	keyRaw, err := c.dataKey(key)
	if err != nil {
		return false, err
	}
	raw, err := tx.stx.Get(keyRaw)
	return raw != nil, err
}

// Fetch is a typed form of Tx.Get.
func Fetch[T any](tx *Tx, c *Collection, key keycoder.Key) (T, bool, error) {
	var v T
	found, err := tx.Get(c, key, &v)
	if err != nil && tx.db.verbose {
		tx.db.logger.LogAttrs(context.Background(), slog.LevelDebug, "GET.FAILED", slog.String("coll", c.name), slog.String("key", key.String()), slog.Any("err", err))
	}
	return v, found, err
}
