package store

import (
	"github.com/andreyvit/keycoder"
	"github.com/cockroachdb/errors"
)

// Cursor walks the rows selected by Tx.Scan or Tx.Lookup:
//
//	c := tx.Scan(users, store.Prefix(keycoder.MustKey("eu")))
//	defer c.Close()
//	for c.Next() {
//		var u User
//		if err := c.Decode(&u); err != nil {
//			return err
//		}
//	}
//	return c.Err()
//
// A Cursor is only valid until the end of its transaction. Writing to the
// transaction while a cursor is open is not supported: Memory and Pebble
// cursors keep the view they were opened on, while Bolt cursors see the writes
// and may skip or repeat rows. Collect the keys first, as DeleteRange does.
type Cursor struct {
	tx   *Tx
	coll *Collection
	idx  *Index
	rang rawRange
	bcur storageCursor

	init   bool
	closed bool
	err    error

	raw      []byte // physical key of the current row or index entry
	value    []byte // record of the current row
	key      keycoder.Key
	indexKey keycoder.Key
}

func (tx *Tx) newCursor(c *Collection, idx *Index, r Range) *Cursor {
	cur := &Cursor{tx: tx, coll: c, idx: idx}
	if err := tx.check(false); err != nil {
		cur.fail(err)
		return cur
	}
	base := c.prefix
	if idx != nil {
		base = idx.prefix
	}
	rang, err := r.compile(base, idx != nil)
	if err != nil {
		cur.fail(collErrf(c, idx, nil, err, "invalid range"))
		return cur
	}
	cur.rang = rang
	cur.bcur, cur.err = tx.stx.Cursor()
	if cur.err != nil {
		cur.closed = true
	} else {
		tx.addCursor(cur)
	}
	return cur
}

func (c *Cursor) fail(err error) {
	c.err = err
	c.closed = true
}

// Next advances to the next row and reports whether there is one. It returns
// false at the end of the range and on errors; check Err afterwards.
//
// An index entry that points to a missing row is an ErrCorruptRecord error in
// strict (testing) mode, and is logged and skipped otherwise.
func (c *Cursor) Next() bool {
	if c.closed {
		return false
	}
	logger := c.tx.db.logger
	for {
		var k, v []byte
		if c.init {
			k, v = c.rang.next(c.bcur, logger)
		} else {
			c.init = true
			k, v = c.rang.start(c.bcur, logger)
		}
		if k == nil {
			c.raw, c.value, c.key, c.indexKey = nil, nil, nil, nil
			return false
		}
		c.raw = k

		if c.idx == nil {
			key, err := c.coll.decodeDataKey(k)
			if err != nil {
				c.err = err
				return false
			}
			c.key, c.value = key, v
			return true
		}

		indexKey, key, err := splitIndexEntry(c.idx, k)
		if err != nil {
			c.err = collErrf(c.coll, c.idx, nil, err, "invalid index entry")
			return false
		}
		dk, err := c.coll.dataKey(key)
		if err != nil {
			c.err = err
			return false
		}
		value, err := c.tx.stx.Get(dk)
		if err != nil {
			c.err = err
			return false
		}
		if value == nil {
			if c.tx.db.strict {
				c.err = collErrf(c.coll, c.idx, key, ErrCorruptRecord, "index entry %v points to a missing row", indexKey)
				return false
			}
			logger.Warn("index entry points to a missing row", "index", c.idx.FullName(), "index_key", indexKey.String(), "key", key.String())
			continue
		}
		c.key, c.indexKey, c.value = key, indexKey, value
		return true
	}
}

// Key returns the primary key of the current row.
func (c *Cursor) Key() keycoder.Key {
	return c.key
}

// IndexKey returns the index key of the current entry when iterating an
// index, and nil otherwise.
func (c *Cursor) IndexKey() keycoder.Key {
	return c.indexKey
}

// RawKey returns the physical key of the current row or index entry. It is only
// valid until the next call to Next.
func (c *Cursor) RawKey() []byte {
	return c.raw
}

// Decode decodes the value of the current row into out.
func (c *Cursor) Decode(out any) error {
	if c.value == nil {
		return errors.New("Decode called without a current row")
	}
	return decodeRow(c.coll, c.key, c.value, out)
}

func (c *Cursor) Err() error {
	return c.err
}

// Close releases the cursor. Closing twice is fine. Transactions close their
// remaining cursors when they end.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.tx.removeCursor(c)
	return c.bcur.Close()
}

func decodeRow(c *Collection, key keycoder.Key, raw []byte, out any) error {
	var rec record
	if err := rec.decode(raw); err != nil {
		return collErrf(c, nil, key, err, "")
	}
	if err := rec.Flags.encoding().decodeValue(rec.Data, out); err != nil {
		return collErrf(c, nil, key, err, "")
	}
	return nil
}
