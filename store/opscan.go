package store

import "github.com/andreyvit/keycoder"

// Scan iterates the rows of c whose primary keys fall within r.
func (tx *Tx) Scan(c *Collection, r Range) *Cursor {
	return tx.newCursor(c, nil, r)
}

// Lookup iterates the entries of idx whose index keys fall within r, yielding
// the rows they point to. Rows come in index key order, then primary key order.
func (tx *Tx) Lookup(idx *Index, r Range) *Cursor {
	return tx.newCursor(idx.coll, idx, r)
}

// Count returns the number of rows of c within r.
func (tx *Tx) Count(c *Collection, r Range) (int, error) {
	return tx.countRaw(c, nil, r)
}

// CountIndex returns the number of entries of idx within r.
func (tx *Tx) CountIndex(idx *Index, r Range) (int, error) {
	return tx.countRaw(idx.coll, idx, r)
}

func (tx *Tx) countRaw(c *Collection, idx *Index, r Range) (int, error) {
	if err := tx.check(false); err != nil {
		return 0, err
	}
	base := c.prefix
	if idx != nil {
		base = idx.prefix
	}
	rang, err := r.compile(base, idx != nil)
	if err != nil {
		return 0, collErrf(c, idx, nil, err, "invalid range")
	}
	bcur, err := tx.stx.Cursor()
	if err != nil {
		return 0, err
	}
	defer bcur.Close()

	var n int
	for k, _ := rang.start(bcur, tx.db.logger); k != nil; k, _ = rang.next(bcur, tx.db.logger) {
		n++
	}
	return n, nil
}

// Keys returns the primary keys of the rows of c within r.
func (tx *Tx) Keys(c *Collection, r Range) ([]keycoder.Key, error) {
	var keys []keycoder.Key
	cur := tx.Scan(c, r)
	defer cur.Close()
	for cur.Next() {
		keys = append(keys, cur.Key())
	}
	return keys, cur.Err()
}

// All decodes every row of c within r into a slice.
func All[T any](tx *Tx, c *Collection, r Range) ([]T, error) {
	var result []T
	cur := tx.Scan(c, r)
	defer cur.Close()
	for cur.Next() {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, cur.Err()
}
