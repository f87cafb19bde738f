package store

type CollectionStats struct {
	Rows      int
	IndexRows int

	DataSize  int
	IndexSize int
}

func (cs *CollectionStats) TotalSize() int {
	return cs.DataSize + cs.IndexSize
}

// CollectionStats counts the rows and index entries of c and the bytes their
// keys and values take up.
func (tx *Tx) CollectionStats(c *Collection) (CollectionStats, error) {
	var result CollectionStats
	if err := tx.check(false); err != nil {
		return result, err
	}

	err := tx.walkPrefix(c.prefix, func(k, v []byte) {
		result.Rows++
		result.DataSize += len(k) + len(v)
	})
	if err != nil {
		return result, err
	}
	for _, idx := range c.indexes {
		err := tx.walkPrefix(idx.prefix, func(k, v []byte) {
			result.IndexRows++
			result.IndexSize += len(k) + len(v)
		})
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

func (tx *Tx) walkPrefix(prefix []byte, f func(k, v []byte)) error {
	rang, err := Range{}.compile(prefix, false)
	if err != nil {
		return err
	}
	bcur, err := tx.stx.Cursor()
	if err != nil {
		return err
	}
	defer bcur.Close()
	for k, v := rang.start(bcur, tx.db.logger); k != nil; k, v = rang.next(bcur, tx.db.logger) {
		f(k, v)
	}
	return nil
}
