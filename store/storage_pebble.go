package store

import (
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

type pebbleStorage struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions

	// Pebble batches don't detect conflicts, so writers take turns.
	writeLock sync.Mutex
}

// openPebbleStorage opens a Pebble database at path, or a transient in-memory
// one if path is empty.
func openPebbleStorage(path string, opt Options) (storage, error) {
	popt := &pebble.Options{}
	if path == "" {
		popt.FS = vfs.NewMem()
	}
	writeOpts := pebble.Sync
	if opt.IsTesting {
		popt.DisableWAL = true
		writeOpts = pebble.NoSync
	}

	db, err := pebble.Open(path, popt)
	if err != nil {
		return nil, errors.Wrapf(err, "pebble: open %q", path)
	}
	return &pebbleStorage{db: db, writeOpts: writeOpts}, nil
}

func (s *pebbleStorage) BeginTx(writable bool) (storageTx, error) {
	if writable {
		s.writeLock.Lock()
		return &pebbleTx{s: s, batch: s.db.NewIndexedBatch()}, nil
	}
	return &pebbleTx{s: s, snap: s.db.NewSnapshot()}, nil
}

func (s *pebbleStorage) Close() error {
	return s.db.Close()
}

// pebbleTx reads and writes through an indexed batch when writable, and
// through a snapshot otherwise.
type pebbleTx struct {
	s      *pebbleStorage
	batch  *pebble.Batch
	snap   *pebble.Snapshot
	closed bool
}

func (tx *pebbleTx) Writable() bool { return tx.batch != nil }

func (tx *pebbleTx) Get(key []byte) ([]byte, error) {
	if tx.closed {
		return nil, ErrClosed
	}
	var (
		value  []byte
		closer io.Closer
		err    error
	)
	if tx.batch != nil {
		value, closer, err = tx.batch.Get(key)
	} else {
		value, closer, err = tx.snap.Get(key)
	}
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, closer.Close()
}

func (tx *pebbleTx) Put(key, value []byte) error {
	if tx.closed {
		return ErrClosed
	}
	if tx.batch == nil {
		return ErrReadOnly
	}
	return tx.batch.Set(key, value, nil)
}

func (tx *pebbleTx) Delete(key []byte) error {
	if tx.closed {
		return ErrClosed
	}
	if tx.batch == nil {
		return ErrReadOnly
	}
	return tx.batch.Delete(key, nil)
}

func (tx *pebbleTx) Cursor() (storageCursor, error) {
	if tx.closed {
		return nil, ErrClosed
	}
	var it *pebble.Iterator
	var err error
	if tx.batch != nil {
		it, err = tx.batch.NewIter(nil)
	} else {
		it, err = tx.snap.NewIter(nil)
	}
	if err != nil {
		return nil, err
	}
	return &pebbleCursor{it: it}, nil
}

func (tx *pebbleTx) Commit() error {
	if tx.closed {
		return ErrClosed
	}
	if tx.batch == nil {
		return ErrReadOnly
	}
	err := tx.batch.Commit(tx.s.writeOpts)
	tx.release()
	return err
}

func (tx *pebbleTx) Rollback() error {
	if tx.closed {
		return nil
	}
	return tx.release()
}

func (tx *pebbleTx) release() error {
	tx.closed = true
	if tx.batch != nil {
		err := tx.batch.Close()
		tx.s.writeLock.Unlock()
		return err
	}
	return tx.snap.Close()
}

func (tx *pebbleTx) Size() int64 {
	return int64(tx.s.db.Metrics().DiskSpaceUsage())
}

type pebbleCursor struct {
	it *pebble.Iterator
}

func (c *pebbleCursor) current(valid bool) ([]byte, []byte) {
	if !valid {
		return nil, nil
	}
	return c.it.Key(), c.it.Value()
}

func (c *pebbleCursor) First() ([]byte, []byte) { return c.current(c.it.First()) }

func (c *pebbleCursor) Last() ([]byte, []byte) { return c.current(c.it.Last()) }

func (c *pebbleCursor) Seek(seek []byte) ([]byte, []byte) { return c.current(c.it.SeekGE(seek)) }

func (c *pebbleCursor) SeekBefore(limit []byte) ([]byte, []byte) {
	return c.current(c.it.SeekLT(limit))
}

func (c *pebbleCursor) Next() ([]byte, []byte) { return c.current(c.it.Next()) }

func (c *pebbleCursor) Prev() ([]byte, []byte) { return c.current(c.it.Prev()) }

func (c *pebbleCursor) Close() error { return c.it.Close() }
