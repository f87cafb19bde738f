package store

import (
	"github.com/cockroachdb/errors"
	"go.etcd.io/bbolt"
)

// rootBucket holds the whole keyspace; the physical keys already separate
// collections and indexes.
var rootBucket = []byte("keycoder")

type boltStorage struct {
	bdb *bbolt.DB
}

func openBoltStorage(path string, opt Options) (storage, error) {
	bopt := *bbolt.DefaultOptions
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.InitialMmapSize = 1024 * 1024 * 256
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, &bopt)
	if err != nil {
		return nil, errors.Wrapf(err, "bolt: open %s", path)
	}
	err = bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(rootBucket)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, errors.Wrap(err, "bolt: create root bucket")
	}
	return &boltStorage{bdb: bdb}, nil
}

func (s *boltStorage) BeginTx(writable bool) (storageTx, error) {
	btx, err := s.bdb.Begin(writable)
	if err != nil {
		if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
			return nil, ErrClosed
		}
		return nil, err
	}
	return &boltStorageTx{btx: btx, b: btx.Bucket(rootBucket)}, nil
}

func (s *boltStorage) Close() error {
	return s.bdb.Close()
}

type boltStorageTx struct {
	btx *bbolt.Tx
	b   *bbolt.Bucket
}

func (tx *boltStorageTx) Writable() bool { return tx.btx.Writable() }

func (tx *boltStorageTx) Get(key []byte) ([]byte, error) {
	return tx.b.Get(key), nil
}

func (tx *boltStorageTx) Put(key, value []byte) error {
	if !tx.btx.Writable() {
		return ErrReadOnly
	}
	return tx.b.Put(key, value)
}

func (tx *boltStorageTx) Delete(key []byte) error {
	if !tx.btx.Writable() {
		return ErrReadOnly
	}
	return tx.b.Delete(key)
}

func (tx *boltStorageTx) Cursor() (storageCursor, error) {
	return boltCursor{c: tx.b.Cursor()}, nil
}

func (tx *boltStorageTx) Commit() error {
	err := tx.btx.Commit()
	if errors.Is(err, bbolt.ErrTxClosed) {
		return ErrClosed
	}
	return err
}

func (tx *boltStorageTx) Rollback() error {
	err := tx.btx.Rollback()
	if errors.Is(err, bbolt.ErrTxClosed) {
		return nil
	}
	return err
}

func (tx *boltStorageTx) Size() int64 { return tx.btx.Size() }

type boltCursor struct {
	c *bbolt.Cursor
}

func (c boltCursor) First() ([]byte, []byte) { return c.c.First() }

func (c boltCursor) Last() ([]byte, []byte) { return c.c.Last() }

func (c boltCursor) Seek(seek []byte) ([]byte, []byte) { return c.c.Seek(seek) }

func (c boltCursor) SeekBefore(limit []byte) ([]byte, []byte) {
	k, _ := c.c.Seek(limit)
	if k == nil {
		return c.c.Last()
	}
	return c.c.Prev()
}

func (c boltCursor) Next() ([]byte, []byte) { return c.c.Next() }

func (c boltCursor) Prev() ([]byte, []byte) { return c.c.Prev() }

func (c boltCursor) Close() error { return nil }
