package store

import (
	"bytes"
	"slices"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

type memStorage struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []memKV // sorted by key; replaced wholesale on commit
	closed bool
	writer bool
}

// newMemStorage returns a transient in-memory storage intended for tests.
func newMemStorage() storage {
	s := &memStorage{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *memStorage) BeginTx(writable bool) (storageTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if writable {
		for s.writer && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			return nil, ErrClosed
		}
		s.writer = true
	}

	// Committed item lists are never mutated, so readers share them as-is and
	// a writer works on a private copy.
	items := s.items
	if writable {
		items = slices.Clone(items)
	}
	return &memTx{
		writable: writable,
		base:     s,
		items:    items,
	}, nil
}

func (s *memStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.items = nil
	if s.cond != nil {
		s.cond.Broadcast()
	}
	return nil
}

type memTx struct {
	base     *memStorage
	writable bool
	items    []memKV
	closed   bool

	// shared is set while cursors may hold items; the next write copies it.
	shared bool
}

type memKV struct {
	key   []byte
	value []byte
}

func (tx *memTx) Writable() bool { return tx.writable }

func (tx *memTx) closeLocked() {
	if tx.closed {
		return
	}
	tx.closed = true
	if tx.writable {
		tx.base.writer = false
		tx.base.cond.Broadcast()
	}
}

func (tx *memTx) find(key []byte) (idx int, ok bool) {
	return findItem(tx.items, key)
}

func findItem(items []memKV, key []byte) (idx int, ok bool) {
	i := sort.Search(len(items), func(i int) bool {
		return bytes.Compare(items[i].key, key) >= 0
	})
	if i < len(items) && bytes.Equal(items[i].key, key) {
		return i, true
	}
	return i, false
}

func (tx *memTx) Get(key []byte) ([]byte, error) {
	if tx.closed {
		return nil, ErrClosed
	}
	i, ok := tx.find(key)
	if !ok {
		return nil, nil
	}
	return tx.items[i].value, nil
}

func (tx *memTx) Put(key, value []byte) error {
	if tx.closed {
		return ErrClosed
	}
	if !tx.writable {
		return ErrReadOnly
	}
	tx.unshare()
	kv := memKV{key: bytes.Clone(key), value: bytes.Clone(value)}
	i, ok := tx.find(key)
	if ok {
		tx.items[i] = kv
		return nil
	}
	tx.items = slices.Insert(tx.items, i, kv)
	return nil
}

func (tx *memTx) Delete(key []byte) error {
	if tx.closed {
		return ErrClosed
	}
	if !tx.writable {
		return ErrReadOnly
	}
	i, ok := tx.find(key)
	if !ok {
		return nil
	}
	tx.unshare()
	tx.items = slices.Delete(tx.items, i, i+1)
	return nil
}

func (tx *memTx) Cursor() (storageCursor, error) {
	if tx.closed {
		return nil, ErrClosed
	}
	tx.shared = true
	return &memCursor{items: tx.items, pos: -1}, nil
}

func (tx *memTx) unshare() {
	if tx.shared {
		tx.items = slices.Clone(tx.items)
		tx.shared = false
	}
}

func (tx *memTx) Commit() error {
	if tx.closed {
		return ErrClosed
	}
	if !tx.writable {
		return ErrReadOnly
	}
	tx.base.mu.Lock()
	defer tx.base.mu.Unlock()
	if tx.base.closed {
		tx.closeLocked()
		return errors.Wrap(ErrClosed, "commit")
	}
	tx.base.items = tx.items
	tx.closeLocked()
	return nil
}

func (tx *memTx) Rollback() error {
	tx.base.mu.Lock()
	defer tx.base.mu.Unlock()
	tx.closeLocked()
	return nil
}

func (tx *memTx) Size() int64 {
	var n int64
	for _, kv := range tx.items {
		n += int64(len(kv.key) + len(kv.value))
	}
	return n
}

// memCursor iterates the items of its transaction as of the moment it was
// opened. Later writes through the transaction are not visible to it.
type memCursor struct {
	items []memKV
	pos   int
}

func (c *memCursor) at(i int) ([]byte, []byte) {
	items := c.items
	if i < 0 {
		c.pos = -1
		return nil, nil
	}
	if i >= len(items) {
		c.pos = len(items)
		return nil, nil
	}
	c.pos = i
	return items[i].key, items[i].value
}

func (c *memCursor) First() ([]byte, []byte) {
	return c.at(0)
}

func (c *memCursor) Last() ([]byte, []byte) {
	return c.at(len(c.items) - 1)
}

func (c *memCursor) Seek(seek []byte) ([]byte, []byte) {
	i, _ := findItem(c.items, seek)
	return c.at(i)
}

func (c *memCursor) SeekBefore(limit []byte) ([]byte, []byte) {
	i, _ := findItem(c.items, limit)
	return c.at(i - 1)
}

func (c *memCursor) Next() ([]byte, []byte) {
	if c.pos >= len(c.items) {
		return nil, nil
	}
	return c.at(c.pos + 1)
}

func (c *memCursor) Prev() ([]byte, []byte) {
	if c.pos < 0 {
		return nil, nil
	}
	return c.at(c.pos - 1)
}

func (c *memCursor) Close() error {
	return nil
}
