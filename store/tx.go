package store

import (
	"fmt"
	"runtime/debug"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
)

type Tx struct {
	db       *DB
	stx      storageTx
	writable bool
	closed   bool

	startTime time.Time
	stack     []byte

	cursors []*Cursor
	memo    map[string]any
}

// Begin starts a transaction. It must be finished with Commit or Rollback;
// Update and View do that automatically.
func (db *DB) Begin(writable bool) (*Tx, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}
	stx, err := db.st.BeginTx(writable)
	if err != nil {
		return nil, errors.Wrap(err, "store: begin")
	}
	tx := &Tx{
		db:        db,
		stx:       stx,
		writable:  writable,
		startTime: time.Now(),
	}
	if trackTxns {
		tx.stack = debug.Stack()
	}
	db.addTx(tx)
	if writable {
		db.WriterCount.Add(1)
	} else {
		db.ReaderCount.Add(1)
	}
	return tx, nil
}

// Update runs f in a writable transaction and commits it if f returns nil.
// An error or a panic in f rolls the transaction back; the panic is returned
// as an error.
func (db *DB) Update(f func(tx *Tx) error) error {
	tx, err := db.Begin(true)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := safelyCall(f, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// View runs f in a read-only transaction.
func (db *DB) View(f func(tx *Tx) error) error {
	tx, err := db.Begin(false)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return safelyCall(f, tx)
}

type panicked struct {
	reason any
	stack  string
}

func (p panicked) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", p.reason, p.stack)
}

func safelyCall(fn func(*Tx) error, tx *Tx) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicked{p, string(debug.Stack())}
		}
	}()
	return fn(tx)
}

func (tx *Tx) DB() *DB {
	return tx.db
}

func (tx *Tx) IsWritable() bool {
	return tx.writable
}

// Size returns the size of the database as seen by this transaction's engine.
func (tx *Tx) Size() int64 {
	return tx.stx.Size()
}

func (tx *Tx) check(write bool) error {
	if tx.closed {
		return ErrClosed
	}
	if write && !tx.writable {
		return ErrReadOnly
	}
	return nil
}

func (tx *Tx) addCursor(c *Cursor) {
	tx.cursors = append(tx.cursors, c)
}

func (tx *Tx) removeCursor(c *Cursor) {
	if i := slices.Index(tx.cursors, c); i >= 0 {
		tx.cursors = slices.Delete(tx.cursors, i, i+1)
	}
}

func (tx *Tx) closeCursors() {
	for len(tx.cursors) > 0 {
		tx.cursors[len(tx.cursors)-1].Close()
	}
}

// Commit commits a writable transaction.
func (tx *Tx) Commit() error {
	if err := tx.check(true); err != nil {
		return err
	}
	tx.closeCursors()
	err := tx.stx.Commit()
	tx.finish()
	if err != nil {
		return errors.Wrap(err, "store: commit")
	}
	return nil
}

// Rollback discards the transaction. Calling it after Commit is a no-op, so it
// can be deferred.
func (tx *Tx) Rollback() error {
	if tx.closed {
		return nil
	}
	tx.closeCursors()
	err := tx.stx.Rollback()
	tx.finish()
	return err
}

func (tx *Tx) finish() {
	tx.closed = true
	tx.db.removeTx(tx)
	if tx.writable {
		tx.db.WriterCount.Add(-1)
	} else {
		tx.db.ReaderCount.Add(-1)
	}
}

// Memo caches the result of f under key for the rest of the transaction.
// Errors are cached too.
func (tx *Tx) Memo(key string, f func() (any, error)) (any, error) {
	v, found := tx.memo[key]
	if found {
		if e, ok := v.(error); ok {
			return nil, e
		}
		return v, nil
	}

	if tx.memo == nil {
		tx.memo = make(map[string]any)
	}

	v, err := f()
	if err != nil {
		tx.memo[key] = err
	} else {
		tx.memo[key] = v
	}
	return v, err
}

// Memo is a typed form of Tx.Memo.
func Memo[T any](tx *Tx, key string, f func() (T, error)) (T, error) {
	v, err := tx.Memo(key, func() (any, error) {
		return f()
	})
	t, _ := v.(T) // nil when f returned a nil interface
	return t, err
}
