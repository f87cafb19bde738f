package store

// storage is an ordered key-value engine (Bolt, Pebble, in-memory). The store
// keeps every collection and index in one flat keyspace; the physical keys are
// keycoder encodings, so the engine only has to sort by bytes.Compare.
type storage interface {
	// BeginTx starts a new transaction. Implementations allow any number of
	// readers and at most one writer at a time.
	BeginTx(writable bool) (storageTx, error)
	// Close closes the storage.
	Close() error
}

// storageTx represents a storage transaction.
type storageTx interface {
	// Writable returns true if this is a writable transaction.
	Writable() bool

	// Get retrieves a value by key. Returns nil if not found. The result is
	// only valid until the end of the transaction.
	Get(key []byte) ([]byte, error)

	// Put stores a key-value pair.
	Put(key, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(key []byte) error

	// Cursor returns a cursor for iteration. Cursors must be closed before
	// the transaction ends.
	Cursor() (storageCursor, error)

	// Commit commits the transaction.
	Commit() error

	// Rollback aborts the transaction. It should be safe to call multiple times,
	// including after Commit.
	Rollback() error

	// Size returns the database size in bytes (0 if unknown / not applicable).
	Size() int64
}

// storageCursor iterates over the sorted keyspace. Every positioning method
// returns a nil key when it runs off either end. Returned slices are only valid
// until the next call.
type storageCursor interface {
	// First moves to the first key-value pair.
	First() (key, value []byte)

	// Last moves to the last key-value pair.
	Last() (key, value []byte)

	// Seek moves to the first key >= seek.
	Seek(seek []byte) (key, value []byte)

	// SeekBefore moves to the last key strictly before limit.
	SeekBefore(limit []byte) (key, value []byte)

	// Next moves to the next key-value pair.
	Next() (key, value []byte)

	// Prev moves to the previous key-value pair.
	Prev() (key, value []byte)

	// Close releases the cursor.
	Close() error
}
