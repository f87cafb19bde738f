package store

import (
	"fmt"
	"strings"

	"github.com/andreyvit/keycoder"
	"github.com/cockroachdb/errors"
)

var (
	// ErrClosed is returned when using a DB or a transaction after Close,
	// Commit or Rollback.
	ErrClosed = errors.New("store closed")

	// ErrReadOnly is returned when writing through a read-only transaction.
	ErrReadOnly = errors.New("transaction is read-only")

	// ErrCorruptRecord is returned when a stored record fails its checksum or
	// cannot be parsed.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrEncoding is returned when a value cannot be encoded or decoded with
	// its collection's Encoding.
	ErrEncoding = errors.New("value encoding failed")
)

// CollectionError describes a failure that concerns a specific row of a
// collection or an index.
type CollectionError struct {
	Collection *Collection
	Index      *Index
	Key        keycoder.Key
	Msg        string
	Err        error
}

func collErrf(c *Collection, idx *Index, key keycoder.Key, err error, format string, args ...any) error {
	return &CollectionError{c, idx, key, fmt.Sprintf(format, args...), err}
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// Is reports whether Err matches target, marks included (see ErrEncoding).
func (e *CollectionError) Is(target error) bool {
	return e.Err != nil && errors.Is(e.Err, target)
}

func (e *CollectionError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Collection.Name())
	if e.Index != nil {
		buf.WriteByte('.')
		buf.WriteString(e.Index.Name())
	}
	if e.Key != nil {
		buf.WriteByte('/')
		buf.WriteString(e.Key.String())
	}
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}
