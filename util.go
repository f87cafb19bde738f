package keycoder

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func wrapElement(err error, i int) error {
	return errors.Wrapf(err, "element %d", i)
}

func unsafeBytesFromString(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
