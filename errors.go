package keycoder

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrUnsupportedValue is returned when encoding a value that has no
	// representation (for example, a Text value holding invalid UTF-8).
	ErrUnsupportedValue = errors.New("unsupported value")

	// ErrTruncatedInput is returned when a decoder runs off the end of its input.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrUnknownKind is returned when a decoder meets a tag byte it does not know.
	ErrUnknownKind = errors.New("unknown kind")

	// ErrInvalidUTF8 is returned when a decoded Text payload is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 in text")

	// ErrInvalidUUIDLength is returned when a UUID payload is not 16 bytes long.
	ErrInvalidUUIDLength = errors.New("invalid UUID length")

	// ErrMalformedSentinelPlacement is returned when a RangeSentinel appears
	// anywhere but the final position of a top-level key, or more than once.
	ErrMalformedSentinelPlacement = errors.New("range sentinel must be the last element of a top-level key")

	// ErrMalformedPayload is returned for corrupt or non-canonical payload bytes.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrPrefixMismatch is returned by DecodeKeys when the input does not
	// start with the expected prefix.
	ErrPrefixMismatch = errors.New("prefix mismatch")
)

// DataError describes a failure to decode a specific byte string.
type DataError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{data, off, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// Is reports whether Err matches target, including targets attached to Err
// with errors.Mark, so that the standard library's errors.Is sees them too.
func (e *DataError) Is(target error) bool {
	return e.Err != nil && errors.Is(e.Err, target)
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s at %d: %v: (%d) %x", e.Msg, e.Off, e.Err, n, e.Data)
		} else {
			return fmt.Sprintf("%s at %d: (%d) %x", e.Msg, e.Off, n, e.Data)
		}
	} else {
		p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
		if e.Err != nil {
			return fmt.Sprintf("%s at %d: %v: (%d) %x...%x", e.Msg, e.Off, e.Err, n, p, s)
		} else {
			return fmt.Sprintf("%s at %d: (%d) %x...%x", e.Msg, e.Off, n, p, s)
		}
	}
}

func unsupportedf(format string, args ...any) error {
	return errors.Wrapf(ErrUnsupportedValue, format, args...)
}
