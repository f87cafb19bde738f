package keycoder

import "strconv"

// Kind is the tag byte that starts every encoded element. The numeric order of
// kinds is the cross-type sort order of values.
type Kind byte

const (
	// kindEnd terminates a nested key. It sorts below every value kind, so a
	// nested key that is a strict prefix of another nested key sorts first.
	kindEnd Kind = 0

	KindNull       Kind = 15
	KindNegInteger Kind = 20
	KindInteger    Kind = 21
	KindBool       Kind = 30
	KindBlob       Kind = 40
	KindText       Kind = 50
	KindUUID       Kind = 90
	KindKey        Kind = 95
	kindSep        Kind = 102
	KindSentinel   Kind = 255
)

func (k Kind) String() string {
	switch k {
	case kindEnd:
		return "end"
	case KindNull:
		return "null"
	case KindNegInteger:
		return "neg_integer"
	case KindInteger:
		return "integer"
	case KindBool:
		return "bool"
	case KindBlob:
		return "blob"
	case KindText:
		return "text"
	case KindUUID:
		return "uuid"
	case KindKey:
		return "key"
	case kindSep:
		return "sep"
	case KindSentinel:
		return "sentinel"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// IsValue reports whether k tags a value, as opposed to the structural
// terminator and separator bytes.
func (k Kind) IsValue() bool {
	switch k {
	case KindNull, KindNegInteger, KindInteger, KindBool, KindBlob, KindText, KindUUID, KindKey, KindSentinel:
		return true
	default:
		return false
	}
}
