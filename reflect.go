package keycoder

import (
	"math/big"
	"reflect"

	"github.com/google/uuid"
)

// ValueOf converts a native Go value into a Value:
//
//	nil                         null
//	int, int8 ... uint64        integer
//	*big.Int                    integer
//	bool                        bool
//	[]byte                      blob
//	string                      text
//	uuid.UUID, [16]byte         UUID
//	Key, []Value, []any         nested key
//	Value                       itself
//
// Named types with one of these underlying kinds are accepted too. Anything
// else fails with ErrUnsupportedValue.
func ValueOf(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case Key:
		return Nested(x), nil
	case []Value:
		return Nested(Key(x)), nil
	case []any:
		key, err := KeyOf(x...)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindKey, key: key}, nil
	case int:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case int32:
		return Int(int64(x)), nil
	case uint64:
		return Uint(x), nil
	case uint32:
		return Int(int64(x)), nil
	case *big.Int:
		return BigInt(x), nil
	case bool:
		return Bool(x), nil
	case string:
		return Text(x), nil
	case []byte:
		return Blob(x), nil
	case uuid.UUID:
		return UUID(x), nil
	case [16]byte:
		return UUID(uuid.UUID(x)), nil
	}
	return valueOfReflect(reflect.ValueOf(x))
}

func valueOfReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Blob(rv.Bytes()), nil
		}
	case reflect.Array:
		if rv.Len() == uuidSize && rv.Type().Elem().Kind() == reflect.Uint8 {
			var id uuid.UUID
			for i := range id {
				id[i] = byte(rv.Index(i).Uint())
			}
			return UUID(id), nil
		}
	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		return ValueOf(rv.Elem().Interface())
	}
	return Value{}, unsupportedf("cannot convert %v to a key value", rv.Type())
}

// KeyOf converts each argument with ValueOf.
func KeyOf(xs ...any) (Key, error) {
	key := make(Key, 0, len(xs))
	for i, x := range xs {
		v, err := ValueOf(x)
		if err != nil {
			return nil, wrapElement(err, i)
		}
		key = append(key, v)
	}
	return key, nil
}

// MustKey is like KeyOf but panics on error. It is meant for keys built from
// literals.
func MustKey(xs ...any) Key {
	return must(KeyOf(xs...))
}

// Any returns the native Go form of v: nil, int64 (or *big.Int when the
// value doesn't fit), bool, []byte, string, uuid.UUID or Key. The sentinel
// returns itself.
func (v Value) Any() any {
	switch v.kind {
	case kindEnd, KindNull:
		return nil
	case KindInteger:
		if v.big != nil {
			return v.BigInt()
		}
		return v.num
	case KindBool:
		return v.Bool()
	case KindBlob:
		return v.raw
	case KindText:
		return v.str
	case KindUUID:
		return v.id
	case KindKey:
		return v.key
	default:
		return v
	}
}
