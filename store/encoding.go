package store

import (
	"bytes"
	"encoding/json"

	"github.com/andreyvit/keycoder"
	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects how a collection serializes its values.
type Encoding int

const (
	// MsgPack stores values with github.com/vmihailenco/msgpack/v5.
	MsgPack Encoding = iota
	// JSON stores values with encoding/json.
	JSON
	// KeyCoder stores a single keycoder value (anything ValueOf accepts)
	// in its order-preserving encoding.
	KeyCoder

	defaultValueEncoding = MsgPack
)

func (enc Encoding) String() string {
	switch enc {
	case MsgPack:
		return "msgpack"
	case JSON:
		return "json"
	case KeyCoder:
		return "keycoder"
	default:
		return "unknown"
	}
}

func (enc Encoding) valid() bool {
	return enc >= MsgPack && enc <= KeyCoder
}

func encodingErr(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrEncoding)
}

// appendValue appends the serialized form of val to buf.
func (enc Encoding) appendValue(buf []byte, val any) ([]byte, error) {
	switch enc {
	case MsgPack:
		bb := bytes.NewBuffer(buf)
		e := msgpack.GetEncoder()
		e.Reset(bb)
		e.SetSortMapKeys(true)
		err := e.Encode(val)
		msgpack.PutEncoder(e)
		if err != nil {
			return buf, encodingErr(err, "msgpack: encode %T", val)
		}
		return bb.Bytes(), nil
	case JSON:
		raw, err := json.Marshal(val)
		if err != nil {
			return buf, encodingErr(err, "json: encode %T", val)
		}
		return append(buf, raw...), nil
	case KeyCoder:
		v, err := keycoder.ValueOf(val)
		if err != nil {
			return buf, encodingErr(err, "keycoder: encode %T", val)
		}
		out, err := keycoder.AppendValue(buf, v)
		if err != nil {
			return buf, encodingErr(err, "keycoder: encode %v", v)
		}
		return out, nil
	default:
		return buf, errors.Wrapf(ErrEncoding, "unsupported encoding %d", int(enc))
	}
}

// decodeValue decodes data into out, which must be a non-nil pointer.
// KeyCoder values decode into *keycoder.Value, *keycoder.Key (a nested key)
// or *any.
func (enc Encoding) decodeValue(data []byte, out any) error {
	switch enc {
	case MsgPack:
		r := bytes.NewReader(data)
		d := msgpack.GetDecoder()
		d.Reset(r)
		err := d.Decode(out)
		msgpack.PutDecoder(d)
		if err != nil {
			return encodingErr(err, "msgpack: decode into %T", out)
		}
		return nil
	case JSON:
		if err := json.Unmarshal(data, out); err != nil {
			return encodingErr(err, "json: decode into %T", out)
		}
		return nil
	case KeyCoder:
		v, err := keycoder.DecodeValue(data)
		if err != nil {
			return encodingErr(err, "keycoder: decode")
		}
		switch out := out.(type) {
		case *keycoder.Value:
			*out = v
		case *keycoder.Key:
			if v.Kind() != keycoder.KindKey {
				return errors.Wrapf(ErrEncoding, "keycoder: cannot decode %v into %T", v.Kind(), out)
			}
			*out = v.Key().Clone()
		case *any:
			*out = v.Any()
		default:
			return errors.Wrapf(ErrEncoding, "keycoder: cannot decode into %T", out)
		}
		return nil
	default:
		return errors.Wrapf(ErrEncoding, "unsupported encoding %d", int(enc))
	}
}
