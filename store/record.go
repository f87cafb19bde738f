package store

import (
	"encoding/binary"
	"fmt"

	"github.com/andreyvit/keycoder"
	"github.com/cespare/xxhash/v2"
)

// A record is the stored form of one collection row:
//
//	flags uvarint | data size uvarint | index size uvarint | data | index | checksum
//
// The index part lists the physical index keys the row contributed (see
// appendIndexKeys), so updates and deletes can remove stale entries without
// decoding the old value. The checksum is the big-endian xxhash64 of
// everything before it.
type recordFlags uint64

const (
	rfVerBit0 = recordFlags(1 << iota)
	rfVerBit1
	rfVerBit2
	rfVerBit3
	rfEncBit0
	rfEncBit1

	rfVerMask       = (rfVerBit0 | rfVerBit1 | rfVerBit2 | rfVerBit3)
	rfVer1          = rfVerBit0
	rfEncShift      = 4
	rfEncMask       = (rfEncBit0 | rfEncBit1)
	rfSupportedMask = (rfVer1 | rfEncMask)

	checksumSize        = 8
	minRecordSize       = 3 + checksumSize
	maxRecordHeaderSize = binary.MaxVarintLen64 * 3
)

func makeRecordFlags(enc Encoding) recordFlags {
	return rfVer1 | ((recordFlags(enc) << rfEncShift) & rfEncMask)
}

func (rf recordFlags) ver() recordFlags {
	return rf & rfVerMask
}

func (rf recordFlags) encoding() Encoding {
	return Encoding((rf & rfEncMask) >> rfEncShift)
}

type record struct {
	Flags recordFlags
	Data  []byte
	Index []byte
}

// reserveRecordHeader leaves room for the header so that the data can be
// encoded in place; putRecordHeader fills it in once the sizes are known.
func reserveRecordHeader(buf []byte) []byte {
	if len(buf) != 0 {
		panic("record must be written to an empty buffer")
	}
	if cap(buf) < maxRecordHeaderSize {
		buf = make([]byte, 0, 256)
	}
	return buf[:maxRecordHeaderSize]
}

// putRecordHeader writes the header for a record whose data occupies
// buf[maxRecordHeaderSize:indexOff] and whose index part runs to the end of
// buf, then appends the checksum. The result is a suffix of buf.
func putRecordHeader(buf []byte, flags recordFlags, indexOff int) []byte {
	if indexOff > len(buf) || indexOff < maxRecordHeaderSize {
		panic(fmt.Errorf("invalid indexOff=%d", indexOff)) // sanity check
	}
	if (flags &^ rfSupportedMask) != 0 {
		panic(fmt.Errorf("invalid flags %x", flags))
	}
	dataSize := indexOff - maxRecordHeaderSize
	indexSize := len(buf) - indexOff

	var hdr [maxRecordHeaderSize]byte
	h := binary.AppendUvarint(hdr[:0], uint64(flags))
	h = binary.AppendUvarint(h, uint64(dataSize))
	h = binary.AppendUvarint(h, uint64(indexSize))

	// move the header closer to data
	start := maxRecordHeaderSize - len(h)
	copy(buf[start:maxRecordHeaderSize], h)
	buf = buf[start:]

	return binary.BigEndian.AppendUint64(buf, xxhash.Sum64(buf))
}

func recordErrf(data []byte, off int, format string, args ...any) error {
	return &keycoder.DataError{Data: data, Off: off, Err: ErrCorruptRecord, Msg: fmt.Sprintf(format, args...)}
}

// decode parses a record. Data and Index alias raw.
func (rec *record) decode(raw []byte) error {
	if len(raw) < minRecordSize {
		return recordErrf(raw, 0, "invalid record: at least %d bytes required", minRecordSize)
	}
	body := raw[:len(raw)-checksumSize]
	if sum := binary.BigEndian.Uint64(raw[len(body):]); sum != xxhash.Sum64(body) {
		return recordErrf(raw, len(body), "invalid record: checksum mismatch")
	}

	data := body
	v, n := binary.Uvarint(data)
	if n <= 0 {
		return recordErrf(raw, len(body)-len(data), "invalid record: bad flags")
	}
	if (v&^uint64(rfSupportedMask)) != 0 || recordFlags(v).ver() != rfVer1 || !recordFlags(v).encoding().valid() {
		return recordErrf(raw, len(body)-len(data), "invalid record: unsupported flags %x", v)
	}
	rec.Flags, data = recordFlags(v), data[n:]

	dataSize, n := binary.Uvarint(data)
	if n <= 0 {
		return recordErrf(raw, len(body)-len(data), "invalid record: bad data size")
	}
	data = data[n:]

	indexSize, n := binary.Uvarint(data)
	if n <= 0 {
		return recordErrf(raw, len(body)-len(data), "invalid record: bad index size")
	}
	data = data[n:]

	if dataSize > uint64(len(data)) || indexSize != uint64(len(data))-dataSize {
		return recordErrf(raw, len(body)-len(data), "invalid record: got %d bytes for data+index, expected %d+%d bytes", len(data), dataSize, indexSize)
	}
	rec.Data, rec.Index = data[:dataSize], data[dataSize:]
	return nil
}

// encodeRecord serializes val with enc followed by the given index keys.
func encodeRecord(enc Encoding, val any, indexKeys [][]byte) ([]byte, error) {
	buf, err := enc.appendValue(reserveRecordHeader(nil), val)
	if err != nil {
		return nil, err
	}
	indexOff := len(buf)
	buf = appendIndexKeys(buf, indexKeys)
	return putRecordHeader(buf, makeRecordFlags(enc), indexOff), nil
}

// reencodeRecord keeps the data of rec and replaces its index keys.
func reencodeRecord(rec *record, indexKeys [][]byte) []byte {
	buf := reserveRecordHeader(make([]byte, 0, maxRecordHeaderSize+len(rec.Data)+64))
	buf = append(buf, rec.Data...)
	indexOff := len(buf)
	buf = appendIndexKeys(buf, indexKeys)
	return putRecordHeader(buf, rec.Flags, indexOff)
}
