// Package item implements the self-delimiting wire encoding shared by both
// VDS constructions for the signed message bound to an append or update:
// u32 BE len(data) || u32 BE len(tag) || data || tag || u64 BE index.
package item

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrNegativeIndex is returned by Encode when index exceeds the range
// representable without ambiguity (guards against accidental signed-to-
// unsigned wraparound at call sites).
var ErrNegativeIndex = errors.New("item: index must be non-negative")

// ErrTruncated is returned by Decode when the buffer is shorter than its
// own length-prefixed fields claim.
var ErrTruncated = errors.New("item: truncated or inconsistent length fields")

// ErrFieldTooLarge is returned by Encode when data or tag is too long to
// represent in its u32 BE length prefix.
var ErrFieldTooLarge = errors.New("item: data or tag length exceeds uint32")

// Encode builds the self-delimiting message for (data, tag, index). index
// must fit in an int64's non-negative range; callers that already hold a
// uint64 index pass it through unchanged.
func Encode(data, tag []byte, index uint64) ([]byte, error) {
	if index > math.MaxInt64 {
		return nil, ErrNegativeIndex
	}
	if len(data) > math.MaxUint32 || len(tag) > math.MaxUint32 {
		return nil, ErrFieldTooLarge
	}
	buf := make([]byte, 4+4+len(data)+len(tag)+8)
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(data)))
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(tag)))
	off := 8
	off += copy(buf[off:], data)
	off += copy(buf[off:], tag)
	binary.BigEndian.PutUint64(buf[off:], index)
	return buf, nil
}

// Decode parses a buffer produced by Encode back into (data, tag, index),
// failing on truncation or length fields that exceed the remaining buffer.
func Decode(buf []byte) (data, tag []byte, index uint64, err error) {
	if len(buf) < 8 {
		return nil, nil, 0, fmt.Errorf("%w: buffer shorter than header", ErrTruncated)
	}
	dataLen := binary.BigEndian.Uint32(buf[0:4])
	tagLen := binary.BigEndian.Uint32(buf[4:8])
	need := 8 + uint64(dataLen) + uint64(tagLen) + 8
	if uint64(len(buf)) != need {
		return nil, nil, 0, fmt.Errorf("%w: want %d bytes, got %d", ErrTruncated, need, len(buf))
	}
	off := 8
	data = append([]byte(nil), buf[off:off+int(dataLen)]...)
	off += int(dataLen)
	tag = append([]byte(nil), buf[off:off+int(tagLen)]...)
	off += int(tagLen)
	index = binary.BigEndian.Uint64(buf[off : off+8])
	return data, tag, index, nil
}
