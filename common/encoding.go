package common

import (
	"encoding/binary"
	"math"

	"github.com/squareup/pgrow/errors"
)

// Wire values are big-endian (network order) throughout.
var bigEndian = binary.BigEndian

func AppendUint16ToBufferBE(buffer []byte, v uint16) []byte {
	return append(buffer, byte(v>>8), byte(v))
}

func AppendUint32ToBufferBE(buffer []byte, v uint32) []byte {
	return append(buffer, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func AppendUint64ToBufferBE(buffer []byte, v uint64) []byte {
	return append(buffer, byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func AppendFloat32ToBufferBE(buffer []byte, value float32) []byte {
	return AppendUint32ToBufferBE(buffer, math.Float32bits(value))
}

func AppendFloat64ToBufferBE(buffer []byte, value float64) []byte {
	return AppendUint64ToBufferBE(buffer, math.Float64bits(value))
}

// The readers below do not check bounds; callers validate lengths first.

func ReadUint16FromBufferBE(buffer []byte, offset int) (uint16, int) {
	return bigEndian.Uint16(buffer[offset:]), offset + 2
}

func ReadUint32FromBufferBE(buffer []byte, offset int) (uint32, int) {
	return bigEndian.Uint32(buffer[offset:]), offset + 4
}

func ReadUint64FromBufferBE(buffer []byte, offset int) (uint64, int) {
	return bigEndian.Uint64(buffer[offset:]), offset + 8
}

func ReadFloat32FromBufferBE(buffer []byte, offset int) (val float32, off int) {
	var u uint32
	u, offset = ReadUint32FromBufferBE(buffer, offset)
	return math.Float32frombits(u), offset
}

func ReadFloat64FromBufferBE(buffer []byte, offset int) (val float64, off int) {
	var u uint64
	u, offset = ReadUint64FromBufferBE(buffer, offset)
	return math.Float64frombits(u), offset
}

// CheckLength returns an error unless raw is exactly n bytes long.
func CheckLength(raw []byte, n int) error {
	if len(raw) != n {
		return errors.Errorf("invalid buffer size: expected %d bytes, got %d", n, len(raw))
	}
	return nil
}
