package row

import (
	"math"

	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
)

const nullLength = -1

// fieldRange is the location of one field in a tuple body. A zero value with valid unset is NULL.
type fieldRange struct {
	start int
	end   int
	valid bool
}

// parseRanges validates the framing of a tuple body and returns the range of every field:
//
//	int16 fieldCount, then per field: int32 length (-1 for NULL) followed by length bytes
func parseRanges(body []byte) ([]fieldRange, error) {
	if len(body) < 2 {
		return nil, errors.Errorf("unexpected EOF reading field count: tuple is %d bytes", len(body))
	}
	count, offset := common.ReadUint16FromBufferBE(body, 0)
	if int16(count) < 0 {
		return nil, errors.Errorf("invalid field count %d", int16(count))
	}
	if len(body)-offset < 4*int(count) {
		return nil, errors.Errorf("unexpected EOF: %d fields need at least %d bytes, have %d", count, 4*int(count), len(body)-offset)
	}
	ranges := make([]fieldRange, count)
	for i := range ranges {
		if len(body)-offset < 4 {
			return nil, errors.Errorf("unexpected EOF reading length of field %d", i)
		}
		var u uint32
		u, offset = common.ReadUint32FromBufferBE(body, offset)
		l := int(int32(u))
		if l == nullLength {
			continue
		}
		if l < 0 {
			return nil, errors.Errorf("invalid length %d for field %d", l, i)
		}
		if len(body)-offset < l {
			return nil, errors.Errorf("unexpected EOF reading field %d: need %d bytes, have %d", i, l, len(body)-offset)
		}
		ranges[i] = fieldRange{start: offset, end: offset + l, valid: true}
		offset += l
	}
	if offset != len(body) {
		return nil, errors.Errorf("invalid tuple length: %d trailing bytes", len(body)-offset)
	}
	return ranges, nil
}

// AppendTuple encodes fields in the tuple wire layout and appends them to buffer. A nil field is
// encoded as NULL, an empty non-nil field as a zero length value.
func AppendTuple(buffer []byte, fields [][]byte) []byte {
	if len(fields) > math.MaxInt16 {
		panic("too many fields for a tuple")
	}
	buffer = common.AppendUint16ToBufferBE(buffer, uint16(len(fields)))
	for _, f := range fields {
		if f == nil {
			buffer = common.AppendUint32ToBufferBE(buffer, uint32(0xFFFFFFFF))
			continue
		}
		buffer = common.AppendUint32ToBufferBE(buffer, uint32(len(f)))
		buffer = append(buffer, f...)
	}
	return buffer
}
